package memory

import "unsafe"

// Identity maps physical addresses one-to-one onto the kernel's address
// space. It is only meaningful on the machine itself, where paging is either
// off or identity mapped during early boot.
type Identity struct{}

// Map implements Mapper.
//
//go:nosplit
func (Identity) Map(phys uint64, size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if phys == 0 {
		return nil, ErrUnmapped
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(phys))), size), nil
}
