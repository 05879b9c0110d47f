// Package memory gives the kernel byte-slice views of physical memory.
//
// The boot path never dereferences raw addresses directly. Every region it
// touches (the multiboot info block, the linear framebuffer, the VGA text
// buffer) is obtained through a Mapper, so the same drawing code runs against
// identity-mapped RAM on the machine and against an Arena on the host.
package memory

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnmapped    = errors.New("memory: address range not mapped")
	ErrInvalidSize = errors.New("memory: invalid mapping size")
	ErrOverlap     = errors.New("memory: region overlaps an existing reservation")
)

// Mapper returns a writable view of size bytes starting at phys.
type Mapper interface {
	Map(phys uint64, size int) ([]byte, error)
}

// GuardByte fills freshly reserved Arena regions so tests can detect stray
// writes outside the range a backend was handed.
const GuardByte = 0xA5

type region struct {
	base uint64
	data []byte
}

// Arena is a host-side Mapper backed by ordinary Go slices. Only addresses
// inside a reserved region can be mapped.
type Arena struct {
	regions []region
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Reserve backs [phys, phys+size) with memory filled with GuardByte and
// returns the backing slice.
func (a *Arena) Reserve(phys uint64, size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	end := phys + uint64(size)
	for _, r := range a.regions {
		rEnd := r.base + uint64(len(r.data))
		if phys < rEnd && r.base < end {
			return nil, fmt.Errorf("reserve 0x%x+%d: %w", phys, size, ErrOverlap)
		}
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = GuardByte
	}
	a.regions = append(a.regions, region{base: phys, data: data})
	sort.Slice(a.regions, func(i, j int) bool { return a.regions[i].base < a.regions[j].base })
	return data, nil
}

// Load reserves a region exactly the size of b and copies b into it.
func (a *Arena) Load(phys uint64, b []byte) error {
	data, err := a.Reserve(phys, len(b))
	if err != nil {
		return err
	}
	copy(data, b)
	return nil
}

// Map implements Mapper. The returned slice aliases the reserved region.
func (a *Arena) Map(phys uint64, size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	for _, r := range a.regions {
		if phys < r.base {
			continue
		}
		off := phys - r.base
		if off+uint64(size) <= uint64(len(r.data)) {
			return r.data[off : off+uint64(size) : off+uint64(size)], nil
		}
	}
	return nil, fmt.Errorf("map 0x%x+%d: %w", phys, size, ErrUnmapped)
}

// Region returns the whole reserved region that starts at phys, guard bytes
// included.
func (a *Arena) Region(phys uint64) ([]byte, bool) {
	for _, r := range a.regions {
		if r.base == phys {
			return r.data, true
		}
	}
	return nil, false
}
