// Package multiboot walks the Multiboot2 boot information block handed to
// the kernel by the boot loader.
//
// The block is an 8-byte header (total_size, reserved) followed by tag
// records. Every record starts with a (type, size) header; size counts the
// header but not the padding, and the next record begins at the following
// 8-byte boundary. A record of type TagEnd terminates the list.
package multiboot

import "errors"

// BootloaderMagic is the value a Multiboot2 compliant loader leaves in EAX.
const BootloaderMagic uint32 = 0x36D76289

const (
	// InfoHeaderSize is the size of the total_size + reserved header.
	InfoHeaderSize = 8

	// TagHeaderSize is the size of the type + size header of every tag.
	TagHeaderSize = 8

	// TagAlign is the alignment every tag starts on.
	TagAlign = 8
)

// TagType is the discriminant of a tag record.
type TagType uint32

const (
	TagEnd            TagType = 0
	TagCmdline        TagType = 1
	TagBootLoaderName TagType = 2
	TagModule         TagType = 3
	TagBasicMemInfo   TagType = 4
	TagBootDev        TagType = 5
	TagMmap           TagType = 6
	TagVBE            TagType = 7
	TagFramebuffer    TagType = 8
)

func (t TagType) String() string {
	switch t {
	case TagEnd:
		return "end"
	case TagCmdline:
		return "cmdline"
	case TagBootLoaderName:
		return "boot-loader-name"
	case TagModule:
		return "module"
	case TagBasicMemInfo:
		return "basic-meminfo"
	case TagBootDev:
		return "bootdev"
	case TagMmap:
		return "mmap"
	case TagVBE:
		return "vbe"
	case TagFramebuffer:
		return "framebuffer"
	default:
		return "unknown"
	}
}

var (
	ErrShortInfo   = errors.New("multiboot: info block shorter than its header")
	ErrTruncated   = errors.New("multiboot: info block truncated")
	ErrTagTooSmall = errors.New("multiboot: tag smaller than its header")
	ErrTagOverrun  = errors.New("multiboot: tag extends past the info block")
	ErrMissingEnd  = errors.New("multiboot: no end tag before end of block")
	ErrWrongType   = errors.New("multiboot: tag has a different type")
	ErrShortTag    = errors.New("multiboot: tag too short for its type")
)

// AlignedSize rounds a tag's declared size up to the next multiple of 8,
// which is the distance to the next tag. The result is 64-bit so sizes near
// the top of the uint32 range do not wrap to 0.
func AlignedSize(size uint32) uint64 {
	return (uint64(size) + TagAlign - 1) &^ (TagAlign - 1)
}
