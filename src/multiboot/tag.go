package multiboot

import (
	"encoding/binary"
	"fmt"
)

// Tag is a transient view of one tag record, header included.
type Tag struct {
	Type   TagType
	Size   uint32
	Offset int // byte offset from the start of the info block

	data []byte
}

// Payload returns the bytes following the tag header, without padding.
func (t Tag) Payload() []byte {
	if len(t.data) < TagHeaderSize {
		return nil
	}
	return t.data[TagHeaderSize:]
}

// String decodes a NUL-terminated string payload (cmdline, boot loader
// name). For other tag types it returns the empty string.
func (t Tag) String() string {
	if t.Type != TagCmdline && t.Type != TagBootLoaderName {
		return ""
	}
	p := t.Payload()
	for i, b := range p {
		if b == 0 {
			return string(p[:i])
		}
	}
	return string(p)
}

// FramebufferType describes the pixel layout the loader set up.
type FramebufferType uint8

const (
	FramebufferIndexed FramebufferType = 0
	FramebufferRGB     FramebufferType = 1
	FramebufferEGAText FramebufferType = 2
)

func (t FramebufferType) String() string {
	switch t {
	case FramebufferIndexed:
		return "indexed"
	case FramebufferRGB:
		return "rgb"
	case FramebufferEGAText:
		return "ega-text"
	default:
		return fmt.Sprintf("type-%d", uint8(t))
	}
}

// Offsets into a framebuffer tag, measured from the start of the tag.
const (
	fbAddrOff   = 8
	fbPitchOff  = 16
	fbWidthOff  = 20
	fbHeightOff = 24
	fbBppOff    = 28
	fbTypeOff   = 29
	fbColorOff  = 32

	// FramebufferTagMinSize covers every field up to framebuffer_type.
	FramebufferTagMinSize = 30
)

// FramebufferTag is the decoded common part of a framebuffer tag.
type FramebufferTag struct {
	Addr   uint64
	Pitch  uint32
	Width  uint32
	Height uint32
	Bpp    uint8
	Type   FramebufferType

	// ColorInfo is the type-specific trailer, left undecoded.
	ColorInfo []byte
}

// Framebuffer reinterprets the tag as a framebuffer tag.
func (t Tag) Framebuffer() (FramebufferTag, error) {
	if t.Type != TagFramebuffer {
		return FramebufferTag{}, fmt.Errorf("%s tag: %w", t.Type, ErrWrongType)
	}
	if len(t.data) < FramebufferTagMinSize {
		return FramebufferTag{}, fmt.Errorf("framebuffer tag of %d bytes: %w", len(t.data), ErrShortTag)
	}
	d := t.data
	fb := FramebufferTag{
		Addr:   binary.LittleEndian.Uint64(d[fbAddrOff:]),
		Pitch:  binary.LittleEndian.Uint32(d[fbPitchOff:]),
		Width:  binary.LittleEndian.Uint32(d[fbWidthOff:]),
		Height: binary.LittleEndian.Uint32(d[fbHeightOff:]),
		Bpp:    d[fbBppOff],
		Type:   FramebufferType(d[fbTypeOff]),
	}
	if len(d) > fbColorOff {
		fb.ColorInfo = d[fbColorOff:]
	}
	return fb, nil
}

// MemoryType classifies a memory map entry.
type MemoryType uint32

const (
	MemAvailable       MemoryType = 1
	MemReserved        MemoryType = 2
	MemACPIReclaimable MemoryType = 3
	MemNVS             MemoryType = 4
	MemBadRAM          MemoryType = 5
)

func (m MemoryType) String() string {
	switch m {
	case MemAvailable:
		return "available"
	case MemACPIReclaimable:
		return "acpi-reclaimable"
	case MemNVS:
		return "nvs"
	case MemBadRAM:
		return "bad-ram"
	default:
		return "reserved"
	}
}

// MemoryMapEntry is one region from a memory map tag.
type MemoryMapEntry struct {
	Base   uint64
	Length uint64
	Type   MemoryType
}

const (
	mmapEntriesOff = 16
	mmapEntryMin   = 20
)

// MemoryMap calls fn for each entry of a memory map tag. Unknown entry types
// are reported as MemReserved.
func (t Tag) MemoryMap(fn func(MemoryMapEntry) bool) error {
	if t.Type != TagMmap {
		return fmt.Errorf("%s tag: %w", t.Type, ErrWrongType)
	}
	if len(t.data) < mmapEntriesOff {
		return fmt.Errorf("mmap tag of %d bytes: %w", len(t.data), ErrShortTag)
	}
	entrySize := int(binary.LittleEndian.Uint32(t.data[8:]))
	if entrySize < mmapEntryMin {
		return fmt.Errorf("mmap entry size %d: %w", entrySize, ErrShortTag)
	}
	for off := mmapEntriesOff; off+entrySize <= len(t.data); off += entrySize {
		e := MemoryMapEntry{
			Base:   binary.LittleEndian.Uint64(t.data[off:]),
			Length: binary.LittleEndian.Uint64(t.data[off+8:]),
			Type:   MemoryType(binary.LittleEndian.Uint32(t.data[off+16:])),
		}
		if e.Type == 0 || e.Type > MemBadRAM {
			e.Type = MemReserved
		}
		if !fn(e) {
			return nil
		}
	}
	return nil
}
