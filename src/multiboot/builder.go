package multiboot

import "encoding/binary"

// Builder assembles a boot information block the way a loader lays it out.
// The host tools and tests use it; the kernel only ever reads blocks.
type Builder struct {
	tags []byte
}

// Raw appends a tag with an arbitrary declared size and payload. The tag is
// padded to the next 8-byte boundary. The declared size is written as given
// so malformed blocks can be produced on purpose.
func (b *Builder) Raw(t TagType, size uint32, payload []byte) *Builder {
	var hdr [TagHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(t))
	binary.LittleEndian.PutUint32(hdr[4:], size)
	b.tags = append(b.tags, hdr[:]...)
	b.tags = append(b.tags, payload...)
	for len(b.tags)%TagAlign != 0 {
		b.tags = append(b.tags, 0)
	}
	return b
}

// Tag appends a tag whose size is computed from the payload.
func (b *Builder) Tag(t TagType, payload []byte) *Builder {
	return b.Raw(t, uint32(TagHeaderSize+len(payload)), payload)
}

// StringTag appends a NUL-terminated string tag.
func (b *Builder) StringTag(t TagType, s string) *Builder {
	p := make([]byte, len(s)+1)
	copy(p, s)
	return b.Tag(t, p)
}

func (b *Builder) CommandLine(s string) *Builder    { return b.StringTag(TagCmdline, s) }
func (b *Builder) BootLoaderName(s string) *Builder { return b.StringTag(TagBootLoaderName, s) }

// Framebuffer appends a framebuffer tag with the given common fields and
// colour trailer.
func (b *Builder) Framebuffer(fb FramebufferTag) *Builder {
	p := make([]byte, fbColorOff-TagHeaderSize+len(fb.ColorInfo))
	binary.LittleEndian.PutUint64(p[fbAddrOff-TagHeaderSize:], fb.Addr)
	binary.LittleEndian.PutUint32(p[fbPitchOff-TagHeaderSize:], fb.Pitch)
	binary.LittleEndian.PutUint32(p[fbWidthOff-TagHeaderSize:], fb.Width)
	binary.LittleEndian.PutUint32(p[fbHeightOff-TagHeaderSize:], fb.Height)
	p[fbBppOff-TagHeaderSize] = fb.Bpp
	p[fbTypeOff-TagHeaderSize] = uint8(fb.Type)
	copy(p[fbColorOff-TagHeaderSize:], fb.ColorInfo)
	return b.Tag(TagFramebuffer, p)
}

// RGBFramebuffer appends a direct-colour framebuffer tag with the usual
// XRGB8888 channel layout.
func (b *Builder) RGBFramebuffer(addr uint64, width, height, pitch uint32, bpp uint8) *Builder {
	return b.Framebuffer(FramebufferTag{
		Addr:   addr,
		Pitch:  pitch,
		Width:  width,
		Height: height,
		Bpp:    bpp,
		Type:   FramebufferRGB,
		// red pos/size, green pos/size, blue pos/size
		ColorInfo: []byte{16, 8, 8, 8, 0, 8},
	})
}

// MemoryMap appends a memory map tag with 24-byte entries.
func (b *Builder) MemoryMap(entries []MemoryMapEntry) *Builder {
	const entrySize = 24
	p := make([]byte, 8+entrySize*len(entries))
	binary.LittleEndian.PutUint32(p[0:], entrySize)
	for i, e := range entries {
		off := 8 + i*entrySize
		binary.LittleEndian.PutUint64(p[off:], e.Base)
		binary.LittleEndian.PutUint64(p[off+8:], e.Length)
		binary.LittleEndian.PutUint32(p[off+16:], uint32(e.Type))
	}
	return b.Tag(TagMmap, p)
}

// Bytes returns the finished block: header, tags, and a terminating end tag.
func (b *Builder) Bytes() []byte {
	return b.assemble(true)
}

// Unterminated returns the block without an end tag.
func (b *Builder) Unterminated() []byte {
	return b.assemble(false)
}

func (b *Builder) assemble(withEnd bool) []byte {
	n := InfoHeaderSize + len(b.tags)
	if withEnd {
		n += TagHeaderSize
	}
	out := make([]byte, InfoHeaderSize, n)
	binary.LittleEndian.PutUint32(out[0:], uint32(n))
	out = append(out, b.tags...)
	if withEnd {
		var end [TagHeaderSize]byte
		binary.LittleEndian.PutUint32(end[4:], TagHeaderSize)
		out = append(out, end[:]...)
	}
	return out
}
