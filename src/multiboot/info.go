package multiboot

import (
	"encoding/binary"
	"fmt"

	"github.com/moogchi/os/src/memory"
)

// Info is a view of a boot information block. It never copies the block; the
// memory stays owned by the boot loader.
type Info struct {
	TotalSize uint32
	blob      []byte
}

// Parse validates the info header and returns a view bounded to total_size.
func Parse(blob []byte) (*Info, error) {
	if len(blob) < InfoHeaderSize {
		return nil, ErrShortInfo
	}
	total := binary.LittleEndian.Uint32(blob[0:4])
	if total < InfoHeaderSize {
		return nil, ErrShortInfo
	}
	if uint64(total) > uint64(len(blob)) {
		return nil, fmt.Errorf("total_size %d, have %d bytes: %w", total, len(blob), ErrTruncated)
	}
	return &Info{TotalSize: total, blob: blob[:total]}, nil
}

// Load maps the info block at addr, first reading the header to learn its
// size.
func Load(m memory.Mapper, addr uint64) (*Info, error) {
	hdr, err := m.Map(addr, InfoHeaderSize)
	if err != nil {
		return nil, fmt.Errorf("map info header: %w", err)
	}
	total := binary.LittleEndian.Uint32(hdr[0:4])
	if total < InfoHeaderSize {
		return nil, ErrShortInfo
	}
	blob, err := m.Map(addr, int(total))
	if err != nil {
		return nil, fmt.Errorf("map info block (%d bytes): %w", total, err)
	}
	return Parse(blob)
}

// Scan returns a scanner positioned before the first tag.
func (i *Info) Scan() *Scanner {
	return &Scanner{blob: i.blob, off: InfoHeaderSize}
}

// Each calls fn for every tag until fn returns false or the end tag is
// reached. The error is the scanner's error, if any.
func (i *Info) Each(fn func(Tag) bool) error {
	s := i.Scan()
	for s.Next() {
		if !fn(s.Tag()) {
			return nil
		}
	}
	return s.Err()
}

// Find returns the first tag of the given type. Tags before a malformed
// record are still searched; the error reports the malformed record only
// if no match was found first.
func (i *Info) Find(t TagType) (Tag, bool, error) {
	var found Tag
	ok := false
	err := i.Each(func(tag Tag) bool {
		if tag.Type == t {
			found, ok = tag, true
			return false
		}
		return true
	})
	return found, ok, err
}

// FindFramebuffer returns the first framebuffer tag, decoded.
func (i *Info) FindFramebuffer() (FramebufferTag, bool, error) {
	tag, ok, err := i.Find(TagFramebuffer)
	if !ok {
		return FramebufferTag{}, false, err
	}
	fb, err := tag.Framebuffer()
	if err != nil {
		return FramebufferTag{}, false, err
	}
	return fb, true, nil
}

// CommandLine returns the kernel command line, if the loader passed one.
func (i *Info) CommandLine() (string, bool) {
	return i.findString(TagCmdline)
}

// BootLoaderName returns the loader's self-reported name.
func (i *Info) BootLoaderName() (string, bool) {
	return i.findString(TagBootLoaderName)
}

func (i *Info) findString(t TagType) (string, bool) {
	tag, ok, _ := i.Find(t)
	if !ok {
		return "", false
	}
	return tag.String(), true
}

// Scanner walks tags forward-only, in the style of bufio.Scanner. It never
// reads past the end tag or past total_size.
type Scanner struct {
	blob []byte
	off  int
	tag  Tag
	err  error
	done bool
}

// Next advances to the next tag. It returns false at the end tag or on a
// malformed record; Err distinguishes the two.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}
	if s.off+TagHeaderSize > len(s.blob) {
		return s.fail(ErrMissingEnd)
	}
	typ := TagType(binary.LittleEndian.Uint32(s.blob[s.off:]))
	size := binary.LittleEndian.Uint32(s.blob[s.off+4:])
	if typ == TagEnd {
		s.done = true
		return false
	}
	if size < TagHeaderSize {
		return s.fail(fmt.Errorf("tag %s at offset %d declares size %d: %w", typ, s.off, size, ErrTagTooSmall))
	}
	if uint64(s.off)+uint64(size) > uint64(len(s.blob)) {
		return s.fail(fmt.Errorf("tag %s at offset %d size %d: %w", typ, s.off, size, ErrTagOverrun))
	}
	s.tag = Tag{
		Type:   typ,
		Size:   size,
		Offset: s.off,
		data:   s.blob[s.off : s.off+int(size)],
	}
	s.off += int(AlignedSize(size))
	return true
}

func (s *Scanner) fail(err error) bool {
	s.err = err
	s.done = true
	return false
}

// Tag returns the current tag. Only valid after Next returned true.
func (s *Scanner) Tag() Tag {
	return s.tag
}

// Err returns the first malformed-input error, or nil if the walk ended on
// the end tag.
func (s *Scanner) Err() error {
	return s.err
}
