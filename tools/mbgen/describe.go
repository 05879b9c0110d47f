package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/moogchi/os/src/multiboot"
)

var errDescription = errors.New("invalid tag description")

// description is the TOML layout of a boot information block. Tags are
// emitted in a fixed order: loader, cmdline, raw tags, framebuffer, mmap.
type description struct {
	Loader      *string          `toml:"loader"`
	Cmdline     *string          `toml:"cmdline"`
	Raw         []rawTag         `toml:"raw"`
	Framebuffer *framebufferDesc `toml:"framebuffer"`
	Mmap        []mmapDesc       `toml:"mmap"`
}

type rawTag struct {
	Type    uint32 `toml:"type"`
	Size    uint32 `toml:"size"` // 0 means header plus payload
	Payload string `toml:"payload"`
}

type framebufferDesc struct {
	Addr   uint64 `toml:"addr"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
	Pitch  uint32 `toml:"pitch"` // 0 means width*4
	Bpp    uint8  `toml:"bpp"`
	Type   string `toml:"type"`
}

type mmapDesc struct {
	Base   uint64 `toml:"base"`
	Length uint64 `toml:"length"`
	Type   string `toml:"type"`
}

func loadDescription(path string) (description, error) {
	var d description
	meta, err := toml.DecodeFile(path, &d)
	if err != nil {
		return description{}, fmt.Errorf("read %s: %w", path, err)
	}
	return d, checkKeys(meta)
}

func decodeDescription(s string) (description, error) {
	var d description
	meta, err := toml.Decode(s, &d)
	if err != nil {
		return description{}, err
	}
	return d, checkKeys(meta)
}

func checkKeys(meta toml.MetaData) error {
	if undec := meta.Undecoded(); len(undec) > 0 {
		return fmt.Errorf("unknown key %q: %w", undec[0].String(), errDescription)
	}
	return nil
}

// blob encodes d as a terminated boot information block.
func (d description) blob() ([]byte, error) {
	var b multiboot.Builder
	if d.Loader != nil {
		b.BootLoaderName(*d.Loader)
	}
	if d.Cmdline != nil {
		b.CommandLine(*d.Cmdline)
	}
	for _, r := range d.Raw {
		if r.Type == uint32(multiboot.TagEnd) {
			return nil, fmt.Errorf("raw end tag: %w", errDescription)
		}
		size := r.Size
		if size == 0 {
			size = uint32(multiboot.TagHeaderSize + len(r.Payload))
		}
		b.Raw(multiboot.TagType(r.Type), size, []byte(r.Payload))
	}
	if fb := d.Framebuffer; fb != nil {
		typ, err := parseFramebufferType(fb.Type)
		if err != nil {
			return nil, err
		}
		pitch := fb.Pitch
		if pitch == 0 {
			pitch = fb.Width * 4
		}
		bpp := fb.Bpp
		if bpp == 0 {
			bpp = 32
		}
		if typ == multiboot.FramebufferRGB {
			b.RGBFramebuffer(fb.Addr, fb.Width, fb.Height, pitch, bpp)
		} else {
			b.Framebuffer(multiboot.FramebufferTag{
				Addr: fb.Addr, Width: fb.Width, Height: fb.Height,
				Pitch: pitch, Bpp: bpp, Type: typ,
			})
		}
	}
	if len(d.Mmap) > 0 {
		entries := make([]multiboot.MemoryMapEntry, 0, len(d.Mmap))
		for _, m := range d.Mmap {
			typ, err := parseMemoryType(m.Type)
			if err != nil {
				return nil, err
			}
			entries = append(entries, multiboot.MemoryMapEntry{Base: m.Base, Length: m.Length, Type: typ})
		}
		b.MemoryMap(entries)
	}
	return b.Bytes(), nil
}

func parseFramebufferType(s string) (multiboot.FramebufferType, error) {
	switch strings.ToLower(s) {
	case "", "rgb":
		return multiboot.FramebufferRGB, nil
	case "indexed":
		return multiboot.FramebufferIndexed, nil
	case "ega-text", "text":
		return multiboot.FramebufferEGAText, nil
	}
	return 0, fmt.Errorf("framebuffer type %q: %w", s, errDescription)
}

func parseMemoryType(s string) (multiboot.MemoryType, error) {
	for t := multiboot.MemAvailable; t <= multiboot.MemBadRAM; t++ {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	if s == "" {
		return multiboot.MemAvailable, nil
	}
	return 0, fmt.Errorf("memory type %q: %w", s, errDescription)
}

// dump lists every tag in blob. A malformed tag stops the listing and is
// returned after the tags before it have been printed.
func dump(w io.Writer, blob []byte) error {
	info, err := multiboot.Parse(blob)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "total_size=%d\n", info.TotalSize)
	s := info.Scan()
	for s.Next() {
		t := s.Tag()
		fmt.Fprintf(w, "+0x%03x %-16s size=%d", t.Offset, t.Type, t.Size)
		switch t.Type {
		case multiboot.TagCmdline, multiboot.TagBootLoaderName:
			fmt.Fprintf(w, " %q", t.String())
		case multiboot.TagFramebuffer:
			if fb, err := t.Framebuffer(); err == nil {
				fmt.Fprintf(w, " %dx%d pitch=%d bpp=%d %s addr=0x%x",
					fb.Width, fb.Height, fb.Pitch, fb.Bpp, fb.Type, fb.Addr)
			} else {
				fmt.Fprintf(w, " (%v)", err)
			}
		}
		fmt.Fprintln(w)
		if t.Type == multiboot.TagMmap {
			err := t.MemoryMap(func(e multiboot.MemoryMapEntry) bool {
				fmt.Fprintf(w, "       0x%016x +0x%x %s\n", e.Base, e.Length, e.Type)
				return true
			})
			if err != nil {
				fmt.Fprintf(w, "       (%v)\n", err)
			}
		}
	}
	return s.Err()
}
