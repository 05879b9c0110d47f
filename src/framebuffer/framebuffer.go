// Package framebuffer draws into a linear 32-bit framebuffer handed over by
// the boot loader.
//
// Pixels are XRGB8888 words stored little-endian, so the bytes in memory
// read B, G, R, X. Row stride is the pitch in bytes, which may be larger than
// width*4; the padding at the end of each scanline is never written.
//
// A Framebuffer has exactly one owner during boot and carries no locking.
package framebuffer

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/moogchi/os/src/memory"
)

// BytesPerPixel is the only pixel size the backend writes.
const BytesPerPixel = 4

var (
	ErrAlreadyInitialized = errors.New("framebuffer: already initialized")
	ErrInvalidGeometry    = errors.New("framebuffer: invalid geometry")
	ErrNotInitialized     = errors.New("framebuffer: not initialized")
)

// Info describes the active framebuffer.
type Info struct {
	Addr        uint64
	Width       uint32
	Height      uint32
	Pitch       uint32
	Bpp         uint8
	Initialized bool
}

// Framebuffer is the pixel backend state.
type Framebuffer struct {
	mapper memory.Mapper
	info   Info

	buf []byte
	// drawWidth is width clipped to what fits inside one pitch.
	drawWidth uint32
}

// New returns an uninitialized framebuffer that will map its memory through m.
func New(m memory.Mapper) *Framebuffer {
	return &Framebuffer{mapper: m}
}

// Init records the framebuffer geometry and maps pitch*height bytes at addr.
// Only the first successful call has effect. Bits per pixel is kept as
// metadata; pixels are always written as 4-byte words.
func (f *Framebuffer) Init(addr uint64, width, height, pitch uint32, bpp uint8) error {
	if f.info.Initialized {
		return ErrAlreadyInitialized
	}
	if addr == 0 || width == 0 || height == 0 || pitch == 0 {
		return fmt.Errorf("addr 0x%x %dx%d pitch %d: %w", addr, width, height, pitch, ErrInvalidGeometry)
	}
	size := uint64(pitch) * uint64(height)
	if size > uint64(maxInt) {
		return fmt.Errorf("%d bytes: %w", size, ErrInvalidGeometry)
	}
	buf, err := f.mapper.Map(addr, int(size))
	if err != nil {
		return fmt.Errorf("map framebuffer at 0x%x: %w", addr, err)
	}

	f.buf = buf
	f.drawWidth = width
	if limit := pitch / BytesPerPixel; f.drawWidth > limit {
		f.drawWidth = limit
	}
	f.info = Info{
		Addr:        addr,
		Width:       width,
		Height:      height,
		Pitch:       pitch,
		Bpp:         bpp,
		Initialized: true,
	}
	return nil
}

const maxInt = int(^uint(0) >> 1)

// Info returns the recorded geometry.
func (f *Framebuffer) Info() Info {
	return f.info
}

// Clear paints every visible pixel.
//
//go:nosplit
func (f *Framebuffer) Clear(c Color) {
	if !f.info.Initialized {
		return
	}
	for y := uint32(0); y < f.info.Height; y++ {
		row := f.buf[int(y)*int(f.info.Pitch):]
		for x := uint32(0); x < f.drawWidth; x++ {
			binary.LittleEndian.PutUint32(row[int(x)*BytesPerPixel:], uint32(c))
		}
	}
}

// PutPixel writes one pixel. Coordinates outside the screen are ignored.
//
//go:nosplit
func (f *Framebuffer) PutPixel(x, y uint32, c Color) {
	if !f.info.Initialized || x >= f.drawWidth || y >= f.info.Height {
		return
	}
	binary.LittleEndian.PutUint32(f.buf[f.offset(x, y):], uint32(c))
}

// Pixel reads one pixel back. It returns 0 outside the screen.
func (f *Framebuffer) Pixel(x, y uint32) Color {
	if !f.info.Initialized || x >= f.drawWidth || y >= f.info.Height {
		return 0
	}
	return Color(binary.LittleEndian.Uint32(f.buf[f.offset(x, y):]))
}

// offset is y*pitch + x*4, computed in int so large screens cannot wrap.
func (f *Framebuffer) offset(x, y uint32) int {
	return int(y)*int(f.info.Pitch) + int(x)*BytesPerPixel
}

// FillRect fills the part of the rectangle that lies on screen.
func (f *Framebuffer) FillRect(x, y, w, h uint32, c Color) {
	if !f.info.Initialized || x >= f.drawWidth || y >= f.info.Height {
		return
	}
	x1 := clip(x, w, f.drawWidth)
	y1 := clip(y, h, f.info.Height)
	for py := y; py < y1; py++ {
		row := f.buf[int(py)*int(f.info.Pitch):]
		for px := x; px < x1; px++ {
			binary.LittleEndian.PutUint32(row[int(px)*BytesPerPixel:], uint32(c))
		}
	}
}

// clip returns min(start+length, limit) without overflowing.
func clip(start, length, limit uint32) uint32 {
	end := uint64(start) + uint64(length)
	if end > uint64(limit) {
		return limit
	}
	return uint32(end)
}

// DrawChar renders one glyph cell at pixel origin (x, y), painting every
// pixel of the cell with either fg or bg.
func (f *Framebuffer) DrawChar(x, y uint32, ch byte, fg, bg Color) {
	f.drawGlyph(x, y, ch, fg, bg, true)
}

// Print renders s on a single line starting at (x, y). Only glyph pixels are
// painted; the background shows through. Characters that fall off the right
// edge are clipped, never wrapped.
func (f *Framebuffer) Print(s string, x, y uint32, c Color) {
	if !f.info.Initialized {
		return
	}
	for i := 0; i < len(s); i++ {
		if x >= f.drawWidth {
			return
		}
		f.drawGlyph(x, y, s[i], c, 0, false)
		x += GlyphWidth
	}
}

func (f *Framebuffer) drawGlyph(x, y uint32, ch byte, fg, bg Color, opaque bool) {
	if !f.info.Initialized || x >= f.drawWidth || y >= f.info.Height {
		return
	}
	g := Glyph(ch)
	for row := uint32(0); row < GlyphHeight; row++ {
		bits := g[row]
		for col := uint32(0); col < GlyphWidth; col++ {
			// bit 0 is the leftmost pixel
			if bits&(1<<col) != 0 {
				f.PutPixel(x+col, y+row, fg)
			} else if opaque {
				f.PutPixel(x+col, y+row, bg)
			}
		}
	}
}
