package display

import (
	"testing"

	"github.com/moogchi/os/src/framebuffer"
	"github.com/moogchi/os/src/memory"
	"github.com/moogchi/os/src/vgatext"
)

func newFramebufferRenderer(t *testing.T) (*FramebufferRenderer, *framebuffer.Framebuffer) {
	t.Helper()
	a := memory.NewArena()
	if _, err := a.Reserve(0xFD000000, 320*4*60); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	fb := framebuffer.New(a)
	if err := fb.Init(0xFD000000, 320, 60, 320*4, 32); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return NewFramebufferRenderer(fb, framebuffer.DefaultScheme, Layout{OriginX: 10, OriginY: 10, LineHeight: 10}), fb
}

func newTextRenderer(t *testing.T) *TextRenderer {
	t.Helper()
	con, err := vgatext.New(make([]byte, 80*25*vgatext.CellSize), 80, 25)
	if err != nil {
		t.Fatalf("vgatext.New: %v", err)
	}
	return NewTextRenderer(con)
}

// anyPixel reports whether a pixel of colour c exists in the given rows.
func anyPixel(fb *framebuffer.Framebuffer, y0, y1 uint32, c framebuffer.Color) bool {
	w := fb.Info().Width
	for y := y0; y < y1; y++ {
		for x := uint32(0); x < w; x++ {
			if fb.Pixel(x, y) == c {
				return true
			}
		}
	}
	return false
}

func TestRenderersSatisfyInterface(t *testing.T) {
	var _ Renderer = (*FramebufferRenderer)(nil)
	var _ Renderer = (*TextRenderer)(nil)
	var _ Separator = (*TextRenderer)(nil)

	fr, _ := newFramebufferRenderer(t)
	if fr.Kind() != KindFramebuffer {
		t.Errorf("Kind() = %s", fr.Kind())
	}
	if tr := newTextRenderer(t); tr.Kind() != KindTextCell {
		t.Errorf("Kind() = %s", tr.Kind())
	}
}

func TestFramebufferDrawStringPlacesLines(t *testing.T) {
	r, fb := newFramebufferRenderer(t)
	r.Clear()
	if fb.Pixel(0, 0) != framebuffer.Navy {
		t.Fatalf("Clear() background = %s", fb.Pixel(0, 0))
	}
	r.DrawString("Copium OS v0.1.0", 0, ToneTitle)
	r.DrawString("System ready.", 3, ToneText)

	if !anyPixel(fb, 10, 18, framebuffer.Yellow) {
		t.Error("title not drawn in yellow on line 0 (y=10)")
	}
	if !anyPixel(fb, 40, 48, framebuffer.White) {
		t.Error("text not drawn in white on line 3 (y=40)")
	}
	if anyPixel(fb, 0, 10, framebuffer.Yellow) || anyPixel(fb, 20, 40, framebuffer.White) {
		t.Error("text drawn outside its line")
	}
}

func TestFramebufferToneColors(t *testing.T) {
	r, fb := newFramebufferRenderer(t)
	r.Clear()
	tests := []struct {
		tone Tone
		want framebuffer.Color
	}{
		{ToneTitle, framebuffer.Yellow},
		{ToneText, framebuffer.White},
		{ToneSuccess, framebuffer.Green},
	}
	for i, tt := range tests {
		r.DrawGlyph(uint32(i), 0, '#', tt.tone)
		// '#' row 0 is 0x36: column 1 lit
		if got := fb.Pixel(uint32(i)*8+1, 0); got != tt.want {
			t.Errorf("%s glyph colour = %s, want %s", tt.tone, got, tt.want)
		}
		if got := fb.Pixel(uint32(i)*8, 0); got != framebuffer.Navy {
			t.Errorf("%s glyph background = %s", tt.tone, got)
		}
	}
}

func TestFramebufferIgnoresOffScreenCells(t *testing.T) {
	r, fb := newFramebufferRenderer(t)
	r.Clear()
	tests := []struct {
		name     string
		col, row uint32
	}{
		{"column wraps to 0", 0x20000000, 0},
		{"row wraps to 0", 0, 0x20000000},
		{"column past width", 40, 0},
		{"max column", ^uint32(0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.DrawGlyph(tt.col, tt.row, '#', ToneTitle)
			if anyPixel(fb, 0, 60, framebuffer.Yellow) {
				t.Errorf("DrawGlyph(%#x, %#x) painted on screen", tt.col, tt.row)
			}
		})
	}
}

func TestFramebufferIgnoresOffScreenLines(t *testing.T) {
	r, fb := newFramebufferRenderer(t)
	r.Clear()
	// 10 + 0x1999999A*10 wraps to 14 in 32 bits
	for _, line := range []uint32{0x1999999A, 5, ^uint32(0)} {
		r.DrawString("Copium", line, ToneTitle)
	}
	if anyPixel(fb, 0, 60, framebuffer.Yellow) {
		t.Error("DrawString past the last line painted on screen")
	}
}

func TestTextRendererStream(t *testing.T) {
	r := newTextRenderer(t)
	r.Clear()
	r.DrawString("ab", 0, ToneTitle)
	r.DrawString("c", 1, ToneText)
	Separate(r)
	r.DrawString("d", 2, ToneSuccess)

	con := r.Console()
	want := "ab\nc\n\nd\n"
	for i := 0; i < len(want); i++ {
		if got := con.Cell(i, 0).Char; got != want[i] {
			t.Fatalf("cell %d = %q, want %q", i, got, want[i])
		}
	}
	if x, y := con.Cursor(); x != len(want) || y != 0 {
		t.Errorf("Cursor() = (%d,%d)", x, y)
	}
}

func TestTextRendererGlyph(t *testing.T) {
	r := newTextRenderer(t)
	r.Clear()
	r.DrawGlyph(5, 2, '*', ToneTitle)
	if c := r.Console().Cell(5, 2); c.Char != '*' || c.Attribute() != vgatext.DefaultAttribute {
		t.Errorf("cell = %+v", c)
	}
	if x, y := r.Console().Cursor(); x != 0 || y != 0 {
		t.Errorf("DrawGlyph moved the cursor to (%d,%d)", x, y)
	}
}

func TestSeparateIgnoresFramebuffer(t *testing.T) {
	r, fb := newFramebufferRenderer(t)
	r.Clear()
	Separate(r)
	if anyPixel(fb, 0, 60, framebuffer.White) {
		t.Error("Separate drew on the framebuffer")
	}
}
