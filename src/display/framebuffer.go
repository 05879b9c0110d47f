package display

import "github.com/moogchi/os/src/framebuffer"

// Layout places status lines on the pixel screen.
type Layout struct {
	OriginX    uint32
	OriginY    uint32
	LineHeight uint32
}

// FramebufferRenderer draws on a linear framebuffer.
type FramebufferRenderer struct {
	fb     *framebuffer.Framebuffer
	scheme framebuffer.ColorScheme
	layout Layout
}

func NewFramebufferRenderer(fb *framebuffer.Framebuffer, scheme framebuffer.ColorScheme, layout Layout) *FramebufferRenderer {
	return &FramebufferRenderer{fb: fb, scheme: scheme, layout: layout}
}

func (r *FramebufferRenderer) Kind() Kind { return KindFramebuffer }

// Framebuffer returns the underlying backend.
func (r *FramebufferRenderer) Framebuffer() *framebuffer.Framebuffer { return r.fb }

func (r *FramebufferRenderer) Clear() {
	r.fb.Clear(r.scheme.Background)
}

// DrawGlyph paints a full glyph cell, background included. Cells that start
// off screen are ignored.
func (r *FramebufferRenderer) DrawGlyph(col, row uint32, ch byte, tone Tone) {
	x, ok := onScreen(uint64(col)*framebuffer.GlyphWidth, r.fb.Info().Width)
	if !ok {
		return
	}
	y, ok := onScreen(uint64(row)*framebuffer.GlyphHeight, r.fb.Info().Height)
	if !ok {
		return
	}
	r.fb.DrawChar(x, y, ch, r.color(tone), r.scheme.Background)
}

// DrawString prints s at OriginY + line*LineHeight with a transparent
// background. Lines below the screen are ignored.
func (r *FramebufferRenderer) DrawString(s string, line uint32, tone Tone) {
	y, ok := onScreen(uint64(r.layout.OriginY)+uint64(line)*uint64(r.layout.LineHeight), r.fb.Info().Height)
	if !ok {
		return
	}
	r.fb.Print(s, r.layout.OriginX, y, r.color(tone))
}

// onScreen narrows a 64-bit pixel coordinate back to uint32 when it is below
// limit.
func onScreen(v uint64, limit uint32) (uint32, bool) {
	if v >= uint64(limit) {
		return 0, false
	}
	return uint32(v), true
}

func (r *FramebufferRenderer) color(t Tone) framebuffer.Color {
	switch t {
	case ToneTitle:
		return r.scheme.Title
	case ToneSuccess:
		return r.scheme.Success
	default:
		return r.scheme.Text
	}
}
