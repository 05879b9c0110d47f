package display

import "github.com/moogchi/os/src/vgatext"

// TextRenderer writes to the text-cell console as one character stream.
// Every status line is followed by a newline byte, which the console stores
// as an ordinary cell. Tones are ignored; all text uses the console's
// current attribute.
type TextRenderer struct {
	con *vgatext.Console
}

func NewTextRenderer(con *vgatext.Console) *TextRenderer {
	return &TextRenderer{con: con}
}

func (r *TextRenderer) Kind() Kind { return KindTextCell }

// Console returns the underlying backend.
func (r *TextRenderer) Console() *vgatext.Console { return r.con }

// Clear resets the console: cursor home, default attribute, blank cells.
func (r *TextRenderer) Clear() {
	r.con.Initialize()
}

func (r *TextRenderer) DrawGlyph(col, row uint32, ch byte, _ Tone) {
	r.con.PutCharAt(ch, r.con.Color(), int(col), int(row))
}

// DrawString appends s and a newline at the cursor. The line number is not
// used; lines land in call order.
func (r *TextRenderer) DrawString(s string, _ uint32, _ Tone) {
	r.con.WriteString(s)
	r.con.PutChar('\n')
}

// Separate writes a lone newline byte.
func (r *TextRenderer) Separate() {
	r.con.PutChar('\n')
}
