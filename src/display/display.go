// Package display puts the two boot backends behind one small interface.
// The backend is chosen once during boot and never switched.
package display

import "fmt"

// Kind says which backend a Renderer drives.
type Kind int

const (
	KindFramebuffer Kind = iota
	KindTextCell
)

func (k Kind) String() string {
	switch k {
	case KindFramebuffer:
		return "framebuffer"
	case KindTextCell:
		return "text-cell"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Tone is the role of a piece of text, mapped to a colour by the backend.
type Tone int

const (
	ToneText Tone = iota
	ToneTitle
	ToneSuccess
)

func (t Tone) String() string {
	switch t {
	case ToneText:
		return "text"
	case ToneTitle:
		return "title"
	case ToneSuccess:
		return "success"
	default:
		return fmt.Sprintf("tone(%d)", int(t))
	}
}

// Renderer is what the boot sequence draws with.
type Renderer interface {
	Kind() Kind
	// Clear blanks the whole screen.
	Clear()
	// DrawGlyph draws one character in cell coordinates.
	DrawGlyph(col, row uint32, ch byte, tone Tone)
	// DrawString draws s as status line number line.
	DrawString(s string, line uint32, tone Tone)
}

// Separator is implemented by renderers that draw lines as one stream and
// need an explicit break between groups of lines.
type Separator interface {
	Separate()
}

// Separate inserts a group break if r supports it.
func Separate(r Renderer) {
	if s, ok := r.(Separator); ok {
		s.Separate()
	}
}
