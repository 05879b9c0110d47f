package framebuffer

import "fmt"

// Color is an XRGB8888 value, 0x00RRGGBB. The top byte is ignored.
type Color uint32

// RGB packs three 8-bit channels into a Color.
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Channels splits c back into its red, green and blue components.
func (c Color) Channels() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xFFFFFF)
}

const (
	Black   Color = 0x000000
	White   Color = 0xFFFFFF
	Red     Color = 0xFF0000
	Green   Color = 0x00FF00
	Blue    Color = 0x0000FF
	Cyan    Color = 0x00FFFF
	Magenta Color = 0xFF00FF
	Yellow  Color = 0xFFFF00
	Gray    Color = 0x808080

	Navy Color = 0x000080 // RGB(0, 0, 128), boot banner background
)

// ColorScheme names the colours used for each kind of boot banner line.
type ColorScheme struct {
	Background Color
	Title      Color
	Text       Color
	Success    Color
}

// DefaultScheme is the navy boot screen.
var DefaultScheme = ColorScheme{
	Background: Navy,
	Title:      Yellow,
	Text:       White,
	Success:    Green,
}

// ClassicScheme is a black screen with plain white and gray text.
var ClassicScheme = ColorScheme{
	Background: Black,
	Title:      White,
	Text:       Gray,
	Success:    Green,
}

// SchemeByName looks up a built-in scheme. Names are "default" and
// "classic".
func SchemeByName(name string) (ColorScheme, bool) {
	switch name {
	case "", "default":
		return DefaultScheme, true
	case "classic":
		return ClassicScheme, true
	default:
		return ColorScheme{}, false
	}
}
