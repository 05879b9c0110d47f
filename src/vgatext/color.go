package vgatext

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/moogchi/os/src/bitfield"
)

// Color is one of the 16 text-mode colours.
type Color uint8

const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGrey
	DarkGrey
	LightBlue
	LightGreen
	LightCyan
	LightRed
	LightMagenta
	LightBrown
	White
)

var colorNames = [16]string{
	"black", "blue", "green", "cyan", "red", "magenta", "brown", "light-grey",
	"dark-grey", "light-blue", "light-green", "light-cyan", "light-red",
	"light-magenta", "light-brown", "white",
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

// ParseColor accepts the names printed by Color.String. Underscores and
// spaces may stand in for the dash.
func ParseColor(name string) (Color, error) {
	n := strings.ToLower(strings.NewReplacer("_", "-", " ", "-").Replace(strings.TrimSpace(name)))
	for i, s := range colorNames {
		if s == n {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("vgatext: unknown colour %q", name)
}

// Palette gives an RGB rendering of each colour for host-side images.
var Palette = color.Palette{
	color.RGBA{0x00, 0x00, 0x00, 0xFF},
	color.RGBA{0x00, 0x00, 0xAA, 0xFF},
	color.RGBA{0x00, 0xAA, 0x00, 0xFF},
	color.RGBA{0x00, 0xAA, 0xAA, 0xFF},
	color.RGBA{0xAA, 0x00, 0x00, 0xFF},
	color.RGBA{0xAA, 0x00, 0xAA, 0xFF},
	color.RGBA{0xAA, 0x55, 0x00, 0xFF},
	color.RGBA{0xAA, 0xAA, 0xAA, 0xFF},
	color.RGBA{0x55, 0x55, 0x55, 0xFF},
	color.RGBA{0x55, 0x55, 0xFF, 0xFF},
	color.RGBA{0x55, 0xFF, 0x55, 0xFF},
	color.RGBA{0x55, 0xFF, 0xFF, 0xFF},
	color.RGBA{0xFF, 0x55, 0x55, 0xFF},
	color.RGBA{0xFF, 0x55, 0xFF, 0xFF},
	color.RGBA{0xFF, 0xFF, 0x55, 0xFF},
	color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
}

// Attribute is the high byte of a cell: foreground | background<<4.
type Attribute uint8

// DefaultAttribute is light brown on blue.
const DefaultAttribute = Attribute(LightBrown | Blue<<4)

// EntryColor packs a foreground and background colour.
//
//go:nosplit
func EntryColor(fg, bg Color) Attribute {
	return Attribute(fg&0x0F | (bg&0x0F)<<4)
}

// Foreground returns the low nibble.
func (a Attribute) Foreground() Color { return Color(a & 0x0F) }

// Background returns the high nibble.
func (a Attribute) Background() Color { return Color(a >> 4) }

// Entry builds a cell word from a character and attribute.
//
//go:nosplit
func Entry(ch byte, a Attribute) uint16 {
	return uint16(ch) | uint16(a)<<8
}

// Cell is a decoded cell word.
type Cell struct {
	Char byte  `bitfield:",8"`
	Fg   Color `bitfield:",4"`
	Bg   Color `bitfield:",4"`
}

// Attribute reassembles the attribute byte.
func (c Cell) Attribute() Attribute {
	return EntryColor(c.Fg, c.Bg)
}

// Encode packs the cell into its 16-bit form.
func (c Cell) Encode() (uint16, error) {
	v, err := bitfield.Pack(c, &bitfield.Config{NumBits: 16})
	return uint16(v), err
}

// DecodeEntry splits a cell word.
func DecodeEntry(e uint16) Cell {
	var c Cell
	// every 16-bit value fits the layout
	_ = bitfield.Unpack(uint64(e), &c)
	return c
}
