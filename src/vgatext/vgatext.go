// Package vgatext drives the legacy 80x25 colour text display.
//
// Each cell is a 16-bit little-endian word: the character code in the low
// byte and the attribute in the high byte. The attribute holds the foreground
// colour in its low nibble and the background in its high nibble.
//
// Output wraps instead of scrolling. Writing past the last column moves to
// the next row, and writing past the last row starts over at the top.
package vgatext

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/moogchi/os/src/memory"
)

const (
	DefaultAddr    = 0xB8000
	DefaultColumns = 80
	DefaultRows    = 25

	// CellSize is the width of one cell in bytes.
	CellSize = 2
)

var ErrBufferSize = errors.New("vgatext: cell buffer too small")

// Console is the text backend state. It has a single owner during boot.
type Console struct {
	cells []byte
	cols  int
	rows  int

	row, col    int
	attr        Attribute
	defaultAttr Attribute
}

// New wraps an existing cell buffer of at least cols*rows cells.
func New(cells []byte, cols, rows int) (*Console, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", cols, rows, ErrBufferSize)
	}
	if len(cells) < cols*rows*CellSize {
		return nil, fmt.Errorf("%d bytes for %dx%d: %w", len(cells), cols, rows, ErrBufferSize)
	}
	return &Console{
		cells:       cells,
		cols:        cols,
		rows:        rows,
		attr:        DefaultAttribute,
		defaultAttr: DefaultAttribute,
	}, nil
}

// Open maps the cell buffer at addr.
func Open(m memory.Mapper, addr uint64, cols, rows int) (*Console, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", cols, rows, ErrBufferSize)
	}
	cells, err := m.Map(addr, cols*rows*CellSize)
	if err != nil {
		return nil, fmt.Errorf("map text buffer at 0x%x: %w", addr, err)
	}
	return New(cells, cols, rows)
}

// SetDefaultAttribute changes the attribute Initialize resets to.
func (c *Console) SetDefaultAttribute(a Attribute) {
	c.defaultAttr = a
}

// Size returns the grid dimensions.
func (c *Console) Size() (cols, rows int) {
	return c.cols, c.rows
}

// Initialize homes the cursor, restores the default attribute and blanks
// every cell with it.
func (c *Console) Initialize() {
	c.row, c.col = 0, 0
	c.attr = c.defaultAttr
	blank := Entry(' ', c.attr)
	for i := 0; i < c.cols*c.rows; i++ {
		binary.LittleEndian.PutUint16(c.cells[i*CellSize:], blank)
	}
}

// SetColor changes the attribute for later writes. Existing cells keep
// theirs.
func (c *Console) SetColor(a Attribute) {
	c.attr = a
}

// Color returns the attribute used for writes.
func (c *Console) Color() Attribute {
	return c.attr
}

// PutCharAt stores one cell. Coordinates outside the grid are ignored.
//
//go:nosplit
func (c *Console) PutCharAt(ch byte, a Attribute, x, y int) {
	if x < 0 || x >= c.cols || y < 0 || y >= c.rows {
		return
	}
	binary.LittleEndian.PutUint16(c.cells[(y*c.cols+x)*CellSize:], Entry(ch, a))
}

// PutChar writes ch at the cursor and advances it. Control characters,
// newline included, are stored like any other byte.
//
//go:nosplit
func (c *Console) PutChar(ch byte) {
	c.PutCharAt(ch, c.attr, c.col, c.row)
	c.col++
	if c.col == c.cols {
		c.col = 0
		c.row++
		if c.row == c.rows {
			c.row = 0
		}
	}
}

// Write implements io.Writer. It never fails.
func (c *Console) Write(p []byte) (int, error) {
	for _, b := range p {
		c.PutChar(b)
	}
	return len(p), nil
}

// WriteString writes s byte by byte.
func (c *Console) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		c.PutChar(s[i])
	}
	return len(s), nil
}

// Cursor returns the column and row the next character lands on.
func (c *Console) Cursor() (x, y int) {
	return c.col, c.row
}

// Entry returns the raw cell word at (x, y), or 0 outside the grid.
func (c *Console) Entry(x, y int) uint16 {
	if x < 0 || x >= c.cols || y < 0 || y >= c.rows {
		return 0
	}
	return binary.LittleEndian.Uint16(c.cells[(y*c.cols+x)*CellSize:])
}

// Cell decodes the cell at (x, y).
func (c *Console) Cell(x, y int) Cell {
	return DecodeEntry(c.Entry(x, y))
}

// Snapshot renders the character grid as text, one line per row, with
// trailing blanks trimmed. Non-printable bytes show as spaces.
func (c *Console) Snapshot() string {
	var sb strings.Builder
	line := make([]byte, c.cols)
	for y := 0; y < c.rows; y++ {
		for x := 0; x < c.cols; x++ {
			ch := byte(c.Entry(x, y))
			if ch < 0x20 || ch >= 0x7F {
				ch = ' '
			}
			line[x] = ch
		}
		sb.WriteString(strings.TrimRight(string(line), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
