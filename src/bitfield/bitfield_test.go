package bitfield

import (
	"errors"
	"fmt"
	"testing"
)

// textCell mirrors a VGA text-mode cell: code point, then the attribute
// nibbles, then the blink bit on top.
type textCell struct {
	Char  uint8 `bitfield:",8"`
	Fg    uint8 `bitfield:",4"`
	Bg    uint8 `bitfield:",3"`
	Blink bool  `bitfield:",1"`
}

func TestPack(t *testing.T) {
	tests := []struct {
		name     string
		cell     textCell
		expected uint64
		wantErr  error
	}{
		{
			name:     "blank",
			cell:     textCell{},
			expected: 0x0000,
		},
		{
			name:     "character only",
			cell:     textCell{Char: 'A'},
			expected: 0x0041,
		},
		{
			name:     "light brown on blue",
			cell:     textCell{Char: ' ', Fg: 14, Bg: 1},
			expected: 0x1E20, // attr 0x1E in the high byte
		},
		{
			name:     "blink",
			cell:     textCell{Char: '*', Fg: 15, Bg: 4, Blink: true},
			expected: 0xCF2A,
		},
		{
			name:    "foreground overflow",
			cell:    textCell{Fg: 16},
			wantErr: ErrOverflow,
		},
		{
			name:    "background overflow",
			cell:    textCell{Bg: 8},
			wantErr: ErrOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packed, err := Pack(tt.cell, &Config{NumBits: 16})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Pack() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && packed != tt.expected {
				t.Errorf("Pack() = 0x%04x, want 0x%04x", packed, tt.expected)
			}
		})
	}
}

func TestPackNumBits(t *testing.T) {
	if _, err := Pack(textCell{}, &Config{NumBits: 8}); !errors.Is(err, ErrOverflow) {
		t.Errorf("Pack() into 8 bits = %v, want ErrOverflow", err)
	}
	if _, err := Pack(textCell{}, nil); err != nil {
		t.Errorf("Pack() with nil config = %v", err)
	}
}

func TestUnpack(t *testing.T) {
	for _, packed := range []uint64{0x0000, 0x1E20, 0xCF2A, 0x7F41, 0xFFFF} {
		t.Run(fmt.Sprintf("0x%04x", packed), func(t *testing.T) {
			var c textCell
			if err := Unpack(packed, &c); err != nil {
				t.Fatalf("Unpack() error = %v", err)
			}
			repacked, err := Pack(c, nil)
			if err != nil {
				t.Fatalf("Pack() error = %v", err)
			}
			if repacked != packed {
				t.Errorf("Pack(Unpack(0x%04x)) = 0x%04x", packed, repacked)
				t.Logf("  Cell: Char=%q Fg=%d Bg=%d Blink=%v", c.Char, c.Fg, c.Bg, c.Blink)
			}
		})
	}
}

func TestUnpackFields(t *testing.T) {
	var c textCell
	if err := Unpack(0xCF2A, &c); err != nil {
		t.Fatalf("Unpack() error = %v", err)
	}
	want := textCell{Char: '*', Fg: 15, Bg: 4, Blink: true}
	if c != want {
		t.Errorf("Unpack() = %+v, want %+v", c, want)
	}
}

func TestInvalidInput(t *testing.T) {
	type badTag struct {
		X uint8 `bitfield:"8"`
	}
	type badKind struct {
		S string `bitfield:",4"`
	}
	type untagged struct {
		A uint8
		B uint8 `bitfield:",4"`
	}

	if _, err := Pack(42, nil); !errors.Is(err, ErrNotStruct) {
		t.Errorf("Pack(int) = %v", err)
	}
	if err := Unpack(0, textCell{}); !errors.Is(err, ErrNotStruct) {
		t.Errorf("Unpack(non-pointer) = %v", err)
	}
	if _, err := Pack(badTag{}, nil); !errors.Is(err, ErrBadTag) {
		t.Errorf("Pack(badTag) = %v", err)
	}
	if _, err := Pack(badKind{}, nil); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Pack(badKind) = %v", err)
	}
	if got, err := Pack(untagged{A: 0xFF, B: 3}, nil); err != nil || got != 3 {
		t.Errorf("Pack(untagged) = 0x%x, %v; want 0x3", got, err)
	}
}

func ExamplePack() {
	type attribute struct {
		Fg uint8 `bitfield:",4"`
		Bg uint8 `bitfield:",4"`
	}
	packed, _ := Pack(attribute{Fg: 14, Bg: 1}, &Config{NumBits: 8})
	fmt.Printf("0x%02X\n", packed)
	// Output: 0x1E
}
