package framebuffer

import (
	"errors"
	"hash/crc32"
	"image/color"
	"math"
	"testing"

	"github.com/fogleman/gg"

	"github.com/moogchi/os/src/memory"
)

const (
	testBase  = 0xFD000000
	guardSize = 64
)

// newTestFramebuffer reserves the framebuffer plus guard bytes on both sides
// and returns the whole region so tests can check nothing leaked out.
func newTestFramebuffer(t *testing.T, w, h, pitch uint32) (*Framebuffer, []byte) {
	t.Helper()
	a := memory.NewArena()
	region, err := a.Reserve(testBase-guardSize, int(pitch*h)+2*guardSize)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	fb := New(a)
	if err := fb.Init(testBase, w, h, pitch, 32); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return fb, region
}

func checkGuards(t *testing.T, region []byte, fbSize int) {
	t.Helper()
	for i := 0; i < guardSize; i++ {
		if region[i] != memory.GuardByte {
			t.Fatalf("byte %d before framebuffer modified: 0x%02x", guardSize-i, region[i])
		}
	}
	for i := guardSize + fbSize; i < len(region); i++ {
		if region[i] != memory.GuardByte {
			t.Fatalf("byte %d after framebuffer modified: 0x%02x", i-guardSize-fbSize, region[i])
		}
	}
}

func TestClearFillsVisibleRegionOnly(t *testing.T) {
	fb, region := newTestFramebuffer(t, 100, 50, 400)
	c := RGB(0x12, 0x34, 0x56)
	fb.Clear(c)

	n := 0
	for y := uint32(0); y < 50; y++ {
		for x := uint32(0); x < 100; x++ {
			if got := fb.Pixel(x, y); got != c {
				t.Fatalf("pixel (%d,%d) = %s, want %s", x, y, got, c)
			}
			n++
		}
	}
	if n != 5000 {
		t.Errorf("checked %d pixels, want 5000", n)
	}
	checkGuards(t, region, 400*50)
}

func TestClearSkipsPitchPadding(t *testing.T) {
	// 10 pixels = 40 bytes of a 48-byte scanline.
	fb, region := newTestFramebuffer(t, 10, 4, 48)
	fb.Clear(White)
	for y := 0; y < 4; y++ {
		row := region[guardSize+y*48:]
		for i := 40; i < 48; i++ {
			if row[i] != memory.GuardByte {
				t.Errorf("row %d padding byte %d written: 0x%02x", y, i, row[i])
			}
		}
	}
	checkGuards(t, region, 48*4)
}

func TestNarrowPitchClipsWidth(t *testing.T) {
	// pitch holds only 8 pixels of the declared 10
	fb, region := newTestFramebuffer(t, 10, 3, 32)
	fb.Clear(Red)
	fb.PutPixel(9, 2, Green)
	checkGuards(t, region, 32*3)
	if got := fb.Pixel(7, 2); got != Red {
		t.Errorf("last drawable pixel = %s, want %s", got, Red)
	}
}

func TestPutPixelOutOfRangeIsNoop(t *testing.T) {
	fb, region := newTestFramebuffer(t, 100, 50, 400)
	fb.Clear(Navy)
	fb.PutPixel(3, 4, Yellow)
	before := crc32.ChecksumIEEE(region)

	fb.PutPixel(100, 0, Red)
	fb.PutPixel(0, 50, Red)
	fb.PutPixel(math.MaxUint32, math.MaxUint32, Red)

	if after := crc32.ChecksumIEEE(region); after != before {
		t.Errorf("checksum changed: 0x%08x -> 0x%08x", before, after)
	}
	if got := fb.Pixel(3, 4); got != Yellow {
		t.Errorf("in-range pixel = %s, want %s", got, Yellow)
	}
}

func TestPixelByteOrder(t *testing.T) {
	fb, region := newTestFramebuffer(t, 4, 4, 16)
	fb.PutPixel(1, 2, RGB(0xAA, 0xBB, 0xCC))
	off := guardSize + 2*16 + 1*4
	got := region[off : off+4]
	want := []byte{0xCC, 0xBB, 0xAA, 0x00}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pixel bytes = % x, want % x", got, want)
		}
	}
}

func TestFillRectClips(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h uint32
		want       int
	}{
		{"inside", 10, 10, 5, 4, 20},
		{"right and bottom edges", 95, 45, 20, 20, 25},
		{"huge size", 98, 48, math.MaxUint32, math.MaxUint32, 4},
		{"origin off screen", 100, 0, 5, 5, 0},
		{"empty", 10, 10, 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, region := newTestFramebuffer(t, 100, 50, 400)
			fb.Clear(Black)
			fb.FillRect(tt.x, tt.y, tt.w, tt.h, Cyan)
			n := 0
			for y := uint32(0); y < 50; y++ {
				for x := uint32(0); x < 100; x++ {
					if fb.Pixel(x, y) == Cyan {
						n++
					}
				}
			}
			if n != tt.want {
				t.Errorf("FillRect() painted %d pixels, want %d", n, tt.want)
			}
			checkGuards(t, region, 400*50)
		})
	}
}

func TestInitOnlyOnce(t *testing.T) {
	fb, _ := newTestFramebuffer(t, 100, 50, 400)
	first := fb.Info()
	err := fb.Init(testBase, 640, 480, 2560, 32)
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second Init() error = %v, want ErrAlreadyInitialized", err)
	}
	if fb.Info() != first {
		t.Errorf("Info changed after second Init: %+v", fb.Info())
	}
}

func TestInitRecordsGeometry(t *testing.T) {
	fb, _ := newTestFramebuffer(t, 100, 50, 448)
	want := Info{Addr: testBase, Width: 100, Height: 50, Pitch: 448, Bpp: 32, Initialized: true}
	if got := fb.Info(); got != want {
		t.Errorf("Info() = %+v, want %+v", got, want)
	}
}

func TestInitRejects(t *testing.T) {
	a := memory.NewArena()
	if _, err := a.Reserve(testBase, 400*50); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	tests := []struct {
		name                 string
		addr                 uint64
		width, height, pitch uint32
		wantErr              error
	}{
		{"null address", 0, 100, 50, 400, ErrInvalidGeometry},
		{"zero width", testBase, 0, 50, 400, ErrInvalidGeometry},
		{"zero height", testBase, 100, 0, 400, ErrInvalidGeometry},
		{"zero pitch", testBase, 100, 50, 0, ErrInvalidGeometry},
		{"unmapped", 0xE0000000, 100, 50, 400, memory.ErrUnmapped},
		{"larger than mapping", testBase, 100, 51, 400, memory.ErrUnmapped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := New(a)
			err := fb.Init(tt.addr, tt.width, tt.height, tt.pitch, 32)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Init() error = %v, want %v", err, tt.wantErr)
			}
			if fb.Info().Initialized {
				t.Error("framebuffer initialized after failed Init")
			}
		})
	}
}

func TestDrawingBeforeInit(t *testing.T) {
	fb := New(memory.NewArena())
	fb.Clear(White)
	fb.PutPixel(0, 0, White)
	fb.FillRect(0, 0, 10, 10, White)
	fb.DrawChar(0, 0, 'A', White, Black)
	fb.Print("hello", 0, 0, White)
	if fb.Snapshot() != nil {
		t.Error("Snapshot() before Init returned an image")
	}
	if err := fb.Canvas(func(*gg.Context) {}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Canvas() before Init = %v", err)
	}
}

func TestDrawCharIsOpaque(t *testing.T) {
	fb, _ := newTestFramebuffer(t, 16, 16, 64)
	fb.Clear(Gray)
	fb.DrawChar(4, 4, 'A', White, Blue)

	g := Glyph('A')
	for row := uint32(0); row < GlyphHeight; row++ {
		for col := uint32(0); col < GlyphWidth; col++ {
			want := Blue
			if g[row]&(1<<col) != 0 {
				want = White
			}
			if got := fb.Pixel(4+col, 4+row); got != want {
				t.Fatalf("glyph pixel (%d,%d) = %s, want %s", col, row, got, want)
			}
		}
	}
	if fb.Pixel(3, 4) != Gray || fb.Pixel(12, 4) != Gray {
		t.Error("DrawChar painted outside its cell")
	}
}

func TestPrintIsTransparent(t *testing.T) {
	fb, _ := newTestFramebuffer(t, 32, 8, 128)
	fb.Clear(Navy)
	fb.Print("II", 0, 0, Yellow)

	// 'I' row 0 is 0x1E: columns 1..4 lit, 0 and 5..7 clear.
	for _, x := range []uint32{0, 5, 6, 7, 8, 13} {
		if got := fb.Pixel(x, 0); got != Navy {
			t.Errorf("background pixel (%d,0) = %s, want %s", x, got, Navy)
		}
	}
	for _, x := range []uint32{1, 4, 9, 12} {
		if got := fb.Pixel(x, 0); got != Yellow {
			t.Errorf("glyph pixel (%d,0) = %s, want %s", x, got, Yellow)
		}
	}
}

func TestPrintClipsAtRightEdge(t *testing.T) {
	fb, region := newTestFramebuffer(t, 20, 8, 80)
	fb.Print("WWWWWWWW", 0, 0, White)
	checkGuards(t, region, 80*8)
	// no wrap onto a second line
	fb2, _ := newTestFramebuffer(t, 20, 16, 80)
	fb2.Print("WWWWWWWW", 0, 0, White)
	for y := uint32(8); y < 16; y++ {
		for x := uint32(0); x < 20; x++ {
			if fb2.Pixel(x, y) == White {
				t.Fatalf("Print wrapped onto row %d", y)
			}
		}
	}
}

func TestGlyphFallback(t *testing.T) {
	if Glyph(200) != Glyph('?') {
		t.Error("code 200 does not render the fallback glyph")
	}
	if Glyph('\n') != ([GlyphHeight]byte{}) {
		t.Error("newline glyph is not blank")
	}
	if Glyph('A') == ([GlyphHeight]byte{}) {
		t.Error("'A' glyph is blank")
	}
}

func TestRGB(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    Color
	}{
		{0, 0, 0, Black},
		{255, 255, 255, White},
		{255, 255, 0, Yellow},
		{128, 128, 128, Gray},
		{0, 0, 128, Navy},
		{0x12, 0x34, 0x56, 0x123456},
	}
	for _, tt := range tests {
		if got := RGB(tt.r, tt.g, tt.b); got != tt.want {
			t.Errorf("RGB(%d, %d, %d) = 0x%08x, want 0x%08x", tt.r, tt.g, tt.b, uint32(got), uint32(tt.want))
		}
	}
	if r, g, b := Color(0x123456).Channels(); r != 0x12 || g != 0x34 || b != 0x56 {
		t.Errorf("Channels() = %x %x %x", r, g, b)
	}
}

func TestSnapshot(t *testing.T) {
	fb, _ := newTestFramebuffer(t, 4, 4, 16)
	fb.Clear(Black)
	fb.PutPixel(1, 1, Red)
	im := fb.Snapshot()
	if got := im.RGBAAt(1, 1); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("snapshot pixel = %v", got)
	}
	if got := im.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("snapshot background = %v", got)
	}
}

func TestCanvasFlushesBack(t *testing.T) {
	fb, region := newTestFramebuffer(t, 8, 8, 32)
	fb.Clear(Black)
	err := fb.Canvas(func(dc *gg.Context) {
		dc.SetRGB(0, 1, 0)
		dc.Clear()
	})
	if err != nil {
		t.Fatalf("Canvas: %v", err)
	}
	for y := uint32(0); y < 8; y++ {
		for x := uint32(0); x < 8; x++ {
			if got := fb.Pixel(x, y); got != Green {
				t.Fatalf("pixel (%d,%d) = %s, want %s", x, y, got, Green)
			}
		}
	}
	checkGuards(t, region, 32*8)
}
