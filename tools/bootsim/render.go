package main

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/moogchi/os/src/framebuffer"
	"github.com/moogchi/os/src/vgatext"
)

// cellScale enlarges the 8x8 glyphs of text-mode snapshots.
const cellScale = 2

func rgba(c framebuffer.Color) color.RGBA {
	r, g, b := c.Channels()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// textImage renders the console's cells with the VGA palette.
func textImage(con *vgatext.Console) image.Image {
	cols, rows := con.Size()
	cw, ch := framebuffer.GlyphWidth*cellScale, framebuffer.GlyphHeight*cellScale
	dc := gg.NewContext(cols*cw, rows*ch)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			cell := con.Cell(x, y)
			x0, y0 := x*cw, y*ch
			dc.SetColor(vgatext.Palette[cell.Bg&0x0F])
			dc.DrawRectangle(float64(x0), float64(y0), float64(cw), float64(ch))
			dc.Fill()

			glyph := framebuffer.Glyph(cell.Char)
			dc.SetColor(vgatext.Palette[cell.Fg&0x0F])
			for gy, bits := range glyph {
				for gx := 0; gx < framebuffer.GlyphWidth; gx++ {
					if bits&(1<<gx) == 0 {
						continue
					}
					dc.DrawRectangle(float64(x0+gx*cellScale), float64(y0+gy*cellScale), cellScale, cellScale)
				}
			}
			dc.Fill()
		}
	}
	return dc.Image()
}

// drawFrame outlines the screen in the title colour.
func drawFrame(fb *framebuffer.Framebuffer, scheme framebuffer.ColorScheme) error {
	return fb.Canvas(func(dc *gg.Context) {
		w, h := float64(dc.Width()), float64(dc.Height())
		dc.SetColor(rgba(scheme.Title))
		dc.SetLineWidth(2)
		dc.DrawRectangle(1, 1, w-2, h-2)
		dc.Stroke()
	})
}

func savePNG(path string, im image.Image) error {
	return gg.SavePNG(path, im)
}
