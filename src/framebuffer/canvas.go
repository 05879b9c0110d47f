package framebuffer

import (
	"image"

	"github.com/fogleman/gg"
)

// Snapshot copies the visible framebuffer into a new RGBA image. The
// framebuffer holds B, G, R, X bytes per pixel; the image gets R, G, B, A
// with alpha forced opaque. It returns nil before Init.
//
// Snapshot and Canvas allocate, so they are for host tools only.
func (f *Framebuffer) Snapshot() *image.RGBA {
	if !f.info.Initialized {
		return nil
	}
	w, h := int(f.drawWidth), int(f.info.Height)
	im := image.NewRGBA(image.Rect(0, 0, w, h))
	pitch := int(f.info.Pitch)
	for y := 0; y < h; y++ {
		src := f.buf[y*pitch:]
		dst := im.Pix[y*im.Stride:]
		for x := 0; x < w; x++ {
			si, di := x*BytesPerPixel, x*4
			dst[di+0] = src[si+2]
			dst[di+1] = src[si+1]
			dst[di+2] = src[si+0]
			dst[di+3] = 0xFF
		}
	}
	return im
}

// Flush writes an RGBA image back into the framebuffer, clamped to the
// smaller of the two. Alpha is dropped.
func (f *Framebuffer) Flush(im *image.RGBA) {
	if !f.info.Initialized || im == nil {
		return
	}
	b := im.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > int(f.drawWidth) {
		w = int(f.drawWidth)
	}
	if h > int(f.info.Height) {
		h = int(f.info.Height)
	}
	pitch := int(f.info.Pitch)
	for y := 0; y < h; y++ {
		src := im.Pix[y*im.Stride:]
		dst := f.buf[y*pitch:]
		for x := 0; x < w; x++ {
			si, di := x*4, x*BytesPerPixel
			dst[di+0] = src[si+2]
			dst[di+1] = src[si+1]
			dst[di+2] = src[si+0]
			dst[di+3] = 0x00
		}
	}
}

// Canvas lets fn draw on top of the current screen contents with gg, then
// flushes the result back.
func (f *Framebuffer) Canvas(fn func(dc *gg.Context)) error {
	im := f.Snapshot()
	if im == nil {
		return ErrNotInitialized
	}
	dc := gg.NewContextForRGBA(im)
	fn(dc)
	f.Flush(im)
	return nil
}
