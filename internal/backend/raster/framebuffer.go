// Package raster provides a software framebuffer and renderer for backends
// that have no GPU renderer of their own (terminals, headless runs).
package raster

import (
	"image"
	"image/png"
	"io"

	"github.com/vovakirdan/megatiny/internal/engine"
)

// Framebuffer is an RGBA pixel buffer addressed in logical pixels.
// Fills overwrite pixels; alpha is stored but not blended.
type Framebuffer struct {
	img   *image.RGBA
	color engine.Color
}

// NewFramebuffer creates a framebuffer of the given logical size, cleared to black.
func NewFramebuffer(width, height int) *Framebuffer {
	f := &Framebuffer{color: engine.ColorBlack}
	f.Resize(width, height)
	return f
}

// Resize reallocates the buffer. Content is discarded.
func (f *Framebuffer) Resize(width, height int) {
	width = engine.Max(width, 0)
	height = engine.Max(height, 0)
	f.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Size returns the logical width and height.
func (f *Framebuffer) Size() (int, int) {
	b := f.img.Bounds()
	return b.Dx(), b.Dy()
}

// Bounds returns the whole surface as a rectangle.
func (f *Framebuffer) Bounds() engine.Rect {
	w, h := f.Size()
	return engine.NewRect(0, 0, w, h)
}

// SetColor sets the color used by Clear and FillRect.
func (f *Framebuffer) SetColor(c engine.Color) {
	f.color = c
}

// Clear fills the whole surface with the current color.
func (f *Framebuffer) Clear() {
	f.FillRect(f.Bounds())
}

// FillRect fills r with the current color. Pixels outside the surface are clipped.
func (f *Framebuffer) FillRect(r engine.Rect) {
	clip := f.Bounds().Intersect(r)
	if clip.Empty() {
		return
	}

	c := f.color
	for y := clip.Y; y < clip.Bottom(); y++ {
		off := f.img.PixOffset(clip.X, y)
		row := f.img.Pix[off : off+clip.W*4]
		for i := 0; i < len(row); i += 4 {
			row[i] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = c.A
		}
	}
}

// At returns the pixel at (x, y). Out-of-bounds reads return a zero Color.
func (f *Framebuffer) At(x, y int) engine.Color {
	if !f.Bounds().Contains(x, y) {
		return engine.Color{}
	}
	off := f.img.PixOffset(x, y)
	p := f.img.Pix[off : off+4]
	return engine.Color{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Snapshot returns a copy of the buffer as an image.
func (f *Framebuffer) Snapshot() *image.RGBA {
	out := image.NewRGBA(f.img.Bounds())
	copy(out.Pix, f.img.Pix)
	return out
}

// WritePNG encodes the buffer as an opaque PNG.
func (f *Framebuffer) WritePNG(w io.Writer) error {
	img := f.Snapshot()
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return png.Encode(w, img)
}
