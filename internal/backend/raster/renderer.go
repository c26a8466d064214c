package raster

import "github.com/vovakirdan/megatiny/internal/engine"

// Renderer implements engine.Renderer on a Framebuffer. Presenting and
// destroying are delegated to the owning backend.
type Renderer struct {
	fb           *Framebuffer
	integerScale bool

	present func(*Framebuffer)
	destroy func()
}

// NewRenderer creates a software renderer. present is called with the
// framebuffer on every Present; destroy on Destroy. Either may be nil.
func NewRenderer(width, height int, present func(*Framebuffer), destroy func()) *Renderer {
	return &Renderer{
		fb:      NewFramebuffer(width, height),
		present: present,
		destroy: destroy,
	}
}

// Framebuffer returns the buffer the renderer draws into.
func (r *Renderer) Framebuffer() *Framebuffer {
	return r.fb
}

// IntegerScale reports whether integer-only scaling was requested.
func (r *Renderer) IntegerScale() bool {
	return r.integerScale
}

func (r *Renderer) SetLogicalSize(width, height int) error {
	r.fb.Resize(width, height)
	return nil
}

func (r *Renderer) SetIntegerScale(enabled bool) error {
	r.integerScale = enabled
	return nil
}

func (r *Renderer) LogicalSize() (int, int) {
	return r.fb.Size()
}

func (r *Renderer) SetDrawColor(c engine.Color) error {
	r.fb.SetColor(c)
	return nil
}

func (r *Renderer) Clear() error {
	r.fb.Clear()
	return nil
}

func (r *Renderer) FillRect(rect engine.Rect) error {
	r.fb.FillRect(rect)
	return nil
}

func (r *Renderer) Present() {
	if r.present != nil {
		r.present(r.fb)
	}
}

func (r *Renderer) Destroy() {
	if r.destroy != nil {
		r.destroy()
	}
}

var _ engine.Renderer = (*Renderer)(nil)
