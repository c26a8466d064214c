package raster

import (
	"testing"

	"github.com/vovakirdan/megatiny/internal/engine"
)

func TestRendererImplementsContract(t *testing.T) {
	presented := 0
	destroyed := false
	r := NewRenderer(1, 1,
		func(fb *Framebuffer) { presented++ },
		func() { destroyed = true },
	)

	if err := r.SetLogicalSize(320, 200); err != nil {
		t.Fatalf("SetLogicalSize() failed: %v", err)
	}
	if w, h := r.LogicalSize(); w != 320 || h != 200 {
		t.Errorf("LogicalSize() = %dx%d, expected 320x200", w, h)
	}
	if err := r.SetIntegerScale(true); err != nil || !r.IntegerScale() {
		t.Error("SetIntegerScale(true) should be recorded")
	}

	if err := r.SetDrawColor(engine.ColorRed); err != nil {
		t.Fatalf("SetDrawColor() failed: %v", err)
	}
	if err := r.FillRect(engine.NewRect(10, 10, 2, 2)); err != nil {
		t.Fatalf("FillRect() failed: %v", err)
	}
	if r.Framebuffer().At(11, 11) != engine.ColorRed {
		t.Error("FillRect should draw into the framebuffer")
	}

	r.Present()
	r.Present()
	if presented != 2 {
		t.Errorf("present hook called %d times, expected 2", presented)
	}

	r.Destroy()
	if !destroyed {
		t.Error("destroy hook should be called")
	}
}

func TestRendererNilHooks(t *testing.T) {
	r := NewRenderer(2, 2, nil, nil)
	r.Present()
	r.Destroy()
}
