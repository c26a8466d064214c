package demo

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/megatiny/internal/backend/headless"
	"github.com/vovakirdan/megatiny/internal/engine"
)

func newCore(t *testing.T, b *headless.Backend) *engine.Core {
	t.Helper()
	c, err := engine.Create(b, engine.Options{
		PixelWidth:  Width,
		PixelHeight: Height,
		Scaling:     Scaling,
		Title:       Title,
	}, engine.WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	return c
}

func TestDrawsPlayerAtStart(t *testing.T) {
	b := headless.New(headless.WithQuitAfter(1))
	c := newCore(t, b)
	defer c.Destroy()

	g := New()
	c.RunGame(g)

	fb := b.Framebuffer()
	if fb.At(startX, startY) != Player {
		t.Errorf("pixel at start = %+v, expected player color", fb.At(startX, startY))
	}
	if fb.At(startX+playerSize, startY) != Background {
		t.Errorf("pixel right of player = %+v, expected background", fb.At(startX+playerSize, startY))
	}
	if fb.At(0, 0) != Background {
		t.Errorf("pixel at origin = %+v, expected background", fb.At(0, 0))
	}
}

func TestWalkUsesDeltaTime(t *testing.T) {
	tests := []struct {
		name       string
		key        engine.KeyCode
		dx, dy     int
		frameTime  uint32
		heldFrames int
	}{
		{"right at 60Hz", engine.KeyCodeRight, 60, 0, 1000 / 60, 60},
		{"left at 30Hz", engine.KeyCodeLeft, -30, 0, 1000 / 30, 15},
		{"down at 10Hz", engine.KeyCodeDown, 0, 30, 100, 5},
		{"up at 10Hz", engine.KeyCodeUp, 0, -30, 100, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Frame 0 presses the key; its first Update is in frame 1.
			script := make([][]engine.Event, tc.heldFrames+1)
			script[0] = []engine.Event{engine.KeyDownEvent(tc.key, false)}
			script[tc.heldFrames] = []engine.Event{engine.KeyUpEvent(tc.key), engine.QuitEvent()}

			b := headless.New(headless.WithScript(script), headless.WithFrameTime(tc.frameTime))
			c := newCore(t, b)
			defer c.Destroy()

			g := New()
			c.RunGame(g)

			x, y := g.Position()
			elapsed := float64(tc.frameTime*uint32(tc.heldFrames)) / 1000
			wantX := int(startX + float64(sign(tc.dx))*Speed*elapsed)
			wantY := int(startY + float64(sign(tc.dy))*Speed*elapsed)
			if abs(x-wantX) > 1 || abs(y-wantY) > 1 {
				t.Errorf("Position() = (%d, %d), expected about (%d, %d)", x, y, wantX, wantY)
			}
		})
	}
}

func TestPlayerStaysOnScreen(t *testing.T) {
	b := headless.New(
		headless.WithScript([][]engine.Event{{
			engine.KeyDownEvent(engine.KeyCodeLeft, false),
			engine.KeyDownEvent(engine.KeyCodeUp, false),
		}}),
		headless.WithFrameTime(1000),
		headless.WithQuitAfter(10),
	)
	c := newCore(t, b)
	defer c.Destroy()

	g := New()
	c.RunGame(g)

	if x, y := g.Position(); x != 0 || y != 0 {
		t.Errorf("Position() = (%d, %d), expected clamped to (0, 0)", x, y)
	}
}

func TestUnmappedKeysIgnored(t *testing.T) {
	g := New()
	g.HandleInput(engine.KeyAction1, true)
	g.HandleInput(engine.KeyUnknown, true)

	if g.walkLeft || g.walkRight || g.walkUp || g.walkDown {
		t.Error("non-direction keys should not start walking")
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
