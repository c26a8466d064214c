package raster

import "github.com/vovakirdan/megatiny/internal/engine"

// Cell is one terminal character cell showing two vertically stacked pixels,
// drawn as an upper half block with Top as foreground and Bottom as background.
type Cell struct {
	Top    engine.Color
	Bottom engine.Color
}

// HalfBlock is the glyph used to render a Cell.
const HalfBlock = '▀'

// DownscaleFactor returns the smallest integer factor k such that the
// framebuffer, sampled every k pixels, fits in cols x rows half-block cells.
func (f *Framebuffer) DownscaleFactor(cols, rows int) int {
	w, h := f.Size()
	if cols <= 0 || rows <= 0 {
		return 1
	}
	k := engine.Max(ceilDiv(w, cols), ceilDiv(h, rows*2))
	return engine.Max(k, 1)
}

// Cells samples the framebuffer into at most cols x rows cells using
// nearest-neighbour sampling at the integer DownscaleFactor.
// Rows are returned top to bottom.
func (f *Framebuffer) Cells(cols, rows int) [][]Cell {
	k := f.DownscaleFactor(cols, rows)
	w, h := f.Size()

	outW := ceilDiv(w, k)
	outH := ceilDiv(ceilDiv(h, k), 2)

	grid := make([][]Cell, outH)
	for cy := range grid {
		grid[cy] = make([]Cell, outW)
		for cx := range grid[cy] {
			x := cx * k
			grid[cy][cx] = Cell{
				Top:    f.At(x, cy*2*k),
				Bottom: f.At(x, (cy*2+1)*k),
			}
		}
	}
	return grid
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
