package bubble

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/megatiny/internal/backend/raster"
)

// painter turns half-block cells into styled terminal text.
type painter struct {
	renderer *lipgloss.Renderer
	styles   map[raster.Cell]lipgloss.Style
}

func newPainter(r *lipgloss.Renderer) *painter {
	return &painter{
		renderer: r,
		styles:   make(map[raster.Cell]lipgloss.Style),
	}
}

func (p *painter) style(c raster.Cell) lipgloss.Style {
	if s, ok := p.styles[c]; ok {
		return s
	}
	s := p.renderer.NewStyle().
		Foreground(lipgloss.Color(hex(c.Top.R, c.Top.G, c.Top.B))).
		Background(lipgloss.Color(hex(c.Bottom.R, c.Bottom.G, c.Bottom.B)))
	p.styles[c] = s
	return s
}

// Render converts a cell grid to a styled string.
// Groups adjacent identical cells to minimize ANSI escape sequences.
func (p *painter) Render(grid [][]raster.Cell) string {
	var sb strings.Builder

	for y, row := range grid {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < len(row) {
			start := row[x]
			n := 0
			for x < len(row) && row[x] == start {
				n++
				x++
			}
			sb.WriteString(p.style(start).Render(strings.Repeat(string(raster.HalfBlock), n)))
		}
	}
	return sb.String()
}

func hex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
