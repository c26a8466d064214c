// Package demo contains the sample game shipped with the engine: a square
// walked around the screen with the arrow keys.
package demo

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/megatiny/internal/engine"
)

// Window settings the demo is designed for.
const (
	Title   = "Mega Tiny Game v1.0"
	Width   = 320
	Height  = 200
	Scaling = 3
)

const (
	playerSize = 10
	startX     = 100
	startY     = 100

	// Speed is the walking speed in logical pixels per second.
	Speed = 60.0
)

// Colors used by the demo.
var (
	Background = engine.RGBA(50, 117, 168, 0)
	Player     = engine.RGBA(209, 165, 33, 0)
)

// Game is the demo game. It implements engine.Game.
type Game struct {
	x, y float64

	walkLeft, walkRight, walkUp, walkDown bool

	logger *log.Logger
}

// New creates the demo game with the player at its start position.
func New() *Game {
	return &Game{x: startX, y: startY}
}

// Initialize implements engine.Game.
func (g *Game) Initialize(core *engine.Core) {
	g.logger = core.Logger()
	g.logger.Info("game initialized", "size", core.WindowSize())
}

// Update moves the player according to the held direction keys, keeping it
// on screen.
func (g *Game) Update(core *engine.Core, dt float64) {
	step := Speed * dt
	if g.walkLeft {
		g.x -= step
	}
	if g.walkRight {
		g.x += step
	}
	if g.walkUp {
		g.y -= step
	}
	if g.walkDown {
		g.y += step
	}

	size := core.WindowSize()
	g.x = engine.ClampF(g.x, 0, float64(engine.Max(size.Width-playerSize, 0)))
	g.y = engine.ClampF(g.y, 0, float64(engine.Max(size.Height-playerSize, 0)))
}

// Draw implements engine.Game.
func (g *Game) Draw(core *engine.Core) {
	core.ClearScreen(Background)
	x, y := g.Position()
	core.DrawRect(x, y, playerSize, playerSize, Player)
}

// HandleInput records which direction keys are held.
func (g *Game) HandleInput(key engine.Key, pressed bool) {
	switch key {
	case engine.KeyLeft:
		g.walkLeft = pressed
	case engine.KeyRight:
		g.walkRight = pressed
	case engine.KeyUp:
		g.walkUp = pressed
	case engine.KeyDown:
		g.walkDown = pressed
	}
}

// Destroy implements engine.Game.
func (g *Game) Destroy() {
	if g.logger != nil {
		g.logger.Info("game destroyed")
	}
}

// Position returns the player's top-left corner in logical pixels.
func (g *Game) Position() (int, int) {
	return int(g.x), int(g.y)
}

var _ engine.Game = (*Game)(nil)
