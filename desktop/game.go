// Package desktop is the ebiten window frontend.
//
// The move loop keeps running on its own goroutine; Update only reads input
// and Draw only reads world snapshots, so the window frame rate never paces
// the game.
package desktop

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"log"
	"strings"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/examples/resources/fonts"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lixenwraith/breakout/entity"
	"github.com/lixenwraith/breakout/game"
	"github.com/lixenwraith/breakout/geom"
	"github.com/lixenwraith/breakout/input"
	"github.com/lixenwraith/breakout/render"
	"github.com/lixenwraith/breakout/status"
	"golang.org/x/image/math/f64"
)

const (
	hudHeight   = 28
	hudFontSize = 8
	hudPadding  = 4
)

// Game adapts a session to ebiten.Game
type Game struct {
	ctx     context.Context
	session *game.Session
	sounds  *Sounds
	scale   f64.Vec2
	face    *text.GoTextFace

	lastCursorX int
	step        int

	score    *atomic.Int64
	misses   *atomic.Int64
	bricks   *atomic.Int64
	dtMillis *atomic.Int64
	state    *status.AtomicString
	outcome  *status.AtomicString
}

// NewGame wires a running session to the window; sounds may be nil
func NewGame(ctx context.Context, session *game.Session, reg *status.Registry, sounds *Sounds, scale float64) (*Game, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(fonts.PressStart2P_ttf))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	return &Game{
		ctx:         ctx,
		session:     session,
		sounds:      sounds,
		scale:       geom.UniformScale(scale),
		face:        &text.GoTextFace{Source: src, Size: hudFontSize},
		lastCursorX: -1,
		step:        session.Config().Paddle.Step,
		score:       reg.Ints.Get(status.KeyScore),
		misses:      reg.Ints.Get(status.KeyMisses),
		bricks:      reg.Ints.Get(status.KeyBricks),
		dtMillis:    reg.Ints.Get(status.KeyDTMillis),
		state:       reg.Strings.Get(status.KeyLoopState),
		outcome:     reg.Strings.Get(status.KeyOutcome),
	}, nil
}

// WindowSize returns the window size in pixels for the session's playfield
func (g *Game) WindowSize() (int, int) {
	field := g.session.World().Playfield()
	w, h := geom.PixelSize(field.W, field.H, g.scale)
	return w, h + hudHeight
}

// Update polls input once per ebiten tick
func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		if err := g.session.Close(); err != nil {
			log.Printf("desktop: loop ended with %v", err)
		}
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := g.session.Restart(g.ctx); err != nil {
			log.Printf("desktop: restart: previous run ended with %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		if g.sounds != nil {
			log.Printf("desktop: muted=%v", g.sounds.ToggleMute())
		}
	}

	world := g.session.World()
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyH) {
		input.NudgePaddles(world, -g.step, nil)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyL) {
		input.NudgePaddles(world, g.step, nil)
	}

	// Only track actual cursor motion so keyboard nudges are not overridden
	cx, _ := ebiten.CursorPosition()
	if cx != g.lastCursorX {
		g.lastCursorX = cx
		cellX, _ := geom.ToCell(cx, 0, g.scale)
		input.TrackPointer(world, cellX, nil)
	}
	return nil
}

// Draw renders a snapshot of the world and the HUD
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(rgba(render.RgbBackground))

	world := g.session.World()
	field := world.Playfield()
	for _, e := range world.Snapshot() {
		g.drawEntity(screen, &e)
	}

	fw, fh := geom.PixelSize(field.W, field.H, g.scale)
	vector.StrokeRect(screen, 0.5, 0.5, float32(fw)-1, float32(fh)-1, 1, rgba(render.RgbBorder), false)

	line := fmt.Sprintf("SCORE %d  MISS %d  LEFT %d  %dMS %s",
		g.score.Load(), g.misses.Load(), g.bricks.Load(), g.dtMillis.Load(), strings.ToUpper(g.state.Load()))
	g.drawText(screen, line, hudPadding, float64(fh+hudPadding), rgba(render.RgbStatusText))

	if outcome := g.outcome.Load(); outcome != "" {
		g.drawText(screen, strings.ToUpper(outcome), hudPadding, float64(fh+hudPadding+hudFontSize+hudPadding), rgba(render.RgbWon))
	}
}

func (g *Game) drawEntity(screen *ebiten.Image, e *entity.Entity) {
	var clr color.Color
	switch e.Kind() {
	case entity.KindBall:
		clr = rgba(render.RgbBall)
	case entity.KindBar:
		clr = rgba(render.RgbBar)
	case entity.KindBrick:
		if e.Broken() {
			return
		}
		clr = rgba(render.BrickColor(e.Rect.Y))
	default:
		return
	}

	x, y, w, h := geom.ToPixels(e.Bounds(), g.scale)
	if e.Kind() == entity.KindBall {
		vector.DrawFilledCircle(screen, x+w/2, y+h/2, min(w, h)/2, clr, true)
		return
	}
	// One pixel gap between neighbouring bricks and the paddle edge
	vector.DrawFilledRect(screen, x, y, w-1, h-1, clr, false)
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, g.face, op)
}

// Layout keeps the logical screen at the playfield size plus the HUD
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.WindowSize()
}

// rgba converts a palette color shared with the terminal renderer
func rgba(c tcell.Color) color.RGBA {
	r, gr, b := c.RGB()
	return color.RGBA{R: uint8(r), G: uint8(gr), B: uint8(b), A: 0xff}
}
