// Package render draws the world to a tcell screen and carries the repaint signal.
package render

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/entity"
	"github.com/lixenwraith/breakout/geom"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/status"
)

const helpLine = "mouse/h/l move  r restart  m mute  q quit"

// TerminalRenderer handles all terminal rendering
type TerminalRenderer struct {
	screen tcell.Screen

	// Cached metric cells
	score    *atomic.Int64
	misses   *atomic.Int64
	bricks   *atomic.Int64
	moves    *atomic.Int64
	dtMillis *atomic.Int64
	state    *status.AtomicString
	outcome  *status.AtomicString
}

// NewTerminalRenderer creates a renderer drawing to screen with HUD values from reg
func NewTerminalRenderer(screen tcell.Screen, reg *status.Registry) *TerminalRenderer {
	return &TerminalRenderer{
		screen:   screen,
		score:    reg.Ints.Get(status.KeyScore),
		misses:   reg.Ints.Get(status.KeyMisses),
		bricks:   reg.Ints.Get(status.KeyBricks),
		moves:    reg.Ints.Get(status.KeyMoves),
		dtMillis: reg.Ints.Get(status.KeyDTMillis),
		state:    reg.Strings.Get(status.KeyLoopState),
		outcome:  reg.Strings.Get(status.KeyOutcome),
	}
}

// Origin returns the screen cell of the playfield's top-left corner
// The field is centered, leaving room for the border and the HUD
func (r *TerminalRenderer) Origin(field geom.Rect) (int, int) {
	sw, sh := r.screen.Size()
	x := (sw - field.W) / 2
	y := (sh - field.H - parameter.HUDRows) / 2
	return max(x, 1), max(y, 1)
}

// Fits reports whether the screen can hold the field, its border and the HUD
func (r *TerminalRenderer) Fits(field geom.Rect) bool {
	sw, sh := r.screen.Size()
	return sw >= field.W+2 && sh >= field.H+2+parameter.HUDRows
}

// RenderFrame renders the entire game frame
func (r *TerminalRenderer) RenderFrame(w *engine.World) {
	field := w.Playfield()
	entities := w.Snapshot()

	defaultStyle := tcell.StyleDefault.Background(RgbBackground)
	r.screen.Fill(' ', defaultStyle)

	if !r.Fits(field) {
		sw, _ := r.screen.Size()
		msg := fmt.Sprintf("terminal too small, need %dx%d", field.W+2, field.H+2+parameter.HUDRows)
		r.drawText(max((sw-len(msg))/2, 0), 0, msg, defaultStyle.Foreground(RgbWarning))
		r.screen.Show()
		return
	}

	ox, oy := r.Origin(field)
	r.drawBorder(ox-1, oy-1, field.W+2, field.H+2, defaultStyle.Foreground(RgbBorder))

	for i := range entities {
		r.drawEntity(&entities[i], ox, oy, field, defaultStyle)
	}

	r.drawStatus(ox-1, oy+field.H+1, defaultStyle)
	r.screen.Show()
}

func (r *TerminalRenderer) drawEntity(e *entity.Entity, ox, oy int, field geom.Rect, style tcell.Style) {
	var glyph rune
	switch e.Kind() {
	case entity.KindBall:
		glyph = parameter.GlyphBall
		style = style.Foreground(RgbBall)
	case entity.KindBar:
		glyph = parameter.GlyphBar
		style = style.Foreground(RgbBar)
	case entity.KindBrick:
		if e.Broken() {
			return
		}
		glyph = parameter.GlyphBrick
		style = style.Foreground(BrickColor(e.Rect.Y))
	default:
		return
	}

	b := e.Bounds()
	for dy := 0; dy < geom.Extent(b.H); dy++ {
		for dx := 0; dx < geom.Extent(b.W); dx++ {
			x, y := b.X+dx, b.Y+dy
			// A point-sized ball on the far edge still occupies the last cell
			x = geom.Clamp(x, field.X, field.Right()-1)
			y = geom.Clamp(y, field.Y, field.Bottom()-1)
			r.screen.SetContent(ox+x, oy+y, glyph, nil, style)
		}
	}
}

func (r *TerminalRenderer) drawBorder(x, y, w, h int, style tcell.Style) {
	for i := 1; i < w-1; i++ {
		r.screen.SetContent(x+i, y, '─', nil, style)
		r.screen.SetContent(x+i, y+h-1, '─', nil, style)
	}
	for j := 1; j < h-1; j++ {
		r.screen.SetContent(x, y+j, '│', nil, style)
		r.screen.SetContent(x+w-1, y+j, '│', nil, style)
	}
	r.screen.SetContent(x, y, '┌', nil, style)
	r.screen.SetContent(x+w-1, y, '┐', nil, style)
	r.screen.SetContent(x, y+h-1, '└', nil, style)
	r.screen.SetContent(x+w-1, y+h-1, '┘', nil, style)
}

// drawStatus draws the two HUD rows under the border
func (r *TerminalRenderer) drawStatus(x, y int, style tcell.Style) {
	line := fmt.Sprintf("score %d  misses %d  bricks %d  moves %d  dt %dms  [%s]",
		r.score.Load(), r.misses.Load(), r.bricks.Load(), r.moves.Load(), r.dtMillis.Load(), r.state.Load())
	r.drawText(x, y, line, style.Foreground(RgbStatusText))

	if outcome := r.outcome.Load(); outcome != "" {
		r.drawText(x+len(line)+2, y, strings.ToUpper(outcome), style.Foreground(RgbWon).Bold(true))
	}
	r.drawText(x, y+1, helpLine, style.Foreground(RgbHelpText))
}

func (r *TerminalRenderer) drawText(x, y int, s string, style tcell.Style) {
	for i, ch := range []rune(s) {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}
