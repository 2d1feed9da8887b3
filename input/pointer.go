package input

import (
	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/entity"
	"github.com/lixenwraith/breakout/geom"
)

// PaddleMove is the new position of one pointer-driven entity
type PaddleMove struct {
	Index int // Insertion index in the world
	X, Y  int // Target top-left corner
}

// PaddleMoves maps a pointer x-coordinate to paddle positions
// Every pointer-driven entity gets its left edge at pointerX, clamped to the
// playfield; its row does not change
func PaddleMoves(pointerX int, w *engine.World) []PaddleMove {
	var moves []PaddleMove
	w.RunSafe(func(field geom.Rect, entities []*entity.Entity) {
		moves = paddleMoves(pointerX, field, entities)
	})
	return moves
}

func paddleMoves(pointerX int, field geom.Rect, entities []*entity.Entity) []PaddleMove {
	var moves []PaddleMove
	for i, e := range entities {
		if !e.PointerDriven() {
			continue
		}
		moves = append(moves, PaddleMove{
			Index: i,
			X:     geom.Clamp(pointerX, field.X, field.Right()-e.Rect.W),
			Y:     e.Rect.Y,
		})
	}
	return moves
}

// TrackPointer moves every paddle to pointerX under the world lock and requests a redraw
func TrackPointer(w *engine.World, pointerX int, r engine.Repainter) {
	w.RunSafe(func(field geom.Rect, entities []*entity.Entity) {
		for _, m := range paddleMoves(pointerX, field, entities) {
			entities[m.Index].MoveTo(m.X, field)
		}
	})
	if r != nil {
		r.Repaint()
	}
}

// NudgePaddles shifts every paddle by dx cells, used for keyboard control
func NudgePaddles(w *engine.World, dx int, r engine.Repainter) {
	w.RunSafe(func(field geom.Rect, entities []*entity.Entity) {
		for _, e := range entities {
			if e.PointerDriven() {
				e.MoveTo(e.Rect.X+dx, field)
			}
		}
	})
	if r != nil {
		r.Repaint()
	}
}
