// Package entity defines the bodies living in the playfield.
//
// Entities are a tagged variant: the Kind decides which capabilities an entity
// has (Moveable, PointerDriven, Obstacle), so callers never type-switch.
package entity

import (
	"github.com/lixenwraith/breakout/geom"
)

// Kind tags the variant of an entity
type Kind uint8

const (
	KindBall Kind = iota
	KindBar
	KindBrick
	KindCount
)

var kindNames = [KindCount]string{
	KindBall:  "Ball",
	KindBar:   "Bar",
	KindBrick: "Brick",
}

// String returns the kind name
func (k Kind) String() string {
	if k >= KindCount {
		return "Unknown"
	}
	return kindNames[k]
}

// Entity is a bounded body in the playfield
// Rect and Vel are exported for frontends; mutation happens under the world lock
type Entity struct {
	kind   Kind
	Rect   geom.Rect
	Vel    geom.Vec
	broken bool

	// Setup state restored by Reset
	spawnRect geom.Rect
	spawnVel  geom.Vec
}

// NewBall creates a moveable ball with size w x h and velocity (dx, dy)
func NewBall(x, y, w, h, dx, dy int) *Entity {
	return newEntity(KindBall, geom.NewRect(x, y, w, h), geom.Vec{X: dx, Y: dy})
}

// NewBar creates a pointer-driven paddle riding row y
func NewBar(x, y, w, h int) *Entity {
	return newEntity(KindBar, geom.NewRect(x, y, w, h), geom.Vec{})
}

// NewBrick creates a breakable obstacle
func NewBrick(x, y, w, h int) *Entity {
	return newEntity(KindBrick, geom.NewRect(x, y, w, h), geom.Vec{})
}

func newEntity(kind Kind, r geom.Rect, v geom.Vec) *Entity {
	return &Entity{
		kind:      kind,
		Rect:      r,
		Vel:       v,
		spawnRect: r,
		spawnVel:  v,
	}
}

// Kind returns the variant tag
func (e *Entity) Kind() Kind {
	return e.kind
}

// Bounds returns the current bounding box
func (e *Entity) Bounds() geom.Rect {
	return e.Rect
}

// Moveable reports whether the move loop advances this entity
func (e *Entity) Moveable() bool {
	return e.kind == KindBall
}

// PointerDriven reports whether pointer input positions this entity
func (e *Entity) PointerDriven() bool {
	return e.kind == KindBar
}

// Obstacle reports whether balls reflect off this entity
func (e *Entity) Obstacle() bool {
	switch e.kind {
	case KindBar:
		return true
	case KindBrick:
		return !e.broken
	default:
		return false
	}
}

// Broken reports whether a brick has been hit
func (e *Entity) Broken() bool {
	return e.broken
}

// Break marks a brick as hit, returns false if it was not an intact brick
func (e *Entity) Break() bool {
	if e.kind != KindBrick || e.broken {
		return false
	}
	e.broken = true
	return true
}

// MoveTo sets the horizontal position of a pointer-driven entity
// The row is fixed; x is clamped so the entity stays inside field
func (e *Entity) MoveTo(x int, field geom.Rect) {
	if !e.PointerDriven() {
		return
	}
	e.Rect.X = geom.Clamp(x, field.X, field.Right()-e.Rect.W)
}

// Reset restores the setup position, velocity and brick state
func (e *Entity) Reset() {
	e.Rect = e.spawnRect
	e.Vel = e.spawnVel
	e.broken = false
}
