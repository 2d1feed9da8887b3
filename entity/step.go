package entity

import (
	"github.com/lixenwraith/breakout/geom"
)

// Contact describes what a ball touched during one displacement step
type Contact struct {
	Ball  *Entity
	Walls geom.Axis // Playfield edges reflected on
	Floor bool      // Bottom edge touched
	Hits  []*Entity // Obstacles reflected on, in world order
}

// Empty reports whether the step touched nothing
func (c Contact) Empty() bool {
	return c.Walls == geom.AxisNone && !c.Floor && len(c.Hits) == 0
}

// Step advances a moveable entity by its velocity and applies reflection
//
// Obstacles are tested first against the pre-step position: an axis on which
// the ball was clear of the obstacle is the axis it crossed, so that velocity
// component is negated and the ball clamped to the side it came from. Each
// axis flips at most once per step. Playfield edges are tested after: touching
// or crossing an edge while moving toward it reflects and clamps.
func (e *Entity) Step(field geom.Rect, obstacles []*Entity) Contact {
	c := Contact{Ball: e}
	if !e.Moveable() {
		return c
	}

	prev := e.Rect
	next := prev.Translate(e.Vel)
	vel := e.Vel
	var flipped geom.Axis

	for _, o := range obstacles {
		if o == e || !o.Obstacle() {
			continue
		}
		ob := o.Rect
		if !next.Overlaps(ob) {
			continue
		}

		clearX := !prev.OverlapsX(ob)
		clearY := !prev.OverlapsY(ob)

		if !clearX && !clearY {
			// Obstacle moved onto the ball: eject vertically, away from its center
			if prev.Y*2+prev.H < ob.Y*2+ob.H {
				next.Y = ob.Y - geom.Extent(next.H)
				if vel.Y > 0 && !flipped.Has(geom.AxisY) {
					vel.Y = -vel.Y
					flipped |= geom.AxisY
				}
			} else {
				next.Y = ob.Y + geom.Extent(ob.H)
				if vel.Y < 0 && !flipped.Has(geom.AxisY) {
					vel.Y = -vel.Y
					flipped |= geom.AxisY
				}
			}
			c.Hits = append(c.Hits, o)
			continue
		}

		if clearY && !flipped.Has(geom.AxisY) {
			if e.Vel.Y > 0 {
				next.Y = ob.Y - geom.Extent(next.H)
			} else {
				next.Y = ob.Y + geom.Extent(ob.H)
			}
			vel.Y = -vel.Y
			flipped |= geom.AxisY
		}
		if clearX && !flipped.Has(geom.AxisX) {
			if e.Vel.X > 0 {
				next.X = ob.X - geom.Extent(next.W)
			} else {
				next.X = ob.X + geom.Extent(ob.W)
			}
			vel.X = -vel.X
			flipped |= geom.AxisX
		}
		c.Hits = append(c.Hits, o)
	}

	// Playfield edges
	if vel.X < 0 && next.X <= field.X {
		next.X = field.X
		vel.X = -vel.X
		c.Walls |= geom.AxisX
	} else if vel.X > 0 && next.Right() >= field.Right() {
		next.X = field.Right() - next.W
		vel.X = -vel.X
		c.Walls |= geom.AxisX
	}
	if vel.Y < 0 && next.Y <= field.Y {
		next.Y = field.Y
		vel.Y = -vel.Y
		c.Walls |= geom.AxisY
	} else if vel.Y > 0 && next.Bottom() >= field.Bottom() {
		next.Y = field.Bottom() - next.H
		vel.Y = -vel.Y
		c.Walls |= geom.AxisY
		c.Floor = true
	}

	e.Rect = field.ClampInside(next)
	e.Vel = vel
	return c
}
