// Package geom holds the integer geometry shared by the simulation and the
// frontends. Coordinates have their origin at the top-left, y grows downward.
package geom

// Rect is an axis-aligned bounding box
type Rect struct {
	X, Y int // Top-left corner
	W, H int // Dimensions, never negative
}

// NewRect creates a rectangle, negative dimensions collapse to zero
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: max(w, 0), H: max(h, 0)}
}

// Right returns the x-coordinate of the right edge
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Translate returns the rectangle moved by v
func (r Rect) Translate(v Vec) Rect {
	r.X += v.X
	r.Y += v.Y
	return r
}

// Overlaps reports whether r and o share any cell
// A zero-extent side counts as one cell so point-sized bodies still collide
func (r Rect) Overlaps(o Rect) bool {
	return r.OverlapsX(o) && r.OverlapsY(o)
}

// OverlapsX reports whether the horizontal spans of r and o intersect
func (r Rect) OverlapsX(o Rect) bool {
	return spanOverlap(r.X, r.W, o.X, o.W)
}

// OverlapsY reports whether the vertical spans of r and o intersect
func (r Rect) OverlapsY(o Rect) bool {
	return spanOverlap(r.Y, r.H, o.Y, o.H)
}

// Contains reports whether o lies entirely within r, edges inclusive
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// ClampInside returns o shifted so it lies inside r on both axes
// When o is larger than r on an axis it is pinned to r's leading edge
func (r Rect) ClampInside(o Rect) Rect {
	o.X = Clamp(o.X, r.X, r.Right()-o.W)
	o.Y = Clamp(o.Y, r.Y, r.Bottom()-o.H)
	return o
}

// Extent returns the collision extent of a side length
func Extent(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func spanOverlap(a, aw, b, bw int) bool {
	return a < b+Extent(bw) && b < a+Extent(aw)
}

// Clamp restricts v to [lo, hi]; lo wins when the range is empty
func Clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
