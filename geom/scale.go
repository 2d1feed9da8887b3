package geom

import (
	"math"

	"golang.org/x/image/math/f64"
)

// UniformScale returns a scale of s pixels per cell on both axes
func UniformScale(s float64) f64.Vec2 {
	return f64.Vec2{s, s}
}

// ToPixels maps a cell rectangle to pixel space, zero-extent sides cover one cell
func ToPixels(r Rect, scale f64.Vec2) (x, y, w, h float32) {
	return float32(float64(r.X) * scale[0]),
		float32(float64(r.Y) * scale[1]),
		float32(float64(Extent(r.W)) * scale[0]),
		float32(float64(Extent(r.H)) * scale[1])
}

// ToCell maps a pixel position to the cell containing it
func ToCell(px, py int, scale f64.Vec2) (int, int) {
	if scale[0] <= 0 || scale[1] <= 0 {
		return px, py
	}
	return int(math.Floor(float64(px) / scale[0])), int(math.Floor(float64(py) / scale[1]))
}

// PixelSize returns the pixel dimensions of a w x h cell area
func PixelSize(w, h int, scale f64.Vec2) (int, int) {
	return int(math.Ceil(float64(w) * scale[0])), int(math.Ceil(float64(h) * scale[1]))
}
