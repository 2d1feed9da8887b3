package geom

import (
	"testing"

	"golang.org/x/image/math/f64"
)

func TestToPixels(t *testing.T) {
	scale := UniformScale(8)

	x, y, w, h := ToPixels(NewRect(2, 3, 5, 1), scale)
	if x != 16 || y != 24 || w != 40 || h != 8 {
		t.Errorf("ToPixels = (%v,%v,%v,%v), want (16,24,40,8)", x, y, w, h)
	}

	// Point-sized bodies still cover one cell
	_, _, w, h = ToPixels(NewRect(0, 0, 0, 0), scale)
	if w != 8 || h != 8 {
		t.Errorf("Point size = %vx%v, want 8x8", w, h)
	}
}

func TestToCell(t *testing.T) {
	scale := f64.Vec2{8, 16}
	tests := []struct {
		px, py, cx, cy int
	}{
		{0, 0, 0, 0},
		{7, 15, 0, 0},
		{8, 16, 1, 1},
		{83, 40, 10, 2},
		{-1, -1, -1, -1},
	}
	for _, tt := range tests {
		cx, cy := ToCell(tt.px, tt.py, scale)
		if cx != tt.cx || cy != tt.cy {
			t.Errorf("ToCell(%d,%d) = (%d,%d), want (%d,%d)", tt.px, tt.py, cx, cy, tt.cx, tt.cy)
		}
	}

	if cx, cy := ToCell(5, 6, f64.Vec2{}); cx != 5 || cy != 6 {
		t.Errorf("Zero scale should pass through, got (%d,%d)", cx, cy)
	}
}

func TestPixelSize(t *testing.T) {
	w, h := PixelSize(60, 24, UniformScale(8))
	if w != 480 || h != 192 {
		t.Errorf("PixelSize = %dx%d, want 480x192", w, h)
	}
}
