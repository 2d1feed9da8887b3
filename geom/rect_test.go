package geom

import (
	"testing"
)

func TestNewRect_NegativeDimensions(t *testing.T) {
	r := NewRect(3, 4, -2, -7)
	if r.W != 0 || r.H != 0 {
		t.Errorf("NewRect(3,4,-2,-7) = %+v, want zero size", r)
	}
	if r.Right() != 3 || r.Bottom() != 4 {
		t.Errorf("Right/Bottom = %d/%d, want 3/4", r.Right(), r.Bottom())
	}
}

func TestRect_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"disjoint", NewRect(0, 0, 2, 2), NewRect(5, 5, 2, 2), false},
		{"edge adjacent", NewRect(0, 0, 2, 2), NewRect(2, 0, 2, 2), false},
		{"one cell shared", NewRect(0, 0, 2, 2), NewRect(1, 1, 2, 2), true},
		{"contained", NewRect(0, 0, 10, 10), NewRect(3, 3, 1, 1), true},
		{"point inside", NewRect(4, 4, 0, 0), NewRect(0, 0, 10, 1).Translate(Vec{Y: 4}), true},
		{"point on right edge", NewRect(10, 4, 0, 0), NewRect(0, 4, 10, 1), false},
		{"point on left edge", NewRect(0, 4, 0, 0), NewRect(0, 4, 10, 1), true},
		{"points same cell", NewRect(3, 3, 0, 0), NewRect(3, 3, 0, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("b.Overlaps(a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRect_Contains(t *testing.T) {
	field := NewRect(0, 0, 20, 20)
	tests := []struct {
		r    Rect
		want bool
	}{
		{NewRect(0, 0, 20, 20), true},
		{NewRect(20, 20, 0, 0), true},
		{NewRect(19, 19, 2, 1), false},
		{NewRect(-1, 5, 1, 1), false},
	}
	for _, tt := range tests {
		if got := field.Contains(tt.r); got != tt.want {
			t.Errorf("Contains(%+v) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestRect_ClampInside(t *testing.T) {
	field := NewRect(0, 0, 20, 20)
	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"inside untouched", NewRect(5, 5, 2, 2), NewRect(5, 5, 2, 2)},
		{"past right", NewRect(25, 5, 2, 2), NewRect(18, 5, 2, 2)},
		{"past top", NewRect(5, -3, 2, 2), NewRect(5, 0, 2, 2)},
		{"point on corner", NewRect(20, 20, 0, 0), NewRect(20, 20, 0, 0)},
		{"wider than field", NewRect(5, 5, 30, 1), NewRect(0, 5, 30, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := field.ClampInside(tt.in); got != tt.want {
				t.Errorf("ClampInside(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{5, 8, 3, 8}, // Empty range: lo wins
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestAxis(t *testing.T) {
	if !AxisBoth.Has(AxisX) || !AxisBoth.Has(AxisY) {
		t.Error("AxisBoth should contain both axes")
	}
	if AxisX.Has(AxisY) {
		t.Error("AxisX should not contain AxisY")
	}
	if AxisBoth.Has(AxisNone) {
		t.Error("No mask contains AxisNone")
	}
	for m, want := range map[Axis]string{AxisNone: "none", AxisX: "x", AxisY: "y", AxisBoth: "xy", 8: "invalid"} {
		if got := m.String(); got != want {
			t.Errorf("Axis(%d).String() = %q, want %q", m, got, want)
		}
	}
}
