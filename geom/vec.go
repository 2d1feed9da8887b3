package geom

// Vec is a per-tick displacement in cells (terminal) or pixels (window)
type Vec struct {
	X, Y int
}

// Axis is a bitmask of the axes touched by a reflection
type Axis uint8

const (
	AxisX Axis = 1 << iota
	AxisY

	AxisNone Axis = 0
	AxisBoth      = AxisX | AxisY
)

// Has reports whether every axis in a is set
func (m Axis) Has(a Axis) bool {
	return m&a == a && a != AxisNone
}

// String returns a compact axis label for logs
func (m Axis) String() string {
	switch m {
	case AxisNone:
		return "none"
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisBoth:
		return "xy"
	default:
		return "invalid"
	}
}
