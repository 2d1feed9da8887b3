package parameter

import (
	"time"
)

// Move loop pacing
const (
	// DefaultDT is the initial tick period
	DefaultDT = 60 * time.Millisecond

	// DefaultMaxMoveCount of 0 lets the loop run until stopped
	DefaultMaxMoveCount = 0

	// DefaultSpeedIncrementRatio shortens dt by 10% every ramp interval
	DefaultSpeedIncrementRatio = 0.9

	// RampInterval is the wall-clock period between difficulty ramps
	RampInterval = 3000 * time.Millisecond

	// MinDT floors the ramped tick period so the loop never busy-spins
	MinDT = 10 * time.Millisecond
)

// Playfield layout in cells
const (
	FieldWidth  = 60
	FieldHeight = 24

	BallSize = 1
	BallDX   = 1
	BallDY   = -1

	PaddleWidth = 9
	// PaddleRowFromBottom places the paddle this many rows above the floor
	PaddleRowFromBottom = 2
	// PaddleStep is the keyboard nudge distance
	PaddleStep = 3

	BrickRows   = 4
	BrickCols   = 10
	BrickWidth  = 5
	BrickHeight = 1
	BrickGap    = 1
	BrickTop    = 2
)

// Scoring
const (
	BrickScore = 10
)
