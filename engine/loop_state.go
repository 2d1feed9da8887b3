package engine

// LoopState is the lifecycle phase of a move loop
type LoopState int32

const (
	StateIdle        LoopState = iota // Constructed or reset, not running
	StateRunning                      // Run is pacing moves
	StateStopped                      // Stop was requested, Run returned cleanly
	StateCapped                       // maxMoveCount reached, Run returned cleanly
	StateInterrupted                  // Run context cancelled, Run returned an error
)

// String returns the name of the state
func (s LoopState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateStopped:
		return "Stopped"
	case StateCapped:
		return "Capped"
	case StateInterrupted:
		return "Interrupted"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the state ends a run
func (s LoopState) Terminal() bool {
	return s == StateStopped || s == StateCapped || s == StateInterrupted
}
