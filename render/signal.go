package render

// Signal is a coalescing repaint notification
// Any number of Repaint calls between two receives collapse into one frame
type Signal struct {
	ch chan struct{}
}

// NewSignal creates an idle signal
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Repaint requests a frame without blocking
func (s *Signal) Repaint() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// C returns the channel that fires once per pending repaint
func (s *Signal) C() <-chan struct{} {
	return s.ch
}
