package parameter

import (
	"time"
)

// Terminal frontend
const (
	// FrameInterval caps redraws triggered by repaint requests
	FrameInterval = 16 * time.Millisecond

	// HUDRows is the number of status rows under the playfield
	HUDRows = 2

	GlyphBall  = '●'
	GlyphBar   = '▀'
	GlyphBrick = '█'
)

// Desktop frontend
const (
	// DesktopScale is pixels per playfield cell
	DesktopScale = 8
	DesktopTitle = "Breakout"
	// DesktopTPS is the input polling rate, independent of the move loop
	DesktopTPS = 60
)
