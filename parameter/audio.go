package parameter

import (
	"time"
)

// Sound effects
const (
	AudioSampleRate = 48000
	// AudioBufferDuration trades latency for underrun safety
	AudioBufferDuration = 50 * time.Millisecond
	// AudioVolume is the effects.Volume exponent (base 2), 0 is unity gain
	AudioVolume = -1.0

	WallToneHz     = 330
	WallDuration   = 40 * time.Millisecond
	PaddleToneHz   = 523
	PaddleDuration = 60 * time.Millisecond
	BrickDuration  = 120 * time.Millisecond
	MissToneHz     = 110
	MissDuration   = 250 * time.Millisecond

	// MaxQueuedSounds drops triggers beyond this many pending effects
	MaxQueuedSounds = 16
)
