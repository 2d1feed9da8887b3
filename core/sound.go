package core

// SoundType represents different sound effects
type SoundType int

const (
	SoundWall   SoundType = iota // Ball reflected off a playfield edge
	SoundPaddle                  // Ball reflected off a bar
	SoundBrick                   // Brick broken
	SoundMiss                    // Ball touched the floor
	SoundTypeCount
)

var soundNames = [SoundTypeCount]string{
	SoundWall:   "wall",
	SoundPaddle: "paddle",
	SoundBrick:  "brick",
	SoundMiss:   "miss",
}

// String returns the effect name used in logs and config
func (s SoundType) String() string {
	if s < 0 || s >= SoundTypeCount {
		return "unknown"
	}
	return soundNames[s]
}
