package desktop

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	raudio "github.com/hajimehoshi/ebiten/v2/examples/resources/audio"
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/parameter"
)

// Relative player volume per effect, the shared jab sample is shaded by loudness
var soundVolumes = [core.SoundTypeCount]float64{
	core.SoundWall:   0.25,
	core.SoundPaddle: 0.5,
	core.SoundBrick:  0.8,
	core.SoundMiss:   1.0,
}

// Sounds plays effects through ebiten's audio context
// Play is safe from the move loop goroutine
type Sounds struct {
	players [core.SoundTypeCount]*audio.Player
	muted   atomic.Bool
}

// NewSounds decodes one player per effect on ctx
func NewSounds(ctx *audio.Context) (*Sounds, error) {
	s := &Sounds{}
	for i := range s.players {
		d, err := wav.DecodeWithoutResampling(bytes.NewReader(raudio.Jab_wav))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", core.SoundType(i), err)
		}
		p, err := ctx.NewPlayer(d)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", core.SoundType(i), err)
		}
		p.SetVolume(soundVolumes[i])
		s.players[i] = p
	}
	return s, nil
}

// NewContext returns the process audio context; ebiten allows only one
func NewContext() *audio.Context {
	if ctx := audio.CurrentContext(); ctx != nil {
		return ctx
	}
	return audio.NewContext(parameter.AudioSampleRate)
}

// Play implements engine.SoundPlayer
func (s *Sounds) Play(sound core.SoundType) {
	if s.muted.Load() || sound < 0 || sound >= core.SoundTypeCount {
		return
	}
	p := s.players[sound]
	if err := p.Rewind(); err != nil {
		return
	}
	p.Play()
}

// ToggleMute flips the mute state and returns the new value
func (s *Sounds) ToggleMute() bool {
	for {
		old := s.muted.Load()
		if s.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// SetMuted enables or disables playback
func (s *Sounds) SetMuted(muted bool) {
	s.muted.Store(muted)
}
