// Package audio synthesizes and plays the game's sound effects with beep.
package audio

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/parameter"
)

// SoundManager plays fire-and-forget effects through a shared mixer
type SoundManager struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	volume      float64
	mixer       *beep.Mixer
	initialized bool
	muted       atomic.Bool
}

// NewSoundManager creates a sound manager, volume is a base-2 gain exponent
func NewSoundManager(volume float64) *SoundManager {
	return &SoundManager{
		rate:   beep.SampleRate(parameter.AudioSampleRate),
		volume: volume,
		mixer:  &beep.Mixer{},
	}
}

// Initialize opens the speaker and starts the mixer
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sm.rate, sm.rate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}

	speaker.Play(withVolume(sm.mixer, sm.volume))
	sm.initialized = true
	return nil
}

// Play queues an effect; dropped when muted, uninitialized or the mixer is saturated
func (sm *SoundManager) Play(sound core.SoundType) {
	if sm.muted.Load() {
		return
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	streamer, err := NewEffect(sound, sm.rate)
	if err != nil {
		log.Printf("audio: %v", err)
		return
	}

	speaker.Lock()
	if sm.mixer.Len() < parameter.MaxQueuedSounds {
		sm.mixer.Add(streamer)
	}
	speaker.Unlock()
}

// SetMuted enables or disables playback
func (sm *SoundManager) SetMuted(muted bool) {
	sm.muted.Store(muted)
}

// ToggleMute flips the mute state and returns the new value
func (sm *SoundManager) ToggleMute() bool {
	for {
		old := sm.muted.Load()
		if sm.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Muted reports whether playback is disabled
func (sm *SoundManager) Muted() bool {
	return sm.muted.Load()
}

// Cleanup drops pending effects and stops the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	sm.initialized = false
}

// Nop discards every effect, used when audio is disabled or unavailable
type Nop struct{}

// Play implements engine.SoundPlayer
func (Nop) Play(core.SoundType) {}
