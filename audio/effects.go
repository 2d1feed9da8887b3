package audio

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSquare WaveType = iota
	WaveSaw
	WaveNoise
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates an oscillator that ends after duration
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// fadeOut scales a stream linearly to silence over its length, removing the end click
type fadeOut struct {
	streamer beep.Streamer
	position int
	total    int
}

// NewFadeOut wraps s, cutting it at duration with a linear release
func NewFadeOut(s beep.Streamer, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	return &fadeOut{streamer: beep.Take(total, s), total: total}
}

func (f *fadeOut) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1 - float64(f.position)/float64(f.total)
		if vol < 0 {
			vol = 0
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		f.position++
	}
	return n, ok
}

func (f *fadeOut) Err() error { return f.streamer.Err() }

// withVolume applies a base-2 gain exponent, 0 is unity
func withVolume(s beep.Streamer, exponent float64) beep.Streamer {
	return &effects.Volume{Streamer: s, Base: 2, Volume: exponent}
}

// NewEffect builds the streamer for one sound effect
func NewEffect(sound core.SoundType, rate beep.SampleRate) (beep.Streamer, error) {
	switch sound {
	case core.SoundWall:
		tone, err := generators.SineTone(rate, parameter.WallToneHz)
		if err != nil {
			return nil, fmt.Errorf("wall tone: %w", err)
		}
		return NewFadeOut(tone, parameter.WallDuration, rate), nil

	case core.SoundPaddle:
		osc := NewOscillator(parameter.PaddleToneHz, parameter.PaddleDuration, WaveSquare, rate)
		return withVolume(NewFadeOut(osc, parameter.PaddleDuration, rate), -1), nil

	case core.SoundBrick:
		// Noise burst over a falling saw reads as a crunch
		noise := NewOscillator(0, parameter.BrickDuration, WaveNoise, rate)
		saw := NewOscillator(180, parameter.BrickDuration, WaveSaw, rate)
		mixed := beep.Mix(withVolume(noise, -1.5), withVolume(saw, -1))
		return NewFadeOut(mixed, parameter.BrickDuration, rate), nil

	case core.SoundMiss:
		buzz := NewOscillator(parameter.MissToneHz, parameter.MissDuration, WaveSaw, rate)
		return NewFadeOut(buzz, parameter.MissDuration, rate), nil
	}
	return nil, fmt.Errorf("unknown sound %d", sound)
}
