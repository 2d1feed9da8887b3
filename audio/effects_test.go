package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/parameter"
)

const testRate = beep.SampleRate(parameter.AudioSampleRate)

// drain streams s to the end and returns the sample count and peak amplitude
func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			peak = math.Max(peak, math.Max(math.Abs(smp[0]), math.Abs(smp[1])))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("Streamer did not end")
	return 0, 0
}

func TestNewEffect_Lengths(t *testing.T) {
	tests := []struct {
		sound    core.SoundType
		duration time.Duration
	}{
		{core.SoundWall, parameter.WallDuration},
		{core.SoundPaddle, parameter.PaddleDuration},
		{core.SoundBrick, parameter.BrickDuration},
		{core.SoundMiss, parameter.MissDuration},
	}

	for _, tt := range tests {
		t.Run(tt.sound.String(), func(t *testing.T) {
			s, err := NewEffect(tt.sound, testRate)
			if err != nil {
				t.Fatalf("NewEffect failed: %v", err)
			}
			n, peak := drain(t, s)
			if want := testRate.N(tt.duration); n != want {
				t.Errorf("Length = %d samples, want %d", n, want)
			}
			if peak == 0 {
				t.Error("Effect is silent")
			}
			if peak > 1.0 {
				t.Errorf("Peak %v clips", peak)
			}
		})
	}
}

func TestNewEffect_Unknown(t *testing.T) {
	if _, err := NewEffect(core.SoundTypeCount, testRate); err == nil {
		t.Error("Expected an error for an unknown sound")
	}
}

func TestOscillator_Square(t *testing.T) {
	// 4 samples per period at this frequency
	osc := NewOscillator(float64(testRate)/4, time.Second, WaveSquare, testRate)
	buf := make([][2]float64, 8)
	if n, ok := osc.Stream(buf); n != 8 || !ok {
		t.Fatalf("Streamed %d,%v; want 8,true", n, ok)
	}
	want := []float64{1, 1, -1, -1, 1, 1, -1, -1}
	for i, w := range want {
		if buf[i][0] != w || buf[i][1] != w {
			t.Errorf("Sample %d = %v, want %v", i, buf[i], w)
		}
	}
}

func TestOscillator_Ends(t *testing.T) {
	osc := NewOscillator(440, time.Millisecond, WaveSaw, testRate)
	buf := make([][2]float64, 64)

	if n, ok := osc.Stream(buf); n != testRate.N(time.Millisecond) || !ok {
		t.Errorf("First read = %d,%v; want %d,true", n, ok, testRate.N(time.Millisecond))
	}
	if n, ok := osc.Stream(buf); n != 0 || ok {
		t.Errorf("Exhausted oscillator returned %d,%v", n, ok)
	}
}

func TestFadeOut_EndsSilent(t *testing.T) {
	osc := NewOscillator(440, time.Second, WaveSquare, testRate)
	fade := NewFadeOut(osc, 10*time.Millisecond, testRate)

	buf := make([][2]float64, testRate.N(10*time.Millisecond))
	n, _ := fade.Stream(buf)
	if n != len(buf) {
		t.Fatalf("Streamed %d, want %d", n, len(buf))
	}
	if math.Abs(buf[0][0]) != 1 {
		t.Errorf("First sample = %v, want full scale", buf[0][0])
	}
	if last := math.Abs(buf[n-1][0]); last > 0.01 {
		t.Errorf("Last sample = %v, want near silence", last)
	}
}
