package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/starfield/parameter"
)

// drain streams s to completion and returns every sample
func drain(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 256)
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok || n == 0 {
			return out
		}
	}
	t.Fatal("streamer never ended")
	return nil
}

func TestSineLengthAndRange(t *testing.T) {
	rate := beep.SampleRate(44100)
	samples := drain(t, NewSine(440, 50*time.Millisecond, rate))
	require.Len(t, samples, rate.N(50*time.Millisecond))

	for i, s := range samples {
		if s[0] < -1 || s[0] > 1 || s[0] != s[1] {
			t.Fatalf("sample %d out of range or not mono: %v", i, s)
		}
	}
}

func TestEnvelopeShape(t *testing.T) {
	rate := beep.SampleRate(1000)
	flat := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{1, 1}
		}
		return len(samples), true
	})

	// 100 samples: 10 attack, 50 release
	samples := drain(t, NewEnvelope(flat, 100*time.Millisecond, 10*time.Millisecond, 50*time.Millisecond, rate))
	require.Len(t, samples, 100)

	assert.Equal(t, 0.0, samples[0][0])
	assert.InDelta(t, 0.5, samples[5][0], 1e-9)
	assert.Equal(t, 1.0, samples[20][0])
	assert.Equal(t, 1.0, samples[49][0])
	assert.InDelta(t, 0.5, samples[75][0], 1e-9)
	assert.InDelta(t, 0.02, samples[99][0], 1e-9)
}

func TestEnvelopeOverlongPhasesAreClamped(t *testing.T) {
	rate := beep.SampleRate(1000)
	osc := NewSine(100, 20*time.Millisecond, rate)
	samples := drain(t, NewEnvelope(osc, 20*time.Millisecond, 50*time.Millisecond, 50*time.Millisecond, rate))
	assert.Len(t, samples, 20)
}

func TestChimeDurationAndEnergy(t *testing.T) {
	rate := beep.SampleRate(parameter.AudioSampleRate)
	samples := drain(t, Chime(rate, 1))
	assert.Len(t, samples, rate.N(parameter.ChimeDuration))

	var peak, energy float64
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(s[0]))
		energy += s[0] * s[0]
	}
	assert.Greater(t, energy, 0.0)
	assert.LessOrEqual(t, peak, 1.0+1e-9)

	// Decays to near silence at the tail
	last := samples[len(samples)-1][0]
	assert.Less(t, math.Abs(last), 0.01)
}

func TestChimeVolume(t *testing.T) {
	rate := beep.SampleRate(8000)
	loud := drain(t, Chime(rate, 1))
	quiet := drain(t, Chime(rate, 0.25))
	silent := drain(t, Chime(rate, 0))

	require.Equal(t, len(loud), len(quiet))
	i := len(loud) / 4
	assert.InDelta(t, loud[i][0]*0.25, quiet[i][0], 1e-9)
	for _, s := range silent {
		assert.Zero(t, s[0])
	}
}
