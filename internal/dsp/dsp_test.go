package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRRCTapsUnityGainAndPeak(t *testing.T) {
	taps := RRCTaps(0.35, 6, 20)
	assert.Len(t, taps, 121)

	var sum float64
	for _, v := range taps {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9, "RRC taps must sum to unity DC gain")

	// Peak tap should sit at the center (t=0).
	center := len(taps) / 2
	for i, v := range taps {
		if i != center {
			assert.LessOrEqual(t, v, taps[center]+1e-9)
		}
	}
}

func TestNCOPhaseWraps(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		freq := rapid.Float64Range(-4000, 4000).Draw(t, "freq")
		n := NewNCO(freq, 48000)
		for i := 0; i < 1000; i++ {
			c, s := n.Step()
			assert.LessOrEqual(t, math.Abs(c), 1.0+1e-9)
			assert.LessOrEqual(t, math.Abs(s), 1.0+1e-9)
			assert.True(t, n.phase >= 0 && n.phase < 2*math.Pi, "phase %v outside [0, 2pi)", n.phase)
		}
	})
}

func TestDownconvertToneLandsAtBaseband(t *testing.T) {
	// A pure tone at fc, downconverted at fc, keeps its energy in the
	// baseband stream.
	n := 2000
	samples := make([]Sample, n)
	src := NewNCO(1800, 48000)
	for i := range samples {
		c, _ := src.Step()
		samples[i] = Sample(c)
	}
	bb := Downconvert(samples, 48000, 1800, 0)
	// No filter is applied here, so each baseband sample is
	// cos(phi)*exp(-j*phi) with magnitude |cos(phi)|; the average is
	// about 2/pi (0.64). Its DC part is 0.5, the rest is the 2*fc image.
	var mag float64
	for _, v := range bb {
		mag += cmplxAbs(v)
	}
	mag /= float64(n)
	assert.Greater(t, mag, 0.3)
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
