// Package dsp holds the leaf-level signal processing primitives the rest
// of the modem core is built on: the root-raised-cosine matched/transmit
// filter, a general FIR evaluator, and the complex NCO used for
// up/down-conversion. Adapted from the gen_rrc_lowpass/rrc
// and gen_lowpass functions in src/dsp.go, generalized from a fixed
// AFSK/9600 filter bank to the single RRC shape this waveform needs.
package dsp

import "math"

// Sample is one real-valued PCM amplitude in [-1, 1].
type Sample = float32

// RRCTaps returns a root-raised-cosine impulse response truncated to
// spanSymbols symbols in total (spanSymbols/2 either side of the peak,
// spanSymbols*sps+1 taps), at sps samples per symbol,
// normalized so the taps sum to one (unity DC gain). rolloff is alpha,
// the excess-bandwidth factor (0.35 for this waveform).
//
// Structured the way rrc()/gen_rrc_lowpass() in src/dsp.go
// builds and normalizes a tap table, but evaluates the canonical RRC
// closed form (rrc() is a cheaper sinc*cosine-window
// approximation) with analytic limits at its two singularities, t=0
// and |t|=1/(4*alpha), instead of epsilon-window dodge.
func RRCTaps(rolloff float64, spanSymbols int, sps int) []float64 {
	n := spanSymbols*sps + 1
	taps := make([]float64, n)
	center := float64(n-1) / 2

	for k := 0; k < n; k++ {
		t := (float64(k) - center) / float64(sps)
		taps[k] = rrcSample(t, rolloff)
	}

	var sum float64
	for _, v := range taps {
		sum += v
	}
	for i := range taps {
		taps[i] /= sum
	}
	return taps
}

// rrcSample evaluates the RRC impulse response at t, measured in symbol
// periods, handling the two textbook singularities with their limits.
func rrcSample(t float64, a float64) float64 {
	if t == 0 {
		return 1 - a + 4*a/math.Pi
	}
	if a != 0 && math.Abs(math.Abs(4*a*t)-1) < 1e-9 {
		return (a / math.Sqrt2) * ((1+2/math.Pi)*math.Sin(math.Pi/(4*a)) + (1-2/math.Pi)*math.Cos(math.Pi/(4*a)))
	}
	num := math.Sin(math.Pi*t*(1-a)) + 4*a*t*math.Cos(math.Pi*t*(1+a))
	den := math.Pi * t * (1 - math.Pow(4*a*t, 2))
	return num / den
}
