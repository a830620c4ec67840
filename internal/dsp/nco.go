package dsp

import "math"

// NCO is a numerically-controlled oscillator: a phase accumulator that
// advances by 2*pi*freq/sampleRate each step and wraps to [0, 2*pi).
// gen_tone.go keeps an analogous fixed-point phase accumulator
// (tone_phase, ticks_per_sample) indexed into a sine table; this is
// the same idea in floating point with no table, since the modem core
// needs arbitrary, not-known-in-advance carrier and offset
// frequencies (frequency search) rather than a fixed mark/space pair.
type NCO struct {
	phase      float64
	freqHz     float64
	sampleRate float64
}

// NewNCO builds an oscillator at freqHz against the given sample rate,
// phase reset to zero. Per the wire format, the NCO accumulator resets to
// zero at the start of every encode/decode operation -- callers get a
// fresh NCO per operation rather than reusing one across packets.
func NewNCO(freqHz, sampleRate float64) *NCO {
	return &NCO{freqHz: freqHz, sampleRate: sampleRate}
}

// Step advances the phase by one sample period and returns cos/sin of
// the phase *before* advancing (so the first call returns the phase-0
// pair).
func (n *NCO) Step() (cos, sin float64) {
	cos = math.Cos(n.phase)
	sin = math.Sin(n.phase)
	n.phase += 2 * math.Pi * n.freqHz / n.sampleRate
	for n.phase >= 2*math.Pi {
		n.phase -= 2 * math.Pi
	}
	for n.phase < 0 {
		n.phase += 2 * math.Pi
	}
	return cos, sin
}

// SetFreq changes the oscillator frequency without disturbing phase
// continuity. The preamble frequency-offset search does not use it: it
// derotates symbol-spaced samples instead (see internal/sync110).
func (n *NCO) SetFreq(freqHz float64) { n.freqHz = freqHz }

// Downconvert multiplies a real PCM buffer by exp(-j*phi) at carrier
// frequency fc+offsetHz, producing a complex baseband stream. One
// fresh NCO is used per call, matching the "resets to zero" invariant
// of the wire format.
func Downconvert(samples []Sample, sampleRate, fc, offsetHz float64) []complex128 {
	nco := NewNCO(fc+offsetHz, sampleRate)
	out := make([]complex128, len(samples))
	for i, s := range samples {
		c, sn := nco.Step()
		out[i] = complex(float64(s)*c, -float64(s)*sn)
	}
	return out
}

// Upconvert multiplies a complex baseband stream by exp(+j*phi) at
// carrier fc and takes the real part, producing the transmitted PCM
// waveform (mirror of Downconvert).
func Upconvert(baseband []complex128, sampleRate, fc float64) []Sample {
	nco := NewNCO(fc, sampleRate)
	out := make([]Sample, len(baseband))
	for i, b := range baseband {
		c, sn := nco.Step()
		out[i] = Sample(real(b)*c - imag(b)*sn)
	}
	return out
}
