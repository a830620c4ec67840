package dsp

// FIRFilter evaluates a fixed tap set against a sliding window of real
// input samples. Transmit pulse shaping and the receive matched filter
// both use one of these with the same RRCTaps() coefficients, the way
// the gen_ms/gen_lowpass tables feed a single convolution loop in
// src/demod.go.
type FIRFilter struct {
	taps []float64
	ring []float64
	pos  int
}

// NewFIRFilter builds a filter with the given taps and a zeroed history.
func NewFIRFilter(taps []float64) *FIRFilter {
	return &FIRFilter{
		taps: taps,
		ring: make([]float64, len(taps)),
	}
}

// Push feeds one new real sample and returns the filtered output for
// that instant (taps convolved with the most recent len(taps) inputs,
// oldest first).
func (f *FIRFilter) Push(x float64) float64 {
	f.ring[f.pos] = x
	var acc float64
	// f.pos is the index of the most recently written sample; walk
	// backward through the ring so taps[0] multiplies the oldest input.
	n := len(f.taps)
	idx := f.pos
	for k := n - 1; k >= 0; k-- {
		acc += f.taps[k] * f.ring[idx]
		idx--
		if idx < 0 {
			idx = n - 1
		}
	}
	f.pos++
	if f.pos == n {
		f.pos = 0
	}
	return acc
}

// Len reports the number of taps (and thus the group delay in samples
// for a symmetric filter, len/2).
func (f *FIRFilter) Len() int { return len(f.taps) }

// FilterReal runs a real-valued FIR filter over a whole buffer, one
// fresh FIRFilter per call, returning a same-length output.
func FilterReal(taps []float64, in []float64) []float64 {
	f := NewFIRFilter(taps)
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = f.Push(x)
	}
	return out
}

// FilterComplex filters the real and imaginary rails of a complex
// baseband stream independently with the same real-valued taps --
// used for the RRC matched filter after downconversion.
func FilterComplex(taps []float64, in []complex128) []complex128 {
	fr := NewFIRFilter(taps)
	fi := NewFIRFilter(taps)
	out := make([]complex128, len(in))
	for i, x := range in {
		re := fr.Push(real(x))
		im := fi.Push(imag(x))
		out[i] = complex(re, im)
	}
	return out
}
