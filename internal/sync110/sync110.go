// Package sync110 finds the preamble in a demodulated baseband stream:
// a joint search over residual carrier frequency offset and sample
// timing, reporting where (and whether) the fixed preamble pattern
// begins. Grounded on src/demod_psk.go's correlation-based
// acquisition loop (demod_psk_find_sync), generalized from its
// hardcoded BPSK preamble correlator into a frequency/timing grid
// search over the 8-PSK preamble this waveform uses.
package sync110

import (
	"math"
	"math/cmplx"

	"github.com/hfdsp/msdmt110a/internal/modetable"
	"github.com/hfdsp/msdmt110a/internal/scramble"
)

// Result is the outcome of a preamble search.
type Result struct {
	Found bool

	SampleOffset  int     // index into the symbol-spaced stream passed to Search where the preamble begins
	FreqOffsetHz  float64 // residual carrier offset found by the grid search
	ResidualPhase float64 // carrier phase at SampleOffset, radians

	// Accuracy is a hard-decision diagnostic: when Found is true, the
	// fraction of preamble symbols whose nearest 8-PSK point at the
	// winning alignment matches the known preamble pattern exactly.
	// When Found is false it holds the best normalized correlation the
	// timing search reached (0 if none). Search itself does not use it;
	// modem.Decode uses it to pick the best of its candidate sub-symbol
	// phases and probe shapes.
	Accuracy float64
}

// Options configures a search. Zero-value Options is unusable; use
// DefaultOptions.
type Options struct {
	FreqRangeHz float64 // grid half-width, e.g. 10 means +-10 Hz
	FreqStepHz  float64
	TimingRange int     // how many leading symbol offsets to try
	EarlyStop   float64 // normalized correlation that ends timing search early
	FoundThresh float64 // minimum normalized correlation to declare success
}

// DefaultOptions matches the reference acquisition parameters: a +-10
// Hz, 1 Hz step frequency grid, a 500-symbol timing search, an early
// "first strong peak" stop above 0.90, and a 0.70 success floor.
func DefaultOptions() Options {
	return Options{FreqRangeHz: 10, FreqStepHz: 1, TimingRange: 500, EarlyStop: 0.90, FoundThresh: 0.70}
}

// expectedPreamble renders n ideal unit-magnitude preamble symbols
// starting at tribit index 0.
func expectedPreamble(n int) []complex128 {
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		out[i] = cmplx.Rect(1, float64(scramble.Preamble(i))*math.Pi/4)
	}
	return out
}

// derotate applies a trial carrier offset, expressed in cycles per
// symbol, to a run of symbol-spaced baseband samples.
func derotate(symbols []complex128, cyclesPerSymbol float64) []complex128 {
	out := make([]complex128, len(symbols))
	for i, z := range symbols {
		out[i] = z * cmplx.Rect(1, -2*math.Pi*cyclesPerSymbol*float64(i))
	}
	return out
}

// signalPower is the mean squared magnitude of a symbol window, used
// to normalize correlation magnitudes into a roughly [0,1] confidence.
func signalPower(symbols []complex128) float64 {
	if len(symbols) == 0 {
		return 0
	}
	var sum float64
	for _, z := range symbols {
		sum += real(z)*real(z) + imag(z)*imag(z)
	}
	return sum / float64(len(symbols))
}

// Correlate is the raw average correlation of received against
// expected unit-magnitude symbols.
func Correlate(received, expected []complex128) complex128 {
	n := len(expected)
	if len(received) < n {
		n = len(received)
	}
	var sum complex128
	for i := 0; i < n; i++ {
		sum += received[i] * cmplx.Conj(expected[i])
	}
	if n == 0 {
		return 0
	}
	return sum / complex(float64(n), 0)
}

// NormalizedCorrelation scales Correlate's magnitude by the received
// window's own power, so a clean unit-amplitude match reads close to
// 1 regardless of absolute signal level. Shared with internal/modedetect,
// which runs the identical metric over the two indicator bursts.
func NormalizedCorrelation(received, expected []complex128) float64 {
	c := Correlate(received, expected)
	p := signalPower(received)
	if p == 0 {
		return 0
	}
	return cmplx.Abs(c) / math.Sqrt(p)
}

// PhaseConsistency implements the two-half acquisition metric: split
// the window, correlate each half independently, and discount the
// combined magnitude by how well the two halves agree in phase. A
// residual carrier offset rotates phase steadily across the window;
// once the trial frequency cancels it, both halves land at nearly the
// same phase and the cosine term stays close to 1.
func PhaseConsistency(received, expected []complex128) float64 {
	half := len(expected) / 2
	if half == 0 || len(received) < 2*half {
		return 0
	}
	c1 := Correlate(received[:half], expected[:half])
	c2 := Correlate(received[half:2*half], expected[half:2*half])
	p1 := signalPower(received[:half])
	p2 := signalPower(received[half:2*half])
	power := (p1 + p2) / 2
	if power == 0 {
		return 0
	}
	agreement := math.Max(0, math.Cos(cmplx.Phase(c2)-cmplx.Phase(c1)))
	return 0.5 * (cmplx.Abs(c1) + cmplx.Abs(c2)) / math.Sqrt(power) * agreement
}

// Search looks for mode's preamble in a matched-filtered, symbol-spaced
// baseband stream (one complex sample per symbol period, sps apart in
// the original sample stream -- callers pass symbol-rate samples
// already extracted by dsp.SampleAt). It performs a frequency grid
// search anchored at timing offset 0 to estimate residual carrier
// offset, then a fine timing search at that frequency across
// opts.TimingRange candidate starting symbols, stopping early on the
// first strong peak and refining +-1 symbol around it.
func Search(symbols []complex128, mode modetable.Mode, opts Options) Result {
	n := mode.PreambleSymbols
	if len(symbols) < n {
		n = len(symbols)
	}
	if n == 0 {
		return Result{}
	}
	expected := expectedPreamble(n)

	bestFreq := 0.0
	bestFreqScore := -1.0
	for f := -opts.FreqRangeHz; f <= opts.FreqRangeHz+1e-9; f += opts.FreqStepHz {
		cyclesPerSymbol := f / float64(modetable.Baud)
		trial := derotate(symbols[:n], cyclesPerSymbol)
		score := PhaseConsistency(trial, expected)
		if score > bestFreqScore {
			bestFreqScore = score
			bestFreq = f
		}
	}

	cyclesPerSymbol := bestFreq / float64(modetable.Baud)

	bestOffset := -1
	bestScore := -1.0
	limit := opts.TimingRange
	if limit > len(symbols)-n {
		limit = len(symbols) - n
	}
	for start := 0; start <= limit; start++ {
		window := symbols[start : start+n]
		trial := derotate(window, cyclesPerSymbol)
		score := NormalizedCorrelation(trial, expected)
		if score > bestScore {
			bestScore = score
			bestOffset = start
		}
		if score >= opts.EarlyStop {
			break
		}
	}

	if bestOffset < 0 || bestScore < opts.FoundThresh {
		return Result{Found: false, FreqOffsetHz: bestFreq, Accuracy: math.Max(bestScore, 0)}
	}

	// Refine +-1 symbol around the winning offset, matching the
	// "first strong peak" early stop's follow-up refinement step.
	refined := bestOffset
	refinedScore := bestScore
	for _, cand := range []int{bestOffset - 1, bestOffset + 1} {
		if cand < 0 || cand+n > len(symbols) {
			continue
		}
		trial := derotate(symbols[cand:cand+n], cyclesPerSymbol)
		score := NormalizedCorrelation(trial, expected)
		if score > refinedScore {
			refinedScore = score
			refined = cand
		}
	}

	window := derotate(symbols[refined:refined+n], cyclesPerSymbol)
	c := Correlate(window, expected)
	phase := cmplx.Phase(c)

	correctedWindow := make([]complex128, n)
	for i, z := range window {
		correctedWindow[i] = z * cmplx.Rect(1, -phase)
	}
	matches := 0
	for i, z := range correctedWindow {
		got := nearestTribit(z)
		if got == scramble.Preamble(i) {
			matches++
		}
	}

	return Result{
		Found:         true,
		SampleOffset:  refined,
		FreqOffsetHz:  bestFreq,
		ResidualPhase: phase,
		Accuracy:      float64(matches) / float64(n),
	}
}

// AlignedStream derotates and phase-corrects every symbol from
// res.SampleOffset onward using the frequency and phase Search found,
// so callers (mode detection, data demapping) can index from 0 at the
// preamble's first symbol without repeating the correction themselves.
// Returns nil if res.Found is false or the offset runs past the end
// of symbols.
func AlignedStream(symbols []complex128, res Result) []complex128 {
	if !res.Found || res.SampleOffset >= len(symbols) {
		return nil
	}
	cyclesPerSymbol := res.FreqOffsetHz / float64(modetable.Baud)
	tail := symbols[res.SampleOffset:]
	out := make([]complex128, len(tail))
	for i, z := range tail {
		theta := 2*math.Pi*cyclesPerSymbol*float64(i) + res.ResidualPhase
		out[i] = z * cmplx.Rect(1, -theta)
	}
	return out
}

// nearestTribit quantizes a unit-circle complex sample to the nearest
// of the 8 PSK points, expressed as a tribit (0-7).
func nearestTribit(z complex128) int {
	angle := cmplx.Phase(z)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	p := int(math.Round(angle * 4 / math.Pi))
	return ((p % 8) + 8) % 8
}
