// Package modedetect decodes the two indicator bursts the preamble
// carries (D1 at tribit offset 288, D2 at offset 320) and looks up the
// operating mode they name. Grounded on sync110's correlation metric
// (same normalized-correlation grid-search idea, here run against 8
// fixed candidates instead of a frequency/timing grid) and on
// src/demod_psk.go's profile-selection logic, which also picks among a
// small fixed set of known patterns by best correlation.
package modedetect

import (
	"math"
	"math/bits"
	"math/cmplx"

	"github.com/hfdsp/msdmt110a/internal/modetable"
	"github.com/hfdsp/msdmt110a/internal/scramble"
	"github.com/hfdsp/msdmt110a/internal/sync110"
)

// BurstLen is the number of tribits in each indicator burst.
const BurstLen = 32

// D1Offset and D2Offset are the tribit positions, relative to the
// start of the preamble, where the two indicator bursts begin.
const (
	D1Offset = 288
	D2Offset = 320
)

// Result is the outcome of mode detection.
type Result struct {
	Mode modetable.Mode
	OK   bool

	// Margin is the winning candidate's correlation minus the
	// second-best, the smaller of the D1 and D2 margins -- low margin
	// means the decision is marginal even if OK is true.
	Margin float64
}

// indicatorSymbol returns the expected tribit at burst position i
// (0..BurstLen-1) for candidate value d, given the preamble scrambler
// continues counting from `offset`. The per-candidate base pattern is
// row d of the 8x8 Walsh-Hadamard table written as tribits 0/4
// (4 when d AND (i mod 8) has odd parity), so the 8 candidate bursts
// are mutually orthogonal and the correlation magnitude tells them
// apart. Both encoder and decoder use this same function.
func indicatorSymbol(d, i, offset int) int {
	base := 4 * (bits.OnesCount(uint(d&(i%8))) & 1)
	return scramble.AddTribit(base, scramble.Preamble(offset+i))
}

func expectedBurst(d, offset int) []complex128 {
	out := make([]complex128, BurstLen)
	for i := 0; i < BurstLen; i++ {
		sym := indicatorSymbol(d, i, offset)
		out[i] = cmplx.Rect(1, float64(sym)*math.Pi/4)
	}
	return out
}

// bestCandidate correlates a received burst against all 8 candidate
// values and returns the winner, its score, and the winner/runner-up
// margin.
func bestCandidate(received []complex128, offset int) (winner int, score, margin float64) {
	var scores [8]float64
	for d := 0; d < 8; d++ {
		scores[d] = sync110.NormalizedCorrelation(received, expectedBurst(d, offset))
	}
	best, second := 0, -1
	for d := 1; d < 8; d++ {
		switch {
		case scores[d] > scores[best]:
			second = best
			best = d
		case second == -1 || scores[d] > scores[second]:
			second = d
		}
	}
	m := scores[best]
	if second >= 0 {
		m -= scores[second]
	}
	return best, scores[best], m
}

// EncodeBursts renders the D1 and D2 indicator bursts a transmitter
// sends for the given mode, ready to be placed at D1Offset/D2Offset
// within the preamble symbol stream.
func EncodeBursts(mode modetable.Mode) (d1, d2 []complex128) {
	return expectedBurst(mode.D1, D1Offset), expectedBurst(mode.D2, D2Offset)
}

// Detect decodes D1 and D2 from a phase-corrected, symbol-aligned
// preamble window (as produced by sync110.Search's ResidualPhase
// correction) and looks up the mode they identify.
func Detect(symbols []complex128) Result {
	if len(symbols) < D2Offset+BurstLen {
		return Result{}
	}
	d1, _, m1 := bestCandidate(symbols[D1Offset:D1Offset+BurstLen], D1Offset)
	d2, _, m2 := bestCandidate(symbols[D2Offset:D2Offset+BurstLen], D2Offset)

	mode, ok := modetable.ByIndicators(d1, d2)
	margin := m1
	if m2 < margin {
		margin = m2
	}
	return Result{Mode: mode, OK: ok, Margin: margin}
}
