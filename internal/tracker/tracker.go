// Package tracker implements the channel tracker / symbol extractor of
// the wire format: it walks the post-preamble data region mini-frame by
// mini-frame, separating unknown (data) symbols from known (probe)
// symbols, using the probes to refit a per-frame residual phase. None
// of the reference sources do per-frame PLL refinement from known
// symbols directly, but the shape -- a running phase estimate nudged
// by recent evidence -- mirrors the inertia-blended PLL phase in
// src/demod_psk.go (D.pll_locked_inertia).
package tracker

import (
	"math"
	"math/cmplx"

	"github.com/hfdsp/msdmt110a/internal/dsp"
	"github.com/hfdsp/msdmt110a/internal/modetable"
	"github.com/hfdsp/msdmt110a/internal/scramble"
)

// UnknownSymbol is one extracted data symbol, phase-corrected and
// tagged with the data-scrambler tribit value active at its position
// -- the demapper needs that value to undo the per-symbol scrambler
// rotation.
type UnknownSymbol struct {
	Z               complex128
	ScramblerTribit int
}

// Extractor walks mini-frames of a mode's (Unknown, Known) shape over
// a matched-filtered baseband stream, producing one UnknownSymbol per
// data symbol encountered.
type Extractor struct {
	mode      modetable.Mode
	scrambler *scramble.DataScrambler
	phase     float64 // residual phase correction, refit every mini-frame
}

// NewExtractor returns a tracker for the given mode with the data
// scrambler and residual phase reset, as required at the start of
// every packet.
func NewExtractor(mode modetable.Mode) *Extractor {
	return &Extractor{mode: mode, scrambler: scramble.NewDataScrambler()}
}

// Run extracts every unknown symbol from `total` mini-frame symbols
// starting at `start` in `filtered`, spaced `sps` samples apart.
// `total` should be a whole number of mini-frames (Unknown+Known); any
// remainder is treated as a final, possibly truncated mini-frame.
func (e *Extractor) Run(filtered []complex128, start, sps, total int) []UnknownSymbol {
	symbols := dsp.SampleAt(filtered, start, sps, total)
	frameLen := e.mode.Unknown + e.mode.Known

	var out []UnknownSymbol
	var probeSum complex128
	var probeCount int

	flushFrame := func() {
		if probeCount > 0 {
			avg := probeSum / complex(float64(probeCount), 0)
			if cmplx.Abs(avg) > 0 {
				e.phase += cmplx.Phase(avg)
			}
		}
		probeSum = 0
		probeCount = 0
	}

	for i, z := range symbols {
		posInFrame := i % frameLen
		if posInFrame == 0 && i != 0 {
			flushFrame()
		}

		rotated := z * cmplx.Rect(1, -e.phase)

		if posInFrame < e.mode.Unknown {
			out = append(out, UnknownSymbol{Z: rotated, ScramblerTribit: e.scrambler.At(i)})
		} else {
			// Known probe: descrambled, it is constellation point 0.
			// Accumulate its post-descramble angle to refit phase at
			// the next mini-frame boundary.
			scr := e.scrambler.At(i)
			descrambled := rotated * cmplx.Rect(1, -float64(scr)*math.Pi/4)
			probeSum += descrambled
			probeCount++
		}
	}
	flushFrame()

	return out
}
