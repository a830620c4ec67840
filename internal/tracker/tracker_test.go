package tracker

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/hfdsp/msdmt110a/internal/modetable"
	"github.com/hfdsp/msdmt110a/internal/scramble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildStream renders a clean, unrotated mini-frame stream for the
// given mode: unknown symbols carry an arbitrary known tribit pattern
// (so the test can check it survives descrambling), known symbols are
// point 0 pre-scramble per the probe invariant.
func buildStream(mode modetable.Mode, frames int, dataTribit int) []complex128 {
	scr := scramble.NewDataScrambler()
	frameLen := mode.Unknown + mode.Known
	out := make([]complex128, 0, frameLen*frames)
	idx := 0
	for f := 0; f < frames; f++ {
		for i := 0; i < mode.Unknown; i++ {
			s := scramble.AddTribit(dataTribit, scr.At(idx))
			out = append(out, cmplx.Rect(1, float64(s)*math.Pi/4))
			idx++
		}
		for i := 0; i < mode.Known; i++ {
			s := scr.At(idx)
			out = append(out, cmplx.Rect(1, float64(s)*math.Pi/4))
			idx++
		}
	}
	return out
}

func TestExtractorRecoversUnknownSymbolsCleanChannel(t *testing.T) {
	mode, ok := modetable.ByName("M1200L")
	require.True(t, ok)

	stream := buildStream(mode, 5, 3)
	ex := NewExtractor(mode)
	out := ex.Run(stream, 0, 1, len(stream))

	require.Equal(t, mode.Unknown*5, len(out))
	for i, u := range out {
		descrambled := u.Z * cmplx.Rect(1, -float64(u.ScramblerTribit)*math.Pi/4)
		assert.InDelta(t, math.Cos(3*math.Pi/4), real(descrambled), 1e-6, "symbol %d real part", i)
		assert.InDelta(t, math.Sin(3*math.Pi/4), imag(descrambled), 1e-6, "symbol %d imag part", i)
	}
}

func TestExtractorCorrectsConstantPhaseOffset(t *testing.T) {
	mode, ok := modetable.ByName("M600L")
	require.True(t, ok)

	stream := buildStream(mode, 6, 5)
	offset := 0.4 // radians, held constant across the whole packet
	rotated := make([]complex128, len(stream))
	for i, z := range stream {
		rotated[i] = z * cmplx.Rect(1, offset)
	}

	ex := NewExtractor(mode)
	out := ex.Run(rotated, 0, 1, len(rotated))
	require.NotEmpty(t, out)

	// After the first mini-frame's probes are folded in, later frames
	// should be corrected back close to the unrotated constellation.
	last := out[len(out)-1]
	descrambled := last.Z * cmplx.Rect(1, -float64(last.ScramblerTribit)*math.Pi/4)
	assert.InDelta(t, 1.0, cmplx.Abs(descrambled), 0.05)
	assert.InDelta(t, 0.0, cmplx.Phase(descrambled*cmplx.Rect(1, -5*math.Pi/4)), 0.05)
}
