package walsh

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

func symbolsToComplex(symbols []int) []complex128 {
	out := make([]complex128, len(symbols))
	for i, s := range symbols {
		out[i] = cmplx.Rect(1, float64(s)*math.Pi/4)
	}
	return out
}

func TestEncodeDecodeRoundTripsCleanChannel(t *testing.T) {
	enc := NewEncoder()
	dec := NewDecoder(false)

	for block := 0; block < 60; block++ {
		label := block % 4
		symbols := enc.EncodeBlock(label)
		bits := dec.DecodeBlock(symbolsToComplex(symbols))

		assert.Len(t, bits, 2)
		gotLabel := 0
		if bits[0] < 0 {
			gotLabel |= 2
		}
		if bits[1] < 0 {
			gotLabel |= 1
		}
		assert.Equal(t, label, gotLabel, "block %d", block)
	}
}

func TestSyncMaskConvergesToPeak(t *testing.T) {
	enc := NewEncoder()
	dec := NewDecoder(true)

	for block := 0; block < 30; block++ {
		symbols := enc.EncodeBlock(block % 4)
		dec.DecodeBlock(symbolsToComplex(symbols))
	}

	assert.GreaterOrEqual(t, len(dec.MaskTrace), 20)
	// All bins are driven identically by a perfectly-timed signal, so
	// every bin's profile estimate should converge -- the trace should
	// stabilize on a consistent peak well within 20 blocks.
	last := dec.MaskTrace[len(dec.MaskTrace)-1]
	stable := 0
	for i := len(dec.MaskTrace) - 5; i < len(dec.MaskTrace); i++ {
		if dec.MaskTrace[i] == last {
			stable++
		}
	}
	assert.GreaterOrEqual(t, stable, 3)
}
