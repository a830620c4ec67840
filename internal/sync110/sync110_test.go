package sync110

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/hfdsp/msdmt110a/internal/modetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFindsCleanPreambleAtZeroOffset(t *testing.T) {
	mode, ok := modetable.ByName("M1200S")
	require.True(t, ok)

	symbols := expectedPreamble(mode.PreambleSymbols)
	// pad with extra data-like symbols so the timing search has room to
	// consider (and reject) later candidate offsets.
	padded := append(append([]complex128{}, symbols...), expectedPreamble(100)...)

	res := Search(padded, mode, DefaultOptions())
	require.True(t, res.Found)
	assert.Equal(t, 0, res.SampleOffset)
	assert.InDelta(t, 0, res.FreqOffsetHz, 1.0)
	assert.Greater(t, res.Accuracy, 0.95)
}

func TestSearchLocatesPreambleAfterLeadingNoise(t *testing.T) {
	mode, ok := modetable.ByName("M600S")
	require.True(t, ok)

	lead := 37
	noise := make([]complex128, lead)
	for i := range noise {
		noise[i] = cmplx.Rect(0.05, float64(i))
	}
	symbols := expectedPreamble(mode.PreambleSymbols)
	stream := append(append([]complex128{}, noise...), symbols...)

	res := Search(stream, mode, DefaultOptions())
	require.True(t, res.Found)
	assert.Equal(t, lead, res.SampleOffset)
}

func TestSearchCorrectsResidualFrequencyOffset(t *testing.T) {
	mode, ok := modetable.ByName("M300S")
	require.True(t, ok)

	symbols := expectedPreamble(mode.PreambleSymbols)
	offsetHz := 3.0
	cyclesPerSymbol := offsetHz / float64(modetable.Baud)
	rotated := make([]complex128, len(symbols))
	for i, z := range symbols {
		rotated[i] = z * cmplx.Rect(1, 2*math.Pi*cyclesPerSymbol*float64(i))
	}

	res := Search(rotated, mode, DefaultOptions())
	require.True(t, res.Found)
	assert.InDelta(t, offsetHz, res.FreqOffsetHz, 1.0)
}

func TestSearchRejectsUncorrelatedNoise(t *testing.T) {
	mode, ok := modetable.ByName("M150S")
	require.True(t, ok)

	noise := make([]complex128, mode.PreambleSymbols+100)
	for i := range noise {
		noise[i] = cmplx.Rect(0.3, float64(i)*2.37)
	}

	res := Search(noise, mode, DefaultOptions())
	assert.False(t, res.Found)
}
