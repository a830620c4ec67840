package txmirror

import (
	"testing"

	"github.com/hfdsp/msdmt110a/internal/modetable"
	"github.com/hfdsp/msdmt110a/internal/sync110"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolsCarryRecognizablePreamble(t *testing.T) {
	mode, ok := modetable.ByName("M1200S")
	require.True(t, ok)

	symbols := Symbols(mode, []byte("hello world"))
	require.Greater(t, len(symbols), mode.PreambleSymbols)

	res := sync110.Search(symbols, mode, sync110.DefaultOptions())
	assert.True(t, res.Found)
	assert.Equal(t, 0, res.SampleOffset)
	assert.Greater(t, res.Accuracy, 0.9)
}

func TestSymbolsEveryModeProducesNonEmptyBody(t *testing.T) {
	for _, name := range modetable.Names() {
		mode, ok := modetable.ByName(name)
		require.True(t, ok)

		symbols := Symbols(mode, []byte{0x55, 0xAA, 0x0F})
		assert.Greater(t, len(symbols), mode.PreambleSymbols, "mode %s", name)
	}
}

func TestEncodePacketRendersNonTrivialWaveform(t *testing.T) {
	mode, ok := modetable.ByName("M2400S")
	require.True(t, ok)

	samples := EncodePacket(mode, []byte("abc"), DefaultOptions())
	require.NotEmpty(t, samples)

	var nonzero int
	for _, s := range samples {
		if s != 0 {
			nonzero++
		}
	}
	assert.Greater(t, nonzero, len(samples)/2)
}
