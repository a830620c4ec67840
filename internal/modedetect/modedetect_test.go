package modedetect

import (
	"testing"

	"github.com/hfdsp/msdmt110a/internal/modetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPreambleWindow(mode modetable.Mode) []complex128 {
	out := make([]complex128, D2Offset+BurstLen)
	d1, d2 := EncodeBursts(mode)
	copy(out[D1Offset:], d1)
	copy(out[D2Offset:], d2)
	return out
}

func TestDetectEveryModeRoundTrips(t *testing.T) {
	for _, name := range modetable.Names() {
		mode, ok := modetable.ByName(name)
		require.True(t, ok)

		window := buildPreambleWindow(mode)
		res := Detect(window)
		require.True(t, res.OK, "mode %s", name)
		assert.Equal(t, mode.Name, res.Mode.Name)
		assert.Greater(t, res.Margin, 0.0)
	}
}

func TestDetectRejectsGarbledIndicators(t *testing.T) {
	window := make([]complex128, D2Offset+BurstLen)
	for i := range window {
		window[i] = complex(0.01, 0.01)
	}
	res := Detect(window)
	assert.False(t, res.OK)
}
