package pcmfile

import (
	"bytes"
	"testing"

	"github.com/hfdsp/msdmt110a/internal/dsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawRoundTrip(t *testing.T) {
	samples := []dsp.Sample{0, 0.5, -0.5, 0.999, -1}
	var buf bytes.Buffer
	require.NoError(t, WriteRaw(&buf, samples))

	got, err := ReadRaw(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(samples))
	for i := range samples {
		assert.InDelta(t, float64(samples[i]), float64(got[i]), 1.0/32768)
	}
}

func TestWaveRoundTrip(t *testing.T) {
	samples := []dsp.Sample{0, 0.25, -0.25, 0.75, -0.75}
	var buf bytes.Buffer
	require.NoError(t, WriteWave(&buf, samples, 9600))

	got, info, err := ReadWave(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(9600), info.SampleRate)
	assert.Equal(t, uint16(1), info.NumChannels)
	assert.Equal(t, uint16(16), info.BitsPerSample)
	require.Len(t, got, len(samples))
	for i := range samples {
		assert.InDelta(t, float64(samples[i]), float64(got[i]), 1.0/32768)
	}
}

func TestReadWaveRejectsBadMagic(t *testing.T) {
	bad := bytes.Repeat([]byte{0}, waveHeaderSize)
	_, _, err := ReadWave(bytes.NewReader(bad))
	assert.Error(t, err)
}
