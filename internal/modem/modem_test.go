package modem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTripM2400S(t *testing.T) {
	payload := []byte("the quick brown fox")
	samples, ok := Encode("M2400S", payload, DefaultOptions())
	require.True(t, ok)

	res := Decode(samples, DefaultOptions())
	require.True(t, res.Sync.Found)
	require.True(t, res.Mode.OK)
	assert.Equal(t, "M2400S", res.Mode.Mode.Name)
	if assert.GreaterOrEqual(t, len(res.Payload), len(payload)) {
		assert.Equal(t, payload, res.Payload[:len(payload)])
	}
}

func TestEncodeDecodeRoundTripM1200L(t *testing.T) {
	payload := []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF}
	samples, ok := Encode("M1200L", payload, DefaultOptions())
	require.True(t, ok)

	res := Decode(samples, DefaultOptions())
	require.True(t, res.Sync.Found)
	require.True(t, res.Mode.OK)
	assert.Equal(t, "M1200L", res.Mode.Mode.Name)
}

func TestEncodeDecodeRoundTripM75S(t *testing.T) {
	payload := []byte("hi")
	samples, ok := Encode("M75S", payload, DefaultOptions())
	require.True(t, ok)

	res := Decode(samples, DefaultOptions())
	require.True(t, res.Sync.Found)
	require.True(t, res.Mode.OK)
	assert.Equal(t, "M75S", res.Mode.Mode.Name)
}

func TestEncodeUnknownModeFails(t *testing.T) {
	_, ok := Encode("NOPE9999", []byte("x"), DefaultOptions())
	assert.False(t, ok)
}

func TestDecodeSilenceFindsNoSync(t *testing.T) {
	noise := make([]float32, 5000)
	for i := range noise {
		noise[i] = 0
	}
	res := Decode(noise, DefaultOptions())
	assert.False(t, res.Sync.Found)
	assert.Empty(t, res.Payload)
}
