package viterbi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestEncoderFlushesToZero(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bitsIn := rapid.SliceOfN(rapid.IntRange(0, 1), 1, 200).Draw(t, "bits")
		e := NewEncoder()
		_ = e.EncodeBlock(bitsIn)
		assert.Equal(t, 0, e.State(), "register must return to 0 after K-1 flush bits")
	})
}

func TestDecodeErrorFreeStreamRecoversInputExactly(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bitsIn := rapid.SliceOfN(rapid.IntRange(0, 1), 1, 100).Draw(t, "bits")

		e := NewEncoder()
		coded := e.EncodeBlock(bitsIn)

		soft := make([]int8, len(coded))
		for i, b := range coded {
			if b == 0 {
				soft[i] = 127
			} else {
				soft[i] = -127
			}
		}

		d := NewDecoder()
		decoded := d.DecodeBlock(soft, true)

		want := append(append([]int{}, bitsIn...), 0, 0, 0, 0, 0, 0)
		assert.Equal(t, want, decoded)
	})
}
