package scramble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestDataScramblerPeriod160(t *testing.T) {
	d := NewDataScrambler()
	rapid.Check(t, func(t *rapid.T) {
		i := rapid.IntRange(0, 10000).Draw(t, "i")
		assert.Equal(t, d.At(i), d.At(i+160), "data scrambler must repeat with period 160")
	})
}

func TestDataScramblerTribitsInRange(t *testing.T) {
	d := NewDataScrambler()
	for i := 0; i < 160; i++ {
		v := d.At(i)
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 7)
	}
}

func TestPreambleScramblerPeriod32(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		i := rapid.IntRange(0, 1000).Draw(t, "i")
		assert.Equal(t, Preamble(i), Preamble(i+32))
	})
}

func TestAddSubTribitInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(0, 7).Draw(t, "a")
		b := rapid.IntRange(0, 7).Draw(t, "b")
		assert.Equal(t, a, SubTribit(AddTribit(a, b), b))
	})
}
