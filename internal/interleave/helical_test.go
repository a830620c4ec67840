package interleave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestPassthroughIsIdentity(t *testing.T) {
	m := New(10, 10, 0, 0)
	data := []int{1, 2, 3, 4, 5}
	assert.Equal(t, data, m.EncodeBlock(data))
	assert.Equal(t, data, m.DecodeBlock(data))
}

func shapesUnderTest() []Matrix {
	return []Matrix{
		{rows: 40, cols: 6, rowInc: 1, colInc: 1},
		{rows: 40, cols: 48, rowInc: 7, colInc: 5},
		{rows: 5, cols: 3, rowInc: 2, colInc: 2},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, shape := range shapesUnderTest() {
		m := shape
		rapid.Check(t, func(t *rapid.T) {
			n := m.Size()
			block := rapid.SliceOfN(rapid.IntRange(0, 255), n, n).Draw(t, "block")
			encoded := m.EncodeBlock(block)
			assert.Len(t, encoded, n)
			decoded := m.DecodeBlock(encoded)
			assert.Equal(t, block, decoded)
		})
	}
}

func TestEveryMatrixCellVisitedExactlyOnce(t *testing.T) {
	for _, shape := range shapesUnderTest() {
		m := shape
		n := m.Size()
		ident := make([]int, n)
		for i := range ident {
			ident[i] = i
		}
		matrix := m.scatter(ident, m.loadStep)
		seen := make([]bool, n)
		for _, v := range matrix {
			assert.False(t, seen[v], "position double-visited for shape %+v", shape)
			seen[v] = true
		}
	}
}
