package walsh

import "github.com/hfdsp/msdmt110a/internal/scramble"

// Encoder is the transmit-side mirror of Decoder: it turns one 2-bit
// dibit label into the 32 scrambled 8-PSK symbol indices the wire format
// describes the transmitter sending for one Walsh block.
type Encoder struct {
	scrambler   *scramble.DataScrambler
	tribitIndex int
	blockIndex  int
}

// NewEncoder returns a fresh Walsh encoder with scrambler state reset.
func NewEncoder() *Encoder {
	return &Encoder{scrambler: scramble.NewDataScrambler()}
}

// EncodeBlock maps one dibit label (0-3, MSB-first bit pair) to the 32
// transmitted 8-PSK symbol indices for the current block, then
// advances the scrambler by BlockLen tribits.
func (e *Encoder) EncodeBlock(label int) []int {
	set := Sequences(e.blockIndex)
	idx := DibitToIndex(label)

	symbols := make([]int, BlockLen)
	for i := 0; i < BlockLen; i++ {
		walshIdx := set[idx][i]
		scr := e.scrambler.At(e.tribitIndex + i)
		symbols[i] = scramble.AddTribit(walshIdx, scr)
	}

	e.tribitIndex += BlockLen
	e.blockIndex++
	return symbols
}
