package scramble

// dataLFSRInit is the 12-bit LFSR initial state, the constant
// 101101011101 read MSB-to-LSB per the wire format (bit 11 is the
// leftmost '1', bit 0 the rightmost).
const dataLFSRInit uint16 = 0x0B5D

const dataLFSRBits = 12
const dataLFSRMask = (1 << dataLFSRBits) - 1

// clockLFSR advances the 12-bit data-scrambler register by one step:
// shift every bit up one position (the vacated bit 0 becomes 0), then
// XOR the bit that was shifted out of the top (the outgoing MSB,
// before the shift) into bit positions 1, 4 and 6 of the shifted
// state. This is the scrambler's defining recurrence.
func clockLFSR(state uint16) uint16 {
	out := (state >> (dataLFSRBits - 1)) & 1
	state = (state << 1) & dataLFSRMask
	state ^= out << 1
	state ^= out << 4
	state ^= out << 6
	return state
}

// DataScrambler is the 160-tribit-period data scrambler. Its state is
// a function only of the tribit index modulo 160, so it is built once
// as a lookup table, the same way src/il2p_crc.go transcribes the
// fixed il2p_hamming_encode/decode tables once rather than recomputing
// them per use. A table form also makes an index-mod-160 bug show up
// as total desync rather than a subtle bit error.
type DataScrambler struct {
	table [160]int
}

// NewDataScrambler builds the 160-entry tribit table by clocking the
// LFSR 8 times per tribit starting from dataLFSRInit.
func NewDataScrambler() *DataScrambler {
	d := &DataScrambler{}
	state := dataLFSRInit
	for i := 0; i < 160; i++ {
		for c := 0; c < 8; c++ {
			state = clockLFSR(state)
		}
		d.table[i] = int(state & 0x7)
	}
	return d
}

// At returns the data-scrambler tribit at absolute tribit index i,
// indexed modulo 160.
func (d *DataScrambler) At(i int) int {
	return d.table[((i%160)+160)%160]
}
