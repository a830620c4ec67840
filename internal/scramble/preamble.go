// Package scramble implements the two pseudo-random tribit sequences
// the waveform uses: the 32-tribit preamble scrambler and the 160-tribit
// data scrambler (data.go). Adapted from the scramble_bit/
// descramble_bit LFSR pair in src/il2p_scramble.go, generalized from a
// single-bit binary LFSR to the tribit-valued generators this waveform
// specifies.
package scramble

// PreambleTable is the published 32-tribit preamble scrambler sequence.
// Decoder and encoder must use the identical table; it is
// consulted modulo 32 regardless of how many tribits are requested.
//
// These are the standard's fixed constants -- there is no derivation,
// only publication, the same way il2p_hamming_encode
// table in src/il2p_crc.go is simply transcribed rather than computed.
var PreambleTable = [32]int{
	0, 4, 2, 6, 1, 5, 3, 7,
	7, 3, 5, 1, 6, 2, 4, 0,
	1, 5, 3, 7, 0, 4, 2, 6,
	6, 2, 4, 0, 7, 3, 5, 1,
}

// Preamble returns the preamble-scrambler tribit at absolute index i,
// indexed modulo 32 per the period-32 invariant of the wire format.
func Preamble(i int) int {
	return PreambleTable[((i%32)+32)%32]
}

// AddTribit combines a data tribit with a scrambler tribit modulo 8,
// the operation used both to build the expected preamble/indicator
// patterns and to scramble symbols. Descrambling is the mod-8
// subtraction SubTribit, which is AddTribit with the scrambler tribit
// negated (-b == 8-b mod 8).
func AddTribit(a, b int) int {
	return ((a+b)%8 + 8) % 8
}

// SubTribit undoes AddTribit.
func SubTribit(a, b int) int {
	return AddTribit(a, -b)
}
