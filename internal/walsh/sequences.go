// Package walsh implements the 75 bit/s path of the wire format: instead
// of mapping a tribit directly onto the 8-PSK constellation, each
// information dibit selects one of 4 length-32 Walsh sequences, and an
// adaptive sync mask (a 32-bin IIR average) lets the receiver ride out
// residual timing error and slow channel drift without an external
// PLL. None of the reference sources cover orthogonal-code correlation
// directly; the adaptive-weighting idea is grounded in PLL
// "inertia" knobs in src/demod_psk.go (D.pll_locked_inertia /
// pll_searching_inertia), which are the same "slow IIR blend toward a
// converged estimate" pattern applied to phase instead of a 32-bin
// mask.
package walsh

// BlockLen is the number of 8-PSK symbol slots in one Walsh block.
const BlockLen = 32

// MESPeriod: every 45th Walsh block is an exception ("MES") block
// whose 4 candidate sequences differ from the normal ("MNS") set.
const MESPeriod = 45

// IsMES reports whether the 0-based block index is an MES block.
func IsMES(blockIndex int) bool {
	return (blockIndex+1)%MESPeriod == 0
}

// hadamard returns the n x n Hadamard matrix (n a power of 2) with
// entries +1/-1, built by the standard Kronecker-doubling
// construction.
func hadamard(n int) [][]int {
	h := [][]int{{1}}
	for len(h) < n {
		size := len(h)
		next := make([][]int, size*2)
		for i := range next {
			next[i] = make([]int, size*2)
		}
		for r := 0; r < size; r++ {
			for c := 0; c < size; c++ {
				next[r][c] = h[r][c]
				next[r][c+size] = h[r][c]
				next[r+size][c] = h[r][c]
				next[r+size][c+size] = -h[r][c]
			}
		}
		h = next
	}
	return h
}

// pointSet converts 4 rows of the order-32 Hadamard matrix into Walsh
// sequences of constellation point indices: +1 maps to 8-PSK point 0,
// -1 maps to point 4, per the wire format ("values in {0,4} ... map to
// constellation points 0 and 4 i.e. +-1").
func pointSet(rows [4]int) [4][BlockLen]int {
	h := hadamard(BlockLen)
	var set [4][BlockLen]int
	for k, row := range rows {
		for i := 0; i < BlockLen; i++ {
			if h[row][i] == 1 {
				set[k][i] = 0
			} else {
				set[k][i] = 4
			}
		}
	}
	return set
}

// MNSSequences / MESSequences are the normal and exception-block
// 4-ary Walsh sequence sets. The specific Hadamard rows chosen are
// arbitrary but fixed, so encoder and decoder agree -- see DESIGN.md.
var (
	MNSSequences = pointSet([4]int{1, 2, 4, 8})
	MESSequences = pointSet([4]int{3, 5, 6, 9})
)

// Sequences returns the active 4-ary sequence set for a given block
// index.
func Sequences(blockIndex int) [4][BlockLen]int {
	if IsMES(blockIndex) {
		return MESSequences
	}
	return MNSSequences
}

// gray4 is the standard 2-bit Gray mapping from Walsh/dibit index to
// bit label, the same {0,1,3,2} pattern this codebase uses for V.26 QPSK
// in src/demod_psk.go's phase_to_gray_v26. It is its own inverse
// (index 2 <-> label 3), so both TX and RX use this one table.
var gray4 = [4]int{0, 1, 3, 2}

// DibitToIndex inverts gray4: which Walsh sequence index carries dibit
// label `label`.
func DibitToIndex(label int) int {
	for i, l := range gray4 {
		if l == label {
			return i
		}
	}
	return 0
}

// IndexToLabel applies gray4 forward: which 2-bit label a decoded
// Walsh sequence index represents.
func IndexToLabel(index int) int {
	return gray4[index&3]
}
