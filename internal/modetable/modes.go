// Package modetable is the static catalogue of operating modes and
// their parameters, consulted by both the receive chain and the
// transmit mirror so the two stay bit-exact mirrors of each other.
// Grounded on fixed mark/space and profile parameter
// tables in src/demod_psk.go (demod_psk_init's per-profile constant
// blocks) and src/dsp.go (MAX_FILTER_SIZE and friends), generalized
// from "one hardcoded set of constants per call site" into a single
// data table indexed by mode name.
package modetable

// Constellation identifies the PSK mapping a mode's unknown symbols
// use.
type Constellation int

const (
	BPSK Constellation = iota
	QPSK
	PSK8
)

// BitsPerSymbol reports how many payload bits one unknown symbol of
// this constellation carries.
func (c Constellation) BitsPerSymbol() int {
	switch c {
	case BPSK:
		return 1
	case QPSK:
		return 2
	default:
		return 3
	}
}

// Interleaver holds the helical block-interleaver shape for one mode.
// (RowInc, ColInc) = (0, 0) means passthrough.
type Interleaver struct {
	Rows, Cols       int
	RowInc, ColInc   int
}

// Mode is the full parameter record for one named operating point.
type Mode struct {
	Name string

	Constellation Constellation
	// Repetition is the number of identical soft-bit copies the
	// repetition combiner sums; 1 means no repetition.
	Repetition int

	// Unknown and Known are the mini-frame symbol counts: Unknown
	// data symbols followed by Known probe symbols.
	// Unused when Walsh is true -- the 75 bit/s path frames itself in
	// 32-symbol Walsh blocks instead.
	Unknown, Known int

	Interleave Interleaver

	// PreambleSymbols is the length of the common preamble pattern
	// this mode's transmitter precedes data with: 1440 for short
	// interleave, 11520 for long.
	PreambleSymbols int

	// D1, D2 are the indicator-burst identifiers the preamble encodes
	// and the mode detector decodes, each in [0,7].
	D1, D2 int

	// Walsh marks the 75 bit/s path, which replaces direct PSK mapping
	// of unknown symbols with the 4-ary Walsh correlator.
	Walsh bool

	// Coded is false only for M4800S, the one mode in this table that
	// forgoes the rate-1/2 convolutional code entirely in exchange for
	// throughput (see DESIGN.md for the reasoning: the source material
	// leaves this case open, so this follows the usual pattern of the
	// highest-rate mode in a family trading coding gain for raw throughput).
	Coded bool
}

const (
	shortPreamble = 1440
	longPreamble  = 11520
)

// Baud is the symbol rate for every mode in this table.
const Baud = 2400

// psk8U/psk8K and qpskU/qpskK are the mini-frame shapes (Unknown,
// Known) shared by every 8-PSK and every QPSK mode in this table.
const (
	psk8U, psk8K = 32, 16
	qpskU, qpskK = 20, 20
)

var table = map[string]Mode{
	"M75L": {Name: "M75L", Constellation: BPSK, Repetition: 1, Walsh: true, Coded: true,
		Interleave: Interleaver{Rows: 40, Cols: 48, RowInc: 7, ColInc: 5}, PreambleSymbols: longPreamble, D1: 0, D2: 0},
	"M75S": {Name: "M75S", Constellation: BPSK, Repetition: 1, Walsh: true, Coded: true,
		Interleave: Interleaver{Rows: 40, Cols: 6, RowInc: 1, ColInc: 1}, PreambleSymbols: shortPreamble, D1: 0, D2: 1},

	"M150L": {Name: "M150L", Constellation: QPSK, Repetition: 8, Unknown: qpskU, Known: qpskK, Coded: true,
		Interleave: Interleaver{Rows: 40, Cols: 48, RowInc: 7, ColInc: 5}, PreambleSymbols: longPreamble, D1: 0, D2: 2},
	"M150S": {Name: "M150S", Constellation: QPSK, Repetition: 8, Unknown: qpskU, Known: qpskK, Coded: true,
		Interleave: Interleaver{Rows: 40, Cols: 6, RowInc: 1, ColInc: 1}, PreambleSymbols: shortPreamble, D1: 0, D2: 3},

	"M300L": {Name: "M300L", Constellation: QPSK, Repetition: 4, Unknown: qpskU, Known: qpskK, Coded: true,
		Interleave: Interleaver{Rows: 40, Cols: 48, RowInc: 7, ColInc: 5}, PreambleSymbols: longPreamble, D1: 0, D2: 4},
	"M300S": {Name: "M300S", Constellation: QPSK, Repetition: 4, Unknown: qpskU, Known: qpskK, Coded: true,
		Interleave: Interleaver{Rows: 40, Cols: 6, RowInc: 1, ColInc: 1}, PreambleSymbols: shortPreamble, D1: 0, D2: 5},

	"M600L": {Name: "M600L", Constellation: QPSK, Repetition: 2, Unknown: qpskU, Known: qpskK, Coded: true,
		Interleave: Interleaver{Rows: 40, Cols: 48, RowInc: 7, ColInc: 5}, PreambleSymbols: longPreamble, D1: 0, D2: 6},
	"M600S": {Name: "M600S", Constellation: QPSK, Repetition: 2, Unknown: qpskU, Known: qpskK, Coded: true,
		Interleave: Interleaver{Rows: 40, Cols: 6, RowInc: 1, ColInc: 1}, PreambleSymbols: shortPreamble, D1: 0, D2: 7},

	"M1200L": {Name: "M1200L", Constellation: QPSK, Repetition: 1, Unknown: qpskU, Known: qpskK, Coded: true,
		Interleave: Interleaver{Rows: 40, Cols: 48, RowInc: 7, ColInc: 5}, PreambleSymbols: longPreamble, D1: 1, D2: 0},
	"M1200S": {Name: "M1200S", Constellation: QPSK, Repetition: 1, Unknown: qpskU, Known: qpskK, Coded: true,
		Interleave: Interleaver{Rows: 40, Cols: 6, RowInc: 1, ColInc: 1}, PreambleSymbols: shortPreamble, D1: 1, D2: 1},

	"M2400L": {Name: "M2400L", Constellation: PSK8, Repetition: 1, Unknown: psk8U, Known: psk8K, Coded: true,
		Interleave: Interleaver{Rows: 40, Cols: 48, RowInc: 7, ColInc: 5}, PreambleSymbols: longPreamble, D1: 1, D2: 2},
	"M2400S": {Name: "M2400S", Constellation: PSK8, Repetition: 1, Unknown: psk8U, Known: psk8K, Coded: true,
		Interleave: Interleaver{Rows: 0, Cols: 0, RowInc: 0, ColInc: 0}, PreambleSymbols: shortPreamble, D1: 1, D2: 3},

	"M4800S": {Name: "M4800S", Constellation: PSK8, Repetition: 1, Unknown: psk8U, Known: psk8K, Coded: false,
		Interleave: Interleaver{Rows: 0, Cols: 0, RowInc: 0, ColInc: 0}, PreambleSymbols: shortPreamble, D1: 1, D2: 4},
}

// ByName looks up a mode by its canonical name (e.g. "M2400S"). The
// second return is false for unrecognized names.
func ByName(name string) (Mode, bool) {
	m, ok := table[name]
	return m, ok
}

// ByIndicators maps a decoded (D1, D2) pair to its mode, as the mode
// detector does after correlating the two indicator bursts. An unrecognized pair returns ok=false, signaling UNKNOWN.
func ByIndicators(d1, d2 int) (Mode, bool) {
	for _, m := range table {
		if m.D1 == d1 && m.D2 == d2 {
			return m, true
		}
	}
	return Mode{}, false
}

// Names returns every mode name in the table, sorted for deterministic
// iteration (used by tests; the control-server DATA RATE handler looks
// names up with ByName).
func Names() []string {
	names := make([]string, 0, len(table))
	for n := range table {
		names = append(names, n)
	}
	return sortStrings(names)
}

func sortStrings(s []string) []string {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
	return s
}
