// Package interleave implements the helical block (de)interleaver of
// the wire format: a row x column matrix walked by two independent
// (row, col) cursors on load and on fetch. None of the reference
// sources have a block interleaver -- the AX.25 stack has no equivalent --
// so this is built fresh from the wire format's description, in the
// general style of small, allocation-light stateful structs with an
// explicit Reset (c.f. src/demod_state.go's per-channel reset pattern).
package interleave

// cursorStep advances the (row, col, lastCol) cursor triple by one
// position and returns the new triple. loadStep and fetchStep below
// are the two recurrences the wire format defines.
type cursorStep func(row, col, lastCol int) (int, int, int)

// Matrix is one R x C block interleaver, usable for either direction.
// A passthrough interleaver (RowInc = ColInc = 0) short-circuits both
// EncodeBlock and DecodeBlock to an identity copy, per the wire format.
type Matrix struct {
	rows, cols     int
	rowInc, colInc int
}

// New builds a helical interleaver of the given shape. rowInc=colInc=0
// is the passthrough case.
func New(rows, cols, rowInc, colInc int) *Matrix {
	return &Matrix{rows: rows, cols: cols, rowInc: rowInc, colInc: colInc}
}

// Size returns rows*cols, the number of values one block holds.
func (m *Matrix) Size() int { return m.rows * m.cols }

// Passthrough reports whether this interleaver is the (0,0) identity
// case.
func (m *Matrix) Passthrough() bool { return m.rowInc == 0 && m.colInc == 0 }

// scatter walks the cursor over len(values) steps, writing each value
// into a fresh rows*cols matrix (row-major) at the cursor's current
// position before advancing it. This is the "write into the matrix"
// half of the wire format -- used by both the load phase (loadStep) and,
// on receive, by the load phase run with the fetch recurrence.
func (m *Matrix) scatter(values []int, step cursorStep) []int {
	matrix := make([]int, m.rows*m.cols)
	row, col, lastCol := 0, 0, 0
	for _, v := range values {
		matrix[row*m.cols+col] = v
		row, col, lastCol = step(row, col, lastCol)
	}
	return matrix
}

// gather walks the cursor over len(matrix) steps, reading the value at
// the cursor's current position (row-major) before advancing it. This
// is the "read back out" half of the wire format -- used by the fetch
// phase (fetchStep) and, on receive, by the fetch phase run with the
// load recurrence.
func (m *Matrix) gather(matrix []int, step cursorStep) []int {
	out := make([]int, len(matrix))
	row, col, lastCol := 0, 0, 0
	for i := range matrix {
		out[i] = matrix[row*m.cols+col]
		row, col, lastCol = step(row, col, lastCol)
	}
	return out
}

// loadStep implements the load-phase cursor recurrence: row advances
// by one each step (wrapping mod Rows); col advances by ColInc each
// step (wrapping mod Cols); whenever row wraps to 0, col instead jumps
// to (lastCol+1) mod Cols, and lastCol is updated to that new value.
func (m *Matrix) loadStep(row, col, lastCol int) (int, int, int) {
	newRow := (row + 1) % m.rows
	newCol := (col + m.colInc) % m.cols
	if newRow == 0 {
		newCol = (lastCol + 1) % m.cols
		lastCol = newCol
	}
	return newRow, newCol, lastCol
}

// fetchStep implements the fetch-phase cursor recurrence: row advances
// by RowInc each step (wrapping mod Rows); whenever row wraps to 0,
// col advances by one (wrapping mod Cols).
func (m *Matrix) fetchStep(row, col, lastCol int) (int, int, int) {
	newRow := (row + m.rowInc) % m.rows
	newCol := col
	if newRow == 0 {
		newCol = (col + 1) % m.cols
	}
	return newRow, newCol, lastCol
}

// EncodeBlock runs the transmit-side interleave of one full block: TX
// load (loadStep) scatters `data` (row-major payload order) into the
// matrix, then TX fetch (fetchStep) gathers it back out in
// transmission order.
func (m *Matrix) EncodeBlock(data []int) []int {
	if m.Passthrough() {
		out := make([]int, len(data))
		copy(out, data)
		return out
	}
	matrix := m.scatter(data, m.loadStep)
	return m.gather(matrix, m.fetchStep)
}

// DecodeBlock runs the receive-side deinterleave of one full block.
// Per the Design Notes in the wire format, RX load uses the TX fetch
// recurrence and RX fetch uses the TX load recurrence -- the inverse
// of EncodeBlock.
func (m *Matrix) DecodeBlock(received []int) []int {
	if m.Passthrough() {
		out := make([]int, len(received))
		copy(out, received)
		return out
	}
	matrix := m.scatter(received, m.fetchStep)
	return m.gather(matrix, m.loadStep)
}
