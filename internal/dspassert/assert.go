// Package dspassert adapts the Assert() helper used throughout
// src/*.go for invariants whose failure means a programming error
// rather than a bad signal: mismatched interleaver dimensions, an
// unknown mode handed to the encoder, a config value outside its
// documented range.
package dspassert

import "fmt"

// Assert panics if cond is false. It is never used to validate signal
// data coming off the air -- that goes through a result-variant outcome
// instead (see internal/sync110, internal/modedetect).
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("dspassert: "+format, args...))
	}
}
