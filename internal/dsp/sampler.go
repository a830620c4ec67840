package dsp

// SampleAt pulls `count` equally-spaced complex samples out of a
// matched-filtered baseband stream, starting at `start` and stepping
// `sps` samples (one symbol period) at a time -- the "peak eye
// opening" instant the wire format defines a baseband symbol at. Shared by
// the channel tracker and the Walsh decoder so both read symbol
// timing the same way.
func SampleAt(filtered []complex128, start, sps, count int) []complex128 {
	out := make([]complex128, count)
	for i := 0; i < count; i++ {
		idx := start + i*sps
		if idx >= 0 && idx < len(filtered) {
			out[i] = filtered[idx]
		}
	}
	return out
}
