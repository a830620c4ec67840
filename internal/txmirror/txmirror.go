// Package txmirror is the transmit-side encoder: it renders a payload
// into a full PCM waveform by running the receive chain's inverse in
// order (pack, code, repeat, interleave, map, insert probes, pulse
// shape, upconvert). Grounded on hdlc_send.go/il2p_send.go's pattern
// of "take bytes, run them forward through the same pipeline stages
// the receiver undoes, emit samples," and on gen_tone.go for the
// NCO-driven upconversion step.
package txmirror

import (
	"math"
	"math/cmplx"

	"github.com/hfdsp/msdmt110a/internal/dsp"
	"github.com/hfdsp/msdmt110a/internal/interleave"
	"github.com/hfdsp/msdmt110a/internal/modedetect"
	"github.com/hfdsp/msdmt110a/internal/modetable"
	"github.com/hfdsp/msdmt110a/internal/pack"
	"github.com/hfdsp/msdmt110a/internal/scramble"
	"github.com/hfdsp/msdmt110a/internal/viterbi"
	"github.com/hfdsp/msdmt110a/internal/walsh"
)

// forwardGray8 is the 8-PSK Gray mapping from a 3-bit label to
// constellation point index; demap.invGray8 is its positional inverse.
var forwardGray8 = [8]int{0, 1, 3, 2, 7, 6, 4, 5}

// Options configures waveform rendering. CarrierHz and SampleRate pick
// an audio-band carrier and a sample rate that divides evenly into
// SamplesPerSymbol symbol periods, the way gen_tone.go
// is parameterized per-profile rather than hardcoded.
type Options struct {
	SampleRate       float64
	CarrierHz        float64
	SamplesPerSymbol int
	RolloffAlpha     float64
	RRCSpanSymbols   int
}

// DefaultOptions renders at 9600 Hz (4 samples/symbol at 2400 baud), an
// 1800 Hz audio carrier, and a 0.35-rolloff, 8-symbol-span RRC filter.
func DefaultOptions() Options {
	return Options{SampleRate: 9600, CarrierHz: 1800, SamplesPerSymbol: 4, RolloffAlpha: 0.35, RRCSpanSymbols: 8}
}

// repeatBits expands each bit into n adjacent identical copies, the TX
// mirror of combine.Combine. n<=1 is a no-op copy.
func repeatBits(bits []int, n int) []int {
	if n <= 1 {
		out := make([]int, len(bits))
		copy(out, bits)
		return out
	}
	out := make([]int, 0, len(bits)*n)
	for _, b := range bits {
		for i := 0; i < n; i++ {
			out = append(out, b)
		}
	}
	return out
}

// interleaveBits runs the block interleaver's encode direction over
// `bits` block by block, zero-padding a short final block the way a
// truncated final payload block is padded before transmission.
func interleaveBits(bits []int, iv modetable.Interleaver) []int {
	if iv.RowInc == 0 && iv.ColInc == 0 {
		out := make([]int, len(bits))
		copy(out, bits)
		return out
	}
	m := interleave.New(iv.Rows, iv.Cols, iv.RowInc, iv.ColInc)
	size := m.Size()
	out := make([]int, 0, len(bits)+size)
	for i := 0; i < len(bits); i += size {
		end := min(i+size, len(bits))
		block := make([]int, size)
		copy(block, bits[i:end])
		out = append(out, m.EncodeBlock(block)...)
	}
	return out
}

// groupLabels packs k-bit-wide, MSB-first groups of `bits` into integer
// labels, the forward direction of demap's bitPos-from-MSB convention.
func groupLabels(bits []int, k int) []int {
	n := len(bits) / k
	out := make([]int, n)
	for i := 0; i < n; i++ {
		label := 0
		for j := 0; j < k; j++ {
			label = (label << 1) | (bits[i*k+j] & 1)
		}
		out[i] = label
	}
	return out
}

// bitAmp maps a single bit to its signed unit-ish amplitude, following
// the "positive is logic 0" sign convention demap.Clamp relies on.
func bitAmp(bit int) float64 {
	if bit == 0 {
		return 1 / math.Sqrt2
	}
	return -1 / math.Sqrt2
}

// mapSymbol renders one coded label as a unit-magnitude constellation
// point, the exact inverse of demap's per-constellation bit extraction.
func mapSymbol(c modetable.Constellation, label int) complex128 {
	switch c {
	case modetable.PSK8:
		return cmplx.Rect(1, float64(forwardGray8[label&7])*math.Pi/4)
	case modetable.QPSK:
		return complex(bitAmp((label>>1)&1), bitAmp(label&1))
	default:
		return complex(float64(1-2*(label&1)), 0)
	}
}

// buildPreamble renders a mode's fixed preamble tribit pattern, with
// its D1 and D2 indicator bursts spliced in at their fixed offsets.
func buildPreamble(mode modetable.Mode) []complex128 {
	out := make([]complex128, mode.PreambleSymbols)
	for i := range out {
		out[i] = cmplx.Rect(1, float64(scramble.Preamble(i))*math.Pi/4)
	}
	d1, d2 := modedetect.EncodeBursts(mode)
	copy(out[modedetect.D1Offset:], d1)
	copy(out[modedetect.D2Offset:], d2)
	return out
}

// buildDataSymbols assembles the PSK-mapped mini-frame body: Unknown
// coded labels, each scrambled, followed by Known probe symbols
// (constellation point 0, scrambled) -- the transmit mirror of
// internal/tracker's extraction loop.
func buildDataSymbols(mode modetable.Mode, labels []int) []complex128 {
	scr := scramble.NewDataScrambler()
	frames := (len(labels) + mode.Unknown - 1) / mode.Unknown
	if frames == 0 {
		frames = 1
	}
	frameLen := mode.Unknown + mode.Known
	out := make([]complex128, 0, frames*frameLen)

	idx, li := 0, 0
	for f := 0; f < frames; f++ {
		for i := 0; i < mode.Unknown; i++ {
			label := 0
			if li < len(labels) {
				label = labels[li]
				li++
			}
			z := mapSymbol(mode.Constellation, label)
			s := scr.At(idx)
			out = append(out, z*cmplx.Rect(1, float64(s)*math.Pi/4))
			idx++
		}
		for i := 0; i < mode.Known; i++ {
			s := scr.At(idx)
			out = append(out, cmplx.Rect(1, float64(s)*math.Pi/4))
			idx++
		}
	}
	return out
}

// buildWalshBody assembles the 75 bit/s body: one 32-symbol Walsh
// block per 2-bit label.
func buildWalshBody(labels []int) []complex128 {
	enc := walsh.NewEncoder()
	out := make([]complex128, 0, len(labels)*walsh.BlockLen)
	for _, label := range labels {
		for _, sym := range enc.EncodeBlock(label) {
			out = append(out, cmplx.Rect(1, float64(sym)*math.Pi/4))
		}
	}
	return out
}

// Symbols renders the full preamble+data symbol sequence for one
// packet, without pulse shaping or upconversion -- exposed separately
// so tests and the decoder round-trip tests can compare symbol streams
// directly instead of full audio waveforms.
func Symbols(mode modetable.Mode, payload []byte) []complex128 {
	bits := pack.BytesToBits(payload)

	var coded []int
	if mode.Coded {
		coded = viterbi.NewEncoder().EncodeBlock(bits)
	} else {
		coded = bits
	}

	repeated := repeatBits(coded, mode.Repetition)
	interleaved := interleaveBits(repeated, mode.Interleave)

	k := mode.Constellation.BitsPerSymbol()
	if mode.Walsh {
		k = 2
	}
	labels := groupLabels(interleaved, k)

	var body []complex128
	if mode.Walsh {
		body = buildWalshBody(labels)
	} else {
		body = buildDataSymbols(mode, labels)
	}

	return append(buildPreamble(mode), body...)
}

// EncodePacket renders a payload to a real PCM waveform: symbol
// generation, RRC pulse shaping, and carrier upconversion, the full
// transmit chain mirroring the receiver's matched filter and
// downconverter. The waveform carries RRCSpanSymbols symbol periods of
// filter tail after the last symbol, so that the last symbols survive
// the delay of both this pulse-shaping filter and the receiver's
// matched filter.
func EncodePacket(mode modetable.Mode, payload []byte, opts Options) []dsp.Sample {
	symbols := Symbols(mode, payload)

	taps := dsp.RRCTaps(opts.RolloffAlpha, opts.RRCSpanSymbols, opts.SamplesPerSymbol)
	upsampled := make([]complex128, (len(symbols)+opts.RRCSpanSymbols)*opts.SamplesPerSymbol)
	for i, z := range symbols {
		upsampled[i*opts.SamplesPerSymbol] = z
	}
	shaped := dsp.FilterComplex(taps, upsampled)
	return dsp.Upconvert(shaped, opts.SampleRate, opts.CarrierHz)
}
