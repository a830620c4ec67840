// Package modem is the top-level encode/decode facade: it wires
// dsp, scramble, modetable, sync110, modedetect, tracker, demap,
// combine, interleave, viterbi, walsh, pack, and txmirror together into
// the two operations a caller actually wants, Encode and Decode.
// Grounded on appserver.go, which plays the same role of
// "wire up the individually-testable pieces into one request/response
// entry point" for the AX.25 stack.
package modem

import (
	"github.com/hfdsp/msdmt110a/internal/combine"
	"github.com/hfdsp/msdmt110a/internal/demap"
	"github.com/hfdsp/msdmt110a/internal/dsp"
	"github.com/hfdsp/msdmt110a/internal/interleave"
	"github.com/hfdsp/msdmt110a/internal/modedetect"
	"github.com/hfdsp/msdmt110a/internal/modetable"
	"github.com/hfdsp/msdmt110a/internal/pack"
	"github.com/hfdsp/msdmt110a/internal/sync110"
	"github.com/hfdsp/msdmt110a/internal/tracker"
	"github.com/hfdsp/msdmt110a/internal/txmirror"
	"github.com/hfdsp/msdmt110a/internal/viterbi"
	"github.com/hfdsp/msdmt110a/internal/walsh"
)

// Options configures both directions of the modem: sample rate,
// carrier, samples/symbol, and RRC shape must match between the
// encoder and decoder for a round trip to work, so Encode and Decode
// share this one type (mirroring txmirror.Options).
type Options struct {
	SampleRate       float64
	CarrierHz        float64
	SamplesPerSymbol int
	RolloffAlpha     float64
	RRCSpanSymbols   int
	Search           sync110.Options
}

// DefaultOptions matches txmirror.DefaultOptions with a default
// preamble search configuration.
func DefaultOptions() Options {
	return Options{
		SampleRate: 9600, CarrierHz: 1800, SamplesPerSymbol: 4,
		RolloffAlpha: 0.35, RRCSpanSymbols: 8,
		Search: sync110.DefaultOptions(),
	}
}

func (o Options) txOptions() txmirror.Options {
	return txmirror.Options{
		SampleRate: o.SampleRate, CarrierHz: o.CarrierHz, SamplesPerSymbol: o.SamplesPerSymbol,
		RolloffAlpha: o.RolloffAlpha, RRCSpanSymbols: o.RRCSpanSymbols,
	}
}

// Encode renders payload as a PCM waveform for the named mode.
func Encode(modeName string, payload []byte, opts Options) ([]dsp.Sample, bool) {
	mode, ok := modetable.ByName(modeName)
	if !ok {
		return nil, false
	}
	return txmirror.EncodePacket(mode, payload, opts.txOptions()), true
}

// DecodeResult is the outcome of decoding one captured PCM buffer.
type DecodeResult struct {
	Sync      sync110.Result
	Mode      modedetect.Result
	Payload   []byte
	Truncated bool // the final coded block was short and zero-padded
}

// acquisitionProbes are the two reference preamble shapes (long and
// short) tried during acquisition -- every mode's preamble pattern and
// indicator-burst offsets are identical within each length class, so
// probing with one representative of each is enough to find sync
// before the real mode is known.
func acquisitionProbes() []modetable.Mode {
	long, _ := modetable.ByName("M1200L")
	short, _ := modetable.ByName("M1200S")
	return []modetable.Mode{long, short}
}

// Decode downconverts, matched-filters, and searches `samples` for a
// preamble at every sub-symbol sample phase, detects the operating
// mode from the indicator bursts, and demodulates the payload using
// that mode's framing.
//
// If no preamble clears the search threshold, Sync.Found is false and
// Payload is nil. If a preamble is found but the indicator bursts
// don't match any known mode, Mode.OK is false and Payload is nil --
// both are the "declare failure, emit nothing" contract rather than a
// panic or a guess.
func Decode(samples []dsp.Sample, opts Options) DecodeResult {
	baseband := dsp.Downconvert(samples, opts.SampleRate, opts.CarrierHz, 0)
	taps := dsp.RRCTaps(opts.RolloffAlpha, opts.RRCSpanSymbols, opts.SamplesPerSymbol)
	filtered := dsp.FilterComplex(taps, baseband)

	var best sync110.Result
	var bestSymbols []complex128

	for sub := 0; sub < opts.SamplesPerSymbol; sub++ {
		maxSymbols := (len(filtered) - sub) / opts.SamplesPerSymbol
		if maxSymbols <= 0 {
			continue
		}
		symbols := dsp.SampleAt(filtered, sub, opts.SamplesPerSymbol, maxSymbols)
		for _, probe := range acquisitionProbes() {
			res := sync110.Search(symbols, probe, opts.Search)
			if res.Found && res.Accuracy > best.Accuracy {
				best, bestSymbols = res, symbols
			}
		}
	}

	if !best.Found {
		return DecodeResult{Sync: best}
	}

	aligned := sync110.AlignedStream(bestSymbols, best)
	modeRes := modedetect.Detect(aligned)
	if !modeRes.OK {
		return DecodeResult{Sync: best, Mode: modeRes}
	}
	mode := modeRes.Mode

	if len(aligned) <= mode.PreambleSymbols {
		return DecodeResult{Sync: best, Mode: modeRes, Truncated: true}
	}
	body := aligned[mode.PreambleSymbols:]

	var soft []int8
	var truncated bool
	if mode.Walsh {
		soft, truncated = decodeWalsh(mode, body)
	} else {
		soft, truncated = decodePSK(mode, body)
	}

	var bits []int
	if mode.Coded {
		bits = viterbi.NewDecoder().DecodeBlock(soft, true)
	} else {
		bits = hardBits(soft)
	}

	return DecodeResult{
		Sync: best, Mode: modeRes,
		Payload:   pack.BitsToBytes(bits),
		Truncated: truncated,
	}
}

// hardBits makes a hard decision per soft bit: negative is logic 1,
// positive (or zero, an erasure) is logic 0 -- used only for M4800S,
// the one uncoded mode, which skips the Viterbi decode entirely.
func hardBits(soft []int8) []int {
	out := make([]int, len(soft))
	for i, s := range soft {
		if s < 0 {
			out[i] = 1
		}
	}
	return out
}

// decodePSK extracts unknown symbols via the channel tracker, demaps
// each to soft bits, combines repeated copies, and deinterleaves,
// returning the coded soft-bit stream ready for the Viterbi decoder
// (or, for M4800S, a hard decision).
func decodePSK(mode modetable.Mode, body []complex128) ([]int8, bool) {
	ex := tracker.NewExtractor(mode)
	frameLen := mode.Unknown + mode.Known
	frames := len(body) / frameLen
	truncated := len(body)%frameLen != 0
	total := frames * frameLen

	unknowns := ex.Run(body, 0, 1, total)

	soft := make([]int8, 0, len(unknowns)*mode.Constellation.BitsPerSymbol())
	for _, u := range unknowns {
		bits := demap.Symbol(mode.Constellation, u.Z, u.ScramblerTribit)
		soft = append(soft, bits...)
	}

	// Mirror the transmitter's repeat-then-interleave order in reverse:
	// deinterleave back to original bit order first, then combine the
	// repeated copies that order makes adjacent again.
	deinterleaved := deinterleaveSoft(soft, mode.Interleave)
	combined := combine.Combine(deinterleaved, mode.Repetition)

	return combined, truncated
}

// decodeWalsh decodes the 75 bit/s path block by block: the Walsh
// correlator returns 2 soft bits per 32-symbol block, which are
// deinterleaved exactly like the PSK path's coded-bit stream before
// the shared Viterbi decode.
func decodeWalsh(mode modetable.Mode, body []complex128) ([]int8, bool) {
	dec := walsh.NewDecoder(false)
	blocks := len(body) / walsh.BlockLen
	truncated := len(body)%walsh.BlockLen != 0

	soft := make([]int8, 0, blocks*2)
	for b := 0; b < blocks; b++ {
		block := body[b*walsh.BlockLen : (b+1)*walsh.BlockLen]
		soft = append(soft, dec.DecodeBlock(block)...)
	}

	return deinterleaveSoft(soft, mode.Interleave), truncated
}

// deinterleaveSoft runs the block deinterleaver's decode direction
// over a soft-bit stream by round-tripping through []int, since
// interleave.Matrix permutes index positions regardless of payload
// type.
func deinterleaveSoft(soft []int8, iv modetable.Interleaver) []int8 {
	if iv.RowInc == 0 && iv.ColInc == 0 {
		out := make([]int8, len(soft))
		copy(out, soft)
		return out
	}
	m := interleave.New(iv.Rows, iv.Cols, iv.RowInc, iv.ColInc)
	size := m.Size()

	out := make([]int8, 0, len(soft))
	for i := 0; i < len(soft); i += size {
		end := min(i+size, len(soft))
		block := make([]int, size)
		for j := i; j < end; j++ {
			block[j-i] = int(soft[j])
		}
		decoded := m.DecodeBlock(block)
		for _, v := range decoded {
			out = append(out, int8(v))
		}
	}
	return out
}

