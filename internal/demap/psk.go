// Package demap is the soft demapper of the wire format: it turns one
// descrambled baseband symbol into a vector of signed soft bits,
// folding the per-symbol scrambler rotation in as it goes. There is no
// direct analogue in the reference sources (AFSK/9600 demod in src/demod_afsk.go and
// src/demod_9600.go produce a single hard bit per symbol, not a
// constellation label), so this follows the wire format directly, in the
// small-pure-function style of dsp.go helpers.
package demap

import (
	"math"
	"math/cmplx"

	"github.com/hfdsp/msdmt110a/internal/modetable"
)

// SoftBit is a signed confidence value: positive means logic 0,
// negative means logic 1, zero is erasure.
type SoftBit = int8

// Scale is the fixed per-bit magnitude multiplier the wire format
// describes as "a fixed scaling factor in the low tens" -- picked once
// here so the whole receive chain (demapper, repetition combiner,
// Viterbi branch metric) shares a single soft-bit dynamic range.
const Scale = 40.0

// invGray8 is the positional inverse of txmirror's forward Gray table
// {0,1,3,2,7,6,4,5}: invGray8[point] recovers the
// tribit label that mapped to that constellation point. the wire format
// gives this table directly rather than asking the decoder to invert
// the encoder's at runtime.
var invGray8 = [8]int{0, 1, 3, 2, 6, 7, 5, 4}

// Clamp rounds and saturates a soft-bit value to [-127, 127].
func Clamp(v float64) SoftBit {
	if v > 127 {
		v = 127
	}
	if v < -127 {
		v = -127
	}
	return SoftBit(math.Round(v))
}

// descramble undoes the per-symbol scrambler rotation: multiply by
// exp(-j*s*pi/4) where s is the current data scrambler tribit.
func descramble(z complex128, s int) complex128 {
	theta := -float64(s) * math.Pi / 4
	return z * cmplx.Rect(1, theta)
}

// Symbol demaps one unknown baseband symbol for the given
// constellation, given the data-scrambler tribit active at this symbol
// position. It returns soft bits MSB-first within the symbol label
//: 3 bits for 8-PSK, 2 for QPSK, 1 for BPSK.
func Symbol(c modetable.Constellation, z complex128, scramblerTribit int) []SoftBit {
	zd := descramble(z, scramblerTribit)

	switch c {
	case modetable.PSK8:
		return psk8Bits(zd)
	case modetable.QPSK:
		return qpskBits(zd)
	default:
		return bpskBits(zd)
	}
}

func psk8Bits(zd complex128) []SoftBit {
	angle := cmplx.Phase(zd)
	p := int(math.Round(angle * 4 / math.Pi))
	p = ((p % 8) + 8) % 8
	label := invGray8[p]
	mag := cmplx.Abs(zd) * Scale

	out := make([]SoftBit, 3)
	for i := 0; i < 3; i++ {
		bitPos := 2 - i // MSB first: bit2, bit1, bit0
		bit := (label >> uint(bitPos)) & 1
		sign := 1.0
		if bit == 1 {
			sign = -1.0
		}
		out[i] = Clamp(sign * mag)
	}
	return out
}

func qpskBits(zd complex128) []SoftBit {
	return []SoftBit{
		Clamp(real(zd) * Scale),
		Clamp(imag(zd) * Scale),
	}
}

func bpskBits(zd complex128) []SoftBit {
	return []SoftBit{Clamp(real(zd) * Scale)}
}
