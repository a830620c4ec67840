// Command msdmt-encode renders a payload file to a PCM WAV waveform
// for one named operating mode.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/hfdsp/msdmt110a/internal/modem"
	"github.com/hfdsp/msdmt110a/internal/pcmfile"
)

func main() {
	mode := pflag.StringP("mode", "m", "M1200L", "operating mode name: M75S/L, M150S/L, M300S/L, M600S/L, M1200S/L, M2400S/L or M4800S")
	out := pflag.StringP("out", "o", "out.wav", "output WAV file path")
	in := pflag.StringP("in", "i", "-", "input payload file path, - for stdin")
	pflag.Parse()

	var payload []byte
	var err error
	if *in == "-" {
		payload, err = io.ReadAll(os.Stdin)
	} else {
		payload, err = os.ReadFile(*in)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "msdmt-encode: reading payload: %s\n", err)
		os.Exit(1)
	}

	opts := modem.DefaultOptions()
	samples, ok := modem.Encode(*mode, payload, opts)
	if !ok {
		fmt.Fprintf(os.Stderr, "msdmt-encode: unknown mode %q\n", *mode)
		os.Exit(1)
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "msdmt-encode: creating %s: %s\n", *out, err)
		os.Exit(1)
	}
	defer f.Close()

	if err := pcmfile.WriteWave(f, samples, uint32(opts.SampleRate)); err != nil {
		fmt.Fprintf(os.Stderr, "msdmt-encode: writing %s: %s\n", *out, err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "msdmt-encode: wrote %d samples (%d bytes payload, mode %s) to %s\n", len(samples), len(payload), *mode, *out)
}
