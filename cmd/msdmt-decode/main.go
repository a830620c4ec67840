// Command msdmt-decode searches a captured PCM WAV file for a
// preamble, detects the operating mode, and prints the decoded
// payload.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/hfdsp/msdmt110a/internal/modem"
	"github.com/hfdsp/msdmt110a/internal/pcmfile"
)

func main() {
	in := pflag.StringP("in", "i", "", "input WAV file path (required)")
	raw := pflag.Bool("raw", false, "treat -in as headerless raw 16-bit PCM instead of WAV")
	verbose := pflag.BoolP("verbose", "v", false, "print sync/mode diagnostics even on failure")
	pflag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "msdmt-decode: -in is required")
		pflag.Usage()
		os.Exit(1)
	}

	var samples []float32
	var err error
	if *raw {
		samples, err = pcmfile.ReadRawFile(*in)
	} else {
		samples, _, err = pcmfile.ReadWaveFile(*in)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "msdmt-decode: reading %s: %s\n", *in, err)
		os.Exit(1)
	}

	res := modem.Decode(samples, modem.DefaultOptions())

	if !res.Sync.Found {
		fmt.Println("NO SYNC")
		if *verbose {
			fmt.Printf("best accuracy seen: %.3f\n", res.Sync.Accuracy)
		}
		os.Exit(1)
	}
	if !res.Mode.OK {
		fmt.Println("UNKNOWN MODE")
		if *verbose {
			fmt.Printf("sync offset=%d freq=%.2fHz accuracy=%.3f\n", res.Sync.SampleOffset, res.Sync.FreqOffsetHz, res.Sync.Accuracy)
		}
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("mode=%s margin=%.4f sync accuracy=%.3f freq=%.2fHz truncated=%v\n",
			res.Mode.Mode.Name, res.Mode.Margin, res.Sync.Accuracy, res.Sync.FreqOffsetHz, res.Truncated)
	}
	os.Stdout.Write(res.Payload)
}
