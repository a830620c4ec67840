// Package pcmfile reads and writes the raw and WAV-wrapped 16-bit PCM
// files the modem core exchanges with the outside world. Grounded on
// original_source/test/test_msdmt_decoder.cpp's read_wav (a 44-byte
// canonical WavHeader struct read straight off the front of the file)
// and on audio.go's file-handling conventions, adapted from
// C's struct-overlay read into explicit little-endian field decoding.
package pcmfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hfdsp/msdmt110a/internal/dsp"
)

// waveHeaderSize is the canonical 44-byte PCM WAV header: RIFF chunk,
// fmt subchunk, and the start of the data subchunk, with no extra
// chunks in between -- the same fixed-size struct the reference
// decoder reads directly off the file front.
const waveHeaderSize = 44

// WaveInfo carries the header fields a caller might want to check
// (sample rate, channel count) alongside the decoded samples.
type WaveInfo struct {
	SampleRate    uint32
	NumChannels   uint16
	BitsPerSample uint16
}

// ReadRaw reads a headerless stream of little-endian 16-bit PCM
// samples, normalizing each to [-1, 1) by dividing by 32768.
func ReadRaw(r io.Reader) ([]dsp.Sample, error) {
	br := bufio.NewReader(r)
	var out []dsp.Sample
	buf := make([]byte, 2)
	for {
		if _, err := io.ReadFull(br, buf); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, err
		}
		v := int16(binary.LittleEndian.Uint16(buf))
		out = append(out, dsp.Sample(float64(v)/32768.0))
	}
	return out, nil
}

// ReadRawFile opens path and reads it as headerless raw PCM.
func ReadRawFile(path string) ([]dsp.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRaw(f)
}

// ReadWave reads a canonical 44-byte-header PCM WAV file: RIFF/WAVE,
// a "fmt " subchunk, and a "data" subchunk immediately following it.
// Only 16-bit PCM is supported -- anything else is an error, since
// this format is what the transmit chain always writes and the only
// shape the capture tooling is expected to produce.
func ReadWave(r io.Reader) ([]dsp.Sample, WaveInfo, error) {
	header := make([]byte, waveHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, WaveInfo{}, fmt.Errorf("pcmfile: short WAV header: %w", err)
	}

	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, WaveInfo{}, fmt.Errorf("pcmfile: not a RIFF/WAVE file")
	}
	if string(header[12:16]) != "fmt " {
		return nil, WaveInfo{}, fmt.Errorf("pcmfile: missing fmt subchunk")
	}

	info := WaveInfo{
		SampleRate:    binary.LittleEndian.Uint32(header[24:28]),
		NumChannels:   binary.LittleEndian.Uint16(header[22:24]),
		BitsPerSample: binary.LittleEndian.Uint16(header[34:36]),
	}
	if info.BitsPerSample != 16 {
		return nil, info, fmt.Errorf("pcmfile: unsupported bits per sample %d", info.BitsPerSample)
	}
	if string(header[36:40]) != "data" {
		return nil, info, fmt.Errorf("pcmfile: missing data subchunk")
	}

	dataSize := binary.LittleEndian.Uint32(header[40:44])
	samples, err := ReadRaw(io.LimitReader(r, int64(dataSize)))
	if err != nil {
		return nil, info, err
	}
	return samples, info, nil
}

// ReadWaveFile opens path and reads it as a 16-bit PCM WAV file.
func ReadWaveFile(path string) ([]dsp.Sample, WaveInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, WaveInfo{}, err
	}
	defer f.Close()
	return ReadWave(f)
}

// WriteRaw writes samples as headerless little-endian 16-bit PCM,
// clamping to the int16 range.
func WriteRaw(w io.Writer, samples []dsp.Sample) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 2)
	for _, s := range samples {
		v := float64(s) * 32768.0
		if v > 32767 {
			v = 32767
		}
		if v < -32768 {
			v = -32768
		}
		binary.LittleEndian.PutUint16(buf, uint16(int16(v)))
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteWave writes samples as a canonical 44-byte-header mono 16-bit
// PCM WAV file at the given sample rate.
func WriteWave(w io.Writer, samples []dsp.Sample, sampleRate uint32) error {
	dataSize := uint32(len(samples) * 2)
	header := make([]byte, waveHeaderSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // fmt subchunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(header[22:24], 1)  // mono
	binary.LittleEndian.PutUint32(header[24:28], sampleRate)
	binary.LittleEndian.PutUint32(header[28:32], sampleRate*2) // byte rate
	binary.LittleEndian.PutUint16(header[32:34], 2)            // block align
	binary.LittleEndian.PutUint16(header[34:36], 16)           // bits per sample
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return err
	}
	return WriteRaw(w, samples)
}
