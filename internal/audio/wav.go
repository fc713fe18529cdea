// Package audio decodes WAV files into mono waveforms and converts
// sample rates.
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/hyperjump/kyori/internal/models"
)

const (
	formatPCM       = 1
	formatIEEEFloat = 3
)

// ReadWAV decodes a RIFF/WAVE stream into a mono waveform. 16-bit PCM
// and 32-bit IEEE float formats are supported; multi-channel audio is
// downmixed by averaging the channels per frame.
func ReadWAV(r io.Reader) (*models.Waveform, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("failed to read RIFF header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE stream")
	}

	var (
		audioFormat   uint16
		channels      uint16
		sampleRate    uint32
		bitsPerSample uint16
		haveFmt       bool
		data          []byte
	)

	for data == nil {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(r, chunkHeader[:]); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("no data chunk found")
			}
			return nil, fmt.Errorf("failed to read chunk header: %w", err)
		}
		id := string(chunkHeader[0:4])
		size := binary.LittleEndian.Uint32(chunkHeader[4:8])

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("failed to read fmt chunk: %w", err)
			}
			if size < 16 {
				return nil, fmt.Errorf("fmt chunk too short: %d bytes", size)
			}
			audioFormat = binary.LittleEndian.Uint16(body[0:2])
			channels = binary.LittleEndian.Uint16(body[2:4])
			sampleRate = binary.LittleEndian.Uint32(body[4:8])
			bitsPerSample = binary.LittleEndian.Uint16(body[14:16])
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("data chunk before fmt chunk")
			}
			data = make([]byte, size)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, fmt.Errorf("failed to read data chunk: %w", err)
			}
		default:
			// Skip unknown chunks; chunk bodies are word-aligned.
			skip := int64(size)
			if size%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return nil, fmt.Errorf("failed to skip %s chunk: %w", id, err)
			}
		}
		if id == "fmt " && size%2 == 1 {
			if _, err := io.CopyN(io.Discard, r, 1); err != nil {
				return nil, fmt.Errorf("failed to skip fmt pad byte: %w", err)
			}
		}
	}

	if channels == 0 {
		return nil, fmt.Errorf("invalid channel count 0")
	}
	samples, err := decodeSamples(data, audioFormat, bitsPerSample, int(channels))
	if err != nil {
		return nil, err
	}
	return &models.Waveform{Samples: samples, SampleRate: int(sampleRate)}, nil
}

// ReadWAVFile decodes the WAV file at path.
func ReadWAVFile(path string) (*models.Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	w, err := ReadWAV(f)
	if err != nil {
		return nil, err
	}
	w.Path = path
	return w, nil
}

func decodeSamples(data []byte, audioFormat uint16, bitsPerSample uint16, channels int) ([]float64, error) {
	switch {
	case audioFormat == formatPCM && bitsPerSample == 16:
		frames := len(data) / (2 * channels)
		samples := make([]float64, frames)
		for f := 0; f < frames; f++ {
			var sum float64
			for c := 0; c < channels; c++ {
				off := (f*channels + c) * 2
				s := int16(binary.LittleEndian.Uint16(data[off : off+2]))
				sum += float64(s) / 32768.0
			}
			samples[f] = sum / float64(channels)
		}
		return samples, nil
	case audioFormat == formatIEEEFloat && bitsPerSample == 32:
		frames := len(data) / (4 * channels)
		samples := make([]float64, frames)
		for f := 0; f < frames; f++ {
			var sum float64
			for c := 0; c < channels; c++ {
				off := (f*channels + c) * 4
				bits := binary.LittleEndian.Uint32(data[off : off+4])
				sum += float64(math.Float32frombits(bits))
			}
			samples[f] = sum / float64(channels)
		}
		return samples, nil
	default:
		return nil, fmt.Errorf("unsupported WAV format %d with %d bits per sample", audioFormat, bitsPerSample)
	}
}
