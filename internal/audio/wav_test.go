package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

// buildWAV assembles a minimal PCM16 WAV byte stream.
func buildWAV(sampleRate int, channels int, frames [][]int16) []byte {
	var data bytes.Buffer
	for _, frame := range frames {
		for _, s := range frame {
			binary.Write(&data, binary.LittleEndian, s)
		}
	}
	return buildWAVRaw(sampleRate, channels, 1, 16, data.Bytes())
}

func buildWAVRaw(sampleRate, channels int, format, bits uint16, data []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, format)
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	byteRate := sampleRate * channels * int(bits) / 8
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*int(bits)/8))
	binary.Write(&buf, binary.LittleEndian, bits)
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

func TestReadWAV_monoPCM16(t *testing.T) {
	raw := buildWAV(16000, 1, [][]int16{{0}, {16384}, {-16384}})
	w, err := ReadWAV(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if w.SampleRate != 16000 {
		t.Errorf("sample rate: got %d, want 16000", w.SampleRate)
	}
	want := []float64{0, 0.5, -0.5}
	if len(w.Samples) != len(want) {
		t.Fatalf("samples: got %d, want %d", len(w.Samples), len(want))
	}
	for i := range want {
		if math.Abs(w.Samples[i]-want[i]) > 1e-9 {
			t.Errorf("sample %d: got %v, want %v", i, w.Samples[i], want[i])
		}
	}
}

func TestReadWAV_stereoDownmix(t *testing.T) {
	raw := buildWAV(44100, 2, [][]int16{{16384, 0}, {-16384, -16384}})
	w, err := ReadWAV(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0.25, -0.5}
	if len(w.Samples) != len(want) {
		t.Fatalf("samples: got %d, want %d", len(w.Samples), len(want))
	}
	for i := range want {
		if math.Abs(w.Samples[i]-want[i]) > 1e-9 {
			t.Errorf("sample %d: got %v, want %v", i, w.Samples[i], want[i])
		}
	}
}

func TestReadWAV_float32(t *testing.T) {
	var data bytes.Buffer
	for _, s := range []float32{0.5, -0.25} {
		binary.Write(&data, binary.LittleEndian, s)
	}
	raw := buildWAVRaw(48000, 1, 3, 32, data.Bytes())
	w, err := ReadWAV(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Samples) != 2 || math.Abs(w.Samples[0]-0.5) > 1e-9 || math.Abs(w.Samples[1]+0.25) > 1e-9 {
		t.Errorf("samples: got %v, want [0.5 -0.25]", w.Samples)
	}
}

func TestReadWAV_rejectsGarbage(t *testing.T) {
	if _, err := ReadWAV(bytes.NewReader([]byte("not audio at all"))); err == nil {
		t.Error("garbage input should error")
	}
	if _, err := ReadWAV(bytes.NewReader(nil)); err == nil {
		t.Error("empty input should error")
	}
}

func TestReadWAV_unsupportedFormat(t *testing.T) {
	raw := buildWAVRaw(16000, 1, 1, 8, []byte{1, 2, 3})
	if _, err := ReadWAV(bytes.NewReader(raw)); err == nil {
		t.Error("8-bit PCM should be rejected")
	}
}
