package dataset

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// writeWAV writes a minimal mono PCM16 WAV file.
func writeWAV(t *testing.T, path string, sampleRate int, samples []int16) {
	t.Helper()
	var data bytes.Buffer
	for _, s := range samples {
		binary.Write(&data, binary.LittleEndian, s)
	}
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "b.wav"), 16000, []int16{0})
	writeWAV(t, filepath.Join(dir, "a.WAV"), 16000, []int16{0})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeWAV(t, filepath.Join(sub, "c.wav"), 16000, []int16{0})

	files, err := ListFiles(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3: %v", len(files), files)
	}
	// Sorted by path, case-insensitive extension match.
	if filepath.Base(files[0]) != "a.WAV" || filepath.Base(files[1]) != "b.wav" {
		t.Errorf("unexpected order: %v", files)
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "a.wav"), 16000, []int16{0, 16384})
	writeWAV(t, filepath.Join(dir, "b.wav"), 16000, []int16{-16384})

	loader := NewLoader(16000, nil)
	waveforms, err := loader.LoadDirectory(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(waveforms) != 2 {
		t.Fatalf("got %d waveforms, want 2", len(waveforms))
	}
	if len(waveforms[0].Samples) != 2 {
		t.Errorf("first waveform: got %d samples, want 2", len(waveforms[0].Samples))
	}
	if waveforms[0].SampleRate != 16000 {
		t.Errorf("sample rate: got %d, want 16000", waveforms[0].SampleRate)
	}
}

func TestLoadDirectory_empty(t *testing.T) {
	loader := NewLoader(16000, nil)
	waveforms, err := loader.LoadDirectory(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(waveforms) != 0 {
		t.Errorf("empty dir should yield empty set, got %d", len(waveforms))
	}
}

func TestLoadDirectory_badFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.wav"), []byte("junk"), 0644); err != nil {
		t.Fatal(err)
	}
	loader := NewLoader(16000, nil)
	if _, err := loader.LoadDirectory(dir, nil); err == nil {
		t.Error("undecodable file should abort the load")
	}
}
