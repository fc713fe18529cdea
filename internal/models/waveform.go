// Package models defines the data types shared across kyori components.
package models

import "time"

// Waveform is a mono audio signal at a known sample rate. Samples are
// normalized to [-1, 1]. A waveform is read-only once constructed;
// components never mutate it.
type Waveform struct {
	Samples    []float64
	SampleRate int
	Path       string // source file when loaded from disk, empty otherwise
}

// Duration returns the play time of the waveform.
func (w *Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	seconds := float64(len(w.Samples)) / float64(w.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}
