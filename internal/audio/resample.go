package audio

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/hyperjump/kyori/internal/models"
)

// Resample converts w to targetRate with a high-quality polyphase
// resampler. Returns w unchanged when the rates already match.
func Resample(w *models.Waveform, targetRate int) (*models.Waveform, error) {
	if targetRate <= 0 {
		return nil, fmt.Errorf("invalid target rate %d", targetRate)
	}
	if w.SampleRate == targetRate {
		return w, nil
	}

	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(w.SampleRate),
		OutputRate: float64(targetRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}
	out, err := r.Process(w.Samples)
	if err != nil {
		return nil, fmt.Errorf("resample error: %w", err)
	}
	// The resampler is streaming: the polyphase filter holds back a tail
	// of filter-latency samples that only Flush drains.
	tail, err := r.Flush()
	if err != nil {
		return nil, fmt.Errorf("resample flush error: %w", err)
	}
	out = append(out, tail...)

	return &models.Waveform{Samples: out, SampleRate: targetRate, Path: w.Path}, nil
}
