package embedding

import (
	"context"
	"math"

	"github.com/hyperjump/kyori/internal/models"
)

// MockEmbedder is a deterministic embedder for tests and as fallback
// when the ONNX model is unavailable. It derives a single embedding row
// from the waveform contents so that the same audio always gets the same
// embedding.
type MockEmbedder struct {
	dimensions int
}

// NewMockEmbedder returns an embedder producing deterministic embeddings
// of the given dimensions.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 128
	}
	return &MockEmbedder{dimensions: dimensions}
}

// Embed returns one deterministic row derived from simple signal moments.
func (e *MockEmbedder) Embed(_ context.Context, w *models.Waveform) ([][]float64, error) {
	var sum, sumSq float64
	for _, s := range w.Samples {
		sum += s
		sumSq += s * s
	}
	n := float64(len(w.Samples))
	if n == 0 {
		n = 1
	}
	mean := sum / n
	rms := math.Sqrt(sumSq / n)

	row := make([]float64, e.dimensions)
	for i := range row {
		row[i] = math.Sin(mean*float64(i+1))*0.1 + rms*0.01
	}
	return [][]float64{row}, nil
}

// Dimensions returns the embedding dimension.
func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op for MockEmbedder.
func (e *MockEmbedder) Close() error {
	return nil
}
