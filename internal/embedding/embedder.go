// Package embedding produces audio embeddings and collects them into
// batches for statistics estimation.
package embedding

import (
	"context"

	"github.com/hyperjump/kyori/internal/models"
)

// Embedder produces fixed-dimension embeddings for one waveform. Each
// waveform yields one or more rows of Dimensions() columns; the VGGish
// embedder emits one row per analysis window. Implementations must be
// deterministic for a fixed configuration so that cached background
// statistics stay meaningful.
type Embedder interface {
	Embed(ctx context.Context, w *models.Waveform) ([][]float64, error)
	Dimensions() int
	Close() error
}

// VGGishConfig holds the embedder-construction options. UsePCA and
// UseActivation select which output head of the model is read; they are
// model options, not scoring options.
type VGGishConfig struct {
	ModelPath     string
	Dimensions    int
	SampleRate    int
	WindowSeconds float64
	UsePCA        bool
	UseActivation bool
	CacheSize     int
}
