//go:build !cgo
// +build !cgo

package embedding

import (
	"context"
	"errors"

	"github.com/hyperjump/kyori/internal/models"
)

// VGGishEmbedder stub type when built without CGO (see vggish.go for the
// real implementation).
type VGGishEmbedder struct{}

// NewVGGishEmbedder returns an error when built without CGO (ONNX not
// available).
func NewVGGishEmbedder(_ VGGishConfig) (*VGGishEmbedder, error) {
	return nil, errors.New("VGGish embedder requires CGO; build with CGO_ENABLED=1 and onnxruntime")
}

// Embed is unreachable on the stub; the constructor always fails.
func (e *VGGishEmbedder) Embed(context.Context, *models.Waveform) ([][]float64, error) {
	return nil, errors.New("VGGish embedder not available without CGO")
}

// Dimensions returns 0 on the stub.
func (e *VGGishEmbedder) Dimensions() int {
	return 0
}

// Close is a no-op on the stub.
func (e *VGGishEmbedder) Close() error {
	return nil
}
