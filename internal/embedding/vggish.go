//go:build cgo
// +build cgo

package embedding

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/hyperjump/kyori/internal/models"
)

// VGGishEmbedder runs a VGGish ONNX export with ONNX Runtime (requires
// CGO and the onnxruntime shared library). The waveform is framed into
// fixed windows and each window yields one embedding row.
type VGGishEmbedder struct {
	session *ort.AdvancedSession
	cfg     VGGishConfig
	window  int // samples per analysis window
	cache   *EmbeddingCache
	// Pre-allocated tensors for Run(); input data is overwritten per
	// window and the output read back.
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	mu           sync.Mutex
}

// NewVGGishEmbedder creates a VGGish embedder. InitializeEnvironment is
// called if not already done.
func NewVGGishEmbedder(cfg VGGishConfig) (*VGGishEmbedder, error) {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = 128
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.WindowSeconds <= 0 {
		cfg.WindowSeconds = 0.96
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 64
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}

	window := int(cfg.WindowSeconds * float64(cfg.SampleRate))
	inputTensor, err := ort.NewTensor(ort.NewShape(1, int64(window)), make([]float32, window))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	outputTensor, err := ort.NewTensor(ort.NewShape(1, int64(cfg.Dimensions)), make([]float32, cfg.Dimensions))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{"input"},
		[]string{outputHead(cfg)},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		nil,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &VGGishEmbedder{
		session:      session,
		cfg:          cfg,
		window:       window,
		cache:        NewEmbeddingCache(cfg.CacheSize),
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// outputHead maps the construction options to a model output name. The
// exports carry the raw activations, the post-ReLU-stripped embedding
// (the FAD default), and the PCA-postprocessed head.
func outputHead(cfg VGGishConfig) string {
	switch {
	case cfg.UsePCA:
		return "embedding_pca"
	case cfg.UseActivation:
		return "activation"
	default:
		return "embedding"
	}
}

// Embed frames the waveform into windows and returns one row per
// window, using the cache when the same audio was embedded before.
// Waveforms shorter than one window are zero-padded to a single window.
func (e *VGGishEmbedder) Embed(ctx context.Context, w *models.Waveform) ([][]float64, error) {
	if w.SampleRate != e.cfg.SampleRate {
		return nil, fmt.Errorf("waveform sample rate %d, embedder expects %d", w.SampleRate, e.cfg.SampleRate)
	}
	key := WaveformKey(w)
	if cached, ok := e.cache.Get(key); ok {
		return cached, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	numWindows := len(w.Samples) / e.window
	if numWindows == 0 {
		numWindows = 1
	}
	rows := make([][]float64, 0, numWindows)
	input := e.inputTensor.GetData()
	for n := 0; n < numWindows; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := n * e.window
		for i := 0; i < e.window; i++ {
			if start+i < len(w.Samples) {
				input[i] = float32(w.Samples[start+i])
			} else {
				input[i] = 0
			}
		}
		if err := e.session.Run(); err != nil {
			return nil, fmt.Errorf("inference failed: %w", err)
		}
		out := e.outputTensor.GetData()
		row := make([]float64, e.cfg.Dimensions)
		for i := 0; i < e.cfg.Dimensions; i++ {
			row[i] = float64(out[i])
		}
		rows = append(rows, row)
	}

	e.cache.Set(key, rows)
	return rows, nil
}

// Dimensions returns the embedding dimension.
func (e *VGGishEmbedder) Dimensions() int {
	return e.cfg.Dimensions
}

// Close destroys the session and tensors.
func (e *VGGishEmbedder) Close() error {
	var err error
	if e.session != nil {
		err = e.session.Destroy()
		e.session = nil
	}
	if e.inputTensor != nil {
		_ = e.inputTensor.Destroy()
		e.inputTensor = nil
	}
	if e.outputTensor != nil {
		_ = e.outputTensor.Destroy()
		e.outputTensor = nil
	}
	return err
}
