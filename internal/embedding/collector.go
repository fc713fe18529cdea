package embedding

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/kyori/internal/models"
)

// Collector drives an embedder over a waveform set and concatenates the
// per-waveform rows into one batch in input order.
type Collector struct {
	embedder Embedder
	workers  int
	logger   *zap.Logger
}

// NewCollector creates a collector. workers > 1 embeds waveforms
// concurrently; each call is independent and only the concatenation
// order matters, which is preserved either way.
func NewCollector(embedder Embedder, workers int, logger *zap.Logger) *Collector {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{embedder: embedder, workers: workers, logger: logger}
}

// Collect embeds every waveform and returns the concatenated batch. Any
// embedder failure aborts the whole batch; no partial results are
// returned. An empty input yields an empty batch, not an error.
func (c *Collector) Collect(ctx context.Context, waveforms []*models.Waveform) ([][]float64, error) {
	var perItem [][][]float64
	var err error
	if c.workers > 1 && len(waveforms) > 1 {
		perItem, err = c.embedParallel(ctx, waveforms)
	} else {
		perItem, err = c.embedSequential(ctx, waveforms)
	}
	if err != nil {
		return nil, err
	}

	var batch [][]float64
	for _, rows := range perItem {
		batch = append(batch, rows...)
	}
	c.logger.Debug("collected embedding batch",
		zap.Int("waveforms", len(waveforms)),
		zap.Int("rows", len(batch)),
	)
	return batch, nil
}

func (c *Collector) embedSequential(ctx context.Context, waveforms []*models.Waveform) ([][][]float64, error) {
	perItem := make([][][]float64, len(waveforms))
	for i, w := range waveforms {
		rows, err := c.embedder.Embed(ctx, w)
		if err != nil {
			return nil, fmt.Errorf("failed to embed item %d: %w", i, err)
		}
		perItem[i] = rows
	}
	return perItem, nil
}

func (c *Collector) embedParallel(ctx context.Context, waveforms []*models.Waveform) ([][][]float64, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	perItem := make([][][]float64, len(waveforms))
	jobs := make(chan int)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for n := 0; n < c.workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				rows, err := c.embedder.Embed(ctx, waveforms[i])
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("failed to embed item %d: %w", i, err)
						cancel()
					}
					mu.Unlock()
					continue
				}
				perItem[i] = rows
			}
		}()
	}
	for i := range waveforms {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return perItem, nil
}
