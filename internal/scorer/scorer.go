// Package scorer composes embedding collection, statistics estimation
// and the Fréchet distance into the FAD score operation.
package scorer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/kyori/internal/embedding"
	"github.com/hyperjump/kyori/internal/models"
	"github.com/hyperjump/kyori/internal/stats"
	"github.com/hyperjump/kyori/internal/storage"
)

// BackgroundFunc supplies the background waveform set. It is only
// invoked when no cached background statistics exist, so an expensive
// load (directory of audio files) is skipped on warm runs.
type BackgroundFunc func(ctx context.Context) ([]*models.Waveform, error)

// Result is the outcome of a score call. Empty reports that the
// evaluation or the background set had no items; FAD is meaningless in
// that case. FAD is clamped at zero, absorbing the tiny negative
// floating-point residue near-identical distributions can produce.
type Result struct {
	FAD       float64
	Empty     bool
	EvalItems int
	EvalRows  int
}

// Scorer scores evaluation sets against one configured background
// distribution. It owns the embedder (via the collector) and the
// statistics cache; it does no numerical work itself.
type Scorer struct {
	collector  *embedding.Collector
	store      storage.StatStore
	cacheKey   string
	background BackgroundFunc
	logger     *zap.Logger
}

// NewScorer creates a scorer. cacheKey identifies the background
// statistics slot in store (see storage.KeyInput).
func NewScorer(
	collector *embedding.Collector,
	store storage.StatStore,
	cacheKey string,
	background BackgroundFunc,
	logger *zap.Logger,
) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{
		collector:  collector,
		store:      store,
		cacheKey:   cacheKey,
		background: background,
		logger:     logger,
	}
}

// CacheKey returns the background statistics cache key.
func (s *Scorer) CacheKey() string {
	return s.cacheKey
}

// Score computes the Fréchet Audio Distance of eval against the
// background distribution.
func (s *Scorer) Score(ctx context.Context, eval []*models.Waveform) (*Result, error) {
	evalBatch, err := s.collector.Collect(ctx, eval)
	if err != nil {
		return nil, fmt.Errorf("failed to embed evaluation set: %w", err)
	}
	if len(evalBatch) == 0 {
		s.logger.Warn("evaluation set is empty")
		return &Result{Empty: true}, nil
	}

	bg, ok, err := s.BackgroundStats(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Warn("background set is empty")
		return &Result{Empty: true}, nil
	}

	evalStats, err := stats.Estimate(evalBatch)
	if err != nil {
		return nil, err
	}

	fad, err := stats.Distance(bg, evalStats, stats.DefaultEpsilon)
	if err != nil {
		return nil, err
	}
	if fad < 0 {
		fad = 0
	}

	s.logger.Info("computed FAD score",
		zap.Float64("fad", fad),
		zap.Int("eval_items", len(eval)),
		zap.Int("eval_rows", len(evalBatch)),
	)
	return &Result{FAD: fad, EvalItems: len(eval), EvalRows: len(evalBatch)}, nil
}

// BackgroundStats returns the background statistics, computing and
// persisting them on first use. ok=false reports an empty background
// set, which is never persisted.
func (s *Scorer) BackgroundStats(ctx context.Context) (*stats.Gaussian, bool, error) {
	return storage.GetOrCompute(ctx, s.store, s.cacheKey, func(ctx context.Context) (*stats.Gaussian, bool, error) {
		waveforms, err := s.background(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load background set: %w", err)
		}
		batch, err := s.collector.Collect(ctx, waveforms)
		if err != nil {
			return nil, false, fmt.Errorf("failed to embed background set: %w", err)
		}
		if len(batch) == 0 {
			return nil, false, nil
		}
		g, err := stats.Estimate(batch)
		if err != nil {
			return nil, false, err
		}
		s.logger.Info("computed background statistics",
			zap.Int("rows", len(batch)),
			zap.Int("dims", g.Dims()),
			zap.String("cache_key", s.cacheKey),
		)
		return g, true, nil
	})
}
