// Package storage persists background Gaussian statistics across runs.
package storage

import (
	"context"
	"fmt"

	"github.com/hyperjump/kyori/internal/stats"
	"gonum.org/v1/gonum/mat"
)

// StatStore persists Gaussian statistics under opaque string keys. Both
// backends round-trip mean and covariance exactly (bit-identical
// float64s across save/load cycles).
type StatStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Load(ctx context.Context, key string) (*stats.Gaussian, error)
	Save(ctx context.Context, key string, g *stats.Gaussian) error
	Close() error
}

// ComputeFunc produces statistics when no cached copy exists. ok=false
// reports that the source set was empty and nothing could be computed;
// such outcomes are never persisted.
type ComputeFunc func(ctx context.Context) (g *stats.Gaussian, ok bool, err error)

// GetOrCompute returns the statistics stored under key, computing and
// persisting them on first use. compute is invoked at most once, and
// only when no cached copy exists. There is no locking across processes:
// concurrent writers to the same key race check-then-write and the last
// writer wins.
func GetOrCompute(ctx context.Context, store StatStore, key string, compute ComputeFunc) (*stats.Gaussian, bool, error) {
	exists, err := store.Exists(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if exists {
		g, err := store.Load(ctx, key)
		if err != nil {
			return nil, false, err
		}
		return g, true, nil
	}

	g, ok, err := compute(ctx)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	if err := store.Save(ctx, key, g); err != nil {
		return nil, false, fmt.Errorf("failed to persist statistics: %w", err)
	}
	return g, true, nil
}

// record is the serialized form shared by the disk and SQLite backends.
type record struct {
	Dim  int
	Mean []float64
	Cov  []float64 // row-major Dim×Dim
}

func toRecord(g *stats.Gaussian) record {
	d := g.Dims()
	cov := make([]float64, 0, d*d)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			cov = append(cov, g.Cov.At(i, j))
		}
	}
	return record{Dim: d, Mean: append([]float64(nil), g.Mean...), Cov: cov}
}

func (r record) gaussian() (*stats.Gaussian, error) {
	if len(r.Mean) != r.Dim || len(r.Cov) != r.Dim*r.Dim {
		return nil, fmt.Errorf("corrupt statistics record: dim %d, mean %d, cov %d", r.Dim, len(r.Mean), len(r.Cov))
	}
	return &stats.Gaussian{Mean: r.Mean, Cov: mat.NewSymDense(r.Dim, r.Cov)}, nil
}
