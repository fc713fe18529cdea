// Package stats estimates Gaussian statistics over embedding batches and
// computes the Fréchet distance between them.
package stats

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyBatch is returned by Estimate for a batch with no rows; the
// mean and covariance of nothing are undefined. Callers are expected to
// detect empty sets before estimating.
var ErrEmptyBatch = errors.New("cannot estimate statistics of an empty batch")

// Gaussian summarizes an embedding batch under a multivariate-normal
// assumption: a mean vector of length D and a D×D symmetric covariance.
type Gaussian struct {
	Mean []float64
	Cov  *mat.SymDense
}

// Dims returns the embedding dimension D.
func (g *Gaussian) Dims() int {
	return len(g.Mean)
}

// Estimate reduces a batch (rows = observations, columns = embedding
// dimensions) to its componentwise mean and unbiased sample covariance.
// The batch must be rectangular; ragged rows are rejected rather than
// coerced. With a single observation the unbiased estimator divides by
// zero and the covariance entries are NaN; that is a degenerate boundary
// the distance calculator has to tolerate, not an error.
func Estimate(batch [][]float64) (*Gaussian, error) {
	n := len(batch)
	if n == 0 {
		return nil, ErrEmptyBatch
	}
	d := len(batch[0])
	if d == 0 {
		return nil, errors.New("cannot estimate statistics of zero-dimension embeddings")
	}
	data := make([]float64, 0, n*d)
	for i, row := range batch {
		if len(row) != d {
			return nil, fmt.Errorf("ragged batch: row %d has %d dims, want %d", i, len(row), d)
		}
		data = append(data, row...)
	}
	x := mat.NewDense(n, d, data)

	mean := make([]float64, d)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, x)
		mean[j] = stat.Mean(col, nil)
	}

	cov := mat.NewSymDense(d, nil)
	stat.CovarianceMatrix(cov, x, nil)

	return &Gaussian{Mean: mean, Cov: cov}, nil
}
