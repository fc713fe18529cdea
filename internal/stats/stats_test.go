package stats

import (
	"errors"
	"math"
	"testing"
)

func TestEstimate(t *testing.T) {
	g, err := Estimate([][]float64{{0, 0}, {2, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if g.Dims() != 2 {
		t.Fatalf("dims: got %d, want 2", g.Dims())
	}
	if g.Mean[0] != 1 || g.Mean[1] != 0 {
		t.Errorf("mean: got %v, want [1 0]", g.Mean)
	}
	// Unbiased sample covariance of {0,2} is 2; the second axis has no
	// variance.
	want := [2][2]float64{{2, 0}, {0, 0}}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if got := g.Cov.At(i, j); got != want[i][j] {
				t.Errorf("cov[%d][%d]: got %v, want %v", i, j, got, want[i][j])
			}
		}
	}
}

func TestEstimate_orderInvariant(t *testing.T) {
	a, err := Estimate([][]float64{{1, 2}, {3, 1}, {-1, 0.5}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Estimate([][]float64{{-1, 0.5}, {1, 2}, {3, 1}})
	if err != nil {
		t.Fatal(err)
	}
	const tol = 1e-12
	for i := range a.Mean {
		if math.Abs(a.Mean[i]-b.Mean[i]) > tol {
			t.Errorf("mean[%d]: %v vs %v", i, a.Mean[i], b.Mean[i])
		}
	}
	for i := 0; i < a.Cov.SymmetricDim(); i++ {
		for j := 0; j < a.Cov.SymmetricDim(); j++ {
			if math.Abs(a.Cov.At(i, j)-b.Cov.At(i, j)) > tol {
				t.Errorf("cov[%d][%d]: %v vs %v", i, j, a.Cov.At(i, j), b.Cov.At(i, j))
			}
		}
	}
}

func TestEstimate_emptyBatch(t *testing.T) {
	if _, err := Estimate(nil); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("got %v, want ErrEmptyBatch", err)
	}
}

func TestEstimate_raggedBatch(t *testing.T) {
	if _, err := Estimate([][]float64{{1, 2}, {3}}); err == nil {
		t.Error("ragged batch should be rejected")
	}
}

func TestEstimate_singleObservation(t *testing.T) {
	// The unbiased estimator divides by N-1, so one observation yields
	// NaN covariance entries. The mean is still well defined.
	g, err := Estimate([][]float64{{1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if g.Mean[0] != 1 || g.Mean[1] != 2 {
		t.Errorf("mean: got %v, want [1 2]", g.Mean)
	}
	if !math.IsNaN(g.Cov.At(0, 0)) {
		t.Errorf("cov[0][0]: got %v, want NaN", g.Cov.At(0, 0))
	}
}
