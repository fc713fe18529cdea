package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultEpsilon is the diagonal offset applied to both covariances when
// the square root of their product comes back non-finite.
const DefaultEpsilon = 1e-6

// imagTolerance is the absolute tolerance allowed on the imaginary part
// of the square root's diagonal before the result is rejected.
const imagTolerance = 1e-3

// ShapeError reports statistics whose shapes disagree and cannot be
// compared.
type ShapeError struct {
	Dims1, Dims2 int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("statistics shapes disagree: %d vs %d dimensions", e.Dims1, e.Dims2)
}

// NumericalError reports a covariance-product square root that stayed
// numerically unusable after singularity recovery. MaxImag is the largest
// absolute imaginary magnitude observed, or +Inf when no square root
// could be computed at all.
type NumericalError struct {
	MaxImag float64
}

func (e *NumericalError) Error() string {
	if math.IsInf(e.MaxImag, 1) {
		return "covariance product square root did not converge"
	}
	return fmt.Sprintf("covariance product square root has imaginary component %g", e.MaxImag)
}

// Distance computes the closed-form Fréchet distance between two
// multivariate Gaussians:
//
//	d² = ||mu1 - mu2||² + tr(sigma1 + sigma2 - 2·sqrtm(sigma1·sigma2))
//
// A non-finite square root of the covariance product is retried once
// with epsilon added to both covariance diagonals; the retried result is
// accepted as-is. A small imaginary residue from floating-point error is
// discarded when its diagonal stays within tolerance, otherwise a
// NumericalError is returned. Pass epsilon <= 0 for DefaultEpsilon.
//
// Floating-point error can make the result slightly negative for
// near-identical distributions; callers wanting a strict distance should
// clamp at zero.
func Distance(g1, g2 *Gaussian, epsilon float64) (float64, error) {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	d := g1.Dims()
	if g2.Dims() != d {
		return 0, &ShapeError{Dims1: d, Dims2: g2.Dims()}
	}
	if g1.Cov.SymmetricDim() != g2.Cov.SymmetricDim() {
		return 0, &ShapeError{Dims1: g1.Cov.SymmetricDim(), Dims2: g2.Cov.SymmetricDim()}
	}

	var product mat.Dense
	product.Mul(g1.Cov, g2.Cov)

	covmean, ok := sqrtm(&product)
	if !ok || !isFinite(covmean) {
		// Near-singular product: offset both covariances and retry once.
		n := g1.Cov.SymmetricDim()
		sigma1 := mat.DenseCopyOf(g1.Cov)
		sigma2 := mat.DenseCopyOf(g2.Cov)
		for i := 0; i < n; i++ {
			sigma1.Set(i, i, sigma1.At(i, i)+epsilon)
			sigma2.Set(i, i, sigma2.At(i, i)+epsilon)
		}
		product.Mul(sigma1, sigma2)
		covmean, ok = sqrtm(&product)
		if !ok {
			return 0, &NumericalError{MaxImag: math.Inf(1)}
		}
	}

	// Floating-point error can leave a small imaginary residue on the
	// square root of a real product.
	maxImag := 0.0
	rows, cols := covmean.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if im := math.Abs(imag(covmean.At(i, j))); im > maxImag {
				maxImag = im
			}
		}
	}
	if maxImag > 0 {
		for i := 0; i < rows; i++ {
			if math.Abs(imag(covmean.At(i, i))) > imagTolerance {
				return 0, &NumericalError{MaxImag: maxImag}
			}
		}
	}

	var diffSq float64
	for i := range g1.Mean {
		dm := g1.Mean[i] - g2.Mean[i]
		diffSq += dm * dm
	}
	var trCovmean float64
	for i := 0; i < rows; i++ {
		trCovmean += real(covmean.At(i, i))
	}

	return diffSq + mat.Trace(g1.Cov) + mat.Trace(g2.Cov) - 2*trCovmean, nil
}
