package stats

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// sqrtm computes the principal square root of a general real matrix via
// eigendecomposition: A = V·diag(λ)·V⁻¹ gives √A = V·diag(√λ)·V⁻¹. The
// result is complex whenever A has eigenvalues off the positive real
// axis, which happens for near-singular covariance products. Returns
// ok=false when the eigendecomposition fails or V is singular (a
// defective matrix that this method cannot handle).
func sqrtm(a *mat.Dense) (*mat.CDense, bool) {
	n, _ := a.Dims()

	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenRight); !ok {
		return nil, false
	}
	values := eig.Values(nil)
	vectors := mat.NewCDense(n, n, nil)
	eig.VectorsTo(vectors)

	// vt is Vᵀ and wt is (V·diag(√λ))ᵀ. Since √A·V = V·diag(√λ),
	// solving Vᵀ·X = Wᵀ yields X = (√A)ᵀ.
	vt := make([][]complex128, n)
	wt := make([][]complex128, n)
	for i := 0; i < n; i++ {
		vt[i] = make([]complex128, n)
		wt[i] = make([]complex128, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := vectors.At(i, j)
			vt[j][i] = v
			wt[j][i] = v * cmplx.Sqrt(values[j])
		}
	}

	x, ok := solveComplex(vt, wt)
	if !ok {
		return nil, false
	}

	out := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, x[j][i])
		}
	}
	return out, true
}

// solveComplex solves A·X = B by Gaussian elimination with partial
// pivoting, overwriting a and b. Returns ok=false on a zero pivot.
func solveComplex(a, b [][]complex128) ([][]complex128, bool) {
	n := len(a)
	for k := 0; k < n; k++ {
		p := k
		for i := k + 1; i < n; i++ {
			if cmplx.Abs(a[i][k]) > cmplx.Abs(a[p][k]) {
				p = i
			}
		}
		if cmplx.Abs(a[p][k]) == 0 {
			return nil, false
		}
		a[k], a[p] = a[p], a[k]
		b[k], b[p] = b[p], b[k]
		for i := k + 1; i < n; i++ {
			f := a[i][k] / a[k][k]
			if f == 0 {
				continue
			}
			for j := k; j < n; j++ {
				a[i][j] -= f * a[k][j]
			}
			for j := 0; j < n; j++ {
				b[i][j] -= f * b[k][j]
			}
		}
	}

	x := make([][]complex128, n)
	for i := range x {
		x[i] = make([]complex128, n)
	}
	for i := n - 1; i >= 0; i-- {
		for j := 0; j < n; j++ {
			s := b[i][j]
			for k := i + 1; k < n; k++ {
				s -= a[i][k] * x[k][j]
			}
			x[i][j] = s / a[i][i]
		}
	}
	return x, true
}

// isFinite reports whether every entry of c has finite real and
// imaginary parts.
func isFinite(c *mat.CDense) bool {
	r, n := c.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < n; j++ {
			v := c.At(i, j)
			if math.IsInf(real(v), 0) || math.IsNaN(real(v)) ||
				math.IsInf(imag(v), 0) || math.IsNaN(imag(v)) {
				return false
			}
		}
	}
	return true
}
