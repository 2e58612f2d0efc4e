package spatialmath

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"go.viam.com/gburiris/utils"
)

// RandomRotationMatrix returns an n x n rotation matrix drawn uniformly from SO(n). It takes the QR
// decomposition of a matrix of standard normal samples, fixes the signs so that R has a positive
// diagonal, and flips one column if needed so the determinant is +1.
func RandomRotationMatrix(n int, rng *rand.Rand) *mat.Dense {
	gaussian := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			gaussian.Set(i, j, rng.NormFloat64())
		}
	}
	var qr mat.QR
	qr.Factorize(gaussian)
	var q, r mat.Dense
	qr.QTo(&q)
	qr.RTo(&r)
	for j := 0; j < n; j++ {
		if r.At(j, j) < 0 {
			for i := 0; i < n; i++ {
				q.Set(i, j, -q.At(i, j))
			}
		}
	}
	if mat.Det(&q) < 0 {
		for i := 0; i < n; i++ {
			q.Set(i, 0, -q.At(i, 0))
		}
	}
	return &q
}

// IsRotationMatrix reports whether m is square, orthogonal and has determinant +1, up to tol.
func IsRotationMatrix(m mat.Matrix, tol float64) bool {
	r, c := m.Dims()
	if r != c {
		return false
	}
	var prod mat.Dense
	prod.Mul(m.T(), m)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			want := 0.
			if i == j {
				want = 1
			}
			if !utils.Float64AlmostEqual(prod.At(i, j), want, tol) {
				return false
			}
		}
	}
	return utils.Float64AlmostEqual(mat.Det(m), 1, tol)
}
