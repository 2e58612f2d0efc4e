package spatialmath

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Ellipsoid is the image of the unit ball under x -> B u + center.
type Ellipsoid struct {
	center []float64
	b      *mat.Dense
}

// NewEllipsoid returns the ellipsoid with shape matrix b and the given center. The arguments are copied.
func NewEllipsoid(b mat.Matrix, center []float64) (*Ellipsoid, error) {
	r, c := b.Dims()
	if r != c {
		return nil, errors.Errorf("ellipsoid shape matrix must be square, got %dx%d", r, c)
	}
	if r != len(center) {
		return nil, NewDimensionMismatchError(len(center), r)
	}
	return &Ellipsoid{center: append([]float64(nil), center...), b: mat.DenseCopyOf(b)}, nil
}

// Dim returns the ambient dimension of the ellipsoid.
func (e *Ellipsoid) Dim() int {
	return len(e.center)
}

// Center returns a copy of the center.
func (e *Ellipsoid) Center() []float64 {
	return append([]float64(nil), e.center...)
}

// B returns a copy of the shape matrix.
func (e *Ellipsoid) B() *mat.Dense {
	return mat.DenseCopyOf(e.b)
}

// Recentered returns an ellipsoid with the same shape matrix at a new center.
func (e *Ellipsoid) Recentered(center []float64) (*Ellipsoid, error) {
	return NewEllipsoid(e.b, center)
}

// Det returns the determinant of the shape matrix.
func (e *Ellipsoid) Det() float64 {
	return mat.Det(e.b)
}

// SingularValues returns the singular values of the shape matrix in decreasing order.
func (e *Ellipsoid) SingularValues() ([]float64, error) {
	var svd mat.SVD
	if ok := svd.Factorize(e.b, mat.SVDNone); !ok {
		return nil, errors.New("failed to factorize ellipsoid shape matrix")
	}
	return svd.Values(nil), nil
}

// ToUnitBall maps x into the coordinates of the unit ball, B^-1 (x - center).
func (e *Ellipsoid) ToUnitBall(x []float64) ([]float64, error) {
	if len(x) != e.Dim() {
		return nil, NewDimensionMismatchError(len(x), e.Dim())
	}
	diff := make([]float64, len(x))
	floats.SubTo(diff, x, e.center)
	var y mat.VecDense
	if err := y.SolveVec(e.b, mat.NewVecDense(len(diff), diff)); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return nil, errors.Wrap(err, "ellipsoid shape matrix is singular")
		}
	}
	return y.RawVector().Data, nil
}

// FromUnitBall maps a point of the unit ball coordinates back into the ambient space, B w + center.
func (e *Ellipsoid) FromUnitBall(w []float64) []float64 {
	var x mat.VecDense
	x.MulVec(e.b, mat.NewVecDense(len(w), append([]float64(nil), w...)))
	out := x.RawVector().Data
	floats.Add(out, e.center)
	return out
}

// MetricDistance returns ||B^-1 (x - center)||; points with a value <= 1 are inside the ellipsoid.
func (e *Ellipsoid) MetricDistance(x []float64) (float64, error) {
	y, err := e.ToUnitBall(x)
	if err != nil {
		return 0, err
	}
	return floats.Norm(y, 2), nil
}

// PointInSet reports whether x lies in the ellipsoid up to tol.
func (e *Ellipsoid) PointInSet(x []float64, tol float64) bool {
	dist, err := e.MetricDistance(x)
	if err != nil {
		return false
	}
	return dist <= 1+tol
}

// Gradient returns (B B^T)^-1 (x - center), the outward normal of the level set through x.
func (e *Ellipsoid) Gradient(x []float64) ([]float64, error) {
	y, err := e.ToUnitBall(x)
	if err != nil {
		return nil, err
	}
	var g mat.VecDense
	if err := g.SolveVec(e.b.T(), mat.NewVecDense(len(y), y)); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return nil, errors.Wrap(err, "ellipsoid shape matrix is singular")
		}
	}
	return g.RawVector().Data, nil
}

func (e *Ellipsoid) String() string {
	return fmt.Sprintf("Ellipsoid{center: %v, det: %g}", e.center, e.Det())
}
