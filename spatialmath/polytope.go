package spatialmath

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Polytope is a convex set described by the halfspace intersection {x : A x <= b}.
// A Polytope is never modified after construction.
type Polytope struct {
	a *mat.Dense
	b []float64
}

// NewPolytope builds a polytope from the inequality system A x <= b. The arguments are copied.
func NewPolytope(a mat.Matrix, b []float64) (*Polytope, error) {
	rows, _ := a.Dims()
	if rows != len(b) {
		return nil, NewDimensionMismatchError(len(b), rows)
	}
	if rows == 0 {
		return nil, errors.New("a polytope needs at least one halfspace")
	}
	return &Polytope{a: mat.DenseCopyOf(a), b: append([]float64(nil), b...)}, nil
}

// MakeBox returns the axis aligned box lower <= x <= upper.
func MakeBox(lower, upper []float64) (*Polytope, error) {
	if len(lower) != len(upper) {
		return nil, NewDimensionMismatchError(len(upper), len(lower))
	}
	if len(lower) == 0 {
		return nil, NewEmptyPointSetError()
	}
	dim := len(lower)
	a := mat.NewDense(2*dim, dim, nil)
	b := make([]float64, 2*dim)
	for i := 0; i < dim; i++ {
		if lower[i] > upper[i] {
			return nil, errors.Errorf("box lower bound %f exceeds upper bound %f in dimension %d", lower[i], upper[i], i)
		}
		a.Set(i, i, 1)
		b[i] = upper[i]
		a.Set(dim+i, i, -1)
		b[dim+i] = -lower[i]
	}
	return &Polytope{a: a, b: b}, nil
}

// Dim returns the ambient dimension of the polytope.
func (p *Polytope) Dim() int {
	_, c := p.a.Dims()
	return c
}

// NumHalfspaces returns the number of rows of the inequality system.
func (p *Polytope) NumHalfspaces() int {
	return len(p.b)
}

// A returns a copy of the halfspace normals, one per row.
func (p *Polytope) A() *mat.Dense {
	return mat.DenseCopyOf(p.a)
}

// B returns a copy of the halfspace offsets.
func (p *Polytope) B() []float64 {
	return append([]float64(nil), p.b...)
}

// PointInSet reports whether x satisfies every inequality up to tol.
func (p *Polytope) PointInSet(x []float64, tol float64) bool {
	if len(x) != p.Dim() {
		return false
	}
	for i, bi := range p.b {
		if floats.Dot(p.a.RawRowView(i), x) > bi+tol {
			return false
		}
	}
	return true
}

// AddHalfspace returns a new polytope with the extra constraint a.x <= b.
func (p *Polytope) AddHalfspace(a []float64, b float64) (*Polytope, error) {
	if len(a) != p.Dim() {
		return nil, NewDimensionMismatchError(len(a), p.Dim())
	}
	rows := p.NumHalfspaces()
	next := mat.NewDense(rows+1, p.Dim(), nil)
	next.Slice(0, rows, 0, p.Dim()).(*mat.Dense).Copy(p.a)
	next.SetRow(rows, a)
	return &Polytope{a: next, b: append(p.B(), b)}, nil
}

// lineBounds returns the interval of t for which x + t*u stays inside the polytope.
func (p *Polytope) lineBounds(x, u []float64) (float64, float64) {
	const parallelTol = 1e-12
	tMin, tMax := math.Inf(-1), math.Inf(1)
	for i, bi := range p.b {
		row := p.a.RawRowView(i)
		slope := floats.Dot(row, u)
		slack := bi - floats.Dot(row, x)
		switch {
		case slope > parallelTol:
			tMax = math.Min(tMax, slack/slope)
		case slope < -parallelTol:
			tMin = math.Max(tMin, slack/slope)
		}
	}
	return tMin, tMax
}

// UniformSample draws a sample by running mixingSteps hit-and-run steps from previous, which must lie
// inside the polytope. Successive calls that feed the previous sample back in form a Markov chain whose
// stationary distribution is uniform over the polytope.
func (p *Polytope) UniformSample(rng *rand.Rand, previous []float64, mixingSteps int) ([]float64, error) {
	if len(previous) != p.Dim() {
		return nil, NewDimensionMismatchError(len(previous), p.Dim())
	}
	x := append([]float64(nil), previous...)
	u := make([]float64, len(x))
	for step := 0; step < max(1, mixingSteps); step++ {
		for i := range u {
			u[i] = rng.NormFloat64()
		}
		norm := floats.Norm(u, 2)
		if norm == 0 {
			continue
		}
		floats.Scale(1/norm, u)

		tMin, tMax := p.lineBounds(x, u)
		if math.IsInf(tMin, 0) || math.IsInf(tMax, 0) {
			return nil, NewUnboundedPolytopeError()
		}
		if tMin > tMax {
			return nil, errors.New("hit and run start point is outside the polytope")
		}
		floats.AddScaled(x, tMin+rng.Float64()*(tMax-tMin), u)
	}
	return x, nil
}

type polytopeJSON struct {
	A [][]float64 `json:"a"`
	B []float64   `json:"b"`
}

// MarshalJSON encodes the polytope as its halfspace coefficient rows and offsets.
func (p *Polytope) MarshalJSON() ([]byte, error) {
	rows := make([][]float64, p.NumHalfspaces())
	for i := range rows {
		rows[i] = mat.Row(nil, i, p.a)
	}
	return json.Marshal(polytopeJSON{A: rows, B: p.b})
}

// UnmarshalJSON decodes a polytope written by MarshalJSON.
func (p *Polytope) UnmarshalJSON(data []byte) error {
	var raw polytopeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.A) == 0 {
		return errors.New("a polytope needs at least one halfspace")
	}
	dim := len(raw.A[0])
	a := mat.NewDense(len(raw.A), dim, nil)
	for i, row := range raw.A {
		if len(row) != dim {
			return NewDimensionMismatchError(len(row), dim)
		}
		a.SetRow(i, row)
	}
	parsed, err := NewPolytope(a, raw.B)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

func (p *Polytope) String() string {
	return fmt.Sprintf("Polytope{dim: %d, halfspaces: %d}", p.Dim(), p.NumHalfspaces())
}
