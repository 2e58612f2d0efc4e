package regioncover

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/gburiris/cspace"
	"go.viam.com/gburiris/spatialmath"
)

const (
	// Singular values of a seed ellipsoid's shape matrix are raised to at least this.
	singularValueFloor = 1e-3

	// Shape matrices with a smaller absolute determinant are rejected as degenerate.
	detTol = 1e-9

	// Points closer than this to the first point are treated as coincident.
	coincidenceTol = 1e-12
)

// MinVolumeEllipsoid returns the minimum volume ellipsoid around points, regularized so that every
// singular value of its shape matrix is at least singularValueFloor, and centered on a feasible
// configuration. If the ellipsoid center is infeasible the ellipsoid is moved to the feasible input point
// closest to it, earlier points winning ties.
//
// A DegeneratePointSetError is returned when the points coincide or the regularized shape matrix still
// has an absolute determinant below detTol. A NoFeasibleCenterError is returned when no candidate
// center is feasible.
func MinVolumeEllipsoid(oracle cspace.FeasibilityOracle, points []cspace.Configuration) (*spatialmath.Ellipsoid, error) {
	if len(points) < 2 {
		return nil, NewTooFewPointsError(len(points))
	}
	dim := points[0].Dim()
	coincident := true
	for _, p := range points {
		if p.Dim() != dim {
			return nil, cspace.NewIncorrectDoFError(p.Dim(), dim)
		}
		if p.Distance(points[0]) > coincidenceTol {
			coincident = false
		}
	}
	if coincident {
		return nil, NewDegeneratePointSetError(0)
	}

	fitted, err := spatialmath.MinimumVolumeCircumscribedEllipsoid(cspace.ConfigurationsToFloats(points))
	if err != nil {
		return nil, err
	}
	shape, err := floorSingularValues(fitted.B(), singularValueFloor)
	if err != nil {
		return nil, err
	}
	if det := mat.Det(shape); math.Abs(det) < detTol {
		return nil, NewDegeneratePointSetError(det)
	}

	center := cspace.Configuration(fitted.Center())
	if !oracle.IsFeasible(center) {
		closest := -1
		minDist := math.Inf(1)
		for i, p := range points {
			if d := floats.Distance(p, center, 2); d < minDist && oracle.IsFeasible(p) {
				closest, minDist = i, d
			}
		}
		if closest < 0 {
			return nil, NewNoFeasibleCenterError()
		}
		center = points[closest]
	}
	return spatialmath.NewEllipsoid(shape, center)
}

// floorSingularValues rebuilds m = U S V^T with every singular value raised to at least floor.
func floorSingularValues(m *mat.Dense, floor float64) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDFull); !ok {
		return nil, errors.New("failed to factorize ellipsoid shape matrix")
	}
	values := svd.Values(nil)
	for i, v := range values {
		values[i] = math.Max(v, floor)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	var us, out mat.Dense
	us.Mul(&u, mat.NewDiagDense(len(values), values))
	out.Mul(&us, v.T())
	return &out, nil
}
