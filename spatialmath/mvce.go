package spatialmath

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// Khachiyan iterations stop once the weight vector moves less than this.
	defaultKhachiyanTol = 1e-7

	defaultKhachiyanMaxIter = 20000

	// Singular values of the centered point cloud below this are treated as zero width.
	defaultAffineRankTol = 1e-9
)

// MinimumVolumeCircumscribedEllipsoid returns the minimum volume ellipsoid containing every point.
// The points are first projected onto their affine hull; directions outside of it get zero width, so
// the returned shape matrix is singular for degenerate point sets. Callers that need an invertible
// shape matrix must regularize it.
func MinimumVolumeCircumscribedEllipsoid(points [][]float64) (*Ellipsoid, error) {
	if len(points) == 0 {
		return nil, NewEmptyPointSetError()
	}
	dim := len(points[0])
	if dim == 0 {
		return nil, errors.New("points must have at least one coordinate")
	}
	mean := make([]float64, dim)
	for _, p := range points {
		if len(p) != dim {
			return nil, NewDimensionMismatchError(len(p), dim)
		}
		floats.Add(mean, p)
	}
	floats.Scale(1/float64(len(points)), mean)

	centered := mat.NewDense(dim, len(points), nil)
	for j, p := range points {
		for i := range p {
			centered.Set(i, j, p[i]-mean[i])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, errors.New("failed to factorize point cloud")
	}
	values := svd.Values(nil)
	rank := 0
	for _, v := range values {
		if v > defaultAffineRankTol {
			rank++
		}
	}
	if rank == 0 {
		return NewEllipsoid(mat.NewDense(dim, dim, nil), mean)
	}

	var u mat.Dense
	svd.UTo(&u)
	basis := u.Slice(0, dim, 0, rank)

	var projected mat.Dense
	projected.Mul(basis.T(), centered)

	subCenter, subShape, err := khachiyan(&projected, defaultKhachiyanTol, defaultKhachiyanMaxIter)
	if err != nil {
		return nil, err
	}

	var liftedCenter mat.VecDense
	liftedCenter.MulVec(basis, subCenter)
	center := liftedCenter.RawVector().Data
	floats.Add(center, mean)

	var tmp, shape mat.Dense
	tmp.Mul(basis, subShape)
	shape.Mul(&tmp, basis.T())
	return NewEllipsoid(&shape, center)
}

// khachiyan runs Khachiyan's barycentric coordinate ascent on the columns of points, which must be
// affinely independent (full row rank after centering). It returns the center and the symmetric
// shape matrix of the enclosing ellipsoid.
func khachiyan(points *mat.Dense, tol float64, maxIter int) (*mat.VecDense, *mat.Dense, error) {
	dim, n := points.Dims()
	lifted := mat.NewDense(dim+1, n, nil)
	lifted.Slice(0, dim, 0, n).(*mat.Dense).Copy(points)
	for j := 0; j < n; j++ {
		lifted.Set(dim, j, 1)
	}

	weights := make([]float64, n)
	for j := range weights {
		weights[j] = 1 / float64(n)
	}
	next := make([]float64, n)

	var scaled, x, xInv mat.Dense
	for iter := 0; iter < maxIter; iter++ {
		scaled.Apply(func(_, j int, v float64) float64 { return v * weights[j] }, lifted)
		x.Mul(&scaled, lifted.T())
		if err := xInv.Inverse(&x); err != nil {
			if _, ok := err.(mat.Condition); !ok {
				return nil, nil, errors.Wrap(err, "points are affinely dependent")
			}
		}

		best, bestIdx := math.Inf(-1), 0
		for j := 0; j < n; j++ {
			col := lifted.ColView(j)
			if m := mat.Inner(col, &xInv, col); m > best {
				best, bestIdx = m, j
			}
		}
		step := (best - float64(dim) - 1) / (float64(dim+1) * (best - 1))
		for j := range next {
			next[j] = (1 - step) * weights[j]
		}
		next[bestIdx] += step

		change := floats.Distance(next, weights, 2)
		copy(weights, next)
		if change < tol {
			break
		}
	}

	center := mat.NewVecDense(dim, nil)
	center.MulVec(points, mat.NewVecDense(n, weights))

	// scatter = P diag(u) P^T - c c^T; the ellipsoid is (x-c)^T (dim*scatter)^-1 (x-c) <= 1.
	var weighted, scatter mat.Dense
	weighted.Apply(func(_, j int, v float64) float64 { return v * weights[j] }, points)
	scatter.Mul(&weighted, points.T())
	var outer mat.Dense
	outer.Outer(1, center, center)
	scatter.Sub(&scatter, &outer)

	sym := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			sym.SetSym(i, j, float64(dim)*0.5*(scatter.At(i, j)+scatter.At(j, i)))
		}
	}
	// The iteration stops before exact convergence, so inflate the ellipsoid until every point is inside.
	var symInv mat.Dense
	if err := symInv.Inverse(sym); err == nil {
		worst := 1.
		diff := mat.NewVecDense(dim, nil)
		for j := 0; j < n; j++ {
			diff.SubVec(points.ColView(j), center)
			worst = math.Max(worst, mat.Inner(diff, &symInv, diff))
		}
		sym.ScaleSym(worst, sym)
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return nil, nil, errors.New("failed to factorize ellipsoid scatter matrix")
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	root := mat.NewDiagDense(dim, nil)
	for i, v := range vals {
		root.SetDiag(i, math.Sqrt(math.Max(v, 0)))
	}
	var tmp, shape mat.Dense
	tmp.Mul(&vecs, root)
	shape.Mul(&tmp, vecs.T())
	return center, &shape, nil
}
