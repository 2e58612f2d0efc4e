// Package iris grows large collision free convex regions in configuration space around a seed, in the
// manner of IRIS: sample the current region for collisions, find the collision boundary closest to the
// seed in the metric of a seed ellipsoid, and cut it off with a tangent hyperplane.
package iris

import (
	"context"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/gburiris/cspace"
	"go.viam.com/gburiris/spatialmath"
)

// boundaryPoint is an infeasible configuration just past the collision boundary together with its
// distance from the seed in the ellipsoid metric.
type boundaryPoint struct {
	q      cspace.Configuration
	metric float64
}

type inflater struct {
	oracle cspace.FeasibilityOracle
	seed   cspace.Configuration
	metric *spatialmath.Ellipsoid
	opts   Options
	rng    *rand.Rand
}

// InConfigurationSpace grows a convex region inside domain around the configuration the oracle was last
// centered on. The seed ellipsoid only supplies the metric used to pick separating hyperplanes; it is
// re-centered on the seed configuration. Growth stops when a round finds no infeasible sample or after
// opts.IterationLimit rounds. A SeedMarginError is returned when a hyperplane would pass within
// opts.ConfigurationSpaceMargin of the seed.
func InConfigurationSpace(
	ctx context.Context,
	oracle cspace.FeasibilityOracle,
	evalCtx *cspace.EvaluationContext,
	domain *spatialmath.Polytope,
	seed *spatialmath.Ellipsoid,
	opts Options,
	rng *rand.Rand,
) (*spatialmath.Polytope, error) {
	ctx, span := trace.StartSpan(ctx, "iris::InConfigurationSpace")
	defer span.End()

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if evalCtx == nil {
		return nil, errors.New("IRIS needs an evaluation context")
	}
	center := evalCtx.Configuration.Copy()
	if center.Dim() != domain.Dim() {
		return nil, cspace.NewIncorrectDoFError(center.Dim(), domain.Dim())
	}
	if seed.Dim() != domain.Dim() {
		return nil, spatialmath.NewDimensionMismatchError(seed.Dim(), domain.Dim())
	}
	if !domain.PointInSet(center, 0) {
		return nil, NewSeedOutsideDomainError()
	}
	if !oracle.IsFeasible(center) {
		return nil, NewInfeasibleSeedError()
	}
	metric, err := seed.Recentered(center)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		//nolint:gosec
		rng = rand.New(rand.NewSource(1))
	}
	inf := &inflater{oracle: oracle, seed: center, metric: metric, opts: opts, rng: rng}

	region := domain
	for iter := 0; iter < opts.IterationLimit; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		candidates, err := inf.collisionCandidates(region)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			break
		}
		if region, err = inf.separate(region, candidates); err != nil {
			return nil, err
		}
	}
	return region, nil
}

// collisionCandidates samples the region and returns the boundary points found between the seed and every
// infeasible sample, closest first.
func (inf *inflater) collisionCandidates(region *spatialmath.Polytope) ([]boundaryPoint, error) {
	var candidates []boundaryPoint
	x := []float64(inf.seed)
	for i := 0; i < inf.opts.NumCollisionSamples; i++ {
		next, err := region.UniformSample(inf.rng, x, inf.opts.MixingSteps)
		if err != nil {
			return nil, err
		}
		x = next
		if inf.oracle.IsFeasible(x) {
			continue
		}
		boundary := inf.bisect(inf.seed, x)
		dist, err := inf.metric.MetricDistance(boundary)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, boundaryPoint{q: boundary, metric: dist})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].metric < candidates[j].metric })
	return candidates, nil
}

// separate adds one hyperplane per candidate still inside the region, closest candidates first.
func (inf *inflater) separate(region *spatialmath.Polytope, candidates []boundaryPoint) (*spatialmath.Polytope, error) {
	for _, c := range candidates {
		if !region.PointInSet(c.q, 0) {
			continue
		}
		p, err := inf.refine(region, c)
		if err != nil {
			return nil, err
		}
		normal, err := inf.metric.Gradient(p.q)
		if err != nil {
			return nil, err
		}
		norm := floats.Norm(normal, 2)
		if norm == 0 {
			return nil, NewSeedMarginError(inf.seed)
		}
		floats.Scale(1/norm, normal)
		offset := floats.Dot(normal, p.q) - inf.opts.ConfigurationSpaceMargin
		if floats.Dot(normal, inf.seed) > offset {
			return nil, NewSeedMarginError(inf.seed)
		}
		if region, err = region.AddHalfspace(normal, offset); err != nil {
			return nil, err
		}
	}
	return region, nil
}

// bisect returns the infeasible end of the final bracket between a feasible and an infeasible point.
func (inf *inflater) bisect(feasible, infeasible []float64) cspace.Configuration {
	lo := cspace.Configuration(feasible).Copy()
	hi := cspace.Configuration(infeasible).Copy()
	for i := 0; i < inf.opts.BisectionSteps; i++ {
		mid := lo.Interpolate(hi, 0.5)
		if inf.oracle.IsFeasible(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}

// refine perturbs the direction of a boundary point in whitened coordinates, keeping moves that find the
// collision boundary closer to the seed while staying inside the region.
func (inf *inflater) refine(region *spatialmath.Polytope, start boundaryPoint) (boundaryPoint, error) {
	best := start
	w, err := inf.metric.ToUnitBall(best.q)
	if err != nil {
		return best, err
	}
	radius := floats.Norm(w, 2)
	if radius == 0 {
		return best, nil
	}
	dir := append([]float64(nil), w...)
	floats.Scale(1/radius, dir)

	step := 0.5
	proposal := make([]float64, len(dir))
	for i := 0; i < inf.opts.RefinementSteps; i++ {
		for j := range proposal {
			proposal[j] = dir[j] + step*inf.rng.NormFloat64()
		}
		norm := floats.Norm(proposal, 2)
		if norm == 0 {
			continue
		}
		floats.Scale(radius/norm, proposal)
		probe := inf.metric.FromUnitBall(proposal)
		if !region.PointInSet(probe, 0) || inf.oracle.IsFeasible(probe) {
			step /= 2
			continue
		}
		boundary := inf.bisect(inf.seed, probe)
		dist, err := inf.metric.MetricDistance(boundary)
		if err != nil {
			return best, err
		}
		if dist >= best.metric {
			step /= 2
			continue
		}
		best = boundaryPoint{q: boundary, metric: dist}
		radius = dist
		copy(dir, proposal)
		floats.Scale(1/floats.Norm(dir, 2), dir)
	}
	return best, nil
}
