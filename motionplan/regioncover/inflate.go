package regioncover

import (
	"context"
	"math/rand"

	"go.opencensus.io/trace"

	"go.viam.com/gburiris/cspace"
	"go.viam.com/gburiris/motionplan/iris"
	"go.viam.com/gburiris/spatialmath"
)

// GrowthPrimitive grows a maximal convex region around a seed ellipsoid. evalCtx is the oracle's
// evaluation context positioned at the seed center.
type GrowthPrimitive interface {
	Grow(
		ctx context.Context,
		oracle cspace.FeasibilityOracle,
		evalCtx *cspace.EvaluationContext,
		seed *spatialmath.Ellipsoid,
		iterations int,
	) (*spatialmath.Polytope, error)
}

// IrisPrimitive grows regions with IRIS inside a fixed domain, usually the joint limit box.
type IrisPrimitive struct {
	Domain  *spatialmath.Polytope
	Options iris.Options
	Rand    *rand.Rand
}

// Grow runs IRIS for at most iterations rounds.
func (p *IrisPrimitive) Grow(
	ctx context.Context,
	oracle cspace.FeasibilityOracle,
	evalCtx *cspace.EvaluationContext,
	seed *spatialmath.Ellipsoid,
	iterations int,
) (*spatialmath.Polytope, error) {
	opts := p.Options
	opts.IterationLimit = iterations
	return iris.InConfigurationSpace(ctx, oracle, evalCtx, p.Domain, seed, opts, p.Rand)
}

// NewIrisPrimitive returns an IRIS primitive bounded by the joint limits.
func NewIrisPrimitive(limits []cspace.Limit, opts iris.Options, rng *rand.Rand) (*IrisPrimitive, error) {
	domain, err := spatialmath.MakeBox(cspace.LimitsToBounds(limits))
	if err != nil {
		return nil, err
	}
	return &IrisPrimitive{Domain: domain, Options: opts, Rand: rng}, nil
}

// InflatePolytope centers the oracle on the ellipsoid center and grows a region from it. A seed closer
// than the primitive's margin to an obstacle yields an error of kind SeedMargin; every other error is
// returned unchanged.
func InflatePolytope(
	ctx context.Context,
	primitive GrowthPrimitive,
	oracle cspace.FeasibilityOracle,
	ellipsoid *spatialmath.Ellipsoid,
	iterations int,
) (*spatialmath.Polytope, error) {
	ctx, span := trace.StartSpan(ctx, "regioncover::InflatePolytope")
	defer span.End()

	evalCtx := oracle.CenterOn(ellipsoid.Center())
	return primitive.Grow(ctx, oracle, evalCtx, ellipsoid, iterations)
}
