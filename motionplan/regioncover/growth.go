// Package regioncover covers the free configuration space of a robot with convex regions. Each region is
// seeded from a generalized bur around a random free configuration: the minimum volume ellipsoid around
// the bur's outer layer is inflated into a maximal convex polytope. Growth stops once a Monte-Carlo
// estimate of the covered fraction of free space reaches a target, or after a fixed number of regions.
package regioncover

import (
	"context"
	"math/rand"
	"slices"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"go.viam.com/gburiris/cspace"
	"go.viam.com/gburiris/logging"
	"go.viam.com/gburiris/motionplan/gbur"
	"go.viam.com/gburiris/robots"
	"go.viam.com/gburiris/spatialmath"
)

// Bur is the local neighborhood a region is seeded from.
type Bur interface {
	Center() cspace.Configuration
	MinDistanceToCollision() float64
	// Calculate returns the spine endpoints and the configurations reached along every spine, nearest
	// first.
	Calculate() ([]cspace.Configuration, [][]cspace.Configuration, error)
}

// BurBuilder builds the bur around a center.
type BurBuilder func(center cspace.Configuration, cfg gbur.Config, robot robots.Robot, scheme gbur.DirectionScheme) (Bur, error)

func newGeneralizedBur(center cspace.Configuration, cfg gbur.Config, robot robots.Robot, scheme gbur.DirectionScheme) (Bur, error) {
	bur, err := gbur.New(center, cfg, robot, scheme)
	if err != nil {
		return nil, err
	}
	return bur, nil
}

// Request describes one region growth run.
type Request struct {
	Robot  robots.Robot
	Config *Config

	// Sampler draws the configurations used for coverage estimates and bur centers. It must yield
	// feasible configurations with non-negligible probability.
	Sampler cspace.Sampler

	// DirectionScheme selects how bur spines are aimed. When nil, every spine is aimed at a draw of Sampler.
	DirectionScheme gbur.DirectionScheme

	// Optional overrides. BurBuilder defaults to a generalized bur and Primitive to IRIS inside the joint
	// limits. SamplerFactory enables parallel coverage estimates when Config.CoverageWorkers > 1 and the
	// robot implements cspace.Cloner.
	BurBuilder     BurBuilder
	Primitive      GrowthPrimitive
	SamplerFactory SamplerFactory
}

// Stats counts what happened during a run.
type Stats struct {
	Rounds            int `json:"rounds"`
	ClearanceRetries  int `json:"clearance_retries"`
	DegenerateRetries int `json:"degenerate_retries"`
	SeedMarginRetries int `json:"seed_margin_retries"`
	CoverageChecks    int `json:"coverage_checks"`
}

// Result is the outcome of a run. Burs holds every bur whose outer layer was computed, including those
// whose seed ellipsoid turned out degenerate; burs whose region was rejected for a seed margin violation
// are removed.
type Result struct {
	Regions  []*spatialmath.Polytope `json:"regions"`
	Coverage float64                 `json:"coverage"`
	Burs     []Bur                   `json:"-"`
	Stats    Stats                   `json:"stats"`
}

type regionGrower struct {
	logger    logging.Logger
	cfg       *Config
	robot     robots.Robot
	sampler   cspace.Sampler
	scheme    gbur.DirectionScheme
	buildBur  BurBuilder
	primitive GrowthPrimitive
	coverage  func(ctx context.Context, regions []*spatialmath.Polytope) (float64, error)

	result *Result
}

// GrowRegions grows convex regions until the estimated coverage of free space reaches Config.Coverage or
// Config.NumOfIter regions have been accepted. A round that fails because the bur center is too close to
// an obstacle, or because the bur's outer layer is degenerate, is retried without consuming a round; so
// is a round whose seed is rejected for its margin when Config.IgnoreSeedMarginError is set. Any other
// failure ends the run.
//
// Retries are not capped. The returned coverage is the last estimate made, taken before the last region
// was added when the run ends on the round budget.
func GrowRegions(ctx context.Context, logger logging.Logger, req *Request) (*Result, error) {
	ctx, span := trace.StartSpan(ctx, "regioncover::GrowRegions")
	defer span.End()

	g, err := newRegionGrower(logger, req)
	if err != nil {
		return nil, err
	}
	g.cfg.logFields(logger)

	for round := 0; round < g.cfg.NumOfIter; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		coverage, err := g.coverage(ctx, g.result.Regions)
		if err != nil {
			return nil, err
		}
		g.result.Coverage = coverage
		g.result.Stats.CoverageChecks++
		logger.Debugw("coverage estimated", "round", round, "coverage", coverage, "regions", len(g.result.Regions))
		if coverage >= g.cfg.Coverage {
			logger.Infof("reached coverage %.3f with %d regions", coverage, len(g.result.Regions))
			break
		}

		region, err := g.attempt(ctx, round)
		if err != nil {
			return nil, err
		}
		if region == nil {
			continue
		}
		g.result.Regions = append(g.result.Regions, region)
		round++
		g.result.Stats.Rounds = round
	}
	return g.result, nil
}

func newRegionGrower(logger logging.Logger, req *Request) (*regionGrower, error) {
	if req == nil || req.Robot == nil {
		return nil, errors.New("region growth needs a robot")
	}
	if req.Sampler == nil {
		return nil, errors.New("region growth needs a sampler")
	}
	cfg := req.Config
	if cfg == nil {
		cfg = NewBasicConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &regionGrower{
		logger:    logger,
		cfg:       cfg,
		robot:     req.Robot,
		sampler:   req.Sampler,
		scheme:    req.DirectionScheme,
		buildBur:  req.BurBuilder,
		primitive: req.Primitive,
		result:    &Result{},
	}
	if g.scheme == nil {
		g.scheme = gbur.PerSpineRandom{Sampler: req.Sampler}
	}
	if g.buildBur == nil {
		g.buildBur = newGeneralizedBur
	}
	if g.primitive == nil {
		//nolint:gosec
		rng := rand.New(rand.NewSource(int64(cfg.RandomSeed)))
		primitive, err := NewIrisPrimitive(req.Robot.DoF(), cfg.IrisOptions(), rng)
		if err != nil {
			return nil, err
		}
		g.primitive = primitive
	}

	cloner, cloneable := req.Robot.(cspace.Cloner)
	if cfg.CoverageWorkers > 1 && cloneable && req.SamplerFactory != nil {
		g.coverage = func(ctx context.Context, regions []*spatialmath.Polytope) (float64, error) {
			return CheckCoverageParallel(ctx, cloner, regions, cfg.NumPointsCoverageCheck, cfg.CoverageWorkers, req.SamplerFactory)
		}
	} else {
		if cfg.CoverageWorkers > 1 {
			logger.Warnw("estimating coverage serially", "coverage_workers", cfg.CoverageWorkers,
				"cloneable", cloneable, "has_sampler_factory", req.SamplerFactory != nil)
		}
		g.coverage = func(ctx context.Context, regions []*spatialmath.Polytope) (float64, error) {
			return CheckCoverage(ctx, g.robot, regions, cfg.NumPointsCoverageCheck, g.sampler)
		}
	}
	return g, nil
}

// attempt runs one attempt at the given round. It returns a nil region when the attempt should be
// retried at the same round.
func (g *regionGrower) attempt(ctx context.Context, round int) (*spatialmath.Polytope, error) {
	ctx, span := trace.StartSpan(ctx, "regioncover::attempt")
	defer span.End()

	center, err := g.selectCenter(ctx)
	if err != nil {
		return nil, err
	}
	g.logger.CDebugf(ctx, "round %d: growing bur around %v", round, center)

	bur, err := g.buildBur(center, g.cfg.BurConfig(), g.robot, g.scheme)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build bur")
	}
	if dist := bur.MinDistanceToCollision(); dist < g.cfg.MinDistanceTol {
		g.result.Stats.ClearanceRetries++
		g.logger.Debugw("bur center too close to an obstacle, retrying", "round", round, "distance", dist)
		return nil, nil
	}
	_, spines, err := bur.Calculate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to calculate bur")
	}
	burIdx := len(g.result.Burs)
	g.result.Burs = append(g.result.Burs, bur)

	ellipsoid, err := MinVolumeEllipsoid(g.robot, gbur.OuterLayer(spines))
	if err != nil {
		if KindOf(err) == DegeneratePointSet {
			g.result.Stats.DegenerateRetries++
			g.logger.Infow("bur outer layer is degenerate, retrying", "round", round, "error", err)
			return nil, nil
		}
		return nil, err
	}

	region, err := InflatePolytope(ctx, g.primitive, g.robot, ellipsoid, g.cfg.NumOfIrisIterations)
	if err != nil {
		if KindOf(err) == SeedMargin && g.cfg.IgnoreSeedMarginError {
			g.result.Burs = slices.Delete(g.result.Burs, burIdx, burIdx+1)
			g.result.Stats.SeedMarginRetries++
			g.logger.Warnw("seed too close to an obstacle, discarding bur", "round", round, "center", ellipsoid.Center())
			return nil, nil
		}
		return nil, err
	}
	g.logger.Debugw("region added", "round", round, "halfspaces", region.NumHalfspaces())
	return region, nil
}

// selectCenter draws from the sampler until it finds a feasible configuration outside every region.
func (g *regionGrower) selectCenter(ctx context.Context) (cspace.Configuration, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q := g.sampler()
		if g.robot.IsFeasible(q) && !inAnyRegion(g.result.Regions, q) {
			return q, nil
		}
	}
}
