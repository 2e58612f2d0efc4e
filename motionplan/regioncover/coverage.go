package regioncover

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"go.viam.com/gburiris/cspace"
	"go.viam.com/gburiris/spatialmath"
	"go.viam.com/gburiris/utils"
)

// Tolerance used when testing whether a configuration lies in a region.
const pointInSetTol = 1e-8

// SamplerFactory returns the sampler owned by one coverage worker. Samplers returned for different
// workers must not share state.
type SamplerFactory func(worker int) cspace.Sampler

// inAnyRegion reports whether q lies in at least one region, stopping at the first match.
func inAnyRegion(regions []*spatialmath.Polytope, q cspace.Configuration) bool {
	return lo.SomeBy(regions, func(r *spatialmath.Polytope) bool {
		return r.PointInSet(q, pointInSetTol)
	})
}

// CheckCoverage estimates the fraction of the free configuration space covered by regions. It draws from
// sampler until n feasible configurations have been seen and returns the fraction of them that lie in
// some region. Infeasible draws are discarded and do not count toward n, so for a sampler that never
// yields a feasible configuration it only returns once ctx is done.
func CheckCoverage(
	ctx context.Context,
	oracle cspace.FeasibilityOracle,
	regions []*spatialmath.Polytope,
	n int,
	sampler cspace.Sampler,
) (float64, error) {
	if n <= 0 {
		return 0, nil
	}
	covered, err := countCovered(ctx, oracle, regions, n, sampler)
	if err != nil {
		return 0, err
	}
	return float64(covered) / float64(n), nil
}

func countCovered(
	ctx context.Context,
	oracle cspace.FeasibilityOracle,
	regions []*spatialmath.Polytope,
	n int,
	sampler cspace.Sampler,
) (int, error) {
	generated, covered := 0, 0
	for generated < n {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		q := sampler()
		if !oracle.IsFeasible(q) {
			continue
		}
		generated++
		if inAnyRegion(regions, q) {
			covered++
		}
	}
	return covered, nil
}

// CheckCoverageParallel is CheckCoverage split over workers goroutines. Every worker owns a clone of the
// oracle and the sampler newSampler returns for it, and evaluates its share of the n feasible samples.
func CheckCoverageParallel(
	ctx context.Context,
	oracle cspace.Cloner,
	regions []*spatialmath.Polytope,
	n, workers int,
	newSampler SamplerFactory,
) (float64, error) {
	if n <= 0 {
		return 0, nil
	}
	workers = utils.MaxInt(1, utils.MinInt(workers, n))
	covered := atomic.NewInt64(0)
	errs := make([]error, workers)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		share := n / workers
		if i < n%workers {
			share++
		}
		worker := i
		g.Go(func() error {
			count, err := countCovered(gctx, oracle.Clone(), regions, share, newSampler(worker))
			if err != nil {
				errs[worker] = err
				return err
			}
			covered.Add(int64(count))
			return nil
		})
	}
	if g.Wait() != nil {
		return 0, multierr.Combine(errs...)
	}
	return float64(covered.Load()) / float64(n), nil
}
