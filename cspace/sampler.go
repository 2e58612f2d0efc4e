package cspace

import (
	"math/rand"

	"go.viam.com/gburiris/spatialmath"
)

// defaultMixingSteps is the number of hit-and-run steps between two returned samples.
const defaultMixingSteps = 1

// Sampler returns a fresh configuration on every call. Samplers need not be uniform, but they must
// produce feasible configurations with non-negligible probability: rejection loops that consume a
// sampler have no retry cap and will not return for a sampler that only yields infeasible points.
type Sampler func() Configuration

// NewUniformSampler returns a sampler drawing uniformly inside the joint limits.
func NewUniformSampler(limits []Limit, rng *rand.Rand) Sampler {
	if rng == nil {
		//nolint:gosec
		rng = rand.New(rand.NewSource(1))
	}
	return func() Configuration {
		q := make(Configuration, len(limits))
		for i, l := range limits {
			q[i] = rng.Float64()*l.Range() + l.Min
		}
		return q
	}
}

// NewHitAndRunSampler returns a sampler walking a hit-and-run chain over the domain, starting at start.
// Each sample is the previous one moved along a random chord, so consecutive samples are correlated.
// start must lie inside the domain.
func NewHitAndRunSampler(domain *spatialmath.Polytope, start Configuration, rng *rand.Rand) (Sampler, error) {
	if rng == nil {
		//nolint:gosec
		rng = rand.New(rand.NewSource(1))
	}
	if start.Dim() != domain.Dim() {
		return nil, NewIncorrectDoFError(start.Dim(), domain.Dim())
	}
	last := start.Copy()
	// probe once so that an unbounded or mismatched domain is reported here rather than from inside a loop
	if _, err := domain.UniformSample(rng, last, defaultMixingSteps); err != nil {
		return nil, err
	}
	return func() Configuration {
		next, err := domain.UniformSample(rng, last, defaultMixingSteps)
		if err != nil {
			// the chain only leaves the domain through numerical drift; restart it
			next = start.Copy()
		}
		last = next
		return Configuration(next).Copy()
	}, nil
}
