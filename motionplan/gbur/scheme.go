package gbur

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"go.viam.com/gburiris/cspace"
	"go.viam.com/gburiris/spatialmath"
)

// DirectionScheme selects how the spine endpoints of a bur are chosen. It is one of PerSpineRandom or
// SharedRotation.
type DirectionScheme interface {
	isDirectionScheme()
}

// PerSpineRandom aims every spine at an independent draw of Sampler.
type PerSpineRandom struct {
	Sampler cspace.Sampler
}

// SharedRotation aims the spines along a fixed base direction set rotated by one matrix produced by
// Generator. The generator is called exactly once per bur.
type SharedRotation struct {
	Generator RotationGenerator
}

func (PerSpineRandom) isDirectionScheme() {}

func (SharedRotation) isDirectionScheme() {}

// RotationGenerator returns a fresh rotation matrix on every call.
type RotationGenerator func() *mat.Dense

// NewRandomRotationGenerator returns a generator of uniformly distributed dim x dim rotation matrices.
func NewRandomRotationGenerator(dim int, rng *rand.Rand) RotationGenerator {
	if rng == nil {
		//nolint:gosec
		rng = rand.New(rand.NewSource(1))
	}
	return func() *mat.Dense {
		return spatialmath.RandomRotationMatrix(dim, rng)
	}
}

// NewFixedRotationGenerator returns a generator that always yields a copy of r.
func NewFixedRotationGenerator(r mat.Matrix) RotationGenerator {
	fixed := mat.DenseCopyOf(r)
	return func() *mat.Dense {
		return mat.DenseCopyOf(fixed)
	}
}

// baseDirection returns the spine'th direction of the base set e_0, ..., e_{d-1}, -e_0, ..., -e_{d-1},
// repeating. The first d directions are pairwise orthogonal.
func baseDirection(spine, dim int) (int, float64) {
	idx := spine % (2 * dim)
	if idx < dim {
		return idx, 1
	}
	return idx - dim, -1
}
