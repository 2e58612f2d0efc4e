// Package gbur computes generalized burs: star shaped sets of collision free configurations grown from a
// center along several spines, each step sized from the robot's workspace clearance so that no step can
// cross an obstacle.
package gbur

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/gburiris/cspace"
	"go.viam.com/gburiris/robots"
	"go.viam.com/gburiris/utils"
)

// GeneralizedBur is a bur of bounded order around one center configuration.
type GeneralizedBur struct {
	center      cspace.Configuration
	cfg         Config
	robot       robots.Robot
	sampler     cspace.Sampler
	rotation    *mat.Dense
	minDistance float64

	randomConfigs []cspace.Configuration
	spines        [][]cspace.Configuration
}

// New prepares a bur around center. The clearance at the center is measured immediately; the spines are
// only built by Calculate.
func New(center cspace.Configuration, cfg Config, robot robots.Robot, scheme DirectionScheme) (*GeneralizedBur, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dim := len(robot.DoF())
	if center.Dim() != dim {
		return nil, cspace.NewIncorrectDoFError(center.Dim(), dim)
	}
	bur := &GeneralizedBur{
		center: center.Copy(),
		cfg:    cfg,
		robot:  robot,
	}
	switch s := scheme.(type) {
	case PerSpineRandom:
		if s.Sampler == nil {
			return nil, errors.New("per spine random direction scheme needs a sampler")
		}
		bur.sampler = s.Sampler
	case SharedRotation:
		if s.Generator == nil {
			return nil, errors.New("shared rotation direction scheme needs a rotation generator")
		}
		rotation := s.Generator()
		if r, c := rotation.Dims(); r != dim || c != dim {
			return nil, errors.Errorf("rotation matrix is %dx%d, robot has %d degrees of freedom", r, c, dim)
		}
		bur.rotation = rotation
	default:
		return nil, errors.Errorf("unsupported direction scheme %T", scheme)
	}
	bur.minDistance = robot.DistanceToCollision(bur.center)
	return bur, nil
}

// Center returns the bur center.
func (b *GeneralizedBur) Center() cspace.Configuration {
	return b.center.Copy()
}

// MinDistanceToCollision returns the robot's workspace clearance at the center.
func (b *GeneralizedBur) MinDistanceToCollision() float64 {
	return b.minDistance
}

// Rotation returns the rotation shared by the spines, or nil for a per spine random bur.
func (b *GeneralizedBur) Rotation() *mat.Dense {
	if b.rotation == nil {
		return nil
	}
	return mat.DenseCopyOf(b.rotation)
}

// RandomConfigs returns the spine endpoints of the last Calculate call.
func (b *GeneralizedBur) RandomConfigs() []cspace.Configuration {
	return b.randomConfigs
}

// Spines returns the layers of every spine computed by the last Calculate call.
func (b *GeneralizedBur) Spines() [][]cspace.Configuration {
	return b.spines
}

// OuterLayer returns the farthest point of every spine.
func (b *GeneralizedBur) OuterLayer() []cspace.Configuration {
	return OuterLayer(b.spines)
}

// OuterLayer returns the last point of every non empty spine.
func OuterLayer(spines [][]cspace.Configuration) []cspace.Configuration {
	return lo.FilterMap(spines, func(spine []cspace.Configuration, _ int) (cspace.Configuration, bool) {
		if len(spine) == 0 {
			return nil, false
		}
		return spine[len(spine)-1], true
	})
}

// Calculate grows every spine and returns the spine endpoints together with the layers reached along
// each spine. Every spine holds at least one configuration.
func (b *GeneralizedBur) Calculate() ([]cspace.Configuration, [][]cspace.Configuration, error) {
	endpoints := make([]cspace.Configuration, 0, b.cfg.NumOfSpines)
	spines := make([][]cspace.Configuration, 0, b.cfg.NumOfSpines)
	for i := 0; i < b.cfg.NumOfSpines; i++ {
		endpoint, err := b.endpoint(i)
		if err != nil {
			return nil, nil, err
		}
		endpoints = append(endpoints, endpoint)
		spines = append(spines, b.spine(endpoint))
	}
	b.randomConfigs = endpoints
	b.spines = spines
	return endpoints, spines, nil
}

func (b *GeneralizedBur) endpoint(spine int) (cspace.Configuration, error) {
	if b.sampler != nil {
		q := b.sampler()
		if q.Dim() != b.center.Dim() {
			return nil, cspace.NewIncorrectDoFError(q.Dim(), b.center.Dim())
		}
		return q, nil
	}
	dim := b.center.Dim()
	col, sign := baseDirection(spine, dim)
	dir := mat.Col(nil, col, b.rotation)
	floats.Scale(sign, dir)
	return rayToLimits(b.center, dir, b.robot.DoF()), nil
}

// rayToLimits follows center + s*dir until it leaves the joint limit box and returns the exit point.
func rayToLimits(center cspace.Configuration, dir []float64, limits []cspace.Limit) cspace.Configuration {
	const parallelTol = 1e-12
	s := math.Inf(1)
	for i, l := range limits {
		switch {
		case dir[i] > parallelTol:
			s = math.Min(s, (l.Max-center[i])/dir[i])
		case dir[i] < -parallelTol:
			s = math.Min(s, (l.Min-center[i])/dir[i])
		}
	}
	if math.IsInf(s, 1) {
		s = 0
	}
	out := center.Copy()
	floats.AddScaled(out, s, dir)
	// clamp away rounding that would put the exit point just outside the box
	for i, l := range limits {
		out[i] = utils.Clamp(out[i], l.Min, l.Max)
	}
	return out
}

// spine walks from the center toward endpoint. Each layer moves by the largest fraction t of the remaining
// displacement dq for which sum_i radii[i]*t*|dq[i]| does not exceed the clearance at the current point.
func (b *GeneralizedBur) spine(endpoint cspace.Configuration) []cspace.Configuration {
	layers := make([]cspace.Configuration, 0, b.cfg.BurOrder)
	q := b.center
	clearance := b.minDistance
	delta := make([]float64, q.Dim())
	for k := 0; k < b.cfg.BurOrder && clearance > 0; k++ {
		floats.SubTo(delta, endpoint, q)
		radii := b.robot.EnclosingRadii(q)
		reach := 0.
		for i, r := range radii {
			reach += r * math.Abs(delta[i])
		}
		if reach == 0 {
			break
		}
		t := clearance / reach
		if t >= 1 {
			layers = append(layers, endpoint.Copy())
			break
		}
		next := q.Copy()
		floats.AddScaled(next, t, delta)
		layers = append(layers, next)
		if t*floats.Norm(delta, 2) < b.cfg.PhiTol {
			break
		}
		q = next
		clearance = b.robot.DistanceToCollision(q)
		if clearance < b.cfg.MinDistanceTol {
			break
		}
	}
	if len(layers) == 0 {
		layers = append(layers, q.Copy())
	}
	return layers
}
