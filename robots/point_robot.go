package robots

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/gburiris/cspace"
)

// Sphere is a spherical obstacle in configuration space.
type Sphere struct {
	Center []float64 `json:"center"`
	Radius float64   `json:"radius"`
}

// PointRobot is a robot whose configuration is its position, moving among spherical obstacles. It is the
// configuration space of a free-flying point and is mostly useful for tests and small benchmarks.
type PointRobot struct {
	limits    []cspace.Limit
	obstacles []Sphere
	padding   float64

	current cspace.Configuration
}

// NewPointRobot returns a point robot in the box given by limits. Configurations closer than padding to an
// obstacle are reported as infeasible.
func NewPointRobot(limits []cspace.Limit, obstacles []Sphere, padding float64) (*PointRobot, error) {
	if len(limits) == 0 {
		return nil, errors.New("point robot needs at least one degree of freedom")
	}
	for i, o := range obstacles {
		if len(o.Center) != len(limits) {
			return nil, errors.Wrapf(cspace.NewIncorrectDoFError(len(o.Center), len(limits)), "obstacle %d", i)
		}
		if o.Radius < 0 {
			return nil, errors.Errorf("obstacle %d has negative radius %f", i, o.Radius)
		}
	}
	if padding < 0 {
		return nil, errors.New("padding can't be negative")
	}
	return &PointRobot{
		limits:    append([]cspace.Limit(nil), limits...),
		obstacles: append([]Sphere(nil), obstacles...),
		padding:   padding,
		current:   make(cspace.Configuration, len(limits)),
	}, nil
}

// DoF returns the position limits.
func (r *PointRobot) DoF() []cspace.Limit {
	return append([]cspace.Limit(nil), r.limits...)
}

// Obstacles returns the obstacles of the scene.
func (r *PointRobot) Obstacles() []Sphere {
	return append([]Sphere(nil), r.obstacles...)
}

// IsFeasible reports whether q is in bounds and further than the padding from every obstacle.
func (r *PointRobot) IsFeasible(q cspace.Configuration) bool {
	r.current = append(r.current[:0], q...)
	return cspace.InLimits(q, r.limits) && r.DistanceToCollision(q) > r.padding
}

// CenterOn moves the evaluation context to q.
func (r *PointRobot) CenterOn(q cspace.Configuration) *cspace.EvaluationContext {
	r.current = q.Copy()
	return &cspace.EvaluationContext{Configuration: r.current.Copy()}
}

// DistanceToCollision returns the signed distance to the closest obstacle surface, or +Inf without obstacles.
func (r *PointRobot) DistanceToCollision(q cspace.Configuration) float64 {
	dist := math.Inf(1)
	for _, o := range r.obstacles {
		dist = math.Min(dist, floats.Distance(q, o.Center, 2)-o.Radius)
	}
	return dist
}

// EnclosingRadii is one for every coordinate: moving the point by dq displaces it by |dq| <= sum |dq_i|.
func (r *PointRobot) EnclosingRadii(q cspace.Configuration) []float64 {
	radii := make([]float64, len(r.limits))
	for i := range radii {
		radii[i] = 1
	}
	return radii
}

// Clone returns an independent copy of the robot for use from another goroutine.
func (r *PointRobot) Clone() cspace.FeasibilityOracle {
	return &PointRobot{
		limits:    r.limits,
		obstacles: r.obstacles,
		padding:   r.padding,
		current:   r.current.Copy(),
	}
}
