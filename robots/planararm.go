package robots

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/gburiris/cspace"
)

// WorkspaceSphere is a spherical obstacle in the arm's workspace.
type WorkspaceSphere struct {
	Center r3.Vector `json:"center"`
	Radius float64   `json:"radius"`
}

// PlanarArm is a serial chain of revolute joints rotating about Z, with every link lying in the XY plane.
// Link geometry is modelled as the link segment inflated by a per-link compensation radius.
type PlanarArm struct {
	base         r3.Vector
	linkLengths  []float64
	compensation []float64
	limits       []cspace.Limit
	obstacles    []WorkspaceSphere

	current cspace.Configuration
}

// NewPlanarArm returns a planar arm with one joint per link.
func NewPlanarArm(
	base r3.Vector,
	linkLengths, compensation []float64,
	limits []cspace.Limit,
	obstacles []WorkspaceSphere,
) (*PlanarArm, error) {
	if len(linkLengths) == 0 {
		return nil, errors.New("planar arm needs at least one link")
	}
	if len(compensation) != len(linkLengths) {
		return nil, errors.Errorf("got %d link compensation radii for %d links", len(compensation), len(linkLengths))
	}
	if len(limits) != len(linkLengths) {
		return nil, cspace.NewIncorrectDoFError(len(limits), len(linkLengths))
	}
	return &PlanarArm{
		base:         base,
		linkLengths:  append([]float64(nil), linkLengths...),
		compensation: append([]float64(nil), compensation...),
		limits:       append([]cspace.Limit(nil), limits...),
		obstacles:    append([]WorkspaceSphere(nil), obstacles...),
		current:      make(cspace.Configuration, len(linkLengths)),
	}, nil
}

// DoF returns the joint limits.
func (a *PlanarArm) DoF() []cspace.Limit {
	return append([]cspace.Limit(nil), a.limits...)
}

// LinkPositions returns the position of every joint followed by the end effector.
func (a *PlanarArm) LinkPositions(q cspace.Configuration) []r3.Vector {
	positions := make([]r3.Vector, 0, len(a.linkLengths)+1)
	positions = append(positions, a.base)
	theta := 0.
	current := a.base
	for i, length := range a.linkLengths {
		theta += q[i]
		current = current.Add(r3.Vector{X: math.Cos(theta), Y: math.Sin(theta)}.Mul(length))
		positions = append(positions, current)
	}
	return positions
}

// IsFeasible reports whether q is within the joint limits and no link touches an obstacle.
func (a *PlanarArm) IsFeasible(q cspace.Configuration) bool {
	a.current = append(a.current[:0], q...)
	return cspace.InLimits(q, a.limits) && a.DistanceToCollision(q) > 0
}

// CenterOn moves the evaluation context to q.
func (a *PlanarArm) CenterOn(q cspace.Configuration) *cspace.EvaluationContext {
	a.current = q.Copy()
	return &cspace.EvaluationContext{Configuration: a.current.Copy()}
}

// DistanceToCollision returns the smallest clearance between any inflated link and any obstacle.
func (a *PlanarArm) DistanceToCollision(q cspace.Configuration) float64 {
	if len(q) != len(a.linkLengths) {
		return math.Inf(-1)
	}
	positions := a.LinkPositions(q)
	dist := math.Inf(1)
	for i := range a.linkLengths {
		for _, o := range a.obstacles {
			d := segmentPointDistance(positions[i], positions[i+1], o.Center) - o.Radius - a.compensation[i]
			dist = math.Min(dist, d)
		}
	}
	return dist
}

// EnclosingRadii returns, for every joint, the distance to the furthest downstream link point plus the
// largest downstream link compensation.
func (a *PlanarArm) EnclosingRadii(q cspace.Configuration) []float64 {
	positions := a.LinkPositions(q)
	radii := make([]float64, len(a.linkLengths))
	for i := range radii {
		comp := 0.
		for j := i + 1; j < len(positions); j++ {
			radii[i] = math.Max(radii[i], positions[j].Sub(positions[i]).Norm())
			comp = math.Max(comp, a.compensation[j-1])
		}
		radii[i] += comp
	}
	return radii
}

// Clone returns an independent copy of the arm for use from another goroutine.
func (a *PlanarArm) Clone() cspace.FeasibilityOracle {
	clone := *a
	clone.current = a.current.Copy()
	return &clone
}

func segmentPointDistance(start, end, p r3.Vector) float64 {
	seg := end.Sub(start)
	lenSq := seg.Norm2()
	if lenSq == 0 {
		return p.Sub(start).Norm()
	}
	t := math.Max(0, math.Min(1, p.Sub(start).Dot(seg)/lenSq))
	return start.Add(seg.Mul(t)).Sub(p).Norm()
}
