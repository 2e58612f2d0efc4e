// Package robots provides robot models answering the feasibility and clearance queries used to grow
// convex regions in configuration space.
package robots

import (
	"go.viam.com/gburiris/cspace"
)

// Robot is a kinematic model placed in a scene.
type Robot interface {
	cspace.FeasibilityOracle

	// DoF returns the joint limits, one per degree of freedom.
	DoF() []cspace.Limit

	// DistanceToCollision returns a lower bound on the workspace distance between the robot at q and
	// the nearest obstacle. It is negative when q is in collision.
	DistanceToCollision(q cspace.Configuration) float64

	// EnclosingRadii returns, for each joint, the radius of a sphere centered on that joint that
	// contains every downstream link at q. A joint displacement dq moves no point of the robot by more
	// than sum_i radii[i]*|dq[i]|.
	EnclosingRadii(q cspace.Configuration) []float64
}
