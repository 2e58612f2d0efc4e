package robots

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/gburiris/cspace"
)

// NewDiskScene returns a point robot in [-pi, pi]^2 with a unit disk obstacle at the origin.
func NewDiskScene() *PointRobot {
	r, err := NewPointRobot(
		[]cspace.Limit{{Min: -math.Pi, Max: math.Pi}, {Min: -math.Pi, Max: math.Pi}},
		[]Sphere{{Center: []float64{0, 0}, Radius: 1}},
		0,
	)
	if err != nil {
		panic(err)
	}
	return r
}

// NewPlanarArmScene returns a three link planar arm reaching around two spherical obstacles.
func NewPlanarArmScene() *PlanarArm {
	limits := []cspace.Limit{
		{Min: -math.Pi, Max: math.Pi},
		{Min: -math.Pi, Max: math.Pi},
		{Min: -math.Pi, Max: math.Pi},
	}
	arm, err := NewPlanarArm(
		r3.Vector{},
		[]float64{1, 0.8, 0.5},
		[]float64{0.05, 0.05, 0.05},
		limits,
		[]WorkspaceSphere{
			{Center: r3.Vector{X: 1.4, Y: 0.9}, Radius: 0.3},
			{Center: r3.Vector{X: -1.2, Y: -1.1}, Radius: 0.4},
		},
	)
	if err != nil {
		panic(err)
	}
	return arm
}
