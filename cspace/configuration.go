// Package cspace defines configurations, joint limits, feasibility oracles and configuration samplers.
package cspace

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Configuration is a point in configuration space, one value per degree of freedom.
//   - revolute joints are in radians.
//   - prismatic joints are in the robot's length unit.
type Configuration []float64

// Dim returns the number of degrees of freedom of the configuration.
func (q Configuration) Dim() int {
	return len(q)
}

// Copy returns a configuration that does not share memory with q.
func (q Configuration) Copy() Configuration {
	return append(Configuration(nil), q...)
}

// Distance returns the euclidean distance between two configurations of equal dimension.
func (q Configuration) Distance(other Configuration) float64 {
	return floats.Distance(q, other, 2)
}

// Interpolate returns the configuration the fraction `by` of the way from q to other.
func (q Configuration) Interpolate(other Configuration, by float64) Configuration {
	out := make(Configuration, len(q))
	for i, v := range q {
		out[i] = v + (other[i]-v)*by
	}
	return out
}

// ConfigurationsToFloats unwraps configurations into raw float slices.
func ConfigurationsToFloats(qs []Configuration) [][]float64 {
	out := make([][]float64, len(qs))
	for i, q := range qs {
		out[i] = q
	}
	return out
}

// Limit represents the limits of motion of one degree of freedom.
type Limit struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Range returns the width of the limit.
func (l Limit) Range() float64 {
	return l.Max - l.Min
}

// LimitsToBounds splits limits into lower and upper bound slices.
func LimitsToBounds(limits []Limit) ([]float64, []float64) {
	lower := make([]float64, len(limits))
	upper := make([]float64, len(limits))
	for i, l := range limits {
		lower[i], upper[i] = l.Min, l.Max
	}
	return lower, upper
}

// InLimits reports whether every coordinate of q lies inside its limit.
func InLimits(q Configuration, limits []Limit) bool {
	if len(q) != len(limits) {
		return false
	}
	for i, l := range limits {
		if q[i] < l.Min || q[i] > l.Max {
			return false
		}
	}
	return true
}

// NewIncorrectDoFError returns an error indicating that the configuration has the wrong number of
// degrees of freedom.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of degrees of freedom for configuration (%d) does not match the robot (%d)", actual, expected)
}
