package gbur

import (
	"github.com/pkg/errors"
)

// default values for bur construction.
const (
	// Number of spines grown from the bur center.
	defaultNumOfSpines = 10

	// Number of layers grown along each spine.
	defaultBurOrder = 2

	// Clearance below which a point is considered to touch an obstacle.
	defaultMinDistanceTol = 1e-5

	// Steps shorter than this end a spine.
	defaultPhiTol = 0.01
)

// Config controls the shape of a generalized bur.
type Config struct {
	NumOfSpines    int     `json:"num_of_spines"`
	BurOrder       int     `json:"bur_order"`
	MinDistanceTol float64 `json:"min_distance_tol"`
	PhiTol         float64 `json:"phi_tol"`
}

// NewDefaultConfig returns the default bur configuration.
func NewDefaultConfig() Config {
	return Config{
		NumOfSpines:    defaultNumOfSpines,
		BurOrder:       defaultBurOrder,
		MinDistanceTol: defaultMinDistanceTol,
		PhiTol:         defaultPhiTol,
	}
}

// Validate checks that the configuration describes a bur that can be built.
func (c Config) Validate() error {
	if c.NumOfSpines < 1 {
		return errors.Errorf("num_of_spines must be at least 1, got %d", c.NumOfSpines)
	}
	if c.BurOrder < 1 {
		return errors.Errorf("bur_order must be at least 1, got %d", c.BurOrder)
	}
	if c.MinDistanceTol <= 0 {
		return errors.Errorf("min_distance_tol must be positive, got %f", c.MinDistanceTol)
	}
	if c.PhiTol < 0 {
		return errors.Errorf("phi_tol can't be negative, got %f", c.PhiTol)
	}
	return nil
}
