package iris

import (
	"github.com/pkg/errors"
)

const seedMarginMessage = "The current center of the IRIS region is within " +
	"options.configuration_space_margin of being infeasible.  Check your " +
	"sample point and/or any additional constraints you've passed in via " +
	"the options. The configuration space surrounding the sample point " +
	"must have an interior."

// SeedMarginError is returned when a separating hyperplane would pass within the configuration space
// margin of the seed.
type SeedMarginError struct {
	Seed []float64
}

// NewSeedMarginError returns a SeedMarginError for the given seed.
func NewSeedMarginError(seed []float64) error {
	return &SeedMarginError{Seed: append([]float64(nil), seed...)}
}

func (e *SeedMarginError) Error() string {
	return seedMarginMessage
}

// IsSeedMarginError reports whether err, or any error it wraps, is a SeedMarginError.
func IsSeedMarginError(err error) bool {
	var target *SeedMarginError
	return errors.As(err, &target)
}

// NewInfeasibleSeedError is returned when inflation is started from an infeasible configuration.
func NewInfeasibleSeedError() error {
	return errors.New("the IRIS seed configuration is infeasible")
}

// NewSeedOutsideDomainError is returned when the seed lies outside the domain being inflated in.
func NewSeedOutsideDomainError() error {
	return errors.New("the IRIS seed configuration is outside the domain")
}
