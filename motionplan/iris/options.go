package iris

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// default values for IRIS options.
const (
	// Maximum number of separating hyperplane rounds.
	defaultIterationLimit = 100

	// Hyperplanes are pulled this far toward the seed from the boundary point they separate.
	defaultConfigurationSpaceMargin = 1e-2

	// Number of hit-and-run samples drawn in the current region per round to look for collisions.
	defaultNumCollisionSamples = 500

	// Number of halvings used to locate a collision boundary between a feasible and an infeasible point.
	defaultBisectionSteps = 20

	// Number of local moves used to push a boundary point toward the seed in the ellipsoid metric.
	defaultRefinementSteps = 16

	// Hit-and-run steps between two collision samples.
	defaultMixingSteps = 3
)

// Options configures InConfigurationSpace.
type Options struct {
	IterationLimit           int     `json:"iteration_limit"`
	ConfigurationSpaceMargin float64 `json:"configuration_space_margin"`
	NumCollisionSamples      int     `json:"num_collision_samples"`
	BisectionSteps           int     `json:"bisection_steps"`
	RefinementSteps          int     `json:"refinement_steps"`
	MixingSteps              int     `json:"mixing_steps"`
}

// NewDefaultOptions returns the default IRIS options.
func NewDefaultOptions() Options {
	return Options{
		IterationLimit:           defaultIterationLimit,
		ConfigurationSpaceMargin: defaultConfigurationSpaceMargin,
		NumCollisionSamples:      defaultNumCollisionSamples,
		BisectionSteps:           defaultBisectionSteps,
		RefinementSteps:          defaultRefinementSteps,
		MixingSteps:              defaultMixingSteps,
	}
}

// NewOptionsFromExtra overlays the values found in extra onto the default options.
func NewOptionsFromExtra(extra map[string]interface{}) (Options, error) {
	opts := NewDefaultOptions()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &opts,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Options{}, err
	}
	if err := decoder.Decode(extra); err != nil {
		return Options{}, errors.Wrap(err, "failed to decode iris options")
	}
	return opts, opts.Validate()
}

// Validate checks that the options can drive an inflation.
func (o Options) Validate() error {
	if o.IterationLimit < 1 {
		return errors.Errorf("iteration_limit must be at least 1, got %d", o.IterationLimit)
	}
	if o.ConfigurationSpaceMargin < 0 {
		return errors.Errorf("configuration_space_margin can't be negative, got %f", o.ConfigurationSpaceMargin)
	}
	if o.NumCollisionSamples < 1 {
		return errors.Errorf("num_collision_samples must be at least 1, got %d", o.NumCollisionSamples)
	}
	if o.BisectionSteps < 1 {
		return errors.Errorf("bisection_steps must be at least 1, got %d", o.BisectionSteps)
	}
	if o.RefinementSteps < 0 {
		return errors.Errorf("refinement_steps can't be negative, got %d", o.RefinementSteps)
	}
	if o.MixingSteps < 1 {
		return errors.Errorf("mixing_steps must be at least 1, got %d", o.MixingSteps)
	}
	return nil
}
