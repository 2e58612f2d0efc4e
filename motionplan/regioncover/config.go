package regioncover

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"

	"go.viam.com/gburiris/logging"
	"go.viam.com/gburiris/motionplan/gbur"
	"go.viam.com/gburiris/motionplan/iris"
	"go.viam.com/gburiris/utils"
)

// default values for region growth.
const (
	// Maximum number of regions grown.
	defaultNumOfIter = 100

	// Fraction of feasible samples that must be covered before growth stops.
	defaultCoverage = 0.9

	// Number of feasible samples drawn per coverage estimate.
	defaultNumPointsCoverageCheck = 1000

	// Number of IRIS rounds allowed per region.
	defaultNumOfIrisIterations = 10

	// Number of goroutines used for coverage estimates.
	defaultCoverageWorkers = 1
)

// Config controls region growth.
type Config struct {
	NumOfIter              int     `json:"num_of_iter"`
	Coverage               float64 `json:"coverage"`
	NumPointsCoverageCheck int     `json:"num_points_coverage_check"`

	// Bur shape.
	NumOfSpines    int     `json:"num_of_spines"`
	BurOrder       int     `json:"bur_order"`
	MinDistanceTol float64 `json:"min_distance_tol"`
	PhiTol         float64 `json:"phi_tol"`

	// When set, a seed that IRIS rejects for being within its configuration space margin of an obstacle
	// is discarded and the round retried instead of failing the whole run.
	IgnoreSeedMarginError bool `json:"ignore_seed_margin_error"`

	// NumOfIrisIterations overrides Iris.IterationLimit.
	NumOfIrisIterations int          `json:"num_of_iris_iterations"`
	Iris                iris.Options `json:"iris"`

	CoverageWorkers int `json:"coverage_workers"`

	RandomSeed int `json:"rseed"`
}

// NewBasicConfig returns the default configuration.
func NewBasicConfig() *Config {
	burCfg := gbur.NewDefaultConfig()
	return &Config{
		NumOfIter:              defaultNumOfIter,
		Coverage:               defaultCoverage,
		NumPointsCoverageCheck: defaultNumPointsCoverageCheck,
		NumOfSpines:            burCfg.NumOfSpines,
		BurOrder:               burCfg.BurOrder,
		MinDistanceTol:         burCfg.MinDistanceTol,
		PhiTol:                 burCfg.PhiTol,
		NumOfIrisIterations:    defaultNumOfIrisIterations,
		Iris:                   iris.NewDefaultOptions(),
		CoverageWorkers:        defaultCoverageWorkers,
	}
}

// NewConfigFromExtra overlays the values found in extra onto the default configuration. The number of
// coverage workers may also be set through the environment.
func NewConfigFromExtra(extra map[string]interface{}) (*Config, error) {
	cfg := NewBasicConfig()
	cfg.CoverageWorkers = utils.GetenvInt(utils.CoverageWorkersEnvVar, cfg.CoverageWorkers)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(extra); err != nil {
		return nil, errors.Wrap(err, "failed to decode region growth config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BurConfig returns the bur shape part of the configuration.
func (c *Config) BurConfig() gbur.Config {
	return gbur.Config{
		NumOfSpines:    c.NumOfSpines,
		BurOrder:       c.BurOrder,
		MinDistanceTol: c.MinDistanceTol,
		PhiTol:         c.PhiTol,
	}
}

// IrisOptions returns the IRIS options with the iteration limit taken from NumOfIrisIterations.
func (c *Config) IrisOptions() iris.Options {
	opts := c.Iris
	opts.IterationLimit = c.NumOfIrisIterations
	return opts
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.NumOfIter < 0 {
		return errors.Errorf("num_of_iter can't be negative, got %d", c.NumOfIter)
	}
	if c.Coverage < 0 || c.Coverage > 1 {
		return errors.Errorf("coverage must be in [0, 1], got %f", c.Coverage)
	}
	if c.NumPointsCoverageCheck < 1 {
		return errors.Errorf("num_points_coverage_check must be at least 1, got %d", c.NumPointsCoverageCheck)
	}
	if c.CoverageWorkers < 1 {
		return errors.Errorf("coverage_workers must be at least 1, got %d", c.CoverageWorkers)
	}
	if err := c.BurConfig().Validate(); err != nil {
		return err
	}
	return c.IrisOptions().Validate()
}

func (c *Config) logFields(logger logging.Logger) {
	logger.Debugw("region growth config",
		"num_of_iter", c.NumOfIter,
		"coverage", c.Coverage,
		"num_points_coverage_check", c.NumPointsCoverageCheck,
		"num_of_spines", c.NumOfSpines,
		"bur_order", c.BurOrder,
		"ignore_seed_margin_error", c.IgnoreSeedMarginError,
		"coverage_workers", c.CoverageWorkers,
	)
}
