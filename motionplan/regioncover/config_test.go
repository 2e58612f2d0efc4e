package regioncover

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/gburiris/utils"
)

func TestNewConfigFromExtra(t *testing.T) {
	cfg, err := NewConfigFromExtra(map[string]interface{}{
		"num_of_iter":              20,
		"coverage":                 0.7,
		"num_of_spines":            "6",
		"ignore_seed_margin_error": true,
		"iris": map[string]interface{}{
			"configuration_space_margin": 0.001,
		},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.NumOfIter, test.ShouldEqual, 20)
	test.That(t, cfg.Coverage, test.ShouldEqual, 0.7)
	test.That(t, cfg.NumOfSpines, test.ShouldEqual, 6)
	test.That(t, cfg.IgnoreSeedMarginError, test.ShouldBeTrue)
	test.That(t, cfg.Iris.ConfigurationSpaceMargin, test.ShouldEqual, 0.001)
	test.That(t, cfg.BurOrder, test.ShouldEqual, NewBasicConfig().BurOrder)
	test.That(t, cfg.IrisOptions().IterationLimit, test.ShouldEqual, defaultNumOfIrisIterations)

	burCfg := cfg.BurConfig()
	test.That(t, burCfg.NumOfSpines, test.ShouldEqual, 6)
	test.That(t, burCfg.Validate(), test.ShouldBeNil)
}

func TestNewConfigFromExtraWorkersFromEnv(t *testing.T) {
	t.Setenv(utils.CoverageWorkersEnvVar, "4")
	cfg, err := NewConfigFromExtra(nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.CoverageWorkers, test.ShouldEqual, 4)

	cfg, err = NewConfigFromExtra(map[string]interface{}{"coverage_workers": 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.CoverageWorkers, test.ShouldEqual, 2)
}

func TestConfigValidate(t *testing.T) {
	test.That(t, NewBasicConfig().Validate(), test.ShouldBeNil)

	for name, extra := range map[string]map[string]interface{}{
		"negative iterations": {"num_of_iter": -1},
		"coverage too large":  {"coverage": 1.5},
		"no coverage samples": {"num_points_coverage_check": 0},
		"no spines":           {"num_of_spines": 0},
		"no workers":          {"coverage_workers": 0},
		"no iris iterations":  {"num_of_iris_iterations": 0},
		"wrong type":          {"num_of_iter": map[string]interface{}{"value": 1}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewConfigFromExtra(extra)
			test.That(t, err, test.ShouldNotBeNil)
		})
	}
}
