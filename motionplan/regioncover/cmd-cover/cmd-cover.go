// package main benchmarks region growth: it covers a scene repeatedly and reports the mean and standard
// deviation of the run time, region count and coverage.
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/gburiris/cspace"
	"go.viam.com/gburiris/logging"
	"go.viam.com/gburiris/motionplan/gbur"
	"go.viam.com/gburiris/motionplan/regioncover"
	"go.viam.com/gburiris/robots"
	"go.viam.com/gburiris/spatialmath"
)

const (
	flagScene    = "scene"
	flagRuns     = "runs"
	flagRotation = "rotation"
	flagConfig   = "config"
	flagSeed     = "seed"
	flagOut      = "out"
	flagVerbose  = "verbose"

	sceneDisk = "disk"
	sceneArm  = "arm"
)

func main() {
	if err := realMain(os.Args); err != nil {
		panic(err)
	}
}

func realMain(args []string) error {
	return newApp().Run(args)
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "cmd-cover",
		Usage: "cover the free configuration space of a scene with convex regions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagScene,
				Value: sceneDisk,
				Usage: fmt.Sprintf("scene to cover, one of %q or %q", sceneDisk, sceneArm),
			},
			&cli.IntFlag{
				Name:  flagRuns,
				Value: 10,
				Usage: "number of runs",
			},
			&cli.BoolFlag{
				Name:  flagRotation,
				Usage: "aim bur spines along one random rotation of the coordinate axes",
			},
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load region growth configuration from `FILE`",
			},
			&cli.IntFlag{
				Name:  flagSeed,
				Value: -1,
				Usage: "random seed, overriding the configuration",
			},
			&cli.StringFlag{
				Name:  flagOut,
				Usage: "write the regions of the last run to `FILE` as JSON",
			},
			&cli.BoolFlag{
				Name:    flagVerbose,
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Action: runBenchmark,
	}
}

type runResult struct {
	elapsed time.Duration
	result  *regioncover.Result
}

func runBenchmark(c *cli.Context) error {
	logger := logging.NewLogger("cmd-cover")
	ctx := c.Context
	if c.Bool(flagVerbose) {
		logger.SetLevel(logging.DEBUG)
		ctx = logging.EnableDebugMode(ctx, "cmd-cover")
	}

	cfg, err := loadConfig(c.String(flagConfig))
	if err != nil {
		return err
	}
	if seed := c.Int(flagSeed); seed >= 0 {
		cfg.RandomSeed = seed
	}
	if c.Int(flagRuns) < 1 {
		return errors.Errorf("--%s must be at least 1", flagRuns)
	}

	runs := make([]runResult, 0, c.Int(flagRuns))
	for i := 0; i < c.Int(flagRuns); i++ {
		robot, err := newScene(c.String(flagScene))
		if err != nil {
			return err
		}
		req, err := newRequest(robot, cfg, int64(cfg.RandomSeed+i), c.Bool(flagRotation))
		if err != nil {
			return err
		}
		start := time.Now()
		res, err := regioncover.GrowRegions(ctx, logger.Sublogger(fmt.Sprintf("run%d", i)), req)
		if err != nil {
			return errors.Wrapf(err, "run %d failed", i)
		}
		runs = append(runs, runResult{elapsed: time.Since(start), result: res})
		logger.Infof("run %d: %d regions, coverage %.3f, %s", i, len(res.Regions), res.Coverage, runs[i].elapsed)
	}

	summary, err := summarize(runs)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, summary)

	if out := c.String(flagOut); out != "" {
		return writeResult(out, runs[len(runs)-1].result)
	}
	return nil
}

func loadConfig(path string) (*regioncover.Config, error) {
	extra := map[string]interface{}{}
	if path != "" {
		//nolint:gosec
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(content, &extra); err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", path)
		}
	}
	return regioncover.NewConfigFromExtra(extra)
}

func newScene(name string) (robots.Robot, error) {
	switch name {
	case sceneDisk:
		return robots.NewDiskScene(), nil
	case sceneArm:
		return robots.NewPlanarArmScene(), nil
	default:
		return nil, errors.Errorf("unknown scene %q", name)
	}
}

// newRequest samples by hit-and-run over the joint limit box, the way a uniform polytope sampler would,
// and gives every coverage worker its own uniform sampler.
func newRequest(robot robots.Robot, cfg *regioncover.Config, seed int64, rotation bool) (*regioncover.Request, error) {
	limits := robot.DoF()
	lower, upper := cspace.LimitsToBounds(limits)
	domain, err := spatialmath.MakeBox(lower, upper)
	if err != nil {
		return nil, err
	}
	start := make(cspace.Configuration, len(limits))
	for i, l := range limits {
		start[i] = (l.Min + l.Max) / 2
	}
	//nolint:gosec
	rng := rand.New(rand.NewSource(seed))
	sampler, err := cspace.NewHitAndRunSampler(domain, start, rng)
	if err != nil {
		return nil, err
	}

	req := &regioncover.Request{
		Robot:   robot,
		Config:  cfg,
		Sampler: sampler,
		SamplerFactory: func(worker int) cspace.Sampler {
			//nolint:gosec
			return cspace.NewUniformSampler(limits, rand.New(rand.NewSource(seed*1000+int64(worker))))
		},
	}
	if rotation {
		req.DirectionScheme = gbur.SharedRotation{Generator: gbur.NewRandomRotationGenerator(len(limits), rng)}
	}
	return req, nil
}

// summarize renders the mean and standard deviation of every run metric as a table.
func summarize(runs []runResult) (string, error) {
	seconds := make([]float64, 0, len(runs))
	regions := make([]float64, 0, len(runs))
	coverage := make([]float64, 0, len(runs))
	for _, r := range runs {
		seconds = append(seconds, r.elapsed.Seconds())
		regions = append(regions, float64(len(r.result.Regions)))
		coverage = append(coverage, r.result.Coverage)
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Metric", "Mean", "Std Dev"})
	var errs error
	for _, metric := range []struct {
		name   string
		values []float64
	}{
		{"time (s)", seconds},
		{"regions", regions},
		{"coverage", coverage},
	} {
		mean, err := stats.Mean(metric.values)
		errs = multierr.Combine(errs, err)
		sd, err := stats.StandardDeviation(metric.values)
		errs = multierr.Combine(errs, err)
		t.AppendRow(table.Row{metric.name, fmt.Sprintf("%.4f", mean), fmt.Sprintf("%.4f", sd)})
	}
	if errs != nil {
		return "", errs
	}
	return t.Render(), nil
}

func writeResult(path string, res *regioncover.Result) error {
	content, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	//nolint:gosec
	return os.WriteFile(path, content, 0o644)
}
