package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/gburiris/motionplan/regioncover"
	"go.viam.com/gburiris/spatialmath"
)

func TestSummarize(t *testing.T) {
	box, err := spatialmath.MakeBox([]float64{0, 0}, []float64{1, 1})
	test.That(t, err, test.ShouldBeNil)
	runs := []runResult{
		{elapsed: time.Second, result: &regioncover.Result{Regions: []*spatialmath.Polytope{box}, Coverage: 0.6}},
		{elapsed: 3 * time.Second, result: &regioncover.Result{Regions: []*spatialmath.Polytope{box, box, box}, Coverage: 0.8}},
	}
	summary, err := summarize(runs)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, summary, test.ShouldContainSubstring, "coverage")
	test.That(t, summary, test.ShouldContainSubstring, "2.0000")
	test.That(t, summary, test.ShouldContainSubstring, "0.7000")
	test.That(t, summary, test.ShouldContainSubstring, "1.0000")

	_, err = summarize(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewScene(t *testing.T) {
	disk, err := newScene(sceneDisk)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(disk.DoF()), test.ShouldEqual, 2)

	arm, err := newScene(sceneArm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(arm.DoF()), test.ShouldEqual, 3)

	_, err = newScene("maze")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRunDiskScene(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	outPath := filepath.Join(dir, "regions.json")
	cfgJSON := `{"num_of_iter": 5, "coverage": 0.7, "num_of_spines": 6, "ignore_seed_margin_error": true}`
	test.That(t, os.WriteFile(cfgPath, []byte(cfgJSON), 0o600), test.ShouldBeNil)

	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	err := app.Run([]string{"cmd-cover", "--runs", "2", "--config", cfgPath, "--seed", "3", "--out", outPath})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, strings.Contains(out.String(), "regions"), test.ShouldBeTrue)

	content, err := os.ReadFile(outPath)
	test.That(t, err, test.ShouldBeNil)
	var written struct {
		Regions  []*spatialmath.Polytope `json:"regions"`
		Coverage float64                 `json:"coverage"`
	}
	test.That(t, json.Unmarshal(content, &written), test.ShouldBeNil)
	test.That(t, len(written.Regions), test.ShouldBeGreaterThan, 0)
	test.That(t, written.Coverage, test.ShouldBeGreaterThan, 0.)
}

func TestRunRejectsBadFlags(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	test.That(t, app.Run([]string{"cmd-cover", "--scene", "maze", "--runs", "1"}), test.ShouldNotBeNil)
	test.That(t, app.Run([]string{"cmd-cover", "--runs", "0"}), test.ShouldNotBeNil)
}
