package regioncover

import (
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/gburiris/cspace"
	"go.viam.com/gburiris/robots"
	"go.viam.com/gburiris/spatialmath"
)

func TestMinVolumeEllipsoidDegenerate(t *testing.T) {
	robot := robots.NewDiskScene()

	t.Run("coincident points", func(t *testing.T) {
		points := []cspace.Configuration{{2, 2}, {2, 2}, {2, 2}, {2, 2}}
		for i := 0; i < 3; i++ {
			_, err := MinVolumeEllipsoid(robot, points)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, KindOf(err), test.ShouldEqual, DegeneratePointSet)
		}
	})

	t.Run("points within rounding of each other", func(t *testing.T) {
		points := []cspace.Configuration{{2, 2}, {2 + 1e-15, 2}, {2, 2 - 1e-15}}
		_, err := MinVolumeEllipsoid(robot, points)
		test.That(t, KindOf(err), test.ShouldEqual, DegeneratePointSet)
	})

	t.Run("short segment in four dimensions", func(t *testing.T) {
		limits := make([]cspace.Limit, 4)
		for i := range limits {
			limits[i] = cspace.Limit{Min: -1, Max: 1}
		}
		free, err := robots.NewPointRobot(limits, nil, 0)
		test.That(t, err, test.ShouldBeNil)
		points := []cspace.Configuration{{0, 0, 0, 0}, {0.1, 0.1, 0, 0}, {0.2, 0.2, 0, 0}}
		_, err = MinVolumeEllipsoid(free, points)
		test.That(t, KindOf(err), test.ShouldEqual, DegeneratePointSet)
	})
}

func TestMinVolumeEllipsoidRegularized(t *testing.T) {
	robot := robots.NewDiskScene()
	rng := rand.New(rand.NewSource(5))
	clouds := map[string][]cspace.Configuration{
		"collinear": {{1.5, 1.5}, {2, 2}, {2.5, 2.5}},
		"thin":      {{2, 2}, {2.5, 2.0001}, {3, 2}},
	}
	random := make([]cspace.Configuration, 6)
	for i := range random {
		random[i] = cspace.Configuration{2 + rng.Float64(), 2 + rng.Float64()}
	}
	clouds["random"] = random

	for name, points := range clouds {
		t.Run(name, func(t *testing.T) {
			e, err := MinVolumeEllipsoid(robot, points)
			test.That(t, err, test.ShouldBeNil)
			values, err := e.SingularValues()
			test.That(t, err, test.ShouldBeNil)
			for _, v := range values {
				test.That(t, v, test.ShouldBeGreaterThanOrEqualTo, singularValueFloor-1e-12)
			}
			test.That(t, math.Abs(e.Det()), test.ShouldBeGreaterThanOrEqualTo, detTol)
			test.That(t, robot.IsFeasible(e.Center()), test.ShouldBeTrue)
			for _, p := range points {
				test.That(t, e.PointInSet(p, 1e-3), test.ShouldBeTrue)
			}
		})
	}
}

func TestMinVolumeEllipsoidRecenters(t *testing.T) {
	robot := robots.NewDiskScene()
	points := []cspace.Configuration{{2, 0.1}, {-1.5, 0}, {0.2, 1.3}, {0, -1.4}}

	fitted, err := spatialmath.MinimumVolumeCircumscribedEllipsoid(cspace.ConfigurationsToFloats(points))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, robot.IsFeasible(fitted.Center()), test.ShouldBeFalse)

	closest := 0
	for i, p := range points {
		if floats.Distance(p, fitted.Center(), 2) < floats.Distance(points[closest], fitted.Center(), 2) {
			closest = i
		}
	}

	e, err := MinVolumeEllipsoid(robot, points)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, e.Center(), test.ShouldResemble, []float64(points[closest]))
}

func TestMinVolumeEllipsoidKeepsFeasibleCenter(t *testing.T) {
	robot := robots.NewDiskScene()
	points := []cspace.Configuration{{2, 2}, {3, 2}, {2, 3}, {3, 3}}
	e, err := MinVolumeEllipsoid(robot, points)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, e.Center()[0], test.ShouldAlmostEqual, 2.5, 1e-3)
	test.That(t, e.Center()[1], test.ShouldAlmostEqual, 2.5, 1e-3)
}

func TestMinVolumeEllipsoidFailures(t *testing.T) {
	robot := robots.NewDiskScene()

	_, err := MinVolumeEllipsoid(robot, []cspace.Configuration{{0.1, 0.1}, {-0.1, 0.2}, {0.3, -0.2}})
	test.That(t, err, test.ShouldBeError, NewNoFeasibleCenterError())
	test.That(t, KindOf(err), test.ShouldEqual, Other)

	_, err = MinVolumeEllipsoid(robot, []cspace.Configuration{{2, 2}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, KindOf(err), test.ShouldEqual, Other)

	_, err = MinVolumeEllipsoid(robot, []cspace.Configuration{{2, 2}, {2, 2, 2}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, KindOf(err), test.ShouldEqual, Other)
}
