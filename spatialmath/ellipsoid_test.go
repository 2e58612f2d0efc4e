package spatialmath

import (
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestMinimumVolumeCircumscribedEllipsoid(t *testing.T) {
	t.Run("square corners give the circumscribed circle", func(t *testing.T) {
		points := [][]float64{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
		e, err := MinimumVolumeCircumscribedEllipsoid(points)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, e.Center()[0], test.ShouldAlmostEqual, 0, 1e-4)
		test.That(t, e.Center()[1], test.ShouldAlmostEqual, 0, 1e-4)
		values, err := e.SingularValues()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, values[0], test.ShouldAlmostEqual, math.Sqrt2, 1e-3)
		test.That(t, values[1], test.ShouldAlmostEqual, math.Sqrt2, 1e-3)
	})

	t.Run("random clouds are contained", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		points := make([][]float64, 12)
		for i := range points {
			points[i] = []float64{rng.NormFloat64() * 3, rng.NormFloat64(), rng.NormFloat64() * 0.5}
		}
		e, err := MinimumVolumeCircumscribedEllipsoid(points)
		test.That(t, err, test.ShouldBeNil)
		for _, p := range points {
			test.That(t, e.PointInSet(p, 1e-3), test.ShouldBeTrue)
		}
	})

	t.Run("collinear points get zero width off the line", func(t *testing.T) {
		points := [][]float64{{0, 0}, {1, 1}, {2, 2}}
		e, err := MinimumVolumeCircumscribedEllipsoid(points)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, e.Center()[0], test.ShouldAlmostEqual, 1, 1e-4)
		test.That(t, e.Center()[1], test.ShouldAlmostEqual, 1, 1e-4)
		values, err := e.SingularValues()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, values[0], test.ShouldAlmostEqual, math.Sqrt2, 1e-3)
		test.That(t, values[1], test.ShouldAlmostEqual, 0, 1e-9)
	})

	t.Run("coincident points collapse to the point", func(t *testing.T) {
		points := [][]float64{{0.5, -2}, {0.5, -2}, {0.5, -2}}
		e, err := MinimumVolumeCircumscribedEllipsoid(points)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, e.Center(), test.ShouldResemble, []float64{0.5, -2})
		test.That(t, e.Det(), test.ShouldEqual, 0.)
	})

	t.Run("bad input", func(t *testing.T) {
		_, err := MinimumVolumeCircumscribedEllipsoid(nil)
		test.That(t, err, test.ShouldNotBeNil)
		_, err = MinimumVolumeCircumscribedEllipsoid([][]float64{{1, 2}, {1}})
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestEllipsoidMetric(t *testing.T) {
	b := mat.NewDense(2, 2, []float64{2, 0, 0, 0.5})
	e, err := NewEllipsoid(b, []float64{1, 1})
	test.That(t, err, test.ShouldBeNil)

	dist, err := e.MetricDistance([]float64{3, 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dist, test.ShouldAlmostEqual, 1)
	test.That(t, e.PointInSet([]float64{1, 1.6}, 0), test.ShouldBeFalse)
	test.That(t, e.PointInSet([]float64{1, 1.4}, 0), test.ShouldBeTrue)

	back := e.FromUnitBall([]float64{0, 1})
	test.That(t, back[0], test.ShouldAlmostEqual, 1)
	test.That(t, back[1], test.ShouldAlmostEqual, 1.5)

	grad, err := e.Gradient([]float64{1, 1.5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, grad[0], test.ShouldAlmostEqual, 0)
	test.That(t, grad[1], test.ShouldAlmostEqual, 2)

	moved, err := e.Recentered([]float64{0, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, moved.Det(), test.ShouldAlmostEqual, e.Det())
	test.That(t, e.Center(), test.ShouldResemble, []float64{1, 1})

	_, err = NewEllipsoid(mat.NewDense(2, 3, nil), []float64{0, 0})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRandomRotationMatrix(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{2, 3, 6} {
		r := RandomRotationMatrix(n, rng)
		test.That(t, IsRotationMatrix(r, 1e-9), test.ShouldBeTrue)
	}
	test.That(t, IsRotationMatrix(mat.NewDense(2, 2, []float64{1, 0, 0, -1}), 1e-9), test.ShouldBeFalse)
}
