package cspace

import (
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"

	"go.viam.com/gburiris/spatialmath"
)

var squareLimits = []Limit{{-math.Pi, math.Pi}, {-math.Pi, math.Pi}}

func TestUniformSampler(t *testing.T) {
	sample := NewUniformSampler(squareLimits, rand.New(rand.NewSource(1)))
	for i := 0; i < 500; i++ {
		q := sample()
		test.That(t, q.Dim(), test.ShouldEqual, 2)
		test.That(t, InLimits(q, squareLimits), test.ShouldBeTrue)
	}

	a := NewUniformSampler(squareLimits, rand.New(rand.NewSource(9)))
	b := NewUniformSampler(squareLimits, rand.New(rand.NewSource(9)))
	for i := 0; i < 10; i++ {
		test.That(t, a(), test.ShouldResemble, b())
	}
}

func TestHitAndRunSampler(t *testing.T) {
	lower, upper := LimitsToBounds(squareLimits)
	domain, err := spatialmath.MakeBox(lower, upper)
	test.That(t, err, test.ShouldBeNil)

	sample, err := NewHitAndRunSampler(domain, Configuration{0, 0}, rand.New(rand.NewSource(2)))
	test.That(t, err, test.ShouldBeNil)
	prev := sample()
	for i := 0; i < 200; i++ {
		q := sample()
		test.That(t, InLimits(q, squareLimits), test.ShouldBeTrue)
		test.That(t, q, test.ShouldNotResemble, prev)
		prev = q
	}

	_, err = NewHitAndRunSampler(domain, Configuration{0}, nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConfiguration(t *testing.T) {
	q := Configuration{0, 0}
	p := Configuration{3, 4}
	test.That(t, q.Distance(p), test.ShouldAlmostEqual, 5)
	test.That(t, q.Interpolate(p, 0.5), test.ShouldResemble, Configuration{1.5, 2})

	c := p.Copy()
	c[0] = 10
	test.That(t, p[0], test.ShouldEqual, 3.)

	test.That(t, InLimits(Configuration{4, 0}, squareLimits), test.ShouldBeFalse)
	test.That(t, InLimits(Configuration{0}, squareLimits), test.ShouldBeFalse)
	test.That(t, NewIncorrectDoFError(1, 2), test.ShouldBeError, "number of degrees of freedom for configuration (1) does not match the robot (2)")
}
