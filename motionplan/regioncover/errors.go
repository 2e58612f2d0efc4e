package regioncover

import (
	"github.com/pkg/errors"

	"go.viam.com/gburiris/motionplan/iris"
)

// ErrorKind classifies the failures of one round of region growth.
type ErrorKind int

const (
	// Other failures are fatal to the whole run.
	Other ErrorKind = iota
	// DegeneratePointSet means the bur's outer layer was too thin to fit a seed ellipsoid. The round is
	// retried.
	DegeneratePointSet
	// SeedMargin means the inflation seed was within the configuration space margin of an obstacle. The
	// round is retried only when Config.IgnoreSeedMarginError is set.
	SeedMargin
)

func (k ErrorKind) String() string {
	switch k {
	case DegeneratePointSet:
		return "degenerate point set"
	case SeedMargin:
		return "seed margin"
	case Other:
		fallthrough
	default:
		return "other"
	}
}

// DegeneratePointSetError is returned by MinVolumeEllipsoid when the points are too close together to
// span a usable ellipsoid.
type DegeneratePointSetError struct {
	Det float64
}

// NewDegeneratePointSetError returns a DegeneratePointSetError for a shape matrix with the given determinant.
func NewDegeneratePointSetError(det float64) error {
	return &DegeneratePointSetError{Det: det}
}

func (e *DegeneratePointSetError) Error() string {
	return "points are too close"
}

// NewNoFeasibleCenterError is returned by MinVolumeEllipsoid when neither the ellipsoid center nor any of
// the input points is feasible.
func NewNoFeasibleCenterError() error {
	return errors.New("no feasible point to center the ellipsoid on")
}

// NewTooFewPointsError is returned when an ellipsoid is requested for fewer than two points.
func NewTooFewPointsError(n int) error {
	return errors.Errorf("need at least 2 points to fit an ellipsoid, got %d", n)
}

// KindOf classifies err. Wrapped errors are classified by the error they wrap.
func KindOf(err error) ErrorKind {
	var degenerate *DegeneratePointSetError
	switch {
	case err == nil:
		return Other
	case errors.As(err, &degenerate):
		return DegeneratePointSet
	case iris.IsSeedMarginError(err):
		return SeedMargin
	default:
		return Other
	}
}
