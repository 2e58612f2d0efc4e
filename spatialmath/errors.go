package spatialmath

import "github.com/pkg/errors"

// NewDimensionMismatchError returns an error indicating that a vector or matrix did not have the expected dimension.
func NewDimensionMismatchError(got, want int) error {
	return errors.Errorf("dimension mismatch: got %d, want %d", got, want)
}

// NewEmptyPointSetError returns an error indicating that an operation needs at least one point.
func NewEmptyPointSetError() error {
	return errors.New("point set is empty")
}

// NewUnboundedPolytopeError returns an error indicating that a line through a polytope never leaves it.
func NewUnboundedPolytopeError() error {
	return errors.New("polytope is unbounded along the sampled direction")
}
