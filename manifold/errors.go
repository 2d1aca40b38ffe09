package manifold

import (
	"github.com/pkg/errors"
)

var (
	// ErrDimensionMismatch is returned when a vector does not have the number of coordinates the manifold expects.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrDomainViolation is returned when a point fails the manifold's membership check.
	ErrDomainViolation = errors.New("point does not belong to the manifold")
)

// NewDimensionMismatchError is used when an input named name has actual coordinates instead of expected.
func NewDimensionMismatchError(name string, expected, actual int) error {
	return errors.Wrapf(ErrDimensionMismatch, "%s has %d coordinates, expected %d", name, actual, expected)
}

// NewDomainViolationError is used when an input named name is not a point of the manifold within tolerance.
func NewDomainViolationError(name string, manifold Manifold, tolerance float64) error {
	return errors.Wrapf(ErrDomainViolation, "%s is not a point of %v within tolerance %g", name, manifold, tolerance)
}
