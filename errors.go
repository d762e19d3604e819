package rtree

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the root of every error caused by caller input.
var ErrInvalidArgument = errors.New("rtree: invalid argument")

var (
	// ErrInvalidK is returned when a nearest-neighbor query asks for k <= 0.
	ErrInvalidK = fmt.Errorf("%w: k must be positive", ErrInvalidArgument)

	// ErrNegativeRadius is returned when a range query radius is negative or NaN.
	ErrNegativeRadius = fmt.Errorf("%w: radius must be non-negative", ErrInvalidArgument)

	// ErrEmptyNode is returned when an internal node would have no children.
	ErrEmptyNode = fmt.Errorf("%w: internal node requires at least one child", ErrInvalidArgument)

	// ErrInvalidBounds is returned for fan-out bounds outside 1 <= min <= max.
	ErrInvalidBounds = fmt.Errorf("%w: invalid fan-out bounds", ErrInvalidArgument)

	// ErrNilRandomSource is returned when the adaptive packer has no random source.
	ErrNilRandomSource = fmt.Errorf("%w: adaptive packer requires a random source", ErrInvalidArgument)
)

// DimensionMismatchError reports two operands of different dimensionality.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("rtree: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrInvalidArgument) hold for dimension mismatches.
func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// InvariantViolation is the panic value used when the index detects a broken
// internal invariant. It is never returned as an error: a tree built on top of
// a violated invariant would answer every later query wrongly.
type InvariantViolation struct {
	Msg string
}

func (v *InvariantViolation) Error() string {
	return "rtree: invariant violated: " + v.Msg
}

func invariantPanic(format string, args ...any) {
	panic(&InvariantViolation{Msg: fmt.Sprintf(format, args...)})
}
