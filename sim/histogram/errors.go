package histogram

import (
	"errors"
	"fmt"
)

var (
	// ErrZeroExtent is returned when a CounterIndex is given a zero extent.
	ErrZeroExtent = errors.New("counter index extent must be positive")

	// ErrOutOfRange is returned for an axis or value outside the index bounds.
	ErrOutOfRange = errors.New("index out of range")

	// ErrAtEnd is returned when a CounterIndex that has wrapped past its last
	// combination is dereferenced.
	ErrAtEnd = errors.New("counter index is at end")

	// ErrDimensionMismatch is returned when a point or a set of bin styles
	// does not match the histogram dimensionality.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	ErrAlreadyBinned = errors.New("histogram already binned")
	ErrNotBinned     = errors.New("histogram not yet binned")
	ErrNilBinStyle   = errors.New("bin style is nil")
	ErrZeroBins      = errors.New("bin style has zero bins")
	ErrNoData        = errors.New("histogram has no data to bin")

	// ErrIndexMismatch is returned when a CounterIndex does not address this
	// histogram's bin grid.
	ErrIndexMismatch = errors.New("counter index does not match histogram bins")

	// ErrInvalidBinStyle is returned by NewBinStyle for malformed descriptions.
	ErrInvalidBinStyle = errors.New("invalid bin style")
)

// DegenerateRangeError reports an axis whose observed range has zero width
// while more than one bin was requested for it.
type DegenerateRangeError struct {
	Axis int
	Bins int
}

func (e *DegenerateRangeError) Error() string {
	return fmt.Sprintf("axis %d has zero-width range but %d bins were requested", e.Axis, e.Bins)
}

// DomainError reports a sample that lies outside the domain of the bin style
// selected for its axis, e.g. a non-positive value on a logarithmic axis.
type DomainError struct {
	Axis  int
	Value float64
	Style string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("axis %d: value %g outside the domain of %s binning", e.Axis, e.Value, e.Style)
}
