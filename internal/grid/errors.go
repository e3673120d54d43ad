package grid

import (
	"errors"
	"fmt"
)

// Domain errors for grid construction and access.
var (
	// ErrInvalidGrid indicates dimensions or spacing that cannot support the
	// finite-difference stencils (nx, ny >= 3, spacing > 0).
	ErrInvalidGrid = errors.New("grid: invalid dimensions or spacing")

	// ErrOutOfBounds indicates a cell index outside [0,nx) x [0,ny).
	ErrOutOfBounds = errors.New("grid: cell index out of bounds")

	// ErrBoundaryMismatch indicates a periodic policy on only one of a pair
	// of opposite edges.
	ErrBoundaryMismatch = errors.New("grid: periodic boundary requires both opposite edges")

	// ErrUnstable indicates a detected numerical blow-up: a velocity above
	// the configured ceiling, a NaN/Inf field, or a divergence residual the
	// projection could not remove.
	ErrUnstable = errors.New("grid: numerical instability detected")
)

// BoundsError wraps ErrOutOfBounds with the offending index.
type BoundsError struct {
	I, J   int
	NX, NY int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("grid: index (%d,%d) outside %dx%d", e.I, e.J, e.NX, e.NY)
}

func (e *BoundsError) Unwrap() error { return ErrOutOfBounds }
