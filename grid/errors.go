// SPDX-License-Identifier: MIT
// Package grid: sentinel error set.
// All exported functions return these sentinels (possibly wrapped with %w);
// callers match with errors.Is. No function panics on user-triggered errors.

package grid

import "errors"

var (
	// ErrInvalidDimensions indicates that requested dimensions are non-positive
	// (or a negative border thickness).
	ErrInvalidDimensions = errors.New("grid: dimensions must be > 0")

	// ErrOutOfRange indicates that an (ix,iz) index is outside valid bounds.
	ErrOutOfRange = errors.New("grid: index out of range")

	// ErrDimensionMismatch indicates incompatible shapes between operands, e.g.
	// a padded buffer that is not (nx+2nb)×(nz+2nb).
	ErrDimensionMismatch = errors.New("grid: dimension mismatch")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("grid: NaN or Inf encountered")

	// ErrNilGrid indicates that a nil *Dense was passed.
	ErrNilGrid = errors.New("grid: nil grid")
)
