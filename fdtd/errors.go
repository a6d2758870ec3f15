// SPDX-License-Identifier: MIT

package fdtd

import (
	"errors"

	"github.com/katalvlaran/acoustic2d/grid"
)

var (
	// ErrMissingParameter indicates a required scalar (nt, dt, dz, dx) is absent.
	ErrMissingParameter = errors.New("fdtd: missing required parameter")

	// ErrInvalidParameter indicates a present but out-of-domain parameter
	// (negative ft, jt < 1, fm <= 0, negative nb or workers).
	ErrInvalidParameter = errors.New("fdtd: invalid parameter")

	// ErrAllocation indicates a grid that cannot be sized.
	ErrAllocation = errors.New("fdtd: allocation failure")

	// ErrDimensionMismatch is grid.ErrDimensionMismatch, so callers can match
	// shape problems from any layer with one sentinel.
	ErrDimensionMismatch = grid.ErrDimensionMismatch

	// ErrUnstable indicates the pressure field became NaN or ±Inf.
	ErrUnstable = errors.New("fdtd: field became non-finite")
)
