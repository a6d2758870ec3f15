// SPDX-License-Identifier: MIT
// Package: grid
//
// Purpose:
//  - Single source of truth for shape/nil/finite checks shared by the kernels
//    (padding, stencil, sponge) and the simulation driver.
//  - Return wrapped sentinels so call sites can match with errors.Is.
//
// Note:
//  - Composite validators follow a fixed sequence (NotNil → Shape).

package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil returns ErrNilGrid if m == nil.
func ValidateNotNil(m *Dense) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilGrid)
	}

	return nil
}

// ValidateShape ensures m is non-nil and exactly nx×nz.
func ValidateShape(m *Dense, nx, nz int) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateShape", err)
	}
	if m.r != nx || m.c != nz {
		return validatorErrorf(fmt.Sprintf("ValidateShape: got %dx%d, want %dx%d", m.r, m.c, nx, nz), ErrDimensionMismatch)
	}

	return nil
}

// ValidateSameShape ensures a and b are non-nil with equal dimensions.
func ValidateSameShape(a, b *Dense) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateSameShape", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateSameShape", err)
	}
	if a.r != b.r {
		return validatorErrorf("ValidateSameShape: Rows", ErrDimensionMismatch)
	}
	if a.c != b.c {
		return validatorErrorf("ValidateSameShape: Cols", ErrDimensionMismatch)
	}

	return nil
}

// ValidatePadded ensures padded is (interior.Rows()+2nb)×(interior.Cols()+2nb).
// Composite: NotNil(interior) → NotNil(padded) → nb ≥ 0 → Shape.
func ValidatePadded(padded, interior *Dense, nb int) error {
	if err := ValidateNotNil(interior); err != nil {
		return validatorErrorf("ValidatePadded", err)
	}
	if err := ValidateNotNil(padded); err != nil {
		return validatorErrorf("ValidatePadded", err)
	}
	if nb < 0 {
		return validatorErrorf("ValidatePadded: nb", ErrInvalidDimensions)
	}
	if err := ValidateShape(padded, interior.r+2*nb, interior.c+2*nb); err != nil {
		return validatorErrorf("ValidatePadded", err)
	}

	return nil
}

// ValidateFinite returns ErrNaNInf if any cell is NaN or ±Inf.
// Complexity: O(nx*nz), no allocations.
func ValidateFinite(m *Dense) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateFinite", err)
	}
	if floats.HasNaN(m.data) || math.IsInf(floats.Max(m.data), 1) || math.IsInf(floats.Min(m.data), -1) {
		return validatorErrorf("ValidateFinite", ErrNaNInf)
	}

	return nil
}
