// SPDX-License-Identifier: MIT

package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// AllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Returns (true,nil) if all cells satisfy the relation; (false,nil) otherwise.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol|; non-finite tolerances yield ErrNaNInf.
//
// Complexity: O(nx*nz), early exit on the first violation.
func AllClose(a, b *Dense, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, validatorErrorf("AllClose", ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	if err := ValidateSameShape(a, b); err != nil {
		return false, validatorErrorf("AllClose", err)
	}
	for i, bv := range b.data {
		if math.Abs(a.data[i]-bv) > atol+rtol*math.Abs(bv) {
			return false, nil
		}
	}

	return true, nil
}

// Equal reports bitwise-equal contents for identical shapes.
func Equal(a, b *Dense) bool {
	if ValidateSameShape(a, b) != nil {
		return false
	}

	return floats.Equal(a.data, b.data)
}

// MaxAbs returns the L∞ norm of the grid (largest |v|).
func MaxAbs(m *Dense) float64 {
	return floats.Norm(m.data, math.Inf(1))
}
