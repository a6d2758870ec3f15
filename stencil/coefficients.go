// SPDX-License-Identifier: MIT

package stencil

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrBadSpacing indicates a zero, negative or non-finite grid spacing.
	ErrBadSpacing = errors.New("stencil: grid spacing must be finite and > 0")

	// ErrBackendUnavailable is returned by NewOpenCLStepper when the binary was
	// built without OpenCL support or no device could be initialised.
	ErrBackendUnavailable = errors.New("stencil: backend unavailable")

	// ErrAliased indicates that Step was given the same grid as out and in.
	ErrAliased = errors.New("stencil: out and in must be distinct grids")
)

// Coefficients are the 4th-order cross-stencil weights.
// C11/C12 act along z (first and second neighbour), C21/C22 along x.
type Coefficients struct {
	C0, C11, C12, C21, C22 float64
}

// NewCoefficients derives the weights from the z and x spacings.
func NewCoefficients(dz, dx float64) (Coefficients, error) {
	if !validSpacing(dz) || !validSpacing(dx) {
		return Coefficients{}, fmt.Errorf("NewCoefficients(dz=%g, dx=%g): %w", dz, dx, ErrBadSpacing)
	}
	var c Coefficients
	tmp := 1.0 / (dz * dz)
	c.C11 = 4.0 * tmp / 3.0
	c.C12 = -tmp / 12.0
	tmp = 1.0 / (dx * dx)
	c.C21 = 4.0 * tmp / 3.0
	c.C22 = -tmp / 12.0
	c.C0 = -2.0 * (c.C11 + c.C12 + c.C21 + c.C22)

	return c, nil
}

// Residual returns c0 + 2(c11+c12+c21+c22), the response to a constant field.
// It is exactly zero for any Coefficients built by NewCoefficients.
func (c Coefficients) Residual() float64 {
	return c.C0 + 2.0*(c.C11+c.C12+c.C21+c.C22)
}

func validSpacing(d float64) bool {
	return d > 0 && !math.IsInf(d, 1) && !math.IsNaN(d)
}
