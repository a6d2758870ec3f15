// SPDX-License-Identifier: MIT

package boundary

import (
	"errors"
	"fmt"
	"math"
)

// DefaultDecay is the decay constant k of the taper profile.
const DefaultDecay = 0.015

// ErrBadTaper indicates an invalid border thickness or decay constant.
var ErrBadTaper = errors.New("boundary: nb must be >= 0 and decay finite and >= 0")

// Taper returns the nb damping coefficients exp(-(decay·(nb-ib))²).
// nb == 0 yields an empty profile.
func Taper(nb int, decay float64) ([]float64, error) {
	if nb < 0 {
		return nil, fmt.Errorf("Taper: nb=%d: %w", nb, ErrBadTaper)
	}
	if math.IsNaN(decay) || math.IsInf(decay, 0) || decay < 0 {
		return nil, fmt.Errorf("Taper: decay=%g: %w", decay, ErrBadTaper)
	}
	coef := make([]float64, nb)
	for ib := range coef {
		tmp := decay * float64(nb-ib)
		coef[ib] = math.Exp(-tmp * tmp)
	}

	return coef, nil
}
