// SPDX-License-Identifier: MIT

// Package grid - padding operators between interior and padded extents.
//
// Layout (nb = border thickness, nxpad = nx+2nb, nzpad = nz+2nb):
//
//	ix ∈ [0,nb)            left border   (copies of padded row nb)
//	ix ∈ [nb,nb+nx)        interior rows (z border replicated from iz=nb / iz=nzpad-nb-1)
//	ix ∈ [nb+nx,nxpad)     right border  (copies of padded row nxpad-nb-1)
//
// Corners therefore hold the nearest interior-edge value, never a diagonal blend.

package grid

import (
	"fmt"

	"github.com/katalvlaran/acoustic2d/parallel"
)

// Expand copies the nx×nz interior src into the centre of dst (offset nb,nb)
// and fills the border by constant extrapolation.
// MAIN DESCRIPTION:
//   - DomainPadder: interior → padded grid, edge values replicated outward.
//
// Implementation:
//   - Stage 1: validate dst is (nx+2nb)×(nz+2nb).
//   - Stage 2: per interior row (parallel over x): copy the interior slice, then
//     replicate its first/last interior value across the z border.
//   - Stage 3: per border row (parallel over x): copy the already z-extended
//     edge row nb (left) or nxpad-nb-1 (right) in full.
//
// Behavior highlights:
//   - z pass before x pass, so corners replicate the nearest edge cell.
//   - Workers own disjoint row ranges; Stage 3 reads only rows that no worker
//     writes, and starts after Stage 2 completed.
//   - nb == 0 degrades to a plain copy.
//
// Errors:
//   - ErrNilGrid, ErrInvalidDimensions (nb<0), ErrDimensionMismatch.
//
// Complexity:
//   - Time O(nxpad*nzpad), Space O(1).
func Expand(dst, src *Dense, nb int, opts ...Option) error {
	if err := ValidatePadded(dst, src, nb); err != nil {
		return fmt.Errorf("Expand: %w", err)
	}
	o := gatherOptions(opts...)
	nx, nz := src.Shape()
	nxpad, nzpad := dst.Shape()

	parallel.For(nx, o.workers, func(lo, hi int) {
		for ix := lo; ix < hi; ix++ {
			row := dst.Row(nb + ix)
			copy(row[nb : nb+nz], src.Row(ix))
			top, bottom := row[nb], row[nzpad-nb-1]
			for iz := 0; iz < nb; iz++ {
				row[iz] = top
				row[nzpad-iz-1] = bottom
			}
		}
	})

	left, right := dst.Row(nb), dst.Row(nxpad-nb-1)
	parallel.For(nb, o.workers, func(lo, hi int) {
		for ix := lo; ix < hi; ix++ {
			copy(dst.Row(ix), left)
			copy(dst.Row(nxpad-ix-1), right)
		}
	})

	return nil
}

// Window extracts the interior of a padded grid: dst[ix][iz] = src[nb+ix][nb+iz].
// src is only read. dst must be nx×nz with src (nx+2nb)×(nz+2nb).
func Window(dst, src *Dense, nb int, opts ...Option) error {
	if err := ValidatePadded(src, dst, nb); err != nil {
		return fmt.Errorf("Window: %w", err)
	}
	o := gatherOptions(opts...)
	nx, nz := dst.Shape()

	parallel.For(nx, o.workers, func(lo, hi int) {
		for ix := lo; ix < hi; ix++ {
			copy(dst.Row(ix), src.Row(nb + ix)[nb : nb+nz])
		}
	})

	return nil
}

// Padded allocates the padded counterpart of src and expands src into it.
func Padded(src *Dense, nb int, opts ...Option) (*Dense, error) {
	if err := ValidateNotNil(src); err != nil {
		return nil, fmt.Errorf("Padded: %w", err)
	}
	if nb < 0 {
		return nil, fmt.Errorf("Padded: nb=%d: %w", nb, ErrInvalidDimensions)
	}
	dst, err := NewDense(src.r+2*nb, src.c+2*nb, opts...)
	if err != nil {
		return nil, fmt.Errorf("Padded: %w", err)
	}
	dst.validateNaNInf = src.validateNaNInf
	if err = Expand(dst, src, nb, opts...); err != nil {
		return nil, err
	}

	return dst, nil
}
