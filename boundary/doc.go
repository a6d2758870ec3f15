// SPDX-License-Identifier: MIT

// Package boundary implements the absorbing sponge layer applied around the
// padded modeling domain.
//
// What:
//
//   - Taper: the 1D damping profile coef[ib] = exp(-(k·(nb-ib))²), ib ∈ [0,nb).
//     ib = 0 is the outermost cell (strongest damping); ib = nb-1 touches the
//     interior (weakest damping, still < 1).
//   - Sponge: multiplies every border cell of two padded fields by the taper,
//     z-direction pass first, x-direction pass second; corner cells receive the
//     product of both factors.
//
// Errors:
//
//   - ErrBadTaper: negative nb or a negative/non-finite decay constant.
//   - grid.ErrDimensionMismatch / grid.ErrNilGrid from Dampen.
package boundary
