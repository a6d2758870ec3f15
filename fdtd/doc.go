// SPDX-License-Identifier: MIT

// Package fdtd drives the explicit time loop of a 2D acoustic finite-difference
// model: leapfrog in time, 4th-order cross stencil in space, optional sponge
// border, snapshot and receiver-gather recording.
//
// What:
//
//   - Params: user-facing run parameters with DefaultParams() defaults.
//   - Config: the immutable, resolved geometry (padded sizes, source and
//     receiver cells, frame count) derived once by Params.Resolve.
//   - Model: padded (v·dt)² velocity, Ricker wavelet, two-slot BufferPair and
//     the Propagator/Sponge collaborators. Run executes nt steps.
//   - BufferPair: prev/curr pressure fields; Swap exchanges the roles without
//     copying data.
//
// Per-step order (it = 0..nt-1):
//
//	(a) it ≥ ft: window Prev() → snapshot; every jt-th such step is written as
//	    "snapshots"; gather[ix][it] = snapshot[ix][ReceiverDepth].
//	(b) Curr() += wavelet[it] at the source cell and the head-wave cell.
//	(c) Propagator.Step(Prev(), Curr()), Prev() becomes the t+1 level.
//	(d) Border: Sponge.Dampen(Prev(), Curr()).
//	(e) Swap().
//
// After the loop the gather is written once as "gather".
//
// Errors:
//
//   - ErrMissingParameter, ErrInvalidParameter: rejected before any allocation.
//   - ErrDimensionMismatch: padded grid too small for the stencil margin, nb == 1,
//     velocity shape or source/receiver cells inconsistent with the grid.
//   - ErrAllocation: grid sizes overflow, exceed Params.MaxCells, or the
//     runtime refuses the allocation.
//   - ErrUnstable: the field turned non-finite (checked every CheckEvery steps).
//
// Concurrency:
//
//   - Run is strictly sequential over time; the kernels it calls parallelise the
//     spatial loops internally. A Model must not be shared by concurrent Runs.
package fdtd
