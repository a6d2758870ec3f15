// SPDX-License-Identifier: MIT

// Package grid provides the 2D field storage shared by every stage of the
// acoustic modeling pipeline, plus the padding/windowing operators that move a
// field between its interior and its padded (absorbing-border) extent.
//
// What:
//
//   - Dense: a row-major nx×nz array of float64 indexed [x][z]; x is the outer
//     (row) axis, z the inner (column) axis, offset = ix*nz + iz.
//   - Expand: interior → padded copy with edge replication (DomainPadder).
//   - Window: padded → interior extraction (DomainWindower).
//   - AllClose, validators and a sentinel error set.
//
// Why:
//
//   - One flat buffer per field keeps the stencil kernels cache friendly and lets
//     them operate on Row(ix) slices directly, while the public At/Set surface
//     stays bounds-checked and panic free.
//
// Complexity:
//
//   - NewDense, Clone, Fill: O(nx·nz). At/Set/Row: O(1).
//   - Expand: O(nxpad·nzpad). Window: O(nx·nz).
//
// Errors:
//
//   - ErrInvalidDimensions, ErrOutOfRange, ErrDimensionMismatch, ErrNaNInf, ErrNilGrid.
//
// Concurrency:
//
//   - Dense is not synchronized. Expand and Window split the outer x axis into
//     disjoint ranges (see package parallel); concurrent writers of one Dense
//     must own disjoint row ranges.
package grid
