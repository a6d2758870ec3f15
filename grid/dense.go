// SPDX-License-Identifier: MIT

// Package grid - Dense storage (row-major [x][z]) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly buffer with the explicit index formula ix*nz + iz.
//   - Guarantee safety at the public surface: At/Set/Add return errors instead of panicking.
//   - Expose Row(ix) for kernels that need raw slice access on the hot path.
//   - Keep determinism: fixed loop orders, no map iteration.
//
// Complexity quicksheet:
//   - NewDense: O(nx*nz) zero-init; At/Set/Add/Row: O(1); Clone/Fill/CopyFrom: O(nx*nz).

package grid

import (
	"fmt"
	"math"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt       = "At"
	ctxSet      = "Set"
	ctxAdd      = "Add"
	ctxApply    = "Apply"
	ctxFrom     = "NewDenseFrom"
	ctxCopyFrom = "CopyFrom"
)

// ---------- Formatting literals ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
//
// Implementation:
//   - Stage 1: format "Dense.<method>(ix,iz): %w".
//   - Stage 2: return wrapped error; the sentinel stays matchable via errors.Is.
func denseErrorf(method string, ix, iz int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, ix, iz, err)
}

// Dense is a concrete row-major 2D grid.
//   - r,c hold dimensions (r = nx along x, c = nz along z).
//   - data is a flat buffer of length r*c in row-major order (offset = ix*c + iz).
//   - validateNaNInf enables NaN/Inf rejection in Set/Add/Apply.
type Dense struct {
	r, c           int       // nx and nz (> 0)
	data           []float64 // contiguous row-major storage (len == r*c)
	validateNaNInf bool      // numeric guard for the checked accessors
}

// Compile-time assertion for fmt.Stringer conformance.
var _ fmt.Stringer = (*Dense)(nil)

// NewDense creates an nx×nz zero grid.
// MAIN DESCRIPTION:
//   - Public constructor with strict shape validation and default numeric policy.
//
// Implementation:
//   - Stage 1: validate nx>0 && nz>0; else ErrInvalidDimensions.
//   - Stage 2: resolve options (numeric policy).
//   - Stage 3: allocate the zero-filled flat buffer.
//
// Behavior highlights:
//   - No panics on user errors; returns sentinel errors.
//   - The caller is responsible for sizes whose product overflows int; the
//     simulation layer checks that before calling (see fdtd.Params.Validate).
//
// Errors:
//   - ErrInvalidDimensions (shape contract violation).
//
// Complexity:
//   - Time O(nx*nz), Space O(nx*nz).
func NewDense(nx, nz int, opts ...Option) (*Dense, error) {
	if nx <= 0 || nz <= 0 {
		return nil, ErrInvalidDimensions
	}
	o := gatherOptions(opts...)

	return &Dense{
		r:              nx,
		c:              nz,
		data:           make([]float64, nx*nz),
		validateNaNInf: o.validateNaNInf,
	}, nil
}

// NewDenseFrom creates an nx×nz grid holding a copy of data (row-major [x][z]).
// Returns ErrDimensionMismatch when len(data) != nx*nz and ErrNaNInf when the
// numeric policy is on and data holds a non-finite value.
func NewDenseFrom(nx, nz int, data []float64, opts ...Option) (*Dense, error) {
	m, err := NewDense(nx, nz, opts...)
	if err != nil {
		return nil, err
	}
	if len(data) != nx*nz {
		return nil, denseErrorf(ctxFrom, nx, nz, ErrDimensionMismatch)
	}
	if m.validateNaNInf {
		for i, v := range data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, denseErrorf(ctxFrom, i/nz, i%nz, ErrNaNInf)
			}
		}
	}
	copy(m.data, data)

	return m, nil
}

// Rows returns nx. Complexity: O(1).
func (m *Dense) Rows() int { return m.r }

// Cols returns nz. Complexity: O(1).
func (m *Dense) Cols() int { return m.c }

// Shape packs Rows() and Cols() into a single call.
func (m *Dense) Shape() (nx, nz int) { return m.r, m.c }

// Len returns the number of cells.
func (m *Dense) Len() int { return len(m.data) }

// indexOf bounds-checks (ix,iz) and computes the flat offset.
// Public methods wrap the returned sentinel with their own context tag.
func (m *Dense) indexOf(method string, ix, iz int) (int, error) {
	if ix < 0 || ix >= m.r || iz < 0 || iz >= m.c {
		return 0, denseErrorf(method, ix, iz, ErrOutOfRange)
	}

	return ix*m.c + iz, nil
}

// At returns the value at (ix,iz) or ErrOutOfRange.
func (m *Dense) At(ix, iz int) (float64, error) {
	idx, err := m.indexOf(ctxAt, ix, iz)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set assigns v at (ix,iz).
// Errors: ErrOutOfRange; ErrNaNInf when the numeric policy is on.
func (m *Dense) Set(ix, iz int, v float64) error {
	idx, err := m.indexOf(ctxSet, ix, iz)
	if err != nil {
		return err
	}
	if m.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return denseErrorf(ctxSet, ix, iz, ErrNaNInf)
	}
	m.data[idx] = v

	return nil
}

// Add accumulates v into (ix,iz). It is the injection primitive for point
// sources: the result is checked against the numeric policy, not v alone.
func (m *Dense) Add(ix, iz int, v float64) error {
	idx, err := m.indexOf(ctxAdd, ix, iz)
	if err != nil {
		return err
	}
	nv := m.data[idx] + v
	if m.validateNaNInf && (math.IsNaN(nv) || math.IsInf(nv, 0)) {
		return denseErrorf(ctxAdd, ix, iz, ErrNaNInf)
	}
	m.data[idx] = nv

	return nil
}

// Row returns the z-slice of row ix without copying. Writes through the slice
// bypass the numeric policy. Row panics on an out-of-range ix like any slice
// index; kernels validate shapes once before their loops.
func (m *Dense) Row(ix int) []float64 {
	base := ix * m.c

	return m.data[base : base+m.c : base+m.c]
}

// Data returns the flat row-major backing slice (no copy).
func (m *Dense) Data() []float64 { return m.data }

// Fill sets every cell to v.
func (m *Dense) Fill(v float64) {
	for i := range m.data {
		m.data[i] = v
	}
}

// Zero clears the grid.
func (m *Dense) Zero() { clear(m.data) }

// Clone returns a deep copy with the same numeric policy.
// Complexity: O(nx*nz).
func (m *Dense) Clone() *Dense {
	buf := make([]float64, len(m.data))
	copy(buf, m.data)

	return &Dense{r: m.r, c: m.c, data: buf, validateNaNInf: m.validateNaNInf}
}

// CopyFrom overwrites m with src. Shapes must match.
func (m *Dense) CopyFrom(src *Dense) error {
	if src == nil {
		return denseErrorf(ctxCopyFrom, 0, 0, ErrNilGrid)
	}
	if src.r != m.r || src.c != m.c {
		return denseErrorf(ctxCopyFrom, src.r, src.c, ErrDimensionMismatch)
	}
	copy(m.data, src.data)

	return nil
}

// Float32 converts the grid to a row-major float32 slice (on-disk sample format).
func (m *Dense) Float32() []float32 {
	out := make([]float32, len(m.data))
	for i, v := range m.data {
		out[i] = float32(v)
	}

	return out
}

// Do visits each cell in row-major order and calls f(ix,iz,v).
// Stops early when f returns false.
func (m *Dense) Do(f func(ix, iz int, v float64) bool) {
	var ix, iz, base int
	for ix = 0; ix < m.r; ix++ {
		base = ix * m.c
		for iz = 0; iz < m.c; iz++ {
			if !f(ix, iz, m.data[base+iz]) {
				return
			}
		}
	}
}

// Apply replaces each cell with f(ix,iz,v) in place.
// MAIN DESCRIPTION:
//   - In-place map with policy enforcement and deterministic order.
//
// Behavior highlights:
//   - Respects validateNaNInf (rejects NaN/±Inf when enabled).
//   - Early error aborts; cells written before the error remain updated.
//
// Complexity:
//   - Time O(nx*nz), Space O(1).
func (m *Dense) Apply(f func(ix, iz int, v float64) float64) error {
	var ix, iz, base int
	var nv float64
	for ix = 0; ix < m.r; ix++ {
		base = ix * m.c
		for iz = 0; iz < m.c; iz++ {
			nv = f(ix, iz, m.data[base+iz])
			if m.validateNaNInf && (math.IsNaN(nv) || math.IsInf(nv, 0)) {
				return denseErrorf(ctxApply, ix, iz, ErrNaNInf)
			}
			m.data[base+iz] = nv
		}
	}

	return nil
}

// String implements fmt.Stringer: one bracketed line per x row.
func (m *Dense) String() string {
	var sb strings.Builder
	for ix := 0; ix < m.r; ix++ {
		sb.WriteString(_fmtRowOpen)
		row := m.Row(ix)
		for iz, v := range row {
			if iz > 0 {
				sb.WriteString(_fmtSep)
			}
			fmt.Fprintf(&sb, "%g", v)
		}
		sb.WriteString(_fmtRowClose)
	}

	return sb.String()
}
