// SPDX-License-Identifier: MIT

// Package gather analyses receiver gathers: one trace per lateral position,
// samples along time.
package gather

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/acoustic2d/grid"
)

// ErrBadAxis indicates a non-positive or non-finite sampling interval.
var ErrBadAxis = errors.New("gather: sampling intervals must be finite and > 0")

// Gather wraps an nx×nt grid (rows = receivers, cols = time samples) with its
// sampling intervals.
type Gather struct {
	data   *grid.Dense
	dt, dx float64
}

// New wraps g without copying; g must not change while the Gather is in use.
func New(g *grid.Dense, dt, dx float64) (*Gather, error) {
	if err := grid.ValidateNotNil(g); err != nil {
		return nil, fmt.Errorf("gather.New: %w", err)
	}
	if !(dt > 0) || !(dx > 0) || math.IsInf(dt, 1) || math.IsInf(dx, 1) {
		return nil, fmt.Errorf("gather.New: dt=%g dx=%g: %w", dt, dx, ErrBadAxis)
	}

	return &Gather{data: g, dt: dt, dx: dx}, nil
}

// Grid returns the wrapped grid.
func (g *Gather) Grid() *grid.Dense { return g.data }

// Receivers returns the number of traces.
func (g *Gather) Receivers() int { return g.data.Rows() }

// Samples returns the number of time samples per trace.
func (g *Gather) Samples() int { return g.data.Cols() }

// Times returns the sample times 0, dt, …, (nt-1)·dt.
func (g *Gather) Times() []float64 {
	nt := g.Samples()
	if nt == 1 {
		return []float64{0}
	}

	return floats.Span(make([]float64, nt), 0, float64(nt-1)*g.dt)
}

// Offsets returns the receiver positions 0, dx, …, (nx-1)·dx.
func (g *Gather) Offsets() []float64 {
	nx := g.Receivers()
	if nx == 1 {
		return []float64{0}
	}

	return floats.Span(make([]float64, nx), 0, float64(nx-1)*g.dx)
}

// Trace returns a copy of trace ix.
func (g *Gather) Trace(ix int) ([]float64, error) {
	if ix < 0 || ix >= g.Receivers() {
		return nil, fmt.Errorf("Trace(%d): %w", ix, grid.ErrOutOfRange)
	}

	return append([]float64(nil), g.data.Row(ix)...), nil
}

// RMS returns the root-mean-square amplitude of the whole gather.
func (g *Gather) RMS() float64 {
	d := g.data.Data()

	return floats.Norm(d, 2) / math.Sqrt(float64(len(d)))
}

// MaxAbs returns the largest absolute sample.
func (g *Gather) MaxAbs() float64 { return grid.MaxAbs(g.data) }

// ReflectionEnergy sums the squared samples of every trace from time index
// from onward. With from past the direct arrival it measures energy coming
// back from the model edges.
func (g *Gather) ReflectionEnergy(from int) (float64, error) {
	nt := g.Samples()
	if from < 0 || from > nt {
		return 0, fmt.Errorf("ReflectionEnergy(%d): %w", from, grid.ErrOutOfRange)
	}
	var e float64
	for ix := 0; ix < g.Receivers(); ix++ {
		tail := g.data.Row(ix)[from:]
		e += floats.Dot(tail, tail)
	}

	return e, nil
}

// FirstArrival returns the first sample of trace ix whose magnitude exceeds
// fraction·max|trace|. ok is false for an all-zero trace.
func (g *Gather) FirstArrival(ix int, fraction float64) (it int, ok bool, err error) {
	tr, err := g.Trace(ix)
	if err != nil {
		return 0, false, err
	}
	peak := floats.Norm(tr, math.Inf(1))
	if peak == 0 {
		return 0, false, nil
	}
	limit := fraction * peak
	for i, v := range tr {
		if math.Abs(v) > limit {
			return i, true, nil
		}
	}

	return 0, false, nil
}

// Diff returns a - b sample by sample. Shapes and sampling must agree.
func Diff(a, b *Gather) (*Gather, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("gather.Diff: %w", grid.ErrNilGrid)
	}
	if err := grid.ValidateSameShape(a.data, b.data); err != nil {
		return nil, fmt.Errorf("gather.Diff: %w", err)
	}
	if a.dt != b.dt || a.dx != b.dx {
		return nil, fmt.Errorf("gather.Diff: sampling (%g,%g) vs (%g,%g): %w", a.dt, a.dx, b.dt, b.dx, ErrBadAxis)
	}
	nx, nt := a.data.Shape()
	out, err := grid.NewDense(nx, nt, grid.WithNoValidateNaNInf())
	if err != nil {
		return nil, fmt.Errorf("gather.Diff: %w", err)
	}
	floats.SubTo(out.Data(), a.data.Data(), b.data.Data())

	return &Gather{data: out, dt: a.dt, dx: a.dx}, nil
}
