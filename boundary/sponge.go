// SPDX-License-Identifier: MIT

package boundary

import (
	"fmt"

	"github.com/katalvlaran/acoustic2d/grid"
	"github.com/katalvlaran/acoustic2d/parallel"
)

const panicWorkersInvalid = "boundary: WithWorkers: workers must be >= 0"

// Option configures a Sponge.
type Option func(*options)

type options struct {
	decay   float64
	workers int
}

// WithDecay overrides DefaultDecay. Validation happens in NewSponge.
func WithDecay(k float64) Option {
	return func(o *options) { o.decay = k }
}

// WithWorkers bounds the goroutines used per pass (0 = GOMAXPROCS).
func WithWorkers(n int) Option {
	if n < 0 {
		panic(panicWorkersInvalid)
	}

	return func(o *options) { o.workers = n }
}

// Sponge damps the nb-cell border of (nx+2nb)×(nz+2nb) fields.
// It is immutable after NewSponge and safe for concurrent Dampen calls on
// distinct fields.
type Sponge struct {
	nx, nz, nb   int
	nxpad, nzpad int
	coef         []float64
	workers      int
}

// NewSponge builds the taper for an nx×nz interior padded by nb cells.
func NewSponge(nx, nz, nb int, opts ...Option) (*Sponge, error) {
	if nx <= 0 || nz <= 0 {
		return nil, fmt.Errorf("NewSponge: %dx%d: %w", nx, nz, grid.ErrInvalidDimensions)
	}
	o := options{decay: DefaultDecay}
	for _, set := range opts {
		set(&o)
	}
	coef, err := Taper(nb, o.decay)
	if err != nil {
		return nil, fmt.Errorf("NewSponge: %w", err)
	}

	return &Sponge{
		nx:      nx,
		nz:      nz,
		nb:      nb,
		nxpad:   nx + 2*nb,
		nzpad:   nz + 2*nb,
		coef:    coef,
		workers: o.workers,
	}, nil
}

// Coefficients returns a copy of the taper profile.
func (s *Sponge) Coefficients() []float64 {
	return append([]float64(nil), s.coef...)
}

// Border returns the border thickness nb.
func (s *Sponge) Border() int { return s.nb }

// Dampen multiplies, in place, every border cell of a and b by the taper.
//
// Pass 1 (z): for every ix, top cells iz ∈ [0,nb) use coef[iz] and bottom cells
// iz ∈ [nz+nb,nzpad) use coef[nzpad-iz-1]. Pass 2 (x), after pass 1 finished:
// left rows ix ∈ [0,nb) use coef[ix] and right rows ix ∈ [nx+nb,nxpad) use
// coef[nxpad-ix-1], across all iz. Each pass splits x into disjoint row ranges.
func (s *Sponge) Dampen(a, b *grid.Dense) error {
	if err := grid.ValidateShape(a, s.nxpad, s.nzpad); err != nil {
		return fmt.Errorf("Dampen: %w", err)
	}
	if err := grid.ValidateShape(b, s.nxpad, s.nzpad); err != nil {
		return fmt.Errorf("Dampen: %w", err)
	}
	if s.nb == 0 {
		return nil
	}
	nb, nzpad, nxpad, coef := s.nb, s.nzpad, s.nxpad, s.coef

	parallel.For(nxpad, s.workers, func(lo, hi int) {
		for ix := lo; ix < hi; ix++ {
			ra, rb := a.Row(ix), b.Row(ix)
			for iz := 0; iz < nb; iz++ {
				ra[iz] *= coef[iz]
				rb[iz] *= coef[iz]
			}
			for iz := s.nz + nb; iz < nzpad; iz++ {
				c := coef[nzpad-iz-1]
				ra[iz] *= c
				rb[iz] *= c
			}
		}
	})

	parallel.For(nb, s.workers, func(lo, hi int) {
		for ix := lo; ix < hi; ix++ {
			scaleRow(a.Row(ix), coef[ix])
			scaleRow(b.Row(ix), coef[ix])
			right := nxpad - ix - 1 // coef[nxpad-right-1] == coef[ix]
			scaleRow(a.Row(right), coef[ix])
			scaleRow(b.Row(right), coef[ix])
		}
	})

	return nil
}

func scaleRow(row []float64, c float64) {
	for i := range row {
		row[i] *= c
	}
}
