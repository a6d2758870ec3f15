// SPDX-License-Identifier: MIT

package stencil

import (
	"fmt"

	"github.com/katalvlaran/acoustic2d/grid"
	"github.com/katalvlaran/acoustic2d/parallel"
)

// Margin is the number of cells on each side that Step never writes.
const Margin = 2

// minExtent is the smallest padded extent with at least one updated cell.
const minExtent = 2*Margin + 1

const panicWorkersInvalid = "stencil: WithWorkers: workers must be >= 0"

// Option configures a Stepper.
type Option func(*options)

type options struct {
	workers int
}

// WithWorkers bounds the goroutines used per Step (0 = GOMAXPROCS).
func WithWorkers(n int) Option {
	if n < 0 {
		panic(panicWorkersInvalid)
	}

	return func(o *options) { o.workers = n }
}

// Stepper is the CPU leapfrog kernel bound to one velocity grid.
// It only reads vel, so one Stepper may serve several buffer pairs as long as
// their Step calls do not overlap on the same out grid.
type Stepper struct {
	coef    Coefficients
	vel     *grid.Dense
	workers int
}

// NewStepper binds coef to the padded velocity grid vel, which must already
// hold (v·dt)². vel is retained, not copied.
func NewStepper(coef Coefficients, vel *grid.Dense, opts ...Option) (*Stepper, error) {
	if err := grid.ValidateNotNil(vel); err != nil {
		return nil, fmt.Errorf("NewStepper: %w", err)
	}
	if nxpad, nzpad := vel.Shape(); nxpad < minExtent || nzpad < minExtent {
		return nil, fmt.Errorf("NewStepper: padded grid %dx%d smaller than %dx%d: %w",
			nxpad, nzpad, minExtent, minExtent, grid.ErrDimensionMismatch)
	}
	var o options
	for _, set := range opts {
		set(&o)
	}

	return &Stepper{coef: coef, vel: vel, workers: o.workers}, nil
}

// Coefficients returns the weights the stepper was built with.
func (s *Stepper) Coefficients() Coefficients { return s.coef }

// Step writes the t+1 level into out, given the t level in in and the t-1
// level already held by out. Cells within Margin of any edge keep their value.
//
// Errors: grid.ErrNilGrid, grid.ErrDimensionMismatch when out or in differ
// from the velocity grid's shape, ErrAliased when out == in.
func (s *Stepper) Step(out, in *grid.Dense) error {
	if out == in && out != nil {
		return fmt.Errorf("Step: %w", ErrAliased)
	}
	nxpad, nzpad := s.vel.Shape()
	if err := grid.ValidateShape(out, nxpad, nzpad); err != nil {
		return fmt.Errorf("Step: out: %w", err)
	}
	if err := grid.ValidateShape(in, nxpad, nzpad); err != nil {
		return fmt.Errorf("Step: in: %w", err)
	}
	c0, c11, c12, c21, c22 := s.coef.C0, s.coef.C11, s.coef.C12, s.coef.C21, s.coef.C22
	hi := nzpad - Margin

	parallel.ForRange(Margin, nxpad-Margin, s.workers, func(lo, end int) {
		for ix := lo; ix < end; ix++ {
			o, v := out.Row(ix), s.vel.Row(ix)
			p := in.Row(ix)
			pl1, pr1 := in.Row(ix-1), in.Row(ix+1)
			pl2, pr2 := in.Row(ix-2), in.Row(ix+2)
			for iz := Margin; iz < hi; iz++ {
				lap := c0*p[iz] +
					c11*(p[iz-1]+p[iz+1]) +
					c12*(p[iz-2]+p[iz+2]) +
					c21*(pl1[iz]+pr1[iz]) +
					c22*(pl2[iz]+pr2[iz])
				o[iz] = 2*p[iz] - o[iz] + v[iz]*lap
			}
		}
	})

	return nil
}
