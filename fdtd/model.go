// SPDX-License-Identifier: MIT

package fdtd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/katalvlaran/acoustic2d/boundary"
	"github.com/katalvlaran/acoustic2d/dataset"
	"github.com/katalvlaran/acoustic2d/grid"
	"github.com/katalvlaran/acoustic2d/stencil"
	"github.com/katalvlaran/acoustic2d/wavelet"
)

// Model is a ready-to-run simulation. Velocity, wavelet and taper are fixed at
// construction and only read by Run.
type Model struct {
	cfg       *Config
	vel       *grid.Dense // padded (v·dt)²
	vmax      float64     // largest interior velocity, for CFL reporting
	wavelet   []float64
	coef      stencil.Coefficients
	prop      Propagator
	sponge    *boundary.Sponge // nil when Border is off
	buf       *BufferPair
	snap      *grid.Dense // nx×nz window of Prev()
	gather    *grid.Dense // nx×nt
	observers []Observer
}

// Result summarises a finished Run.
type Result struct {
	Gather    *grid.Dense // nx×nt receiver gather, rows = lateral position
	Steps     int         // completed time steps
	Snapshots int         // frames written as SnapshotsName
}

// NewModel validates p against the interior velocity grid (nx×nz, m/s) and
// prepares every buffer of the run.
// MAIN DESCRIPTION:
//   - All validation and allocation happen here, so Run cannot fail on
//     configuration and nothing is written before the model exists.
//
// Implementation:
//   - Stage 1: Resolve p → Config (ErrMissingParameter, ErrInvalidParameter,
//     ErrDimensionMismatch, ErrAllocation); velocity must be finite.
//   - Stage 2: pad the velocity with edge replication, then square (v·dt)² in place.
//   - Stage 3: Ricker wavelet, stencil coefficients, propagator, sponge.
//   - Stage 4: BufferPair, snapshot window and gather.
//
// Errors:
//   - see package doc; grid.ErrNilGrid and grid.ErrNaNInf for a bad velocity.
func NewModel(p Params, velocity *grid.Dense, opts ...Option) (*Model, error) {
	if err := grid.ValidateNotNil(velocity); err != nil {
		return nil, fmt.Errorf("NewModel: velocity: %w", err)
	}
	nx, nz := velocity.Shape()
	cfg, err := p.Resolve(nx, nz)
	if err != nil {
		return nil, fmt.Errorf("NewModel: %w", err)
	}
	if err = grid.ValidateFinite(velocity); err != nil {
		return nil, fmt.Errorf("NewModel: velocity: %w", err)
	}
	o := gatherOptions(opts...)

	m := &Model{cfg: cfg, vmax: grid.MaxAbs(velocity), observers: o.observers}
	if m.vel, err = allocate(cfg.NXPad, cfg.NZPad); err != nil {
		return nil, fmt.Errorf("NewModel: velocity: %w", err)
	}
	if err = grid.Expand(m.vel, velocity, cfg.NB, grid.WithWorkers(cfg.Workers)); err != nil {
		return nil, fmt.Errorf("NewModel: %w", err)
	}
	dt := cfg.DT
	if err = m.vel.Apply(func(_, _ int, v float64) float64 {
		v *= dt
		return v * v
	}); err != nil {
		return nil, fmt.Errorf("NewModel: velocity scaling: %w", err)
	}

	if m.wavelet, err = wavelet.Ricker(cfg.NT, cfg.DT, cfg.FM); err != nil {
		return nil, fmt.Errorf("NewModel: %w", err)
	}
	if m.coef, err = stencil.NewCoefficients(cfg.DZ, cfg.DX); err != nil {
		return nil, fmt.Errorf("NewModel: %w", err)
	}
	if m.prop, err = o.factory(m.coef, m.vel, cfg.Workers); err != nil {
		return nil, fmt.Errorf("NewModel: propagator: %w", err)
	}
	if cfg.Border {
		m.sponge, err = boundary.NewSponge(nx, nz, cfg.NB,
			boundary.WithDecay(cfg.Decay), boundary.WithWorkers(cfg.Workers))
		if err != nil {
			return nil, fmt.Errorf("NewModel: %w", err)
		}
	}

	if m.buf, err = NewBufferPair(cfg.NXPad, cfg.NZPad, grid.WithNoValidateNaNInf()); err != nil {
		return nil, fmt.Errorf("NewModel: pressure: %w", err)
	}
	if m.snap, err = allocate(nx, nz, grid.WithNoValidateNaNInf()); err != nil {
		return nil, fmt.Errorf("NewModel: snapshot: %w", err)
	}
	if m.gather, err = allocate(nx, cfg.NT, grid.WithNoValidateNaNInf()); err != nil {
		return nil, fmt.Errorf("NewModel: gather: %w", err)
	}

	return m, nil
}

// Config returns the resolved run geometry.
func (m *Model) Config() *Config { return m.cfg }

// Wavelet returns a copy of the source time function.
func (m *Model) Wavelet() []float64 { return append([]float64(nil), m.wavelet...) }

// Velocity returns the padded (v·dt)² grid. It must not be modified.
func (m *Model) Velocity() *grid.Dense { return m.vel }

// Buffers exposes the pressure pair, mainly for inspection between runs.
func (m *Model) Buffers() *BufferPair { return m.buf }

// Coefficients returns the stencil weights in use.
func (m *Model) Coefficients() stencil.Coefficients { return m.coef }

// CFL returns the Courant number of the run for the fastest velocity.
func (m *Model) CFL() float64 { return CFL(m.vmax, m.cfg.DT, m.cfg.DX, m.cfg.DZ) }

// Run executes the nt time steps and writes snapshots and the gather to w
// (nil discards output). Buffers and gather are reset first, so a Model can
// be run again.
// MAIN DESCRIPTION:
//   - Strictly sequential time loop; per step: record → inject → step →
//     dampen → swap → observe (see package doc for the exact rules).
//
// Behavior highlights:
//   - ctx is checked between steps; a cancelled run returns the partial
//     Result with ctx.Err() wrapped. A step is never interrupted.
//   - Gather columns before FT stay zero.
//   - CheckEvery > 0 validates Curr() every CheckEvery steps (ErrUnstable).
//
// Errors:
//   - ctx errors, ErrUnstable, propagator/observer errors and writer errors,
//     each wrapped with the step index.
func (m *Model) Run(ctx context.Context, w dataset.Writer) (*Result, error) {
	if w == nil {
		w = dataset.Discard
	}
	cfg := m.cfg
	m.buf.Reset()
	m.gather.Zero()
	res := &Result{Gather: m.gather}
	winOpt := grid.WithWorkers(cfg.Workers)

	for it := 0; it < cfg.NT; it++ {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("Run: before step %d: %w", it, err)
		}

		if it >= cfg.FT {
			if err := grid.Window(m.snap, m.buf.Prev(), cfg.NB, winOpt); err != nil {
				return res, fmt.Errorf("Run: step %d: %w", it, err)
			}
			if (it-cfg.FT)%cfg.JT == 0 {
				if err := w.WriteGrid(SnapshotsName, m.snap); err != nil {
					return res, fmt.Errorf("Run: step %d: write %s: %w", it, SnapshotsName, err)
				}
				res.Snapshots++
			}
			for ix := 0; ix < cfg.NX; ix++ {
				m.gather.Row(ix)[it] = m.snap.Row(ix)[cfg.ReceiverDepth]
			}
		}

		curr := m.buf.Curr()
		amp := m.wavelet[it]
		if cfg.HeadWave() {
			curr.Row(cfg.HX)[cfg.HZ] += amp
		}
		curr.Row(cfg.SX)[cfg.SZ] += amp

		if err := m.prop.Step(m.buf.Prev(), curr); err != nil {
			return res, fmt.Errorf("Run: step %d: %w", it, err)
		}
		if m.sponge != nil {
			if err := m.sponge.Dampen(m.buf.Prev(), curr); err != nil {
				return res, fmt.Errorf("Run: step %d: %w", it, err)
			}
		}
		m.buf.Swap()
		res.Steps++

		if cfg.CheckEvery > 0 && res.Steps%cfg.CheckEvery == 0 {
			if err := grid.ValidateFinite(m.buf.Curr()); err != nil {
				return res, fmt.Errorf("Run: step %d: %w", it, errors.Join(ErrUnstable, err))
			}
		}
		for _, o := range m.observers {
			if err := o.OnStep(it, m.buf.Curr()); err != nil {
				return res, fmt.Errorf("Run: step %d: observer: %w", it, err)
			}
		}
	}

	if err := w.WriteGrid(GatherName, m.gather); err != nil {
		return res, fmt.Errorf("Run: write %s: %w", GatherName, err)
	}

	return res, nil
}

// Close releases the propagator when it holds external resources.
func (m *Model) Close() error {
	if c, ok := m.prop.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
