package fdtd_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/acoustic2d/dataset"
	"github.com/katalvlaran/acoustic2d/fdtd"
	"github.com/katalvlaran/acoustic2d/gather"
	"github.com/katalvlaran/acoustic2d/grid"
	"github.com/katalvlaran/acoustic2d/stencil"
)

// ModelSuite runs full simulations on small grids.
type ModelSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *ModelSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *ModelSuite) velocity(nx, nz int, v float64) *grid.Dense {
	m, err := grid.NewDense(nx, nz)
	require.NoError(s.T(), err)
	m.Fill(v)

	return m
}

func (s *ModelSuite) at(m *grid.Dense, ix, iz int) float64 {
	v, err := m.At(ix, iz)
	require.NoError(s.T(), err)

	return v
}

// TestEndToEnd: 50×50, dz=dx=10, nb=10, nt=100, dt=1ms, fm=20 Hz, sponge on.
func (s *ModelSuite) TestEndToEnd() {
	p := fdtd.DefaultParams()
	p.NB, p.NT, p.DT, p.DZ, p.DX, p.FM, p.Border = 10, 100, 0.001, 10, 10, 20, true
	p.CheckEvery = 1

	steps := 0
	finite := fdtd.ObserverFunc(func(it int, field *grid.Dense) error {
		s.Require().Equal(steps, it)
		steps++
		s.Require().NoError(grid.ValidateFinite(field), "step %d", it)
		return nil
	})
	m, err := fdtd.NewModel(p, s.velocity(50, 50, 1500), fdtd.WithObserver(finite))
	s.Require().NoError(err)

	mem := dataset.NewMemory()
	res, err := m.Run(s.ctx, mem)
	s.Require().NoError(err)
	s.Equal(100, res.Steps)
	s.Equal(100, res.Snapshots)
	s.Equal(100, steps)

	nx, nt := res.Gather.Shape()
	s.Equal(50, nx)
	s.Equal(100, nt)
	s.Greater(grid.MaxAbs(res.Gather), 0.0)

	frames := mem.Frames(fdtd.SnapshotsName)
	s.Require().Len(frames, 100)
	stored := mem.Frames(fdtd.GatherName)
	s.Require().Len(stored, 1)
	s.True(grid.Equal(res.Gather, stored[0]))
	for it, frame := range frames {
		r, c := frame.Shape()
		s.Require().Equal(50, r)
		s.Require().Equal(50, c)
		for ix := 0; ix < 50; ix++ {
			s.Require().Equal(s.at(frame, ix, 35), s.at(res.Gather, ix, it), "gather column %d", it)
		}
	}
	s.Less(m.CFL(), fdtd.CFLWarn)
}

// TestSymmetry: homogeneous medium, centred source, no damping, odd padded grid.
func (s *ModelSuite) TestSymmetry() {
	p := fdtd.DefaultParams()
	p.NB, p.NT, p.DT, p.DZ, p.DX = 2, 80, 0.001, 10, 10
	p.HeadWaveDepth, p.ReceiverDepth = -1, 4
	n := 19 // padded 23, source at 11

	checked := 0
	mirror := fdtd.ObserverFunc(func(it int, f *grid.Dense) error {
		nxpad, nzpad := f.Shape()
		for ix := 0; ix < nxpad; ix++ {
			row, mx := f.Row(ix), f.Row(nxpad-1-ix)
			for iz := 0; iz < nzpad; iz++ {
				if row[iz] != mx[iz] || row[iz] != row[nzpad-1-iz] {
					return errors.New("asymmetric field")
				}
			}
		}
		checked++
		return nil
	})
	m, err := fdtd.NewModel(p, s.velocity(n, n, 2000), fdtd.WithObserver(mirror))
	s.Require().NoError(err)
	s.Require().Equal(11, m.Config().SX)
	s.Require().Equal(11, m.Config().SZ)

	_, err = m.Run(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(80, checked)
	s.Greater(grid.MaxAbs(m.Buffers().Curr()), 0.0)
}

// TestZeroVelocity: only the injected cells ever hold non-zero pressure.
func (s *ModelSuite) TestZeroVelocity() {
	p := fdtd.DefaultParams()
	p.NB, p.NT, p.DT, p.DZ, p.DX = 2, 30, 0.001, 10, 10
	p.HeadWaveDepth, p.ReceiverDepth = 3, 0

	var sx, sz, hx, hz int
	quiet := fdtd.ObserverFunc(func(it int, f *grid.Dense) error {
		bad := false
		f.Do(func(ix, iz int, v float64) bool {
			if v != 0 && !(ix == sx && iz == sz) && !(ix == hx && iz == hz) {
				bad = true
				return false
			}
			return true
		})
		if bad {
			return errors.New("pressure outside the source cells")
		}
		return nil
	})
	m, err := fdtd.NewModel(p, s.velocity(12, 14, 0), fdtd.WithObserver(quiet))
	s.Require().NoError(err)
	cfg := m.Config()
	sx, sz, hx, hz = cfg.SX, cfg.SZ, cfg.HX, cfg.HZ

	_, err = m.Run(s.ctx, nil)
	s.Require().NoError(err)
	s.NotZero(s.at(m.Buffers().Curr(), sx, sz))
	s.NotZero(s.at(m.Buffers().Curr(), hx, hz))
}

// TestSwapParity: after one step Curr() is the original Prev(); after two
// both slots are back to their original objects.
func (s *ModelSuite) TestSwapParity() {
	p := fdtd.DefaultParams()
	p.NB, p.NT, p.DT, p.DZ, p.DX = 2, 1, 0.001, 10, 10
	p.HeadWaveDepth, p.ReceiverDepth = -1, 0

	m, err := fdtd.NewModel(p, s.velocity(9, 9, 1500))
	s.Require().NoError(err)
	prev, curr := m.Buffers().Prev(), m.Buffers().Curr()

	_, err = m.Run(s.ctx, nil)
	s.Require().NoError(err)
	s.Same(prev, m.Buffers().Curr())
	s.Greater(grid.MaxAbs(m.Buffers().Curr()), 0.0, "the t+1 level lives in the old prev buffer")

	p.NT = 2
	m, err = fdtd.NewModel(p, s.velocity(9, 9, 1500))
	s.Require().NoError(err)
	prev, curr = m.Buffers().Prev(), m.Buffers().Curr()
	_, err = m.Run(s.ctx, nil)
	s.Require().NoError(err)
	s.Same(prev, m.Buffers().Prev())
	s.Same(curr, m.Buffers().Curr())
}

// TestWorkersBitIdentical compares a serial and a parallel run with sponge.
func (s *ModelSuite) TestWorkersBitIdentical() {
	run := func(workers int) (*grid.Dense, *grid.Dense) {
		p := fdtd.DefaultParams()
		p.NB, p.NT, p.DT, p.DZ, p.DX, p.Border = 6, 60, 0.001, 10, 8, true
		p.HeadWaveDepth, p.ReceiverDepth, p.Workers = 4, 5, workers
		vel, err := grid.NewDense(30, 24)
		s.Require().NoError(err)
		s.Require().NoError(vel.Apply(func(ix, iz int, _ float64) float64 {
			return 1500 + 20*float64(iz) + 3*float64(ix)
		}))
		m, err := fdtd.NewModel(p, vel)
		s.Require().NoError(err)
		res, err := m.Run(s.ctx, nil)
		s.Require().NoError(err)
		return res.Gather.Clone(), m.Buffers().Curr().Clone()
	}
	g1, f1 := run(1)
	g8, f8 := run(8)
	s.True(grid.Equal(g1, g8))
	s.True(grid.Equal(f1, f8))
}

// TestSpongeReducesReflections compares late receiver energy with and without
// the absorbing border.
func (s *ModelSuite) TestSpongeReducesReflections() {
	energy := func(border bool) float64 {
		p := fdtd.DefaultParams()
		p.NB, p.NT, p.DT, p.DZ, p.DX, p.Border = 20, 500, 0.001, 10, 10, border
		p.HeadWaveDepth, p.ReceiverDepth = -1, 5
		m, err := fdtd.NewModel(p, s.velocity(40, 40, 2000))
		s.Require().NoError(err)
		res, err := m.Run(s.ctx, nil)
		s.Require().NoError(err)
		g, err := gather.New(res.Gather, p.DT, p.DX)
		s.Require().NoError(err)
		e, err := g.ReflectionEnergy(220)
		s.Require().NoError(err)
		return e
	}
	damped, raw := energy(true), energy(false)
	s.Greater(raw, 0.0)
	s.Less(damped, raw)
}

// TestFirstFrameAndStride checks ft/jt bookkeeping.
func (s *ModelSuite) TestFirstFrameAndStride() {
	p := fdtd.DefaultParams()
	p.NB, p.NT, p.DT, p.DZ, p.DX = 2, 10, 0.001, 10, 10
	p.FT, p.JT = 3, 3
	p.HeadWaveDepth, p.ReceiverDepth = -1, 2

	m, err := fdtd.NewModel(p, s.velocity(7, 7, 1500))
	s.Require().NoError(err)
	mem := dataset.NewMemory()
	res, err := m.Run(s.ctx, mem)
	s.Require().NoError(err)
	s.Equal(3, res.Snapshots)
	s.Equal(m.Config().Frames, res.Snapshots)
	s.Len(mem.Frames(fdtd.SnapshotsName), 3)
	for ix := 0; ix < 7; ix++ {
		for it := 0; it < 3; it++ {
			s.Zero(s.at(res.Gather, ix, it))
		}
	}
	frame6 := mem.Frames(fdtd.SnapshotsName)[1]
	for ix := 0; ix < 7; ix++ {
		s.Equal(s.at(frame6, ix, 2), s.at(res.Gather, ix, 6))
	}
}

// TestRunTwice: Run resets state, so two runs produce identical gathers.
func (s *ModelSuite) TestRunTwice() {
	p := fdtd.DefaultParams()
	p.NB, p.NT, p.DT, p.DZ, p.DX, p.Border = 4, 25, 0.001, 10, 10, true
	p.HeadWaveDepth, p.ReceiverDepth = 2, 3
	m, err := fdtd.NewModel(p, s.velocity(10, 10, 1800))
	s.Require().NoError(err)
	first, err := m.Run(s.ctx, nil)
	s.Require().NoError(err)
	g := first.Gather.Clone()
	second, err := m.Run(s.ctx, nil)
	s.Require().NoError(err)
	s.True(grid.Equal(g, second.Gather))
}

// TestCancellation stops between steps.
func (s *ModelSuite) TestCancellation() {
	p := fdtd.DefaultParams()
	p.NB, p.NT, p.DT, p.DZ, p.DX = 2, 50, 0.001, 10, 10
	p.HeadWaveDepth, p.ReceiverDepth = -1, 0

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := fdtd.ObserverFunc(func(it int, _ *grid.Dense) error {
		if it == 5 {
			cancel()
		}
		return nil
	})
	m, err := fdtd.NewModel(p, s.velocity(8, 8, 1500), fdtd.WithObserver(stop))
	s.Require().NoError(err)
	mem := dataset.NewMemory()
	res, err := m.Run(ctx, mem)
	s.ErrorIs(err, context.Canceled)
	s.Equal(6, res.Steps)
	s.Empty(mem.Frames(fdtd.GatherName), "gather is only written by a complete run")
}

// TestObserverError aborts the run.
func (s *ModelSuite) TestObserverError() {
	p := fdtd.DefaultParams()
	p.NB, p.NT, p.DT, p.DZ, p.DX = 2, 10, 0.001, 10, 10
	p.HeadWaveDepth, p.ReceiverDepth = -1, 0
	boom := errors.New("boom")
	m, err := fdtd.NewModel(p, s.velocity(8, 8, 1500),
		fdtd.WithObserver(fdtd.ObserverFunc(func(int, *grid.Dense) error { return boom })))
	s.Require().NoError(err)
	res, err := m.Run(s.ctx, nil)
	s.ErrorIs(err, boom)
	s.Equal(1, res.Steps)
}

// TestUnstable detects blow-up far beyond the CFL limit.
func (s *ModelSuite) TestUnstable() {
	p := fdtd.DefaultParams()
	p.NB, p.NT, p.DT, p.DZ, p.DX = 2, 400, 0.001, 10, 10
	p.HeadWaveDepth, p.ReceiverDepth, p.CheckEvery = -1, 0, 1
	m, err := fdtd.NewModel(p, s.velocity(16, 16, 1e6))
	s.Require().NoError(err)
	s.Greater(m.CFL(), 1.0)
	res, err := m.Run(s.ctx, nil)
	s.ErrorIs(err, fdtd.ErrUnstable)
	s.Less(res.Steps, 400)
}

// TestVelocityScaling checks the padded (v·dt)² grid.
func (s *ModelSuite) TestVelocityScaling() {
	p := fdtd.DefaultParams()
	p.NB, p.NT, p.DT, p.DZ, p.DX = 3, 1, 0.002, 10, 10
	p.HeadWaveDepth, p.ReceiverDepth = -1, 0
	vel, err := grid.NewDenseFrom(2, 3, []float64{1000, 1100, 1200, 1300, 1400, 1500})
	s.Require().NoError(err)
	m, err := fdtd.NewModel(p, vel)
	s.Require().NoError(err)

	sq := func(v float64) float64 {
		v *= 0.002
		return v * v
	}
	pv := m.Velocity()
	s.Equal(sq(1000), s.at(pv, 0, 0), "corner replicates the nearest interior cell")
	s.Equal(sq(1500), s.at(pv, 7, 8))
	s.Equal(sq(1200), s.at(pv, 3, 8))
	s.Equal(sq(1400), s.at(pv, 4, 4))
	s.Equal(0.0, m.Coefficients().Residual())
	s.Len(m.Wavelet(), 1)
}

// TestPropagatorFactory swaps in a counting wrapper.
func (s *ModelSuite) TestPropagatorFactory() {
	p := fdtd.DefaultParams()
	p.NB, p.NT, p.DT, p.DZ, p.DX = 2, 12, 0.001, 10, 10
	p.HeadWaveDepth, p.ReceiverDepth = -1, 0

	counter := &countingPropagator{}
	factory := func(c stencil.Coefficients, vel *grid.Dense, workers int) (fdtd.Propagator, error) {
		inner, err := fdtd.CPUPropagator(c, vel, workers)
		counter.inner = inner
		return counter, err
	}
	m, err := fdtd.NewModel(p, s.velocity(8, 8, 1500), fdtd.WithPropagator(factory))
	s.Require().NoError(err)
	_, err = m.Run(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(12, counter.calls)
	s.NoError(m.Close())
	s.True(counter.closed)
}

// TestNewModelErrors covers velocity problems and option panics.
func (s *ModelSuite) TestNewModelErrors() {
	p := fdtd.DefaultParams()
	p.NB, p.NT, p.DT, p.DZ, p.DX = 2, 10, 0.001, 10, 10
	p.HeadWaveDepth, p.ReceiverDepth = -1, 0

	_, err := fdtd.NewModel(p, nil)
	s.ErrorIs(err, grid.ErrNilGrid)

	bad, err := grid.NewDense(6, 6, grid.WithNoValidateNaNInf())
	s.Require().NoError(err)
	s.Require().NoError(bad.Set(2, 2, math.Inf(1)))
	_, err = fdtd.NewModel(p, bad)
	s.ErrorIs(err, grid.ErrNaNInf)

	p.DT = 0
	_, err = fdtd.NewModel(p, s.velocity(6, 6, 1500))
	s.ErrorIs(err, fdtd.ErrMissingParameter)

	s.Panics(func() { fdtd.WithObserver(nil) })
	s.Panics(func() { fdtd.WithPropagator(nil) })
}

func TestModelSuite(t *testing.T) {
	suite.Run(t, new(ModelSuite))
}

type countingPropagator struct {
	inner  fdtd.Propagator
	calls  int
	closed bool
}

func (c *countingPropagator) Step(out, in *grid.Dense) error {
	c.calls++
	return c.inner.Step(out, in)
}

func (c *countingPropagator) Close() error {
	c.closed = true
	return nil
}
