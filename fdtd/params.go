// SPDX-License-Identifier: MIT

package fdtd

import (
	"fmt"
	"math"

	"github.com/katalvlaran/acoustic2d/boundary"
)

// Defaults (single source of truth for DefaultParams and the CLI flags).
const (
	DefaultBorder        = 30
	DefaultPeakFrequency = 20.0
	DefaultFirstFrame    = 0
	DefaultFrameStride   = 1
	DefaultHeadWaveDepth = 35
	DefaultReceiverDepth = 35
	DefaultMaxCells      = 1 << 28
)

// Auto marks SourceX, SourceZ and Receivers as "derive from the padded grid".
const Auto = -1

// Output variable names passed to dataset.Writer.
const (
	SnapshotsName = "snapshots"
	GatherName    = "gather"
)

// Params holds the run parameters. JSON tags follow the classic short
// option names so a config file and the command line read alike.
type Params struct {
	NB     int     `json:"nb"`     // border thickness in cells
	NT     int     `json:"nt"`     // number of time steps (required)
	DT     float64 `json:"dt"`     // time increment in s (required)
	FM     float64 `json:"fm"`     // Ricker peak frequency in Hz
	FT     int     `json:"ft"`     // first recorded step
	JT     int     `json:"jt"`     // snapshot stride
	Border bool    `json:"border"` // apply the sponge

	// Receivers is the receiver count carried from the command line; Auto
	// resolves to nxpad/2. The gather itself always spans every interior x.
	Receivers int `json:"nr"`

	DZ float64 `json:"dz"` // z spacing (required)
	DX float64 `json:"dx"` // x spacing (required)

	Workers       int     `json:"workers"`         // 0 = GOMAXPROCS
	HeadWaveDepth int     `json:"head_wave_depth"` // padded z of the secondary injection; < 0 disables it
	ReceiverDepth int     `json:"receiver_depth"`  // interior z sampled into the gather
	Decay         float64 `json:"decay"`           // sponge decay constant
	SourceX       int     `json:"source_x"`        // padded x of the source; Auto = nxpad/2
	SourceZ       int     `json:"source_z"`        // padded z of the source; Auto = nzpad/2
	MaxCells      int     `json:"max_cells"`       // per-grid cell budget; 0 = unlimited
	CheckEvery    int     `json:"check_every"`     // finiteness check period; 0 disables
}

// DefaultParams returns Params with every optional field at its default.
// NT, DT, DZ and DX stay zero and must be set by the caller.
func DefaultParams() Params {
	return Params{
		NB:            DefaultBorder,
		FM:            DefaultPeakFrequency,
		FT:            DefaultFirstFrame,
		JT:            DefaultFrameStride,
		Receivers:     Auto,
		HeadWaveDepth: DefaultHeadWaveDepth,
		ReceiverDepth: DefaultReceiverDepth,
		Decay:         boundary.DefaultDecay,
		SourceX:       Auto,
		SourceZ:       Auto,
		MaxCells:      DefaultMaxCells,
	}
}

// Config is the resolved, immutable geometry of one run.
type Config struct {
	Params

	NX, NZ       int // interior extent
	NXPad, NZPad int // padded extent
	SX, SZ       int // padded source cell
	HX, HZ       int // padded head-wave cell; HZ < 0 when disabled
	Frames       int // number of snapshots Run writes
}

// HeadWave reports whether the secondary injection is active.
func (c *Config) HeadWave() bool { return c.HZ >= 0 }

// paramErrorf wraps a parameter sentinel with the offending field.
func paramErrorf(field string, v any, err error) error {
	return fmt.Errorf("Params.%s=%v: %w", field, v, err)
}

// Validate checks p for an nx×nz interior without allocating anything.
//
// Order: required scalars (ErrMissingParameter) → domains (ErrInvalidParameter)
// → geometry (ErrDimensionMismatch) → sizes (ErrAllocation).
func (p Params) Validate(nx, nz int) error {
	_, err := p.Resolve(nx, nz)

	return err
}

// Resolve validates p and derives the run geometry.
func (p Params) Resolve(nx, nz int) (*Config, error) {
	switch {
	case p.NT == 0:
		return nil, paramErrorf("NT", p.NT, ErrMissingParameter)
	case p.DT == 0:
		return nil, paramErrorf("DT", p.DT, ErrMissingParameter)
	case p.DZ == 0:
		return nil, paramErrorf("DZ", p.DZ, ErrMissingParameter)
	case p.DX == 0:
		return nil, paramErrorf("DX", p.DX, ErrMissingParameter)
	}

	switch {
	case p.NT < 0:
		return nil, paramErrorf("NT", p.NT, ErrInvalidParameter)
	case !positive(p.DT):
		return nil, paramErrorf("DT", p.DT, ErrInvalidParameter)
	case !positive(p.DZ):
		return nil, paramErrorf("DZ", p.DZ, ErrInvalidParameter)
	case !positive(p.DX):
		return nil, paramErrorf("DX", p.DX, ErrInvalidParameter)
	case !positive(p.FM):
		return nil, paramErrorf("FM", p.FM, ErrInvalidParameter)
	case p.NB < 0:
		return nil, paramErrorf("NB", p.NB, ErrInvalidParameter)
	case p.FT < 0:
		return nil, paramErrorf("FT", p.FT, ErrInvalidParameter)
	case p.JT < 1:
		return nil, paramErrorf("JT", p.JT, ErrInvalidParameter)
	case p.Workers < 0:
		return nil, paramErrorf("Workers", p.Workers, ErrInvalidParameter)
	case p.MaxCells < 0:
		return nil, paramErrorf("MaxCells", p.MaxCells, ErrInvalidParameter)
	case p.CheckEvery < 0:
		return nil, paramErrorf("CheckEvery", p.CheckEvery, ErrInvalidParameter)
	case p.Decay < 0 || math.IsNaN(p.Decay) || math.IsInf(p.Decay, 0):
		return nil, paramErrorf("Decay", p.Decay, ErrInvalidParameter)
	}

	if nx <= 0 || nz <= 0 {
		return nil, fmt.Errorf("Resolve: interior %dx%d: %w", nx, nz, ErrDimensionMismatch)
	}
	if p.NB == 1 {
		return nil, paramErrorf("NB", p.NB, fmt.Errorf("border of one cell is narrower than the stencil margin: %w", ErrDimensionMismatch))
	}
	if nx > (math.MaxInt-2*p.NB) || nz > (math.MaxInt-2*p.NB) {
		return nil, fmt.Errorf("Resolve: padded extent overflows: %w", ErrAllocation)
	}
	c := &Config{Params: p, NX: nx, NZ: nz, NXPad: nx + 2*p.NB, NZPad: nz + 2*p.NB}
	if c.NXPad < 5 || c.NZPad < 5 {
		return nil, fmt.Errorf("Resolve: padded grid %dx%d smaller than 5x5: %w", c.NXPad, c.NZPad, ErrDimensionMismatch)
	}
	if err := checkCells(c.NXPad, c.NZPad, p.MaxCells); err != nil {
		return nil, fmt.Errorf("Resolve: padded grid: %w", err)
	}
	if err := checkCells(nx, p.NT, p.MaxCells); err != nil {
		return nil, fmt.Errorf("Resolve: gather: %w", err)
	}

	c.SX, c.SZ = p.SourceX, p.SourceZ
	if c.SX < 0 {
		c.SX = c.NXPad / 2
	}
	if c.SZ < 0 {
		c.SZ = c.NZPad / 2
	}
	if c.SX >= c.NXPad || c.SZ >= c.NZPad {
		return nil, fmt.Errorf("Resolve: source (%d,%d) outside %dx%d: %w", c.SX, c.SZ, c.NXPad, c.NZPad, ErrDimensionMismatch)
	}
	c.HX, c.HZ = c.NXPad/2, p.HeadWaveDepth
	if c.HZ >= c.NZPad {
		return nil, fmt.Errorf("Resolve: head-wave depth %d outside padded z extent %d: %w", c.HZ, c.NZPad, ErrDimensionMismatch)
	}
	if c.HZ < 0 {
		c.HZ = -1
	}
	if p.ReceiverDepth < 0 || p.ReceiverDepth >= nz {
		return nil, fmt.Errorf("Resolve: receiver depth %d outside interior z extent %d: %w", p.ReceiverDepth, nz, ErrDimensionMismatch)
	}
	if c.Receivers < 0 {
		c.Receivers = c.NXPad / 2
	}
	if p.NT > p.FT {
		c.Frames = (p.NT - p.FT + p.JT - 1) / p.JT
	}

	return c, nil
}

// checkCells rejects a×b grids that overflow int or exceed limit (0 = unlimited).
func checkCells(a, b, limit int) error {
	if a > math.MaxInt/b {
		return fmt.Errorf("%dx%d overflows: %w", a, b, ErrAllocation)
	}
	if limit > 0 && a*b > limit {
		return fmt.Errorf("%dx%d exceeds %d cells: %w", a, b, limit, ErrAllocation)
	}

	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
