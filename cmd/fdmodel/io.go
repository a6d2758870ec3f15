package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/katalvlaran/acoustic2d/dataset"
	"github.com/katalvlaran/acoustic2d/fdtd"
	"github.com/katalvlaran/acoustic2d/gather"
	"github.com/katalvlaran/acoustic2d/grid"
	"github.com/katalvlaran/acoustic2d/render"
	"github.com/katalvlaran/acoustic2d/wavelet"
)

const (
	formatNetCDF = "netcdf"
	formatRaw    = "raw"

	velocityName = "velocity"
	modelFile    = "model.nc"
)

// readVelocity loads an interior velocity grid. NetCDF files carry their own
// shape and may carry dz/dx attributes; raw files need nx and nz.
func readVelocity(path string, nx, nz int) (v *grid.Dense, dz, dx float64, err error) {
	if strings.EqualFold(filepath.Ext(path), dataset.RawExt) {
		dir, base := filepath.Split(path)
		d, err := dataset.NewRawDir(filepath.Clean(dir))
		if err != nil {
			return nil, 0, 0, err
		}
		defer d.Close()
		v, err = d.ReadGrid(strings.TrimSuffix(base, filepath.Ext(base)), nx, nz)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("read %s: %w", path, err)
		}

		return v, 0, 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()
	r, err := dataset.OpenNetCDF(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("read %s: %w", path, err)
	}
	shape, err := r.Shape(velocityName)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("read %s: %w", path, err)
	}
	if len(shape) != 2 {
		return nil, 0, 0, fmt.Errorf("read %s: %s has %d dimensions, want 2: %w",
			path, velocityName, len(shape), dataset.ErrShape)
	}
	if v, err = r.ReadGrid(velocityName, shape[0], shape[1]); err != nil {
		return nil, 0, 0, fmt.Errorf("read %s: %w", path, err)
	}
	dz = attrFloat(r, "dz")
	dx = attrFloat(r, "dx")

	return v, dz, dx, nil
}

// attrFloat prefers the variable attribute over the global one.
func attrFloat(r *dataset.NetCDFReader, name string) float64 {
	if f, ok := r.Float(velocityName, name); ok {
		return f
	}
	f, _ := r.Float("", name)

	return f
}

// output bundles the run writer with everything that must be closed after it.
type output struct {
	writer  dataset.Writer
	closers []io.Closer
}

func (o *output) close() error {
	var errs []error
	for i := len(o.closers) - 1; i >= 0; i-- {
		errs = append(errs, o.closers[i].Close())
	}

	return errors.Join(errs...)
}

func newOutput(o *options, cfg *fdtd.Config) (*output, error) {
	if err := os.MkdirAll(o.outDir, 0o755); err != nil {
		return nil, err
	}
	out := &output{}
	var ws []dataset.Writer

	switch o.format {
	case formatNetCDF:
		f, err := os.Create(filepath.Join(o.outDir, modelFile))
		if err != nil {
			return nil, err
		}
		w, err := dataset.NewNetCDFWriter(f, globalAttrs(cfg), modelVariables(cfg)...)
		if err != nil {
			f.Close()
			return nil, err
		}
		// the writer finalises the header before the file is closed
		out.closers = append(out.closers, f, w)
		ws = append(ws, w)
	case formatRaw:
		d, err := dataset.NewRawDir(o.outDir)
		if err != nil {
			return nil, err
		}
		out.closers = append(out.closers, d)
		ws = append(ws, d)
	default:
		return nil, fmt.Errorf("unknown output format %q", o.format)
	}

	if o.movie != "" && cfg.Frames > 0 {
		mw, err := render.NewMovieWriter(o.movie, fdtd.SnapshotsName, cfg.NX, cfg.NZ, o.fps,
			render.WithScale(o.scale))
		if err != nil {
			_ = out.close()
			return nil, err
		}
		out.closers = append(out.closers, mw)
		ws = append(ws, mw)
	}
	out.writer = dataset.Tee(ws...)

	return out, nil
}

func globalAttrs(cfg *fdtd.Config) map[string]any {
	return map[string]any{
		"dz": []float64{cfg.DZ},
		"dx": []float64{cfg.DX},
		"dt": []float64{cfg.DT},
		"fm": []float64{cfg.FM},
		"ft": []int32{int32(cfg.FT)},
		"jt": []int32{int32(cfg.JT)},
		// time axis of the snapshot frames
		"o3": []float64{float64(cfg.FT) * cfg.DT},
		"d3": []float64{float64(cfg.JT) * cfg.DT},
	}
}

func modelVariables(cfg *fdtd.Config) []dataset.Variable {
	var vars []dataset.Variable
	if cfg.Frames > 0 {
		vars = append(vars, dataset.Variable{
			Name:  fdtd.SnapshotsName,
			Dims:  []string{"frame", "x", "z"},
			Shape: []int{cfg.Frames, cfg.NX, cfg.NZ},
			Attrs: map[string]any{"units": "Pa"},
		})
	}

	return append(vars, dataset.Variable{
		Name:  fdtd.GatherName,
		Dims:  []string{"x", "t"},
		Shape: []int{cfg.NX, cfg.NT},
		Attrs: map[string]any{"receiver_depth": []int32{int32(cfg.ReceiverDepth)}},
	})
}

// writeFigures renders the gather image, the centre trace and the wavelet.
func writeFigures(o *options, m *fdtd.Model, res *fdtd.Result, log *slog.Logger) error {
	cfg := m.Config()
	g, err := gather.New(res.Gather, cfg.DT, cfg.DX)
	if err != nil {
		return err
	}

	if err = writeFile(filepath.Join(o.outDir, "gather.png"), func(w io.Writer) error {
		return render.GatherPNG(w, g.Grid(), render.WithScale(o.scale))
	}); err != nil {
		return err
	}

	centre := g.Receivers() / 2
	trace, err := g.Trace(centre)
	if err != nil {
		return err
	}
	if err = writeFile(filepath.Join(o.outDir, "trace.png"), func(w io.Writer) error {
		return render.TracePlot(w, fmt.Sprintf("receiver %d", centre), "t (s)", g.Times(),
			render.Series{Name: "pressure", Values: trace})
	}); err != nil {
		return err
	}

	if err = writeFile(filepath.Join(o.outDir, "wavelet.png"), func(w io.Writer) error {
		return render.TracePlot(w, fmt.Sprintf("Ricker %g Hz", cfg.FM), "t (s)",
			wavelet.TimeAxis(cfg.NT, cfg.DT), render.Series{Name: "source", Values: m.Wavelet()})
	}); err != nil {
		return err
	}

	if it, ok, err := g.FirstArrival(centre, 0.1); err == nil && ok {
		log.Info("first arrival", "receiver", centre, "step", it, "t", float64(it)*cfg.DT)
	}
	log.Info("figures written", "dir", o.outDir, "gather_rms", g.RMS(), "gather_max", g.MaxAbs())

	return nil
}

func writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = fill(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	return f.Close()
}
