// Command fdmodel runs a 2D acoustic finite-difference model: a Ricker source
// at the centre of a padded velocity grid, optional absorbing sponge, and
// snapshot plus receiver-gather output.
//
// Usage:
//
//	fdmodel -nt 1000 -dt 0.001 -dz 10 -dx 10 -border -out run1
//	fdmodel -in model.nc -config params.json -format raw -movie run1/field.avi
//
// Parameters come from the built-in defaults, then the optional -config JSON
// file, then explicitly given flags.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gosuri/uiprogress"

	"github.com/katalvlaran/acoustic2d/fdtd"
	"github.com/katalvlaran/acoustic2d/grid"
	"github.com/katalvlaran/acoustic2d/stencil"
	"github.com/katalvlaran/acoustic2d/wavelet"
)

func main() {
	o, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, log); err != nil {
		log.Error("modeling failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, o *options, log *slog.Logger) error {
	if o.cpuProfile != "" {
		stopProfile, err := startCPUProfile(o.cpuProfile)
		if err != nil {
			return fmt.Errorf("cpu profile: %w", err)
		}
		defer stopProfile()
	}

	vel, err := loadVelocity(o, log)
	if err != nil {
		return err
	}
	nx, nz := vel.Shape()

	var modelOpts []fdtd.Option
	if o.opencl {
		modelOpts = append(modelOpts, fdtd.WithPropagator(openCLPropagator(log)))
	}
	if o.progress {
		uiprogress.Start()
		defer uiprogress.Stop()
		bar := uiprogress.AddBar(o.params.NT).AppendCompleted().PrependElapsed()
		modelOpts = append(modelOpts, fdtd.WithObserver(fdtd.ObserverFunc(func(int, *grid.Dense) error {
			bar.Incr()
			return nil
		})))
	}

	m, err := fdtd.NewModel(o.params, vel, modelOpts...)
	if err != nil {
		return err
	}
	defer m.Close()
	cfg := m.Config()
	log.Info("model ready",
		"nx", nx, "nz", nz, "nxpad", cfg.NXPad, "nzpad", cfg.NZPad,
		"nt", cfg.NT, "dt", cfg.DT, "frames", cfg.Frames, "border", cfg.Border, "workers", cfg.Workers)
	if cfl := m.CFL(); cfl > fdtd.CFLWarn {
		log.Warn("time step close to the stability limit", "cfl", cfl, "limit", fdtd.CFLWarn)
	} else {
		log.Debug("stability", "cfl", cfl)
	}
	if peak, err := wavelet.PeakFrequency(m.Wavelet(), cfg.DT); err == nil {
		log.Debug("source wavelet", "fm", cfg.FM, "measured_peak_hz", peak)
	}

	out, err := newOutput(o, cfg)
	if err != nil {
		return err
	}
	start := time.Now()
	res, runErr := m.Run(ctx, out.writer)
	if err := out.close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			log.Warn("interrupted", "steps", res.Steps)
		}
		return runErr
	}
	log.Info("run complete", "steps", res.Steps, "snapshots", res.Snapshots, "elapsed", time.Since(start).Round(time.Millisecond))

	if o.png {
		if err := writeFigures(o, m, res, log); err != nil {
			return err
		}
	}

	return nil
}

// loadVelocity reads -in or builds a homogeneous model.
func loadVelocity(o *options, log *slog.Logger) (*grid.Dense, error) {
	if o.in == "" {
		v, err := grid.NewDense(o.nx, o.nz)
		if err != nil {
			return nil, fmt.Errorf("homogeneous model: %w", err)
		}
		v.Fill(o.velocity)
		log.Info("homogeneous model", "nx", o.nx, "nz", o.nz, "v", o.velocity)
		return v, nil
	}

	v, dz, dx, err := readVelocity(o.in, o.nx, o.nz)
	if err != nil {
		return nil, err
	}
	if o.params.DZ == 0 {
		o.params.DZ = dz
	}
	if o.params.DX == 0 {
		o.params.DX = dx
	}
	r, c := v.Shape()
	log.Info("velocity loaded", "file", o.in, "nx", r, "nz", c, "dz", o.params.DZ, "dx", o.params.DX)

	return v, nil
}

// openCLPropagator falls back to the CPU stencil when no device is usable.
func openCLPropagator(log *slog.Logger) fdtd.PropagatorFactory {
	return func(coef stencil.Coefficients, vel *grid.Dense, workers int) (fdtd.Propagator, error) {
		s, err := stencil.NewOpenCLStepper(coef, vel)
		if err != nil {
			log.Warn("OpenCL unavailable, using CPU stencil", "err", err)
			return fdtd.CPUPropagator(coef, vel, workers)
		}
		log.Info("OpenCL stencil", "device", s.DeviceName())

		return s, nil
	}
}
