package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/katalvlaran/acoustic2d/fdtd"
)

// options holds everything the command line can set. Simulation parameters
// go through fdtd.Params; the rest controls input and output.
type options struct {
	params fdtd.Params

	config     string
	in         string
	nx, nz     int
	velocity   float64
	outDir     string
	format     string
	movie      string
	fps        int
	scale      int
	png        bool
	progress   bool
	opencl     bool
	verbose    bool
	cpuProfile string
}

// flagValues mirrors the parameter flags so we can tell which were set.
type flagValues struct {
	nb, nt, ft, jt, nr, workers, check int
	dt, fm, dz, dx, decay              float64
	border                             bool
	headWave, receiverDepth            int
}

func parseFlags(fs *flag.FlagSet, args []string) (*options, error) {
	def := fdtd.DefaultParams()
	var fv flagValues
	o := &options{}

	fs.IntVar(&fv.nb, "nb", def.NB, "border length in cells")
	fs.IntVar(&fv.nt, "nt", 0, "number of time steps (required)")
	fs.Float64Var(&fv.dt, "dt", 0, "time sampling in s (required)")
	fs.Float64Var(&fv.fm, "fm", def.FM, "Ricker peak frequency in Hz")
	fs.IntVar(&fv.ft, "ft", def.FT, "first recorded time step")
	fs.IntVar(&fv.jt, "jt", def.JT, "snapshot stride in time steps")
	fs.IntVar(&fv.nr, "nr", def.Receivers, "receiver count (-1: nxpad/2)")
	fs.BoolVar(&fv.border, "border", def.Border, "apply the absorbing sponge")
	fs.Float64Var(&fv.dz, "dz", 0, "z spacing in m (read from the input file when omitted)")
	fs.Float64Var(&fv.dx, "dx", 0, "x spacing in m (read from the input file when omitted)")
	fs.Float64Var(&fv.decay, "decay", def.Decay, "sponge decay constant")
	fs.IntVar(&fv.workers, "workers", def.Workers, "goroutines per kernel (0: all CPUs)")
	fs.IntVar(&fv.check, "check", 10, "finiteness check period in steps (0: off)")
	fs.IntVar(&fv.headWave, "headwave", def.HeadWaveDepth, "padded depth of the head-wave injection (<0: off)")
	fs.IntVar(&fv.receiverDepth, "rz", def.ReceiverDepth, "interior depth of the receiver line")

	fs.StringVar(&o.config, "config", "", "JSON file with simulation parameters")
	fs.StringVar(&o.in, "in", "", "velocity model (.nc or .bin); homogeneous when empty")
	fs.IntVar(&o.nx, "nx", 200, "interior x samples (homogeneous or .bin input)")
	fs.IntVar(&o.nz, "nz", 200, "interior z samples (homogeneous or .bin input)")
	fs.Float64Var(&o.velocity, "vel", 1500, "velocity of the homogeneous model in m/s")
	fs.StringVar(&o.outDir, "out", "out", "output directory")
	fs.StringVar(&o.format, "format", "netcdf", "output format: netcdf or raw")
	fs.StringVar(&o.movie, "movie", "", "write snapshots as an MJPEG AVI to this file")
	fs.IntVar(&o.fps, "fps", 25, "movie frame rate")
	fs.IntVar(&o.scale, "scale", 2, "pixels per cell in images and movies")
	fs.BoolVar(&o.png, "png", true, "write gather.png, trace.png and wavelet.png")
	fs.BoolVar(&o.progress, "progress", true, "show a progress bar")
	fs.BoolVar(&o.opencl, "opencl", false, "run the stencil on an OpenCL device")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	fs.StringVar(&o.cpuProfile, "cpuprofile", "", "write a CPU profile to this file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	o.params = def
	o.params.CheckEvery = fv.check
	if o.config != "" {
		if err := loadParams(o.config, &o.params); err != nil {
			return nil, err
		}
	}
	// Explicit flags win over the JSON file.
	fs.Visit(func(f *flag.Flag) {
		p := &o.params
		switch f.Name {
		case "nb":
			p.NB = fv.nb
		case "nt":
			p.NT = fv.nt
		case "dt":
			p.DT = fv.dt
		case "fm":
			p.FM = fv.fm
		case "ft":
			p.FT = fv.ft
		case "jt":
			p.JT = fv.jt
		case "nr":
			p.Receivers = fv.nr
		case "border":
			p.Border = fv.border
		case "dz":
			p.DZ = fv.dz
		case "dx":
			p.DX = fv.dx
		case "decay":
			p.Decay = fv.decay
		case "workers":
			p.Workers = fv.workers
		case "check":
			p.CheckEvery = fv.check
		case "headwave":
			p.HeadWaveDepth = fv.headWave
		case "rz":
			p.ReceiverDepth = fv.receiverDepth
		}
	})
	if o.format != formatNetCDF && o.format != formatRaw {
		return nil, fmt.Errorf("unknown -format %q (want netcdf or raw)", o.format)
	}

	return o, nil
}

// loadParams overlays the JSON object in path onto p; absent keys keep
// their current values.
func loadParams(path string, p *fdtd.Params) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(b, p); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	return nil
}
