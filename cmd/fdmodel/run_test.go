package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/acoustic2d/dataset"
	"github.com/katalvlaran/acoustic2d/fdtd"
	"github.com/katalvlaran/acoustic2d/grid"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func smallRun(t *testing.T, format string) *options {
	t.Helper()
	o, err := parseFlags(newFlagSet(), []string{
		"-nt", "60", "-dt", "0.001", "-dz", "10", "-dx", "10", "-nb", "10",
		"-nx", "30", "-nz", "30", "-jt", "20", "-rz", "14",
		"-format", format, "-out", t.TempDir(), "-progress=false",
	})
	require.NoError(t, err)

	return o
}

func TestRun_NetCDF(t *testing.T) {
	o := smallRun(t, formatNetCDF)
	require.NoError(t, run(context.Background(), o, quietLogger()))

	f, err := os.Open(filepath.Join(o.outDir, modelFile))
	require.NoError(t, err)
	defer f.Close()
	r, err := dataset.OpenNetCDF(f)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{fdtd.SnapshotsName, fdtd.GatherName}, r.Variables())

	shape, err := r.Shape(fdtd.SnapshotsName)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 30, 30}, shape)
	dt, ok := r.Float("", "dt")
	require.True(t, ok)
	assert.Equal(t, 0.001, dt)

	g, err := r.ReadGrid(fdtd.GatherName, 30, 60)
	require.NoError(t, err)
	assert.NotZero(t, g.Data()[15*60+59], "receiver above the source")

	for _, name := range []string{"gather.png", "trace.png", "wavelet.png"} {
		assert.FileExists(t, filepath.Join(o.outDir, name))
	}
}

func TestRun_RawAndReload(t *testing.T) {
	o := smallRun(t, formatRaw)
	o.png = false
	require.NoError(t, run(context.Background(), o, quietLogger()))

	info, err := os.Stat(filepath.Join(o.outDir, fdtd.SnapshotsName+dataset.RawExt))
	require.NoError(t, err)
	assert.Equal(t, int64(3*30*30*4), info.Size())

	// a raw gather reads back as a velocity-shaped grid
	v, dz, dx, err := readVelocity(filepath.Join(o.outDir, fdtd.GatherName+dataset.RawExt), 30, 60)
	require.NoError(t, err)
	assert.Zero(t, dz)
	assert.Zero(t, dx)
	r, c := v.Shape()
	assert.Equal(t, 30, r)
	assert.Equal(t, 60, c)
}

func TestRun_Cancelled(t *testing.T) {
	o := smallRun(t, formatRaw)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, run(ctx, o, quietLogger()), context.Canceled)
}

func TestReadVelocity_NetCDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.nc")
	f, err := os.Create(path)
	require.NoError(t, err)
	w, err := dataset.NewNetCDFWriter(f, map[string]any{"dz": []float64{7.5}}, dataset.Variable{
		Name:  velocityName,
		Dims:  []string{"x", "z"},
		Shape: []int{4, 6},
		Attrs: map[string]any{"dx": []float64{12.5}},
	})
	require.NoError(t, err)

	o := &options{in: path}
	vel := make([]float64, 24)
	for i := range vel {
		vel[i] = 2000
	}
	g, err := grid.NewDenseFrom(4, 6, vel)
	require.NoError(t, err)
	require.NoError(t, w.WriteGrid(velocityName, g))
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	v, err := loadVelocity(o, quietLogger())
	require.NoError(t, err)
	r, c := v.Shape()
	assert.Equal(t, 4, r)
	assert.Equal(t, 6, c)
	assert.Equal(t, 7.5, o.params.DZ, "global attribute")
	assert.Equal(t, 12.5, o.params.DX, "variable attribute")
	assert.InDelta(t, 2000, v.Data()[0], 1e-9)
}
