package grid_test

import (
	"testing"

	"github.com/katalvlaran/acoustic2d/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ramp builds an nx×nz grid with distinct values v = 100*ix + iz.
func ramp(t *testing.T, nx, nz int) *grid.Dense {
	t.Helper()
	m, err := grid.NewDense(nx, nz)
	require.NoError(t, err)
	require.NoError(t, m.Apply(func(ix, iz int, _ float64) float64 {
		return float64(100*ix + iz)
	}))

	return m
}

// TestExpandWindowRoundTrip checks window(expand(G)) == G for several borders and worker counts.
func TestExpandWindowRoundTrip(t *testing.T) {
	for _, nb := range []int{0, 1, 2, 5} {
		for _, workers := range []int{1, 3, 0} {
			src := ramp(t, 7, 4)
			padded, err := grid.NewDense(7+2*nb, 4+2*nb)
			require.NoError(t, err)
			require.NoError(t, grid.Expand(padded, src, nb, grid.WithWorkers(workers)))

			back, err := grid.NewDense(7, 4)
			require.NoError(t, err)
			require.NoError(t, grid.Window(back, padded, nb, grid.WithWorkers(workers)))
			require.True(t, grid.Equal(src, back), "nb=%d workers=%d", nb, workers)
		}
	}
}

// TestExpandEdgeReplication checks borders and corners replicate the nearest edge cell.
func TestExpandEdgeReplication(t *testing.T) {
	const nx, nz, nb = 4, 3, 3
	src := ramp(t, nx, nz)
	padded, err := grid.Padded(src, nb)
	require.NoError(t, err)
	nxpad, nzpad := padded.Shape()
	require.Equal(t, nx+2*nb, nxpad)
	require.Equal(t, nz+2*nb, nzpad)

	clamp := func(v, hi int) int { return max(0, min(v, hi)) }
	for ix := 0; ix < nxpad; ix++ {
		for iz := 0; iz < nzpad; iz++ {
			want, _ := src.At(clamp(ix-nb, nx-1), clamp(iz-nb, nz-1))
			got, _ := padded.At(ix, iz)
			assert.Equal(t, want, got, "cell (%d,%d)", ix, iz)
		}
	}
}

// TestWindowDoesNotMutate ensures Window is a pure read of the padded grid.
func TestWindowDoesNotMutate(t *testing.T) {
	padded := ramp(t, 9, 8)
	before := padded.Clone()
	dst, _ := grid.NewDense(5, 4)
	require.NoError(t, grid.Window(dst, padded, 2))
	require.True(t, grid.Equal(before, padded))

	v, _ := dst.At(0, 0)
	assert.Equal(t, 202.0, v)
}

// TestPadShapeErrors covers the validation paths.
func TestPadShapeErrors(t *testing.T) {
	src := ramp(t, 3, 3)
	wrong, _ := grid.NewDense(6, 7)
	require.ErrorIs(t, grid.Expand(wrong, src, 2), grid.ErrDimensionMismatch)
	require.ErrorIs(t, grid.Window(src, wrong, 2), grid.ErrDimensionMismatch)
	require.ErrorIs(t, grid.Expand(nil, src, 2), grid.ErrNilGrid)
	require.ErrorIs(t, grid.Expand(wrong, src, -1), grid.ErrInvalidDimensions)

	_, err := grid.Padded(src, -2)
	require.ErrorIs(t, err, grid.ErrInvalidDimensions)
	_, err = grid.Padded(nil, 2)
	require.ErrorIs(t, err, grid.ErrNilGrid)
}

// TestWithWorkersPanicsOnNegative documents the programmer-error contract.
func TestWithWorkersPanicsOnNegative(t *testing.T) {
	require.Panics(t, func() { grid.WithWorkers(-1) })
}
