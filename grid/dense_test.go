// Package grid_test contains unit tests for the Dense grid.
package grid_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/acoustic2d/grid"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := grid.NewDense(0, 5)
	require.ErrorIs(t, err, grid.ErrInvalidDimensions)

	_, err = grid.NewDense(5, -1)
	require.ErrorIs(t, err, grid.ErrInvalidDimensions)
}

// TestShape verifies Rows/Cols/Shape/Len.
func TestShape(t *testing.T) {
	m, err := grid.NewDense(3, 4)
	require.NoError(t, err)

	require.Equal(t, 3, m.Rows())
	require.Equal(t, 4, m.Cols())
	nx, nz := m.Shape()
	require.Equal(t, [2]int{3, 4}, [2]int{nx, nz})
	require.Equal(t, 12, m.Len())
}

// TestAtSetOutOfRange ensures the checked accessors return ErrOutOfRange.
func TestAtSetOutOfRange(t *testing.T) {
	m, err := grid.NewDense(2, 2)
	require.NoError(t, err)

	_, err = m.At(-1, 0)
	require.ErrorIs(t, err, grid.ErrOutOfRange)
	_, err = m.At(0, 2)
	require.ErrorIs(t, err, grid.ErrOutOfRange)
	require.ErrorIs(t, m.Set(2, 0, 1), grid.ErrOutOfRange)
	require.ErrorIs(t, m.Add(0, -1, 1), grid.ErrOutOfRange)
}

// TestRowMajorLayout checks that Set(ix,iz) lands at ix*nz+iz and Row(ix) aliases storage.
func TestRowMajorLayout(t *testing.T) {
	m, err := grid.NewDense(3, 5)
	require.NoError(t, err)

	require.NoError(t, m.Set(2, 1, 7.5))
	require.Equal(t, 7.5, m.Data()[2*5+1])

	row := m.Row(1)
	require.Len(t, row, 5)
	row[4] = -3
	v, err := m.At(1, 4)
	require.NoError(t, err)
	require.Equal(t, -3.0, v)
}

// TestAddAccumulates verifies Add sums into the cell.
func TestAddAccumulates(t *testing.T) {
	m, err := grid.NewDense(2, 2)
	require.NoError(t, err)

	require.NoError(t, m.Add(1, 1, 0.25))
	require.NoError(t, m.Add(1, 1, 0.5))
	v, _ := m.At(1, 1)
	require.Equal(t, 0.75, v)
}

// TestNumericPolicy checks NaN/Inf rejection and its opt-out.
func TestNumericPolicy(t *testing.T) {
	strict, err := grid.NewDense(2, 2)
	require.NoError(t, err)
	require.ErrorIs(t, strict.Set(0, 0, math.NaN()), grid.ErrNaNInf)
	require.NoError(t, strict.Set(0, 0, math.MaxFloat64))
	require.ErrorIs(t, strict.Add(0, 0, math.MaxFloat64), grid.ErrNaNInf)

	loose, err := grid.NewDense(2, 2, grid.WithNoValidateNaNInf())
	require.NoError(t, err)
	require.NoError(t, loose.Set(0, 0, math.Inf(1)))

	err = strict.Apply(func(ix, iz int, v float64) float64 {
		if ix == 1 {
			return math.Inf(-1)
		}
		return v
	})
	require.ErrorIs(t, err, grid.ErrNaNInf)
}

// TestNewDenseFrom checks copy semantics and length validation.
func TestNewDenseFrom(t *testing.T) {
	src := []float64{1, 2, 3, 4, 5, 6}
	m, err := grid.NewDenseFrom(2, 3, src)
	require.NoError(t, err)
	src[0] = 100
	v, _ := m.At(0, 0)
	require.Equal(t, 1.0, v, "NewDenseFrom must copy its input")
	v, _ = m.At(1, 2)
	require.Equal(t, 6.0, v)

	_, err = grid.NewDenseFrom(2, 2, src)
	require.ErrorIs(t, err, grid.ErrDimensionMismatch)

	_, err = grid.NewDenseFrom(1, 2, []float64{0, math.NaN()})
	require.ErrorIs(t, err, grid.ErrNaNInf)
}

// TestCloneIndependence ensures Clone does not share storage.
func TestCloneIndependence(t *testing.T) {
	m, err := grid.NewDense(2, 2)
	require.NoError(t, err)
	m.Fill(1)

	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 3))
	v, _ := m.At(0, 0)
	require.Equal(t, 1.0, v)
	require.True(t, grid.Equal(m, m.Clone()))
	require.False(t, grid.Equal(m, c))
}

// TestCopyFromAndZero covers CopyFrom shape checks and Zero.
func TestCopyFromAndZero(t *testing.T) {
	a, _ := grid.NewDense(2, 3)
	b, _ := grid.NewDense(2, 3)
	b.Fill(2)
	require.NoError(t, a.CopyFrom(b))
	require.True(t, grid.Equal(a, b))

	a.Zero()
	require.Equal(t, 0.0, grid.MaxAbs(a))

	wrong, _ := grid.NewDense(3, 2)
	require.ErrorIs(t, a.CopyFrom(wrong), grid.ErrDimensionMismatch)
	require.ErrorIs(t, a.CopyFrom(nil), grid.ErrNilGrid)
}

// TestDoEarlyStop verifies visiting order and early exit.
func TestDoEarlyStop(t *testing.T) {
	m, _ := grid.NewDenseFrom(2, 2, []float64{1, 2, 3, 4})
	var seen []float64
	m.Do(func(_, _ int, v float64) bool {
		seen = append(seen, v)
		return v < 3
	})
	require.Equal(t, []float64{1, 2, 3}, seen)
}

// TestFloat32AndString covers the conversion helpers.
func TestFloat32AndString(t *testing.T) {
	m, _ := grid.NewDenseFrom(2, 2, []float64{1, 2.5, -1, 0})
	require.Equal(t, []float32{1, 2.5, -1, 0}, m.Float32())
	require.Equal(t, "[1, 2.5]\n[-1, 0]\n", m.String())
}
