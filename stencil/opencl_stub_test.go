//go:build !opencl

package stencil_test

import (
	"testing"

	"github.com/katalvlaran/acoustic2d/grid"
	"github.com/katalvlaran/acoustic2d/stencil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCLStepper_Unavailable(t *testing.T) {
	c, err := stencil.NewCoefficients(1, 1)
	require.NoError(t, err)
	vel, err := grid.NewDense(8, 8)
	require.NoError(t, err)

	s, err := stencil.NewOpenCLStepper(c, vel)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, stencil.ErrBackendUnavailable)
}
