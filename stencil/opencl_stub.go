// SPDX-License-Identifier: MIT

//go:build !opencl

package stencil

import (
	"fmt"

	"github.com/katalvlaran/acoustic2d/grid"
)

// OpenCLStepper is unavailable in builds without the "opencl" tag.
type OpenCLStepper struct{}

// NewOpenCLStepper always fails with ErrBackendUnavailable; rebuild with
// -tags opencl to enable the device backend.
func NewOpenCLStepper(Coefficients, *grid.Dense) (*OpenCLStepper, error) {
	return nil, fmt.Errorf("NewOpenCLStepper: built without -tags opencl: %w", ErrBackendUnavailable)
}

// Step always fails with ErrBackendUnavailable.
func (s *OpenCLStepper) Step(_, _ *grid.Dense) error { return ErrBackendUnavailable }

// DeviceName returns "".
func (s *OpenCLStepper) DeviceName() string { return "" }

// Close is a no-op.
func (s *OpenCLStepper) Close() error { return nil }
