// SPDX-License-Identifier: MIT

//go:build opencl

package stencil

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"

	"github.com/katalvlaran/acoustic2d/grid"
)

const stepKernelSource = `__kernel void fd_step(
    const int nxpad,
    const int nzpad,
    const float c0,
    const float c11,
    const float c12,
    const float c21,
    const float c22,
    __global const float* vel,
    __global const float* in,
    __global float* out)
{
    int idx = get_global_id(0);
    if (idx >= nxpad * nzpad) {
        return;
    }
    int ix = idx / nzpad;
    int iz = idx % nzpad;
    if (ix < 2 || ix >= nxpad - 2 || iz < 2 || iz >= nzpad - 2) {
        return;
    }
    float p = in[idx];
    float lap = c0 * p
        + c11 * (in[idx - 1] + in[idx + 1])
        + c12 * (in[idx - 2] + in[idx + 2])
        + c21 * (in[idx - nzpad] + in[idx + nzpad])
        + c22 * (in[idx - 2 * nzpad] + in[idx + 2 * nzpad]);
    out[idx] = 2.0f * p - out[idx] + vel[idx] * lap;
}`

// OpenCLStepper runs Step on an OpenCL device in float32.
// Both fields are uploaded and out is read back on every call, so it can be
// swapped with Stepper at any step. Call Close to release device resources.
type OpenCLStepper struct {
	context *cl.Context
	queue   *cl.CommandQueue
	program *cl.Program
	kernel  *cl.Kernel
	velBuf  *cl.MemObject
	inBuf   *cl.MemObject
	outBuf  *cl.MemObject

	nxpad, nzpad int
	device       string
	inHost       []float32
	outHost      []float32
}

// NewOpenCLStepper compiles the kernel on the first GPU (falling back to the
// first CPU device) and uploads vel once.
func NewOpenCLStepper(coef Coefficients, vel *grid.Dense) (*OpenCLStepper, error) {
	if err := grid.ValidateNotNil(vel); err != nil {
		return nil, fmt.Errorf("NewOpenCLStepper: %w", err)
	}
	nxpad, nzpad := vel.Shape()
	if nxpad < minExtent || nzpad < minExtent {
		return nil, fmt.Errorf("NewOpenCLStepper: %w", grid.ErrDimensionMismatch)
	}
	device, err := pickDevice()
	if err != nil {
		return nil, fmt.Errorf("NewOpenCLStepper: %v: %w", err, ErrBackendUnavailable)
	}

	s := &OpenCLStepper{nxpad: nxpad, nzpad: nzpad, device: device.Name()}
	if err := s.init(device, coef, vel); err != nil {
		s.Close()
		return nil, fmt.Errorf("NewOpenCLStepper: %w", err)
	}

	return s, nil
}

func pickDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}

	return nil, errors.New("no suitable OpenCL devices found")
}

func (s *OpenCLStepper) init(device *cl.Device, coef Coefficients, vel *grid.Dense) error {
	var err error
	if s.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return fmt.Errorf("creating context: %w", err)
	}
	if s.queue, err = s.context.CreateCommandQueue(device, 0); err != nil {
		return fmt.Errorf("creating command queue: %w", err)
	}
	if s.program, err = s.context.CreateProgramWithSource([]string{stepKernelSource}); err != nil {
		return fmt.Errorf("creating program: %w", err)
	}
	if err = s.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		if buildErr, ok := err.(cl.BuildError); ok {
			return fmt.Errorf("building program: %s", string(buildErr))
		}
		return fmt.Errorf("building program: %w", err)
	}
	if s.kernel, err = s.program.CreateKernel("fd_step"); err != nil {
		return fmt.Errorf("creating kernel: %w", err)
	}

	size := s.nxpad * s.nzpad
	byteSize := size * int(unsafe.Sizeof(float32(0)))
	if s.velBuf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, byteSize); err != nil {
		return fmt.Errorf("allocating velocity buffer: %w", err)
	}
	if s.inBuf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, byteSize); err != nil {
		return fmt.Errorf("allocating input buffer: %w", err)
	}
	if s.outBuf, err = s.context.CreateEmptyBuffer(cl.MemReadWrite, byteSize); err != nil {
		return fmt.Errorf("allocating output buffer: %w", err)
	}
	if _, err = s.queue.EnqueueWriteBufferFloat32(s.velBuf, true, 0, vel.Float32(), nil); err != nil {
		return fmt.Errorf("uploading velocity: %w", err)
	}
	if err = s.kernel.SetArgs(
		int32(s.nxpad),
		int32(s.nzpad),
		float32(coef.C0),
		float32(coef.C11),
		float32(coef.C12),
		float32(coef.C21),
		float32(coef.C22),
		s.velBuf,
		s.inBuf,
		s.outBuf,
	); err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	s.inHost = make([]float32, size)
	s.outHost = make([]float32, size)

	return nil
}

// Step has the same contract as (*Stepper).Step, computed in float32.
func (s *OpenCLStepper) Step(out, in *grid.Dense) error {
	if err := grid.ValidateShape(out, s.nxpad, s.nzpad); err != nil {
		return fmt.Errorf("Step: out: %w", err)
	}
	if err := grid.ValidateShape(in, s.nxpad, s.nzpad); err != nil {
		return fmt.Errorf("Step: in: %w", err)
	}
	toFloat32(s.inHost, in.Data())
	toFloat32(s.outHost, out.Data())
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.inBuf, false, 0, s.inHost, nil); err != nil {
		return fmt.Errorf("Step: writing input: %w", err)
	}
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.outBuf, false, 0, s.outHost, nil); err != nil {
		return fmt.Errorf("Step: writing output: %w", err)
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.kernel, nil, []int{s.nxpad * s.nzpad}, nil, nil); err != nil {
		return fmt.Errorf("Step: enqueueing kernel: %w", err)
	}
	if _, err := s.queue.EnqueueReadBufferFloat32(s.outBuf, true, 0, s.outHost, nil); err != nil {
		return fmt.Errorf("Step: reading output: %w", err)
	}
	dst := out.Data()
	for i, v := range s.outHost {
		dst[i] = float64(v)
	}

	return nil
}

// DeviceName reports the OpenCL device in use.
func (s *OpenCLStepper) DeviceName() string { return s.device }

// Close releases every device object. It is safe to call more than once.
func (s *OpenCLStepper) Close() error {
	if s.outBuf != nil {
		s.outBuf.Release()
		s.outBuf = nil
	}
	if s.inBuf != nil {
		s.inBuf.Release()
		s.inBuf = nil
	}
	if s.velBuf != nil {
		s.velBuf.Release()
		s.velBuf = nil
	}
	if s.kernel != nil {
		s.kernel.Release()
		s.kernel = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}

	return nil
}

func toFloat32(dst []float32, src []float64) {
	for i, v := range src {
		dst[i] = float32(v)
	}
}
