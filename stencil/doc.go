// SPDX-License-Identifier: MIT

// Package stencil advances a padded pressure field by one leapfrog time step
// with a 4th-order, 9-point cross Laplacian.
//
// What:
//
//   - Coefficients: the five stencil weights derived from the grid spacing
//     (dz, dx). c0 = -2(c11+c12+c21+c22), so the weights of a constant field
//     sum to exactly zero.
//   - Stepper: the CPU kernel. For 2 ≤ ix < nxpad-2 and 2 ≤ iz < nzpad-2
//
//     out = 2·in - out + vel·(c0·in + c11·(in[z-1]+in[z+1]) + c12·(in[z-2]+in[z+2])
//     + c21·(in[x-1]+in[x+1]) + c22·(in[x-2]+in[x+2]))
//
//     where vel holds (v·dt)². The two-cell margin is never written.
//   - OpenCLStepper: the same update on an OpenCL device (build tag "opencl").
//
// Concurrency:
//
//   - Step splits the x axis into disjoint row ranges; a worker writes only the
//     out rows it owns and only reads in and vel, which nobody writes during
//     the call.
package stencil
