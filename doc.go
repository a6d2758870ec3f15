// Package acoustic2d is a 2D constant-density acoustic wave modeler built on
// a second-order-in-time, fourth-order-in-space finite-difference scheme.
//
// What is in the box?
//
//	A small, dependency-light engine plus the plumbing around it:
//		• Grids: dense [x][z] storage, padding and windowing of the border
//		• Source: Ricker wavelet generation and spectral peak checks
//		• Boundary: exponential taper profile and the sponge that applies it
//		• Stencil: the 4th-order Laplacian update (CPU, optional OpenCL)
//		• Loop: the time-stepping model with snapshot and gather recording
//		• Output: NetCDF and raw float32 datasets, PNG images, plots, MJPEG movies
//
// Layout:
//
//	grid/         Dense storage, Expand (edge padding), Window, numeric checks
//	parallel/     errgroup-backed row partitioning shared by the kernels
//	wavelet/      Ricker source wavelet
//	boundary/     taper profile and sponge damping
//	stencil/      coefficients and the pressure update
//	fdtd/         parameters, buffers, the Model and its Run loop
//	dataset/      named-grid writers and readers (memory, raw, NetCDF)
//	gather/       receiver gather analysis
//	render/       images, trace plots and movies
//	cmd/fdmodel   command-line driver
//
// Quick example:
//
//	vel, _ := grid.NewDense(200, 200)
//	vel.Fill(2000)
//	p := fdtd.DefaultParams()
//	p.NT, p.DT, p.DZ, p.DX = 1000, 0.001, 10, 10
//	m, _ := fdtd.NewModel(p, vel)
//	res, _ := m.Run(ctx, dataset.NewMemory())
//
// res.Gather holds the pressure recorded along the receiver line for every
// step, one row per lateral position.
//
//	go install github.com/katalvlaran/acoustic2d/cmd/fdmodel@latest
package acoustic2d
