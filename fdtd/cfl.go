// SPDX-License-Identifier: MIT

package fdtd

import "math"

// CFL returns the Courant number vmax·dt·sqrt(1/dx² + 1/dz²).
// Values well below 1 are needed for a stable run with the 4th-order stencil;
// the command line warns above CFLWarn.
func CFL(vmax, dt, dx, dz float64) float64 {
	return vmax * dt * math.Sqrt(1/(dx*dx)+1/(dz*dz))
}

// CFLWarn is the Courant number above which a run is reported as risky.
const CFLWarn = 0.6
