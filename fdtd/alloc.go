// SPDX-License-Identifier: MIT

package fdtd

import (
	"fmt"

	"github.com/katalvlaran/acoustic2d/grid"
)

// allocate creates an nx×nz grid and converts a runtime refusal (makeslice
// panic on huge sizes) into ErrAllocation. Sizes are pre-checked by Resolve,
// so reaching the recover path means the process is out of address space.
func allocate(nx, nz int, opts ...grid.Option) (m *grid.Dense, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("allocate %dx%d: %v: %w", nx, nz, r, ErrAllocation)
		}
	}()
	m, err = grid.NewDense(nx, nz, opts...)
	if err != nil {
		return nil, fmt.Errorf("allocate %dx%d: %w", nx, nz, err)
	}

	return m, nil
}
