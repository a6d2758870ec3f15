// SPDX-License-Identifier: MIT

package dataset

import (
	"fmt"
	"sort"
	"sync"

	"github.com/katalvlaran/acoustic2d/grid"
)

// Memory keeps every written grid as a deep copy, per name, in write order.
// It is safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	frames map[string][]*grid.Dense
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{frames: make(map[string][]*grid.Dense)}
}

// Put stores a copy of g under name; it is WriteGrid under another name for
// seeding inputs.
func (m *Memory) Put(name string, g *grid.Dense) error { return m.WriteGrid(name, g) }

// WriteGrid appends a copy of g.
func (m *Memory) WriteGrid(name string, g *grid.Dense) error {
	if err := grid.ValidateNotNil(g); err != nil {
		return fmt.Errorf("Memory.WriteGrid(%q): %w", name, err)
	}
	m.mu.Lock()
	m.frames[name] = append(m.frames[name], g.Clone())
	m.mu.Unlock()

	return nil
}

// ReadGrid returns a copy of the last grid stored under name.
func (m *Memory) ReadGrid(name string, rows, cols int) (*grid.Dense, error) {
	g := m.Last(name)
	if g == nil {
		return nil, fmt.Errorf("Memory.ReadGrid(%q): %w", name, ErrUnknownVariable)
	}
	if r, c := g.Shape(); r != rows || c != cols {
		return nil, fmt.Errorf("Memory.ReadGrid(%q): stored %dx%d, want %dx%d: %w", name, r, c, rows, cols, ErrShape)
	}

	return g, nil
}

// Frames returns the grids stored under name in write order. The slice is a
// copy; the grids are shared and must not be modified.
func (m *Memory) Frames(name string) []*grid.Dense {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]*grid.Dense(nil), m.frames[name]...)
}

// Last returns a copy of the newest grid under name, or nil.
func (m *Memory) Last(name string) *grid.Dense {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := m.frames[name]
	if len(list) == 0 {
		return nil
	}

	return list[len(list)-1].Clone()
}

// Names lists the stored variable names in sorted order.
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.frames))
	for n := range m.frames {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}
