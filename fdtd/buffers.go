// SPDX-License-Identifier: MIT

package fdtd

import "github.com/katalvlaran/acoustic2d/grid"

// BufferPair holds the two pressure time levels of the leapfrog scheme.
// Prev() is the t-1 level that Step overwrites with t+1; Curr() is the t level.
// Swap exchanges the roles by flipping an index; no data moves.
type BufferPair struct {
	slots [2]*grid.Dense
	cur   int // index of Curr() in slots
}

// NewBufferPair allocates two zeroed nxpad×nzpad fields. Initially Prev() is
// slot 0 and Curr() is slot 1.
func NewBufferPair(nxpad, nzpad int, opts ...grid.Option) (*BufferPair, error) {
	a, err := allocate(nxpad, nzpad, opts...)
	if err != nil {
		return nil, err
	}
	b, err := allocate(nxpad, nzpad, opts...)
	if err != nil {
		return nil, err
	}

	return &BufferPair{slots: [2]*grid.Dense{a, b}, cur: 1}, nil
}

// Prev returns the buffer written by the next Step.
func (b *BufferPair) Prev() *grid.Dense { return b.slots[b.cur^1] }

// Curr returns the most recent time level.
func (b *BufferPair) Curr() *grid.Dense { return b.slots[b.cur] }

// Swap exchanges Prev and Curr.
func (b *BufferPair) Swap() { b.cur ^= 1 }

// Reset zeroes both fields and restores the initial slot roles.
func (b *BufferPair) Reset() {
	b.slots[0].Zero()
	b.slots[1].Zero()
	b.cur = 1
}
