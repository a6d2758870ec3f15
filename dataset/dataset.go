// SPDX-License-Identifier: MIT

// Package dataset is the I/O boundary of the modeling core: velocity grids come
// in through a Reader, snapshots and gathers leave through a Writer.
//
// Adapters:
//
//   - Memory: in-process store, used by tests and examples.
//   - RawDir: one little-endian float32 file per variable, row-major, append on
//     write (the classic native_float layout).
//   - NetCDFWriter / NetCDFReader: self-describing files with axis attributes.
//   - Tee: fan-out to several writers.
//
// The core writes each snapshot as one grid and the gather once at the end;
// adapters must not retain the grid passed to WriteGrid.
package dataset

import (
	"errors"

	"github.com/katalvlaran/acoustic2d/grid"
)

var (
	// ErrUnknownVariable indicates a name the adapter holds no data for.
	ErrUnknownVariable = errors.New("dataset: unknown variable")

	// ErrShape indicates stored data that does not match the requested or
	// declared grid shape.
	ErrShape = errors.New("dataset: shape mismatch")
)

// Reader loads a full rows×cols grid by name.
type Reader interface {
	ReadGrid(name string, rows, cols int) (*grid.Dense, error)
}

// Writer appends one grid's worth of samples under name.
type Writer interface {
	WriteGrid(name string, g *grid.Dense) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(name string, g *grid.Dense) error

// WriteGrid calls f(name, g).
func (f WriterFunc) WriteGrid(name string, g *grid.Dense) error { return f(name, g) }

// Discard accepts and drops every grid.
var Discard Writer = WriterFunc(func(string, *grid.Dense) error { return nil })

// Tee returns a Writer that forwards every grid to each w in order and stops
// at the first error.
func Tee(ws ...Writer) Writer {
	list := append([]Writer(nil), ws...)

	return WriterFunc(func(name string, g *grid.Dense) error {
		for _, w := range list {
			if err := w.WriteGrid(name, g); err != nil {
				return err
			}
		}

		return nil
	})
}
