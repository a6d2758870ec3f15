// SPDX-License-Identifier: MIT

package dataset

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/katalvlaran/acoustic2d/grid"
)

// RawExt is the file extension of RawDir variables.
const RawExt = ".bin"

// RawDir stores each variable as <dir>/<name>.bin: little-endian float32,
// row-major [x][z], grids appended back to back. Files are truncated the
// first time a RawDir writes a name and kept open until Close.
type RawDir struct {
	dir string

	mu    sync.Mutex
	files map[string]*rawFile
}

type rawFile struct {
	f *os.File
	w *bufio.Writer
}

// NewRawDir uses dir, creating it when missing.
func NewRawDir(dir string) (*RawDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("NewRawDir: %w", err)
	}

	return &RawDir{dir: dir, files: make(map[string]*rawFile)}, nil
}

// Path returns the file backing name.
func (d *RawDir) Path(name string) string { return filepath.Join(d.dir, name+RawExt) }

// WriteGrid appends g as float32 samples.
func (d *RawDir) WriteGrid(name string, g *grid.Dense) error {
	if err := grid.ValidateNotNil(g); err != nil {
		return fmt.Errorf("RawDir.WriteGrid(%q): %w", name, err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	rf, ok := d.files[name]
	if !ok {
		f, err := os.Create(d.Path(name))
		if err != nil {
			return fmt.Errorf("RawDir.WriteGrid(%q): %w", name, err)
		}
		rf = &rawFile{f: f, w: bufio.NewWriter(f)}
		d.files[name] = rf
	}
	if err := binary.Write(rf.w, binary.LittleEndian, g.Float32()); err != nil {
		return fmt.Errorf("RawDir.WriteGrid(%q): %w", name, err)
	}

	return nil
}

// ReadGrid reads the first rows×cols samples of <name>.bin.
// Pending writes to name are flushed first.
func (d *RawDir) ReadGrid(name string, rows, cols int) (*grid.Dense, error) {
	return d.ReadFrame(name, 0, rows, cols)
}

// ReadFrame reads the i-th rows×cols grid of <name>.bin.
func (d *RawDir) ReadFrame(name string, i, rows, cols int) (*grid.Dense, error) {
	d.mu.Lock()
	if rf, ok := d.files[name]; ok {
		if err := rf.w.Flush(); err != nil {
			d.mu.Unlock()
			return nil, fmt.Errorf("RawDir.ReadFrame(%q): %w", name, err)
		}
	}
	d.mu.Unlock()

	m, err := grid.NewDense(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("RawDir.ReadFrame(%q): %w", name, err)
	}
	f, err := os.Open(d.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("RawDir.ReadFrame(%q): %w", name, ErrUnknownVariable)
	}
	if err != nil {
		return nil, fmt.Errorf("RawDir.ReadFrame(%q): %w", name, err)
	}
	defer f.Close()

	n := rows * cols
	if _, err = f.Seek(int64(i)*int64(n)*4, io.SeekStart); err != nil {
		return nil, fmt.Errorf("RawDir.ReadFrame(%q): %w", name, err)
	}
	buf := make([]float32, n)
	if err = binary.Read(bufio.NewReader(f), binary.LittleEndian, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("RawDir.ReadFrame(%q): frame %d of %dx%d past end of file: %w", name, i, rows, cols, ErrShape)
		}
		return nil, fmt.Errorf("RawDir.ReadFrame(%q): %w", name, err)
	}
	data := m.Data()
	for k, v := range buf {
		data[k] = float64(v)
	}

	return m, nil
}

// Close flushes and closes every open file; the first error wins.
func (d *RawDir) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var first error
	for name, rf := range d.files {
		if err := rf.w.Flush(); err != nil && first == nil {
			first = fmt.Errorf("RawDir.Close(%q): %w", name, err)
		}
		if err := rf.f.Close(); err != nil && first == nil {
			first = fmt.Errorf("RawDir.Close(%q): %w", name, err)
		}
		delete(d.files, name)
	}

	return first
}
