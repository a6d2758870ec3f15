// SPDX-License-Identifier: MIT

package dataset

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/ctessum/cdf"

	"github.com/katalvlaran/acoustic2d/grid"
)

// Variable declares one NetCDF variable of a NetCDFWriter.
// Dims names the axes, outermost first; Shape gives their lengths. A 2D
// variable is written whole by each WriteGrid; a 3D variable receives one
// frame along its first axis per WriteGrid, in order.
type Variable struct {
	Name  string
	Dims  []string
	Shape []int
	Attrs map[string]any
}

// NetCDFWriter writes declared float32 variables to a classic NetCDF file.
// All dimensions are fixed, so the frame count must be known up front.
type NetCDFWriter struct {
	mu     sync.Mutex
	f      *cdf.File
	vars   map[string]Variable
	cursor map[string]int
}

// NewNetCDFWriter defines the header (global attributes, dimensions and
// variables) and writes it to rw. Dimension lengths must be > 0 and agree
// across variables that share a name.
func NewNetCDFWriter(rw cdf.ReaderWriterAt, global map[string]any, vars ...Variable) (*NetCDFWriter, error) {
	lengths := make(map[string]int)
	var dimNames []string
	byName := make(map[string]Variable, len(vars))
	for _, v := range vars {
		if len(v.Dims) != len(v.Shape) || len(v.Dims) < 2 || len(v.Dims) > 3 {
			return nil, fmt.Errorf("NewNetCDFWriter: %q: %d dims, %d lengths: %w", v.Name, len(v.Dims), len(v.Shape), ErrShape)
		}
		for i, d := range v.Dims {
			n := v.Shape[i]
			if n <= 0 {
				return nil, fmt.Errorf("NewNetCDFWriter: %q: dimension %s has length %d: %w", v.Name, d, n, ErrShape)
			}
			if old, ok := lengths[d]; ok && old != n {
				return nil, fmt.Errorf("NewNetCDFWriter: dimension %s declared as %d and %d: %w", d, old, n, ErrShape)
			} else if !ok {
				lengths[d] = n
				dimNames = append(dimNames, d)
			}
		}
		byName[v.Name] = v
	}
	dimLens := make([]int, len(dimNames))
	for i, d := range dimNames {
		dimLens[i] = lengths[d]
	}

	h := cdf.NewHeader(dimNames, dimLens)
	for _, k := range sortedKeys(global) {
		h.AddAttribute("", k, global[k])
	}
	for _, v := range vars {
		h.AddVariable(v.Name, v.Dims, []float32{0})
		for _, k := range sortedKeys(v.Attrs) {
			h.AddAttribute(v.Name, k, v.Attrs[k])
		}
	}
	h.Define()
	f, err := cdf.Create(rw, h)
	if err != nil {
		return nil, fmt.Errorf("NewNetCDFWriter: %w", err)
	}

	return &NetCDFWriter{f: f, vars: byName, cursor: make(map[string]int)}, nil
}

// WriteGrid stores g into the declared variable name.
// Errors: ErrUnknownVariable, ErrShape (wrong grid shape or no frame left).
func (w *NetCDFWriter) WriteGrid(name string, g *grid.Dense) error {
	if err := grid.ValidateNotNil(g); err != nil {
		return fmt.Errorf("NetCDFWriter.WriteGrid(%q): %w", name, err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.vars[name]
	if !ok {
		return fmt.Errorf("NetCDFWriter.WriteGrid(%q): %w", name, ErrUnknownVariable)
	}
	rows, cols := v.Shape[len(v.Shape)-2], v.Shape[len(v.Shape)-1]
	if r, c := g.Shape(); r != rows || c != cols {
		return fmt.Errorf("NetCDFWriter.WriteGrid(%q): got %dx%d, declared %dx%d: %w", name, r, c, rows, cols, ErrShape)
	}

	begin, end := []int{0, 0}, []int{rows, cols}
	if len(v.Shape) == 3 {
		frame := w.cursor[name]
		if frame >= v.Shape[0] {
			return fmt.Errorf("NetCDFWriter.WriteGrid(%q): all %d frames written: %w", name, v.Shape[0], ErrShape)
		}
		begin, end = []int{frame, 0, 0}, []int{frame + 1, rows, cols}
		w.cursor[name] = frame + 1
	} else {
		w.cursor[name]++
	}
	if _, err := w.f.Writer(name, begin, end).Write(g.Float32()); err != nil {
		return fmt.Errorf("NetCDFWriter.WriteGrid(%q): %w", name, err)
	}

	return nil
}

// Written reports how many frames (3D) or writes (2D) name has received.
func (w *NetCDFWriter) Written(name string) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.cursor[name]
}

// Close marks the writer as finished. Every dimension is fixed, so the
// header written by NewNetCDFWriter is already final and there is no record
// count to update. The underlying rw is not closed.
func (w *NetCDFWriter) Close() error {
	return nil
}

// NetCDFReader reads float grids and attributes from a NetCDF file.
type NetCDFReader struct {
	f *cdf.File
}

// OpenNetCDF parses the header of rw.
func OpenNetCDF(rw cdf.ReaderWriterAt) (*NetCDFReader, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("OpenNetCDF: %w", err)
	}

	return &NetCDFReader{f: f}, nil
}

// Variables lists the variable names in header order.
func (r *NetCDFReader) Variables() []string { return r.f.Header.Variables() }

// Shape returns the dimension lengths of name.
func (r *NetCDFReader) Shape(name string) ([]int, error) {
	if !r.has(name) {
		return nil, fmt.Errorf("NetCDFReader.Shape(%q): %w", name, ErrUnknownVariable)
	}

	return r.f.Header.Lengths(name), nil
}

// ReadGrid reads the 2D variable name, which must be rows×cols. A 3D variable
// yields its first frame.
func (r *NetCDFReader) ReadGrid(name string, rows, cols int) (*grid.Dense, error) {
	return r.ReadFrame(name, 0, rows, cols)
}

// ReadFrame reads frame i of a 3D variable (i must be 0 for 2D variables).
func (r *NetCDFReader) ReadFrame(name string, i, rows, cols int) (*grid.Dense, error) {
	shape, err := r.Shape(name)
	if err != nil {
		return nil, err
	}
	var begin, end []int
	switch len(shape) {
	case 2:
		if i != 0 {
			return nil, fmt.Errorf("NetCDFReader.ReadFrame(%q): frame %d of a 2D variable: %w", name, i, ErrShape)
		}
		begin, end = []int{0, 0}, []int{rows, cols}
	case 3:
		if i < 0 || i >= shape[0] {
			return nil, fmt.Errorf("NetCDFReader.ReadFrame(%q): frame %d of %d: %w", name, i, shape[0], ErrShape)
		}
		begin, end = []int{i, 0, 0}, []int{i + 1, rows, cols}
	default:
		return nil, fmt.Errorf("NetCDFReader.ReadFrame(%q): %d dimensions: %w", name, len(shape), ErrShape)
	}
	if shape[len(shape)-2] != rows || shape[len(shape)-1] != cols {
		return nil, fmt.Errorf("NetCDFReader.ReadFrame(%q): stored %v, want %dx%d: %w", name, shape, rows, cols, ErrShape)
	}

	m, err := grid.NewDense(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("NetCDFReader.ReadFrame(%q): %w", name, err)
	}
	rd := r.f.Reader(name, begin, end)
	buf := rd.Zero(rows * cols)
	if _, err = rd.Read(buf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("NetCDFReader.ReadFrame(%q): %w", name, err)
	}
	data := m.Data()
	switch vals := buf.(type) {
	case []float32:
		for k, v := range vals {
			data[k] = float64(v)
		}
	case []float64:
		copy(data, vals)
	default:
		return nil, fmt.Errorf("NetCDFReader.ReadFrame(%q): non-float variable %T: %w", name, buf, ErrShape)
	}

	return m, nil
}

// Float returns the first value of a numeric attribute; variable "" selects
// the global attributes.
func (r *NetCDFReader) Float(variable, attr string) (float64, bool) {
	switch v := r.f.Header.GetAttribute(variable, attr).(type) {
	case []float64:
		if len(v) > 0 {
			return v[0], true
		}
	case []float32:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case []int32:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	case []int16:
		if len(v) > 0 {
			return float64(v[0]), true
		}
	}

	return 0, false
}

// String returns a string attribute.
func (r *NetCDFReader) String(variable, attr string) (string, bool) {
	s, ok := r.f.Header.GetAttribute(variable, attr).(string)

	return s, ok
}

func (r *NetCDFReader) has(name string) bool {
	for _, v := range r.f.Header.Variables() {
		if v == name {
			return true
		}
	}

	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// MemFile is an in-memory cdf.ReaderWriterAt that grows on write.
type MemFile struct {
	mu  sync.Mutex
	buf []byte
}

// ReadAt implements io.ReaderAt.
func (m *MemFile) ReadAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if off >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// WriteAt implements io.WriterAt.
func (m *MemFile) WriteAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if end := off + int64(len(p)); end > int64(len(m.buf)) {
		m.buf = append(m.buf, make([]byte, end-int64(len(m.buf)))...)
	}

	return copy(m.buf[off:], p), nil
}

// Bytes returns the file contents.
func (m *MemFile) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]byte(nil), m.buf...)
}
