package render

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"sync"

	"github.com/icza/mjpeg"

	"github.com/katalvlaran/acoustic2d/grid"
)

// MovieWriter collects the grids written under one variable name into an
// MJPEG AVI file. It implements dataset.Writer and ignores other names, so it
// can sit in a dataset.Tee next to the real output.
//
// Without WithClip the clip level follows the running peak amplitude, which
// only grows, so colours stay comparable between frames once the source has
// fired.
type MovieWriter struct {
	mu       sync.Mutex
	aw       mjpeg.AviWriter
	variable string
	nx, nz   int
	o        options
	peak     float64
	frames   int
	buf      bytes.Buffer
}

// NewMovieWriter creates path for nx×nz frames (times the scale option) at fps
// frames per second.
func NewMovieWriter(path, variable string, nx, nz, fps int, opts ...Option) (*MovieWriter, error) {
	if nx <= 0 || nz <= 0 || fps <= 0 {
		return nil, fmt.Errorf("NewMovieWriter: %dx%d at %d fps: %w", nx, nz, fps, grid.ErrInvalidDimensions)
	}
	o := gatherOptions(defaultOptions(), opts...)
	aw, err := mjpeg.New(path, int32(nx*o.scale), int32(nz*o.scale), int32(fps))
	if err != nil {
		return nil, fmt.Errorf("NewMovieWriter: %w", err)
	}

	return &MovieWriter{aw: aw, variable: variable, nx: nx, nz: nz, o: o}, nil
}

// WriteGrid encodes g as the next frame when name matches the movie variable.
func (m *MovieWriter) WriteGrid(name string, g *grid.Dense) error {
	if name != m.variable {
		return nil
	}
	if err := grid.ValidateShape(g, m.nx, m.nz); err != nil {
		return fmt.Errorf("MovieWriter.WriteGrid: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	o := m.o
	if o.clip == 0 {
		m.peak = max(m.peak, o.fraction*grid.MaxAbs(g))
		o.clip = m.peak
	}
	img, err := imageWith(g, o)
	if err != nil {
		return fmt.Errorf("MovieWriter.WriteGrid: %w", err)
	}
	m.buf.Reset()
	if err = jpeg.Encode(&m.buf, img, &jpeg.Options{Quality: o.quality}); err != nil {
		return fmt.Errorf("MovieWriter.WriteGrid: %w", err)
	}
	if err = m.aw.AddFrame(m.buf.Bytes()); err != nil {
		return fmt.Errorf("MovieWriter.WriteGrid: %w", err)
	}
	m.frames++

	return nil
}

// Frames returns the number of frames added so far.
func (m *MovieWriter) Frames() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.frames
}

// Close finalises the AVI index.
func (m *MovieWriter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.aw.Close()
}
