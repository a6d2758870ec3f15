package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/katalvlaran/acoustic2d/grid"
)

// ErrEmpty indicates nothing to draw (no series or zero-length data).
var ErrEmpty = errors.New("render: nothing to draw")

// Image maps g to a paletted image of Rows()·scale × Cols()·scale pixels.
func Image(g *grid.Dense, opts ...Option) (*image.Paletted, error) {
	return imageWith(g, gatherOptions(defaultOptions(), opts...))
}

func imageWith(g *grid.Dense, o options) (*image.Paletted, error) {
	if err := grid.ValidateNotNil(g); err != nil {
		return nil, fmt.Errorf("render.Image: %w", err)
	}
	clip := o.clip
	if clip == 0 {
		clip = o.fraction * grid.MaxAbs(g)
	}
	if clip == 0 || math.IsNaN(clip) || math.IsInf(clip, 0) {
		clip = 1
	}

	pal := make(color.Palette, 0, paletteSize)
	for _, c := range o.grad.Colors(paletteSize) {
		pal = append(pal, c)
	}
	nx, nz := g.Shape()
	k := o.scale
	img := image.NewPaletted(image.Rect(0, 0, nx*k, nz*k), pal)
	for ix := 0; ix < nx; ix++ {
		row := g.Row(ix)
		for iz, v := range row {
			idx := paletteIndex(v, clip)
			for dy := 0; dy < k; dy++ {
				off := img.PixOffset(ix*k, iz*k+dy)
				for dx := 0; dx < k; dx++ {
					img.Pix[off+dx] = idx
				}
			}
		}
	}

	return img, nil
}

// paletteIndex maps [-clip, clip] linearly onto [0, paletteSize-1].
// NaN maps to the centre.
func paletteIndex(v, clip float64) uint8 {
	t := 0.5 + 0.5*v/clip
	switch {
	case math.IsNaN(t):
		t = 0.5
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}

	return uint8(math.Round(t * (paletteSize - 1)))
}

// SnapshotPNG writes a pressure snapshot (nx×nz) as PNG.
func SnapshotPNG(w io.Writer, g *grid.Dense, opts ...Option) error {
	img, err := Image(g, opts...)
	if err != nil {
		return err
	}

	return png.Encode(w, img)
}

// GatherPNG writes a receiver gather (nx×nt) as PNG, clipped by default at
// DefaultGatherClipFraction of its peak.
func GatherPNG(w io.Writer, g *grid.Dense, opts ...Option) error {
	d := defaultOptions()
	d.fraction = DefaultGatherClipFraction
	img, err := imageWith(g, gatherOptions(d, opts...))
	if err != nil {
		return err
	}

	return png.Encode(w, img)
}
