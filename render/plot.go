package render

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Series is one named curve of a TracePlot.
type Series struct {
	Name   string
	Values []float64
}

// PlotSize is the pixel size of TracePlot output.
var PlotSize = struct{ Width, Height int }{Width: 900, Height: 360}

var seriesColors = []drawing.Color{
	chart.ColorBlue,
	chart.ColorRed,
	chart.ColorGreen,
	{R: 255, G: 165, B: 0, A: 255},
	chart.ColorBlack,
}

// TracePlot renders one or more traces against the shared axis x (usually
// time in s) as a PNG line chart.
// Errors: ErrEmpty without series or samples; a length mismatch between x and
// any series.
func TracePlot(w io.Writer, title, xLabel string, x []float64, series ...Series) error {
	if len(series) == 0 || len(x) < 2 {
		return fmt.Errorf("TracePlot: %d series, %d samples: %w", len(series), len(x), ErrEmpty)
	}
	lo, hi := series[0].minMax()
	list := make([]chart.Series, 0, len(series))
	for i, s := range series {
		if len(s.Values) != len(x) {
			return fmt.Errorf("TracePlot: series %q has %d values for %d samples", s.Name, len(s.Values), len(x))
		}
		a, b := s.minMax()
		lo, hi = min(lo, a), max(hi, b)
		list = append(list, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: x,
			YValues: s.Values,
			Style: chart.Style{
				StrokeColor: seriesColors[i%len(seriesColors)],
				StrokeWidth: 2.0,
			},
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  PlotSize.Width,
		Height: PlotSize.Height,
		XAxis: chart.XAxis{
			Name:  xLabel,
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.3g", v.(float64))
			},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: 10.0},
		},
		Series: list,
	}
	if lo == hi {
		// A flat trace has no data range; give the axis one.
		graph.YAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	if len(series) > 1 {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("TracePlot: %w", err)
	}

	return nil
}

func (s Series) minMax() (lo, hi float64) {
	if len(s.Values) == 0 {
		return 0, 0
	}
	lo, hi = s.Values[0], s.Values[0]
	for _, v := range s.Values[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}

	return lo, hi
}
