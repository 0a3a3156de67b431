package charts

import (
	"io"
	"slices"

	"github.com/wcharczuk/go-chart/v2"

	"bikeshare-dashboard/internal/modules/report/analysis"
	"bikeshare-dashboard/internal/modules/report/types"
)

const kdePoints = 200

func renderHistogram(w io.Writer, ds *types.Dataset, spec types.ChartSpec, format Format) error {
	values, err := analysis.Column(ds, spec.X)
	if err != nil {
		return err
	}
	bins := spec.Bins
	if bins == 0 {
		bins = defaultBins
	}
	h, err := analysis.NewHistogram(values, bins)
	if err != nil {
		return err
	}

	color := colorNamed(spec.Color)
	xs, ys := bars(h)
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    spec.X,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 1,
				FillColor:   color.WithAlpha(110),
			},
		},
	}

	top := slices.Max(h.Counts)
	if curve, ok := analysis.KDE(values, kdePoints); ok {
		curve = h.ScaleToCounts(curve)
		series = append(series, chart.ContinuousSeries{
			Name:    "kde",
			XValues: curve.X,
			YValues: curve.Y,
			Style:   chart.Style{StrokeColor: color, StrokeWidth: 2},
		})
		top = max(top, slices.Max(curve.Y))
	}

	ch := chart.Chart{
		Title:      spec.Title,
		Width:      Width,
		Height:     Height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 30, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  spec.XLabel,
			Range: &chart.ContinuousRange{Min: h.Edges[0], Max: h.Edges[len(h.Edges)-1]},
		},
		YAxis: chart.YAxis{
			Name:  spec.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return formatTick(roundTo(f, 0.01))
				}
				return ""
			},
		},
		Series: series,
	}
	return writeBuffered(w, func(w io.Writer) error {
		return ch.Render(format.provider(), w)
	})
}

// bars traces the outline of the histogram as a step line so a filled
// continuous series draws the bars.
func bars(h analysis.Histogram) (xs, ys []float64) {
	xs = make([]float64, 0, 2*len(h.Counts)+2)
	ys = make([]float64, 0, 2*len(h.Counts)+2)
	xs, ys = append(xs, h.Edges[0]), append(ys, 0)
	for i, c := range h.Counts {
		xs = append(xs, h.Edges[i], h.Edges[i+1])
		ys = append(ys, c, c)
	}
	xs, ys = append(xs, h.Edges[len(h.Edges)-1]), append(ys, 0)
	return xs, ys
}
