package charts

import (
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/wcharczuk/go-chart/v2"

	"bikeshare-dashboard/internal/modules/report/analysis"
	"bikeshare-dashboard/internal/modules/report/types"
)

type pointGroup struct {
	key  float64
	name string
	xs   []float64
	ys   []float64
}

// pointsByHue splits the complete (x, y, hue) rows by hue value, ascending.
func pointsByHue(ds *types.Dataset, spec types.ChartSpec) ([]*pointGroup, error) {
	xs, err := analysis.Column(ds, spec.X)
	if err != nil {
		return nil, err
	}
	ys, err := analysis.Column(ds, spec.Y)
	if err != nil {
		return nil, err
	}
	hues := make([]float64, len(xs))
	if spec.Hue != "" {
		if hues, err = analysis.Column(ds, spec.Hue); err != nil {
			return nil, err
		}
	}

	byKey := make(map[float64]*pointGroup)
	var groups []*pointGroup
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) || math.IsNaN(hues[i]) {
			continue
		}
		g, ok := byKey[hues[i]]
		if !ok {
			g = &pointGroup{key: hues[i], name: spec.Y}
			if spec.Hue != "" {
				g.name = fmt.Sprintf("%s %g", spec.Hue, hues[i])
			}
			byKey[hues[i]] = g
			groups = append(groups, g)
		}
		g.xs = append(g.xs, xs[i])
		g.ys = append(g.ys, ys[i])
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: no complete points", analysis.ErrNoData)
	}
	slices.SortFunc(groups, func(a, b *pointGroup) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		}
		return 0
	})
	return groups, nil
}

func renderScatter(w io.Writer, ds *types.Dataset, spec types.ChartSpec, format Format) error {
	groups, err := pointsByHue(ds, spec)
	if err != nil {
		return err
	}

	xlo, xhi := math.Inf(1), math.Inf(-1)
	ylo, yhi := math.Inf(1), math.Inf(-1)
	series := make([]chart.Series, 0, len(groups))
	for i, g := range groups {
		xlo, xhi = math.Min(xlo, slices.Min(g.xs)), math.Max(xhi, slices.Max(g.xs))
		ylo, yhi = math.Min(ylo, slices.Min(g.ys)), math.Max(yhi, slices.Max(g.ys))

		color := palette[i%len(palette)]
		series = append(series, chart.ContinuousSeries{
			Name:    g.name,
			XValues: g.xs,
			YValues: g.ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				StrokeColor: color,
				DotWidth:    3,
				DotColor:    color.WithAlpha(180),
			},
		})
	}
	xt, err := axisTicks(xlo, xhi, 6)
	if err != nil {
		return err
	}
	yt, err := axisTicks(ylo, yhi, 6)
	if err != nil {
		return err
	}

	ch := chart.Chart{
		Title:      spec.Title,
		Width:      Width,
		Height:     Height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 30, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  spec.XLabel,
			Range: &chart.ContinuousRange{Min: xt[0], Max: xt[len(xt)-1]},
			Ticks: asTicks(xt),
		},
		YAxis: chart.YAxis{
			Name:  spec.YLabel,
			Range: &chart.ContinuousRange{Min: yt[0], Max: yt[len(yt)-1]},
			Ticks: asTicks(yt),
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return writeBuffered(w, func(w io.Writer) error {
		return ch.Render(format.provider(), w)
	})
}

func asTicks(values []float64) []chart.Tick {
	ticks := make([]chart.Tick, len(values))
	for i, v := range values {
		ticks[i] = chart.Tick{Value: v, Label: formatTick(v)}
	}
	return ticks
}
