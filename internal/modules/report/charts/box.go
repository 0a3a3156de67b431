package charts

import (
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"bikeshare-dashboard/internal/modules/report/analysis"
	"bikeshare-dashboard/internal/modules/report/types"
)

// boxes computes one box per column, or one per category of spec.X when the
// chart is grouped.
func boxes(ds *types.Dataset, spec types.ChartSpec) ([]analysis.BoxStats, error) {
	var out []analysis.BoxStats
	if spec.X != "" {
		groups, err := analysis.GroupBy(ds, spec.Y, spec.X)
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			b, err := analysis.Box(g.Label, g.Values)
			if err != nil {
				return nil, err
			}
			out = append(out, b)
		}
		return out, nil
	}

	for _, col := range spec.Columns {
		values, err := analysis.Column(ds, col)
		if err != nil {
			return nil, err
		}
		b, err := analysis.Box(col, values)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, analysis.ErrNoData
	}
	return out, nil
}

func renderBox(w io.Writer, ds *types.Dataset, spec types.ChartSpec, format Format) error {
	stats, err := boxes(ds, spec)
	if err != nil {
		return err
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, b := range stats {
		lo = math.Min(lo, b.LowerWhisker)
		hi = math.Max(hi, b.UpperWhisker)
		for _, o := range b.Outliers {
			lo, hi = math.Min(lo, o), math.Max(hi, o)
		}
	}
	ticks, err := axisTicks(lo, hi, 6)
	if err != nil {
		return err
	}

	c, err := newCanvas(format, Width, Height)
	if err != nil {
		return err
	}
	plot := c.plotArea()
	ys := scale{min: ticks[0], max: ticks[len(ticks)-1], from: plot.Bottom, to: plot.Top}

	c.title(spec.Title)
	c.yAxis(plot, ys, ticks, spec.YLabel)
	c.xLabel(plot, spec.XLabel)

	slot := plot.Width() / len(stats)
	half := int(float64(slot) * 0.3)
	for i, b := range stats {
		color := palette[i%len(palette)]
		cx := plot.Left + slot*i + slot/2

		c.line(cx, ys.at(b.LowerWhisker), cx, ys.at(b.Q1), colorAxis, 1)
		c.line(cx, ys.at(b.Q3), cx, ys.at(b.UpperWhisker), colorAxis, 1)
		c.line(cx-half/2, ys.at(b.LowerWhisker), cx+half/2, ys.at(b.LowerWhisker), colorAxis, 1)
		c.line(cx-half/2, ys.at(b.UpperWhisker), cx+half/2, ys.at(b.UpperWhisker), colorAxis, 1)

		c.rect(chart.Box{Left: cx - half, Right: cx + half, Top: ys.at(b.Q3), Bottom: ys.at(b.Q1)},
			color.WithAlpha(200), colorAxis, 1)
		c.line(cx-half, ys.at(b.Median), cx+half, ys.at(b.Median), colorAxis, 2)

		for _, o := range b.Outliers {
			c.dot(cx, ys.at(o), 3, colorBackground, colorAxis)
		}
		c.text(b.Label, cx, plot.Bottom+18, tickFontSize, colorText, alignCenter)
	}

	return writeBuffered(w, c.save)
}
