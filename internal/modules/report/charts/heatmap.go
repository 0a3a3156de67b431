package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"bikeshare-dashboard/internal/modules/report/analysis"
	"bikeshare-dashboard/internal/modules/report/types"
)

var (
	coolEnd  = drawing.Color{R: 59, G: 76, B: 192, A: 255}
	midPoint = drawing.Color{R: 221, G: 221, B: 221, A: 255}
	warmEnd  = drawing.Color{R: 180, G: 4, B: 38, A: 255}
	noValue  = drawing.ColorFromHex("bbbbbb")
)

// diverging maps a correlation in [-1, 1] onto a blue-grey-red ramp centred
// on zero.
func diverging(v float64) drawing.Color {
	if math.IsNaN(v) {
		return noValue
	}
	v = math.Max(-1, math.Min(1, v))
	if v < 0 {
		return blend(midPoint, coolEnd, -v)
	}
	return blend(midPoint, warmEnd, v)
}

func blend(a, b drawing.Color, t float64) drawing.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func renderHeatmap(w io.Writer, ds *types.Dataset, spec types.ChartSpec, format Format) error {
	m, err := analysis.Correlation(ds, spec.Columns)
	if err != nil {
		return err
	}

	c, err := newCanvas(format, Width, Height)
	if err != nil {
		return err
	}
	c.title(spec.Title)

	k := len(m.Columns)
	area := c.plotArea()
	side := min(area.Height(), area.Width()-120) / k
	grid := chart.Box{Top: area.Top, Left: area.Left + 40}
	grid.Right = grid.Left + side*k
	grid.Bottom = grid.Top + side*k

	for i, row := range m.Values {
		for j, v := range row {
			cell := chart.Box{
				Left:   grid.Left + j*side,
				Top:    grid.Top + i*side,
				Right:  grid.Left + (j+1)*side,
				Bottom: grid.Top + (i+1)*side,
			}
			c.rect(cell, diverging(v), colorBackground, 1)

			label, ink := "nan", colorText
			if !math.IsNaN(v) {
				label = fmt.Sprintf("%.2f", v)
				if math.Abs(v) > 0.6 {
					ink = colorBackground
				}
			}
			c.text(label, cell.Left+side/2, cell.Top+side/2+4, tickFontSize, ink, alignCenter)
		}
		c.text(m.Columns[i], grid.Left-6, grid.Top+i*side+side/2+4, tickFontSize, colorText, alignRight)
		c.text(m.Columns[i], grid.Left+i*side+side/2, grid.Bottom+16, tickFontSize, colorText, alignCenter)
	}

	colorBar(c, chart.Box{Left: grid.Right + 30, Right: grid.Right + 48, Top: grid.Top, Bottom: grid.Bottom})
	return writeBuffered(w, c.save)
}

// colorBar draws the value legend for the diverging ramp, +1 at the top.
func colorBar(c *canvas, b chart.Box) {
	const steps = 40
	ys := scale{min: -1, max: 1, from: b.Bottom, to: b.Top}
	for i := 0; i < steps; i++ {
		lo := -1 + 2*float64(i)/steps
		hi := -1 + 2*float64(i+1)/steps
		c.rect(chart.Box{Left: b.Left, Right: b.Right, Top: ys.at(hi), Bottom: ys.at(lo)},
			diverging((lo+hi)/2), diverging((lo+hi)/2), 0)
	}
	for _, t := range []float64{-1, -0.5, 0, 0.5, 1} {
		y := ys.at(t)
		c.line(b.Right, y, b.Right+4, y, colorAxis, 1)
		c.text(formatTick(t), b.Right+8, y+4, tickFontSize, colorText, alignLeft)
	}
}
