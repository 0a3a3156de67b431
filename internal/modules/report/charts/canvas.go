package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	Width  = 960
	Height = 480

	titleFontSize = 14
	labelFontSize = 10
	tickFontSize  = 9
)

var (
	colorBackground = drawing.ColorFromHex("ffffff")
	colorText       = drawing.ColorFromHex("333333")
	colorAxis       = drawing.ColorFromHex("666666")
	colorGrid       = drawing.ColorFromHex("e5e5e5")
)

type textAlign int

const (
	alignLeft textAlign = iota
	alignCenter
	alignRight
)

// canvas draws directly on a go-chart renderer for the chart kinds the
// library has no series type for.
type canvas struct {
	r      chart.Renderer
	width  int
	height int
}

func newCanvas(format Format, width, height int) (*canvas, error) {
	r, err := format.provider()(width, height)
	if err != nil {
		return nil, fmt.Errorf("create %s renderer: %w", format, err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	r.SetFont(font)

	c := &canvas{r: r, width: width, height: height}
	c.rect(chart.Box{Right: width, Bottom: height}, colorBackground, colorBackground, 0)
	return c, nil
}

// plotArea is the region left for data once title and axis labels have room.
func (c *canvas) plotArea() chart.Box {
	return chart.Box{Top: 50, Left: 90, Right: c.width - 30, Bottom: c.height - 70}
}

func (c *canvas) rect(b chart.Box, fill, stroke drawing.Color, strokeWidth float64) {
	c.r.SetFillColor(fill)
	c.r.SetStrokeColor(stroke)
	c.r.SetStrokeWidth(strokeWidth)
	c.r.MoveTo(b.Left, b.Top)
	c.r.LineTo(b.Right, b.Top)
	c.r.LineTo(b.Right, b.Bottom)
	c.r.LineTo(b.Left, b.Bottom)
	c.r.LineTo(b.Left, b.Top)
	c.r.Close()
	c.r.FillStroke()
}

func (c *canvas) line(x0, y0, x1, y1 int, color drawing.Color, width float64) {
	c.r.SetStrokeColor(color)
	c.r.SetStrokeWidth(width)
	c.r.MoveTo(x0, y0)
	c.r.LineTo(x1, y1)
	c.r.Stroke()
}

func (c *canvas) dot(x, y int, radius float64, fill, stroke drawing.Color) {
	c.r.SetFillColor(fill)
	c.r.SetStrokeColor(stroke)
	c.r.SetStrokeWidth(1)
	c.r.Circle(radius, x, y)
	c.r.FillStroke()
}

// text draws s with its baseline at y, aligned horizontally on x.
func (c *canvas) text(s string, x, y int, size float64, color drawing.Color, align textAlign) {
	c.r.SetFontSize(size)
	c.r.SetFontColor(color)
	w := c.r.MeasureText(s).Width()
	switch align {
	case alignCenter:
		x -= w / 2
	case alignRight:
		x -= w
	}
	c.r.Text(s, x, y)
}

// verticalText draws s rotated to read bottom to top, centred on y.
func (c *canvas) verticalText(s string, x, y int, size float64, color drawing.Color) {
	c.r.SetFontSize(size)
	c.r.SetFontColor(color)
	w := c.r.MeasureText(s).Width()
	c.r.SetTextRotation(chart.DegreesToRadians(270))
	c.r.Text(s, x, y+w/2)
	c.r.ClearTextRotation()
}

func (c *canvas) title(s string) {
	c.text(s, c.width/2, 30, titleFontSize, colorText, alignCenter)
}

// yAxis draws tick labels and horizontal grid lines for a value scale.
func (c *canvas) yAxis(plot chart.Box, s scale, ticks []float64, label string) {
	for _, t := range ticks {
		y := s.at(t)
		c.line(plot.Left, y, plot.Right, y, colorGrid, 1)
		c.text(formatTick(t), plot.Left-8, y+4, tickFontSize, colorText, alignRight)
	}
	c.line(plot.Left, plot.Top, plot.Left, plot.Bottom, colorAxis, 1)
	c.line(plot.Left, plot.Bottom, plot.Right, plot.Bottom, colorAxis, 1)
	if label != "" {
		c.verticalText(label, 20, plot.Top+plot.Height()/2, labelFontSize, colorText)
	}
}

func (c *canvas) xLabel(plot chart.Box, label string) {
	if label != "" {
		c.text(label, plot.Left+plot.Width()/2, c.height-20, labelFontSize, colorText, alignCenter)
	}
}

func (c *canvas) save(w io.Writer) error {
	return c.r.Save(w)
}

// scale maps data values in [min, max] onto pixels [from, to].
type scale struct {
	min, max float64
	from, to int
}

func (s scale) at(v float64) int {
	return s.from + int(math.Round((v-s.min)/(s.max-s.min)*float64(s.to-s.from)))
}
