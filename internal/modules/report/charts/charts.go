// Package charts draws the report's figures as SVG or PNG with go-chart.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"bikeshare-dashboard/internal/modules/report/types"
)

var ErrUnsupportedKind = errors.New("unsupported chart kind")

const defaultBins = 20

// palette is shared by every categorical encoding so boxes and scatter groups
// get the same colours for the same positions.
var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
}

var namedColors = map[string]drawing.Color{
	"blue":   palette[0],
	"orange": palette[1],
	"green":  palette[2],
	"red":    palette[3],
	"purple": palette[4],
}

func colorNamed(name string) drawing.Color {
	if c, ok := namedColors[name]; ok {
		return c
	}
	return palette[0]
}

// Render builds the chart described by spec from ds and writes it to w.
// Nothing is written when the chart cannot be built.
func Render(w io.Writer, ds *types.Dataset, spec types.ChartSpec, format Format) error {
	var err error
	switch spec.Kind {
	case types.ChartBox:
		err = renderBox(w, ds, spec, format)
	case types.ChartHistogram:
		err = renderHistogram(w, ds, spec, format)
	case types.ChartHeatmap:
		err = renderHeatmap(w, ds, spec, format)
	case types.ChartScatter:
		err = renderScatter(w, ds, spec, format)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedKind, spec.Kind)
	}
	if err != nil {
		return fmt.Errorf("chart %s: %w", spec.Slug, err)
	}
	return nil
}

// writeBuffered renders into memory first so a failed render leaves w empty.
func writeBuffered(w io.Writer, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
