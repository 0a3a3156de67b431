package charts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
)

var ErrUnknownFormat = errors.New("unknown chart format")

// Format is the image encoding of a rendered chart.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ParseFormat accepts "svg" or "png"; blank means SVG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SVG):
		return SVG, nil
	case string(PNG):
		return PNG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == PNG {
		return chart.PNG
	}
	return chart.SVG
}
