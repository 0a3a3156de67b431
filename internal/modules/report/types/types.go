package types

import (
	"time"

	"github.com/go-gota/gota/dataframe"
)

// Column names of the daily bike-sharing table.
const (
	ColDate       = "dteday"
	ColTemp       = "temp"
	ColHumidity   = "hum"
	ColWindspeed  = "windspeed"
	ColCasual     = "casual"
	ColRegistered = "registered"
	ColCount      = "cnt"
	ColWorkingDay = "workingday"
	ColWeather    = "weathersit"
)

// Dataset is the table loaded for one render pass. It is not modified after
// preprocessing.
type Dataset struct {
	Frame dataframe.DataFrame
	// Dates holds ColDate parsed as calendar dates, one per row.
	Dates     []time.Time
	Source    string
	SizeBytes int64
}

func (d *Dataset) Rows() int {
	if d == nil {
		return 0
	}
	return d.Frame.Nrow()
}

type ChartKind string

const (
	ChartBox       ChartKind = "box"
	ChartHistogram ChartKind = "histogram"
	ChartHeatmap   ChartKind = "heatmap"
	ChartScatter   ChartKind = "scatter"
)

// ChartSpec is one fixed analysis of the report.
type ChartSpec struct {
	Slug    string
	Kind    ChartKind
	Columns []string
	X       string
	Y       string
	// Hue splits the points or boxes by the values of a categorical column.
	Hue string

	Title  string
	XLabel string
	YLabel string

	Header    string
	Subheader string
	Text      string

	Bins  int
	Color string
}

type Preview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

type ColumnInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	NonNull int    `json:"nonNull"`
}

type DatasetInfo struct {
	Rows      int          `json:"rows"`
	Columns   []ColumnInfo `json:"columns"`
	SizeBytes int64        `json:"sizeBytes"`
	// Size is SizeBytes for people, e.g. "33 kB".
	Size string `json:"size"`
}

type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}
