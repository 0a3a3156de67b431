// Package analysis computes the statistics behind the report charts: box
// summaries, histograms with density curves and the correlation matrix.
// Nothing here removes rows; outliers are reported, never dropped.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"bikeshare-dashboard/internal/modules/report/types"
)

var (
	ErrColumnMissing = errors.New("column missing")
	ErrNotNumeric    = errors.New("column not numeric")
	ErrNoData        = errors.New("no data")
	ErrNoRange       = errors.New("values span no finite range")
)

// whiskerReach is the box-plot fence distance in interquartile ranges.
const whiskerReach = 1.5

// Column returns the values of a numeric column in row order. Missing values
// are NaN; an infinite value makes the column unusable.
func Column(ds *types.Dataset, name string) ([]float64, error) {
	col := ds.Frame.Col(name)
	if col.Err != nil {
		return nil, fmt.Errorf("%w: %q", ErrColumnMissing, name)
	}
	switch col.Type() {
	case series.Int, series.Float:
		values := col.Float()
		for i, v := range values {
			if math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: %q row %d is %g", ErrNotNumeric, name, i+1, v)
			}
		}
		return values, nil
	default:
		return nil, fmt.Errorf("%w: %q has type %s", ErrNotNumeric, name, col.Type())
	}
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

type BoxStats struct {
	Label        string
	N            int
	Q1           float64
	Median       float64
	Q3           float64
	LowerWhisker float64
	UpperWhisker float64
	Outliers     []float64
}

// Box summarises values the way a Tukey box plot draws them: quartiles,
// whiskers at the furthest points within 1.5 IQR of the box, and everything
// beyond the whiskers listed as outliers.
func Box(label string, values []float64) (BoxStats, error) {
	x := dropNaN(values)
	if len(x) == 0 {
		return BoxStats{}, fmt.Errorf("%w: %q", ErrNoData, label)
	}
	slices.Sort(x)

	b := BoxStats{
		Label:  label,
		N:      len(x),
		Q1:     stat.Quantile(0.25, stat.LinInterp, x, nil),
		Median: stat.Quantile(0.5, stat.LinInterp, x, nil),
		Q3:     stat.Quantile(0.75, stat.LinInterp, x, nil),
	}
	iqr := b.Q3 - b.Q1
	lo, hi := b.Q1-whiskerReach*iqr, b.Q3+whiskerReach*iqr

	b.LowerWhisker, b.UpperWhisker = b.Q1, b.Q3
	for _, v := range x {
		if v >= lo {
			b.LowerWhisker = math.Min(v, b.Q1)
			break
		}
	}
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] <= hi {
			b.UpperWhisker = math.Max(x[i], b.Q3)
			break
		}
	}
	for _, v := range x {
		if v < lo || v > hi {
			b.Outliers = append(b.Outliers, v)
		}
	}
	return b, nil
}

// Group is the values of one column for a single category of another.
type Group struct {
	Label  string
	Key    float64
	Values []float64
}

// GroupBy splits the numeric column valueCol by the categories of groupCol,
// ordered by category value.
func GroupBy(ds *types.Dataset, valueCol, groupCol string) ([]Group, error) {
	values, err := Column(ds, valueCol)
	if err != nil {
		return nil, err
	}
	keys, err := Column(ds, groupCol)
	if err != nil {
		return nil, err
	}

	index := make(map[float64]int)
	var groups []Group
	for i, k := range keys {
		if math.IsNaN(k) {
			continue
		}
		gi, ok := index[k]
		if !ok {
			gi = len(groups)
			index[k] = gi
			groups = append(groups, Group{Label: formatKey(k), Key: k})
		}
		groups[gi].Values = append(groups[gi].Values, values[i])
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: %q has no categories", ErrNoData, groupCol)
	}
	slices.SortFunc(groups, func(a, b Group) int {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		}
		return 0
	})
	return groups, nil
}

func formatKey(k float64) string {
	return strconv.FormatFloat(k, 'f', -1, 64)
}

type Histogram struct {
	// Edges has len(Counts)+1 entries; the last bin includes its upper edge.
	Edges    []float64
	Counts   []float64
	BinWidth float64
	N        int
}

// NewHistogram bins values into equal-width bins spanning their range.
func NewHistogram(values []float64, bins int) (Histogram, error) {
	if bins < 1 {
		return Histogram{}, fmt.Errorf("histogram needs at least one bin, got %d", bins)
	}
	x := dropNaN(values)
	if len(x) == 0 {
		return Histogram{}, ErrNoData
	}
	slices.Sort(x)

	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	if math.IsInf(hi-lo, 0) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return Histogram{}, fmt.Errorf("%w: [%g, %g]", ErrNoRange, lo, hi)
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)

	// stat.Histogram wants the last divider strictly above the maximum.
	dividers := slices.Clone(edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, x, nil)

	return Histogram{
		Edges:    edges,
		Counts:   counts,
		BinWidth: (hi - lo) / float64(bins),
		N:        len(x),
	}, nil
}

// Curve is a sampled function, X ascending.
type Curve struct {
	X []float64
	Y []float64
}

// KDE estimates the density of values with a Gaussian kernel and Scott's
// bandwidth, sampled at points positions across the data range. ok is false
// when the spread is zero or there are fewer than two values.
func KDE(values []float64, points int) (c Curve, ok bool) {
	x := dropNaN(values)
	if len(x) < 2 || points < 2 {
		return Curve{}, false
	}
	sd := stat.StdDev(x, nil)
	if sd == 0 || math.IsNaN(sd) {
		return Curve{}, false
	}
	bw := sd * math.Pow(float64(len(x)), -0.2)

	lo, hi := floats.Min(x), floats.Max(x)
	c.X = floats.Span(make([]float64, points), lo, hi)
	c.Y = make([]float64, points)
	kernels := make([]distuv.Normal, len(x))
	for i, v := range x {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bw}
	}
	n := float64(len(x))
	for i, at := range c.X {
		var sum float64
		for _, k := range kernels {
			sum += k.Prob(at)
		}
		c.Y[i] = sum / n
	}
	return c, true
}

// ScaleToCounts rescales a density curve to the count axis of h.
func (h Histogram) ScaleToCounts(c Curve) Curve {
	scaled := Curve{X: c.X, Y: make([]float64, len(c.Y))}
	f := float64(h.N) * h.BinWidth
	for i, y := range c.Y {
		scaled.Y[i] = y * f
	}
	return scaled
}

// Correlation computes the Pearson correlation matrix of columns over the rows
// where all of them are present. The diagonal is exactly 1, off-diagonal values
// are clamped to [-1, 1] and NaN where a column has no variance.
func Correlation(ds *types.Dataset, columns []string) (types.CorrelationMatrix, error) {
	if len(columns) == 0 {
		return types.CorrelationMatrix{}, fmt.Errorf("%w: no columns", ErrNoData)
	}
	cols := make([][]float64, len(columns))
	for j, name := range columns {
		v, err := Column(ds, name)
		if err != nil {
			return types.CorrelationMatrix{}, err
		}
		cols[j] = v
	}

	k := len(columns)
	var data []float64
	rows := 0
	for i := range cols[0] {
		complete := true
		for j := range cols {
			if math.IsNaN(cols[j][i]) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		for j := range cols {
			data = append(data, cols[j][i])
		}
		rows++
	}
	if rows == 0 {
		return types.CorrelationMatrix{}, fmt.Errorf("%w: no complete rows", ErrNoData)
	}

	values := make([][]float64, k)
	for i := range values {
		values[i] = make([]float64, k)
	}

	if rows < 2 {
		for i := range values {
			for j := range values[i] {
				values[i][j] = math.NaN()
			}
			values[i][i] = 1
		}
		return types.CorrelationMatrix{Columns: slices.Clone(columns), Values: values}, nil
	}

	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, mat.NewDense(rows, k, data), nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			v := corr.At(i, j)
			if i == j {
				v = 1
			} else if !math.IsNaN(v) {
				v = math.Max(-1, math.Min(1, v))
			}
			values[i][j] = v
			values[j][i] = v
		}
	}
	return types.CorrelationMatrix{Columns: slices.Clone(columns), Values: values}, nil
}
