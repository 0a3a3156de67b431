package presenter

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/go-gota/gota/series"

	"bikeshare-dashboard/internal/modules/report/preprocess"
	"bikeshare-dashboard/internal/modules/report/types"
)

// Preview returns the first n rows of ds in file order, formatted for display.
func Preview(ds *types.Dataset, n int) types.Preview {
	names := ds.Frame.Names()
	rows := min(max(n, 0), ds.Rows())

	cols := make([][]string, len(names))
	for j, name := range names {
		cols[j] = cellStrings(ds, name)
	}

	out := types.Preview{Columns: names, Rows: make([][]string, rows)}
	for i := range rows {
		row := make([]string, len(names))
		for j := range names {
			row[j] = cols[j][i]
		}
		out.Rows[i] = row
	}
	return out
}

func cellStrings(ds *types.Dataset, name string) []string {
	if name == types.ColDate && len(ds.Dates) == ds.Rows() {
		out := make([]string, len(ds.Dates))
		for i, d := range ds.Dates {
			out[i] = d.Format(preprocess.DateLayout)
		}
		return out
	}
	col := ds.Frame.Col(name)
	if col.Type() != series.Float {
		return col.Records()
	}
	values := col.Float()
	out := make([]string, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = "NaN"
			continue
		}
		out[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return out
}

// Info describes the columns of ds: detected type and count of present values.
func Info(ds *types.Dataset) types.DatasetInfo {
	names := ds.Frame.Names()
	info := types.DatasetInfo{
		Rows:      ds.Rows(),
		Columns:   make([]types.ColumnInfo, len(names)),
		SizeBytes: ds.SizeBytes,
		Size:      humanize.Bytes(uint64(max(ds.SizeBytes, 0))),
	}
	for i, name := range names {
		col := ds.Frame.Col(name)
		typ := string(col.Type())
		if name == types.ColDate && len(ds.Dates) == ds.Rows() {
			typ = "date"
		}
		nonNull := 0
		for _, missing := range col.IsNaN() {
			if !missing {
				nonNull++
			}
		}
		info.Columns[i] = types.ColumnInfo{Name: name, Type: typ, NonNull: nonNull}
	}
	return info
}
