// Package preprocess turns a freshly loaded dataset into the shape the charts read.
package preprocess

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bikeshare-dashboard/internal/modules/report/types"
)

var ErrDateParse = errors.New("date parse failed")

// DateLayout is the layout of the date column in the source file.
const DateLayout = "2006-01-02"

// Slash dates are month first.
var fallbackLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "1/2/2006"}

// NumericColumns are the measurements examined by the outlier boxplot and the
// correlation heatmap, in display order.
func NumericColumns() []string {
	return []string{
		types.ColTemp,
		types.ColHumidity,
		types.ColWindspeed,
		types.ColCasual,
		types.ColRegistered,
		types.ColCount,
	}
}

// ParseDates fills ds.Dates from the date column. A single value that is not
// a date fails the whole dataset.
func ParseDates(ds *types.Dataset) error {
	col := ds.Frame.Col(types.ColDate)
	if col.Err != nil {
		return fmt.Errorf("%w: column %q: %w", ErrDateParse, types.ColDate, col.Err)
	}

	raw := col.Records()
	dates := make([]time.Time, len(raw))
	for i, s := range raw {
		t, err := parseDate(s)
		if err != nil {
			return fmt.Errorf("%w: row %d: %w", ErrDateParse, i+1, err)
		}
		dates[i] = t
	}
	ds.Dates = dates
	return nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err == nil {
		return t, nil
	}
	for _, layout := range fallbackLayouts {
		if t, fallbackErr := time.Parse(layout, s); fallbackErr == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse %q as %s: %w", s, DateLayout, err)
}
