package loader

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"bikeshare-dashboard/internal/db"
	"bikeshare-dashboard/internal/modules/report/types"
)

var (
	ErrDatasetNotFound  = errors.New("dataset not found")
	ErrDatasetMalformed = errors.New("dataset malformed")
)

type DatasetLoader interface {
	Load(ctx context.Context) (*types.Dataset, error)
}

type loaderImpl struct {
	path   string
	table  string
	logger *slog.Logger
}

// NewLoader returns a loader for the file at path. The format follows the
// extension: .xlsx workbooks, .db/.sqlite/.sqlite3 databases (rows of table),
// comma-separated text otherwise.
func NewLoader(path string, table string, logger *slog.Logger) DatasetLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &loaderImpl{path: path, table: table, logger: logger}
}

func (l *loaderImpl) Load(ctx context.Context) (*types.Dataset, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, l.path)
		}
		return nil, fmt.Errorf("stat dataset %s: %w", l.path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrDatasetNotFound, l.path)
	}

	var frame dataframe.DataFrame
	switch strings.ToLower(filepath.Ext(l.path)) {
	case ".xlsx":
		frame, err = l.readWorkbook()
	case ".db", ".sqlite", ".sqlite3":
		frame, err = l.readTable(ctx)
	default:
		frame, err = l.readCSV()
	}
	if err != nil {
		return nil, err
	}
	if frame.Err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDatasetMalformed, l.path, frame.Err)
	}

	l.logger.Debug("dataset loaded",
		"path", l.path,
		"rows", frame.Nrow(),
		"columns", frame.Ncol(),
	)

	return &types.Dataset{
		Frame:     frame,
		Source:    l.path,
		SizeBytes: info.Size(),
	}, nil
}

func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithTypes(map[string]series.Type{
			types.ColDate: series.String,
		}),
	}
}

func (l *loaderImpl) readCSV() (dataframe.DataFrame, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open dataset %s: %w", l.path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			l.logger.Error("close dataset", "path", l.path, "error", err)
		}
	}()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s: %w", ErrDatasetMalformed, l.path, err)
	}
	return frameFromRecords(records), nil
}

// frameFromRecords loads header plus rows. A header without rows is a valid
// empty table: the date column is text and every other column numeric.
func frameFromRecords(records [][]string) dataframe.DataFrame {
	if len(records) != 1 {
		return dataframe.LoadRecords(records, loadOptions()...)
	}
	cols := make([]series.Series, len(records[0]))
	for i, name := range records[0] {
		if name == types.ColDate {
			cols[i] = series.New([]string{}, series.String, name)
		} else {
			cols[i] = series.New([]float64{}, series.Float, name)
		}
	}
	return dataframe.New(cols...)
}

func (l *loaderImpl) readWorkbook() (dataframe.DataFrame, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s: %w", ErrDatasetMalformed, l.path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			l.logger.Error("close workbook", "path", l.path, "error", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s: workbook has no sheets", ErrDatasetMalformed, l.path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s: read sheet %q: %w", ErrDatasetMalformed, l.path, sheets[0], err)
	}
	return frameFromRecords(padRows(rows)), nil
}

// padRows extends short rows to the header width; excelize omits trailing empty cells.
func padRows(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	width := len(rows[0])
	for i, r := range rows {
		if len(r) < width {
			padded := make([]string, width)
			copy(padded, r)
			for j := len(r); j < width; j++ {
				padded[j] = "NaN"
			}
			rows[i] = padded
		}
	}
	return rows
}

func (l *loaderImpl) readTable(ctx context.Context) (dataframe.DataFrame, error) {
	conn, err := db.OpenReadOnly(l.path, l.logger)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s: %w", ErrDatasetMalformed, l.path, err)
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			l.logger.Error("close dataset db", "path", l.path, "error", err)
		}
	}()

	rows, err := conn.QueryContext(ctx, `SELECT * FROM "`+l.table+`"`)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s: query table %q: %w", ErrDatasetMalformed, l.path, l.table, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			l.logger.Error("close dataset rows", "error", err)
		}
	}()

	records, err := scanRecords(rows)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s: %w", ErrDatasetMalformed, l.path, err)
	}
	return frameFromRecords(records), nil
}

func scanRecords(rows *sql.Rows) ([][]string, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	records := [][]string{cols}

	vals := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range vals {
		dest[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				rec[i] = v.String
			} else {
				rec[i] = "NaN"
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
