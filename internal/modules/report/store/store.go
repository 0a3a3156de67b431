// Package store writes a preprocessed dataset into a SQLite table that the
// loader can read back as a dataset source.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"bikeshare-dashboard/internal/db"
	"bikeshare-dashboard/internal/db/migrate"
	"bikeshare-dashboard/internal/modules/report/analysis"
	"bikeshare-dashboard/internal/modules/report/preprocess"
	"bikeshare-dashboard/internal/modules/report/types"
)

//go:embed sql/delete-days.sql
var deleteDaysSQL string

//go:embed sql/insert-day.sql
var insertDaySQL string

var ErrDatesNotParsed = errors.New("dataset dates not parsed")

// valueColumns follow the date column in insert order.
var valueColumns = []string{
	types.ColTemp,
	types.ColHumidity,
	types.ColWindspeed,
	types.ColCasual,
	types.ColRegistered,
	types.ColCount,
	types.ColWorkingDay,
	types.ColWeather,
}

type DatasetStore interface {
	// Replace swaps the table contents for the rows of ds and returns the
	// number written.
	Replace(ctx context.Context, ds *types.Dataset) (int, error)
	Close() error
}

type storeImpl struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
}

// Open creates the SQLite file at path if needed and migrates table.
func Open(ctx context.Context, path, table string, logger *slog.Logger) (DatasetStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := db.OpenReadWrite(path, logger)
	if err != nil {
		return nil, err
	}
	if _, err := migrate.Run(ctx, conn, table, logger); err != nil {
		_ = db.Close(conn)
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &storeImpl{db: conn, table: table, logger: logger}, nil
}

func (s *storeImpl) Close() error {
	return db.Close(s.db)
}

func (s *storeImpl) Replace(ctx context.Context, ds *types.Dataset) (int, error) {
	if len(ds.Dates) != ds.Rows() {
		return 0, ErrDatesNotParsed
	}
	cols := make([][]float64, len(valueColumns))
	for i, name := range valueColumns {
		v, err := analysis.Column(ds, name)
		if err != nil {
			return 0, err
		}
		cols[i] = v
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.query(deleteDaysSQL)); err != nil {
		return 0, fmt.Errorf("clear %s: %w", s.table, err)
	}
	stmt, err := tx.PrepareContext(ctx, s.query(insertDaySQL))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			s.logger.Error("close insert statement", "error", err)
		}
	}()

	args := make([]any, 1+len(valueColumns))
	for row, d := range ds.Dates {
		args[0] = d.Format(preprocess.DateLayout)
		for i := range cols {
			args[i+1] = nullable(cols[i][row])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", row+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	s.logger.Info("dataset stored", "table", s.table, "rows", len(ds.Dates))
	return len(ds.Dates), nil
}

func (s *storeImpl) query(body string) string {
	return strings.ReplaceAll(body, "{{table}}", s.table)
}

func nullable(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
