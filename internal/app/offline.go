package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"bikeshare-dashboard/internal/config"
	"bikeshare-dashboard/internal/modules/report"
	"bikeshare-dashboard/internal/modules/report/analysis"
	"bikeshare-dashboard/internal/modules/report/export"
	"bikeshare-dashboard/internal/modules/report/loader"
	"bikeshare-dashboard/internal/modules/report/preprocess"
	"bikeshare-dashboard/internal/modules/report/presenter"
	"bikeshare-dashboard/internal/modules/report/store"
	reportviews "bikeshare-dashboard/internal/modules/report/views"
)

// RenderReport runs one render pass and writes the page to w. The page is
// written even when the pass fails; the failure is returned afterwards.
func RenderReport(ctx context.Context, cfg config.Config, logger *slog.Logger, w io.Writer) error {
	if err := reportviews.LoadTemplates(); err != nil {
		return err
	}
	page := report.NewService(cfg, nil, logger).RenderPage(ctx)

	var buf bytes.Buffer
	if err := reportviews.RenderPage(&buf, page); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return page.Err
}

// ExportReport writes the preview, column info and correlation matrix of the
// dataset to w as an Excel workbook.
func ExportReport(ctx context.Context, cfg config.Config, logger *slog.Logger, w io.Writer) error {
	ds, err := report.NewService(cfg, nil, logger).Dataset(ctx)
	if err != nil {
		return err
	}
	corr, err := analysis.Correlation(ds, preprocess.NumericColumns())
	if err != nil {
		return err
	}
	return export.WriteWorkbook(w, presenter.Preview(ds, cfg.PreviewRows), presenter.Info(ds), corr)
}

// ImportDataset loads the configured dataset, parses its dates and writes it
// into table cfg.DatasetTable of the SQLite file at dbPath, replacing any
// earlier import.
func ImportDataset(ctx context.Context, cfg config.Config, logger *slog.Logger, dbPath string) (int, error) {
	target, err := filepath.Abs(dbPath)
	if err != nil {
		return 0, fmt.Errorf("import target %q: %w", dbPath, err)
	}
	if target == cfg.DatasetPath {
		return 0, errors.New("import target is the dataset itself")
	}

	ds, err := loader.NewLoader(cfg.DatasetPath, cfg.DatasetTable, logger).Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := preprocess.ParseDates(ds); err != nil {
		return 0, err
	}

	s, err := store.Open(ctx, target, cfg.DatasetTable, logger)
	if err != nil {
		return 0, err
	}
	n, err := s.Replace(ctx, ds)
	if closeErr := s.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("close %s: %w", target, closeErr)
	}
	return n, err
}
