package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bikeshare-dashboard/internal/metrics"
	"bikeshare-dashboard/internal/modules/report/analysis"
	"bikeshare-dashboard/internal/modules/report/charts"
	"bikeshare-dashboard/internal/modules/report/loader"
	"bikeshare-dashboard/internal/modules/report/preprocess"
	"bikeshare-dashboard/internal/modules/report/presenter"
	"bikeshare-dashboard/internal/modules/report/types"
)

var ErrUnknownChart = errors.New("unknown chart")

// ReportService runs the report pipeline. Every call reads the dataset afresh;
// nothing is shared between calls.
type ReportService interface {
	// RenderPage runs one full pass. The page is never nil; page.Err is set when
	// the pass stopped early.
	RenderPage(ctx context.Context) *types.Page
	// Dataset loads and preprocesses the dataset.
	Dataset(ctx context.Context) (*types.Dataset, error)
	Correlation(ctx context.Context) (types.CorrelationMatrix, error)
	RenderChart(ctx context.Context, slug string, format charts.Format, w io.Writer) error
}

type reportServiceImpl struct {
	loader    loader.DatasetLoader
	presenter presenter.Presenter
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewReportService(l loader.DatasetLoader, p presenter.Presenter, m *metrics.Metrics, logger *slog.Logger) ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &reportServiceImpl{loader: l, presenter: p, metrics: m, logger: logger}
}

func (s *reportServiceImpl) RenderPage(ctx context.Context) *types.Page {
	start := time.Now()
	log := s.logger.With("render_id", uuid.NewString())
	log.Info("render started")

	page := types.NewPage(presenter.PageTitle)
	outcome := metrics.OutcomeOK
	defer func() {
		elapsed := time.Since(start)
		s.metrics.ObserveRender(outcome, elapsed)
		if page.Failed() {
			log.Error("render failed", "outcome", outcome, "duration_ms", elapsed.Milliseconds(), "error", page.Err)
			return
		}
		log.Info("render finished", "blocks", len(page.Blocks), "duration_ms", elapsed.Milliseconds())
	}()

	ds, err := s.loader.Load(ctx)
	if err != nil {
		outcome = metrics.OutcomeLoadError
		page.Fail(err)
		return page
	}
	s.metrics.SetDatasetRows(ds.Rows())
	if err := preprocess.ParseDates(ds); err != nil {
		outcome = metrics.OutcomeDateError
		page.Fail(err)
		return page
	}
	if err := s.presenter.Present(ds, page); err != nil {
		outcome = metrics.OutcomeChartError
	}
	return page
}

func (s *reportServiceImpl) Dataset(ctx context.Context) (*types.Dataset, error) {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.SetDatasetRows(ds.Rows())
	if err := preprocess.ParseDates(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func (s *reportServiceImpl) Correlation(ctx context.Context) (types.CorrelationMatrix, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return types.CorrelationMatrix{}, err
	}
	return analysis.Correlation(ds, preprocess.NumericColumns())
}

func (s *reportServiceImpl) RenderChart(ctx context.Context, slug string, format charts.Format, w io.Writer) error {
	spec, ok := presenter.SpecBySlug(slug)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownChart, slug)
	}
	ds, err := s.Dataset(ctx)
	if err != nil {
		return err
	}
	return charts.Render(w, ds, spec, format)
}
