package report

import (
	"log/slog"
	"net/http"

	"bikeshare-dashboard/internal/config"
	"bikeshare-dashboard/internal/metrics"
	"bikeshare-dashboard/internal/modules/report/controller"
	"bikeshare-dashboard/internal/modules/report/loader"
	"bikeshare-dashboard/internal/modules/report/presenter"
	"bikeshare-dashboard/internal/modules/report/service"
)

// NewService wires the report pipeline for the configured dataset.
func NewService(cfg config.Config, m *metrics.Metrics, logger *slog.Logger) service.ReportService {
	return service.NewReportService(
		loader.NewLoader(cfg.DatasetPath, cfg.DatasetTable, logger),
		presenter.NewPresenter(cfg.PreviewRows, logger),
		m,
		logger,
	)
}

func RegisterFeature(mux *http.ServeMux, cfg config.Config, m *metrics.Metrics, logger *slog.Logger) {
	reportController := controller.NewReportController(NewService(cfg, m, logger), cfg.PreviewRows, logger)
	reportController.RegisterRoutes(mux)
}
