package controller

import (
	"log/slog"
	"net/http"

	"bikeshare-dashboard/internal/modules/report/service"
)

type ReportController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type reportControllerImpl struct {
	service     service.ReportService
	previewRows int
	logger      *slog.Logger
}

func NewReportController(svc service.ReportService, previewRows int, logger *slog.Logger) ReportController {
	if logger == nil {
		logger = slog.Default()
	}
	return &reportControllerImpl{service: svc, previewRows: previewRows, logger: logger}
}

func (c *reportControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handlePage)
	mux.HandleFunc("GET /api/v1/dataset/preview", c.handlePreview)
	mux.HandleFunc("GET /api/v1/dataset/correlation", c.handleCorrelation)
	mux.HandleFunc("GET /charts/{slug}", c.handleChart)
	mux.HandleFunc("GET /export/report.xlsx", c.handleExport)
}
