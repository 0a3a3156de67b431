package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"bikeshare-dashboard/internal/metrics"
)

func NewServer(addr string, mux *http.ServeMux, logger *slog.Logger, m *metrics.Metrics) *http.Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &http.Server{
		Addr:              addr,
		Handler:           requestLogger(mux, logger, m),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
