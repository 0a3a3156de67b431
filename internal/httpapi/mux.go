package httpapi

import (
	"net/http"

	"bikeshare-dashboard/internal/metrics"
)

// NewMux returns a mux with the operational routes: health and metrics.
// Feature modules register their own routes on it.
func NewMux(datasetPath string, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, datasetPath)
	mux.Handle("GET /metrics", m.Handler())
	return mux
}
