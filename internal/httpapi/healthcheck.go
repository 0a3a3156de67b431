package httpapi

import (
	"log/slog"
	"net/http"
	"os"

	"bikeshare-dashboard/internal/utils"
)

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	datasetPath string
}

func NewHealthchecker(datasetPath string) healthchecker {
	return &healthcheckerImpl{datasetPath: datasetPath}
}

// handleHealthz reports ok when the dataset file can be opened; every page
// render depends on it.
func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(h.datasetPath)
	if err == nil {
		var info os.FileInfo
		info, err = f.Stat()
		_ = f.Close()
		if err == nil && info.IsDir() {
			err = &os.PathError{Op: "open", Path: h.datasetPath, Err: os.ErrInvalid}
		}
	}
	if err != nil {
		slog.Error("dataset not readable", "path", h.datasetPath, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "dataset not readable")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func registerHealthcheck(mux *http.ServeMux, datasetPath string) {
	healthchecker := NewHealthchecker(datasetPath)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}
