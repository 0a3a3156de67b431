package controller

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"bikeshare-dashboard/internal/modules/report/loader"
	"bikeshare-dashboard/internal/modules/report/preprocess"
	"bikeshare-dashboard/internal/modules/report/types"
)

const maxPreviewLimit = 100

func parsePreviewQuery(r *http.Request, def int) (int, error) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("invalid 'limit' (expected integer)")
	}
	if n <= 0 {
		return 0, errors.New("'limit' must be > 0")
	}
	if n > maxPreviewLimit {
		return 0, errors.New("'limit' must be <= 100")
	}
	return n, nil
}

// datasetErrorMessage is what a client is told when the dataset could not be
// read. Paths stay in the logs.
func datasetErrorMessage(err error) string {
	switch {
	case errors.Is(err, loader.ErrDatasetNotFound):
		return "dataset not found"
	case errors.Is(err, loader.ErrDatasetMalformed):
		return "dataset malformed"
	case errors.Is(err, preprocess.ErrDateParse):
		return "dataset has invalid dates"
	}
	return "failed to load dataset"
}

// correlationResponse is the JSON shape of a correlation matrix: a missing
// coefficient (no variance) is null.
type correlationResponse struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

func toCorrelationResponse(m types.CorrelationMatrix) correlationResponse {
	out := correlationResponse{Columns: m.Columns, Values: make([][]*float64, len(m.Values))}
	for i, row := range m.Values {
		out.Values[i] = make([]*float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				continue
			}
			out.Values[i][j] = &v
		}
	}
	return out
}
