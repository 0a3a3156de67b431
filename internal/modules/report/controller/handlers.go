package controller

import (
	"bytes"
	"errors"
	"net/http"

	"bikeshare-dashboard/internal/modules/report/analysis"
	"bikeshare-dashboard/internal/modules/report/charts"
	"bikeshare-dashboard/internal/modules/report/export"
	"bikeshare-dashboard/internal/modules/report/preprocess"
	"bikeshare-dashboard/internal/modules/report/presenter"
	"bikeshare-dashboard/internal/modules/report/service"
	"bikeshare-dashboard/internal/modules/report/views"
	"bikeshare-dashboard/internal/utils"
)

// handlePage runs one render pass. A failed pass still returns the partial
// page, with status 500.
func (c *reportControllerImpl) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page := c.service.RenderPage(r.Context())

	var buf bytes.Buffer
	if err := views.RenderPage(&buf, page); err != nil {
		c.logger.Error("page template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	status := http.StatusOK
	if page.Failed() {
		status = http.StatusInternalServerError
	}
	utils.WriteBody(w, status, "text/html; charset=utf-8", buf.Bytes())
}

func (c *reportControllerImpl) handlePreview(w http.ResponseWriter, r *http.Request) {
	limit, err := parsePreviewQuery(r, c.previewRows)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	ds, err := c.service.Dataset(r.Context())
	if err != nil {
		c.logger.Error("preview: load dataset failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, datasetErrorMessage(err))
		return
	}
	utils.WriteJSON(w, http.StatusOK, presenter.Preview(ds, limit))
}

func (c *reportControllerImpl) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	m, err := c.service.Correlation(r.Context())
	if err != nil {
		c.logger.Error("correlation failed", "error", err)
		if errors.Is(err, analysis.ErrColumnMissing) || errors.Is(err, analysis.ErrNotNumeric) {
			utils.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, datasetErrorMessage(err))
		return
	}
	utils.WriteJSON(w, http.StatusOK, toCorrelationResponse(m))
}

func (c *reportControllerImpl) handleChart(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if _, ok := presenter.SpecBySlug(slug); !ok {
		utils.WriteError(w, http.StatusNotFound, "unknown chart")
		return
	}
	format, err := charts.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid 'format' (expected svg or png)")
		return
	}

	var buf bytes.Buffer
	if err := c.service.RenderChart(r.Context(), slug, format, &buf); err != nil {
		c.logger.Error("chart render failed", "chart", slug, "error", err)
		switch {
		case errors.Is(err, service.ErrUnknownChart):
			utils.WriteError(w, http.StatusNotFound, "unknown chart")
		case errors.Is(err, analysis.ErrColumnMissing), errors.Is(err, analysis.ErrNotNumeric), errors.Is(err, analysis.ErrNoData):
			utils.WriteError(w, http.StatusInternalServerError, err.Error())
		default:
			utils.WriteError(w, http.StatusInternalServerError, datasetErrorMessage(err))
		}
		return
	}
	utils.WriteBody(w, http.StatusOK, format.ContentType(), buf.Bytes())
}

func (c *reportControllerImpl) handleExport(w http.ResponseWriter, r *http.Request) {
	ds, err := c.service.Dataset(r.Context())
	if err != nil {
		c.logger.Error("export: load dataset failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, datasetErrorMessage(err))
		return
	}
	corr, err := analysis.Correlation(ds, preprocess.NumericColumns())
	if err != nil {
		c.logger.Error("export: correlation failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, presenter.Preview(ds, c.previewRows), presenter.Info(ds), corr); err != nil {
		c.logger.Error("export: write workbook failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to build workbook")
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="report.xlsx"`)
	utils.WriteBody(w, http.StatusOK, export.ContentType, buf.Bytes())
}
