package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"

	"bikeshare-dashboard/internal/modules/report/charts"
	"bikeshare-dashboard/internal/modules/report/loader"
	"bikeshare-dashboard/internal/modules/report/preprocess"
	"bikeshare-dashboard/internal/modules/report/service"
	"bikeshare-dashboard/internal/modules/report/types"
	"bikeshare-dashboard/internal/modules/report/views"
)

const sampleCSV = `dteday,temp,hum,windspeed,casual,registered,cnt,workingday,weathersit
2011-01-01,0.3,0.6,0.2,50,200,250,0,1
2011-01-02,0.4,0.5,0.15,80,300,380,1,2
`

type mockService struct {
	page       *types.Page
	dataset    *types.Dataset
	datasetErr error
	corr       types.CorrelationMatrix
	corrErr    error
	chart      string
	chartErr   error
}

func (m *mockService) RenderPage(ctx context.Context) *types.Page {
	return m.page
}

func (m *mockService) Dataset(ctx context.Context) (*types.Dataset, error) {
	return m.dataset, m.datasetErr
}

func (m *mockService) Correlation(ctx context.Context) (types.CorrelationMatrix, error) {
	return m.corr, m.corrErr
}

func (m *mockService) RenderChart(ctx context.Context, slug string, format charts.Format, w io.Writer) error {
	if m.chartErr != nil {
		return m.chartErr
	}
	_, err := io.WriteString(w, m.chart)
	return err
}

func sampleDataset(t *testing.T) *types.Dataset {
	t.Helper()
	df := dataframe.ReadCSV(strings.NewReader(sampleCSV))
	if df.Err != nil {
		t.Fatalf("ReadCSV: %v", df.Err)
	}
	ds := &types.Dataset{Frame: df, SizeBytes: int64(len(sampleCSV))}
	if err := preprocess.ParseDates(ds); err != nil {
		t.Fatalf("ParseDates: %v", err)
	}
	return ds
}

func serve(t *testing.T, svc service.ReportService, target string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	NewReportController(svc, 5, nil).RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func Test_handlePage(t *testing.T) {
	if err := views.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates() = %v", err)
	}

	t.Run("returns 404 when path is not /", func(t *testing.T) {
		rec := serve(t, &mockService{page: types.NewPage("Report")}, "/dashboard")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("returns 200 and the page", func(t *testing.T) {
		rec := serve(t, &mockService{page: types.NewPage("Report")}, "/")
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
			t.Errorf("Content-Type = %q", got)
		}
		if !strings.Contains(rec.Body.String(), "<h1>Report</h1>") {
			t.Errorf("body = %q; want title", rec.Body.String())
		}
	})

	t.Run("returns 500 with the partial page on failure", func(t *testing.T) {
		page := types.NewPage("Report")
		page.Append(types.Block{Kind: types.BlockHeader, Text: "Data Cleaning"})
		page.Fail(errors.New("chart workingday: column missing"))

		rec := serve(t, &mockService{page: page}, "/")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "<h2>Data Cleaning</h2>") {
			t.Error("body lost the blocks rendered before the failure")
		}
		if !strings.Contains(body, "column missing") {
			t.Error("body missing the error block")
		}
	})
}

func Test_handlePreview(t *testing.T) {
	t.Run("returns the first rows in order", func(t *testing.T) {
		rec := serve(t, &mockService{dataset: sampleDataset(t)}, "/api/v1/dataset/preview")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		var got types.Preview
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got.Rows) != 2 {
			t.Fatalf("len(rows) = %d; want 2", len(got.Rows))
		}
		if got.Rows[0][0] != "2011-01-01" || got.Rows[1][6] != "380" {
			t.Errorf("rows = %v", got.Rows)
		}
	})

	t.Run("honours limit", func(t *testing.T) {
		rec := serve(t, &mockService{dataset: sampleDataset(t)}, "/api/v1/dataset/preview?limit=1")
		var got types.Preview
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got.Rows) != 1 {
			t.Errorf("len(rows) = %d; want 1", len(got.Rows))
		}
	})

	tests := []struct {
		name  string
		query string
	}{
		{"not a number", "limit=abc"},
		{"zero", "limit=0"},
		{"too large", "limit=101"},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			rec := serve(t, &mockService{dataset: sampleDataset(t)}, "/api/v1/dataset/preview?"+tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d; want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}

	t.Run("hides the dataset path on load failure", func(t *testing.T) {
		err := fmt.Errorf("%w: /srv/data/day.csv", loader.ErrDatasetNotFound)
		rec := serve(t, &mockService{datasetErr: err}, "/api/v1/dataset/preview")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "dataset not found") || strings.Contains(body, "/srv/data") {
			t.Errorf("body = %q", body)
		}
	})
}

func Test_handleCorrelation(t *testing.T) {
	m := types.CorrelationMatrix{
		Columns: []string{"a", "b"},
		Values:  [][]float64{{1, math.NaN()}, {math.NaN(), 1}},
	}
	rec := serve(t, &mockService{corr: m}, "/api/v1/dataset/correlation")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	want := `{"columns":["a","b"],"values":[[1,null],[null,1]]}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("body = %s; want %s", got, want)
	}
}

func Test_handleChart(t *testing.T) {
	t.Run("serves svg by default", func(t *testing.T) {
		rec := serve(t, &mockService{chart: "<svg></svg>"}, "/charts/temperature")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		if got := rec.Header().Get("Content-Type"); got != "image/svg+xml" {
			t.Errorf("Content-Type = %q; want image/svg+xml", got)
		}
	})

	t.Run("serves png", func(t *testing.T) {
		rec := serve(t, &mockService{chart: "\x89PNG"}, "/charts/temperature?format=png")
		if got := rec.Header().Get("Content-Type"); got != "image/png" {
			t.Errorf("Content-Type = %q; want image/png", got)
		}
	})

	t.Run("unknown chart is 404", func(t *testing.T) {
		rec := serve(t, &mockService{}, "/charts/pie")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("unknown format is 400", func(t *testing.T) {
		rec := serve(t, &mockService{}, "/charts/temperature?format=gif")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("render failure is 500", func(t *testing.T) {
		rec := serve(t, &mockService{chartErr: fmt.Errorf("%w: x", loader.ErrDatasetMalformed)}, "/charts/temperature")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
		}
		if !strings.Contains(rec.Body.String(), "dataset malformed") {
			t.Errorf("body = %q", rec.Body.String())
		}
	})
}

func Test_handleExport(t *testing.T) {
	rec := serve(t, &mockService{dataset: sampleDataset(t)}, "/export/report.xlsx")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "report.xlsx") {
		t.Errorf("Content-Disposition = %q", got)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Preview")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("len(rows) = %d; want header + 2", len(rows))
	}
}
