// Package presenter lays out the report: static text, the dataset preview and
// the fixed sequence of charts, appended to a page strictly in order.
package presenter

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"bikeshare-dashboard/internal/modules/report/charts"
	"bikeshare-dashboard/internal/modules/report/types"
)

type Presenter interface {
	// Present appends the report for ds to page. The first chart that cannot
	// be built ends the page with an error block; its error is returned and
	// the blocks before it stay.
	Present(ds *types.Dataset, page *types.Page) error
}

type presenterImpl struct {
	previewRows int
	specs       []types.ChartSpec
	logger      *slog.Logger
}

func NewPresenter(previewRows int, logger *slog.Logger) Presenter {
	return newPresenter(previewRows, Specs(), logger)
}

func newPresenter(previewRows int, specs []types.ChartSpec, logger *slog.Logger) *presenterImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &presenterImpl{previewRows: previewRows, specs: specs, logger: logger}
}

func (p *presenterImpl) Present(ds *types.Dataset, page *types.Page) error {
	page.Append(types.Block{Kind: types.BlockMarkdown, Text: description})

	page.Append(types.Block{Kind: types.BlockHeader, Text: "Data Overview"})
	page.Append(types.Block{Kind: types.BlockSubheader, Text: fmt.Sprintf("First %d Rows of the Dataset", p.previewRows)})
	preview := Preview(ds, p.previewRows)
	page.Append(types.Block{Kind: types.BlockPreview, Preview: &preview})
	page.Append(types.Block{Kind: types.BlockSubheader, Text: "Dataset Info"})
	info := Info(ds)
	page.Append(types.Block{Kind: types.BlockInfo, Info: &info})

	for _, spec := range p.specs {
		appendHeadings(page, spec)

		start := time.Now()
		var buf bytes.Buffer
		if err := charts.Render(&buf, ds, spec, charts.SVG); err != nil {
			p.logger.Error("chart failed", "chart", spec.Slug, "err", err)
			page.Fail(err)
			return err
		}
		p.logger.Debug("chart rendered",
			"chart", spec.Slug,
			"bytes", buf.Len(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		page.Append(types.Block{
			Kind:  types.BlockChart,
			Chart: &types.ChartImage{Slug: spec.Slug, Title: spec.Title, SVG: buf.Bytes()},
		})
	}

	page.Append(types.Block{Kind: types.BlockHeader, Text: "Conclusion"})
	page.Append(types.Block{Kind: types.BlockMarkdown, Text: conclusion})
	return nil
}

func appendHeadings(page *types.Page, spec types.ChartSpec) {
	if spec.Header != "" {
		page.Append(types.Block{Kind: types.BlockHeader, Text: spec.Header})
	}
	if spec.Subheader != "" {
		page.Append(types.Block{Kind: types.BlockSubheader, Text: spec.Subheader})
	}
	if spec.Text != "" {
		page.Append(types.Block{Kind: types.BlockText, Text: spec.Text})
	}
}
