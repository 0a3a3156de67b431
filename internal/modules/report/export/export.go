// Package export writes the report's tables to an Excel workbook.
package export

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"bikeshare-dashboard/internal/modules/report/types"
)

const (
	SheetPreview     = "Preview"
	SheetInfo        = "Info"
	SheetCorrelation = "Correlation"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WriteWorkbook writes preview, column info and the correlation matrix as
// three sheets of one workbook. Missing correlations are left blank.
func WriteWorkbook(w io.Writer, preview types.Preview, info types.DatasetInfo, corr types.CorrelationMatrix) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetPreview); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetInfo, SheetCorrelation} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	sw := sheetWriter{f: f, bold: bold}
	sw.previewSheet(preview)
	sw.infoSheet(info)
	sw.correlationSheet(corr)
	if sw.err != nil {
		return sw.err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// sheetWriter keeps the first error so the sheet builders read straight through.
type sheetWriter struct {
	f    *excelize.File
	bold int
	err  error
}

func (s *sheetWriter) row(sheet string, r int, values []any) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, r)
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetSheetRow(sheet, cell, &values); err != nil {
		s.err = fmt.Errorf("%s row %d: %w", sheet, r, err)
	}
}

func (s *sheetWriter) header(sheet string, names []string) {
	values := make([]any, len(names))
	for i, n := range names {
		values[i] = n
	}
	s.row(sheet, 1, values)
	if s.err != nil || len(names) == 0 {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(names), 1)
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetCellStyle(sheet, "A1", last, s.bold); err != nil {
		s.err = err
	}
}

func (s *sheetWriter) previewSheet(p types.Preview) {
	s.header(SheetPreview, p.Columns)
	for i, r := range p.Rows {
		values := make([]any, len(r))
		for j, cell := range r {
			values[j] = numberOrText(cell)
		}
		s.row(SheetPreview, i+2, values)
	}
}

func (s *sheetWriter) infoSheet(info types.DatasetInfo) {
	s.header(SheetInfo, []string{"Column", "Non-Null Count", "Dtype"})
	for i, c := range info.Columns {
		s.row(SheetInfo, i+2, []any{c.Name, c.NonNull, c.Type})
	}
	n := len(info.Columns) + 3
	s.row(SheetInfo, n, []any{"Rows", info.Rows})
	s.row(SheetInfo, n+1, []any{"Size", info.Size})
}

func (s *sheetWriter) correlationSheet(m types.CorrelationMatrix) {
	s.header(SheetCorrelation, append([]string{""}, m.Columns...))
	for i, name := range m.Columns {
		values := []any{name}
		for _, v := range m.Values[i] {
			if math.IsNaN(v) {
				values = append(values, nil)
				continue
			}
			values = append(values, v)
		}
		s.row(SheetCorrelation, i+2, values)
	}
	if s.err != nil || len(m.Columns) == 0 {
		return
	}

	last, err := excelize.CoordinatesToCellName(len(m.Columns)+1, len(m.Columns)+1)
	if err != nil {
		s.err = err
		return
	}
	err = s.f.SetConditionalFormat(SheetCorrelation, "B2:"+last, []excelize.ConditionalFormatOptions{{
		Type:     "3_color_scale",
		Criteria: "=",
		MinType:  "num",
		MinValue: "-1",
		MinColor: "#3B4CC0",
		MidType:  "num",
		MidValue: "0",
		MidColor: "#DDDDDD",
		MaxType:  "num",
		MaxValue: "1",
		MaxColor: "#B40426",
	}})
	if err != nil {
		s.err = fmt.Errorf("correlation colours: %w", err)
	}
}

func numberOrText(s string) any {
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return v
	}
	return s
}
