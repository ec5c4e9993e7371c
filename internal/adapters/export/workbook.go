// Package export writes dashboard figures to an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/okian/enow/internal/domain/breakdown"
	"github.com/okian/enow/internal/domain/impact"
	"github.com/okian/enow/internal/domain/national"
)

// Sheet names.
const (
	SheetSummary    = "Summary"
	SheetPictograms = "Pictograms"
	SheetBreakdown  = "Breakdown"
)

// ContentType is the MIME type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Report is everything one export carries. Breakdown is optional.
type Report struct {
	Summary    national.Summary
	Formatted  national.Formatted
	Pictograms []national.Pictogram
	Breakdown  *breakdown.Result
}

// Build lays rep out as a workbook.
func Build(rep Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetSummary, summaryRows(rep)},
		{SheetPictograms, pictogramRows(rep.Pictograms)},
	}
	if rep.Breakdown != nil {
		sheets = append(sheets, struct {
			name string
			rows [][]any
		}{SheetBreakdown, breakdownRows(*rep.Breakdown)})
	}

	for i, s := range sheets {
		if i > 0 {
			if _, err := f.NewSheet(s.name); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("add sheet %s: %w", s.name, err)
			}
		}
		if err := writeRows(f, s.name, s.rows); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetRowStyle(s.name, 1, 1, headerStyle); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("style %s: %w", s.name, err)
		}
		if err := f.SetColWidth(s.name, "A", "A", 32); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("width %s: %w", s.name, err)
		}
		if err := f.SetColWidth(s.name, "B", "F", 18); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("width %s: %w", s.name, err)
		}
	}
	return f, nil
}

// Write builds rep and streams it to w.
func Write(w io.Writer, rep Report) error {
	f, err := Build(rep)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func summaryRows(rep Report) [][]any {
	s, fm := rep.Summary, rep.Formatted
	return [][]any{
		{"Figure", "Display", "Value"},
		{"Direct jobs (millions)", fm.DirectJobsMillions, s.Direct[impact.WageAndSalaryEmployment]},
		{"Direct wages (billions)", fm.DirectWagesBillions, s.Direct[impact.WagesAndSalary]},
		{"Direct GDP (billions)", fm.DirectGDPBillions, s.Direct[impact.ValueAdded]},
		{"Total jobs (millions)", fm.TotalJobsMillions, s.Total[impact.WageAndSalaryEmployment]},
		{"Total wages (billions)", fm.TotalWagesBillions, s.Total[impact.WagesAndSalary]},
		{"Total GDP (billions)", fm.TotalGDPBillions, s.Total[impact.ValueAdded]},
		{"Total output (billions)", fm.TotalOutputBillions, s.Total[impact.Output]},
		{"Average wage per worker", fm.AvgWagesPerWorker, s.AvgWagePerWorker},
		{"Average GDP per worker", fm.AvgGDPPerWorker, s.AvgGDPPerWorker},
	}
}

func pictogramRows(ps []national.Pictogram) [][]any {
	rows := [][]any{{"Pictogram", "Impact Type", "Value", "Scale", "Icons"}}
	for _, p := range ps {
		for _, r := range p.Rows {
			rows = append(rows, []any{p.Title, string(r.ImpactType), r.Value, p.Scale, r.Count})
		}
	}
	return rows
}

func breakdownRows(res breakdown.Result) [][]any {
	rows := [][]any{
		{"Bucket", "Impact Type", "Value", "Squares"},
	}
	for _, b := range res.Buckets {
		rows = append(rows, []any{b.Label, string(b.ImpactType), b.Value, b.Squares})
	}
	return append(rows,
		[]any{},
		[]any{"State", res.State},
		[]any{"Metric", impact.MetricLabel(res.Metric)},
		[]any{"Status", string(res.Status)},
		[]any{"Percentage", res.Percentage},
		[]any{"Scale", res.ScaleDescription},
		[]any{"Grid", fmt.Sprintf("%d x %d", res.Columns, res.Rows)},
	)
}
