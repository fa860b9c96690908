// Package export writes the subscription list as a spreadsheet.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"subspend/internal/aggregate"
)

const sheetName = "Subscriptions"

var header = []string{"ID", "Name", "Billing cycle", "Cost", "Monthly equivalent", "Created"}

// WriteXLSX writes one row per line followed by a totals block.
func WriteXLSX(w io.Writer, lines []aggregate.Line, sum aggregate.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := fill(f, sheetName, lines, sum); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// sheetWriter keeps the first excelize error so the layout code reads top to bottom.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (s *sheetWriter) value(col string, row int, v any) {
	if s.err != nil {
		return
	}
	cell := fmt.Sprintf("%s%d", col, row)
	if err := s.f.SetCellValue(s.sheet, cell, v); err != nil {
		s.err = fmt.Errorf("set cell %s: %w", cell, err)
	}
}

func (s *sheetWriter) style(from, to string, style int) {
	if s.err != nil {
		return
	}
	if err := s.f.SetCellStyle(s.sheet, from, to, style); err != nil {
		s.err = fmt.Errorf("set style %s:%s: %w", from, to, err)
	}
}

func (s *sheetWriter) width(from, to string, w float64) {
	if s.err != nil {
		return
	}
	if err := s.f.SetColWidth(s.sheet, from, to, w); err != nil {
		s.err = fmt.Errorf("set width %s:%s: %w", from, to, err)
	}
}

func fill(f *excelize.File, sheet string, lines []aggregate.Line, sum aggregate.Summary) error {
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	s := &sheetWriter{f: f, sheet: sheet}

	for i, h := range header {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("header column %d: %w", i+1, err)
		}
		s.value(col, 1, h)
	}
	s.style("A1", "F1", bold)

	row := 2
	for _, l := range lines {
		s.value("A", row, l.ID)
		s.value("B", row, l.Name)
		s.value("C", row, string(l.BillingCycle.OrMonthly()))
		s.value("D", row, l.Cost)
		s.value("E", row, l.MonthlyEquivalent)
		s.value("F", row, l.CreatedAt.Format("2006-01-02"))
		row++
	}
	if row > 2 {
		s.style("D2", fmt.Sprintf("E%d", row-1), money)
	}

	// blank line, then totals
	row++
	totals := []struct {
		Label string
		Value any
	}{
		{"Count", sum.Count},
		{"Monthly total", sum.Monthly},
		{"Yearly total", sum.Yearly},
	}
	for _, t := range totals {
		s.value("D", row, t.Label)
		s.value("E", row, t.Value)
		s.style(fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), bold)
		if t.Label != "Count" {
			s.style(fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), money)
		}
		row++
	}

	s.width("A", "A", 16)
	s.width("B", "B", 28)
	s.width("C", "F", 18)

	return s.err
}
