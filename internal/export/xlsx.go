package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/san-kum/floatsim/internal/model"
	"github.com/san-kum/floatsim/internal/storage"
)

const (
	SummarySheet     = "Summary"
	DiagnosticsSheet = "Diagnostics"
	maxSheetName     = 31
)

// WriteXLSX writes a workbook with a summary sheet, one sheet per case and
// platform, and a diagnostics sheet when cases were skipped.
func WriteXLSX(w io.Writer, run *storage.Run) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName(wb.GetSheetName(0), SummarySheet); err != nil {
		return err
	}
	bold, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeSummary(wb, run, bold); err != nil {
		return err
	}

	used := map[string]bool{SummarySheet: true, DiagnosticsSheet: true}
	for _, c := range run.Cases {
		for p, resp := range c.Platforms {
			if resp.RAO == nil {
				continue
			}
			label := c.Case.Name
			if len(c.Platforms) > 1 {
				label = fmt.Sprintf("%s p%d", label, p)
			}
			sheet := sheetName(label, used)
			if _, err := wb.NewSheet(sheet); err != nil {
				return err
			}
			if err := writeResponses(wb, sheet, run.Frequencies, resp.RAO, bold); err != nil {
				return fmt.Errorf("sheet %s: %w", sheet, err)
			}
		}
	}

	if len(run.Diagnostics) > 0 {
		if _, err := wb.NewSheet(DiagnosticsSheet); err != nil {
			return err
		}
		if err := writeDiagnostics(wb, run.Diagnostics, bold); err != nil {
			return err
		}
	}

	wb.SetActiveSheet(0)
	return wb.Write(w)
}

func writeSummary(wb *excelize.File, run *storage.Run, bold int) error {
	rows := [][]any{
		{"run", run.ID},
		{"design", run.Design},
		{"source", run.Source},
		{"created", run.CreatedAt.Format("2006-01-02 15:04:05")},
		{"elapsed (s)", run.Elapsed.Seconds()},
		{"frequencies", len(run.Frequencies)},
		{},
	}

	header := []any{"platform", "mass (kg)", "displacement (m3)"}
	for _, d := range model.DOFs {
		header = append(header, d.String()+" offset")
	}
	for _, d := range model.DOFs {
		header = append(header, fmt.Sprintf("mode %d (Hz)", int(d)+1))
	}
	rows = append(rows, header)
	headerRow := len(rows)

	for p := 0; p < run.NumPlatforms(); p++ {
		row := []any{p}
		if p < len(run.Statics) {
			st := run.Statics[p]
			row = append(row, st.Mass, st.Displacement)
			for _, v := range st.Offset {
				row = append(row, v)
			}
		}
		if p < len(run.Modes) {
			for _, f := range run.Modes[p].Frequencies {
				row = append(row, f)
			}
		}
		rows = append(rows, row)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}
	return wb.SetRowStyle(SummarySheet, headerRow, headerRow, bold)
}

func writeResponses(wb *excelize.File, sheet string, w model.Frequencies, rao *model.ResponseArray, bold int) error {
	header := []any{"omega (rad/s)"}
	for _, c := range responseColumns() {
		header = append(header, c)
	}
	if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := wb.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return err
	}

	for i, omega := range w {
		row := []any{omega}
		for _, v := range responseValues(rao, i) {
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeDiagnostics(wb *excelize.File, diags []model.Diagnostic, bold int) error {
	header := []any{"stage", "case", "name", "message", "error"}
	if err := wb.SetSheetRow(DiagnosticsSheet, "A1", &header); err != nil {
		return err
	}
	if err := wb.SetRowStyle(DiagnosticsSheet, 1, 1, bold); err != nil {
		return err
	}
	for i, d := range diags {
		msg := ""
		if d.Err != nil {
			msg = d.Err.Error()
		}
		row := []any{d.Stage, d.Case.Index + 1, d.Case.Name, d.Message, msg}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(DiagnosticsSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// sheetName makes label a legal, unused worksheet name.
func sheetName(label string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(label))
	if name == "" {
		name = "case"
	}
	name = truncate(name, maxSheetName)

	base := name
	for n := 2; used[name]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	used[name] = true
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
