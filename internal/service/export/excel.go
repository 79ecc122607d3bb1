package export

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/service/metrics"
	"github.com/xuri/excelize/v2"
)

const (
	SheetDetail  = "Detalle"
	SheetSummary = "Resumen"
	SheetShifts  = "Turnos"
	SheetPivot   = "Pivotes"

	zoomScale   = 90.0
	columnWidth = 18.0
)

type styles struct {
	header   int
	date     int
	dateTime int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error

	border := []excelize.Border{
		{Type: "left", Color: "#94A3B8", Style: 1},
		{Type: "right", Color: "#94A3B8", Style: 1},
		{Type: "top", Color: "#94A3B8", Style: 1},
		{Type: "bottom", Color: "#94A3B8", Style: 1},
	}
	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}

	dateFmt, dateTimeFmt := "dd/mm/yyyy", "dd/mm/yyyy hh:mm"
	if s.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt}); err != nil {
		return s, fmt.Errorf("failed to create date style: %w", err)
	}
	if s.dateTime, err = f.NewStyle(&excelize.Style{CustomNumFmt: &dateTimeFmt}); err != nil {
		return s, fmt.Errorf("failed to create date style: %w", err)
	}
	return s, nil
}

// WriteExcel writes a workbook with the detail rows and three rollups:
// totals by type, shifts per person and days by site.
func WriteExcel(w io.Writer, events []event.Event, columns []string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	st, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", SheetDetail); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	detail := make([][]interface{}, len(events))
	for i, e := range events {
		row := make([]interface{}, len(columns))
		for j, col := range columns {
			row[j] = cellValue(e, col)
		}
		detail[i] = row
	}
	if err := writeSheet(f, st, SheetDetail, columns, detail); err != nil {
		return err
	}
	if err := styleDateColumns(f, st, SheetDetail, columns, len(events)); err != nil {
		return err
	}

	totals := metrics.KPITotals(events)
	summary := make([][]interface{}, len(totals))
	for i, t := range totals {
		summary[i] = []interface{}{t.Type, t.Records, t.Days}
	}
	if err := writeSheet(f, st, SheetSummary, []string{"tipo_registro", "registros", "dias"}, summary); err != nil {
		return err
	}

	people := metrics.ShiftSummary(metrics.ShiftDataset(events)).ByPerson
	shifts := make([][]interface{}, len(people))
	for i, p := range people {
		shifts[i] = []interface{}{p.RUT, p.Name, p.Shifts, p.Hours, p.Night, p.Weekends}
	}
	if err := writeSheet(f, st, SheetShifts, []string{"rut", "nombre", "turnos", "horas", "nocturnos", "fines_semana"}, shifts); err != nil {
		return err
	}

	sites := metrics.DaysBySite(events)
	pivot := make([][]interface{}, len(sites))
	for i, s := range sites {
		pivot[i] = []interface{}{s.Site, s.Days, s.Records}
	}
	if err := writeSheet(f, st, SheetPivot, []string{"sede", "dias", "registros"}, pivot); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeSheet fills sheet with a styled header and rows, freezes the header
// row and sets the zoom.
func writeSheet(f *excelize.File, st styles, sheet string, header []string, rows [][]interface{}) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, sheet, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", st.header); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, columnWidth); err != nil {
		return fmt.Errorf("failed to size columns of %s: %w", sheet, err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header of %s: %w", sheet, err)
	}
	zoom := zoomScale
	if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{ZoomScale: &zoom}); err != nil {
		return fmt.Errorf("failed to set zoom of %s: %w", sheet, err)
	}
	return nil
}

func styleDateColumns(f *excelize.File, st styles, sheet string, columns []string, rows int) error {
	if rows == 0 {
		return nil
	}
	for i, col := range columns {
		if !isDate(col) {
			continue
		}
		style := st.date
		if isInstant(col) {
			style = st.dateTime
		}
		top, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return err
		}
		bottom, err := excelize.CoordinatesToCellName(i+1, rows+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, top, bottom, style); err != nil {
			return fmt.Errorf("failed to style dates of %s: %w", sheet, err)
		}
	}
	return nil
}
