package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/textnorm"
	"github.com/xuri/excelize/v2"
)

const (
	dateFormat     = "dd/mm/yyyy"
	dateTimeFormat = "dd/mm/yyyy hh:mm"
	stagingSheet   = "__staging"
)

type masterRepositoryImpl struct {
	mu    sync.Mutex
	path  string
	sheet string
}

func NewMasterRepository(path, sheet string) event.MasterRepository {
	if sheet == "" {
		sheet = event.MasterSheet
	}
	return &masterRepositoryImpl{path: path, sheet: sheet}
}

func (r *masterRepositoryImpl) Path() string {
	return r.path
}

func (r *masterRepositoryImpl) Exists() bool {
	info, err := os.Stat(r.path)
	return err == nil && !info.IsDir()
}

// Save replaces the master sheet with events, canonical columns in order.
// Other sheets of the workbook are kept. The file is written to a temporary
// name and renamed into place.
func (r *masterRepositoryImpl) Save(ctx context.Context, events []event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	f, created, err := r.open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.NewSheet(stagingSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeEvents(f, stagingSheet, events); err != nil {
		return err
	}

	if idx, _ := f.GetSheetIndex(r.sheet); idx >= 0 {
		if err := f.DeleteSheet(r.sheet); err != nil {
			return fmt.Errorf("failed to replace sheet %s: %w", r.sheet, err)
		}
	}
	if err := f.SetSheetName(stagingSheet, r.sheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if created && r.sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}
	if idx, err := f.GetSheetIndex(r.sheet); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	return r.replaceFile(f)
}

func (r *masterRepositoryImpl) open() (*excelize.File, bool, error) {
	if !r.Exists() {
		return excelize.NewFile(), true, nil
	}
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open master file: %w", err)
	}
	return f, false, nil
}

func (r *masterRepositoryImpl) replaceFile(f *excelize.File) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+"-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := f.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write master file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write master file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("failed to replace master file: %w", err)
	}
	return nil
}

func writeEvents(f *excelize.File, sheet string, events []event.Event) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	dateFmt, dateTimeFmt := dateFormat, dateTimeFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}
	dateTimeStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateTimeFmt})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}

	header := make([]interface{}, len(event.Columns))
	for i, col := range event.Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: col}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, e := range events {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, eventRow(e, dateStyle, dateTimeStyle)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	return nil
}

// eventRow lays e out in canonical column order.
func eventRow(e event.Event, dateStyle, dateTimeStyle int) []interface{} {
	str := func(p *string) interface{} {
		if p == nil {
			return nil
		}
		return *p
	}
	date := func(t *time.Time, style int) interface{} {
		if t == nil {
			return nil
		}
		return excelize.Cell{StyleID: style, Value: *t}
	}
	var hours interface{}
	if e.Hours != nil {
		hours = *e.Hours
	}

	return []interface{}{
		e.RUT,
		e.Name,
		str(e.Position),
		str(e.Site),
		str(e.Type),
		str(e.Subtype),
		date(e.StartDate, dateStyle),
		date(e.EndDate, dateStyle),
		e.Days,
		hours,
		e.Status,
		str(e.Notes),
		str(e.ShiftCode),
		date(e.ShiftStart, dateTimeStyle),
		date(e.ShiftEnd, dateTimeStyle),
	}
}

// readSheet returns the rows of sheet with raw cell values, or nil when the
// file or the sheet does not exist.
func (r *masterRepositoryImpl) readSheet(sheet string) ([][]string, error) {
	if !r.Exists() {
		return nil, nil
	}
	f, err := excelize.OpenFile(r.path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open master file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheet)
	if err != nil {
		var missing excelize.ErrSheetNotExist
		if errors.As(err, &missing) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// columnIndex maps header names to their position.
func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return index
}

func cellAt(row []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Staff lists the distinct people of the master sheet that have both a rut
// and a name, in sheet order.
func (r *masterRepositoryImpl) Staff(ctx context.Context) ([]event.Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	staff := []event.Person{}
	rows, err := r.readSheet(r.sheet)
	if err != nil || len(rows) == 0 {
		return staff, err
	}

	index := columnIndex(rows[0])
	for _, col := range []string{event.ColRUT, event.ColName} {
		if _, ok := index[col]; !ok {
			return staff, nil
		}
	}

	type key struct{ rut, name, position, site string }
	seen := map[key]bool{}
	for _, row := range rows[1:] {
		k := key{
			rut:      cellAt(row, index, event.ColRUT),
			name:     cellAt(row, index, event.ColName),
			position: cellAt(row, index, event.ColPosition),
			site:     cellAt(row, index, event.ColSite),
		}
		if k.rut == "" || k.name == "" || seen[k] {
			continue
		}
		seen[k] = true
		staff = append(staff, event.Person{
			RUT:      k.rut,
			Name:     k.name,
			Position: optional(k.position),
			Site:     optional(k.site),
		})
	}
	return staff, nil
}

// Catalogs reads the pick lists from the "Tipos" sheet. Values are
// title-cased, distinct and sorted; subtypes are grouped per type.
func (r *masterRepositoryImpl) Catalogs(ctx context.Context) (event.Catalogs, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalogs := event.Catalogs{
		Types:     []string{},
		Subtypes:  map[string][]string{},
		Statuses:  []string{},
		Sites:     []string{},
		Positions: []string{},
	}
	rows, err := r.readSheet(event.CatalogSheet)
	if err != nil || len(rows) == 0 {
		return catalogs, err
	}

	index := columnIndex(rows[0])
	types, statuses, sites, positions := set{}, set{}, set{}, set{}
	subtypes := map[string]set{}
	for _, row := range rows[1:] {
		tipo := titled(cellAt(row, index, event.ColType))
		types.add(tipo)
		statuses.add(titled(cellAt(row, index, event.ColStatus)))
		sites.add(titled(cellAt(row, index, event.ColSite)))
		positions.add(titled(cellAt(row, index, event.ColPosition)))

		if sub := titled(cellAt(row, index, event.ColSubtype)); tipo != "" && sub != "" {
			if subtypes[tipo] == nil {
				subtypes[tipo] = set{}
			}
			subtypes[tipo].add(sub)
		}
	}

	catalogs.Types = types.sorted()
	catalogs.Statuses = statuses.sorted()
	catalogs.Sites = sites.sorted()
	catalogs.Positions = positions.sorted()
	for tipo, values := range subtypes {
		catalogs.Subtypes[tipo] = values.sorted()
	}
	return catalogs, nil
}

type set map[string]struct{}

func (s set) add(v string) {
	if v != "" {
		s[v] = struct{}{}
	}
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func titled(s string) string {
	if textnorm.IsBlank(s) {
		return ""
	}
	return textnorm.Title(s)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
