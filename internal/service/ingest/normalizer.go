package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/config"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/daycount"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/textnorm"
	"github.com/google/uuid"
)

// RawTable is a source table before mapping: a header row and string cells.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// Normalize maps raw onto the canonical schema. It fails with
// *event.MissingFieldsError when a required column does not resolve; bad
// cells are repaired (nulled or defaulted) and never abort the batch.
func Normalize(raw RawTable, settings config.Settings) ([]event.Event, error) {
	if len(raw.Rows) == 0 {
		return []event.Event{}, nil
	}

	rename := BuildMapping(raw.Columns, settings.ColumnMapping)
	index := make(map[string]int, len(event.Columns))
	for i, col := range raw.Columns {
		target, ok := rename[col]
		if !ok {
			continue
		}
		if _, dup := index[target]; !dup {
			index[target] = i
		}
	}

	var missing []string
	for _, field := range event.Required {
		if _, ok := index[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &event.MissingFieldsError{Fields: missing}
	}

	sites := NewSiteNormalizer(settings.SiteEquivalences)
	events := make([]event.Event, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		cell := func(field string) string {
			i, ok := index[field]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rut := cell(event.ColRUT)
		if rut == "" {
			continue
		}

		e := event.Event{
			ID:         uuid.NewString(),
			RUT:        rut,
			Name:       cell(event.ColName),
			Position:   optional(cell(event.ColPosition)),
			Site:       sites.Normalize(cell(event.ColSite)),
			StartDate:  daycount.ParseDatePtr(cell(event.ColStartDate)),
			EndDate:    daycount.ParseDatePtr(cell(event.ColEndDate)),
			Hours:      parseNumber(cell(event.ColHours)),
			Notes:      optional(cell(event.ColNotes)),
			ShiftCode:  optional(cell(event.ColShiftCode)),
			ShiftStart: daycount.ParseDatePtr(cell(event.ColShiftStart)),
			ShiftEnd:   daycount.ParseDatePtr(cell(event.ColShiftEnd)),
		}

		rawType := cell(event.ColType)
		if supplied := parseNumber(cell(event.ColDays)); supplied != nil && *supplied >= 0 {
			e.Days = *supplied
		} else {
			rule := daycount.Resolve(rawType, settings.DayRules)
			if days, ok := daycount.Days(e.StartDate, e.EndDate, rule, e.Hours); ok {
				e.Days = days
			}
		}

		e.Status = NormalizeStatus(cell(event.ColStatus))
		e.Type = textnorm.TitleOrNil(rawType)
		e.Subtype = textnorm.TitleOrNil(cell(event.ColSubtype))

		events = append(events, e)
	}
	return events, nil
}

// NormalizeStatus defaults a blank status to Pendiente and title-cases it.
func NormalizeStatus(s string) string {
	if textnorm.IsBlank(s) {
		return event.DefaultStatus
	}
	return textnorm.Title(s)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseNumber reads a numeric cell; a lone comma is taken as the decimal
// separator. Non-finite and unparsable values are nil.
func parseNumber(s string) *float64 {
	if s == "" {
		return nil
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
