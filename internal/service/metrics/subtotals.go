package metrics

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
)

// TotalLabel marks the grand total row of a subtotal table.
const TotalLabel = "TOTAL"

// DimMonth groups by month of fecha_inicio (YYYY-MM).
const DimMonth = "mes"

// SubtotalDimensions are the columns a subtotal table can group by.
var SubtotalDimensions = []string{
	event.ColSite, event.ColType, event.ColSubtype, event.ColStatus,
	event.ColName, event.ColRUT, event.ColPosition, event.ColShiftCode, DimMonth,
}

func dimensionValue(e event.Event, dim string) (string, bool) {
	deref := func(p *string) (string, bool) {
		if p == nil {
			return "", false
		}
		return *p, true
	}

	switch dim {
	case event.ColSite:
		return deref(e.Site)
	case event.ColType:
		return deref(e.Type)
	case event.ColSubtype:
		return deref(e.Subtype)
	case event.ColStatus:
		return e.Status, e.Status != ""
	case event.ColName:
		return e.Name, e.Name != ""
	case event.ColRUT:
		return e.RUT, e.RUT != ""
	case event.ColPosition:
		return deref(e.Position)
	case event.ColShiftCode:
		return deref(e.ShiftCode)
	case DimMonth:
		if e.StartDate == nil {
			return "", false
		}
		return e.StartDate.Format(monthLabel), true
	}
	return "", false
}

// Subtotals counts records and sums days per combination of dims, sorted by
// key, followed by a TOTAL row. Rows with a null key are left out.
func Subtotals(events []event.Event, dims []string) (dashboard.SubtotalTable, error) {
	if len(dims) == 0 {
		return dashboard.SubtotalTable{}, fmt.Errorf("at least one dimension is required")
	}
	for _, dim := range dims {
		if !slices.Contains(SubtotalDimensions, dim) {
			return dashboard.SubtotalTable{}, fmt.Errorf("unknown dimension %q", dim)
		}
	}

	table := dashboard.SubtotalTable{Dimensions: dims, Rows: []dashboard.SubtotalRow{}}
	if len(events) == 0 {
		return table, nil
	}

	// NUL cannot appear in cell text, so it separates the joined key parts
	order, buckets := groupBy(events, func(e event.Event) (string, bool) {
		parts := make([]string, len(dims))
		for i, dim := range dims {
			v, ok := dimensionValue(e, dim)
			if !ok {
				return "", false
			}
			parts[i] = v
		}
		return strings.Join(parts, "\x00"), true
	})
	slices.Sort(order)

	total := dashboard.SubtotalRow{Keys: make([]string, len(dims))}
	total.Keys[0] = TotalLabel
	for _, k := range order {
		b := buckets[k]
		table.Rows = append(table.Rows, dashboard.SubtotalRow{
			Keys:    strings.Split(k, "\x00"),
			Records: b.records,
			Days:    b.days,
		})
		total.Records += b.records
		total.Days += b.days
	}
	table.Rows = append(table.Rows, total)
	return table, nil
}

// ParseDimensions splits a comma separated dimension list.
func ParseDimensions(raw string) []string {
	var dims []string
	for _, d := range strings.Split(raw, ",") {
		if d = strings.TrimSpace(d); d != "" {
			dims = append(dims, d)
		}
	}
	return dims
}
