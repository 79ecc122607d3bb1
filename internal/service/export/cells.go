package export

import (
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
)

// cellValue returns the typed value of a canonical column: string, float64,
// time.Time or nil.
func cellValue(e event.Event, col string) interface{} {
	str := func(p *string) interface{} {
		if p == nil {
			return nil
		}
		return *p
	}
	date := func(t *time.Time) interface{} {
		if t == nil {
			return nil
		}
		return *t
	}

	switch col {
	case event.ColRUT:
		return e.RUT
	case event.ColName:
		return e.Name
	case event.ColPosition:
		return str(e.Position)
	case event.ColSite:
		return str(e.Site)
	case event.ColType:
		return str(e.Type)
	case event.ColSubtype:
		return str(e.Subtype)
	case event.ColStartDate:
		return date(e.StartDate)
	case event.ColEndDate:
		return date(e.EndDate)
	case event.ColDays:
		return e.Days
	case event.ColHours:
		if e.Hours == nil {
			return nil
		}
		return *e.Hours
	case event.ColStatus:
		return e.Status
	case event.ColNotes:
		return str(e.Notes)
	case event.ColShiftCode:
		return str(e.ShiftCode)
	case event.ColShiftStart:
		return date(e.ShiftStart)
	case event.ColShiftEnd:
		return date(e.ShiftEnd)
	}
	return nil
}

// isInstant reports whether col holds a date with a meaningful time of day.
func isInstant(col string) bool {
	return col == event.ColShiftStart || col == event.ColShiftEnd
}

func isDate(col string) bool {
	return col == event.ColStartDate || col == event.ColEndDate || isInstant(col)
}

// cellText renders a column as CSV text.
func cellText(e event.Event, col string) string {
	switch v := cellValue(e, col).(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		if isInstant(col) {
			return v.Format(dateTimeLayout)
		}
		return v.Format(dateLayout)
	}
	return ""
}
