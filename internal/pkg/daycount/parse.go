package daycount

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// dayFirstLayouts are tried in order; day-first textual dates win over ISO ones
// only when the text is not ISO shaped, so "2024-03-04" never reads as April.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2-1-2006",
	"2-1-2006 15:04",
	"2-1-2006 15:04:05",
	"2.1.2006",
	"2.1.2006 15:04",
	"2/1/06",
	"2-1-06",
}

var isoLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04",
	"2006-1-2 15:04:05",
	"2006-1-2T15:04",
	"2006-1-2T15:04:05",
	"2006-1-2 15:04:05.999999999",
	"2006-1-2T15:04:05.999999999",
	"2006/1/2",
	"2006/1/2 15:04:05",
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
}

// excelEpoch is day zero of spreadsheet serial dates (1900 date system).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxExcelSerial is 9999-12-31 in the 1900 date system.
const maxExcelSerial = 2958465

// ParseDate parses a cell value as a naive date-time. Text is read day-first;
// values carrying an offset are converted to America/Santiago before the zone is
// dropped; plain numbers are spreadsheet serial dates. Unparsable input returns
// false.
func ParseDate(text string) (time.Time, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(serial)
	}

	layouts := dayFirstLayouts
	if looksISO(s) {
		layouts = isoLayouts
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Naive(t.In(Location)), true
		}
	}
	return time.Time{}, false
}

// ParseDatePtr is ParseDate returning nil for unparsable input.
func ParseDatePtr(text string) *time.Time {
	t, ok := ParseDate(text)
	if !ok {
		return nil
	}
	return &t
}

func looksISO(s string) bool {
	return len(s) >= 5 && s[4] == '-' || len(s) >= 5 && s[4] == '/'
}

func fromSerial(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || serial < 1 || serial > maxExcelSerial {
		return time.Time{}, false
	}
	days := math.Floor(serial)
	seconds := math.Round((serial - days) * 24 * 60 * 60)
	t := excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(seconds) * time.Second)
	return t, true
}
