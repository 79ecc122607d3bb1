// Package daycount computes the duration of a leave event in days according to
// the per-type counting rules used by HR (calendar days, business days or
// hours-proportional days).
package daycount

import (
	"math"
	"slices"
	"time"
	_ "time/tzdata" // America/Santiago must resolve on minimal images

	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/textnorm"
)

// Rule is a day-counting rule identifier as written in the settings file.
type Rule string

const (
	Calendar     Rule = "naturales"
	Business     Rule = "habiles"
	Proportional Rule = "proporcionales"
)

// HoursPerDay is the workday length used by the proportional rule.
const HoursPerDay = 8.0

// Location is the reference zone for ambiguous timestamps.
var Location = loadLocation()

func loadLocation() *time.Location {
	loc, err := time.LoadLocation("America/Santiago")
	if err != nil {
		return time.FixedZone("CLT", -4*60*60)
	}
	return loc
}

// businessTypes are the event types counted in business days when no rule
// has been configured for them.
var businessTypes = map[string]bool{
	"permiso":                true,
	"vacaciones":             true,
	"descanso_compensatorio": true,
	"descanso":               true,
}

// ParseRule accepts the rule names found in settings files ("hábiles" included).
func ParseRule(s string) (Rule, bool) {
	switch Rule(textnorm.Slug(s)) {
	case Calendar:
		return Calendar, true
	case Business:
		return Business, true
	case Proportional:
		return Proportional, true
	}
	return "", false
}

// Resolve picks the counting rule for an event type. A rule configured under
// the type slug wins, then a key that slugs to it (keys scanned in sorted
// order). Without one, permiso, vacaciones and descanso types count business
// days; this departs from the calendar-day default of plain ingestion so that
// manual registration and loading agree. Every other type uses Calendar.
func Resolve(tipo string, configured map[string]string) Rule {
	slug := textnorm.Slug(tipo)
	if rule, ok := ParseRule(configured[slug]); ok {
		return rule
	}

	keys := make([]string, 0, len(configured))
	for key := range configured {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if textnorm.Slug(key) != slug {
			continue
		}
		if rule, ok := ParseRule(configured[key]); ok {
			return rule
		}
	}

	if businessTypes[slug] {
		return Business
	}
	return Calendar
}

// Days returns the duration between start and end under rule. The boolean is
// false when the duration cannot be determined (missing dates and no hours to
// fall back on); callers treat that as zero.
func Days(start, end *time.Time, rule Rule, hours *float64) (float64, bool) {
	if start == nil || end == nil {
		if rule == Proportional && hours != nil {
			return hoursToDays(*hours)
		}
		return 0, false
	}

	from, to := wallClock(*start), wallClock(*end)
	if to.Before(from) {
		from, to = to, from
	}

	switch rule {
	case Business:
		return float64(len(BusinessDates(from, to))), true
	case Proportional:
		if hours != nil {
			return hoursToDays(*hours)
		}
	}

	// calendar days, both endpoints included
	return math.Floor(to.Sub(from).Hours()/24) + 1, true
}

// BusinessDates lists the Monday–Friday dates between start and end, both included.
func BusinessDates(start, end time.Time) []time.Time {
	from, to := DateOf(wallClock(start)), DateOf(wallClock(end))
	if to.Before(from) {
		from, to = to, from
	}

	var dates []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsWeekday(d) {
			dates = append(dates, d)
		}
	}
	return dates
}

// EndFromDays returns the end date of an event starting on start that lasts
// days under rule. Durations are rounded to whole days with a minimum of one;
// the business rule skips weekends while stepping.
func EndFromDays(start time.Time, days float64, rule Rule) time.Time {
	start = DateOf(wallClock(start))
	full := int(math.RoundToEven(days))
	if full < 1 {
		full = 1
	}

	if rule != Business {
		return start.AddDate(0, 0, full-1)
	}

	current := start
	for remaining := full - 1; remaining > 0; {
		current = current.AddDate(0, 0, 1)
		if IsWeekday(current) {
			remaining--
		}
	}
	return current
}

// IsWeekday reports whether t falls Monday through Friday.
func IsWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// DateOf truncates t to midnight of its calendar date, keeping the location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Naive drops the zone of t, keeping its wall clock, and returns it as UTC.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// wallClock maps t onto the naive Santiago wall clock. Values already naive
// (UTC) are taken as Santiago wall clock; zone-aware values are converted first.
func wallClock(t time.Time) time.Time {
	if t.Location() == time.UTC {
		return t
	}
	return Naive(t.In(Location))
}

func hoursToDays(hours float64) (float64, bool) {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, false
	}
	return math.Max(0, Round2(hours/HoursPerDay)), true
}

// Round2 rounds x to two decimals.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
