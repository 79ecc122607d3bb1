// Package metrics computes KPI rollups from a filtered event table. Every
// function is pure and returns empty, correctly shaped results for empty input.
package metrics

import (
	"cmp"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/daycount"
)

const monthLabel = "2006-01"

// KPITotals counts records and sums days per event type, most frequent first.
func KPITotals(events []event.Event) []dashboard.TypeTotal {
	order, buckets := groupBy(events, typeKey)
	slices.Sort(order)

	out := make([]dashboard.TypeTotal, 0, len(order))
	for _, k := range order {
		out = append(out, dashboard.TypeTotal{Type: k, Records: buckets[k].records, Days: buckets[k].days})
	}
	slices.SortStableFunc(out, func(a, b dashboard.TypeTotal) int {
		return cmp.Compare(b.Records, a.Records)
	})
	return out
}

// DaysBySite sums days and counts rows per site, sites in name order.
func DaysBySite(events []event.Event) []dashboard.SiteTotal {
	order, buckets := groupBy(events, siteKey)
	slices.Sort(order)

	out := make([]dashboard.SiteTotal, 0, len(order))
	for _, k := range order {
		out = append(out, dashboard.SiteTotal{Site: k, Days: buckets[k].days, Records: len(buckets[k].rows)})
	}
	return out
}

// TopPeople ranks people by total days or record count. Ties keep
// first-seen order.
func TopPeople(events []event.Event, metric dashboard.Metric, n int) []dashboard.PersonTotal {
	order, buckets := groupBy(events, byPerson)

	out := make([]dashboard.PersonTotal, 0, len(order))
	for _, k := range order {
		out = append(out, dashboard.PersonTotal{
			RUT:     k.rut,
			Name:    k.name,
			Days:    buckets[k].days,
			Records: buckets[k].records,
		})
	}

	slices.SortStableFunc(out, func(a, b dashboard.PersonTotal) int {
		if metric == dashboard.MetricRecords {
			return cmp.Compare(b.Records, a.Records)
		}
		return cmp.Compare(b.Days, a.Days)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// MonthOf truncates t to the first day of its month.
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func startMonthKey(e event.Event) (time.Time, bool) {
	if e.StartDate == nil {
		return time.Time{}, false
	}
	return MonthOf(*e.StartDate), true
}

// MonthlyTrend counts records and sums days per month of fecha_inicio,
// oldest month first.
func MonthlyTrend(events []event.Event) []dashboard.MonthTotal {
	order, buckets := groupBy(events, startMonthKey)
	slices.SortFunc(order, func(a, b time.Time) int { return a.Compare(b) })

	out := make([]dashboard.MonthTotal, 0, len(order))
	for _, k := range order {
		out = append(out, dashboard.MonthTotal{
			Month:   k,
			Label:   k.Format(monthLabel),
			Records: buckets[k].records,
			Days:    buckets[k].days,
		})
	}
	return out
}

// MonthlyRate adds records per 100 people to the monthly trend. A
// non-positive headcount uses the distinct people in events.
func MonthlyRate(events []event.Event, headcount int) []dashboard.MonthRate {
	trend := MonthlyTrend(events)
	out := make([]dashboard.MonthRate, 0, len(trend))
	if len(trend) == 0 {
		return out
	}

	people := headcount
	if people <= 0 {
		people = max(DistinctPeople(events), 1)
	}
	for _, m := range trend {
		out = append(out, dashboard.MonthRate{
			MonthTotal: m,
			Rate:       daycount.Round2(float64(m.Records) / float64(people) * 100),
		})
	}
	return out
}

// AbsenteeismRatio is total days divided by distinct people, 0 without people.
func AbsenteeismRatio(events []event.Event) float64 {
	people := DistinctPeople(events)
	if people == 0 {
		return 0
	}
	return daycount.Round2(TotalDays(events) / float64(people))
}

func TotalDays(events []event.Event) float64 {
	var total float64
	for _, e := range events {
		total += e.Days
	}
	return total
}

// DistinctPeople counts distinct RUTs.
func DistinctPeople(events []event.Event) int {
	seen := make(map[string]struct{}, len(events))
	for _, e := range events {
		if e.RUT != "" {
			seen[e.RUT] = struct{}{}
		}
	}
	return len(seen)
}

// DistinctSites counts distinct non-null sites.
func DistinctSites(events []event.Event) int {
	order, _ := groupBy(events, siteKey)
	return len(order)
}
