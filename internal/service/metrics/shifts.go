package metrics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
)

// nightStartHours are the shift start hours counted as night shifts.
var nightStartHours = map[int]bool{20: true, 21: true, 22: true, 23: true}

// ShiftDataset keeps the shift events and derives duration, month, night
// and weekend flags. Duration is shift end minus start in hours, falling
// back to the hours column and then to 0.
func ShiftDataset(events []event.Event) []dashboard.ShiftRecord {
	out := make([]dashboard.ShiftRecord, 0)
	for _, e := range events {
		if e.Type == nil || !strings.EqualFold(*e.Type, event.ShiftEventType) {
			continue
		}

		rec := dashboard.ShiftRecord{Event: e}
		switch {
		case e.ShiftStart != nil && e.ShiftEnd != nil:
			rec.DurationHours = e.ShiftEnd.Sub(*e.ShiftStart).Hours()
		case e.Hours != nil:
			rec.DurationHours = *e.Hours
		}

		switch {
		case e.ShiftStart != nil:
			rec.Month = MonthOf(*e.ShiftStart)
		case e.StartDate != nil:
			rec.Month = MonthOf(*e.StartDate)
		}

		if e.ShiftStart != nil {
			rec.Night = nightStartHours[e.ShiftStart.Hour()]
			wd := e.ShiftStart.Weekday()
			rec.Weekend = wd == time.Saturday || wd == time.Sunday
		}
		out = append(out, rec)
	}
	return out
}

// ShiftSummary rolls shift records up per person, per site and shift code,
// per month and site, as a person x month heatmap and as a night shift ranking.
func ShiftSummary(records []dashboard.ShiftRecord) dashboard.ShiftSummary {
	summary := dashboard.ShiftSummary{
		ByPerson:   []dashboard.ShiftPerson{},
		BySiteCode: []dashboard.ShiftSiteCode{},
		ByMonth:    []dashboard.ShiftMonthSite{},
		Heatmap:    dashboard.ShiftHeatmap{People: []string{}, Months: []string{}, Counts: [][]int{}},
		Night:      []dashboard.NightShiftRank{},
	}
	if len(records) == 0 {
		return summary
	}

	summary.ByPerson = shiftsByPerson(records)
	summary.BySiteCode = shiftsBySiteCode(records)
	summary.ByMonth = shiftsByMonth(records)
	summary.Heatmap = shiftHeatmap(records)
	summary.Night = nightRanking(records)
	return summary
}

func shiftsByPerson(records []dashboard.ShiftRecord) []dashboard.ShiftPerson {
	index := map[personKey]int{}
	var out []dashboard.ShiftPerson
	for _, r := range records {
		k := personKey{rut: r.RUT, name: r.Name}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, dashboard.ShiftPerson{RUT: r.RUT, Name: r.Name})
		}
		p := &out[i]
		p.Shifts++
		p.Hours += r.DurationHours
		if r.Night {
			p.Night++
		}
		if r.Weekend {
			p.Weekends++
		}
	}

	slices.SortStableFunc(out, func(a, b dashboard.ShiftPerson) int {
		return cmp.Or(cmp.Compare(a.RUT, b.RUT), cmp.Compare(a.Name, b.Name))
	})
	return out
}

func shiftsBySiteCode(records []dashboard.ShiftRecord) []dashboard.ShiftSiteCode {
	type key struct{ site, code string }
	counts := map[key]int{}
	var keys []key
	for _, r := range records {
		if r.Site == nil || r.ShiftCode == nil {
			continue
		}
		k := key{*r.Site, *r.ShiftCode}
		if _, ok := counts[k]; !ok {
			keys = append(keys, k)
		}
		counts[k]++
	}

	out := make([]dashboard.ShiftSiteCode, 0, len(keys))
	for _, k := range keys {
		out = append(out, dashboard.ShiftSiteCode{Site: k.site, Code: k.code, Shifts: counts[k]})
	}
	slices.SortStableFunc(out, func(a, b dashboard.ShiftSiteCode) int {
		return cmp.Or(cmp.Compare(a.Site, b.Site), cmp.Compare(a.Code, b.Code))
	})
	slices.SortStableFunc(out, func(a, b dashboard.ShiftSiteCode) int {
		return cmp.Compare(b.Shifts, a.Shifts)
	})
	return out
}

func shiftsByMonth(records []dashboard.ShiftRecord) []dashboard.ShiftMonthSite {
	type key struct {
		month time.Time
		site  string
	}
	counts := map[key]int{}
	var keys []key
	for _, r := range records {
		if r.Month.IsZero() || r.Site == nil {
			continue
		}
		k := key{r.Month, *r.Site}
		if _, ok := counts[k]; !ok {
			keys = append(keys, k)
		}
		counts[k]++
	}

	out := make([]dashboard.ShiftMonthSite, 0, len(keys))
	for _, k := range keys {
		out = append(out, dashboard.ShiftMonthSite{Month: k.month, Site: k.site, Shifts: counts[k]})
	}
	slices.SortStableFunc(out, func(a, b dashboard.ShiftMonthSite) int {
		return cmp.Or(a.Month.Compare(b.Month), cmp.Compare(a.Site, b.Site))
	})
	return out
}

func shiftHeatmap(records []dashboard.ShiftRecord) dashboard.ShiftHeatmap {
	people := map[string]bool{}
	months := map[string]bool{}
	counts := map[[2]string]int{}
	for _, r := range records {
		if r.Month.IsZero() || r.Name == "" {
			continue
		}
		label := r.Month.Format(monthLabel)
		people[r.Name] = true
		months[label] = true
		counts[[2]string{r.Name, label}]++
	}

	heatmap := dashboard.ShiftHeatmap{
		People: sortedKeys(people),
		Months: sortedKeys(months),
	}
	heatmap.Counts = make([][]int, len(heatmap.People))
	for i, name := range heatmap.People {
		row := make([]int, len(heatmap.Months))
		for j, month := range heatmap.Months {
			row[j] = counts[[2]string{name, month}]
		}
		heatmap.Counts[i] = row
	}
	return heatmap
}

func nightRanking(records []dashboard.ShiftRecord) []dashboard.NightShiftRank {
	counts := map[string]int{}
	for _, r := range records {
		if r.Night && r.Name != "" {
			counts[r.Name]++
		}
	}

	out := make([]dashboard.NightShiftRank, 0, len(counts))
	for _, name := range sortedKeys(counts) {
		out = append(out, dashboard.NightShiftRank{Name: name, Night: counts[name]})
	}
	slices.SortStableFunc(out, func(a, b dashboard.NightShiftRank) int {
		return cmp.Compare(b.Night, a.Night)
	})
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
