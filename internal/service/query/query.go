// Package query filters the canonical table and lists the values available
// for each filterable dimension.
package query

import (
	"cmp"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/daycount"
)

// DefaultFilter constrains nothing.
func DefaultFilter() event.Filter {
	return event.Filter{
		Sites:    []string{},
		People:   []string{},
		Types:    []string{},
		Subtypes: []string{},
		Statuses: []string{},
		Years:    []int{},
		Months:   []int{},
	}
}

type set[T comparable] map[T]struct{}

func newSet[T comparable](values []T) set[T] {
	if len(values) == 0 {
		return nil
	}
	s := make(set[T], len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s set[T]) has(v T) bool {
	_, ok := s[v]
	return ok
}

// matcher is a compiled Filter. A nil set accepts everything.
type matcher struct {
	sites, people, types, subtypes, statuses set[string]
	years, months                            set[int]
	from, to                                 *time.Time
}

func compile(f event.Filter) matcher {
	m := matcher{
		sites:    newSet(f.Sites),
		people:   newSet(f.People),
		types:    newSet(f.Types),
		subtypes: newSet(f.Subtypes),
		statuses: newSet(f.Statuses),
		years:    newSet(f.Years),
		months:   newSet(f.Months),
	}
	if f.DateRange.From != nil {
		from := daycount.DateOf(*f.DateRange.From)
		m.from = &from
	}
	if f.DateRange.To != nil {
		to := daycount.DateOf(*f.DateRange.To)
		m.to = &to
	}
	return m
}

func matchOptional(s set[string], v *string) bool {
	if s == nil {
		return true
	}
	return v != nil && s.has(*v)
}

func (m matcher) match(e event.Event) bool {
	if !matchOptional(m.sites, e.Site) ||
		!matchOptional(m.types, e.Type) ||
		!matchOptional(m.subtypes, e.Subtype) {
		return false
	}
	if m.people != nil && !m.people.has(e.Name) {
		return false
	}
	if m.statuses != nil && !m.statuses.has(e.Status) {
		return false
	}

	needsDate := m.years != nil || m.months != nil || m.from != nil || m.to != nil
	if !needsDate {
		return true
	}
	if e.StartDate == nil {
		return false
	}

	start := *e.StartDate
	if m.years != nil && !m.years.has(start.Year()) {
		return false
	}
	if m.months != nil && !m.months.has(int(start.Month())) {
		return false
	}
	day := daycount.DateOf(start)
	if m.from != nil && day.Before(*m.from) {
		return false
	}
	if m.to != nil && day.After(*m.to) {
		return false
	}
	return true
}

// ApplyFilters returns the events satisfying every non-empty field of f.
// Fields compose with AND; values within a field with OR. The result is
// never nil.
func ApplyFilters(events []event.Event, f event.Filter) []event.Event {
	out := make([]event.Event, 0, len(events))
	if len(events) == 0 {
		return out
	}

	m := compile(f)
	for _, e := range events {
		if m.match(e) {
			out = append(out, e)
		}
	}
	return out
}

// ListOptions returns the distinct sorted values of each filterable
// dimension. Nulls are left out.
func ListOptions(events []event.Event) event.Options {
	sites, people, types := set[string]{}, set[string]{}, set[string]{}
	subtypes, statuses := set[string]{}, set[string]{}
	years, months := set[int]{}, set[int]{}

	for _, e := range events {
		if e.Site != nil {
			sites[*e.Site] = struct{}{}
		}
		if e.Name != "" {
			people[e.Name] = struct{}{}
		}
		if e.Type != nil {
			types[*e.Type] = struct{}{}
		}
		if e.Subtype != nil {
			subtypes[*e.Subtype] = struct{}{}
		}
		if e.Status != "" {
			statuses[e.Status] = struct{}{}
		}
		if e.StartDate != nil {
			years[e.StartDate.Year()] = struct{}{}
			months[int(e.StartDate.Month())] = struct{}{}
		}
	}

	return event.Options{
		Sites:    sorted(sites),
		People:   sorted(people),
		Types:    sorted(types),
		Subtypes: sorted(subtypes),
		Statuses: sorted(statuses),
		Years:    sorted(years),
		Months:   sorted(months),
	}
}

func sorted[T cmp.Ordered](s set[T]) []T {
	out := make([]T, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
