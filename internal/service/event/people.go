package event

import (
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
)

// Staff implements event.EventService. With the master file active the
// people come from its BBDD sheet; otherwise, or when that sheet has none,
// they are derived from the loaded dataset.
func (s *EventServiceImpl) Staff(ctx context.Context) ([]event.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == event.SourceMaster && s.master.Exists() {
		staff, err := s.master.Staff(ctx)
		if err != nil {
			return nil, err
		}
		if len(staff) > 0 {
			return staff, nil
		}
	}

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return staffOf(s.dataset), nil
}

// staffOf keeps the first row of every RUT with a name, sorted by name.
func staffOf(dataset []event.Event) []event.Person {
	staff := []event.Person{}
	seen := map[string]bool{}
	for _, e := range dataset {
		if e.RUT == "" || e.Name == "" || seen[e.RUT] {
			continue
		}
		seen[e.RUT] = true
		staff = append(staff, event.Person{
			RUT:      e.RUT,
			Name:     e.Name,
			Position: e.Position,
			Site:     e.Site,
		})
	}
	slices.SortStableFunc(staff, func(a, b event.Person) int {
		return strings.Compare(a.Name, b.Name)
	})
	return staff
}

// Catalogs implements event.EventService. Lists missing from the "Tipos"
// sheet fall back to the built-in types and statuses and to the sites,
// positions and subtypes present in the dataset.
func (s *EventServiceImpl) Catalogs(ctx context.Context) (event.Catalogs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return event.Catalogs{}, err
	}

	catalogs := event.Catalogs{}
	if s.master.Exists() {
		c, err := s.master.Catalogs(ctx)
		if err != nil {
			return event.Catalogs{}, err
		}
		catalogs = c
	}

	if len(catalogs.Types) == 0 {
		catalogs.Types = slices.Clone(event.Types)
	}
	if len(catalogs.Statuses) == 0 {
		catalogs.Statuses = slices.Clone(event.Statuses)
	}
	if len(catalogs.Sites) == 0 {
		catalogs.Sites = slices.Clone(s.options.Sites)
	}
	if len(catalogs.Positions) == 0 {
		catalogs.Positions = distinct(s.dataset, func(e event.Event) *string { return e.Position })
	}
	if len(catalogs.Subtypes) == 0 {
		catalogs.Subtypes = subtypesOf(s.events)
	}
	return catalogs, nil
}

func distinct(events []event.Event, field func(event.Event) *string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, e := range events {
		v := field(e)
		if v == nil || seen[*v] {
			continue
		}
		seen[*v] = true
		out = append(out, *v)
	}
	slices.Sort(out)
	return out
}

func subtypesOf(events []event.Event) map[string][]string {
	byType := map[string][]event.Event{}
	for _, e := range events {
		if e.Type != nil && e.Subtype != nil {
			byType[*e.Type] = append(byType[*e.Type], e)
		}
	}

	out := make(map[string][]string, len(byType))
	for tipo, rows := range byType {
		out[tipo] = distinct(rows, func(e event.Event) *string { return e.Subtype })
	}
	return out
}
