package query

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleEvents() []event.Event {
	return []event.Event{
		{ID: "1", RUT: "1-9", Name: "Ana", Site: str("Quilpué"), Type: str("Permiso"), Subtype: str("Administrativo"), Status: "Aprobado", StartDate: day(2024, 1, 15), Days: 1},
		{ID: "2", RUT: "2-7", Name: "Luis", Site: str("Viña del Mar"), Type: str("Licencia Médica"), Status: "Pendiente", StartDate: day(2024, 3, 4), Days: 14},
		{ID: "3", RUT: "1-9", Name: "Ana", Site: str("Quilpué"), Type: str("Vacaciones"), Status: "Pendiente", StartDate: day(2023, 12, 20), Days: 5},
		{ID: "4", RUT: "3-5", Name: "Eva", Site: nil, Type: str("Permiso"), Status: "Rechazado", StartDate: nil},
		{ID: "5", RUT: "4-3", Name: "Juan", Site: str("Villa Alemana"), Type: str("Turno"), Status: "Aprobado", StartDate: day(2024, 3, 31), Days: 1},
	}
}

func ids(events []event.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func TestApplyFilters_DefaultIsIdentity(t *testing.T) {
	events := sampleEvents()
	assert.Equal(t, events, ApplyFilters(events, DefaultFilter()))
	assert.Equal(t, events, ApplyFilters(events, event.Filter{}))
}

func TestApplyFilters_EmptyInput(t *testing.T) {
	got := ApplyFilters(nil, event.Filter{Sites: []string{"Quilpué"}})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter event.Filter
		want   []string
	}{
		{"site", event.Filter{Sites: []string{"Quilpué"}}, []string{"1", "3"}},
		{"any of sites", event.Filter{Sites: []string{"Quilpué", "Villa Alemana"}}, []string{"1", "3", "5"}},
		{"person", event.Filter{People: []string{"Luis"}}, []string{"2"}},
		{"type", event.Filter{Types: []string{"Permiso"}}, []string{"1", "4"}},
		{"subtype excludes nulls", event.Filter{Subtypes: []string{"Administrativo"}}, []string{"1"}},
		{"status", event.Filter{Statuses: []string{"Pendiente"}}, []string{"2", "3"}},
		{"year", event.Filter{Years: []int{2024}}, []string{"1", "2", "5"}},
		{"month", event.Filter{Months: []int{3, 12}}, []string{"2", "3", "5"}},
		{"range inclusive", event.Filter{DateRange: event.DateRange{From: day(2024, 1, 15), To: day(2024, 3, 4)}}, []string{"1", "2"}},
		{"open start", event.Filter{DateRange: event.DateRange{To: day(2024, 1, 1)}}, []string{"3"}},
		{"open end", event.Filter{DateRange: event.DateRange{From: day(2024, 3, 5)}}, []string{"5"}},
		{"and across fields", event.Filter{Sites: []string{"Quilpué"}, Types: []string{"Vacaciones"}}, []string{"3"}},
		{"no match", event.Filter{Sites: []string{"Quilpué"}, Types: []string{"Turno"}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilters(sampleEvents(), tt.filter)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplyFilters_Commutative(t *testing.T) {
	events := sampleEvents()
	bySite := event.Filter{Sites: []string{"Quilpué", "Viña del Mar"}}
	byType := event.Filter{Types: []string{"Permiso", "Licencia Médica"}}

	siteThenType := ApplyFilters(ApplyFilters(events, bySite), byType)
	typeThenSite := ApplyFilters(ApplyFilters(events, byType), bySite)
	assert.Equal(t, siteThenType, typeThenSite)
	assert.Equal(t, []string{"1", "2"}, ids(siteThenType))
}

func TestListOptions(t *testing.T) {
	opts := ListOptions(sampleEvents())

	assert.Equal(t, []string{"Quilpué", "Villa Alemana", "Viña del Mar"}, opts.Sites)
	assert.Equal(t, []string{"Ana", "Eva", "Juan", "Luis"}, opts.People)
	assert.Equal(t, []string{"Licencia Médica", "Permiso", "Turno", "Vacaciones"}, opts.Types)
	assert.Equal(t, []string{"Administrativo"}, opts.Subtypes)
	assert.Equal(t, []string{"Aprobado", "Pendiente", "Rechazado"}, opts.Statuses)
	assert.Equal(t, []int{2023, 2024}, opts.Years)
	assert.Equal(t, []int{1, 3, 12}, opts.Months)
}

func TestListOptions_SitesMatchTable(t *testing.T) {
	events := sampleEvents()
	opts := ListOptions(events)

	distinct := map[string]bool{}
	for _, e := range events {
		if e.Site != nil {
			distinct[*e.Site] = true
		}
	}
	require.Len(t, opts.Sites, len(distinct))
	for _, s := range opts.Sites {
		assert.True(t, distinct[s])
	}
}

func TestListOptions_Empty(t *testing.T) {
	opts := ListOptions(nil)
	assert.NotNil(t, opts.Sites)
	assert.Empty(t, opts.Sites)
	assert.Empty(t, opts.People)
	assert.Empty(t, opts.Years)
	assert.Empty(t, opts.Months)
}
