package dashboard

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/daycount"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/service/metrics"
)

// Permits implements dashboard.DashboardService. Permits are events whose
// type is exactly "permiso", ignoring case.
func (s *DashboardServiceImpl) Permits(ctx context.Context, filter event.Filter) (*dashboard.PermitKPIs, error) {
	events, err := s.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}

	permits := keep(events, func(e event.Event) bool {
		return e.Type != nil && strings.EqualFold(*e.Type, "permiso")
	})

	kpis := &dashboard.PermitKPIs{
		Permits: len(permits),
		Trend:   metrics.MonthlyTrend(permits),
		Top:     metrics.TopPeople(permits, dashboard.MetricDays, DefaultTopPeople),
		Rows:    permits,
	}
	for _, e := range permits {
		if e.Hours != nil {
			kpis.Hours += *e.Hours
		}
		if strings.EqualFold(e.Status, event.StatusPending) {
			kpis.Pending++
		}
	}
	kpis.Hours = daycount.Round2(kpis.Hours)
	return kpis, nil
}

// Leaves implements dashboard.DashboardService. Leaves are events whose type
// mentions "licencia"; those over CriticalDays are flagged.
func (s *DashboardServiceImpl) Leaves(ctx context.Context, filter event.Filter) (*dashboard.LeaveKPIs, error) {
	events, err := s.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}

	leaves := keep(events, typeContains("licencia"))

	kpis := &dashboard.LeaveKPIs{
		Leaves: len(leaves),
		Days:   daycount.Round2(metrics.TotalDays(leaves)),
		Trend:  metrics.MonthlyTrend(leaves),
		Top:    metrics.TopPeople(leaves, dashboard.MetricDays, DefaultTopPeople),
		Rows:   make([]dashboard.LeaveRow, 0, len(leaves)),
	}
	for _, e := range leaves {
		alert := e.Days > CriticalDays
		if alert {
			kpis.Critical++
		}
		kpis.Rows = append(kpis.Rows, dashboard.LeaveRow{Event: e, Alert: alert})
	}
	return kpis, nil
}

// highlights picks the overview lists: permits starting within UpcomingDays
// of today, the longest leaves and the shifts still pending or critical.
func highlights(events []event.Event, today time.Time) dashboard.Highlights {
	horizon := today.AddDate(0, 0, UpcomingDays)

	upcoming := keep(events, func(e event.Event) bool {
		return typeContains("permiso")(e) && e.StartDate != nil &&
			!e.StartDate.Before(today) && !e.StartDate.After(horizon)
	})
	slices.SortStableFunc(upcoming, byStartDate)

	long := keep(events, func(e event.Event) bool {
		return typeContains("licencia")(e) && e.Days >= LongLeaveDays
	})
	slices.SortStableFunc(long, func(a, b event.Event) int {
		return cmp.Compare(b.Days, a.Days)
	})

	critical := keep(events, func(e event.Event) bool {
		if !typeContains("turno")(e) {
			return false
		}
		status := strings.ToLower(e.Status)
		return strings.Contains(status, "pendiente") ||
			strings.Contains(status, "crítico") ||
			strings.Contains(status, "critico")
	})
	slices.SortStableFunc(critical, byStartDate)

	return dashboard.Highlights{
		UpcomingPermits: head(upcoming, HighlightLimit),
		LongLeaves:      head(long, HighlightLimit),
		CriticalShifts:  head(critical, HighlightLimit),
	}
}

func typeContains(word string) func(event.Event) bool {
	return func(e event.Event) bool {
		return e.Type != nil && strings.Contains(strings.ToLower(*e.Type), word)
	}
}

func keep(events []event.Event, match func(event.Event) bool) []event.Event {
	out := make([]event.Event, 0)
	for _, e := range events {
		if match(e) {
			out = append(out, e)
		}
	}
	return out
}

// byStartDate orders by fecha_inicio ascending, undated last.
func byStartDate(a, b event.Event) int {
	switch {
	case a.StartDate == nil && b.StartDate == nil:
		return 0
	case a.StartDate == nil:
		return 1
	case b.StartDate == nil:
		return -1
	}
	return a.StartDate.Compare(*b.StartDate)
}

func head(events []event.Event, n int) []event.Event {
	if len(events) > n {
		return events[:n]
	}
	return events
}
