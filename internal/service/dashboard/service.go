package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/daycount"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/service/metrics"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/service/query"
)

const (
	DefaultTopPeople = 10
	HighlightLimit   = 5
	UpcomingDays     = 21
	LongLeaveDays    = 15.0
	CriticalDays     = 15.0
)

// EventProvider supplies the events of the active dataset.
type EventProvider interface {
	Events(ctx context.Context) ([]event.Event, error)
}

type DashboardServiceImpl struct {
	events EventProvider
	now    func() time.Time
}

func NewDashboardService(events EventProvider) dashboard.DashboardService {
	return &DashboardServiceImpl{
		events: events,
		now:    time.Now,
	}
}

func (s *DashboardServiceImpl) filtered(ctx context.Context, filter event.Filter) ([]event.Event, error) {
	events, err := s.events.Events(ctx)
	if err != nil {
		return nil, err
	}
	return query.ApplyFilters(events, filter), nil
}

// today is the current civil date in Santiago as a naive value.
func (s *DashboardServiceImpl) today() time.Time {
	return daycount.DateOf(daycount.Naive(s.now().In(daycount.Location)))
}

// Overview implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Overview(ctx context.Context, filter event.Filter) (*dashboard.OverviewResponse, error) {
	events, err := s.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}

	trend := metrics.MonthlyTrend(events)
	totalDays := metrics.TotalDays(events)

	headline := dashboard.Headline{
		Records:      len(events),
		Days:         daycount.Round2(totalDays),
		People:       metrics.DistinctPeople(events),
		ActiveSites:  metrics.DistinctSites(events),
		RecordsDelta: monthDelta(trend, func(m dashboard.MonthTotal) float64 { return float64(m.Records) }),
		DaysDelta:    monthDelta(trend, func(m dashboard.MonthTotal) float64 { return m.Days }),
		Absenteeism:  metrics.AbsenteeismRatio(events),
	}
	if len(events) > 0 {
		headline.MeanDays = daycount.Round2(totalDays / float64(len(events)))
	}

	return &dashboard.OverviewResponse{
		Filter:     filter,
		Summary:    query.Summary(filter),
		Headline:   headline,
		ByType:     metrics.KPITotals(events),
		Trend:      trend,
		BySite:     metrics.DaysBySite(events),
		Highlights: highlights(events, s.today()),
	}, nil
}

// monthDelta compares the last two months of the trend.
func monthDelta(trend []dashboard.MonthTotal, value func(dashboard.MonthTotal) float64) dashboard.Delta {
	if len(trend) < 2 {
		return dashboard.Delta{Tone: dashboard.ToneNeutral}
	}
	current, previous := value(trend[len(trend)-1]), value(trend[len(trend)-2])
	if previous == 0 {
		return dashboard.Delta{Tone: dashboard.ToneNeutral}
	}

	change := daycount.Round2((current - previous) / previous * 100)
	tone := dashboard.ToneSuccess
	if change < 0 {
		tone = dashboard.ToneDanger
	}
	return dashboard.Delta{Percent: &change, Tone: tone}
}

// TopPeople implements dashboard.DashboardService.
func (s *DashboardServiceImpl) TopPeople(ctx context.Context, filter event.Filter, metric dashboard.Metric, n int) ([]dashboard.PersonTotal, error) {
	events, err := s.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultTopPeople
	}
	return metrics.TopPeople(events, metric, n), nil
}

// Shifts implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Shifts(ctx context.Context, filter event.Filter) (*dashboard.ShiftSummary, error) {
	events, err := s.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	summary := metrics.ShiftSummary(metrics.ShiftDataset(events))
	return &summary, nil
}

// MonthlyRate implements dashboard.DashboardService.
func (s *DashboardServiceImpl) MonthlyRate(ctx context.Context, filter event.Filter, headcount int) ([]dashboard.MonthRate, error) {
	events, err := s.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	return metrics.MonthlyRate(events, headcount), nil
}

// Subtotals implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Subtotals(ctx context.Context, filter event.Filter, dims []string) (*dashboard.SubtotalTable, error) {
	events, err := s.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	table, err := metrics.Subtotals(events, dims)
	if err != nil {
		return nil, validator.ValidationErrors{{
			Field:   "dims",
			Message: err.Error(),
		}}
	}
	return &table, nil
}

// Absenteeism implements dashboard.DashboardService.
func (s *DashboardServiceImpl) Absenteeism(ctx context.Context, filter event.Filter) (*dashboard.AbsenteeismResponse, error) {
	events, err := s.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dashboard.AbsenteeismResponse{
		Ratio:  metrics.AbsenteeismRatio(events),
		Days:   daycount.Round2(metrics.TotalDays(events)),
		People: metrics.DistinctPeople(events),
	}, nil
}
