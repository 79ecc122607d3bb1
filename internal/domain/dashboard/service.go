package dashboard

import (
	"context"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
)

// DashboardService composes filtering and metrics for the presentation layer
type DashboardService interface {
	// Overview returns headline KPIs, rollups and highlight lists for a filter
	Overview(ctx context.Context, filter event.Filter) (*OverviewResponse, error)

	TopPeople(ctx context.Context, filter event.Filter, metric Metric, n int) ([]PersonTotal, error)
	Shifts(ctx context.Context, filter event.Filter) (*ShiftSummary, error)
	MonthlyRate(ctx context.Context, filter event.Filter, headcount int) ([]MonthRate, error)
	Subtotals(ctx context.Context, filter event.Filter, dims []string) (*SubtotalTable, error)
	Absenteeism(ctx context.Context, filter event.Filter) (*AbsenteeismResponse, error)
	Permits(ctx context.Context, filter event.Filter) (*PermitKPIs, error)
	Leaves(ctx context.Context, filter event.Filter) (*LeaveKPIs, error)
}

