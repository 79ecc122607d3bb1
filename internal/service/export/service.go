package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/service/query"
)

const (
	stampLayout     = "20060102_1504"
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// EventProvider supplies the events of the active dataset.
type EventProvider interface {
	Events(ctx context.Context) ([]event.Event, error)
}

type ReportServiceImpl struct {
	events EventProvider
	now    func() time.Time
}

func NewReportService(events EventProvider) report.ReportService {
	return &ReportServiceImpl{
		events: events,
		now:    time.Now,
	}
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, req report.ExportRequest) (*report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	events, err := s.events.Events(ctx)
	if err != nil {
		return nil, err
	}
	events = query.ApplyFilters(events, req.Filter)
	if len(events) == 0 {
		return nil, report.ErrNoDataFound
	}

	columns := req.ExportColumns()
	var buf bytes.Buffer
	file := &report.ExportFile{}
	switch req.Format {
	case report.FormatCSV:
		err = WriteCSV(&buf, events, columns)
		file.ContentType = contentTypeCSV
	case report.FormatXLSX:
		err = WriteExcel(&buf, events, columns)
		file.ContentType = contentTypeXLSX
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	file.FileName = FileName(req.BaseName, string(req.Format), s.now())
	file.Data = buf.Bytes()

	slog.Info("report exported",
		"format", req.Format,
		"rows", len(events),
		"columns", len(columns),
		"bytes", len(file.Data),
	)
	return file, nil
}

// FileName builds "<base>_<yyyymmdd_hhmm>.<ext>".
func FileName(base, ext string, now time.Time) string {
	if base == "" {
		base = report.DefaultBaseName
	}
	return fmt.Sprintf("%s_%s.%s", base, now.Format(stampLayout), ext)
}
