package report

import "context"

// ReportService renders the filtered events as downloadable files
type ReportService interface {
	Export(ctx context.Context, req ExportRequest) (*ExportFile, error)
}
