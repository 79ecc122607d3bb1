package report

import "errors"

var (
	ErrNoDataFound            = errors.New("no data found for the specified criteria")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
