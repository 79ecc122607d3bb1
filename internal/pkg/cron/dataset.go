package cron

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
)

// DatasetInfo is the part of the event service the refresh job needs.
type DatasetInfo interface {
	Info(ctx context.Context) (event.DatasetInfo, error)
}

// DatasetJobs keeps the in-memory dataset in step with its source file.
type DatasetJobs struct {
	events DatasetInfo
	last   string
}

func NewDatasetJobs(events DatasetInfo) *DatasetJobs {
	return &DatasetJobs{events: events}
}

// Refresh reloads the active source when its signature changed since the
// last request. A missing master file or upload is not a failure.
func (j *DatasetJobs) Refresh(ctx context.Context) error {
	info, err := j.events.Info(ctx)
	if errors.Is(err, event.ErrMasterFileMissing) || errors.Is(err, event.ErrUploadMissing) {
		slog.Warn("Dataset refresh skipped", "error", err)
		return nil
	}
	if err != nil {
		return err
	}

	if info.Signature != j.last {
		if j.last != "" {
			slog.Info("Dataset reloaded", "source", info.Source, "rows", info.Rows)
		}
		j.last = info.Signature
	}
	return nil
}
