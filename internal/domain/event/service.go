package event

import (
	"context"
)

// SourceFile points at the bytes of a data source: a file on disk or an
// uploaded payload.
type SourceFile struct {
	Path string
	Name string
	Data []byte
}

func (s SourceFile) IsPayload() bool {
	return s.Data != nil
}

// DatasetLoader turns a source into the canonical table.
type DatasetLoader interface {
	Signature(src SourceFile) (string, error)
	Load(ctx context.Context, src SourceFile) ([]Event, string, error)
	PeekColumns(ctx context.Context, src SourceFile) ([]string, error)
}

type EventService interface {
	// Source
	Sources(ctx context.Context) []SourceInfo
	SelectSource(ctx context.Context, req SelectSourceRequest) (DatasetInfo, error)
	Upload(ctx context.Context, fileName string, data []byte) (DatasetInfo, error)
	Columns(ctx context.Context) ([]string, error)
	Info(ctx context.Context) (DatasetInfo, error)
	// Read
	Dataset(ctx context.Context) ([]Event, error)
	Events(ctx context.Context) ([]Event, error)
	Options(ctx context.Context) (Options, error)
	Get(ctx context.Context, id string) (Event, error)
	Recent(ctx context.Context, n int) ([]Event, error)
	Staff(ctx context.Context) ([]Person, error)
	Catalogs(ctx context.Context) (Catalogs, error)
	// Write
	Register(ctx context.Context, req CreateEventRequest) (Event, error)
	Update(ctx context.Context, req UpdateEventRequest) (Event, error)
	Delete(ctx context.Context, id string) error
	Preview(ctx context.Context, req PreviewRequest) (PreviewResponse, error)
}
