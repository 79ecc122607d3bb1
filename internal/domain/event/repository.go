package event

import "context"

// MasterRepository persists the canonical table to the master spreadsheet.
type MasterRepository interface {
	Path() string
	Exists() bool
	Save(ctx context.Context, events []Event) error
	Staff(ctx context.Context) ([]Person, error)
	Catalogs(ctx context.Context) (Catalogs, error)
}
