package event

import (
	"errors"
	"strings"
)

var (
	ErrEventNotFound     = errors.New("Event not found")
	ErrNoDataset         = errors.New("No dataset loaded")
	ErrUploadMissing     = errors.New("No uploaded file for the upload source")
	ErrMasterFileMissing = errors.New("Master file not found")
	ErrUnknownSource     = errors.New("Unknown data source")
)

const (
	MappingHint = "fix the column mapping in settings"
	LoadHint    = "check the file format and the column mapping"
)

// MissingFieldsError is raised when required canonical fields do not resolve
// after column mapping. The user can fix it by editing the mapping.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required columns: " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Hint() string {
	return MappingHint
}

// LoadError wraps any other ingestion failure. Cause is kept for diagnostics.
type LoadError struct {
	Cause error
}

func (e *LoadError) Error() string {
	if e.Cause == nil {
		return "could not load data source"
	}
	return "could not load data source: " + e.Cause.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

func (e *LoadError) Hint() string {
	return LoadHint
}
