package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Ingestion errors carry a hint for the user
	var missing *event.MissingFieldsError
	if errors.As(err, &missing) {
		UnprocessableEntity(w, "MISSING_COLUMNS", missing.Error(), map[string]string{
			"fields": strings.Join(missing.Fields, ","),
			"hint":   missing.Hint(),
		})
		return
	}
	var loadErr *event.LoadError
	if errors.As(err, &loadErr) {
		slog.Error("Failed to load data source", "error", err)
		BadRequest(w, "Could not load data source", map[string]string{"hint": loadErr.Hint()})
		return
	}

	switch {
	// Event domain errors
	case errors.Is(err, event.ErrEventNotFound):
		NotFound(w, "Event not found")
	case errors.Is(err, event.ErrMasterFileMissing):
		NotFound(w, "Master file not found")
	case errors.Is(err, event.ErrUploadMissing):
		BadRequest(w, "No file has been uploaded", nil)
	case errors.Is(err, event.ErrUnknownSource):
		BadRequest(w, "Unknown data source", nil)
	case errors.Is(err, event.ErrNoDataset):
		Conflict(w, "No dataset loaded")

	// Report domain errors
	case errors.Is(err, report.ErrNoDataFound):
		NotFound(w, "No data matches the current filters")

	// Storage errors
	case errors.Is(err, storage.ErrFileTooLarge):
		BadRequest(w, "File too large", nil)
	case errors.Is(err, storage.ErrUnsupportedType):
		BadRequest(w, "Unsupported file type", nil)
	case errors.Is(err, storage.ErrEmptyFile):
		BadRequest(w, "File is empty", nil)
	case errors.Is(err, storage.ErrInvalidPath):
		BadRequest(w, "Invalid file path", nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
