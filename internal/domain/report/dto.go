package report

import (
	"slices"
	"strings"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/validator"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const DefaultBaseName = "reporte_rrhh"

// DefaultColumns are exported when the request names none.
var DefaultColumns = []string{
	event.ColRUT, event.ColName, event.ColSite, event.ColType, event.ColSubtype,
	event.ColStartDate, event.ColEndDate, event.ColDays, event.ColStatus,
}

// ========================================
// EXPORT
// ========================================

type ExportRequest struct {
	Filter   event.Filter `json:"filtro"`
	Format   Format       `json:"formato"`
	Columns  []string     `json:"columnas"`
	BaseName string       `json:"nombre_base"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Format != FormatCSV && r.Format != FormatXLSX {
		errs = append(errs, validator.ValidationError{
			Field:   "formato",
			Message: "formato must be csv or xlsx",
		})
	}

	for _, col := range r.Columns {
		if !slices.Contains(event.Columns, col) {
			errs = append(errs, validator.ValidationError{
				Field:   "columnas",
				Message: "unknown column " + col,
			})
			break
		}
	}

	if strings.ContainsAny(r.BaseName, `/\`) {
		errs = append(errs, validator.ValidationError{
			Field:   "nombre_base",
			Message: "nombre_base must not contain path separators",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ExportColumns returns the requested columns or the defaults.
func (r *ExportRequest) ExportColumns() []string {
	if len(r.Columns) == 0 {
		return DefaultColumns
	}
	return r.Columns
}

type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}
