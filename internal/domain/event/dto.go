package event

import (
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/daycount"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/validator"
)

// DateRange bounds fecha_inicio. Each side is optional and inclusive.
type DateRange struct {
	From *time.Time `json:"start"`
	To   *time.Time `json:"end"`
}

func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// Filter is the set of user-chosen constraints applied before aggregation.
// An empty field constrains nothing.
type Filter struct {
	Sites     []string  `json:"sede"`
	People    []string  `json:"personas"`
	Types     []string  `json:"tipo"`
	Subtypes  []string  `json:"subtipo"`
	Statuses  []string  `json:"estado"`
	Years     []int     `json:"anios"`
	Months    []int     `json:"meses"`
	DateRange DateRange `json:"fecha_rango"`
}

func (f Filter) IsEmpty() bool {
	return len(f.Sites) == 0 && len(f.People) == 0 && len(f.Types) == 0 &&
		len(f.Subtypes) == 0 && len(f.Statuses) == 0 && len(f.Years) == 0 &&
		len(f.Months) == 0 && f.DateRange.IsZero()
}

// Options holds the distinct values available for each filterable dimension.
type Options struct {
	Sites    []string `json:"sedes"`
	People   []string `json:"personas"`
	Types    []string `json:"tipos"`
	Subtypes []string `json:"subtipos"`
	Statuses []string `json:"estados"`
	Years    []int    `json:"anios"`
	Months   []int    `json:"meses"`
}

type SourceInfo struct {
	Source    Source `json:"source"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
	Active    bool   `json:"active"`
	Path      string `json:"path,omitempty"`
}

type SelectSourceRequest struct {
	Source Source `json:"source"`
}

func (r *SelectSourceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Source.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "source",
			Message: "source must be one of base_maestra, ejemplo, upload",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DatasetInfo describes the dataset currently held in memory.
type DatasetInfo struct {
	Source    Source `json:"source"`
	Signature string `json:"signature"`
	Rows      int    `json:"rows"`
	Events    int    `json:"events"`
	FileName  string `json:"file_name,omitempty"`
}

type CreateEventRequest struct {
	RUT       string   `json:"rut"`
	Name      *string  `json:"nombre,omitempty"`
	Position  *string  `json:"cargo,omitempty"`
	Site      *string  `json:"sede,omitempty"`
	Type      string   `json:"tipo_registro"`
	Subtype   *string  `json:"subtipo,omitempty"`
	StartDate string   `json:"fecha_inicio"`
	EndDate   string   `json:"fecha_termino"`
	Hours     *float64 `json:"horas,omitempty"`
	Status    *string  `json:"estado,omitempty"`
	Notes     *string  `json:"observacion,omitempty"`
}

func (r *CreateEventRequest) Validate() error {
	var errs validator.ValidationErrors

	// RUT
	if validator.IsEmpty(r.RUT) {
		errs = append(errs, validator.ValidationError{
			Field:   "rut",
			Message: "rut is required",
		})
	} else if !validator.IsValidRUT(r.RUT) {
		errs = append(errs, validator.ValidationError{
			Field:   "rut",
			Message: "rut must be a valid RUT with check digit",
		})
	}

	// Type
	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "tipo_registro",
			Message: "tipo_registro is required",
		})
	}

	errs = append(errs, validateRange(r.StartDate, r.EndDate, true)...)
	errs = append(errs, validateStatus(r.Status)...)
	errs = append(errs, validateHours(r.Hours)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEventRequest struct {
	ID        string   `json:"id"`
	Type      *string  `json:"tipo_registro,omitempty"`
	Subtype   *string  `json:"subtipo,omitempty"`
	StartDate *string  `json:"fecha_inicio,omitempty"`
	EndDate   *string  `json:"fecha_termino,omitempty"`
	Hours     *float64 `json:"horas,omitempty"`
	Status    *string  `json:"estado,omitempty"`
	Notes     *string  `json:"observacion,omitempty"`
}

func (r *UpdateEventRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.Type != nil && validator.IsEmpty(*r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "tipo_registro",
			Message: "tipo_registro must not be empty",
		})
	}

	start, end := "", ""
	if r.StartDate != nil {
		start = *r.StartDate
	}
	if r.EndDate != nil {
		end = *r.EndDate
	}
	errs = append(errs, validateRange(start, end, false)...)
	errs = append(errs, validateStatus(r.Status)...)
	errs = append(errs, validateHours(r.Hours)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PreviewRequest asks for the duration of a range, or for the end date of a
// requested duration when EndDate is empty.
type PreviewRequest struct {
	Type      string   `json:"tipo_registro"`
	StartDate string   `json:"fecha_inicio"`
	EndDate   string   `json:"fecha_termino,omitempty"`
	Days      *float64 `json:"dias,omitempty"`
	Hours     *float64 `json:"horas,omitempty"`
}

func (r *PreviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "tipo_registro",
			Message: "tipo_registro is required",
		})
	}
	if validator.IsEmpty(r.EndDate) {
		if _, ok := daycount.ParseDate(r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "fecha_inicio",
				Message: "fecha_inicio must be a valid date",
			})
		}
		if r.Days == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "dias",
				Message: "dias is required when fecha_termino is empty",
			})
		} else if *r.Days <= 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "dias",
				Message: "dias must be greater than 0",
			})
		}
	} else {
		errs = append(errs, validateRange(r.StartDate, r.EndDate, true)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PreviewResponse struct {
	Rule      daycount.Rule `json:"regla"`
	StartDate time.Time     `json:"fecha_inicio"`
	EndDate   time.Time     `json:"fecha_termino"`
	Days      float64       `json:"dias"`
}

func validateRange(start, end string, required bool) validator.ValidationErrors {
	var errs validator.ValidationErrors

	var startDate, endDate time.Time
	var startOK, endOK bool
	if required || start != "" {
		if startDate, startOK = daycount.ParseDate(start); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "fecha_inicio",
				Message: "fecha_inicio must be a valid date",
			})
		}
	}
	if required || end != "" {
		if endDate, endOK = daycount.ParseDate(end); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "fecha_termino",
				Message: "fecha_termino must be a valid date",
			})
		}
	}
	if startOK && endOK && endDate.Before(startDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "fecha_termino",
			Message: "fecha_termino must be on or after fecha_inicio",
		})
	}
	return errs
}

func validateStatus(status *string) validator.ValidationErrors {
	if status == nil || validator.IsInSliceFold(*status, Statuses) {
		return nil
	}
	return validator.ValidationErrors{{
		Field:   "estado",
		Message: "estado must be one of Pendiente, Aprobado, Rechazado",
	}}
}

func validateHours(hours *float64) validator.ValidationErrors {
	if hours == nil || *hours >= 0 {
		return nil
	}
	return validator.ValidationErrors{{
		Field:   "horas",
		Message: "horas must not be negative",
	}}
}
