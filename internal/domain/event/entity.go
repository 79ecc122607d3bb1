package event

import "time"

// Canonical column names, in the fixed order of the canonical table.
const (
	ColRUT         = "rut"
	ColName        = "nombre"
	ColPosition    = "cargo"
	ColSite        = "sede"
	ColType        = "tipo_registro"
	ColSubtype     = "subtipo"
	ColStartDate   = "fecha_inicio"
	ColEndDate     = "fecha_termino"
	ColDays        = "dias"
	ColHours       = "horas"
	ColStatus      = "estado"
	ColNotes       = "observacion"
	ColShiftCode   = "turno_codigo"
	ColShiftStart  = "turno_inicio"
	ColShiftEnd    = "turno_fin"
	MasterSheet    = "BBDD"
	CatalogSheet   = "Tipos"
	DefaultStatus  = StatusPending
	ShiftEventType = "Turno"
)

var Columns = []string{
	ColRUT, ColName, ColPosition, ColSite, ColType, ColSubtype,
	ColStartDate, ColEndDate, ColDays, ColHours, ColStatus, ColNotes,
	ColShiftCode, ColShiftStart, ColShiftEnd,
}

// Required columns must resolve through the column mapping or ingestion fails.
var Required = []string{ColRUT, ColName, ColSite, ColType, ColStartDate, ColEndDate}

const (
	StatusPending  = "Pendiente"
	StatusApproved = "Aprobado"
	StatusRejected = "Rechazado"
)

var Statuses = []string{StatusPending, StatusApproved, StatusRejected}

var Types = []string{
	"Permiso", "Licencia Médica", "Vacaciones", "Descanso Compensatorio", "Turno", "Covid", "Otro",
}

// Source identifies where the active dataset comes from.
type Source string

const (
	SourceMaster  Source = "base_maestra"
	SourceExample Source = "ejemplo"
	SourceUpload  Source = "upload"
)

func (s Source) Valid() bool {
	switch s {
	case SourceMaster, SourceExample, SourceUpload:
		return true
	}
	return false
}

// Event is one row of the canonical table. Dates are timezone-naive civil
// values stored as UTC wall clock.
type Event struct {
	ID         string     `json:"id"`
	RUT        string     `json:"rut"`
	Name       string     `json:"nombre"`
	Position   *string    `json:"cargo"`
	Site       *string    `json:"sede"`
	Type       *string    `json:"tipo_registro"`
	Subtype    *string    `json:"subtipo"`
	StartDate  *time.Time `json:"fecha_inicio"`
	EndDate    *time.Time `json:"fecha_termino"`
	Days       float64    `json:"dias"`
	Hours      *float64   `json:"horas"`
	Status     string     `json:"estado"`
	Notes      *string    `json:"observacion"`
	ShiftCode  *string    `json:"turno_codigo"`
	ShiftStart *time.Time `json:"turno_inicio"`
	ShiftEnd   *time.Time `json:"turno_fin"`
}

// IsEvent reports whether the row carries an event type. Rows without one
// are staff-only rows of the master sheet.
func (e Event) IsEvent() bool {
	return e.Type != nil
}

func (e Event) IsShift() bool {
	return e.Type != nil && *e.Type == ShiftEventType
}

func (e Event) SiteOr(def string) string {
	if e.Site == nil {
		return def
	}
	return *e.Site
}

func (e Event) TypeOr(def string) string {
	if e.Type == nil {
		return def
	}
	return *e.Type
}

// Person is one distinct staff member found in the master sheet.
type Person struct {
	RUT      string  `json:"rut"`
	Name     string  `json:"nombre"`
	Position *string `json:"cargo"`
	Site     *string `json:"sede"`
}

// Catalogs are the pick lists offered by the registration form.
type Catalogs struct {
	Types     []string            `json:"tipos"`
	Subtypes  map[string][]string `json:"subtipos"`
	Statuses  []string            `json:"estados"`
	Sites     []string            `json:"sedes"`
	Positions []string            `json:"cargos"`
}
