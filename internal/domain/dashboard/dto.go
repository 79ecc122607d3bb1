package dashboard

import (
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
)

// ========== AGGREGATES ==========

// TypeTotal is one row of the totals-by-type rollup
type TypeTotal struct {
	Type    string  `json:"tipo_registro"`
	Records int     `json:"registros"`
	Days    float64 `json:"dias"`
}

// SiteTotal is one row of the days-by-site rollup
type SiteTotal struct {
	Site    string  `json:"sede"`
	Days    float64 `json:"dias"`
	Records int     `json:"registros"`
}

// PersonTotal is one row of the top-people ranking
type PersonTotal struct {
	RUT     string  `json:"rut"`
	Name    string  `json:"nombre"`
	Days    float64 `json:"dias"`
	Records int     `json:"registros"`
}

// MonthTotal is one row of the monthly trend
type MonthTotal struct {
	Month   time.Time `json:"mes"`
	Label   string    `json:"mes_label"` // Format: "YYYY-MM"
	Records int       `json:"registros"`
	Days    float64   `json:"dias"`
}

// MonthRate is the monthly trend with records per 100 people
type MonthRate struct {
	MonthTotal
	Rate float64 `json:"tasa"`
}

// Metric selects the ranking measure for TopPeople
type Metric string

const (
	MetricDays    Metric = "dias"
	MetricRecords Metric = "registros"
)

func ParseMetric(s string) Metric {
	if Metric(s) == MetricRecords {
		return MetricRecords
	}
	return MetricDays
}

// ========== SHIFTS ==========

// ShiftRecord is a shift event with its derived fields
type ShiftRecord struct {
	event.Event
	DurationHours float64   `json:"duracion_horas"`
	Month         time.Time `json:"mes"`
	Night         bool      `json:"es_nocturno"`
	Weekend       bool      `json:"es_fin_semana"`
}

type ShiftPerson struct {
	RUT      string  `json:"rut"`
	Name     string  `json:"nombre"`
	Shifts   int     `json:"turnos"`
	Hours    float64 `json:"horas"`
	Night    int     `json:"nocturnos"`
	Weekends int     `json:"fines_semana"`
}

type ShiftSiteCode struct {
	Site   string `json:"sede"`
	Code   string `json:"turno_codigo"`
	Shifts int    `json:"turnos"`
}

type ShiftMonthSite struct {
	Month  time.Time `json:"mes"`
	Site   string    `json:"sede"`
	Shifts int       `json:"turnos"`
}

// ShiftHeatmap is a person x month count matrix. Counts[i][j] belongs to
// People[i] and Months[j].
type ShiftHeatmap struct {
	People []string `json:"personas"`
	Months []string `json:"meses"`
	Counts [][]int  `json:"conteos"`
}

type NightShiftRank struct {
	Name  string `json:"nombre"`
	Night int    `json:"nocturnos"`
}

type ShiftSummary struct {
	ByPerson   []ShiftPerson    `json:"resumen"`
	BySiteCode []ShiftSiteCode  `json:"tipo"`
	ByMonth    []ShiftMonthSite `json:"mes"`
	Heatmap    ShiftHeatmap     `json:"heatmap"`
	Night      []NightShiftRank `json:"nocturnos"`
}

// ========== SUBTOTALS ==========

// SubtotalRow groups by the requested dimensions. The last row of a
// subtotal table is the TOTAL row.
type SubtotalRow struct {
	Keys    []string `json:"claves"`
	Records int      `json:"registros"`
	Days    float64  `json:"dias"`
}

type SubtotalTable struct {
	Dimensions []string      `json:"dimensiones"`
	Rows       []SubtotalRow `json:"filas"`
}

// ========== OVERVIEW ==========

// Delta tones
const (
	ToneSuccess = "success"
	ToneDanger  = "danger"
	ToneNeutral = "neutral"
)

// Delta is a month-over-month change in percent. Nil when fewer than two
// months exist or the previous value is zero.
type Delta struct {
	Percent *float64 `json:"porcentaje"`
	Tone    string   `json:"tono"`
}

type Headline struct {
	Records      int     `json:"registros"`
	Days         float64 `json:"dias"`
	People       int     `json:"personas"`
	ActiveSites  int     `json:"sedes_activas"`
	MeanDays     float64 `json:"dias_promedio"`
	RecordsDelta Delta   `json:"registros_delta"`
	DaysDelta    Delta   `json:"dias_delta"`
	Absenteeism  float64 `json:"ausentismo_relativo"`
}

type Highlights struct {
	UpcomingPermits []event.Event `json:"permisos_proximos"`
	LongLeaves      []event.Event `json:"licencias_largas"`
	CriticalShifts  []event.Event `json:"turnos_criticos"`
}

type OverviewResponse struct {
	Filter     event.Filter `json:"filtro"`
	Summary    string       `json:"resumen_filtro"`
	Headline   Headline     `json:"kpis"`
	ByType     []TypeTotal  `json:"por_tipo"`
	Trend      []MonthTotal `json:"tendencia"`
	BySite     []SiteTotal  `json:"por_sede"`
	Highlights Highlights   `json:"destacados"`
}

// ========== TRAYS ==========

// PermitKPIs backs the permits tray
type PermitKPIs struct {
	Permits int           `json:"permisos"`
	Hours   float64       `json:"horas"`
	Pending int           `json:"pendientes"`
	Trend   []MonthTotal  `json:"tendencia"`
	Top     []PersonTotal `json:"top_personas"`
	Rows    []event.Event `json:"detalle"`
}

// LeaveRow flags leaves longer than the critical threshold
type LeaveRow struct {
	event.Event
	Alert bool `json:"alerta"`
}

// LeaveKPIs backs the medical leave follow-up view
type LeaveKPIs struct {
	Leaves   int           `json:"licencias"`
	Days     float64       `json:"dias"`
	Critical int           `json:"criticas"`
	Trend    []MonthTotal  `json:"tendencia"`
	Top      []PersonTotal `json:"top_personas"`
	Rows     []LeaveRow    `json:"detalle"`
}

type AbsenteeismResponse struct {
	Ratio  float64 `json:"ausentismo_relativo"`
	Days   float64 `json:"dias"`
	People int     `json:"personas"`
}
