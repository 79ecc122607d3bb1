package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
)

// DefaultPrefix namespaces filter parameters in the query string.
const DefaultPrefix = "flt"

const (
	keySite      = "sede"
	keyPeople    = "personas"
	keyType      = "tipo"
	keySubtype   = "subtipo"
	keyStatus    = "estado"
	keyYears     = "anios"
	keyMonths    = "meses"
	keyDateRange = "fecha_rango"
	isoDate      = "2006-01-02"
)

// ToQuery encodes f as query parameters: <prefix>_sede=a,b and
// <prefix>_fecha_rango_start=2024-01-01. Empty fields are omitted.
func ToQuery(f event.Filter, prefix string) url.Values {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	values := url.Values{}
	setList := func(key string, list []string) {
		if len(list) > 0 {
			values.Set(prefix+"_"+key, strings.Join(list, ","))
		}
	}

	setList(keySite, f.Sites)
	setList(keyPeople, f.People)
	setList(keyType, f.Types)
	setList(keySubtype, f.Subtypes)
	setList(keyStatus, f.Statuses)
	setList(keyYears, itoa(f.Years))
	setList(keyMonths, itoa(f.Months))
	if f.DateRange.From != nil {
		values.Set(prefix+"_"+keyDateRange+"_start", f.DateRange.From.Format(isoDate))
	}
	if f.DateRange.To != nil {
		values.Set(prefix+"_"+keyDateRange+"_end", f.DateRange.To.Format(isoDate))
	}
	return values
}

// FromQuery decodes a filter written by ToQuery. Unknown parameters are
// ignored; malformed years, months and dates are reported.
func FromQuery(values url.Values, prefix string) (event.Filter, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	f := DefaultFilter()
	list := func(key string) []string {
		raw := values.Get(prefix + "_" + key)
		out := []string{}
		for _, token := range strings.Split(raw, ",") {
			if token = strings.TrimSpace(token); token != "" {
				out = append(out, token)
			}
		}
		return out
	}

	f.Sites = list(keySite)
	f.People = list(keyPeople)
	f.Types = list(keyType)
	f.Subtypes = list(keySubtype)
	f.Statuses = list(keyStatus)

	var err error
	if f.Years, err = atoi(list(keyYears)); err != nil {
		return event.Filter{}, fmt.Errorf("invalid %s_%s: %w", prefix, keyYears, err)
	}
	if f.Months, err = atoi(list(keyMonths)); err != nil {
		return event.Filter{}, fmt.Errorf("invalid %s_%s: %w", prefix, keyMonths, err)
	}
	for _, m := range f.Months {
		if m < 1 || m > 12 {
			return event.Filter{}, fmt.Errorf("invalid %s_%s: month %d out of range", prefix, keyMonths, m)
		}
	}

	if f.DateRange.From, err = parseBound(values.Get(prefix + "_" + keyDateRange + "_start")); err != nil {
		return event.Filter{}, fmt.Errorf("invalid %s_%s_start: %w", prefix, keyDateRange, err)
	}
	if f.DateRange.To, err = parseBound(values.Get(prefix + "_" + keyDateRange + "_end")); err != nil {
		return event.Filter{}, fmt.Errorf("invalid %s_%s_end: %w", prefix, keyDateRange, err)
	}
	return f, nil
}

// Summary renders the active constraints as one line for report headers.
func Summary(f event.Filter) string {
	if f.IsEmpty() {
		return "Sin filtros"
	}

	var parts []string
	add := func(label string, list []string) {
		if len(list) > 0 {
			parts = append(parts, label+": "+strings.Join(list, ", "))
		}
	}
	add("Sede", f.Sites)
	add("Personas", f.People)
	add("Tipo", f.Types)
	add("Subtipo", f.Subtypes)
	add("Estado", f.Statuses)
	add("Años", itoa(f.Years))
	add("Meses", itoa(f.Months))

	switch from, to := f.DateRange.From, f.DateRange.To; {
	case from != nil && to != nil:
		parts = append(parts, fmt.Sprintf("Fechas: %s a %s", from.Format("02/01/2006"), to.Format("02/01/2006")))
	case from != nil:
		parts = append(parts, "Desde "+from.Format("02/01/2006"))
	case to != nil:
		parts = append(parts, "Hasta "+to.Format("02/01/2006"))
	}
	return strings.Join(parts, " · ")
}

func parseBound(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(isoDate, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func itoa(values []int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return out
}

func atoi(tokens []string) ([]int, error) {
	out := make([]int, 0, len(tokens))
	for _, token := range tokens {
		v, err := strconv.Atoi(token)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
