package daycount

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func hours(h float64) *float64 { return &h }

func TestDays_Calendar(t *testing.T) {
	got, ok := Days(date(2024, 3, 4), date(2024, 3, 8), Calendar, nil)
	require.True(t, ok)
	assert.Equal(t, 5.0, got)

	// same day counts once
	got, ok = Days(date(2024, 2, 29), date(2024, 2, 29), Calendar, nil)
	require.True(t, ok)
	assert.Equal(t, 1.0, got)

	// across a month boundary in a leap year
	got, _ = Days(date(2024, 2, 28), date(2024, 3, 1), Calendar, nil)
	assert.Equal(t, 3.0, got)
}

func TestDays_OrderIndependent(t *testing.T) {
	pairs := [][2]*time.Time{
		{date(2024, 1, 1), date(2024, 1, 31)},
		{date(2023, 12, 25), date(2024, 1, 2)},
		{date(2024, 3, 9), date(2024, 3, 10)},
	}
	for _, rule := range []Rule{Calendar, Business} {
		for _, p := range pairs {
			forward, _ := Days(p[0], p[1], rule, nil)
			backward, _ := Days(p[1], p[0], rule, nil)
			assert.Equal(t, forward, backward, "rule %s %v", rule, p)
			assert.GreaterOrEqual(t, forward, 0.0)
		}
	}
}

func TestDays_Business(t *testing.T) {
	cases := []struct {
		name       string
		start, end *time.Time
		want       float64
	}{
		{"monday to friday", date(2024, 3, 4), date(2024, 3, 8), 5},
		{"monday to sunday", date(2024, 3, 4), date(2024, 3, 10), 5},
		{"saturday to friday", date(2024, 3, 2), date(2024, 3, 8), 5},
		{"friday to tuesday", date(2024, 3, 1), date(2024, 3, 5), 3},
		{"weekend only", date(2024, 3, 9), date(2024, 3, 10), 0},
		{"single weekday", date(2024, 3, 6), date(2024, 3, 6), 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := Days(c.start, c.end, Business, nil)
			require.True(t, ok)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestDays_Proportional(t *testing.T) {
	got, ok := Days(nil, nil, Proportional, hours(16))
	require.True(t, ok)
	assert.Equal(t, 2.0, got)

	// hours win over the date range
	got, ok = Days(date(2024, 3, 4), date(2024, 3, 8), Proportional, hours(4))
	require.True(t, ok)
	assert.Equal(t, 0.5, got)

	got, _ = Days(nil, date(2024, 3, 8), Proportional, hours(10))
	assert.Equal(t, 1.25, got)

	got, _ = Days(nil, nil, Proportional, hours(1))
	assert.Equal(t, 0.13, got)

	// no hours: falls back to calendar days
	got, ok = Days(date(2024, 3, 4), date(2024, 3, 5), Proportional, nil)
	require.True(t, ok)
	assert.Equal(t, 2.0, got)
}

func TestDays_Undetermined(t *testing.T) {
	_, ok := Days(nil, date(2024, 3, 8), Calendar, nil)
	assert.False(t, ok)

	_, ok = Days(date(2024, 3, 8), nil, Business, hours(8))
	assert.False(t, ok)

	_, ok = Days(nil, nil, Proportional, nil)
	assert.False(t, ok)
}

func TestDays_ZoneAwareInputUsesSantiagoDate(t *testing.T) {
	// 02:00 UTC on the 5th is still the 4th in Santiago
	start := time.Date(2024, 3, 5, 2, 0, 0, 0, time.FixedZone("UTC0", 0))
	end := *date(2024, 3, 4)
	got, ok := Days(&start, &end, Business, nil)
	require.True(t, ok)
	assert.Equal(t, 1.0, got)
}

func TestBusinessDates(t *testing.T) {
	got := BusinessDates(*date(2024, 3, 8), *date(2024, 3, 12))
	require.Len(t, got, 3)
	assert.Equal(t, time.Friday, got[0].Weekday())
	assert.Equal(t, time.Monday, got[1].Weekday())
	assert.Equal(t, time.Tuesday, got[2].Weekday())
}

func TestEndFromDays(t *testing.T) {
	monday := *date(2024, 3, 4)

	assert.Equal(t, *date(2024, 3, 8), EndFromDays(monday, 5, Business))
	assert.Equal(t, *date(2024, 3, 11), EndFromDays(monday, 6, Business))
	assert.Equal(t, *date(2024, 3, 9), EndFromDays(monday, 6, Calendar))
	assert.Equal(t, monday, EndFromDays(monday, 0.5, Calendar))
	assert.Equal(t, monday, EndFromDays(monday, 1, Business))

	// round trip: the end found for n business days spans n business days
	for n := 1; n <= 15; n++ {
		end := EndFromDays(monday, float64(n), Business)
		got, _ := Days(&monday, &end, Business, nil)
		assert.Equal(t, float64(n), got, "n=%d", n)
	}
}

func TestResolve(t *testing.T) {
	configured := map[string]string{
		"licencia_medica": "naturales",
		"Turno":           "proporcionales",
		"permiso":         "habiles",
		"covid":           "not-a-rule",
	}

	assert.Equal(t, Calendar, Resolve("Licencia Médica", configured))
	assert.Equal(t, Proportional, Resolve("turno", configured))
	assert.Equal(t, Business, Resolve("Permiso", configured))
	assert.Equal(t, Business, Resolve("Vacaciones", configured))
	assert.Equal(t, Business, Resolve("Descanso compensatorio", nil))
	assert.Equal(t, Calendar, Resolve("Covid", configured))
	assert.Equal(t, Calendar, Resolve("", nil))
}

func TestResolve_CollidingKeysAreDeterministic(t *testing.T) {
	// the slug key wins over keys that only slug to it
	configured := map[string]string{
		"Licencia Médica": "habiles",
		"licencia_medica": "naturales",
	}
	for i := 0; i < 200; i++ {
		require.Equal(t, Calendar, Resolve("Licencia Médica", configured))
	}

	// without a slug key, the first key in sorted order wins
	configured = map[string]string{
		"licencia Médica": "proporcionales",
		"Licencia Médica": "habiles",
		"LICENCIA MEDICA": "naturales",
	}
	for i := 0; i < 200; i++ {
		require.Equal(t, Calendar, Resolve("licencia medica", configured))
	}
}

func TestParseRule(t *testing.T) {
	rule, ok := ParseRule("Hábiles")
	require.True(t, ok)
	assert.Equal(t, Business, rule)

	_, ok = ParseRule("weekly")
	assert.False(t, ok)
}
