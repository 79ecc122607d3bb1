package daycount

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		input string
		want  time.Time
	}{
		{"01/03/2024", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"1/3/2024", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"05-03-2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"05.03.2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"04/03/2024 20:30", time.Date(2024, 3, 4, 20, 30, 0, 0, time.UTC)},
		{"2024-03-04", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"2024-03-04 08:00:00", time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)},
		{"2024-03-04T08:00:00", time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)},
		{"45355", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"45355.5", time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)},
		// 03:00 UTC is midnight in Santiago during summer time
		{"2024-03-05T03:00:00Z", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, ok := ParseDate(c.input)
		require.True(t, ok, "ParseDate(%q)", c.input)
		assert.True(t, c.want.Equal(got), "ParseDate(%q) = %v, want %v", c.input, got, c.want)
		assert.Equal(t, time.UTC, got.Location(), "ParseDate(%q) must be naive", c.input)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	invalid := []string{"", "   ", "mañana", "32/01/2024", "2024-13-01", "-5", "0"}
	for _, s := range invalid {
		if _, ok := ParseDate(s); ok {
			t.Errorf("ParseDate(%q) = ok, want failure", s)
		}
	}
	assert.Nil(t, ParseDatePtr("no es fecha"))
}
