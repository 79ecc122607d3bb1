package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSite(t *testing.T) {
	equivalences := map[string]string{
		"V. Alemana": "Villa Alemana",
		"CESFAM Q":   "Quilpué",
	}

	tests := []struct {
		raw  string
		want string
	}{
		{"v alemana", "Villa Alemana"},
		{"cesfam-q", "Quilpué"},
		{"quilpue", "Quilpué"},
		{"QUILPUÉ", "Quilpué"},
		{"Viña del mar", "Viña del Mar"},
		{"vina del mar", "Viña del Mar"},
		{"villa alemana", "Villa Alemana"},
		{"la calera", "La Calera"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := NormalizeSite(tt.raw, equivalences)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestNormalizeSite_BlankStaysNil(t *testing.T) {
	assert.Nil(t, NormalizeSite("", nil))
	assert.Nil(t, NormalizeSite("   ", nil))
}
