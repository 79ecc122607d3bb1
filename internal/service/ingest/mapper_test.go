package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMapping(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		mapping map[string]string
		want    map[string]string
	}{
		{
			name:    "canonical names verbatim",
			columns: []string{"rut", "nombre", "sede"},
			want:    map[string]string{"rut": "rut", "nombre": "nombre", "sede": "sede"},
		},
		{
			name:    "slug match on messy headers",
			columns: []string{" RUT ", "Fecha Inicio", "Fecha-Término", "Tipo Registro"},
			want: map[string]string{
				" RUT ":         "rut",
				"Fecha Inicio":  "fecha_inicio",
				"Fecha-Término": "fecha_termino",
				"Tipo Registro": "tipo_registro",
			},
		},
		{
			name:    "configured name verbatim",
			columns: []string{"Run Funcionario", "Centro"},
			mapping: map[string]string{"rut": "Run Funcionario", "sede": "Centro"},
			want:    map[string]string{"Run Funcionario": "rut", "Centro": "sede"},
		},
		{
			name:    "configured name by slug",
			columns: []string{"RUN_FUNCIONARIO"},
			mapping: map[string]string{"rut": "Run Funcionario"},
			want:    map[string]string{"RUN_FUNCIONARIO": "rut"},
		},
		{
			name:    "unmatched fields are absent",
			columns: []string{"foo", "bar"},
			want:    map[string]string{},
		},
		{
			name:    "claimed column is not reused",
			columns: []string{"Sede"},
			mapping: map[string]string{"cargo": "Sede"},
			want:    map[string]string{"Sede": "cargo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildMapping(tt.columns, tt.mapping)
			assert.Equal(t, tt.want, got)
		})
	}
}
