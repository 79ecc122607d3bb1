package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Quilpué", "quilpue"},
		{" Viña del Mar ", "vina_del_mar"},
		{"Villa-Alemana", "villa_alemana"},
		{"Fecha Inicio", "fecha_inicio"},
		{"fecha__termino", "fecha_termino"},
		{"Tipo/Registro.", "tipo_registro"},
		{"Licencia Médica", "licencia_medica"},
		{"", ""},
		{"  --  ", ""},
	}
	for _, c := range cases {
		got := Slug(c.input)
		if got != c.want {
			t.Errorf("Slug(%q) = %q, want %q", c.input, got, c.want)
		}
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Licencia Médica", Title("licencia médica"))
	assert.Equal(t, "Permiso", Title("PERMISO"))
	assert.Equal(t, "Descanso Compensatorio", Title("  descanso compensatorio "))
}

func TestIsPlaceholder(t *testing.T) {
	valid := []string{"", "   ", "Sin tipo", "SIN SUBTIPO", " sin tipo "}
	invalid := []string{"Permiso", "sin", "tipo"}
	for _, s := range valid {
		if !IsPlaceholder(s) {
			t.Errorf("IsPlaceholder(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsPlaceholder(s) {
			t.Errorf("IsPlaceholder(%q) = true, want false", s)
		}
	}
}

func TestTitleOrNil(t *testing.T) {
	assert.Nil(t, TitleOrNil("sin subtipo"))
	assert.Nil(t, TitleOrNil(""))

	got := TitleOrNil("permiso administrativo")
	require.NotNil(t, got)
	assert.Equal(t, "Permiso Administrativo", *got)
}
