package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettingsStore_MissingFileUsesDefaults(t *testing.T) {
	store, err := NewSettingsStore(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)

	settings := store.Get()
	assert.Equal(t, "habiles", settings.DayRules["permiso"])
	assert.Equal(t, "Quilpué", settings.SiteEquivalences["Quilpue"])
}

func TestNewSettingsStore_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `
column_mapping:
  rut: RUT Funcionario
sede_equivalencias:
  CESFAM Q: Quilpué
reglas_dias:
  permiso: naturales
umbrales:
  ausentismo:
    verde: 1
    amarillo: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	store, err := NewSettingsStore(path)
	require.NoError(t, err)

	settings := store.Get()
	assert.Equal(t, "RUT Funcionario", settings.ColumnMapping["rut"])
	assert.Equal(t, map[string]string{"CESFAM Q": "Quilpué"}, settings.SiteEquivalences)
	assert.Equal(t, map[string]string{"permiso": "naturales"}, settings.DayRules)
	assert.Equal(t, Threshold{Green: 1, Yellow: 3}, settings.Thresholds["ausentismo"])
}

func TestNewSettingsStore_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reglas_dias: [unterminated"), 0644))

	_, err := NewSettingsStore(path)
	assert.Error(t, err)
}

func TestSettingsStore_UpdatePersistsAndReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	store, err := NewSettingsStore(path)
	require.NoError(t, err)

	settings := store.Get()
	settings.ColumnMapping["nombre"] = "Nombre Completo"
	require.NoError(t, store.Update(settings))

	reloaded, err := NewSettingsStore(path)
	require.NoError(t, err)
	assert.Equal(t, "Nombre Completo", reloaded.Get().ColumnMapping["nombre"])

	reset, err := store.Reset()
	require.NoError(t, err)
	assert.Equal(t, "Nombre Completo", reset.ColumnMapping["nombre"])
}

func TestSettingsStore_UpdateRejectsInvalid(t *testing.T) {
	store, err := NewSettingsStore(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)

	settings := store.Get()
	settings.DayRules["permiso"] = "semanales"
	settings.Thresholds["licencias"] = Threshold{Green: 20, Yellow: 10}

	err = store.Update(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reglas_dias.permiso")
	assert.Contains(t, err.Error(), "umbrales.licencias")
	assert.Equal(t, "habiles", store.Get().DayRules["permiso"])
}

func TestSettings_ValidateRejectsCollidingDayRules(t *testing.T) {
	settings := DefaultSettings()
	settings.DayRules["Licencia Médica"] = "habiles"

	err := settings.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reglas_dias.licencia_medica")
	assert.Contains(t, err.Error(), "same type as Licencia Médica")
}

func TestSettingsStore_GetReturnsCopy(t *testing.T) {
	store, err := NewSettingsStore(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)

	settings := store.Get()
	settings.DayRules["permiso"] = "naturales"

	assert.Equal(t, "habiles", store.Get().DayRules["permiso"])
}

func TestSettings_Fingerprint(t *testing.T) {
	a := DefaultSettings()
	b := DefaultSettings()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Thresholds["ausentismo"] = Threshold{Green: 9, Yellow: 10}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "thresholds do not affect ingestion")

	b.DayRules["covid"] = "habiles"
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
