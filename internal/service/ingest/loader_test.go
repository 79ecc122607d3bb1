package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/config"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSettings struct {
	settings config.Settings
}

func (s *staticSettings) Get() config.Settings {
	return s.settings
}

const sampleCSV = "rut;nombre;sede;tipo_registro;fecha_inicio;fecha_termino\n" +
	"11111111-1;Ana;quilpue;permiso;04/03/2024;08/03/2024\n" +
	"7654321-6;Luis;viña del mar;licencia médica;04/03/2024;17/03/2024\n"

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_LoadFileAndCache(t *testing.T) {
	path := writeSource(t, "base.csv", sampleCSV)
	cache := NewCache(4)
	loader := NewLoader(&staticSettings{settings: testSettings()}, "", cache)
	ctx := context.Background()

	events, sig, err := loader.Load(ctx, event.SourceFile{Path: path})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, strings.HasPrefix(sig, "path::"))
	assert.Equal(t, 5.0, events[0].Days)
	assert.Equal(t, 14.0, events[1].Days)
	assert.Equal(t, 1, cache.Len())

	again, sig2, err := loader.Load(ctx, event.SourceFile{Path: path})
	require.NoError(t, err)
	assert.Equal(t, sig, sig2)
	assert.Equal(t, events[0].ID, again[0].ID, "served from cache")

	// callers own their copy
	again[0].Days = 99
	third, _, err := loader.Load(ctx, event.SourceFile{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 5.0, third[0].Days)
}

func TestLoader_SignatureChangesWithContent(t *testing.T) {
	path := writeSource(t, "base.csv", sampleCSV)
	provider := &staticSettings{settings: testSettings()}
	loader := NewLoader(provider, "", nil)

	before, err := loader.Signature(event.SourceFile{Path: path})
	require.NoError(t, err)

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))
	afterTouch, err := loader.Signature(event.SourceFile{Path: path})
	require.NoError(t, err)
	assert.NotEqual(t, before, afterTouch)

	provider.settings.DayRules = map[string]string{"permiso": "naturales"}
	afterSettings, err := loader.Signature(event.SourceFile{Path: path})
	require.NoError(t, err)
	assert.NotEqual(t, afterTouch, afterSettings)
}

func TestLoader_PayloadSignature(t *testing.T) {
	loader := NewLoader(&staticSettings{settings: testSettings()}, "", nil)

	a, err := loader.Signature(event.SourceFile{Name: "a.csv", Data: []byte(sampleCSV)})
	require.NoError(t, err)
	b, err := loader.Signature(event.SourceFile{Name: "b.csv", Data: []byte(sampleCSV)})
	require.NoError(t, err)
	c, err := loader.Signature(event.SourceFile{Name: "a.csv", Data: []byte(sampleCSV + "\n")})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, "upload::"))
	assert.Equal(t, a, b, "same bytes, same signature")
	assert.NotEqual(t, a, c)
}

func TestLoader_MissingFieldsPassThrough(t *testing.T) {
	loader := NewLoader(&staticSettings{settings: testSettings()}, "", nil)

	_, _, err := loader.Load(context.Background(), event.SourceFile{
		Name: "sin_rut.csv",
		Data: []byte("nombre,sede,tipo_registro,fecha_inicio,fecha_termino\nAna,Quilpué,Permiso,04/03/2024,05/03/2024\n"),
	})
	require.Error(t, err)

	var missing *event.MissingFieldsError
	assert.True(t, errors.As(err, &missing))
	var loadErr *event.LoadError
	assert.False(t, errors.As(err, &loadErr))
}

func TestLoader_LoadErrors(t *testing.T) {
	loader := NewLoader(&staticSettings{settings: testSettings()}, "", nil)
	ctx := context.Background()

	_, _, err := loader.Load(ctx, event.SourceFile{Path: filepath.Join(t.TempDir(), "missing.xlsx")})
	var loadErr *event.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, event.LoadHint, loadErr.Hint())

	_, _, err = loader.Load(ctx, event.SourceFile{Name: "broken.xlsx", Data: []byte("not a zip")})
	assert.True(t, errors.As(err, &loadErr))
}

func TestLoader_PeekColumns(t *testing.T) {
	path := writeSource(t, "base.csv", sampleCSV)
	loader := NewLoader(&staticSettings{settings: testSettings()}, "", nil)

	cols, err := loader.PeekColumns(context.Background(), event.SourceFile{Path: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"rut", "nombre", "sede", "tipo_registro", "fecha_inicio", "fecha_termino"}, cols)
}
