package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/config"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
)

// SettingsProvider supplies the current ingestion settings.
type SettingsProvider interface {
	Get() config.Settings
}

// Loader reads and normalizes data sources, caching results by signature.
type Loader struct {
	settings SettingsProvider
	sheet    string
	cache    *Cache
}

func NewLoader(settings SettingsProvider, sheet string, cache *Cache) *Loader {
	if sheet == "" {
		sheet = event.MasterSheet
	}
	if cache == nil {
		cache = NewCache(DefaultCacheSize)
	}
	return &Loader{settings: settings, sheet: sheet, cache: cache}
}

// Signature identifies a source's content together with the settings it is
// normalized with: path::<abs>::<mtime> for files, upload::<sha256> for payloads.
func (l *Loader) Signature(src event.SourceFile) (string, error) {
	return signature(src, l.settings.Get())
}

func signature(src event.SourceFile, settings config.Settings) (string, error) {
	if src.IsPayload() {
		sum := sha256.Sum256(src.Data)
		return fmt.Sprintf("upload::%s::%s", hex.EncodeToString(sum[:]), settings.Fingerprint()), nil
	}

	abs, err := filepath.Abs(src.Path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", src.Path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	return fmt.Sprintf("path::%s::%d::%s", abs, info.ModTime().UnixNano(), settings.Fingerprint()), nil
}

// Load returns the canonical table for src and its signature. Errors are
// either *event.MissingFieldsError or *event.LoadError.
func (l *Loader) Load(ctx context.Context, src event.SourceFile) (events []event.Event, sig string, err error) {
	settings := l.settings.Get()

	sig, err = signature(src, settings)
	if err != nil {
		return nil, "", &event.LoadError{Cause: err}
	}
	if cached, ok := l.cache.Get(sig); ok {
		return cloneEvents(cached), sig, nil
	}

	defer func() {
		if r := recover(); r != nil {
			events, err = nil, &event.LoadError{Cause: fmt.Errorf("reading %s: %v", sourceLabel(src), r)}
		}
	}()

	raw, err := ReadTable(src, l.sheet, NoLimit)
	if err != nil {
		return nil, "", &event.LoadError{Cause: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	normalized, err := Normalize(raw, settings)
	if err != nil {
		var missing *event.MissingFieldsError
		if errors.As(err, &missing) {
			return nil, "", err
		}
		return nil, "", &event.LoadError{Cause: err}
	}

	l.cache.Put(sig, normalized)
	slog.Info("dataset loaded",
		"source", sourceLabel(src),
		"raw_rows", len(raw.Rows),
		"rows", len(normalized),
		"signature", sig,
	)
	return cloneEvents(normalized), sig, nil
}

// PeekColumns returns the header of src without normalizing it.
func (l *Loader) PeekColumns(ctx context.Context, src event.SourceFile) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := ReadTable(src, l.sheet, 0)
	if err != nil {
		return nil, &event.LoadError{Cause: err}
	}
	return raw.Columns, nil
}

// Invalidate forgets the cached dataset for a signature.
func (l *Loader) Invalidate(sig string) {
	l.cache.Invalidate(sig)
}

func sourceLabel(src event.SourceFile) string {
	if src.Name != "" {
		return src.Name
	}
	return src.Path
}

// cloneEvents copies the slice so callers can append and replace rows
// without touching the cached dataset.
func cloneEvents(events []event.Event) []event.Event {
	out := make([]event.Event, len(events))
	copy(out, events)
	return out
}
