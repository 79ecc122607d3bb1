package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/daycount"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/textnorm"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/validator"
	"gopkg.in/yaml.v3"
)

// Threshold colours a KPI: green up to Green, yellow up to Yellow, red above.
type Threshold struct {
	Green  float64 `yaml:"verde" json:"verde"`
	Yellow float64 `yaml:"amarillo" json:"amarillo"`
}

// Settings are the domain dictionaries consumed by ingestion. Thresholds are
// only read by the presentation layer.
type Settings struct {
	ColumnMapping    map[string]string    `yaml:"column_mapping" json:"column_mapping"`
	SiteEquivalences map[string]string    `yaml:"sede_equivalencias" json:"sede_equivalencias"`
	DayRules         map[string]string    `yaml:"reglas_dias" json:"reglas_dias"`
	Thresholds       map[string]Threshold `yaml:"umbrales" json:"umbrales"`
}

func DefaultSettings() Settings {
	return Settings{
		ColumnMapping: map[string]string{},
		SiteEquivalences: map[string]string{
			"Quilpue":       "Quilpué",
			"V. Alemana":    "Villa Alemana",
			"Villa Alemana": "Villa Alemana",
			"Viña":          "Viña del Mar",
			"Vina del Mar":  "Viña del Mar",
		},
		DayRules: map[string]string{
			"permiso":                "habiles",
			"vacaciones":             "habiles",
			"descanso_compensatorio": "habiles",
			"licencia_medica":        "naturales",
			"covid":                  "naturales",
			"turno":                  "proporcionales",
		},
		Thresholds: map[string]Threshold{
			"ausentismo": {Green: 2, Yellow: 4},
			"licencias":  {Green: 5, Yellow: 15},
		},
	}
}

// Validate checks rule names and threshold ordering.
func (s Settings) Validate() error {
	var errs validator.ValidationErrors

	tipos := make([]string, 0, len(s.DayRules))
	for tipo := range s.DayRules {
		tipos = append(tipos, tipo)
	}
	slices.Sort(tipos)

	seen := make(map[string]string, len(tipos))
	for _, tipo := range tipos {
		if _, ok := daycount.ParseRule(s.DayRules[tipo]); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "reglas_dias." + tipo,
				Message: "rule must be one of naturales, habiles, proporcionales",
			})
		}
		slug := textnorm.Slug(tipo)
		if first, dup := seen[slug]; dup {
			errs = append(errs, validator.ValidationError{
				Field:   "reglas_dias." + tipo,
				Message: "same type as " + first,
			})
			continue
		}
		seen[slug] = tipo
	}
	for name, t := range s.Thresholds {
		if t.Green > t.Yellow {
			errs = append(errs, validator.ValidationError{
				Field:   "umbrales." + name,
				Message: "verde must not exceed amarillo",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Fingerprint identifies the ingestion-relevant part of the settings so the
// dataset cache can be keyed on it.
func (s Settings) Fingerprint() string {
	payload, err := yaml.Marshal(struct {
		ColumnMapping    map[string]string `yaml:"m"`
		SiteEquivalences map[string]string `yaml:"s"`
		DayRules         map[string]string `yaml:"r"`
	}{s.ColumnMapping, s.SiteEquivalences, s.DayRules})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:8])
}

func (s Settings) clone() Settings {
	out := Settings{
		ColumnMapping:    cloneMap(s.ColumnMapping),
		SiteEquivalences: cloneMap(s.SiteEquivalences),
		DayRules:         cloneMap(s.DayRules),
		Thresholds:       make(map[string]Threshold, len(s.Thresholds)),
	}
	for k, v := range s.Thresholds {
		out.Thresholds[k] = v
	}
	return out
}

func cloneMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// SettingsStore keeps the current settings and persists them as YAML.
type SettingsStore struct {
	mu       sync.RWMutex
	path     string
	settings Settings
}

// NewSettingsStore loads path, falling back to defaults when the file does not exist.
func NewSettingsStore(path string) (*SettingsStore, error) {
	s := &SettingsStore{path: path}
	settings, err := s.read()
	if err != nil {
		return nil, err
	}
	s.settings = settings
	return s, nil
}

func (s *SettingsStore) read() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings file: %w", err)
	}

	// Absent sections fall back to defaults; present ones replace them whole.
	defaults := DefaultSettings()
	if settings.ColumnMapping == nil {
		settings.ColumnMapping = defaults.ColumnMapping
	}
	if settings.SiteEquivalences == nil {
		settings.SiteEquivalences = defaults.SiteEquivalences
	}
	if settings.DayRules == nil {
		settings.DayRules = defaults.DayRules
	}
	if settings.Thresholds == nil {
		settings.Thresholds = defaults.Thresholds
	}
	return settings, nil
}

// Get returns a copy of the current settings.
func (s *SettingsStore) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.clone()
}

// Update validates, stores and persists new settings.
func (s *SettingsStore) Update(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(settings); err != nil {
		return err
	}
	s.settings = settings.clone()
	return nil
}

// Reset discards in-memory edits by reloading the settings file.
func (s *SettingsStore) Reset() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, err := s.read()
	if err != nil {
		return Settings{}, err
	}
	s.settings = settings
	return settings.clone(), nil
}

func (s *SettingsStore) write(settings Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
