package services

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyAPIURL        = "api.url"
	KeyAPIRateLimit  = "api.rate_limit"
	KeyLogFile       = "log.file"
	KeyWatchDebounce = "upload.watch_debounce_ms"
)

// Environment variables that override the config file, highest first.
var apiURLEnvVars = []string{"KBQA_API_URL", "NEXT_PUBLIC_API_URL"}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service that reads the
// process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// WithEnv replaces the environment lookup. Useful for testing.
func (s *SettingsService) WithEnv(lookup func(string) (string, bool)) *SettingsService {
	s.lookupEnv = lookup
	return s
}

// Get resolves settings: defaults, then the config file, then the environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	if v, _ := s.configStore.Lookup(KeyAPIURL); asString(v) != "" {
		settings.API.URL = asString(v)
	}
	for _, name := range apiURLEnvVars {
		if v, ok := s.lookupEnv(name); ok && v != "" {
			settings.API.URL = v
			break
		}
	}

	if v, ok := s.configStore.Lookup(KeyAPIRateLimit); ok {
		f, err := asFloat(KeyAPIRateLimit, v)
		if err != nil {
			return nil, err
		}
		settings.API.RateLimit = f
	}
	if v, ok := s.configStore.Lookup(KeyLogFile); ok {
		settings.Log.File = asString(v)
	}
	if v, ok := s.configStore.Lookup(KeyWatchDebounce); ok {
		ms, err := asInt(KeyWatchDebounce, v)
		if err != nil {
			return nil, err
		}
		settings.Upload.WatchDebounce = time.Duration(ms) * time.Millisecond
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Put(KeyAPIURL, settings.API.URL); err != nil {
		return fmt.Errorf("save api url: %w", err)
	}
	if err := s.configStore.Put(KeyAPIRateLimit, settings.API.RateLimit); err != nil {
		return fmt.Errorf("save api rate_limit: %w", err)
	}
	if err := s.configStore.Put(KeyLogFile, settings.Log.File); err != nil {
		return fmt.Errorf("save log file: %w", err)
	}
	debounce := int(settings.Upload.WatchDebounce / time.Millisecond)
	if err := s.configStore.Put(KeyWatchDebounce, debounce); err != nil {
		return fmt.Errorf("save upload watch_debounce_ms: %w", err)
	}

	return s.configStore.Save()
}

// Set parses a raw value for a single key and persists it.
func (s *SettingsService) Set(key, value string) error {
	var typed any
	switch key {
	case KeyAPIURL, KeyLogFile:
		typed = value
	case KeyAPIRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return &domain.ValidationError{Field: key, Reason: "must be a non-negative number"}
		}
		typed = f
	case KeyWatchDebounce:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return &domain.ValidationError{Field: key, Reason: "must be a non-negative integer"}
		}
		typed = n
	default:
		return &domain.ValidationError{Field: key, Reason: "unknown setting"}
	}

	if key == KeyAPIURL {
		probe := domain.DefaultAppSettings()
		probe.API.URL = value
		if err := probe.Validate(); err != nil {
			return err
		}
	}

	if err := s.configStore.Put(key, typed); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return s.configStore.Save()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Keys lists the supported configuration keys.
func (s *SettingsService) Keys() []string {
	return []string{KeyAPIURL, KeyAPIRateLimit, KeyLogFile, KeyWatchDebounce}
}

func asString(v any) string {
	str, _ := v.(string)
	return str
}

// asInt accepts TOML's int64 as well as values Put from Go. Whole floats
// pass, since a hand-edited "750.0" means 750.
func asInt(key string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, &domain.ValidationError{Field: key, Reason: fmt.Sprintf("expected an integer, got %v", v)}
}

// asFloat widens integers, so "rate_limit = 2" reads as 2.
func asFloat(key string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	}
	return 0, &domain.ValidationError{Field: key, Reason: fmt.Sprintf("expected a number, got %v", v)}
}
