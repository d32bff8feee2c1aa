package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kbqa/internal/core/domain"
)

func noEnv(string) (string, bool) { return "", false }

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore()).WithEnv(noEnv)

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAPIURL, settings.API.URL)
	assert.Zero(t, settings.API.RateLimit)
	assert.Equal(t, domain.DefaultWatchDebounce, settings.Upload.WatchDebounce)
	assert.Empty(t, settings.Log.File)
}

func TestSettingsService_Get_FromConfig(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyAPIURL:        "https://kb.example.com",
		KeyAPIRateLimit:  int64(5),
		KeyLogFile:       "/var/log/kbqa.log",
		KeyWatchDebounce: int64(1500),
	})
	svc := NewSettingsService(store).WithEnv(noEnv)

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, "https://kb.example.com", settings.API.URL)
	assert.InDelta(t, 5.0, settings.API.RateLimit, 0.0001)
	assert.Equal(t, "/var/log/kbqa.log", settings.Log.File)
	assert.Equal(t, 1500*time.Millisecond, settings.Upload.WatchDebounce)
}

func TestSettingsService_Get_EnvOverridesConfig(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{KeyAPIURL: "https://file.example.com"})

	tests := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{"no env", nil, "https://file.example.com"},
		{"fallback name", map[string]string{"NEXT_PUBLIC_API_URL": "http://next:8000"}, "http://next:8000"},
		{"primary wins", map[string]string{
			"NEXT_PUBLIC_API_URL": "http://next:8000",
			"KBQA_API_URL":        "http://kbqa:9000",
		}, "http://kbqa:9000"},
		{"empty ignored", map[string]string{"KBQA_API_URL": ""}, "https://file.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings, err := NewSettingsService(store).WithEnv(envOf(tt.env)).Get()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, settings.API.URL)
		})
	}
}

func TestSettingsService_Get_InvalidURL(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{KeyAPIURL: "not a url"})

	_, err := NewSettingsService(store).WithEnv(noEnv).Get()

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store).WithEnv(noEnv)

	in := domain.DefaultAppSettings()
	in.API.URL = "http://10.0.0.5:8000"
	in.API.RateLimit = 2
	in.Upload.WatchDebounce = 250 * time.Millisecond
	require.NoError(t, svc.Save(&in))

	out, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}

func TestSettingsService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store).WithEnv(noEnv)

	require.NoError(t, svc.Set(KeyAPIURL, "https://kb.example.com"))
	require.NoError(t, svc.Set(KeyAPIRateLimit, "1.5"))
	require.NoError(t, svc.Set(KeyWatchDebounce, "800"))

	assert.Equal(t, map[string]any{
		KeyAPIURL:        "https://kb.example.com",
		KeyAPIRateLimit:  1.5,
		KeyWatchDebounce: 800,
	}, store.Saved())
	assert.Equal(t, 3, store.Saves())
}

func TestSettingsService_Get_StoredTypes(t *testing.T) {
	tests := []struct {
		name     string
		stored   map[string]any
		rate     float64
		debounce time.Duration
		wantErr  bool
	}{
		{name: "toml integers", stored: map[string]any{KeyAPIRateLimit: int64(2), KeyWatchDebounce: int64(750)}, rate: 2, debounce: 750 * time.Millisecond},
		{name: "go values", stored: map[string]any{KeyAPIRateLimit: 2.5, KeyWatchDebounce: 300}, rate: 2.5, debounce: 300 * time.Millisecond},
		{name: "whole float debounce", stored: map[string]any{KeyWatchDebounce: 750.0}, debounce: 750 * time.Millisecond},
		{name: "fractional debounce", stored: map[string]any{KeyWatchDebounce: 1.5}, wantErr: true},
		{name: "string rate", stored: map[string]any{KeyAPIRateLimit: "fast"}, wantErr: true},
		{name: "bool debounce", stored: map[string]any{KeyWatchDebounce: true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSettingsService(memory.NewConfigStore(tt.stored)).WithEnv(noEnv)

			settings, err := svc.Get()

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.rate, settings.API.RateLimit, 0.0001)
			if tt.debounce != 0 {
				assert.Equal(t, tt.debounce, settings.Upload.WatchDebounce)
			}
		})
	}
}

func TestSettingsService_Get_NonStringURLIgnored(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(map[string]any{KeyAPIURL: int64(42)})).WithEnv(noEnv)

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAPIURL, settings.API.URL)
}

func TestSettingsService_Set_Invalid(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore()).WithEnv(noEnv)

	tests := []struct {
		key   string
		value string
	}{
		{KeyAPIURL, "ftp://x"},
		{KeyAPIRateLimit, "-1"},
		{KeyAPIRateLimit, "fast"},
		{KeyWatchDebounce, "1.5"},
		{"search.mode", "hybrid"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			assert.ErrorIs(t, svc.Set(tt.key, tt.value), domain.ErrInvalidInput)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())
	assert.Equal(t, []string{KeyAPIURL, KeyAPIRateLimit, KeyLogFile, KeyWatchDebounce}, svc.Keys())
}
