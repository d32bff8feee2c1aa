package domain

import (
	"net/url"
	"time"
)

// Default setting values.
const (
	DefaultAPIURL        = "http://localhost:8000"
	DefaultWatchDebounce = 500 * time.Millisecond
)

// APISettings configures the backend origin.
type APISettings struct {
	// URL is the origin every request is sent to.
	URL string

	// RateLimit caps outgoing requests per second. Zero disables throttling.
	RateLimit float64
}

// LogSettings configures the log sink used by long-running surfaces.
type LogSettings struct {
	// File is the rotating log file path. Empty means ~/.kbqa/kbqa.log.
	File string
}

// UploadSettings configures the folder watcher.
type UploadSettings struct {
	// WatchDebounce is how long the watcher waits for a burst of file
	// events to settle before submitting a batch.
	WatchDebounce time.Duration
}

// AppSettings holds all user-configurable settings.
type AppSettings struct {
	API    APISettings
	Log    LogSettings
	Upload UploadSettings
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		API: APISettings{
			URL: DefaultAPIURL,
		},
		Upload: UploadSettings{
			WatchDebounce: DefaultWatchDebounce,
		},
	}
}

// Validate checks the settings are usable.
func (s AppSettings) Validate() error {
	u, err := url.Parse(s.API.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ValidationError{Field: "api.url", Reason: "must be an absolute http(s) URL"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "api.url", Reason: "scheme must be http or https"}
	}
	if s.API.RateLimit < 0 {
		return &ValidationError{Field: "api.rate_limit", Reason: "must not be negative"}
	}
	if s.Upload.WatchDebounce < 0 {
		return &ValidationError{Field: "upload.watch_debounce_ms", Reason: "must not be negative"}
	}
	return nil
}
