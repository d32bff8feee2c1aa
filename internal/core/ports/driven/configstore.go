package driven

// ConfigStore persists settings as flat dot-notation keys such as
// "api.url" or "upload.watch_debounce_ms".
//
// Values come back as whatever type the storage format decoded them to.
// A TOML integer is an int64, a freshly Put value keeps its Go type.
// Coercion belongs to the caller.
type ConfigStore interface {
	// Lookup returns the value stored under key and whether it exists.
	Lookup(key string) (any, bool)

	// Put stages value under key. Nothing is written until Save.
	Put(key string, value any) error

	// Save writes every staged value to storage.
	Save() error

	// Path describes where settings live, for display.
	Path() string
}
