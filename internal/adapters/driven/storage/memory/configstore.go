package memory

import (
	"maps"
	"sync"

	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a map. Put values become visible to
// Lookup at once and Save only records a snapshot of what was written.
type ConfigStore struct {
	mu     sync.RWMutex
	staged map[string]any
	saved  map[string]any
	saves  int
}

// NewConfigStore returns an empty store. seed, if given, is copied in as
// already-saved values.
func NewConfigStore(seed ...map[string]any) *ConfigStore {
	s := &ConfigStore{staged: map[string]any{}, saved: map[string]any{}}
	for _, m := range seed {
		maps.Copy(s.staged, m)
		maps.Copy(s.saved, m)
	}
	return s
}

func (s *ConfigStore) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.staged[key]
	return v, ok
}

func (s *ConfigStore) Put(key string, value any) error {
	s.mu.Lock()
	s.staged[key] = value
	s.mu.Unlock()
	return nil
}

func (s *ConfigStore) Save() error {
	s.mu.Lock()
	s.saved = maps.Clone(s.staged)
	s.saves++
	s.mu.Unlock()
	return nil
}

func (s *ConfigStore) Path() string { return "memory" }

// Saved returns a copy of the values as of the last Save.
func (s *ConfigStore) Saved() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.saved)
}

// Saves counts calls to Save.
func (s *ConfigStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
