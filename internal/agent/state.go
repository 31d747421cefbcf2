package agent

import (
	"encoding/json"
	"maps"
	"sync"
)

// State is a concurrency-safe key/value container implementing qa.SessionState.
type State struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewState returns a State seeded with a copy of initial.
func NewState(initial map[string]any) *State {
	values := make(map[string]any, len(initial))
	maps.Copy(values, initial)
	return &State{values: values}
}

// Get implements qa.SessionState.
func (s *State) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set implements qa.SessionState.
func (s *State) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Snapshot returns a shallow copy of the state.
func (s *State) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// MarshalJSON renders the current snapshot.
func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}
