package env

import (
	"sync"
)

// Store holds the run-scoped environment variables shared across steps.
// It is seeded from the environment file at run start and updated in place
// by each step's set_env extraction rules.
type Store struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewStore creates an empty environment store.
func NewStore() *Store {
	return &Store{
		vars: make(map[string]string),
	}
}

// FromMap creates a store pre-populated with the given variables.
func FromMap(seed map[string]string) *Store {
	s := NewStore()
	s.MergeMap(seed)
	return s
}

// Set stores a variable.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[key] = value
}

// Get retrieves a variable. An absent key yields an empty string, never an
// error, so chaining cannot abort a run on a missing upstream field.
func (s *Store) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vars[key]
}

// Lookup retrieves a variable and reports whether it was present.
func (s *Store) Lookup(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.vars[key]
	return val, ok
}

// GetAll returns a copy of all variables, suitable for substitution passes.
func (s *Store) GetAll() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make(map[string]string, len(s.vars))
	for k, v := range s.vars {
		copied[k] = v
	}
	return copied
}

// MergeMap adds all key-value pairs from the given map to the store,
// overwriting existing keys.
func (s *Store) MergeMap(newVars map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range newVars {
		s.vars[key] = value
	}
}

// Len returns the number of variables currently stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vars)
}
