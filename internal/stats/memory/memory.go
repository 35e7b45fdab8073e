// Package memory implements the session-stats store as an in-process map.
// It backs tests and the default standalone configuration where the coach
// process shares the overlay's address space.
package memory

import (
	"sync"

	"github.com/revhud/overlay/pkg/telemetry"
)

// Store holds session stats keyed by session identifier.
type Store struct {
	mu   sync.RWMutex
	data map[string]telemetry.SessionStats
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		data: make(map[string]telemetry.SessionStats),
	}
}

// Fetch returns the stats for key. A missing key yields the zero snapshot,
// not an error.
func (s *Store) Fetch(key string) (telemetry.SessionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key], nil
}

// Put stores the stats for key.
func (s *Store) Put(key string, snap telemetry.SessionStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = snap
}

// Delete removes the stats for key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Close releases nothing; it exists to satisfy the store contract.
func (s *Store) Close() error {
	return nil
}
