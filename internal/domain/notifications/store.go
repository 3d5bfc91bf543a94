// Package notifications keeps the per-session log of generated events and
// its read-state bookkeeping.
package notifications

import "sync"

// DefaultCap bounds the log so long-running sessions do not grow it without
// limit; the oldest entries are pruned first.
const DefaultCap = 200

// Store is an ordered in-memory event log, newest first. Safe for concurrent
// use by the sync engine and the HTTP handlers.
type Store struct {
	mu     sync.RWMutex
	events []Event
	cap    int
}

// NewStore creates a store holding at most capacity events. A non-positive
// capacity falls back to DefaultCap.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &Store{cap: capacity}
}

// Add prepends events so the newest entries come first, then prunes the
// oldest entries beyond the store's capacity.
func (s *Store) Add(events ...Event) {
	if len(events) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(append([]Event{}, events...), s.events...)
	if len(s.events) > s.cap {
		s.events = s.events[:s.cap]
	}
}

// List returns a copy of the log, newest first.
func (s *Store) List() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// MarkRead flags one event as read and reports whether the id was found.
func (s *Store) MarkRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events[i].Read = true
			return true
		}
	}
	return false
}

// MarkAllRead flags every event as read.
func (s *Store) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		s.events[i].Read = true
	}
}

// Clear empties the log.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

// UnreadCount reports how many events have not been marked read.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for i := range s.events {
		if !s.events[i].Read {
			count++
		}
	}
	return count
}
