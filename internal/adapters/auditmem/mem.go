// Package auditmem provides an in-memory audit sink for tests and embedding.
package auditmem

import (
	"sync"
	"time"

	"github.com/qbit-labs/qproc/internal/domain"
)

// Sink keeps audit entries in memory. Appends serialize on an internal mutex
// and stamp non-decreasing timestamps, matching the durable sinks.
type Sink struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	last    time.Time
}

// New creates an empty in-memory sink.
func New() *Sink {
	return &Sink{}
}

// Append stamps and stores a copy of the entry.
func (s *Sink) Append(entry domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if now.Before(s.last) {
		now = s.last
	}
	s.last = now
	entry.Timestamp = now
	s.entries = append(s.entries, entry)
	return nil
}

// Entries returns a copy of all stored entries in append order.
func (s *Sink) Entries() []domain.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditEntry(nil), s.entries...)
}

// Len returns the number of stored entries.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close is a no-op.
func (s *Sink) Close() error {
	return nil
}
