// Package auditpebble stores audit entries in an embedded Pebble database.
//
// Entries are keyed by a monotonically increasing append sequence, encoded
// big-endian so iteration order equals append order. The sequence is restored
// from the last stored key on reopen, so the append-only invariant survives
// process restarts.
package auditpebble

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/qbit-labs/qproc/internal/domain"
)

// Sink is a Pebble-backed audit sink.
type Sink struct {
	mu   sync.Mutex
	db   *pebble.DB
	seq  uint64
	last time.Time
}

// Open opens (or creates) the audit store in dir.
func Open(dir string) (*Sink, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open audit store: %w", err)
	}

	s := &Sink{db: db}
	iter, err := db.NewIter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("scan audit store: %w", err)
	}
	if iter.Last() && len(iter.Key()) == 8 {
		s.seq = binary.BigEndian.Uint64(iter.Key())
	}
	if err := iter.Close(); err != nil {
		db.Close()
		return nil, fmt.Errorf("scan audit store: %w", err)
	}
	return s, nil
}

// Append stamps the entry and writes it under the next sequence number with
// a synced write.
func (s *Sink) Append(entry domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if now.Before(s.last) {
		now = s.last
	}
	entry.Timestamp = now

	val, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}

	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, s.seq+1)
	if err := s.db.Set(key, val, pebble.Sync); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	s.seq++
	s.last = now
	return nil
}

// Entries returns every stored entry in append order.
func (s *Sink) Entries() ([]domain.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	iter, err := s.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("scan audit store: %w", err)
	}
	defer iter.Close()

	var out []domain.AuditEntry
	for iter.First(); iter.Valid(); iter.Next() {
		var entry domain.AuditEntry
		if err := json.Unmarshal(iter.Value(), &entry); err != nil {
			return nil, fmt.Errorf("decode audit entry: %w", err)
		}
		out = append(out, entry)
	}
	return out, iter.Error()
}

// Len returns the number of stored entries.
func (s *Sink) Len() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Close closes the underlying database.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
