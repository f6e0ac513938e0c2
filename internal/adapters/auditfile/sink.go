// Package auditfile persists audit entries as newline-delimited JSON.
//
// The file is opened append-only and records are never rewritten or
// reordered. Rotation, when wanted, is delegated to lumberjack; the follower
// in this package tails the stream for external consumers.
package auditfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/qbit-labs/qproc/internal/domain"
)

// Sink writes one JSON line per audit entry. Appends serialize on an internal
// mutex and stamp non-decreasing timestamps.
type Sink struct {
	mu   sync.Mutex
	w    io.WriteCloser
	last time.Time
}

// New opens (or creates) an append-only NDJSON sink at path, creating parent
// directories as needed.
func New(path string) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create audit directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &Sink{w: f}, nil
}

// NewRotating returns a sink whose file is size-rotated by lumberjack.
// Rotated files keep their already-written records untouched.
func NewRotating(path string, maxSizeMB, maxBackups int) *Sink {
	return &Sink{w: &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}}
}

// Append stamps the entry under the append lock and writes one JSON line.
func (s *Sink) Append(entry domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if now.Before(s.last) {
		now = s.last
	}
	s.last = now
	entry.Timestamp = now

	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	if _, err := s.w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	if f, ok := s.w.(*os.File); ok {
		if err := f.Sync(); err != nil {
			return fmt.Errorf("sync audit log: %w", err)
		}
	}
	return nil
}

// Close closes the underlying writer.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Close()
}
