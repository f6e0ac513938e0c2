// Package queue records every requested operation in order.
package queue

import (
	"sync"

	"github.com/qbit-labs/qproc/internal/domain"
)

// Queue is the append-only record of requested operations. It grows on every
// request regardless of whether the operation executes, never reorders, and
// has no removal API: it is the full requested history, distinct from the
// audit log of what actually ran.
type Queue struct {
	mu  sync.Mutex
	ops []domain.Operation
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue appends op unconditionally.
func (q *Queue) Enqueue(op domain.Operation) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ops = append(q.ops, op)
}

// Len returns the number of recorded operations.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ops)
}

// Snapshot returns a copy of the queue in enqueue order for inspection.
func (q *Queue) Snapshot() []domain.Operation {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.Operation(nil), q.ops...)
}
