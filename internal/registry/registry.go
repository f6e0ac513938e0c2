// Package registry owns per-channel calibration state.
//
// Each channel carries its own mutex. The registry writes the calibration
// flag under that mutex and hands the same mutex to the dispatcher through
// Reserve/ReservePair, so a flag observed true by a dispatch cannot flip
// mid-dispatch and a channel is never driven by two pulses at once.
package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/qbit-labs/qproc/internal/domain"
	"github.com/qbit-labs/qproc/internal/ports"
	"github.com/qbit-labs/qproc/pkg/log"
)

// channelState is the registry's live record for one channel.
type channelState struct {
	mu         sync.Mutex
	calibrated bool
	lastAction time.Time
}

// Registry tracks calibration state for a fixed set of channels.
type Registry struct {
	channels []channelState
	backend  ports.Backend
	audit    ports.AuditSink
	logger   log.Logger
}

// New creates a registry for n channels, all uncalibrated.
func New(n int, backend ports.Backend, audit ports.AuditSink, logger log.Logger) (*Registry, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: channel count %d", domain.ErrInvalidConfig, n)
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Registry{
		channels: make([]channelState, n),
		backend:  backend,
		audit:    audit,
		logger:   logger,
	}, nil
}

// Size returns the number of channels the registry tracks.
func (r *Registry) Size() int {
	return len(r.channels)
}

// CheckIndex rejects channel indices outside [0, N).
func (r *Registry) CheckIndex(i int) error {
	if i < 0 || i >= len(r.channels) {
		return fmt.Errorf("%w: %d (have %d channels)", domain.ErrInvalidChannel, i, len(r.channels))
	}
	return nil
}

// Calibrate issues a backend calibration for channel i and marks it
// calibrated. It may be called repeatedly; every call reaches the backend and
// produces one audit entry. On backend failure the flag is left untouched and
// no audit entry is written.
func (r *Registry) Calibrate(ctx context.Context, i int) error {
	if err := r.CheckIndex(i); err != nil {
		return err
	}

	cs := &r.channels[i]
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := r.backend.Calibrate(ctx, i); err != nil {
		return fmt.Errorf("calibrate channel %d: %w", i, err)
	}
	cs.calibrated = true
	cs.lastAction = time.Now().UTC()

	if err := r.audit.Append(domain.AuditEntry{
		Action:   domain.ActionCalibrate,
		Channels: []int{i},
	}); err != nil {
		r.logger.Error("audit append failed", log.Err(err), log.Int("channel", i))
	}
	return nil
}

// CalibrateAll calibrates every channel in index order, stopping at the first
// backend failure.
func (r *Registry) CalibrateAll(ctx context.Context) error {
	for i := range r.channels {
		if err := r.Calibrate(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// Calibrated reports channel i's flag. The flag is read under the channel
// lock; callers gating a dispatch must use Reserve instead so the flag cannot
// change between the check and the backend call.
func (r *Registry) Calibrated(i int) bool {
	cs := &r.channels[i]
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.calibrated
}

// Reserve locks channel i for exclusive dispatch and reports its calibration
// flag. The returned release function must be called when the dispatch ends.
func (r *Registry) Reserve(i int) (bool, func()) {
	cs := &r.channels[i]
	cs.mu.Lock()
	return cs.calibrated, cs.mu.Unlock
}

// ReservePair locks channels a and b in ascending index order and reports
// whether both are calibrated. Lock ordering prevents deadlock between
// concurrent two-channel dispatches with swapped arguments.
func (r *Registry) ReservePair(a, b int) (bool, func()) {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	r.channels[lo].mu.Lock()
	if hi != lo {
		r.channels[hi].mu.Lock()
	}
	both := r.channels[a].calibrated && r.channels[b].calibrated
	return both, func() {
		if hi != lo {
			r.channels[hi].mu.Unlock()
		}
		r.channels[lo].mu.Unlock()
	}
}

// Snapshot returns a copy of every channel's state.
func (r *Registry) Snapshot() []domain.Channel {
	out := make([]domain.Channel, len(r.channels))
	for i := range r.channels {
		cs := &r.channels[i]
		cs.mu.Lock()
		out[i] = domain.Channel{Index: i, Calibrated: cs.calibrated, LastAction: cs.lastAction}
		cs.mu.Unlock()
	}
	return out
}
