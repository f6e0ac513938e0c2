// Package dispatch executes operations against the backend.
//
// Single-channel operations fan out across distinct channels on a bounded
// worker pool. Two-channel operations run synchronously under both channel
// locks so they never race with single-channel dispatch on either member.
// Dispatch itself is synchronous: it returns after the whole fan-out
// completes, which keeps per-channel execution order equal to enqueue order.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/qbit-labs/qproc/internal/domain"
	"github.com/qbit-labs/qproc/internal/ports"
	"github.com/qbit-labs/qproc/internal/registry"
	"github.com/qbit-labs/qproc/pkg/log"
)

// Outcome reports what a dispatch actually did. Skipped counts targets that
// were uncalibrated at dispatch time: not an error, but never silent.
type Outcome struct {
	// Executed is the number of backend pulses issued.
	Executed int

	// Skipped is the number of targets (or whole two-channel operations)
	// passed over because a required channel was uncalibrated.
	Skipped int
}

// Dispatcher consumes operations, enforces calibration preconditions, and
// issues backend pulse calls.
type Dispatcher struct {
	registry *registry.Registry
	backend  ports.Backend
	audit    ports.AuditSink
	logger   log.Logger
	pool     *pool
}

// New creates a dispatcher running single-channel fan-out on at most workers
// goroutines.
func New(reg *registry.Registry, backend ports.Backend, audit ports.AuditSink, logger log.Logger, workers int) *Dispatcher {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Dispatcher{
		registry: reg,
		backend:  backend,
		audit:    audit,
		logger:   logger,
		pool:     newPool(workers),
	}
}

// Dispatch executes op. All target indices are validated before any side
// effect. The returned Outcome reports executed and skipped targets; err is
// the first backend or context failure observed.
func (d *Dispatcher) Dispatch(ctx context.Context, op domain.Operation) (Outcome, error) {
	for _, t := range op.Targets {
		if err := d.registry.CheckIndex(t); err != nil {
			return Outcome{}, err
		}
	}

	switch op.Kind {
	case domain.OpSingle:
		return d.dispatchSingle(ctx, op)
	case domain.OpTwo:
		if len(op.Targets) != 2 {
			return Outcome{}, fmt.Errorf("%w: two-channel operation with %d targets", domain.ErrInvalidOperation, len(op.Targets))
		}
		return d.dispatchTwo(ctx, op)
	default:
		return Outcome{}, fmt.Errorf("%w: unknown kind %d", domain.ErrInvalidOperation, op.Kind)
	}
}

// dispatchSingle fans the operation out across its targets. Per-channel
// mutual exclusion comes from the registry's channel locks, so duplicate
// targets serialize instead of racing.
func (d *Dispatcher) dispatchSingle(ctx context.Context, op domain.Operation) (Outcome, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		out      Outcome
		firstErr error
	)

	for _, target := range op.Targets {
		target := target
		d.pool.run(&wg, func() {
			executed, err := d.pulse(ctx, op, target)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				if firstErr == nil {
					firstErr = err
				}
			case executed:
				out.Executed++
			default:
				out.Skipped++
			}
		})
	}
	wg.Wait()

	return out, firstErr
}

// pulse applies op's gate to one channel. It reports whether a backend pulse
// was issued; an uncalibrated channel yields (false, nil).
func (d *Dispatcher) pulse(ctx context.Context, op domain.Operation, channel int) (bool, error) {
	calibrated, release := d.registry.Reserve(channel)
	defer release()

	if !calibrated {
		d.logger.Debug("skipping uncalibrated channel",
			log.Int("channel", channel),
			log.String("gate", op.Gate),
		)
		return false, nil
	}

	if err := wait(ctx, op.Delay); err != nil {
		return false, err
	}

	if err := d.backend.SendPulse(ctx, channel, op.Gate); err != nil {
		return false, fmt.Errorf("pulse %s on channel %d: %w", op.Gate, channel, err)
	}

	d.appendAudit(domain.AuditEntry{
		Action:   domain.ActionGate,
		Channels: []int{channel},
		Gate:     op.Gate,
	})
	return true, nil
}

// dispatchTwo runs a coupling gate under both channel locks. If either member
// is uncalibrated the whole operation is skipped, never partially applied.
func (d *Dispatcher) dispatchTwo(ctx context.Context, op domain.Operation) (Outcome, error) {
	a, b := op.Targets[0], op.Targets[1]

	both, release := d.registry.ReservePair(a, b)
	defer release()

	if !both {
		d.logger.Debug("skipping two-channel gate on uncalibrated pair",
			log.Ints("channels", op.Targets),
			log.String("gate", op.Gate),
		)
		return Outcome{Skipped: 1}, nil
	}

	if err := wait(ctx, op.Delay); err != nil {
		return Outcome{}, err
	}

	if err := d.backend.SendTwoChannelPulse(ctx, a, b, op.Gate); err != nil {
		return Outcome{}, fmt.Errorf("two-channel pulse %s on channels %d,%d: %w", op.Gate, a, b, err)
	}

	d.appendAudit(domain.AuditEntry{
		Action:   domain.ActionTwoChannelGate,
		Channels: []int{a, b},
		Gate:     op.Gate,
	})
	return Outcome{Executed: 1}, nil
}

func (d *Dispatcher) appendAudit(entry domain.AuditEntry) {
	if err := d.audit.Append(entry); err != nil {
		d.logger.Error("audit append failed",
			log.Err(err),
			log.String("action", string(entry.Action)),
			log.Ints("channels", entry.Channels),
		)
	}
}

// wait blocks for the operation's pre-pulse delay, honoring ctx cancellation.
func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
