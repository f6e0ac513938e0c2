package qproc

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/qbit-labs/qproc/internal/adapters/auditfile"
	"github.com/qbit-labs/qproc/internal/adapters/sim"
	"github.com/qbit-labs/qproc/internal/dispatch"
	"github.com/qbit-labs/qproc/internal/domain"
	"github.com/qbit-labs/qproc/internal/measure"
	"github.com/qbit-labs/qproc/internal/ports"
	"github.com/qbit-labs/qproc/internal/queue"
	"github.com/qbit-labs/qproc/internal/registry"
	"github.com/qbit-labs/qproc/pkg/log"
)

// Re-exported domain types for callers of the public API.
type (
	// Bit is a single binary readout value.
	Bit = domain.Bit

	// Operation is one recorded gate request.
	Operation = domain.Operation

	// Channel is a snapshot of one channel's calibration state.
	Channel = domain.Channel

	// BitCount holds per-bit outcome counts.
	BitCount = domain.BitCount

	// PhysicalResult is the outcome of a physical measurement.
	PhysicalResult = domain.PhysicalResult

	// LogicalResult is the outcome of a logical group measurement.
	LogicalResult = domain.LogicalResult

	// Outcome reports executed and skipped targets of a dispatch.
	Outcome = dispatch.Outcome

	// AuditEntry is one record of the append-only audit trail.
	AuditEntry = domain.AuditEntry

	// ResultSummary is the measurement outcome attached to audit entries.
	ResultSummary = domain.ResultSummary

	// Action identifies the kind of call an audit entry records.
	Action = domain.Action
)

// Config holds Processor configuration.
type Config struct {
	// Channels is the number of addressable channels.
	Channels int

	// Workers bounds the goroutines used for single-channel fan-out.
	Workers int

	// AuditPath locates the default NDJSON audit sink. Ignored when
	// WithAuditSink is supplied.
	AuditPath string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Channels:  100,
		Workers:   8,
		AuditPath: "qproc-audit.jsonl",
	}
}

// SetDefaults fills zero fields with their defaults.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.Channels == 0 {
		c.Channels = d.Channels
	}
	if c.Workers == 0 {
		c.Workers = d.Workers
	}
	if c.AuditPath == "" {
		c.AuditPath = d.AuditPath
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Channels <= 0 {
		return fmt.Errorf("%w: channels must be positive", domain.ErrInvalidConfig)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", domain.ErrInvalidConfig)
	}
	return nil
}

// Processor is the control-plane core: it owns the registry, queue,
// dispatcher, measurement engine, and audit wiring for one processor.
type Processor struct {
	cfg        Config
	registry   *registry.Registry
	queue      *queue.Queue
	dispatcher *dispatch.Dispatcher
	engine     *measure.Engine
	sink       *countingSink
	logger     log.Logger
	ownSink    bool
}

// New creates a Processor. Unless overridden by options, the backend is the
// built-in simulator and the audit sink is an NDJSON file at cfg.AuditPath.
func New(cfg Config, opts ...Option) (*Processor, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	backend := o.backend
	if backend == nil {
		backend = sim.New(sim.DefaultConfig(), logger)
	}

	rawSink := o.sink
	ownSink := false
	if rawSink == nil {
		fileSink, err := auditfile.New(cfg.AuditPath)
		if err != nil {
			return nil, err
		}
		rawSink = fileSink
		ownSink = true
	}
	sink := &countingSink{sink: rawSink}

	reg, err := registry.New(cfg.Channels, backend, sink, logger)
	if err != nil {
		if ownSink {
			rawSink.Close()
		}
		return nil, err
	}

	return &Processor{
		cfg:        cfg,
		registry:   reg,
		queue:      queue.New(),
		dispatcher: dispatch.New(reg, backend, sink, logger, cfg.Workers),
		engine:     measure.New(reg, backend, sink, logger),
		sink:       sink,
		logger:     logger,
		ownSink:    ownSink,
	}, nil
}

// Calibrate calibrates one channel. Safe to call repeatedly; every call
// re-issues the backend command and writes one audit entry.
func (p *Processor) Calibrate(ctx context.Context, channel int) error {
	return p.registry.Calibrate(ctx, channel)
}

// CalibrateAll calibrates every channel in index order.
func (p *Processor) CalibrateAll(ctx context.Context) error {
	return p.registry.CalibrateAll(ctx)
}

// ApplyGate records a single-channel gate request and dispatches it.
// Invalid channel indices are rejected before the request is recorded;
// uncalibrated targets are counted in the returned Outcome.
func (p *Processor) ApplyGate(ctx context.Context, gate string, channels []int, delay time.Duration) (Outcome, error) {
	for _, ch := range channels {
		if err := p.registry.CheckIndex(ch); err != nil {
			return Outcome{}, err
		}
	}
	op := domain.NewSingleOp(gate, channels, delay)
	p.queue.Enqueue(op)
	return p.dispatcher.Dispatch(ctx, op)
}

// ApplyTwoChannelGate records a two-channel gate request and dispatches it.
// The operation executes only when both channels are calibrated, never
// partially.
func (p *Processor) ApplyTwoChannelGate(ctx context.Context, gate string, a, b int, delay time.Duration) (Outcome, error) {
	if err := p.registry.CheckIndex(a); err != nil {
		return Outcome{}, err
	}
	if err := p.registry.CheckIndex(b); err != nil {
		return Outcome{}, err
	}
	op := domain.NewTwoOp(gate, a, b, delay)
	p.queue.Enqueue(op)
	return p.dispatcher.Dispatch(ctx, op)
}

// Measure performs a physical measurement with redundant reads decoded by
// majority vote. See measure.Engine for the decoding rules.
func (p *Processor) Measure(ctx context.Context, channels []int, shots, repetition int) (PhysicalResult, error) {
	return p.engine.Measure(ctx, channels, shots, repetition)
}

// MeasureLogical measures a channel group as one logical channel.
func (p *Processor) MeasureLogical(ctx context.Context, group []int, shots int) (LogicalResult, error) {
	return p.engine.MeasureLogical(ctx, group, shots)
}

// Queue returns the recorded operation history in enqueue order.
func (p *Processor) Queue() []Operation {
	return p.queue.Snapshot()
}

// Channels returns a snapshot of every channel's calibration state.
func (p *Processor) Channels() []Channel {
	return p.registry.Snapshot()
}

// Size returns the number of channels.
func (p *Processor) Size() int {
	return p.registry.Size()
}

// AuditFailures returns the number of audit appends that failed. Failed
// appends never abort the triggering operation; this counter is how they
// surface.
func (p *Processor) AuditFailures() uint64 {
	return p.sink.failures.Load()
}

// Close releases the audit sink if the Processor owns it.
func (p *Processor) Close() error {
	if p.ownSink {
		return p.sink.sink.Close()
	}
	return nil
}

// countingSink wraps the configured audit sink and counts write failures.
// The error still propagates to the calling component, which logs it and
// carries on: audit failure is surfaced, never fatal.
type countingSink struct {
	sink     ports.AuditSink
	failures atomic.Uint64
}

func (c *countingSink) Append(entry domain.AuditEntry) error {
	if err := c.sink.Append(entry); err != nil {
		c.failures.Add(1)
		return err
	}
	return nil
}

func (c *countingSink) Close() error {
	return c.sink.Close()
}
