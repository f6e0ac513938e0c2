// Package measure performs redundant readout and majority-vote decoding.
//
// Physical measurement reads each calibrated channel `repetition` times per
// shot and decodes each group of reads independently. Logical measurement
// reads every member of a channel group once per shot and decodes the group's
// single logical bit, approximating a distance-len(group) repetition code.
// Neither performs syndrome extraction or multi-round decoding.
package measure

import (
	"context"
	"fmt"

	"github.com/qbit-labs/qproc/internal/domain"
	"github.com/qbit-labs/qproc/internal/ports"
	"github.com/qbit-labs/qproc/internal/registry"
	"github.com/qbit-labs/qproc/pkg/log"
)

// Engine issues backend reads and decodes them.
type Engine struct {
	registry *registry.Registry
	backend  ports.Backend
	audit    ports.AuditSink
	logger   log.Logger
}

// New creates a measurement engine.
func New(reg *registry.Registry, backend ports.Backend, audit ports.AuditSink, logger log.Logger) *Engine {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Engine{registry: reg, backend: backend, audit: audit, logger: logger}
}

// Measure performs shots trials over the given channels, each trial reading
// every calibrated channel `repetition` times and majority-decoding the reads.
// Uncalibrated channels are reported in Skipped and never read. Exactly one
// audit entry is written per request; a backend read failure aborts the
// request without a misleading success entry.
func (e *Engine) Measure(ctx context.Context, channels []int, shots, repetition int) (domain.PhysicalResult, error) {
	req := domain.MeasurementRequest{Channels: channels, Shots: shots, Repetition: repetition}
	if err := e.validate(req); err != nil {
		return domain.PhysicalResult{}, err
	}

	res := domain.PhysicalResult{Counts: make(map[int]domain.BitCount, len(channels))}
	active := make([]int, 0, len(channels))
	for _, ch := range channels {
		if e.registry.Calibrated(ch) {
			active = append(active, ch)
			res.Counts[ch] = domain.BitCount{}
		} else {
			res.Skipped = append(res.Skipped, ch)
		}
	}

	votes := make([]domain.Bit, repetition)
	for s := 0; s < shots; s++ {
		for _, ch := range active {
			for i := range votes {
				bit, err := e.backend.ReadState(ctx, ch)
				if err != nil {
					return domain.PhysicalResult{}, fmt.Errorf("read channel %d: %w", ch, err)
				}
				votes[i] = bit
			}
			counts := res.Counts[ch]
			counts.Add(Majority(votes))
			res.Counts[ch] = counts
		}
	}

	e.appendAudit(domain.AuditEntry{
		Action:     domain.ActionMeasure,
		Channels:   append([]int(nil), channels...),
		Shots:      shots,
		Repetition: repetition,
		Result:     &domain.ResultSummary{PerChannel: copyCounts(res.Counts)},
	})
	return res, nil
}

// MeasureLogical performs shots trials over a channel group, reading each
// member once per trial and majority-decoding the group's votes into one
// logical bit. If any member is uncalibrated the whole request is skipped as
// a unit: no reads, no audit entry, Skipped reported to the caller.
func (e *Engine) MeasureLogical(ctx context.Context, group []int, shots int) (domain.LogicalResult, error) {
	req := domain.MeasurementRequest{Group: group, Shots: shots, Repetition: 1}
	if err := e.validate(req); err != nil {
		return domain.LogicalResult{}, err
	}

	for _, ch := range group {
		if !e.registry.Calibrated(ch) {
			e.logger.Debug("skipping logical measurement on uncalibrated group",
				log.Ints("group", group),
				log.Int("channel", ch),
			)
			return domain.LogicalResult{Skipped: true}, nil
		}
	}

	votes := make([]domain.Bit, len(group))
	var counts domain.BitCount
	for s := 0; s < shots; s++ {
		for i, ch := range group {
			bit, err := e.backend.ReadState(ctx, ch)
			if err != nil {
				return domain.LogicalResult{}, fmt.Errorf("read channel %d: %w", ch, err)
			}
			votes[i] = bit
		}
		counts.Add(Majority(votes))
	}

	logical := counts
	e.appendAudit(domain.AuditEntry{
		Action:   domain.ActionMeasureLogical,
		Channels: append([]int(nil), group...),
		Shots:    shots,
		Result:   &domain.ResultSummary{Logical: &logical},
	})
	return domain.LogicalResult{Counts: counts}, nil
}

// validate checks the request shape and bounds every target index against
// the registry.
func (e *Engine) validate(req domain.MeasurementRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	for _, ch := range req.Targets() {
		if err := e.registry.CheckIndex(ch); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) appendAudit(entry domain.AuditEntry) {
	if err := e.audit.Append(entry); err != nil {
		e.logger.Error("audit append failed",
			log.Err(err),
			log.String("action", string(entry.Action)),
			log.Ints("channels", entry.Channels),
		)
	}
}

func copyCounts(in map[int]domain.BitCount) map[int]domain.BitCount {
	out := make(map[int]domain.BitCount, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
