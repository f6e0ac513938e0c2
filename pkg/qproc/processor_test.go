package qproc

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qbit-labs/qproc/internal/adapters/auditmem"
	"github.com/qbit-labs/qproc/internal/adapters/sim"
	"github.com/qbit-labs/qproc/internal/domain"
)

func newTestProcessor(t *testing.T, channels int) (*Processor, *auditmem.Sink) {
	t.Helper()
	sink := auditmem.New()
	p, err := New(
		Config{Channels: channels, Workers: 4},
		WithBackend(sim.New(sim.Config{Seed: 1}, nil)),
		WithAuditSink(sink),
	)
	require.NoError(t, err)
	return p, sink
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{Channels: -1, Workers: 4})
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestNewAppliesDefaults(t *testing.T) {
	p, err := New(
		Config{AuditPath: filepath.Join(t.TempDir(), "audit.jsonl")},
		WithBackend(sim.New(sim.Config{Seed: 1}, nil)),
	)
	require.NoError(t, err)
	defer p.Close()
	require.Equal(t, 100, p.Size())
}

func TestApplyGateRecordsAndDispatches(t *testing.T) {
	p, _ := newTestProcessor(t, 4)
	ctx := context.Background()
	require.NoError(t, p.Calibrate(ctx, 0))
	require.NoError(t, p.Calibrate(ctx, 1))

	out, err := p.ApplyGate(ctx, "H", []int{0, 1}, 0)
	require.NoError(t, err)
	require.Equal(t, Outcome{Executed: 2}, out)

	ops := p.Queue()
	require.Len(t, ops, 1)
	require.Equal(t, "H", ops[0].Gate)
	require.Equal(t, []int{0, 1}, ops[0].Targets)
	require.NotEqual(t, "", ops[0].ID.String())
}

func TestApplyGateRecordsSkippedOperations(t *testing.T) {
	p, _ := newTestProcessor(t, 4)
	ctx := context.Background()

	out, err := p.ApplyGate(ctx, "X", []int{0}, 0)
	require.NoError(t, err)
	require.Equal(t, Outcome{Skipped: 1}, out)

	// The request is part of history even though nothing executed.
	require.Len(t, p.Queue(), 1)
}

func TestApplyGateRejectsInvalidChannelBeforeRecording(t *testing.T) {
	p, _ := newTestProcessor(t, 4)

	_, err := p.ApplyGate(context.Background(), "H", []int{0, 9}, 0)
	require.ErrorIs(t, err, domain.ErrInvalidChannel)
	require.Empty(t, p.Queue(), "rejected requests must not enter history")
}

func TestApplyTwoChannelGateRequiresBoth(t *testing.T) {
	p, _ := newTestProcessor(t, 4)
	ctx := context.Background()
	require.NoError(t, p.Calibrate(ctx, 0))

	out, err := p.ApplyTwoChannelGate(ctx, "CNOT", 0, 1, 0)
	require.NoError(t, err)
	require.Equal(t, Outcome{Skipped: 1}, out)

	require.NoError(t, p.Calibrate(ctx, 1))
	out, err = p.ApplyTwoChannelGate(ctx, "CNOT", 0, 1, 0)
	require.NoError(t, err)
	require.Equal(t, Outcome{Executed: 1}, out)
}

func TestAuditEntryPerStateChangingCall(t *testing.T) {
	p, sink := newTestProcessor(t, 4)
	ctx := context.Background()

	// 4 calibrations, 3 executed single pulses, 1 two-channel pulse,
	// 1 physical measurement, 1 logical measurement.
	require.NoError(t, p.CalibrateAll(ctx))

	out, err := p.ApplyGate(ctx, "H", []int{0, 1, 2}, 0)
	require.NoError(t, err)
	require.Equal(t, 3, out.Executed)

	out, err = p.ApplyTwoChannelGate(ctx, "CNOT", 0, 1, 0)
	require.NoError(t, err)
	require.Equal(t, 1, out.Executed)

	_, err = p.Measure(ctx, []int{0, 1}, 2, 3)
	require.NoError(t, err)

	_, err = p.MeasureLogical(ctx, []int{0, 1, 2}, 2)
	require.NoError(t, err)

	require.Equal(t, 4+3+1+1+1, sink.Len())
	require.Zero(t, p.AuditFailures())
}

func TestChannelsSnapshot(t *testing.T) {
	p, _ := newTestProcessor(t, 3)
	ctx := context.Background()
	require.NoError(t, p.Calibrate(ctx, 1))

	chans := p.Channels()
	require.Len(t, chans, 3)
	require.False(t, chans[0].Calibrated)
	require.True(t, chans[1].Calibrated)
	require.False(t, chans[2].Calibrated)
}

type failingSink struct {
	err error
}

func (f *failingSink) Append(domain.AuditEntry) error { return f.err }
func (f *failingSink) Close() error                   { return nil }

func TestAuditFailuresAreCountedNotFatal(t *testing.T) {
	p, err := New(
		Config{Channels: 2, Workers: 2},
		WithBackend(sim.New(sim.Config{Seed: 1}, nil)),
		WithAuditSink(&failingSink{err: errors.New("disk full")}),
	)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, p.Calibrate(ctx, 0), "audit failure must not fail the calibration")

	out, err := p.ApplyGate(ctx, "H", []int{0}, 0)
	require.NoError(t, err, "audit failure must not fail the gate")
	require.Equal(t, Outcome{Executed: 1}, out)

	require.Equal(t, uint64(2), p.AuditFailures())
}

func TestCloseOnlyOwnedSink(t *testing.T) {
	sink := auditmem.New()
	p, err := New(
		Config{Channels: 2, Workers: 2},
		WithBackend(sim.New(sim.Config{Seed: 1}, nil)),
		WithAuditSink(sink),
	)
	require.NoError(t, err)
	require.NoError(t, p.Close())

	// The caller-supplied sink stays usable after Close.
	require.NoError(t, sink.Append(domain.AuditEntry{Action: domain.ActionCalibrate, Channels: []int{0}}))
}
