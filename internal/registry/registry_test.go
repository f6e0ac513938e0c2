package registry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/qbit-labs/qproc/internal/adapters/auditmem"
	"github.com/qbit-labs/qproc/internal/domain"
)

type fakeBackend struct {
	mu         sync.Mutex
	calibrated []int
	failWith   error
}

func (f *fakeBackend) Calibrate(ctx context.Context, ch int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.calibrated = append(f.calibrated, ch)
	return nil
}

func (f *fakeBackend) SendPulse(ctx context.Context, ch int, gate string) error {
	return nil
}

func (f *fakeBackend) SendTwoChannelPulse(ctx context.Context, a, b int, gate string) error {
	return nil
}

func (f *fakeBackend) ReadState(ctx context.Context, ch int) (domain.Bit, error) {
	return domain.BitZero, nil
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calibrated)
}

func newTestRegistry(t *testing.T, n int) (*Registry, *fakeBackend, *auditmem.Sink) {
	t.Helper()
	backend := &fakeBackend{}
	sink := auditmem.New()
	reg, err := New(n, backend, sink, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return reg, backend, sink
}

func TestCalibrateInvalidChannel(t *testing.T) {
	reg, backend, sink := newTestRegistry(t, 4)

	for _, ch := range []int{-1, 4, 100} {
		if err := reg.Calibrate(context.Background(), ch); !errors.Is(err, domain.ErrInvalidChannel) {
			t.Errorf("Calibrate(%d) = %v, want ErrInvalidChannel", ch, err)
		}
	}
	if backend.calls() != 0 {
		t.Errorf("backend calls = %d, want 0", backend.calls())
	}
	if sink.Len() != 0 {
		t.Errorf("audit entries = %d, want 0", sink.Len())
	}
}

func TestCalibrateSetsFlagAndAudits(t *testing.T) {
	reg, backend, sink := newTestRegistry(t, 4)

	if err := reg.Calibrate(context.Background(), 2); err != nil {
		t.Fatalf("Calibrate returned error: %v", err)
	}
	if !reg.Calibrated(2) {
		t.Error("channel 2 not marked calibrated")
	}
	if reg.Calibrated(1) {
		t.Error("channel 1 unexpectedly calibrated")
	}
	if backend.calls() != 1 {
		t.Errorf("backend calls = %d, want 1", backend.calls())
	}
	entries := sink.Entries()
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}
	if entries[0].Action != domain.ActionCalibrate {
		t.Errorf("audit action = %q, want %q", entries[0].Action, domain.ActionCalibrate)
	}
	if len(entries[0].Channels) != 1 || entries[0].Channels[0] != 2 {
		t.Errorf("audit channels = %v, want [2]", entries[0].Channels)
	}
}

func TestCalibrateRepeatedReissuesBackendCall(t *testing.T) {
	reg, backend, sink := newTestRegistry(t, 2)

	for i := 0; i < 3; i++ {
		if err := reg.Calibrate(context.Background(), 0); err != nil {
			t.Fatalf("Calibrate #%d returned error: %v", i, err)
		}
	}
	if !reg.Calibrated(0) {
		t.Error("channel 0 not calibrated")
	}
	if backend.calls() != 3 {
		t.Errorf("backend calls = %d, want 3 (not deduplicated)", backend.calls())
	}
	if sink.Len() != 3 {
		t.Errorf("audit entries = %d, want 3", sink.Len())
	}
}

func TestCalibrateBackendFailure(t *testing.T) {
	reg, backend, sink := newTestRegistry(t, 2)
	backend.failWith = errors.New("pulse generator offline")

	err := reg.Calibrate(context.Background(), 1)
	if err == nil {
		t.Fatal("Calibrate succeeded despite backend failure")
	}
	if reg.Calibrated(1) {
		t.Error("channel marked calibrated after backend failure")
	}
	if sink.Len() != 0 {
		t.Errorf("audit entries = %d, want 0 after backend failure", sink.Len())
	}
}

func TestCalibrateAll(t *testing.T) {
	reg, backend, sink := newTestRegistry(t, 5)

	if err := reg.CalibrateAll(context.Background()); err != nil {
		t.Fatalf("CalibrateAll returned error: %v", err)
	}
	for _, ch := range reg.Snapshot() {
		if !ch.Calibrated {
			t.Errorf("channel %d not calibrated", ch.Index)
		}
		if ch.LastAction.IsZero() {
			t.Errorf("channel %d has zero LastAction", ch.Index)
		}
	}
	if backend.calls() != 5 {
		t.Errorf("backend calls = %d, want 5", backend.calls())
	}
	if sink.Len() != 5 {
		t.Errorf("audit entries = %d, want 5", sink.Len())
	}
}

func TestReserveBlocksCalibration(t *testing.T) {
	reg, _, _ := newTestRegistry(t, 2)

	calibrated, release := reg.Reserve(0)
	if calibrated {
		t.Error("fresh channel reported calibrated")
	}

	done := make(chan error, 1)
	go func() {
		done <- reg.Calibrate(context.Background(), 0)
	}()

	time.Sleep(50 * time.Millisecond)
	select {
	case err := <-done:
		t.Fatalf("Calibrate finished while channel was reserved (err=%v)", err)
	default:
	}
	release()
	if err := <-done; err != nil {
		t.Fatalf("Calibrate returned error: %v", err)
	}
	if !reg.Calibrated(0) {
		t.Error("channel not calibrated after release")
	}
}

func TestConcurrentCalibrate(t *testing.T) {
	reg, backend, sink := newTestRegistry(t, 16)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := reg.Calibrate(context.Background(), i); err != nil {
				t.Errorf("Calibrate(%d) returned error: %v", i, err)
			}
		}()
	}
	wg.Wait()

	if backend.calls() != 16 {
		t.Errorf("backend calls = %d, want 16", backend.calls())
	}
	if sink.Len() != 16 {
		t.Errorf("audit entries = %d, want 16", sink.Len())
	}
	for _, ch := range reg.Snapshot() {
		if !ch.Calibrated {
			t.Errorf("channel %d not calibrated", ch.Index)
		}
	}
}

func TestNewRejectsNonPositiveSize(t *testing.T) {
	for _, n := range []int{0, -5} {
		if _, err := New(n, &fakeBackend{}, auditmem.New(), nil); !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("New(%d) = %v, want ErrInvalidConfig", n, err)
		}
	}
}
