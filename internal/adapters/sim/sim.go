// Package sim provides a simulated instrument backend.
//
// It mimics the timing profile of a real driver with configurable per-call
// latencies and answers readouts from a seeded RNG, so tests can run with
// zero latency and reproducible read sequences.
package sim

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/qbit-labs/qproc/internal/domain"
	"github.com/qbit-labs/qproc/pkg/log"
)

// Config controls the simulator's latencies and randomness.
type Config struct {
	// Seed seeds the readout RNG. Zero picks a time-based seed.
	Seed int64

	// CalibrateLatency is the simulated duration of a calibration command.
	CalibrateLatency time.Duration

	// PulseLatency is the simulated duration of a single-channel pulse.
	PulseLatency time.Duration

	// TwoChannelLatency is the simulated duration of a coupling pulse.
	TwoChannelLatency time.Duration

	// ReadLatency is the simulated duration of one readout.
	ReadLatency time.Duration
}

// DefaultConfig mirrors the timing of the lab driver this simulator replaces.
func DefaultConfig() Config {
	return Config{
		CalibrateLatency:  10 * time.Millisecond,
		PulseLatency:      5 * time.Millisecond,
		TwoChannelLatency: 10 * time.Millisecond,
	}
}

// Backend simulates instrument responses.
type Backend struct {
	cfg    Config
	logger log.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a simulated backend.
func New(cfg Config, logger log.Logger) *Backend {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Backend{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Calibrate simulates a calibration command.
func (b *Backend) Calibrate(ctx context.Context, channel int) error {
	if err := sleep(ctx, b.cfg.CalibrateLatency); err != nil {
		return err
	}
	b.logger.Debug("calibrating channel", log.Int("channel", channel))
	return nil
}

// SendPulse simulates a single-channel gate pulse.
func (b *Backend) SendPulse(ctx context.Context, channel int, gate string) error {
	if err := sleep(ctx, b.cfg.PulseLatency); err != nil {
		return err
	}
	b.logger.Debug("applying gate", log.String("gate", gate), log.Int("channel", channel))
	return nil
}

// SendTwoChannelPulse simulates a coupling gate pulse.
func (b *Backend) SendTwoChannelPulse(ctx context.Context, a, c int, gate string) error {
	if err := sleep(ctx, b.cfg.TwoChannelLatency); err != nil {
		return err
	}
	b.logger.Debug("applying two-channel gate",
		log.String("gate", gate),
		log.Ints("channels", []int{a, c}),
	)
	return nil
}

// ReadState answers one readout from the seeded RNG.
func (b *Backend) ReadState(ctx context.Context, channel int) (domain.Bit, error) {
	if err := sleep(ctx, b.cfg.ReadLatency); err != nil {
		return domain.BitZero, err
	}
	b.mu.Lock()
	bit := domain.Bit(b.rng.Intn(2))
	b.mu.Unlock()
	return bit, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
