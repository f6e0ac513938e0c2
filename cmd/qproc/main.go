package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/qbit-labs/qproc/internal/adapters/auditfile"
	"github.com/qbit-labs/qproc/internal/adapters/auditmem"
	"github.com/qbit-labs/qproc/internal/adapters/auditpebble"
	"github.com/qbit-labs/qproc/internal/adapters/sim"
	"github.com/qbit-labs/qproc/internal/cliconfig"
	"github.com/qbit-labs/qproc/internal/ports"
	"github.com/qbit-labs/qproc/pkg/log"
	"github.com/qbit-labs/qproc/pkg/qproc"
)

const longHelp = `
Drive a simulated multi-channel quantum processor through the qproc control
plane: calibrate a block of channels, run a small entangling circuit, and
measure two logical channel groups with repetition decoding. Every
state-changing action lands in the append-only audit log.
`

var exampleUsage = strings.TrimSpace(`
  qproc --channels 100 --shots 25
  qproc --config $HOME/.qproc/config.toml --audit-backend pebble
  qproc --audit /tmp/audit.jsonl --follow-audit --verbose
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:     "qproc",
		Short:   "Run a calibration, circuit, and measurement pass on a simulated quantum processor",
		Long:    strings.TrimSpace(longHelp),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cliconfig.ApplyFileConfig(&cfg, fc, changed)
			}
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			zl := cliconfig.Logger(cfg.Verbose)
			zl.Info().Interface("config", cfg).Msg("configuration")

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				zl.Info().Msg("received signal, stopping...")
				cancel()
			}()

			return run(ctx, cfg, zl)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.qproc/config.toml)")
	root.Flags().IntVar(&cfg.Channels, "channels", cfg.Channels, "number of addressable channels")
	root.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "worker pool size for single-channel fan-out")
	root.Flags().StringVar(&cfg.AuditBackend, "audit-backend", cfg.AuditBackend, "audit sink backend (file, pebble, memory)")
	root.Flags().StringVar(&cfg.AuditPath, "audit", cfg.AuditPath, "audit log path (file) or directory (pebble)")
	root.Flags().IntVar(&cfg.AuditMaxSizeMB, "audit-max-size", cfg.AuditMaxSizeMB, "rotate the audit file above this size in MB (0 = never)")
	root.Flags().IntVar(&cfg.AuditMaxBackups, "audit-max-backups", cfg.AuditMaxBackups, "rotated audit files to keep")
	root.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "simulator readout seed (0 = time-based)")
	root.Flags().IntVar(&cfg.Shots, "shots", cfg.Shots, "measurement shots per logical group")
	root.Flags().IntVar(&cfg.Repetition, "repetition", cfg.Repetition, "redundant reads per channel per shot")
	root.Flags().BoolVar(&cfg.FollowAudit, "follow-audit", cfg.FollowAudit, "tail the audit file and print entries while running")
	root.Flags().BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")

	if err := root.Execute(); err != nil {
		lg := cliconfig.Logger(false)
		lg.Error().Err(err).Msg("qproc")
		os.Exit(1)
	}
}

// newSink builds the audit sink selected by the configuration.
func newSink(cfg cliconfig.Config) (ports.AuditSink, error) {
	switch cfg.AuditBackend {
	case cliconfig.AuditBackendPebble:
		return auditpebble.Open(cfg.AuditPath)
	case cliconfig.AuditBackendMemory:
		return auditmem.New(), nil
	default:
		if cfg.AuditMaxSizeMB > 0 {
			return auditfile.NewRotating(cfg.AuditPath, cfg.AuditMaxSizeMB, cfg.AuditMaxBackups), nil
		}
		return auditfile.New(cfg.AuditPath)
	}
}

// run executes the demo pass: calibrate a block of channels, entangle two
// logical groups, and measure both.
func run(ctx context.Context, cfg cliconfig.Config, zl zerolog.Logger) error {
	if cfg.Channels < 6 {
		return fmt.Errorf("need at least 6 channels for two logical groups, got %d", cfg.Channels)
	}
	logger := log.NewZerologAdapterWithLogger(zl)

	sink, err := newSink(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	backend := sim.New(sim.Config{
		Seed:              cfg.Seed,
		CalibrateLatency:  sim.DefaultConfig().CalibrateLatency,
		PulseLatency:      sim.DefaultConfig().PulseLatency,
		TwoChannelLatency: sim.DefaultConfig().TwoChannelLatency,
	}, logger)

	p, err := qproc.New(
		qproc.Config{Channels: cfg.Channels, Workers: cfg.Workers},
		qproc.WithLogger(logger),
		qproc.WithBackend(backend),
		qproc.WithAuditSink(sink),
	)
	if err != nil {
		return fmt.Errorf("create processor: %w", err)
	}
	defer p.Close()

	var follower *auditfile.Follower
	if cfg.FollowAudit && cfg.AuditBackend == cliconfig.AuditBackendFile {
		follower = auditfile.NewFollower(cfg.AuditPath, logger)
		if err := follower.Start(ctx); err != nil {
			return fmt.Errorf("start audit follower: %w", err)
		}
		go func() {
			for entry := range follower.Entries() {
				zl.Info().
					Str("action", string(entry.Action)).
					Ints("channels", entry.Channels).
					Time("ts", entry.Timestamp).
					Msg("audit")
			}
		}()
		defer follower.Stop()
	}

	// Two logical channels, three physical channels each, plus spares.
	logical0 := []int{0, 1, 2}
	logical1 := []int{3, 4, 5}
	for ch := 0; ch < 9 && ch < cfg.Channels; ch++ {
		if err := p.Calibrate(ctx, ch); err != nil {
			return err
		}
	}

	// Bell pair on the two logical channels' first members.
	circuit := qproc.NewCircuit(p)
	if _, err := circuit.H(ctx, logical0[0]); err != nil {
		return err
	}
	if _, err := circuit.CNOT(ctx, logical0[0], logical1[0]); err != nil {
		return err
	}

	for i, group := range [][]int{logical0, logical1} {
		res, err := p.MeasureLogical(ctx, group, cfg.Shots)
		if err != nil {
			return err
		}
		zl.Info().
			Int("logical_channel", i).
			Ints("group", group).
			Int("zeros", res.Counts.Zeros).
			Int("ones", res.Counts.Ones).
			Msg("logical measurement")
	}

	phys, err := p.Measure(ctx, []int{logical0[0], logical1[0]}, cfg.Shots, cfg.Repetition)
	if err != nil {
		return err
	}
	for ch, counts := range phys.Counts {
		zl.Info().
			Int("channel", ch).
			Int("zeros", counts.Zeros).
			Int("ones", counts.Ones).
			Msg("physical measurement")
	}

	zl.Info().
		Int("operations_recorded", len(p.Queue())).
		Uint64("audit_failures", p.AuditFailures()).
		Msg("done")
	return nil
}
