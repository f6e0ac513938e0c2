// Package cliconfig holds the CLI's configuration with file, environment,
// and flag precedence: a value from the config file is overridden by a
// QPROC_* environment variable, which is overridden by an explicitly set
// flag.
package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/qbit-labs/qproc/internal/domain"
)

// Audit backend identifiers accepted by --audit-backend.
const (
	AuditBackendFile   = "file"
	AuditBackendPebble = "pebble"
	AuditBackendMemory = "memory"
)

// Config holds CLI configuration for qproc.
type Config struct {
	Channels int
	Workers  int

	AuditBackend    string
	AuditPath       string
	AuditMaxSizeMB  int
	AuditMaxBackups int

	Seed       int64
	Shots      int
	Repetition int

	FollowAudit bool
	Verbose     bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Channels:     100,
		Workers:      8,
		AuditBackend: AuditBackendFile,
		Shots:        10,
		Repetition:   3,
	}
}

// Validate checks the configuration and sets derived defaults.
func (c *Config) Validate() error {
	if c.Channels <= 0 {
		return fmt.Errorf("%w: channels must be positive", domain.ErrInvalidConfig)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", domain.ErrInvalidConfig)
	}
	if c.Shots <= 0 {
		return fmt.Errorf("%w: shots must be positive", domain.ErrInvalidConfig)
	}
	if c.Repetition <= 0 {
		return fmt.Errorf("%w: repetition must be positive", domain.ErrInvalidConfig)
	}

	switch c.AuditBackend {
	case AuditBackendFile:
		if c.AuditPath == "" {
			c.AuditPath = "qproc-audit.jsonl"
		}
	case AuditBackendPebble:
		if c.AuditPath == "" {
			c.AuditPath = "qproc-audit.db"
		}
	case AuditBackendMemory:
		// No path needed.
	default:
		return fmt.Errorf("%w: unknown audit backend %q", domain.ErrInvalidConfig, c.AuditBackend)
	}
	return nil
}

// Logger returns the CLI's console logger.
func Logger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// configSetter applies configuration values while respecting flag precedence:
// a value is skipped when the corresponding flag was explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt64(flag string, value int64, dst *int64) {
	if value == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

func (s *configSetter) setInt64FromString(flag, value string, dst *int64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
