package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML-friendly types. Bool fields use
// pointers so an absent key is distinguishable from an explicit false.
type FileConfig struct {
	Channels        int    `toml:"channels"`
	Workers         int    `toml:"workers"`
	AuditBackend    string `toml:"audit_backend"`
	AuditPath       string `toml:"audit_path"`
	AuditMaxSizeMB  int    `toml:"audit_max_size_mb"`
	AuditMaxBackups int    `toml:"audit_max_backups"`
	Seed            int64  `toml:"seed"`
	Shots           int    `toml:"shots"`
	Repetition      int    `toml:"repetition"`
	FollowAudit     *bool  `toml:"follow_audit"`
	Verbose         *bool  `toml:"verbose"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.qproc/config.toml when the home directory is
// accessible, and "" otherwise.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".qproc", "config.toml")
	}
	return ""
}

// FileExists checks whether a regular file exists at the given path.
func FileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// ApplyFileConfig applies file values to cfg, skipping flags that were
// explicitly set.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setInt("channels", fc.Channels, &cfg.Channels)
	s.setInt("workers", fc.Workers, &cfg.Workers)
	s.setString("audit-backend", fc.AuditBackend, &cfg.AuditBackend)
	s.setString("audit", fc.AuditPath, &cfg.AuditPath)
	s.setInt("audit-max-size", fc.AuditMaxSizeMB, &cfg.AuditMaxSizeMB)
	s.setInt("audit-max-backups", fc.AuditMaxBackups, &cfg.AuditMaxBackups)
	s.setInt64("seed", fc.Seed, &cfg.Seed)
	s.setInt("shots", fc.Shots, &cfg.Shots)
	s.setInt("repetition", fc.Repetition, &cfg.Repetition)
	s.setBool("follow-audit", fc.FollowAudit, &cfg.FollowAudit)
	s.setBool("verbose", fc.Verbose, &cfg.Verbose)
}
