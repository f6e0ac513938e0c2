package cliconfig

import "os"

// ApplyEnvConfig applies QPROC_* environment variables to cfg. Environment
// values override the config file but lose to explicitly set flags.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if err := s.setIntFromString("channels", os.Getenv("QPROC_CHANNELS"), &cfg.Channels); err != nil {
		return err
	}
	if err := s.setIntFromString("workers", os.Getenv("QPROC_WORKERS"), &cfg.Workers); err != nil {
		return err
	}
	s.setString("audit-backend", os.Getenv("QPROC_AUDIT_BACKEND"), &cfg.AuditBackend)
	s.setString("audit", os.Getenv("QPROC_AUDIT_PATH"), &cfg.AuditPath)
	if err := s.setIntFromString("audit-max-size", os.Getenv("QPROC_AUDIT_MAX_SIZE_MB"), &cfg.AuditMaxSizeMB); err != nil {
		return err
	}
	if err := s.setIntFromString("audit-max-backups", os.Getenv("QPROC_AUDIT_MAX_BACKUPS"), &cfg.AuditMaxBackups); err != nil {
		return err
	}
	if err := s.setInt64FromString("seed", os.Getenv("QPROC_SEED"), &cfg.Seed); err != nil {
		return err
	}
	if err := s.setIntFromString("shots", os.Getenv("QPROC_SHOTS"), &cfg.Shots); err != nil {
		return err
	}
	if err := s.setIntFromString("repetition", os.Getenv("QPROC_REPETITION"), &cfg.Repetition); err != nil {
		return err
	}
	s.setBoolFromString("follow-audit", os.Getenv("QPROC_FOLLOW_AUDIT"), &cfg.FollowAudit)
	s.setBoolFromString("verbose", os.Getenv("QPROC_VERBOSE"), &cfg.Verbose)
	return nil
}
