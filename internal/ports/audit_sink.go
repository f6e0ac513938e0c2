package ports

import "github.com/qbit-labs/qproc/internal/domain"

// AuditSink is the durable append-only record of state-changing actions.
//
// Append stamps the entry with the sink's clock under its internal lock, so
// concurrent writers serialize and stored timestamps are non-decreasing.
// A failed append is non-fatal to the triggering operation: the hardware
// action already happened and is not rolled back. Callers log and count the
// failure instead of dropping it silently.
type AuditSink interface {
	Append(entry domain.AuditEntry) error
	Close() error
}
