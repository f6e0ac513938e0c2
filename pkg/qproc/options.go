package qproc

import (
	"github.com/qbit-labs/qproc/internal/ports"
	"github.com/qbit-labs/qproc/pkg/log"
)

// Backend is the instrument driver contract consumed by the Processor.
type Backend = ports.Backend

// AuditSink is the durable append-only audit contract.
type AuditSink = ports.AuditSink

// Option configures optional behavior of a Processor.
type Option func(*options)

type options struct {
	logger  log.Logger
	backend ports.Backend
	sink    ports.AuditSink
}

func defaultOptions() options {
	return options{logger: log.NewNoopLogger()}
}

// WithLogger sets the structured logger. The default discards all output.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBackend sets the instrument backend. The default is the built-in
// simulator with a time-based seed.
func WithBackend(backend Backend) Option {
	return func(o *options) {
		o.backend = backend
	}
}

// WithAuditSink sets the audit sink. The default is an NDJSON file sink at
// Config.AuditPath, owned and closed by the Processor.
func WithAuditSink(sink AuditSink) Option {
	return func(o *options) {
		o.sink = sink
	}
}
