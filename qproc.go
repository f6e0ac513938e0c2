// Package qproc re-exports the control-plane API for driving a multi-channel
// quantum processor.
//
// Example usage:
//
//	p, err := qproc.New(qproc.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	ctx := context.Background()
//	if err := p.Calibrate(ctx, 0); err != nil {
//	    log.Fatal(err)
//	}
//	outcome, err := p.ApplyGate(ctx, "H", []int{0}, 0)
//
// See pkg/qproc for the full API, including the circuit builder and the
// multi-module cluster.
package qproc

import pub "github.com/qbit-labs/qproc/pkg/qproc"

// Core types re-exported from pkg/qproc.
type (
	Config         = pub.Config
	Processor      = pub.Processor
	Circuit        = pub.Circuit
	Cluster        = pub.Cluster
	Option         = pub.Option
	Outcome        = pub.Outcome
	PhysicalResult = pub.PhysicalResult
	LogicalResult  = pub.LogicalResult
)

// New creates a Processor with the given configuration and options.
func New(cfg Config, opts ...Option) (*Processor, error) {
	return pub.New(cfg, opts...)
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return pub.DefaultConfig()
}

// NewCircuit creates a gate-level circuit builder driving p.
func NewCircuit(p *Processor) *Circuit {
	return pub.NewCircuit(p)
}

// NewCluster creates an empty multi-module cluster.
func NewCluster() *Cluster {
	return pub.NewCluster()
}
