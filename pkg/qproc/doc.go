// Package qproc is the public control-plane API for driving a multi-channel
// quantum processor.
//
// A Processor ties together the calibration registry, the append-only
// operation queue, the concurrent dispatcher, the measurement engine, and
// the audit sink. Use New with functional options to swap the backend
// driver, audit sink, or logger:
//
//	p, err := qproc.New(qproc.DefaultConfig(),
//	    qproc.WithLogger(logger),
//	    qproc.WithAuditSink(sink),
//	)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	if err := p.Calibrate(ctx, 0); err != nil {
//	    return err
//	}
//	outcome, err := p.ApplyGate(ctx, "H", []int{0}, 0)
//
// Circuit provides gate-level one-liners (H, X, CNOT, ...) over a Processor,
// and Cluster aggregates several independent Processors into one routing
// surface.
package qproc
