// Package domain contains the core entities of the qproc control plane.
//
// This is the innermost layer: it has no dependency on the backend driver,
// audit sinks, or logging, and holds only the data shapes and invariants the
// rest of the system is built on.
//
// # Entities
//
//   - [Channel]: calibration state for one addressable channel
//   - [Operation]: one requested gate application, immutable once enqueued
//   - [BitCount]: fixed-shape per-bit outcome counters
//   - [AuditEntry]: an immutable record of one state-changing action
package domain
