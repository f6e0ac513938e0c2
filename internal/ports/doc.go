// Package ports defines the interfaces that connect the control-plane core
// to its external collaborators.
//
// The core packages (registry, dispatch, measure) depend only on these
// interfaces. Adapters under internal/adapters provide the concrete pieces:
// the simulated instrument backend and the audit sinks. This keeps the core
// testable with in-memory fakes and lets deployments swap the instrument
// driver or storage engine without touching dispatch logic.
package ports
