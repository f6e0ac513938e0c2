package qproc

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownModule is returned when a cluster call names a module ID that was
// never added.
var ErrUnknownModule = errors.New("qproc: unknown module")

// Cluster aggregates independent processor modules behind one routing
// surface. Modules keep their own registries, queues, and audit wiring;
// the cluster only routes calls by module ID.
type Cluster struct {
	mu      sync.RWMutex
	modules []*Processor
}

// NewCluster creates an empty cluster.
func NewCluster() *Cluster {
	return &Cluster{}
}

// AddModule registers a processor and returns its module ID.
func (c *Cluster) AddModule(p *Processor) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modules = append(c.modules, p)
	return len(c.modules) - 1
}

// Module returns the processor registered under id.
func (c *Cluster) Module(id int) (*Processor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if id < 0 || id >= len(c.modules) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownModule, id)
	}
	return c.modules[id], nil
}

// Len returns the number of registered modules.
func (c *Cluster) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.modules)
}

// CalibrateAll calibrates every channel of every module, stopping at the
// first failure.
func (c *Cluster) CalibrateAll(ctx context.Context) error {
	c.mu.RLock()
	modules := append([]*Processor(nil), c.modules...)
	c.mu.RUnlock()

	for id, m := range modules {
		if err := m.CalibrateAll(ctx); err != nil {
			return fmt.Errorf("module %d: %w", id, err)
		}
	}
	return nil
}

// ApplyGate routes a single-channel gate to one module.
func (c *Cluster) ApplyGate(ctx context.Context, moduleID int, gate string, channel int) (Outcome, error) {
	m, err := c.Module(moduleID)
	if err != nil {
		return Outcome{}, err
	}
	return m.ApplyGate(ctx, gate, []int{channel}, 0)
}

// ApplyTwoChannelGate routes a coupling gate to one module. Cross-module
// coupling is not supported: the members of a pair must share hardware.
func (c *Cluster) ApplyTwoChannelGate(ctx context.Context, moduleID int, gate string, a, b int) (Outcome, error) {
	m, err := c.Module(moduleID)
	if err != nil {
		return Outcome{}, err
	}
	return m.ApplyTwoChannelGate(ctx, gate, a, b, 0)
}

// MeasureLogical routes a logical group measurement to one module.
func (c *Cluster) MeasureLogical(ctx context.Context, moduleID int, group []int, shots int) (LogicalResult, error) {
	m, err := c.Module(moduleID)
	if err != nil {
		return LogicalResult{}, err
	}
	return m.MeasureLogical(ctx, group, shots)
}
