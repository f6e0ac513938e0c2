package qproc

import "context"

// Circuit provides gate-level convenience wrappers over a Processor. Each
// method records and dispatches one operation with the conventional gate
// label; the returned Outcome reports whether the gate actually ran.
type Circuit struct {
	p *Processor
}

// NewCircuit creates a circuit builder driving p.
func NewCircuit(p *Processor) *Circuit {
	return &Circuit{p: p}
}

// H applies a Hadamard gate.
func (c *Circuit) H(ctx context.Context, channel int) (Outcome, error) {
	return c.p.ApplyGate(ctx, "H", []int{channel}, 0)
}

// X applies a Pauli-X gate.
func (c *Circuit) X(ctx context.Context, channel int) (Outcome, error) {
	return c.p.ApplyGate(ctx, "X", []int{channel}, 0)
}

// Y applies a Pauli-Y gate.
func (c *Circuit) Y(ctx context.Context, channel int) (Outcome, error) {
	return c.p.ApplyGate(ctx, "Y", []int{channel}, 0)
}

// Z applies a Pauli-Z gate.
func (c *Circuit) Z(ctx context.Context, channel int) (Outcome, error) {
	return c.p.ApplyGate(ctx, "Z", []int{channel}, 0)
}

// S applies a phase gate.
func (c *Circuit) S(ctx context.Context, channel int) (Outcome, error) {
	return c.p.ApplyGate(ctx, "S", []int{channel}, 0)
}

// T applies a T gate.
func (c *Circuit) T(ctx context.Context, channel int) (Outcome, error) {
	return c.p.ApplyGate(ctx, "T", []int{channel}, 0)
}

// CNOT applies a controlled-NOT gate between two channels.
func (c *Circuit) CNOT(ctx context.Context, control, target int) (Outcome, error) {
	return c.p.ApplyTwoChannelGate(ctx, "CNOT", control, target, 0)
}

// CZ applies a controlled-Z gate between two channels.
func (c *Circuit) CZ(ctx context.Context, control, target int) (Outcome, error) {
	return c.p.ApplyTwoChannelGate(ctx, "CZ", control, target, 0)
}

// SWAP exchanges the states of two channels.
func (c *Circuit) SWAP(ctx context.Context, a, b int) (Outcome, error) {
	return c.p.ApplyTwoChannelGate(ctx, "SWAP", a, b, 0)
}
