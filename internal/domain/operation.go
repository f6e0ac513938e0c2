package domain

import (
	"time"

	"github.com/google/uuid"
)

// OpKind distinguishes single-channel from two-channel operations.
type OpKind int

const (
	// OpSingle applies a gate to each target channel independently.
	OpSingle OpKind = iota

	// OpTwo applies a coupling gate to exactly two channels atomically.
	OpTwo
)

// String returns a human-readable representation of the kind.
func (k OpKind) String() string {
	switch k {
	case OpSingle:
		return "single"
	case OpTwo:
		return "two"
	default:
		return "unknown"
	}
}

// Operation is one requested gate application. Operations are immutable once
// enqueued: the queue records every request regardless of whether it executes.
type Operation struct {
	// ID uniquely identifies the request.
	ID uuid.UUID

	// Kind selects single- or two-channel semantics.
	Kind OpKind

	// Gate is the opaque, backend-defined gate label (e.g. "H", "CNOT").
	Gate string

	// Targets lists the target channel indices. Exactly two for OpTwo.
	Targets []int

	// Delay is an optional pre-pulse wait applied before each backend call.
	Delay time.Duration

	// EnqueuedAt is the time the operation was recorded.
	EnqueuedAt time.Time
}

// NewSingleOp builds a single-channel operation targeting the given channels.
// The target slice is copied so callers cannot mutate the operation afterwards.
func NewSingleOp(gate string, targets []int, delay time.Duration) Operation {
	return Operation{
		ID:         uuid.New(),
		Kind:       OpSingle,
		Gate:       gate,
		Targets:    append([]int(nil), targets...),
		Delay:      delay,
		EnqueuedAt: time.Now().UTC(),
	}
}

// NewTwoOp builds a two-channel operation coupling channels a and b.
func NewTwoOp(gate string, a, b int, delay time.Duration) Operation {
	return Operation{
		ID:         uuid.New(),
		Kind:       OpTwo,
		Gate:       gate,
		Targets:    []int{a, b},
		Delay:      delay,
		EnqueuedAt: time.Now().UTC(),
	}
}
