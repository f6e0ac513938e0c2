package domain

import "errors"

// Domain errors returned by the public API. All are checkable with errors.Is.
var (
	// ErrInvalidChannel is returned when a channel index is outside [0, N).
	// The call is rejected before any backend interaction or queue entry.
	ErrInvalidChannel = errors.New("qproc: channel index out of range")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("qproc: invalid configuration")

	// ErrNoChannels is returned when a measurement names no channels.
	ErrNoChannels = errors.New("qproc: no channels requested")

	// ErrInvalidShots is returned when a shot count is not positive.
	ErrInvalidShots = errors.New("qproc: shots must be positive")

	// ErrInvalidRepetition is returned when a repetition factor is not positive.
	ErrInvalidRepetition = errors.New("qproc: repetition must be positive")

	// ErrInvalidOperation is returned when an operation is malformed, for
	// example a two-channel operation without exactly two targets.
	ErrInvalidOperation = errors.New("qproc: invalid operation")
)
