package ports

import (
	"context"

	"github.com/qbit-labs/qproc/internal/domain"
)

// Backend is the instrument driver contract. Implementations talk to physical
// hardware or a simulator; all four calls may be slow and blocking.
//
// Errors are propagated to the caller: on a failed call the core does not
// mark the channel calibrated, does not count the pulse as executed, and does
// not record a success audit entry.
type Backend interface {
	// Calibrate issues a calibration command for the channel.
	Calibrate(ctx context.Context, channel int) error

	// SendPulse applies a single-channel gate pulse.
	SendPulse(ctx context.Context, channel int, gate string) error

	// SendTwoChannelPulse applies a coupling gate pulse to two channels.
	SendTwoChannelPulse(ctx context.Context, a, b int, gate string) error

	// ReadState performs one binary readout of the channel.
	ReadState(ctx context.Context, channel int) (domain.Bit, error)
}
