package domain

import "time"

// Bit is a single binary readout value.
type Bit uint8

const (
	BitZero Bit = 0
	BitOne  Bit = 1
)

// Channel is the control-plane view of one addressable channel.
// The registry owns the live state; Channel values are snapshots.
type Channel struct {
	// Index is the channel's position, 0 <= Index < N.
	Index int

	// Calibrated reports whether the channel has been calibrated at least once.
	Calibrated bool

	// LastAction is the time of the most recent calibration.
	LastAction time.Time
}
