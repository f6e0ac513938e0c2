package domain

import "fmt"

// BitCount holds per-bit occurrence counts accumulated across shots.
// It replaces the string-keyed result maps of earlier drivers with a fixed
// shape that cannot grow unexpected keys.
type BitCount struct {
	Zeros int `json:"0"`
	Ones  int `json:"1"`
}

// Add records one decoded outcome.
func (c *BitCount) Add(b Bit) {
	if b == BitOne {
		c.Ones++
	} else {
		c.Zeros++
	}
}

// Total returns the number of outcomes recorded.
func (c BitCount) Total() int {
	return c.Zeros + c.Ones
}

// MeasurementRequest describes one measurement call. Requests are ephemeral:
// constructed per call and never stored.
type MeasurementRequest struct {
	// Channels are the physical channels to read. Empty for logical requests.
	Channels []int

	// Group is the logical channel group. Empty for physical requests.
	Group []int

	// Shots is the number of full measurement trials.
	Shots int

	// Repetition is the number of redundant reads per channel per shot.
	// Always 1 for logical requests, where redundancy comes from the group.
	Repetition int
}

// Targets returns the channels this request reads: the group for logical
// requests, the channel set otherwise.
func (r MeasurementRequest) Targets() []int {
	if len(r.Group) > 0 {
		return r.Group
	}
	return r.Channels
}

// Validate checks the request shape. Channel index bounds are the registry's
// concern, not the request's.
func (r MeasurementRequest) Validate() error {
	if len(r.Targets()) == 0 {
		return ErrNoChannels
	}
	if r.Shots <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidShots, r.Shots)
	}
	if r.Repetition <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRepetition, r.Repetition)
	}
	return nil
}

// PhysicalResult is the decoded outcome of a physical measurement request.
type PhysicalResult struct {
	// Counts maps each measured channel to its outcome distribution.
	Counts map[int]BitCount

	// Skipped lists channels that were not read because they were
	// uncalibrated at request time.
	Skipped []int
}

// LogicalResult is the decoded outcome of one logical channel group.
type LogicalResult struct {
	// Counts is the distribution of the group's decoded logical bit.
	Counts BitCount

	// Skipped reports that the whole request was skipped because at least
	// one group member was uncalibrated. No backend reads were issued.
	Skipped bool
}
