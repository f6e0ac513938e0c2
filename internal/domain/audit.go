package domain

import "time"

// Action identifies the kind of state-changing call an audit entry records.
type Action string

const (
	ActionCalibrate      Action = "calibrate"
	ActionGate           Action = "gate"
	ActionTwoChannelGate Action = "two_channel_gate"
	ActionMeasure        Action = "measure_physical"
	ActionMeasureLogical Action = "measure_logical"
)

// ResultSummary is the measurement outcome attached to measurement entries.
type ResultSummary struct {
	// PerChannel holds physical measurement counts keyed by channel index.
	PerChannel map[int]BitCount `json:"per_channel,omitempty"`

	// Logical holds the decoded counts of a logical group measurement.
	Logical *BitCount `json:"logical,omitempty"`
}

// AuditEntry records one state-changing action. Entries are append-only:
// once a sink accepts an entry it is never rewritten or reordered, and sink
// timestamps are non-decreasing across entries.
//
// Timestamp is stamped by the sink under its append lock; callers leave it
// zero.
type AuditEntry struct {
	Action     Action         `json:"action"`
	Channels   []int          `json:"channels"`
	Gate       string         `json:"gate,omitempty"`
	Shots      int            `json:"shots,omitempty"`
	Repetition int            `json:"repetition,omitempty"`
	Result     *ResultSummary `json:"result,omitempty"`
	Timestamp  time.Time      `json:"ts"`
}
