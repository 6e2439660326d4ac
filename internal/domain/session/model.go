package session

import (
	"time"

	"github.com/shopspring/decimal"
)

// State is the till lifecycle state.
type State string

const (
	StateClosed         State = "closed"
	StateCountingBefore State = "counting_before"
	StateOpen           State = "open"
	StateCountingAfter  State = "counting_after"
)

// CountKind tells which checkpoint a cash count belongs to.
type CountKind string

const (
	CountBefore CountKind = "before"
	CountAfter  CountKind = "after"
)

// ArchiveKey is the key a count of this kind is archived under.
func (k CountKind) ArchiveKey() string {
	return "count/" + string(k)
}

// CashCount is a snapshot of the till taken at a checkpoint.
// A nil CountedAmount means the till was not physically counted.
type CashCount struct {
	Timestamp     time.Time        `json:"timestamp"`
	Jobists       []string         `json:"jobists"`
	CountedAmount *decimal.Decimal `json:"counted_amount,omitempty"`
}

// Record is one operating session of the till.
type Record struct {
	ID          string           `json:"id"`
	OpeningTime time.Time        `json:"opening_time"`
	OpenAmount  *decimal.Decimal `json:"open_amount,omitempty"`
	CloseAmount *decimal.Decimal `json:"close_amount,omitempty"`
	Jobists     []string         `json:"jobists"`
	ClosedAt    *time.Time       `json:"closed_at,omitempty"`
}

// Current reports whether the record has not been finalized.
func (r *Record) Current() bool {
	return r.ClosedAt == nil
}

// Status is a read-only view of the lifecycle.
type Status struct {
	State   State   `json:"state"`
	Session *Record `json:"session,omitempty"`
	// Stale is set while a stale session awaits a force-close or resume decision.
	Stale *Record `json:"stale,omitempty"`
}

// StartupResult tells the orchestrator what to show after Startup.
type StartupResult struct {
	State State
	// Resumed is the session picked up from the store, if any.
	Resumed *Record
	// Stale is non-nil when the operator must decide on an old session.
	Stale *Record
}

// ClosingOptions qualifies a closing count.
type ClosingOptions struct {
	// Terminate reports that the operator also wants to end the program.
	Terminate bool
}

// ClosingResult is returned once the session has been finalized.
type ClosingResult struct {
	Session   Record
	Terminate bool
}
