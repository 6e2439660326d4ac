package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeSessionOpened      ActivityType = "session_opened"
	TypeSessionClosed      ActivityType = "session_closed"
	TypeStaleSessionClosed ActivityType = "stale_session_closed"
	TypeCountRecorded      ActivityType = "count_recorded"
	TypeSaleCommitted      ActivityType = "sale_committed"
	TypeClientCharged      ActivityType = "client_charged"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	SessionID    *string      `json:"session_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
