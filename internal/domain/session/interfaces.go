package session

import (
	"context"
	"time"

	"github.com/ganot/fete-till/internal/domain/activity"
	"github.com/shopspring/decimal"
)

// Store persists sessions and the append-only cash-count log.
// GetCurrentSession returns repository.ErrNotFound when no session is current.
type Store interface {
	GetCurrentSession(ctx context.Context) (*Record, error)
	AppendCashCount(ctx context.Context, kind CountKind, count CashCount) error
	NewSession(ctx context.Context, openingTime time.Time, openAmount *decimal.Decimal, jobists []string) (string, error)
	CloseSession(ctx context.Context, sessionID string, closeAmount *decimal.Decimal, closedAt time.Time) error
	// SetCurrentSessionOpening replaces the jobists and the opening amount
	// together; on error neither is changed.
	SetCurrentSessionOpening(ctx context.Context, jobists []string, amount *decimal.Decimal) error
	SetCurrentSessionCloseAmount(ctx context.Context, amount *decimal.Decimal) error
}

// CountArchive keeps the last count stored under a caller-supplied key.
type CountArchive interface {
	Save(key string, count CashCount) error
	Load(key string) (*CashCount, error)
}

// OrderState reports whether an order is still being rung up.
type OrderState interface {
	Empty() bool
}

// ActivityLogger records lifecycle events.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
