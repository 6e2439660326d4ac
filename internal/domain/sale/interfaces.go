package sale

import (
	"context"

	"github.com/ganot/fete-till/internal/domain/activity"
	"github.com/ganot/fete-till/internal/domain/client"
	"github.com/ganot/fete-till/internal/domain/order"
	"github.com/shopspring/decimal"
)

// Repository persists committed sales.
type Repository interface {
	Create(ctx context.Context, s *Sale) error
	ListBySession(ctx context.Context, sessionID string) ([]Sale, error)
}

// Ledger is the order being committed.
type Ledger interface {
	Snapshot() order.Snapshot
	Clear()
}

// Sessions tells which session sales belong to.
type Sessions interface {
	OpenSessionID() (string, error)
}

// Accounts charges sales to client accounts.
type Accounts interface {
	Charge(ctx context.Context, name string, amount decimal.Decimal) (*client.Client, error)
	Deposit(ctx context.Context, name string, amount decimal.Decimal) (*client.Client, error)
}

// ActivityLogger records committed sales.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
