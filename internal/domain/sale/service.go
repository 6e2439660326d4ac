package sale

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ganot/fete-till/internal/domain/activity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service commits the current order as a sale.
type Service struct {
	repo       Repository
	ledger     Ledger
	sessions   Sessions
	accounts   Accounts
	activities ActivityLogger
	logger     *slog.Logger
}

// NewService creates a new sale service. accounts and activities may be nil.
func NewService(
	repo Repository,
	ledger Ledger,
	sessions Sessions,
	accounts Accounts,
	activities ActivityLogger,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		ledger:     ledger,
		sessions:   sessions,
		accounts:   accounts,
		activities: activities,
		logger:     logger,
	}
}

// CommitRequest qualifies a commit. ClientName charges the total to an account.
type CommitRequest struct {
	ClientName string
}

// Commit persists the current order against the open session and clears it.
func (s *Service) Commit(ctx context.Context, req CommitRequest) (*Sale, error) {
	sessionID, err := s.sessions.OpenSessionID()
	if err != nil {
		return nil, err
	}

	snap := s.ledger.Snapshot()
	if len(snap.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	sale := &Sale{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Lines:     snap.Lines,
		Total:     snap.Total,
		CreatedAt: time.Now(),
	}

	clientName := strings.TrimSpace(req.ClientName)
	if clientName != "" {
		if s.accounts == nil {
			return nil, fmt.Errorf("charging %s: no account service", clientName)
		}
		if _, err := s.accounts.Charge(ctx, clientName, sale.Total); err != nil {
			return nil, err
		}
		sale.ClientName = &clientName
	}

	if err := s.repo.Create(ctx, sale); err != nil {
		if sale.ClientName != nil && sale.Total.IsPositive() {
			if _, refundErr := s.accounts.Deposit(ctx, clientName, sale.Total); refundErr != nil && s.logger != nil {
				s.logger.Error("refund after failed sale", "client", clientName, "error", refundErr)
			}
		}
		return nil, fmt.Errorf("creating sale: %w", err)
	}

	s.ledger.Clear()
	if s.logger != nil {
		s.logger.Info("sale committed", "sale_id", sale.ID, "total", sale.Total.StringFixed(2), "lines", len(sale.Lines))
	}
	if s.activities != nil {
		_ = s.activities.LogActivity(ctx, &activity.ActivityEntry{
			SessionID:    &sessionID,
			ActivityType: activity.TypeSaleCommitted,
			Summary:      fmt.Sprintf("sale %s of %s", sale.ID, sale.Total.StringFixed(2)),
		})
		if sale.ClientName != nil {
			_ = s.activities.LogActivity(ctx, &activity.ActivityEntry{
				SessionID:    &sessionID,
				ActivityType: activity.TypeClientCharged,
				Summary:      fmt.Sprintf("%s charged %s", clientName, sale.Total.StringFixed(2)),
			})
		}
	}
	return sale, nil
}

// List returns the sales of a session in commit order.
func (s *Service) List(ctx context.Context, sessionID string) ([]Sale, error) {
	return s.repo.ListBySession(ctx, sessionID)
}

// SessionTotal sums the sales of a session.
func (s *Service) SessionTotal(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	sales, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listing sales: %w", err)
	}
	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(sale.Total)
	}
	return total, nil
}
