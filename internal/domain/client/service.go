package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ganot/fete-till/internal/repository"
	"github.com/shopspring/decimal"
)

// Service handles client accounts.
type Service struct {
	repo   Repository
	logger *slog.Logger

	// serializes read-modify-write balance updates
	mu sync.Mutex
}

// NewService creates a new client service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateRequest describes a new account.
type CreateRequest struct {
	Name     string
	Phone    string
	Address  string
	Email    string
	Limit    decimal.Decimal
	IsJobist bool
	Balance  decimal.Decimal
}

// Create opens an account. Limits below MinLimit are raised to it;
// positive limits are rejected.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Limit.IsPositive() {
		return nil, ErrInvalidInput
	}
	limit := req.Limit
	if limit.LessThan(MinLimit) {
		limit = MinLimit
	}

	c := &Client{
		Name:      name,
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		Email:     strings.TrimSpace(req.Email),
		Limit:     limit,
		IsJobist:  req.IsJobist,
		Balance:   req.Balance,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrClientExists
		}
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return c, nil
}

// Get returns an account by name.
func (s *Service) Get(ctx context.Context, name string) (*Client, error) {
	c, err := s.repo.Get(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("loading client: %w", err)
	}
	return c, nil
}

// List returns every account ordered by name.
func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.repo.List(ctx, false)
}

// ListJobists returns the names of accounts flagged as jobists.
func (s *Service) ListJobists(ctx context.Context) ([]string, error) {
	clients, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("listing jobists: %w", err)
	}
	names := make([]string, 0, len(clients))
	for _, c := range clients {
		names = append(names, c.Name)
	}
	return names, nil
}

// Deposit credits a positive amount to the account.
func (s *Service) Deposit(ctx context.Context, name string, amount decimal.Decimal) (*Client, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidInput
	}
	return s.adjust(ctx, name, amount)
}

// Charge debits the account, refusing to go below its limit.
func (s *Service) Charge(ctx context.Context, name string, amount decimal.Decimal) (*Client, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidInput
	}
	return s.adjust(ctx, name, amount.Neg())
}

func (s *Service) adjust(ctx context.Context, name string, delta decimal.Decimal) (*Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if delta.IsNegative() && !c.CanAfford(delta.Neg()) {
		if s.logger != nil {
			s.logger.Warn("charge refused", "client", name, "balance", c.Balance.StringFixed(2), "amount", delta.Neg().StringFixed(2))
		}
		return nil, ErrLimitExceeded
	}
	c.Balance = c.Balance.Add(delta)
	if err := s.repo.SetBalance(ctx, c.Name, c.Balance); err != nil {
		return nil, fmt.Errorf("updating balance: %w", err)
	}
	return c, nil
}
