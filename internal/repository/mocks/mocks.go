package mocks

import (
	"context"
	"time"

	"github.com/ganot/fete-till/internal/domain/activity"
	"github.com/ganot/fete-till/internal/domain/catalog"
	"github.com/ganot/fete-till/internal/domain/client"
	"github.com/ganot/fete-till/internal/domain/sale"
	"github.com/ganot/fete-till/internal/domain/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// SessionStore is a mock for session.Store.
type SessionStore struct {
	mock.Mock
}

func (m *SessionStore) GetCurrentSession(ctx context.Context) (*session.Record, error) {
	args := m.Called(ctx)
	if rec, ok := args.Get(0).(*session.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionStore) AppendCashCount(ctx context.Context, kind session.CountKind, count session.CashCount) error {
	args := m.Called(ctx, kind, count)
	return args.Error(0)
}

func (m *SessionStore) NewSession(ctx context.Context, openingTime time.Time, openAmount *decimal.Decimal, jobists []string) (string, error) {
	args := m.Called(ctx, openingTime, openAmount, jobists)
	return args.String(0), args.Error(1)
}

func (m *SessionStore) CloseSession(ctx context.Context, sessionID string, closeAmount *decimal.Decimal, closedAt time.Time) error {
	args := m.Called(ctx, sessionID, closeAmount, closedAt)
	return args.Error(0)
}

func (m *SessionStore) SetCurrentSessionOpening(ctx context.Context, jobists []string, amount *decimal.Decimal) error {
	args := m.Called(ctx, jobists, amount)
	return args.Error(0)
}

func (m *SessionStore) SetCurrentSessionCloseAmount(ctx context.Context, amount *decimal.Decimal) error {
	args := m.Called(ctx, amount)
	return args.Error(0)
}

// CountArchive is a mock for session.CountArchive.
type CountArchive struct {
	mock.Mock
}

func (m *CountArchive) Save(key string, count session.CashCount) error {
	args := m.Called(key, count)
	return args.Error(0)
}

func (m *CountArchive) Load(key string) (*session.CashCount, error) {
	args := m.Called(key)
	if count, ok := args.Get(0).(*session.CashCount); ok {
		return count, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// CatalogRepository is a mock for catalog.Repository.
type CatalogRepository struct {
	mock.Mock
}

func (m *CatalogRepository) Create(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *CatalogRepository) Update(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *CatalogRepository) Get(ctx context.Context, id string) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if item, ok := args.Get(0).(*catalog.Item); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogRepository) List(ctx context.Context) ([]catalog.Item, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]catalog.Item); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CatalogRepository) AssignButton(ctx context.Context, slot int, itemID string) error {
	args := m.Called(ctx, slot, itemID)
	return args.Error(0)
}

func (m *CatalogRepository) ClearButton(ctx context.Context, slot int) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *CatalogRepository) GetButton(ctx context.Context, slot int) (string, error) {
	args := m.Called(ctx, slot)
	return args.String(0), args.Error(1)
}

func (m *CatalogRepository) ListButtons(ctx context.Context) (map[int]string, error) {
	args := m.Called(ctx)
	if buttons, ok := args.Get(0).(map[int]string); ok {
		return buttons, args.Error(1)
	}
	return nil, args.Error(1)
}

// ClientRepository is a mock for client.Repository.
type ClientRepository struct {
	mock.Mock
}

func (m *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ClientRepository) Get(ctx context.Context, name string) (*client.Client, error) {
	args := m.Called(ctx, name)
	if c, ok := args.Get(0).(*client.Client); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) List(ctx context.Context, jobistsOnly bool) ([]client.Client, error) {
	args := m.Called(ctx, jobistsOnly)
	if list, ok := args.Get(0).([]client.Client); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) SetBalance(ctx context.Context, name string, balance decimal.Decimal) error {
	args := m.Called(ctx, name, balance)
	return args.Error(0)
}

// SaleRepository is a mock for sale.Repository.
type SaleRepository struct {
	mock.Mock
}

func (m *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SaleRepository) ListBySession(ctx context.Context, sessionID string) ([]sale.Sale, error) {
	args := m.Called(ctx, sessionID)
	if list, ok := args.Get(0).([]sale.Sale); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
