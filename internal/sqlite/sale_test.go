package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/ganot/fete-till/internal/domain/client"
	"github.com/ganot/fete-till/internal/domain/order"
	"github.com/ganot/fete-till/internal/domain/sale"
	"github.com/ganot/fete-till/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSaleRepository_CreateList(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	sessionID, err := NewSessionStore(db).NewSession(ctx, time.Now(), nil, nil)
	require.NoError(t, err)
	require.NoError(t, NewClientRepository(db).Create(ctx, &client.Client{Name: "Ann"}))

	repo := NewSaleRepository(db)
	ann := "Ann"
	first := &sale.Sale{
		ID:        "sale-1",
		SessionID: sessionID,
		Lines: []order.Line{
			{ItemID: "blonde", Name: "Blonde", Quantity: 2, UnitPrice: decimal.RequireFromString("3.00"), Tier: order.TierNormal},
			{ItemID: "chips", Name: "Chips", Quantity: 1, UnitPrice: decimal.RequireFromString("1.50"), Tier: order.TierNormal},
		},
		Total: decimal.RequireFromString("7.50"),
	}
	second := &sale.Sale{
		ID:         "sale-2",
		SessionID:  sessionID,
		ClientName: &ann,
		Lines:      []order.Line{{ItemID: "water", Name: "Water", Quantity: 1, UnitPrice: decimal.Zero, Tier: order.TierFree}},
		Total:      decimal.Zero,
	}
	require.NoError(t, repo.Create(ctx, first))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, repo.Create(ctx, second))

	sales, err := repo.ListBySession(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	require.Equal(t, "sale-1", sales[0].ID)
	require.Len(t, sales[0].Lines, 2)
	require.Equal(t, "blonde", sales[0].Lines[0].ItemID)
	require.Equal(t, 2, sales[0].Lines[0].Quantity)
	require.Equal(t, "7.50", sales[0].Total.StringFixed(2))
	require.Nil(t, sales[0].ClientName)
	require.Equal(t, "Ann", *sales[1].ClientName)
	require.Equal(t, order.TierFree, sales[1].Lines[0].Tier)

	empty, err := repo.ListBySession(ctx, "other")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestSaleRepository_UnknownSession(t *testing.T) {
	repo := NewSaleRepository(NewTestDB(t))

	err := repo.Create(context.Background(), &sale.Sale{ID: "x", SessionID: "missing", Total: decimal.Zero})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}
