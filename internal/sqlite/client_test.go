package sqlite

import (
	"context"
	"testing"

	"github.com/ganot/fete-till/internal/domain/client"
	"github.com/ganot/fete-till/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestClientRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepository(NewTestDB(t))

	c := &client.Client{
		Name:     "Ann",
		Phone:    "0102",
		Limit:    decimal.NewFromInt(-10),
		IsJobist: true,
		Balance:  decimal.RequireFromString("4.50"),
	}
	require.NoError(t, repo.Create(ctx, c))
	require.ErrorIs(t, repo.Create(ctx, c), repository.ErrConflict)

	loaded, err := repo.Get(ctx, "Ann")
	require.NoError(t, err)
	require.Equal(t, "0102", loaded.Phone)
	require.True(t, loaded.IsJobist)
	require.True(t, loaded.Limit.Equal(decimal.NewFromInt(-10)))
	require.Equal(t, "4.50", loaded.Balance.StringFixed(2))

	_, err = repo.Get(ctx, "Bob")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestClientRepository_ListAndBalance(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepository(NewTestDB(t))
	require.NoError(t, repo.Create(ctx, &client.Client{Name: "Cid"}))
	require.NoError(t, repo.Create(ctx, &client.Client{Name: "Ann", IsJobist: true}))

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Ann", all[0].Name)

	jobists, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, jobists, 1)

	require.NoError(t, repo.SetBalance(ctx, "Cid", decimal.RequireFromString("-7.25")))
	loaded, err := repo.Get(ctx, "Cid")
	require.NoError(t, err)
	require.Equal(t, "-7.25", loaded.Balance.StringFixed(2))

	require.ErrorIs(t, repo.SetBalance(ctx, "Nobody", decimal.Zero), repository.ErrNotFound)
}

func TestClientService_ChargeAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	svc := client.NewService(NewClientRepository(NewTestDB(t)), nil)
	_, err := svc.Create(ctx, client.CreateRequest{Name: "Ann", Limit: decimal.NewFromInt(-10)})
	require.NoError(t, err)

	_, err = svc.Charge(ctx, "Ann", decimal.NewFromInt(8))
	require.NoError(t, err)
	_, err = svc.Charge(ctx, "Ann", decimal.NewFromInt(3))
	require.ErrorIs(t, err, client.ErrLimitExceeded)

	c, err := svc.Get(ctx, "Ann")
	require.NoError(t, err)
	require.Equal(t, "-8.00", c.Balance.StringFixed(2))
}
