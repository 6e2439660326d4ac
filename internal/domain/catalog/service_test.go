package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ganot/fete-till/internal/domain/catalog"
	"github.com/ganot/fete-till/internal/domain/order"
	"github.com/ganot/fete-till/internal/repository"
	"github.com/ganot/fete-till/internal/repository/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func beer() catalog.Item {
	return catalog.Item{
		ID:       "blonde",
		Name:     "Blonde 25cl",
		Category: "Beers",
		Prices: map[order.PriceTier]decimal.Decimal{
			order.TierNormal:  decimal.RequireFromString("3.00"),
			order.TierReduced: decimal.RequireFromString("2.50"),
		},
	}
}

func TestCatalogService_Create(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CatalogRepository{}
	repo.On("Create", ctx, mock.AnythingOfType("*catalog.Item")).Return(nil)

	svc := catalog.NewService(repo, nil)
	item, err := svc.Create(ctx, beer())
	require.NoError(t, err)
	require.Equal(t, "blonde", item.ID)
	require.False(t, item.CreatedAt.IsZero())
	repo.AssertExpectations(t)
}

func TestCatalogService_CreateValidation(t *testing.T) {
	svc := catalog.NewService(&mocks.CatalogRepository{}, nil)
	ctx := context.Background()

	noName := beer()
	noName.Name = " "
	_, err := svc.Create(ctx, noName)
	require.ErrorIs(t, err, catalog.ErrInvalidInput)

	noNormal := beer()
	delete(noNormal.Prices, order.TierNormal)
	_, err = svc.Create(ctx, noNormal)
	require.ErrorIs(t, err, catalog.ErrInvalidInput)

	negative := beer()
	negative.Prices[order.TierReduced] = decimal.RequireFromString("-1")
	_, err = svc.Create(ctx, negative)
	require.ErrorIs(t, err, catalog.ErrInvalidInput)
}

func TestCatalogService_CreateConflict(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CatalogRepository{}
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrConflict)

	_, err := catalog.NewService(repo, nil).Create(ctx, beer())
	require.ErrorIs(t, err, catalog.ErrItemExists)
}

func TestCatalogService_UpsertUpdatesExisting(t *testing.T) {
	ctx := context.Background()
	item := beer()
	repo := &mocks.CatalogRepository{}
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrConflict)
	repo.On("Update", ctx, mock.Anything).Return(nil)
	repo.On("Get", ctx, "blonde").Return(&item, nil)

	got, err := catalog.NewService(repo, nil).Upsert(ctx, item)
	require.NoError(t, err)
	require.Equal(t, "Blonde 25cl", got.Name)
	repo.AssertExpectations(t)
}

func TestCatalogService_LookupItem(t *testing.T) {
	ctx := context.Background()
	item := beer()
	repo := &mocks.CatalogRepository{}
	repo.On("Get", ctx, "blonde").Return(&item, nil)
	repo.On("Get", ctx, "ghost").Return(nil, repository.ErrNotFound)

	svc := catalog.NewService(repo, nil)
	got, err := svc.LookupItem(ctx, "blonde")
	require.NoError(t, err)
	price, err := got.PriceFor(order.TierReduced)
	require.NoError(t, err)
	require.True(t, price.Equal(decimal.RequireFromString("2.50")))

	_, err = svc.LookupItem(ctx, "ghost")
	require.ErrorIs(t, err, order.ErrNotFound)
}

func TestCatalogService_Buttons(t *testing.T) {
	ctx := context.Background()
	item := beer()
	repo := &mocks.CatalogRepository{}
	repo.On("Get", ctx, "blonde").Return(&item, nil)
	repo.On("AssignButton", ctx, 7, "blonde").Return(nil)
	repo.On("GetButton", ctx, 7).Return("blonde", nil)
	repo.On("GetButton", ctx, 8).Return("", repository.ErrNotFound)

	svc := catalog.NewService(repo, nil)
	require.NoError(t, svc.AssignButton(ctx, 7, "blonde"))
	require.ErrorIs(t, svc.AssignButton(ctx, catalog.Slots, "blonde"), catalog.ErrInvalidSlot)

	id, err := svc.ButtonItem(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "blonde", id)

	_, err = svc.ButtonItem(ctx, 8)
	require.ErrorIs(t, err, catalog.ErrEmptySlot)

	_, err = svc.ButtonItem(ctx, -1)
	require.ErrorIs(t, err, catalog.ErrInvalidSlot)
	repo.AssertExpectations(t)
}

func TestCatalogService_Grid(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CatalogRepository{}
	repo.On("ListButtons", ctx).Return(map[int]string{41: "chips", 0: "blonde"}, nil)
	repo.On("List", ctx).Return([]catalog.Item{beer(), {ID: "chips", Name: "Chips"}}, nil)

	grid, err := catalog.NewService(repo, nil).Grid(ctx)
	require.NoError(t, err)
	require.Len(t, grid, 2)
	require.Equal(t, catalog.Button{Slot: 0, ItemID: "blonde", Name: "Blonde 25cl"}, grid[0])
	require.Equal(t, catalog.Button{Slot: 41, Page: 1, Row: 0, Col: 1, ItemID: "chips", Name: "Chips"}, grid[1])
}

func TestCatalogService_GridError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.CatalogRepository{}
	repo.On("ListButtons", ctx).Return(nil, errors.New("boom"))

	_, err := catalog.NewService(repo, nil).Grid(ctx)
	require.Error(t, err)
}

func TestSlotPosition(t *testing.T) {
	require.Equal(t, 160, catalog.Slots)
	for slot := 0; slot < catalog.Slots; slot++ {
		page, row, col := catalog.Position(slot)
		require.Equal(t, slot, catalog.SlotAt(page, row, col))
	}
	page, row, col := catalog.Position(catalog.Slots - 1)
	require.Equal(t, []int{3, 7, 4}, []int{page, row, col})
	require.False(t, catalog.ValidSlot(catalog.Slots))
}
