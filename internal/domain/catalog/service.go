package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ganot/fete-till/internal/domain/order"
	"github.com/ganot/fete-till/internal/repository"
)

// Service handles catalog and menu grid operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new catalog service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create adds a new item.
func (s *Service) Create(ctx context.Context, item Item) (*Item, error) {
	item.ID = strings.TrimSpace(item.ID)
	if err := ValidateItem(&item); err != nil {
		return nil, err
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrItemExists
		}
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return &item, nil
}

// Update replaces the name, category and prices of an existing item.
func (s *Service) Update(ctx context.Context, item Item) (*Item, error) {
	if err := ValidateItem(&item); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return s.Get(ctx, item.ID)
}

// Upsert creates the item or updates it when it already exists.
func (s *Service) Upsert(ctx context.Context, item Item) (*Item, error) {
	created, err := s.Create(ctx, item)
	if errors.Is(err, ErrItemExists) {
		return s.Update(ctx, item)
	}
	return created, err
}

// Get returns an item by id.
func (s *Service) Get(ctx context.Context, id string) (*Item, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("loading item: %w", err)
	}
	return item, nil
}

// List returns every item ordered by category and name.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx)
}

// Delete removes an item and any button pointing at it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// LookupItem resolves an item for the order ledger.
func (s *Service) LookupItem(ctx context.Context, itemID string) (order.CatalogItem, error) {
	item, err := s.Get(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return order.CatalogItem{}, fmt.Errorf("%w: %s", order.ErrNotFound, itemID)
		}
		return order.CatalogItem{}, err
	}
	return item.OrderItem(), nil
}

// AssignButton puts an item on a menu slot, replacing whatever was there.
func (s *Service) AssignButton(ctx context.Context, slot int, itemID string) error {
	if !ValidSlot(slot) {
		return ErrInvalidSlot
	}
	if _, err := s.Get(ctx, itemID); err != nil {
		return err
	}
	if err := s.repo.AssignButton(ctx, slot, itemID); err != nil {
		return fmt.Errorf("assigning button: %w", err)
	}
	return nil
}

// ClearButton empties a menu slot.
func (s *Service) ClearButton(ctx context.Context, slot int) error {
	if !ValidSlot(slot) {
		return ErrInvalidSlot
	}
	if err := s.repo.ClearButton(ctx, slot); err != nil {
		return fmt.Errorf("clearing button: %w", err)
	}
	return nil
}

// ButtonItem returns the item id assigned to a slot.
func (s *Service) ButtonItem(ctx context.Context, slot int) (string, error) {
	if !ValidSlot(slot) {
		return "", ErrInvalidSlot
	}
	itemID, err := s.repo.GetButton(ctx, slot)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrEmptySlot
		}
		return "", fmt.Errorf("loading button: %w", err)
	}
	return itemID, nil
}

// Grid returns the assigned buttons in slot order.
func (s *Service) Grid(ctx context.Context) ([]Button, error) {
	assigned, err := s.repo.ListButtons(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing buttons: %w", err)
	}
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	names := make(map[string]string, len(items))
	for _, item := range items {
		names[item.ID] = item.Name
	}

	buttons := make([]Button, 0, len(assigned))
	for slot := 0; slot < Slots; slot++ {
		itemID, ok := assigned[slot]
		if !ok {
			continue
		}
		page, row, col := Position(slot)
		buttons = append(buttons, Button{
			Slot:   slot,
			Page:   page,
			Row:    row,
			Col:    col,
			ItemID: itemID,
			Name:   names[itemID],
		})
	}
	return buttons, nil
}
