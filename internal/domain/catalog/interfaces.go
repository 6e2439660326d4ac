package catalog

import "context"

// Repository provides persistence for items and the menu grid.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Get(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context) ([]Item, error)
	Delete(ctx context.Context, id string) error
	AssignButton(ctx context.Context, slot int, itemID string) error
	ClearButton(ctx context.Context, slot int) error
	GetButton(ctx context.Context, slot int) (string, error)
	ListButtons(ctx context.Context) (map[int]string, error)
}
