package order

import "context"

// Catalog resolves item ids to names and tier prices.
// Implementations return ErrNotFound for unknown ids.
type Catalog interface {
	LookupItem(ctx context.Context, itemID string) (CatalogItem, error)
}
