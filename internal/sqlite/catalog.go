package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ganot/fete-till/internal/domain/catalog"
	"github.com/ganot/fete-till/internal/domain/order"
	"github.com/ganot/fete-till/internal/repository"
	"github.com/shopspring/decimal"
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository for SQLite
type CatalogRepository struct {
	db *DB
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Create inserts an item with its tier prices
func (r *CatalogRepository) Create(ctx context.Context, item *catalog.Item) error {
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO items (id, name, category, created_at) VALUES (?, ?, ?, ?)`,
		item.ID, item.Name, item.Category, createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create item: %w", err)
	}
	if err := insertPrices(ctx, tx, item.ID, item.Prices); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit item: %w", err)
	}

	item.CreatedAt = createdAt
	return nil
}

// Update replaces the name, category and prices of an item
func (r *CatalogRepository) Update(ctx context.Context, item *catalog.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE items SET name = ?, category = ? WHERE id = ?`,
		item.Name, item.Category, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if err := requireRow(result); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM item_prices WHERE item_id = ?`, item.ID); err != nil {
		return fmt.Errorf("failed to clear prices: %w", err)
	}
	if err := insertPrices(ctx, tx, item.ID, item.Prices); err != nil {
		return err
	}

	return tx.Commit()
}

// Get retrieves an item by id
func (r *CatalogRepository) Get(ctx context.Context, id string) (*catalog.Item, error) {
	var item catalog.Item
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, category, created_at FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.Category, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	prices, err := r.loadPrices(ctx, `WHERE item_id = ?`, id)
	if err != nil {
		return nil, err
	}
	item.Prices = prices[id]
	if item.Prices == nil {
		item.Prices = map[order.PriceTier]decimal.Decimal{}
	}

	return &item, nil
}

// List returns all items ordered by category and name
func (r *CatalogRepository) List(ctx context.Context) ([]catalog.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category, created_at FROM items ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	var items []catalog.Item
	for rows.Next() {
		var item catalog.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	rows.Close()

	prices, err := r.loadPrices(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Prices = prices[items[i].ID]
		if items[i].Prices == nil {
			items[i].Prices = map[order.PriceTier]decimal.Decimal{}
		}
	}

	return items, nil
}

// Delete removes an item; its prices and buttons cascade
func (r *CatalogRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return requireRow(result)
}

// AssignButton puts an item on a grid slot
func (r *CatalogRepository) AssignButton(ctx context.Context, slot int, itemID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO menu_buttons (slot, item_id) VALUES (?, ?)
		ON CONFLICT(slot) DO UPDATE SET item_id = excluded.item_id
	`, slot, itemID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to assign button: %w", err)
	}
	return nil
}

// ClearButton empties a grid slot
func (r *CatalogRepository) ClearButton(ctx context.Context, slot int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM menu_buttons WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("failed to clear button: %w", err)
	}
	return nil
}

// GetButton returns the item assigned to a slot
func (r *CatalogRepository) GetButton(ctx context.Context, slot int) (string, error) {
	var itemID string
	err := r.db.QueryRowContext(ctx, `SELECT item_id FROM menu_buttons WHERE slot = ?`, slot).Scan(&itemID)
	if err == sql.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get button: %w", err)
	}
	return itemID, nil
}

// ListButtons returns every assigned slot
func (r *CatalogRepository) ListButtons(ctx context.Context) (map[int]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT slot, item_id FROM menu_buttons`)
	if err != nil {
		return nil, fmt.Errorf("failed to list buttons: %w", err)
	}
	defer rows.Close()

	buttons := make(map[int]string)
	for rows.Next() {
		var slot int
		var itemID string
		if err := rows.Scan(&slot, &itemID); err != nil {
			return nil, fmt.Errorf("failed to scan button: %w", err)
		}
		buttons[slot] = itemID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating buttons: %w", err)
	}
	return buttons, nil
}

func (r *CatalogRepository) loadPrices(ctx context.Context, where string, args ...any) (map[string]map[order.PriceTier]decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT item_id, tier, price FROM item_prices `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]map[order.PriceTier]decimal.Decimal)
	for rows.Next() {
		var itemID string
		var tier order.PriceTier
		var price decimal.Decimal
		if err := rows.Scan(&itemID, &tier, &price); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		if prices[itemID] == nil {
			prices[itemID] = make(map[order.PriceTier]decimal.Decimal)
		}
		prices[itemID][tier] = price
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prices: %w", err)
	}
	return prices, nil
}

func insertPrices(ctx context.Context, tx *sql.Tx, itemID string, prices map[order.PriceTier]decimal.Decimal) error {
	for _, tier := range order.Tiers {
		price, ok := prices[tier]
		if !ok {
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO item_prices (item_id, tier, price) VALUES (?, ?, ?)`,
			itemID, tier, price,
		)
		if err != nil {
			return fmt.Errorf("failed to insert %s price: %w", tier, err)
		}
	}
	return nil
}
