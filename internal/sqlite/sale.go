package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ganot/fete-till/internal/domain/order"
	"github.com/ganot/fete-till/internal/domain/sale"
	"github.com/ganot/fete-till/internal/repository"
)

var _ sale.Repository = (*SaleRepository)(nil)

// SaleRepository implements sale.Repository for SQLite
type SaleRepository struct {
	db *DB
}

// NewSaleRepository creates a new SaleRepository
func NewSaleRepository(db *DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// Create stores a sale and its lines atomically
func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sales (id, session_id, client_name, total, created_at) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.SessionID, s.ClientName, s.Total, createdAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create sale: %w", err)
	}

	for i, line := range s.Lines {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sale_lines (sale_id, position, item_id, name, quantity, unit_price, tier)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, s.ID, i, line.ItemID, line.Name, line.Quantity, line.UnitPrice, line.Tier)
		if err != nil {
			return fmt.Errorf("failed to insert sale line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sale: %w", err)
	}
	s.CreatedAt = createdAt
	return nil
}

// ListBySession returns the sales of a session in commit order
func (r *SaleRepository) ListBySession(ctx context.Context, sessionID string) ([]sale.Sale, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, client_name, total, created_at
		FROM sales
		WHERE session_id = ?
		ORDER BY created_at, rowid
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	var sales []sale.Sale
	index := make(map[string]int)
	for rows.Next() {
		var s sale.Sale
		var clientName sql.NullString
		if err := rows.Scan(&s.ID, &s.SessionID, &clientName, &s.Total, &s.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		if clientName.Valid {
			s.ClientName = &clientName.String
		}
		index[s.ID] = len(sales)
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}
	rows.Close()

	if len(sales) == 0 {
		return sales, nil
	}

	lineRows, err := r.db.QueryContext(ctx, `
		SELECT l.sale_id, l.item_id, l.name, l.quantity, l.unit_price, l.tier
		FROM sale_lines l
		JOIN sales s ON s.id = l.sale_id
		WHERE s.session_id = ?
		ORDER BY l.sale_id, l.position
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sale lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var saleID string
		var line order.Line
		if err := lineRows.Scan(&saleID, &line.ItemID, &line.Name, &line.Quantity, &line.UnitPrice, &line.Tier); err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		if i, ok := index[saleID]; ok {
			sales[i].Lines = append(sales[i].Lines, line)
		}
	}
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale lines: %w", err)
	}

	return sales, nil
}
