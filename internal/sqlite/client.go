package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ganot/fete-till/internal/domain/client"
	"github.com/ganot/fete-till/internal/repository"
	"github.com/shopspring/decimal"
)

var _ client.Repository = (*ClientRepository)(nil)

// ClientRepository implements client.Repository for SQLite
type ClientRepository struct {
	db *DB
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create inserts a client account
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO clients (name, phone, address, email, credit_limit, is_jobist, balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.Name,
		c.Phone,
		c.Address,
		c.Email,
		c.Limit,
		c.IsJobist,
		c.Balance,
		createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create client: %w", err)
	}

	c.CreatedAt = createdAt
	return nil
}

// Get retrieves a client by name
func (r *ClientRepository) Get(ctx context.Context, name string) (*client.Client, error) {
	query := `
		SELECT name, phone, address, email, credit_limit, is_jobist, balance, created_at
		FROM clients
		WHERE name = ?
	`
	c, err := scanClient(r.db.QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return c, nil
}

// List returns clients ordered by name, optionally only jobists
func (r *ClientRepository) List(ctx context.Context, jobistsOnly bool) ([]client.Client, error) {
	query := `
		SELECT name, phone, address, email, credit_limit, is_jobist, balance, created_at
		FROM clients
	`
	if jobistsOnly {
		query += " WHERE is_jobist = 1"
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []client.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}
	return clients, nil
}

// SetBalance stores a new balance
func (r *ClientRepository) SetBalance(ctx context.Context, name string, balance decimal.Decimal) error {
	result, err := r.db.ExecContext(ctx, `UPDATE clients SET balance = ? WHERE name = ?`, balance, name)
	if err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}
	return requireRow(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*client.Client, error) {
	var c client.Client
	if err := row.Scan(
		&c.Name,
		&c.Phone,
		&c.Address,
		&c.Email,
		&c.Limit,
		&c.IsJobist,
		&c.Balance,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
