package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ganot/fete-till/internal/domain/session"
	"github.com/ganot/fete-till/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const currentSessionID = `(
	SELECT id FROM sale_sessions
	WHERE closed_at IS NULL
	ORDER BY opening_time DESC
	LIMIT 1
)`

var _ session.Store = (*SessionStore)(nil)

// SessionStore implements session.Store for SQLite
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// GetCurrentSession returns the most recently opened session that has not been closed.
func (r *SessionStore) GetCurrentSession(ctx context.Context) (*session.Record, error) {
	query := `
		SELECT id, opening_time, open_amount, close_amount, jobists, closed_at
		FROM sale_sessions
		WHERE id = ` + currentSessionID

	var rec session.Record
	var openAmount, closeAmount decimal.NullDecimal
	var jobists string
	var closedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query).Scan(
		&rec.ID,
		&rec.OpeningTime,
		&openAmount,
		&closeAmount,
		&jobists,
		&closedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current session: %w", err)
	}

	rec.OpenAmount = fromNullDecimal(openAmount)
	rec.CloseAmount = fromNullDecimal(closeAmount)
	if rec.Jobists, err = decodeNames(jobists); err != nil {
		return nil, err
	}
	if closedAt.Valid {
		rec.ClosedAt = &closedAt.Time
	}

	return &rec, nil
}

// AppendCashCount adds a count to the log, linked to the current session if any.
func (r *SessionStore) AppendCashCount(ctx context.Context, kind session.CountKind, count session.CashCount) error {
	jobists, err := encodeNames(count.Jobists)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO cash_counts (kind, session_id, counted_at, jobists, counted_amount)
		VALUES (?, ` + currentSessionID + `, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		string(kind),
		count.Timestamp,
		jobists,
		toNullDecimal(count.CountedAmount),
	)
	if err != nil {
		return fmt.Errorf("failed to append cash count: %w", err)
	}

	return nil
}

// NewSession creates a session and returns its id.
func (r *SessionStore) NewSession(ctx context.Context, openingTime time.Time, openAmount *decimal.Decimal, jobists []string) (string, error) {
	names, err := encodeNames(jobists)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	query := `
		INSERT INTO sale_sessions (id, opening_time, open_amount, jobists)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, id, openingTime, toNullDecimal(openAmount), names); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return id, nil
}

// CloseSession finalizes a session with its close amount at closedAt.
func (r *SessionStore) CloseSession(ctx context.Context, sessionID string, closeAmount *decimal.Decimal, closedAt time.Time) error {
	query := `
		UPDATE sale_sessions
		SET close_amount = ?, closed_at = ?
		WHERE id = ? AND closed_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, toNullDecimal(closeAmount), closedAt, sessionID)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}

	return requireRow(result)
}

// SetCurrentSessionOpening replaces the jobists and opening amount of the
// current session in a single statement.
func (r *SessionStore) SetCurrentSessionOpening(ctx context.Context, jobists []string, amount *decimal.Decimal) error {
	names, err := encodeNames(jobists)
	if err != nil {
		return err
	}
	query := `UPDATE sale_sessions SET jobists = ?, open_amount = ? WHERE id = ` + currentSessionID

	result, err := r.db.ExecContext(ctx, query, names, toNullDecimal(amount))
	if err != nil {
		return fmt.Errorf("failed to update session opening: %w", err)
	}

	return requireRow(result)
}

// SetCurrentSessionCloseAmount records a close amount without finalizing the session.
func (r *SessionStore) SetCurrentSessionCloseAmount(ctx context.Context, amount *decimal.Decimal) error {
	query := `UPDATE sale_sessions SET close_amount = ? WHERE id = ` + currentSessionID

	result, err := r.db.ExecContext(ctx, query, toNullDecimal(amount))
	if err != nil {
		return fmt.Errorf("failed to update close amount: %w", err)
	}

	return requireRow(result)
}

// ListCashCounts returns the logged counts of a session in the order they were taken.
func (r *SessionStore) ListCashCounts(ctx context.Context, sessionID string) ([]session.CashCount, error) {
	query := `
		SELECT counted_at, jobists, counted_amount
		FROM cash_counts
		WHERE session_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash counts: %w", err)
	}
	defer rows.Close()

	var counts []session.CashCount
	for rows.Next() {
		var count session.CashCount
		var jobists string
		var amount decimal.NullDecimal
		if err := rows.Scan(&count.Timestamp, &jobists, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan cash count: %w", err)
		}
		if count.Jobists, err = decodeNames(jobists); err != nil {
			return nil, err
		}
		count.CountedAmount = fromNullDecimal(amount)
		counts = append(counts, count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash counts: %w", err)
	}

	return counts, nil
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func encodeNames(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("failed to encode names: %w", err)
	}
	return string(data), nil
}

func decodeNames(data string) ([]string, error) {
	names := []string{}
	if data == "" {
		return names, nil
	}
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, fmt.Errorf("failed to decode names: %w", err)
	}
	return names, nil
}
