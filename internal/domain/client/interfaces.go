package client

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository provides persistence for client accounts.
type Repository interface {
	Create(ctx context.Context, c *Client) error
	Get(ctx context.Context, name string) (*Client, error)
	List(ctx context.Context, jobistsOnly bool) ([]Client, error)
	SetBalance(ctx context.Context, name string, balance decimal.Decimal) error
}
