package client

import (
	"time"

	"github.com/shopspring/decimal"
)

// MinLimit is the lowest balance any account may be allowed to reach.
var MinLimit = decimal.NewFromInt(-10)

// Client is a customer account. Jobists are volunteers paid from the till.
type Client struct {
	Name      string          `json:"name"`
	Phone     string          `json:"phone,omitempty"`
	Address   string          `json:"address,omitempty"`
	Email     string          `json:"email,omitempty"`
	Limit     decimal.Decimal `json:"limit"`
	IsJobist  bool            `json:"is_jobist"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// CanAfford reports whether charging amount keeps the balance at or above the limit.
func (c Client) CanAfford(amount decimal.Decimal) bool {
	return !c.Balance.Sub(amount).LessThan(c.Limit)
}
