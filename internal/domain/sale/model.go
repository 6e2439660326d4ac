package sale

import (
	"time"

	"github.com/ganot/fete-till/internal/domain/order"
	"github.com/shopspring/decimal"
)

// Sale is a committed order.
type Sale struct {
	ID         string          `json:"id"`
	SessionID  string          `json:"session_id"`
	ClientName *string         `json:"client_name,omitempty"`
	Lines      []order.Line    `json:"lines"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
}
