package order

import "github.com/shopspring/decimal"

// CatalogItem is what the ledger needs to know about an item at insertion time.
type CatalogItem struct {
	ID     string
	Name   string
	Prices map[PriceTier]decimal.Decimal
}

// PriceFor returns the price charged for the item at the given tier.
// The free tier costs nothing unless the catalog says otherwise.
func (c CatalogItem) PriceFor(tier PriceTier) (decimal.Decimal, error) {
	if price, ok := c.Prices[tier]; ok {
		return price, nil
	}
	if tier == TierFree {
		return decimal.Zero, nil
	}
	return decimal.Zero, ErrPriceUnavailable
}

// Line is one distinct item on the current order.
type Line struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Tier      PriceTier       `json:"tier"`
}

// Subtotal is quantity times unit price.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is a point-in-time copy of the order, handed to observers.
type Snapshot struct {
	Lines []Line          `json:"lines"`
	Tier  PriceTier       `json:"tier"`
	Total decimal.Decimal `json:"total"`
}

// DisplayTotal formats the total with two decimals.
func (s Snapshot) DisplayTotal() string {
	return s.Total.StringFixed(2)
}
