package catalog

import (
	"time"

	"github.com/ganot/fete-till/internal/domain/order"
	"github.com/shopspring/decimal"
)

// Item is an article sold at the till.
type Item struct {
	ID        string                              `json:"id"`
	Name      string                              `json:"name"`
	Category  string                              `json:"category,omitempty"`
	Prices    map[order.PriceTier]decimal.Decimal `json:"prices"`
	CreatedAt time.Time                           `json:"created_at"`
}

// OrderItem converts the item into what the order ledger consumes.
func (i Item) OrderItem() order.CatalogItem {
	prices := make(map[order.PriceTier]decimal.Decimal, len(i.Prices))
	for tier, price := range i.Prices {
		prices[tier] = price
	}
	return order.CatalogItem{ID: i.ID, Name: i.Name, Prices: prices}
}

// The menu grid: Pages pages of GridRows x GridCols buttons.
const (
	Pages    = 4
	GridRows = 8
	GridCols = 5
	Slots    = Pages * GridRows * GridCols
)

// PageNames are the tab labels of the menu grid.
var PageNames = [Pages]string{"Beers", "Snacks", "Softs", "Misc"}

// Button is one cell of the menu grid.
type Button struct {
	Slot   int    `json:"slot"`
	Page   int    `json:"page"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	ItemID string `json:"item_id,omitempty"`
	Name   string `json:"name,omitempty"`
}

// SlotAt returns the slot number of a grid position.
func SlotAt(page, row, col int) int {
	return col + row*GridCols + page*GridRows*GridCols
}

// Position splits a slot number into page, row and column.
func Position(slot int) (page, row, col int) {
	page = slot / (GridRows * GridCols)
	rest := slot % (GridRows * GridCols)
	return page, rest / GridCols, rest % GridCols
}

// ValidSlot reports whether slot is on the grid.
func ValidSlot(slot int) bool {
	return slot >= 0 && slot < Slots
}
