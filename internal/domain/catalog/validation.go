package catalog

import (
	"strings"

	"github.com/ganot/fete-till/internal/domain/order"
)

// ValidateItem checks the fields required to sell an item.
func ValidateItem(item *Item) error {
	if item == nil {
		return ErrInvalidInput
	}
	if strings.TrimSpace(item.ID) == "" || strings.TrimSpace(item.Name) == "" {
		return ErrInvalidInput
	}
	if _, ok := item.Prices[order.TierNormal]; !ok {
		return ErrInvalidInput
	}
	for tier, price := range item.Prices {
		if !tier.Valid() || price.IsNegative() {
			return ErrInvalidInput
		}
	}
	return nil
}
