package order

import "errors"

var (
	// ErrNotFound indicates the item id is unknown to the catalog.
	ErrNotFound = errors.New("item not found")
	// ErrInvalidTier indicates an unknown price tier.
	ErrInvalidTier = errors.New("invalid price tier")
	// ErrInvalidAction indicates an unknown order action.
	ErrInvalidAction = errors.New("invalid order action")
	// ErrPriceUnavailable indicates the item has no price for the selected tier.
	ErrPriceUnavailable = errors.New("item has no price for tier")
)
