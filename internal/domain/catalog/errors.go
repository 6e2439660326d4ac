package catalog

import "errors"

var (
	// ErrItemNotFound indicates the item doesn't exist.
	ErrItemNotFound = errors.New("item not found")
	// ErrItemExists indicates an item with the same id already exists.
	ErrItemExists = errors.New("item already exists")
	// ErrInvalidInput indicates invalid item input.
	ErrInvalidInput = errors.New("invalid item input")
	// ErrInvalidSlot indicates a slot outside the menu grid.
	ErrInvalidSlot = errors.New("invalid menu slot")
	// ErrEmptySlot indicates no item is assigned to the slot.
	ErrEmptySlot = errors.New("menu slot is empty")
)
