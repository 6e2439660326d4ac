package mcp

import (
	"errors"
	"fmt"

	"github.com/ganot/fete-till/internal/domain/catalog"
	"github.com/ganot/fete-till/internal/domain/client"
	"github.com/ganot/fete-till/internal/domain/order"
	"github.com/ganot/fete-till/internal/domain/sale"
	"github.com/ganot/fete-till/internal/domain/session"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes shared by the MCP and REST surfaces.
const (
	CodeItemNotFound      = "ITEM_NOT_FOUND"
	CodeInvalidTier       = "INVALID_TIER"
	CodeInvalidAction     = "INVALID_ACTION"
	CodePriceUnavailable  = "PRICE_UNAVAILABLE"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeOrderNotEmpty     = "ORDER_NOT_EMPTY"
	CodeStalePending      = "STALE_SESSION_PENDING"
	CodeSessionNotFound   = "SESSION_NOT_FOUND"
	CodePersistence       = "PERSISTENCE_ERROR"
	CodeInvalidSlot       = "INVALID_SLOT"
	CodeEmptySlot         = "EMPTY_SLOT"
	CodeItemExists        = "ITEM_EXISTS"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeClientNotFound    = "CLIENT_NOT_FOUND"
	CodeClientExists      = "CLIENT_EXISTS"
	CodeLimitExceeded     = "LIMIT_EXCEEDED"
	CodeEmptyOrder        = "EMPTY_ORDER"
)

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var persistErr *session.PersistenceError
	switch {
	case errors.As(err, &persistErr):
		return &APIError{Code: CodePersistence, Message: persistErr.Error(), RecoveryHint: "Retry; the till state did not change"}
	case errors.Is(err, order.ErrNotFound), errors.Is(err, catalog.ErrItemNotFound):
		return &APIError{Code: CodeItemNotFound, Message: "item not found", RecoveryHint: "Call list_catalog for valid ids"}
	case errors.Is(err, order.ErrInvalidTier):
		return &APIError{Code: CodeInvalidTier, Message: "invalid price tier", RecoveryHint: "Use normal, reduced or free"}
	case errors.Is(err, order.ErrInvalidAction):
		return &APIError{Code: CodeInvalidAction, Message: "invalid action", RecoveryHint: "Use increment, decrement or delete"}
	case errors.Is(err, order.ErrPriceUnavailable):
		return &APIError{Code: CodePriceUnavailable, Message: err.Error(), RecoveryHint: "Switch tier or price the item"}
	case errors.Is(err, session.ErrStalePending):
		return &APIError{Code: CodeStalePending, Message: "a stale session awaits a decision", RecoveryHint: "Call force_close_stale or resume_stale"}
	case errors.Is(err, session.ErrSessionNotFound):
		return &APIError{Code: CodeSessionNotFound, Message: "no stale session is waiting", RecoveryHint: "Call till_status to see the current state"}
	case errors.Is(err, session.ErrOrderNotEmpty):
		return &APIError{Code: CodeOrderNotEmpty, Message: "order in progress", RecoveryHint: "Commit or clear the order first"}
	case errors.Is(err, session.ErrInvalidTransition):
		return &APIError{Code: CodeInvalidTransition, Message: err.Error(), RecoveryHint: "Call till_status to see the current state"}
	case errors.Is(err, catalog.ErrInvalidSlot):
		return &APIError{Code: CodeInvalidSlot, Message: "slot is off the menu grid", RecoveryHint: fmt.Sprintf("Use a slot from 0 to %d", catalog.Slots-1)}
	case errors.Is(err, catalog.ErrEmptySlot):
		return &APIError{Code: CodeEmptySlot, Message: "no item on this button"}
	case errors.Is(err, catalog.ErrItemExists):
		return &APIError{Code: CodeItemExists, Message: "item already exists"}
	case errors.Is(err, catalog.ErrInvalidInput), errors.Is(err, client.ErrInvalidInput):
		return &APIError{Code: CodeInvalidInput, Message: err.Error()}
	case errors.Is(err, client.ErrClientNotFound):
		return &APIError{Code: CodeClientNotFound, Message: "client not found", RecoveryHint: "Call list_clients for valid names"}
	case errors.Is(err, client.ErrClientExists):
		return &APIError{Code: CodeClientExists, Message: "client already exists"}
	case errors.Is(err, client.ErrLimitExceeded):
		return &APIError{Code: CodeLimitExceeded, Message: "client limit exceeded", RecoveryHint: "Take cash or remove items"}
	case errors.Is(err, sale.ErrEmptyOrder):
		return &APIError{Code: CodeEmptyOrder, Message: "order is empty"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
