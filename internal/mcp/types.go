package mcp

import (
	"time"

	"github.com/ganot/fete-till/internal/domain/activity"
	"github.com/ganot/fete-till/internal/domain/order"
	"github.com/ganot/fete-till/internal/domain/session"
)

// Amounts travel as decimal strings so no float ever touches money.

type CountParams struct {
	Jobists []string `json:"jobists,omitempty"`
	Amount  *string  `json:"amount,omitempty"`
}

type ClosingCountParams struct {
	Jobists   []string `json:"jobists,omitempty"`
	Amount    *string  `json:"amount,omitempty"`
	Terminate bool     `json:"terminate,omitempty"`
}

type InterimCountParams struct {
	Kind    string   `json:"kind"`
	Jobists []string `json:"jobists,omitempty"`
	Amount  *string  `json:"amount,omitempty"`
}

type AddItemParams struct {
	ItemID string `json:"item_id"`
}

type PressButtonParams struct {
	Slot int `json:"slot"`
}

type SetActionParams struct {
	Action string `json:"action"`
}

type SetPriceTierParams struct {
	Tier string `json:"tier"`
}

type FireParams struct {
	Selection []string `json:"selection"`
}

type CommitSaleParams struct {
	ClientName string `json:"client_name,omitempty"`
}

type ListClientsParams struct {
	JobistsOnly bool `json:"jobists_only,omitempty"`
}

type CreateClientParams struct {
	Name     string  `json:"name"`
	Phone    string  `json:"phone,omitempty"`
	Address  string  `json:"address,omitempty"`
	Email    string  `json:"email,omitempty"`
	Limit    *string `json:"limit,omitempty"`
	IsJobist bool    `json:"is_jobist,omitempty"`
}

type DepositParams struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type RecentActivityParams struct {
	SessionID *string `json:"session_id,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

type SessionResponse struct {
	ID          string     `json:"id"`
	OpeningTime time.Time  `json:"opening_time"`
	OpenAmount  *string    `json:"open_amount,omitempty"`
	CloseAmount *string    `json:"close_amount,omitempty"`
	Jobists     []string   `json:"jobists"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

type CountResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Jobists   []string  `json:"jobists"`
	Amount    *string   `json:"amount,omitempty"`
}

type OrderLineResponse struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice string          `json:"unit_price"`
	Subtotal  string          `json:"subtotal"`
	Tier      order.PriceTier `json:"tier"`
}

type OrderResponse struct {
	Lines  []OrderLineResponse `json:"lines"`
	Tier   order.PriceTier     `json:"tier"`
	Action order.Action        `json:"action,omitempty"`
	Total  string              `json:"total"`
}

type TillStatusResponse struct {
	State      session.State    `json:"state"`
	Session    *SessionResponse `json:"session,omitempty"`
	Stale      *SessionResponse `json:"stale,omitempty"`
	Order      OrderResponse    `json:"order"`
	LastBefore *CountResponse   `json:"last_before_count,omitempty"`
	LastAfter  *CountResponse   `json:"last_after_count,omitempty"`
}

type ClosingResponse struct {
	Session   SessionResponse `json:"session"`
	Terminate bool            `json:"terminate"`
}

type CatalogItemResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Category string            `json:"category,omitempty"`
	Prices   map[string]string `json:"prices"`
}

type ButtonResponse struct {
	Slot   int    `json:"slot"`
	Page   string `json:"page"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
}

type CatalogResponse struct {
	Items   []CatalogItemResponse `json:"items"`
	Buttons []ButtonResponse      `json:"buttons"`
}

type ClientResponse struct {
	Name     string `json:"name"`
	IsJobist bool   `json:"is_jobist"`
	Limit    string `json:"limit"`
	Balance  string `json:"balance"`
}

type SaleResponse struct {
	ID         string              `json:"id"`
	SessionID  string              `json:"session_id"`
	ClientName *string             `json:"client_name,omitempty"`
	Lines      []OrderLineResponse `json:"lines"`
	Total      string              `json:"total"`
	CreatedAt  time.Time           `json:"created_at"`
}

type ActivityEntryResponse struct {
	Timestamp time.Time             `json:"timestamp"`
	Type      activity.ActivityType `json:"type"`
	SessionID string                `json:"session_id,omitempty"`
	Summary   string                `json:"summary"`
	Details   string                `json:"details,omitempty"`
}
