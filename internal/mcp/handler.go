package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ganot/fete-till/internal/domain/activity"
	"github.com/ganot/fete-till/internal/domain/catalog"
	"github.com/ganot/fete-till/internal/domain/client"
	"github.com/ganot/fete-till/internal/domain/order"
	"github.com/ganot/fete-till/internal/domain/sale"
	"github.com/ganot/fete-till/internal/domain/session"
	"github.com/ganot/fete-till/internal/till"
	"github.com/shopspring/decimal"
)

// Handler dispatches MCP commands to the till.
type Handler struct {
	till *till.Till
}

// NewHandler creates a new MCP handler.
func NewHandler(t *till.Till) *Handler {
	return &Handler{till: t}
}

// Handle dispatches MCP requests to the till services.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "till_status":
		return h.status()
	case "start_session":
		if err := h.till.Lifecycle.BeginSession(); err != nil {
			return nil, mapError(err)
		}
		return h.status()
	case "submit_opening_count":
		var req CountParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		count, err := cashCount(req.Jobists, req.Amount)
		if err != nil {
			return nil, err
		}
		rec, err := h.till.Lifecycle.SubmitOpeningCount(ctx, count)
		if err != nil {
			return nil, mapError(err)
		}
		return toSessionResponse(rec), nil
	case "request_close":
		if err := h.till.Lifecycle.RequestClose(); err != nil {
			return nil, mapError(err)
		}
		return h.status()
	case "submit_closing_count":
		var req ClosingCountParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		count, err := cashCount(req.Jobists, req.Amount)
		if err != nil {
			return nil, err
		}
		res, err := h.till.SubmitClosingCount(ctx, count, session.ClosingOptions{Terminate: req.Terminate})
		if err != nil {
			return nil, mapError(err)
		}
		return ClosingResponse{Session: *toSessionResponse(&res.Session), Terminate: res.Terminate}, nil
	case "record_interim_count":
		var req InterimCountParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		count, err := cashCount(req.Jobists, req.Amount)
		if err != nil {
			return nil, err
		}
		rec, err := h.till.Lifecycle.RecordInterimCount(ctx, session.CountKind(req.Kind), count)
		if err != nil {
			return nil, mapError(err)
		}
		return toSessionResponse(rec), nil
	case "cancel_count":
		if err := h.till.Lifecycle.CancelCount(); err != nil {
			return nil, mapError(err)
		}
		return h.status()
	case "force_close_stale":
		rec, err := h.till.Lifecycle.ForceCloseStale(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		return toSessionResponse(rec), nil
	case "resume_stale":
		rec, err := h.till.Lifecycle.ResumeStale(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		return toSessionResponse(rec), nil
	case "add_item":
		var req AddItemParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		snap, err := h.till.AddItem(ctx, req.ItemID)
		if err != nil {
			return nil, mapError(err)
		}
		return h.orderResponse(snap), nil
	case "press_button":
		var req PressButtonParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		snap, err := h.till.PressButton(ctx, req.Slot)
		if err != nil {
			return nil, mapError(err)
		}
		return h.orderResponse(snap), nil
	case "set_action":
		var req SetActionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		action, err := order.ParseAction(req.Action)
		if err != nil {
			return nil, mapError(err)
		}
		if err := h.till.Dispatcher.SetAction(action); err != nil {
			return nil, mapError(err)
		}
		return h.orderResponse(h.till.Ledger.Snapshot()), nil
	case "set_price_tier":
		var req SetPriceTierParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		tier, err := order.ParseTier(req.Tier)
		if err != nil {
			return nil, mapError(err)
		}
		if err := h.till.Dispatcher.SetPriceTier(tier); err != nil {
			return nil, mapError(err)
		}
		return h.orderResponse(h.till.Ledger.Snapshot()), nil
	case "fire":
		var req FireParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		snap, err := h.till.Fire(req.Selection)
		if err != nil {
			return nil, mapError(err)
		}
		return h.orderResponse(snap), nil
	case "order_summary":
		return h.orderResponse(h.till.Ledger.Snapshot()), nil
	case "clear_order":
		h.till.Ledger.Clear()
		return h.orderResponse(h.till.Ledger.Snapshot()), nil
	case "commit_sale":
		var req CommitSaleParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		s, err := h.till.Sales.Commit(ctx, sale.CommitRequest{ClientName: strings.TrimSpace(req.ClientName)})
		if err != nil {
			return nil, mapError(err)
		}
		return toSaleResponse(s), nil
	case "list_catalog":
		items, err := h.till.Catalog.List(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		grid, err := h.till.Catalog.Grid(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		return toCatalogResponse(items, grid), nil
	case "list_clients":
		var req ListClientsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		clients, err := h.till.Clients.List(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		resp := make([]ClientResponse, 0, len(clients))
		for _, c := range clients {
			if req.JobistsOnly && !c.IsJobist {
				continue
			}
			resp = append(resp, toClientResponse(c))
		}
		return resp, nil
	case "create_client":
		var req CreateClientParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		limit := decimal.Zero
		if req.Limit != nil {
			d, err := decimal.NewFromString(strings.TrimSpace(*req.Limit))
			if err != nil {
				return nil, &APIError{Code: CodeInvalidInput, Message: fmt.Sprintf("limit %q is not a number", *req.Limit)}
			}
			limit = d
		}
		c, err := h.till.Clients.Create(ctx, client.CreateRequest{
			Name:     req.Name,
			Phone:    req.Phone,
			Address:  req.Address,
			Email:    req.Email,
			Limit:    limit,
			IsJobist: req.IsJobist,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return toClientResponse(*c), nil
	case "deposit":
		var req DepositParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
		if err != nil {
			return nil, &APIError{Code: CodeInvalidInput, Message: fmt.Sprintf("amount %q is not a number", req.Amount)}
		}
		c, err := h.till.Clients.Deposit(ctx, strings.TrimSpace(req.Name), amount)
		if err != nil {
			return nil, mapError(err)
		}
		return toClientResponse(*c), nil
	case "get_recent_activity":
		var req RecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		entries, err := h.till.Activity.GetRecentActivity(ctx, activity.ListActivityOptions{
			SessionID: req.SessionID,
			Limit:     req.Limit,
		})
		if err != nil {
			return nil, mapError(err)
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				Timestamp: entry.CreatedAt,
				Type:      entry.ActivityType,
				SessionID: stringValue(entry.SessionID),
				Summary:   entry.Summary,
				Details:   entry.Details,
			})
		}
		return resp, nil
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

func (h *Handler) status() (TillStatusResponse, error) {
	st := h.till.Status()
	resp := TillStatusResponse{
		State:   st.Session.State,
		Session: toSessionResponse(st.Session.Session),
		Stale:   toSessionResponse(st.Session.Stale),
		Order:   toOrderResponse(st.Order, st.Action),
	}
	before, err := h.lastCount(session.CountBefore)
	if err != nil {
		return resp, err
	}
	after, err := h.lastCount(session.CountAfter)
	if err != nil {
		return resp, err
	}
	resp.LastBefore = toCountResponse(before)
	resp.LastAfter = toCountResponse(after)
	return resp, nil
}

// lastCount reads the archive; a till running without one reports no count.
func (h *Handler) lastCount(kind session.CountKind) (*session.CashCount, error) {
	count, err := h.till.Lifecycle.LastCount(kind)
	if errors.Is(err, session.ErrNoArchive) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return count, nil
}

func (h *Handler) orderResponse(snap order.Snapshot) OrderResponse {
	return toOrderResponse(snap, h.till.Dispatcher.Action())
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: CodeInvalidInput, Message: err.Error()}
	}
	return nil
}

func cashCount(jobists []string, amount *string) (session.CashCount, error) {
	count := session.CashCount{Jobists: jobists}
	if amount == nil || strings.TrimSpace(*amount) == "" {
		return count, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*amount))
	if err != nil {
		return count, &APIError{Code: CodeInvalidInput, Message: fmt.Sprintf("amount %q is not a number", *amount)}
	}
	if d.IsNegative() {
		return count, &APIError{Code: CodeInvalidInput, Message: "amount cannot be negative"}
	}
	count.CountedAmount = &d
	return count, nil
}

func toSessionResponse(rec *session.Record) *SessionResponse {
	if rec == nil {
		return nil
	}
	jobists := rec.Jobists
	if jobists == nil {
		jobists = []string{}
	}
	return &SessionResponse{
		ID:          rec.ID,
		OpeningTime: rec.OpeningTime,
		OpenAmount:  amountString(rec.OpenAmount),
		CloseAmount: amountString(rec.CloseAmount),
		Jobists:     jobists,
		ClosedAt:    rec.ClosedAt,
	}
}

func toCountResponse(count *session.CashCount) *CountResponse {
	if count == nil {
		return nil
	}
	return &CountResponse{
		Timestamp: count.Timestamp,
		Jobists:   count.Jobists,
		Amount:    amountString(count.CountedAmount),
	}
}

func toLineResponses(lines []order.Line) []OrderLineResponse {
	resp := make([]OrderLineResponse, 0, len(lines))
	for _, line := range lines {
		resp = append(resp, OrderLineResponse{
			ItemID:    line.ItemID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Subtotal:  line.Subtotal().StringFixed(2),
			Tier:      line.Tier,
		})
	}
	return resp
}

func toOrderResponse(snap order.Snapshot, action order.Action) OrderResponse {
	return OrderResponse{
		Lines:  toLineResponses(snap.Lines),
		Tier:   snap.Tier,
		Action: action,
		Total:  snap.DisplayTotal(),
	}
}

func toSaleResponse(s *sale.Sale) SaleResponse {
	return SaleResponse{
		ID:         s.ID,
		SessionID:  s.SessionID,
		ClientName: s.ClientName,
		Lines:      toLineResponses(s.Lines),
		Total:      s.Total.StringFixed(2),
		CreatedAt:  s.CreatedAt,
	}
}

func toCatalogResponse(items []catalog.Item, grid []catalog.Button) CatalogResponse {
	resp := CatalogResponse{
		Items:   make([]CatalogItemResponse, 0, len(items)),
		Buttons: make([]ButtonResponse, 0, len(grid)),
	}
	for _, item := range items {
		prices := make(map[string]string, len(item.Prices))
		for tier, price := range item.Prices {
			prices[string(tier)] = price.StringFixed(2)
		}
		resp.Items = append(resp.Items, CatalogItemResponse{
			ID:       item.ID,
			Name:     item.Name,
			Category: item.Category,
			Prices:   prices,
		})
	}
	for _, b := range grid {
		if b.ItemID == "" {
			continue
		}
		resp.Buttons = append(resp.Buttons, ButtonResponse{
			Slot:   b.Slot,
			Page:   catalog.PageNames[b.Page],
			Row:    b.Row,
			Col:    b.Col,
			ItemID: b.ItemID,
			Name:   b.Name,
		})
	}
	return resp
}

func toClientResponse(c client.Client) ClientResponse {
	return ClientResponse{
		Name:     c.Name,
		IsJobist: c.IsJobist,
		Limit:    c.Limit.StringFixed(2),
		Balance:  c.Balance.StringFixed(2),
	}
}

func amountString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func stringValue(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}
