package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ganot/fete-till/internal/domain/activity"
	"github.com/ganot/fete-till/internal/domain/order"
	"github.com/ganot/fete-till/internal/domain/session"
	"github.com/ganot/fete-till/internal/mcp"
	"github.com/ganot/fete-till/internal/sqlite"
	"github.com/ganot/fete-till/internal/testserver"
)

func newHandler(t *testing.T, opts testserver.Options) *mcp.Handler {
	t.Helper()
	return mcp.NewHandler(testserver.NewTill(t, opts).Till)
}

func call(t *testing.T, h *mcp.Handler, method string, params any) any {
	t.Helper()
	var raw json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		require.NoError(t, err)
		raw = data
	}
	res, err := h.Handle(context.Background(), method, raw)
	require.NoError(t, err, method)
	return res
}

func callErr(t *testing.T, h *mcp.Handler, method string, params any) *mcp.APIError {
	t.Helper()
	data, err := json.Marshal(params)
	require.NoError(t, err)
	_, err = h.Handle(context.Background(), method, data)
	require.Error(t, err, method)
	var apiErr *mcp.APIError
	require.ErrorAs(t, err, &apiErr)
	return apiErr
}

func status(t *testing.T, h *mcp.Handler) mcp.TillStatusResponse {
	t.Helper()
	return call(t, h, "till_status", nil).(mcp.TillStatusResponse)
}

func openTill(t *testing.T, h *mcp.Handler, amount string) *mcp.SessionResponse {
	t.Helper()
	return call(t, h, "submit_opening_count", mcp.CountParams{
		Jobists: []string{testserver.JobistAnn},
		Amount:  &amount,
	}).(*mcp.SessionResponse)
}

func TestHandler_SessionAndSale(t *testing.T) {
	h := newHandler(t, testserver.Options{})

	require.Equal(t, session.StateCountingBefore, status(t, h).State)

	rec := openTill(t, h, "100")
	require.NotEmpty(t, rec.ID)
	require.Equal(t, "100.00", *rec.OpenAmount)
	require.Equal(t, []string{testserver.JobistAnn}, rec.Jobists)

	call(t, h, "press_button", mcp.PressButtonParams{Slot: testserver.SlotBlonde})
	ord := call(t, h, "press_button", mcp.PressButtonParams{Slot: testserver.SlotBlonde}).(mcp.OrderResponse)
	require.Len(t, ord.Lines, 1)
	require.Equal(t, 2, ord.Lines[0].Quantity)
	require.Equal(t, "6.00", ord.Total)

	require.Equal(t, mcp.CodeOrderNotEmpty, callErr(t, h, "request_close", nil).Code)

	sold := call(t, h, "commit_sale", nil).(mcp.SaleResponse)
	require.Equal(t, rec.ID, sold.SessionID)
	require.Equal(t, "6.00", sold.Total)
	require.Nil(t, sold.ClientName)
	require.Empty(t, call(t, h, "order_summary", nil).(mcp.OrderResponse).Lines)

	call(t, h, "request_close", nil)
	require.Equal(t, session.StateCountingAfter, status(t, h).State)

	amount := "106"
	closing := call(t, h, "submit_closing_count", mcp.ClosingCountParams{
		Jobists:   []string{testserver.JobistAnn},
		Amount:    &amount,
		Terminate: true,
	}).(mcp.ClosingResponse)
	require.True(t, closing.Terminate)
	require.NotNil(t, closing.Session.ClosedAt)
	require.Equal(t, "106.00", *closing.Session.CloseAmount)

	st := status(t, h)
	require.Equal(t, session.StateClosed, st.State)
	require.Nil(t, st.Session)
	require.NotNil(t, st.LastBefore)
	require.Equal(t, "100.00", *st.LastBefore.Amount)
	require.NotNil(t, st.LastAfter)
	require.Equal(t, "106.00", *st.LastAfter.Amount)

	call(t, h, "start_session", nil)
	require.Equal(t, session.StateCountingBefore, status(t, h).State)
}

func TestHandler_CountsWithoutAmount(t *testing.T) {
	h := newHandler(t, testserver.Options{})

	rec := call(t, h, "submit_opening_count", mcp.CountParams{}).(*mcp.SessionResponse)
	require.Nil(t, rec.OpenAmount)
	require.Equal(t, []string{}, rec.Jobists)

	tiny := "0.001"
	rec = call(t, h, "record_interim_count", mcp.InterimCountParams{Kind: "after", Amount: &tiny}).(*mcp.SessionResponse)
	require.Nil(t, rec.CloseAmount)

	fifty := "50"
	rec = call(t, h, "record_interim_count", mcp.InterimCountParams{Kind: "after", Amount: &fifty}).(*mcp.SessionResponse)
	require.Equal(t, "50.00", *rec.CloseAmount)
	require.Equal(t, session.StateOpen, status(t, h).State)

	call(t, h, "request_close", nil)
	call(t, h, "cancel_count", nil)
	require.Equal(t, session.StateOpen, status(t, h).State)
}

func TestHandler_ActionsAndTiers(t *testing.T) {
	h := newHandler(t, testserver.Options{})
	openTill(t, h, "0")

	call(t, h, "set_price_tier", mcp.SetPriceTierParams{Tier: "reduced"})
	call(t, h, "add_item", mcp.AddItemParams{ItemID: testserver.ItemBlonde})
	call(t, h, "set_price_tier", mcp.SetPriceTierParams{Tier: "normal"})
	ord := call(t, h, "add_item", mcp.AddItemParams{ItemID: testserver.ItemBlonde}).(mcp.OrderResponse)
	require.Equal(t, order.TierNormal, ord.Tier)
	require.Equal(t, "2.00", ord.Lines[0].UnitPrice)
	require.Equal(t, order.TierReduced, ord.Lines[0].Tier)
	require.Equal(t, "4.00", ord.Total)

	call(t, h, "add_item", mcp.AddItemParams{ItemID: testserver.ItemChips})

	ord = call(t, h, "set_action", mcp.SetActionParams{Action: "-"}).(mcp.OrderResponse)
	require.Equal(t, order.ActionDecrement, ord.Action)
	ord = call(t, h, "fire", mcp.FireParams{Selection: []string{testserver.ItemBlonde, "ghost"}}).(mcp.OrderResponse)
	require.Equal(t, 1, ord.Lines[0].Quantity)
	require.Equal(t, "3.50", ord.Total)

	call(t, h, "set_action", mcp.SetActionParams{Action: "delete"})
	ord = call(t, h, "fire", mcp.FireParams{Selection: []string{testserver.ItemBlonde}}).(mcp.OrderResponse)
	require.Len(t, ord.Lines, 1)
	require.Equal(t, testserver.ItemChips, ord.Lines[0].ItemID)

	ord = call(t, h, "clear_order", nil).(mcp.OrderResponse)
	require.Empty(t, ord.Lines)
	require.Equal(t, "0.00", ord.Total)
}

func TestHandler_Errors(t *testing.T) {
	h := newHandler(t, testserver.Options{})
	lots := "lots"
	negative := "-5"

	cases := []struct {
		method string
		params any
		code   string
	}{
		{"set_price_tier", mcp.SetPriceTierParams{Tier: "gold"}, mcp.CodeInvalidTier},
		{"set_action", mcp.SetActionParams{Action: "juggle"}, mcp.CodeInvalidAction},
		{"add_item", mcp.AddItemParams{ItemID: testserver.ItemBlonde}, mcp.CodeInvalidTransition},
		{"press_button", mcp.PressButtonParams{Slot: testserver.SlotBlonde}, mcp.CodeInvalidTransition},
		{"fire", mcp.FireParams{Selection: []string{testserver.ItemBlonde}}, mcp.CodeInvalidTransition},
		{"submit_opening_count", mcp.CountParams{Amount: &lots}, mcp.CodeInvalidInput},
		{"submit_opening_count", mcp.CountParams{Amount: &negative}, mcp.CodeInvalidInput},
		{"submit_closing_count", mcp.ClosingCountParams{}, mcp.CodeInvalidTransition},
		{"force_close_stale", nil, mcp.CodeSessionNotFound},
		{"commit_sale", nil, mcp.CodeInvalidTransition},
		{"add_item", []int{1}, mcp.CodeInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.method+"_"+tc.code, func(t *testing.T) {
			require.Equal(t, tc.code, callErr(t, h, tc.method, tc.params).Code)
		})
	}

	_, err := h.Handle(context.Background(), "sell_everything", nil)
	require.ErrorContains(t, err, "unknown method")
}

func TestHandler_OrderErrorsWhileOpen(t *testing.T) {
	h := newHandler(t, testserver.Options{})
	openTill(t, h, "10")

	cases := []struct {
		method string
		params any
		code   string
	}{
		{"add_item", mcp.AddItemParams{ItemID: "unknown"}, mcp.CodeItemNotFound},
		{"press_button", mcp.PressButtonParams{Slot: 200}, mcp.CodeInvalidSlot},
		{"press_button", mcp.PressButtonParams{Slot: 1}, mcp.CodeEmptySlot},
		{"commit_sale", nil, mcp.CodeEmptyOrder},
	}
	for _, tc := range cases {
		t.Run(tc.method+"_"+tc.code, func(t *testing.T) {
			require.Equal(t, tc.code, callErr(t, h, tc.method, tc.params).Code)
		})
	}
}

func TestHandler_OrderDroppedAtClose(t *testing.T) {
	h := newHandler(t, testserver.Options{})
	openTill(t, h, "10")
	call(t, h, "request_close", nil)

	require.Equal(t, mcp.CodeInvalidTransition, callErr(t, h, "add_item", mcp.AddItemParams{ItemID: testserver.ItemBlonde}).Code)
	call(t, h, "submit_closing_count", mcp.ClosingCountParams{})

	st := status(t, h)
	require.Equal(t, session.StateClosed, st.State)
	require.Empty(t, st.Order.Lines)
	require.Equal(t, mcp.CodeInvalidTransition, callErr(t, h, "press_button", mcp.PressButtonParams{Slot: testserver.SlotBlonde}).Code)
}

func TestHandler_PriceUnavailable(t *testing.T) {
	h := newHandler(t, testserver.Options{})
	openTill(t, h, "0")

	call(t, h, "set_price_tier", mcp.SetPriceTierParams{Tier: "reduced"})
	require.Equal(t, mcp.CodePriceUnavailable, callErr(t, h, "add_item", mcp.AddItemParams{ItemID: testserver.ItemChips}).Code)

	call(t, h, "set_price_tier", mcp.SetPriceTierParams{Tier: "free"})
	ord := call(t, h, "add_item", mcp.AddItemParams{ItemID: testserver.ItemChips}).(mcp.OrderResponse)
	require.Equal(t, "0.00", ord.Total)
	ord = call(t, h, "add_item", mcp.AddItemParams{ItemID: testserver.ItemCola}).(mcp.OrderResponse)
	require.Equal(t, "0.50", ord.Total)
}

func TestHandler_StaleSession(t *testing.T) {
	now := time.Now()
	var staleID string
	h := newHandler(t, testserver.Options{
		Now: func() time.Time { return now },
		Setup: func(t *testing.T, db *sqlite.DB) {
			id, err := sqlite.NewSessionStore(db).NewSession(context.Background(), now.Add(-13*time.Hour), nil, []string{"Zoe"})
			require.NoError(t, err)
			staleID = id
		},
	})

	st := status(t, h)
	require.Equal(t, session.StateClosed, st.State)
	require.NotNil(t, st.Stale)
	require.Equal(t, staleID, st.Stale.ID)

	require.Equal(t, mcp.CodeStalePending, callErr(t, h, "start_session", nil).Code)

	rec := call(t, h, "resume_stale", nil).(*mcp.SessionResponse)
	require.Equal(t, staleID, rec.ID)

	st = status(t, h)
	require.Equal(t, session.StateOpen, st.State)
	require.Nil(t, st.Stale)
	require.Equal(t, staleID, st.Session.ID)
}

func TestHandler_ChargeClient(t *testing.T) {
	h := newHandler(t, testserver.Options{})
	openTill(t, h, "20")

	for range 4 {
		call(t, h, "add_item", mcp.AddItemParams{ItemID: testserver.ItemBlonde})
	}
	require.Equal(t, mcp.CodeLimitExceeded, callErr(t, h, "commit_sale", mcp.CommitSaleParams{ClientName: testserver.ClientBob}).Code)
	require.Equal(t, "12.00", call(t, h, "order_summary", nil).(mcp.OrderResponse).Total)

	call(t, h, "set_action", mcp.SetActionParams{Action: "decrement"})
	call(t, h, "fire", mcp.FireParams{Selection: []string{testserver.ItemBlonde}})
	sold := call(t, h, "commit_sale", mcp.CommitSaleParams{ClientName: " Bob "}).(mcp.SaleResponse)
	require.Equal(t, "9.00", sold.Total)
	require.Equal(t, testserver.ClientBob, *sold.ClientName)

	clients := call(t, h, "list_clients", nil).([]mcp.ClientResponse)
	require.Len(t, clients, 2)
	for _, c := range clients {
		if c.Name == testserver.ClientBob {
			require.Equal(t, "-9.00", c.Balance)
			require.Equal(t, "-10.00", c.Limit)
		}
	}

	jobists := call(t, h, "list_clients", mcp.ListClientsParams{JobistsOnly: true}).([]mcp.ClientResponse)
	require.Len(t, jobists, 1)
	require.Equal(t, testserver.JobistAnn, jobists[0].Name)

	call(t, h, "add_item", mcp.AddItemParams{ItemID: testserver.ItemChips})
	require.Equal(t, mcp.CodeClientNotFound, callErr(t, h, "commit_sale", mcp.CommitSaleParams{ClientName: "Nobody"}).Code)

	entries := call(t, h, "get_recent_activity", mcp.RecentActivityParams{SessionID: &sold.SessionID}).([]mcp.ActivityEntryResponse)
	types := make(map[activity.ActivityType]bool)
	for _, e := range entries {
		types[e.Type] = true
	}
	require.True(t, types[activity.TypeSessionOpened])
	require.True(t, types[activity.TypeSaleCommitted])
	require.True(t, types[activity.TypeClientCharged])
}

func TestHandler_ClientAccounts(t *testing.T) {
	h := newHandler(t, testserver.Options{})

	limit := "-25"
	carol := call(t, h, "create_client", mcp.CreateClientParams{Name: " Carol ", Limit: &limit}).(mcp.ClientResponse)
	require.Equal(t, "Carol", carol.Name)
	require.Equal(t, "-10.00", carol.Limit)
	require.Equal(t, "0.00", carol.Balance)

	require.Equal(t, mcp.CodeClientExists, callErr(t, h, "create_client", mcp.CreateClientParams{Name: "Carol"}).Code)
	positive := "5"
	require.Equal(t, mcp.CodeInvalidInput, callErr(t, h, "create_client", mcp.CreateClientParams{Name: "Dan", Limit: &positive}).Code)

	carol = call(t, h, "deposit", mcp.DepositParams{Name: "Carol", Amount: "7.50"}).(mcp.ClientResponse)
	require.Equal(t, "7.50", carol.Balance)

	require.Equal(t, mcp.CodeInvalidInput, callErr(t, h, "deposit", mcp.DepositParams{Name: "Carol", Amount: "-1"}).Code)
	require.Equal(t, mcp.CodeInvalidInput, callErr(t, h, "deposit", mcp.DepositParams{Name: "Carol", Amount: "lots"}).Code)
	require.Equal(t, mcp.CodeClientNotFound, callErr(t, h, "deposit", mcp.DepositParams{Name: "Nobody", Amount: "1"}).Code)
}

func TestHandler_ListCatalog(t *testing.T) {
	h := newHandler(t, testserver.Options{})

	cat := call(t, h, "list_catalog", nil).(mcp.CatalogResponse)
	require.Len(t, cat.Items, 3)
	require.Len(t, cat.Buttons, 3)

	byID := make(map[string]mcp.CatalogItemResponse)
	for _, item := range cat.Items {
		byID[item.ID] = item
	}
	require.Equal(t, map[string]string{"normal": "2.00", "reduced": "1.00", "free": "0.50"}, byID[testserver.ItemCola].Prices)

	require.Equal(t, testserver.SlotBlonde, cat.Buttons[0].Slot)
	require.Equal(t, "Beers", cat.Buttons[0].Page)
	require.Equal(t, "Snacks", cat.Buttons[1].Page)
	require.Equal(t, "Softs", cat.Buttons[2].Page)
	require.Equal(t, "Cola", cat.Buttons[2].Name)
}
