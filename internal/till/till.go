// Package till assembles the order, session, catalog, client and sale
// services around exactly one ledger, dispatcher and lifecycle.
package till

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ganot/fete-till/internal/domain/activity"
	"github.com/ganot/fete-till/internal/domain/catalog"
	"github.com/ganot/fete-till/internal/domain/client"
	"github.com/ganot/fete-till/internal/domain/order"
	"github.com/ganot/fete-till/internal/domain/sale"
	"github.com/ganot/fete-till/internal/domain/session"
	"github.com/shopspring/decimal"
)

// Config lists the stores the till runs on. Archive may be nil.
type Config struct {
	Sessions   session.Store
	Archive    session.CountArchive
	Catalog    catalog.Repository
	Clients    client.Repository
	Sales      sale.Repository
	Activity   activity.Repository
	Threshold  decimal.Decimal
	StaleAfter time.Duration
	Now        func() time.Time
	Logger     *slog.Logger
}

// Till is the running register.
type Till struct {
	Lifecycle  *session.Lifecycle
	Ledger     *order.Ledger
	Dispatcher *order.Dispatcher
	Catalog    *catalog.Service
	Clients    *client.Service
	Sales      *sale.Service
	Activity   *activity.Service

	logger       *slog.Logger
	terminate    chan struct{}
	terminateOne sync.Once
}

// New wires the services together.
func New(cfg Config) *Till {
	activitySvc := activity.NewService(cfg.Activity, cfg.Logger)
	catalogSvc := catalog.NewService(cfg.Catalog, cfg.Logger)
	clientSvc := client.NewService(cfg.Clients, cfg.Logger)

	ledger := order.NewLedger(catalogSvc, cfg.Logger)
	dispatcher := order.NewDispatcher(ledger)

	lifecycle := session.NewLifecycle(cfg.Sessions, session.Options{
		Threshold:  cfg.Threshold,
		StaleAfter: cfg.StaleAfter,
		Now:        cfg.Now,
		Archive:    cfg.Archive,
		Order:      ledger,
		Activity:   activitySvc,
	}, cfg.Logger)

	sales := sale.NewService(cfg.Sales, ledger, lifecycle, clientSvc, activitySvc, cfg.Logger)

	return &Till{
		Lifecycle:  lifecycle,
		Ledger:     ledger,
		Dispatcher: dispatcher,
		Catalog:    catalogSvc,
		Clients:    clientSvc,
		Sales:      sales,
		Activity:   activitySvc,
		logger:     cfg.Logger,
		terminate:  make(chan struct{}),
	}
}

// Status is what a till screen shows.
type Status struct {
	Session session.Status `json:"session"`
	Order   order.Snapshot `json:"order"`
	Action  order.Action   `json:"action"`
}

// Status returns the lifecycle, the order and the armed action.
func (t *Till) Status() Status {
	return Status{
		Session: t.Lifecycle.Status(),
		Order:   t.Ledger.Snapshot(),
		Action:  t.Dispatcher.Action(),
	}
}

// Startup resumes the session on file, if any, and logs the decision the
// operator still has to make about a stale one.
func (t *Till) Startup(ctx context.Context) (*session.StartupResult, error) {
	res, err := t.Lifecycle.Startup(ctx)
	if err != nil {
		return nil, err
	}
	if res.Stale != nil && t.logger != nil {
		t.logger.Warn("session left open, close or resume it",
			"session_id", res.Stale.ID,
			"opening_time", res.Stale.OpeningTime,
			"close_amount", amountOrEmpty(res.Stale.CloseAmount),
		)
	}
	return res, nil
}

// SubmitClosingCount finalizes the session and drops whatever order is left.
// When the operator also asked to terminate, Terminated is closed once the
// session is on file.
func (t *Till) SubmitClosingCount(ctx context.Context, count session.CashCount, opts session.ClosingOptions) (*session.ClosingResult, error) {
	res, err := t.Lifecycle.SubmitClosingCount(ctx, count, opts)
	if err != nil {
		return nil, err
	}
	if !t.Ledger.Empty() {
		if t.logger != nil {
			t.logger.Warn("order discarded at close", "session_id", res.Session.ID, "total", t.Ledger.DisplayTotal())
		}
		t.Ledger.Clear()
	}
	if res.Terminate {
		t.terminateOne.Do(func() {
			if t.logger != nil {
				t.logger.Info("terminate requested", "session_id", res.Session.ID)
			}
			close(t.terminate)
		})
	}
	return res, nil
}

// Terminated is closed when a closing count asked the till to shut down.
func (t *Till) Terminated() <-chan struct{} {
	return t.terminate
}

// PressButton adds the item assigned to a menu slot to the order.
func (t *Till) PressButton(ctx context.Context, slot int) (order.Snapshot, error) {
	if _, err := t.Lifecycle.OpenSessionID(); err != nil {
		return order.Snapshot{}, err
	}
	itemID, err := t.Catalog.ButtonItem(ctx, slot)
	if err != nil {
		return order.Snapshot{}, err
	}
	if err := t.Ledger.AddItem(ctx, itemID); err != nil {
		return order.Snapshot{}, err
	}
	return t.Ledger.Snapshot(), nil
}

// AddItem adds one unit of an item to the order. Items are only rung up
// while a session is open.
func (t *Till) AddItem(ctx context.Context, itemID string) (order.Snapshot, error) {
	if _, err := t.Lifecycle.OpenSessionID(); err != nil {
		return order.Snapshot{}, err
	}
	if err := t.Ledger.AddItem(ctx, itemID); err != nil {
		return order.Snapshot{}, err
	}
	return t.Ledger.Snapshot(), nil
}

// Fire applies the armed action to the selected lines.
func (t *Till) Fire(selection []string) (order.Snapshot, error) {
	if _, err := t.Lifecycle.OpenSessionID(); err != nil {
		return order.Snapshot{}, err
	}
	if err := t.Dispatcher.Fire(selection); err != nil {
		return order.Snapshot{}, err
	}
	return t.Ledger.Snapshot(), nil
}

func amountOrEmpty(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}
