package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ganot/fete-till/internal/domain/activity"
	"github.com/ganot/fete-till/internal/repository"
	"github.com/shopspring/decimal"
)

const (
	// DefaultStaleAfter is how long a session may stay open before startup
	// asks whether to close it.
	DefaultStaleAfter = 12 * time.Hour
)

// DefaultThreshold is the smallest counted amount recorded on a session.
var DefaultThreshold = decimal.New(1, -2)

// Options configures a Lifecycle. Zero values select the defaults.
type Options struct {
	Threshold  decimal.Decimal
	StaleAfter time.Duration
	Now        func() time.Time
	Archive    CountArchive
	Order      OrderState
	Activity   ActivityLogger
}

// Lifecycle drives the till through Closed -> CountingBefore -> Open ->
// CountingAfter -> Closed. It owns the notion of the current session.
type Lifecycle struct {
	store      Store
	archive    CountArchive
	order      OrderState
	activities ActivityLogger
	logger     *slog.Logger
	threshold  decimal.Decimal
	staleAfter time.Duration
	now        func() time.Time

	mu      sync.Mutex
	state   State
	current *Record
	stale   *Record
}

// NewLifecycle creates a lifecycle in the Closed state.
func NewLifecycle(store Store, opts Options, logger *slog.Logger) *Lifecycle {
	l := &Lifecycle{
		store:      store,
		archive:    opts.Archive,
		order:      opts.Order,
		activities: opts.Activity,
		logger:     logger,
		threshold:  opts.Threshold,
		staleAfter: opts.StaleAfter,
		now:        opts.Now,
		state:      StateClosed,
	}
	if !l.threshold.IsPositive() {
		l.threshold = DefaultThreshold
	}
	if l.staleAfter <= 0 {
		l.staleAfter = DefaultStaleAfter
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Status returns the state together with the sessions it refers to.
func (l *Lifecycle) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Status{
		State:   l.state,
		Session: cloneRecord(l.current),
		Stale:   cloneRecord(l.stale),
	}
}

// OpenSessionID returns the id of the session sales are booked against.
func (l *Lifecycle) OpenSessionID() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateOpen || l.current == nil {
		return "", transitionErr("sell", l.state)
	}
	return l.current.ID, nil
}

// IsStale reports whether a session opened at openedAt is past the staleness limit.
// The limit itself is not stale.
func (l *Lifecycle) IsStale(openedAt time.Time) bool {
	return l.now().Sub(openedAt) > l.staleAfter
}

// Startup loads the current session. With none on file the till moves to
// CountingBefore; a fresh one is resumed; a stale one is held until the
// operator calls ForceCloseStale or ResumeStale.
func (l *Lifecycle) Startup(ctx context.Context) (*StartupResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateClosed || l.stale != nil {
		return nil, l.reject("startup")
	}

	rec, err := l.store.GetCurrentSession(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			l.setState(StateCountingBefore)
			return &StartupResult{State: l.state}, nil
		}
		return nil, l.persistFailed("load current session", err)
	}

	if l.IsStale(rec.OpeningTime) {
		l.stale = rec
		l.info("stale session found", "session_id", rec.ID, "opening_time", rec.OpeningTime)
		return &StartupResult{State: l.state, Stale: cloneRecord(rec)}, nil
	}

	l.current = rec
	l.setState(StateOpen)
	return &StartupResult{State: l.state, Resumed: cloneRecord(rec)}, nil
}

// ForceCloseStale finalizes the stale session with the close amount already
// on file, or as not counted when there is none.
func (l *Lifecycle) ForceCloseStale(ctx context.Context) (*Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stale == nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionNotFound, l.reject("force close stale"))
	}
	rec := cloneRecord(l.stale)
	closedAt := l.now()
	if err := l.store.CloseSession(ctx, rec.ID, rec.CloseAmount, closedAt); err != nil {
		return nil, l.persistFailed("close stale session", err)
	}
	rec.ClosedAt = &closedAt
	l.stale = nil
	l.info("stale session closed", "session_id", rec.ID, "close_amount", amountString(rec.CloseAmount))
	l.logActivity(ctx, activity.TypeStaleSessionClosed, rec.ID, "stale session closed")
	return rec, nil
}

// ResumeStale keeps trading on the stale session.
func (l *Lifecycle) ResumeStale(ctx context.Context) (*Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stale == nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionNotFound, l.reject("resume stale"))
	}
	l.current = l.stale
	l.stale = nil
	l.setState(StateOpen)
	return cloneRecord(l.current), nil
}

// BeginSession moves a closed till to the opening count.
func (l *Lifecycle) BeginSession() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stale != nil {
		l.warn("begin session refused", "reason", ErrStalePending)
		return ErrStalePending
	}
	if l.state != StateClosed {
		return l.reject("begin session")
	}
	l.setState(StateCountingBefore)
	return nil
}

// SubmitOpeningCount logs the opening count and opens a new session.
// The count is logged even when its amount is too small to become the
// session's opening amount.
func (l *Lifecycle) SubmitOpeningCount(ctx context.Context, count CashCount) (*Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateCountingBefore {
		return nil, l.reject("submit opening count")
	}
	count = l.stamp(count)

	if err := l.store.AppendCashCount(ctx, CountBefore, count); err != nil {
		return nil, l.persistFailed("opening count", err)
	}

	openAmount := l.meaningful(count.CountedAmount)
	openedAt := l.now()
	id, err := l.store.NewSession(ctx, openedAt, openAmount, count.Jobists)
	if err != nil {
		return nil, l.persistFailed("new session", err)
	}

	l.current = &Record{
		ID:          id,
		OpeningTime: openedAt,
		OpenAmount:  openAmount,
		Jobists:     append([]string(nil), count.Jobists...),
	}
	l.setState(StateOpen)
	l.archiveCount(CountBefore, count)
	l.logActivity(ctx, activity.TypeSessionOpened, id, fmt.Sprintf("session opened with %s", amountString(openAmount)))
	return cloneRecord(l.current), nil
}

// RequestClose moves an open till to the closing count. The order must be empty.
func (l *Lifecycle) RequestClose() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateOpen {
		return l.reject("request close")
	}
	if l.order != nil && !l.order.Empty() {
		l.warn("close refused", "reason", ErrOrderNotEmpty)
		return ErrOrderNotEmpty
	}
	l.setState(StateCountingAfter)
	return nil
}

// CancelCount leaves a count screen without writing anything.
func (l *Lifecycle) CancelCount() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateCountingBefore:
		l.setState(StateClosed)
	case StateCountingAfter:
		l.setState(StateOpen)
	default:
		return l.reject("cancel count")
	}
	return nil
}

// SubmitClosingCount logs the closing count and finalizes the session.
// Once closing has been requested the session is finalized whether or not
// the operator also terminates the program.
func (l *Lifecycle) SubmitClosingCount(ctx context.Context, count CashCount, opts ClosingOptions) (*ClosingResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateCountingAfter || l.current == nil {
		return nil, l.reject("submit closing count")
	}
	count = l.stamp(count)

	if err := l.store.AppendCashCount(ctx, CountAfter, count); err != nil {
		return nil, l.persistFailed("closing count", err)
	}

	closeAmount := l.meaningful(count.CountedAmount)
	closedAt := l.now()
	if err := l.store.CloseSession(ctx, l.current.ID, closeAmount, closedAt); err != nil {
		return nil, l.persistFailed("close session", err)
	}

	rec := cloneRecord(l.current)
	rec.CloseAmount = closeAmount
	rec.ClosedAt = &closedAt
	l.current = nil
	l.setState(StateClosed)
	l.archiveCount(CountAfter, count)
	l.logActivity(ctx, activity.TypeSessionClosed, rec.ID, fmt.Sprintf("session closed with %s", amountString(closeAmount)))
	return &ClosingResult{Session: *rec, Terminate: opts.Terminate}, nil
}

// RecordInterimCount logs a count taken while trading and amends the current
// session in place: a before count replaces the jobists and opening amount,
// an after count records the close amount without finalizing.
func (l *Lifecycle) RecordInterimCount(ctx context.Context, kind CountKind, count CashCount) (*Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateOpen || l.current == nil {
		return nil, l.reject("record interim count")
	}
	if kind != CountBefore && kind != CountAfter {
		return nil, fmt.Errorf("%w: unknown count kind %q", ErrInvalidTransition, kind)
	}
	count = l.stamp(count)

	if err := l.store.AppendCashCount(ctx, kind, count); err != nil {
		return nil, l.persistFailed("interim count", err)
	}

	amount := l.meaningful(count.CountedAmount)
	switch kind {
	case CountBefore:
		if err := l.store.SetCurrentSessionOpening(ctx, count.Jobists, amount); err != nil {
			return nil, l.persistFailed("session opening", err)
		}
		l.current.Jobists = append([]string(nil), count.Jobists...)
		l.current.OpenAmount = amount
	case CountAfter:
		if err := l.store.SetCurrentSessionCloseAmount(ctx, amount); err != nil {
			return nil, l.persistFailed("session close amount", err)
		}
		l.current.CloseAmount = amount
	}

	l.archiveCount(kind, count)
	l.logActivity(ctx, activity.TypeCountRecorded, l.current.ID, fmt.Sprintf("%s count of %s", kind, amountString(amount)))
	return cloneRecord(l.current), nil
}

// LastCount returns the most recent archived count of the given kind.
// It returns ErrNoArchive when the lifecycle runs without an archive and
// nil, nil when nothing of that kind has been archived yet.
func (l *Lifecycle) LastCount(kind CountKind) (*CashCount, error) {
	if l.archive == nil {
		return nil, ErrNoArchive
	}
	return l.archive.Load(kind.ArchiveKey())
}

func (l *Lifecycle) meaningful(amount *decimal.Decimal) *decimal.Decimal {
	if amount == nil || amount.LessThan(l.threshold) {
		return nil
	}
	v := *amount
	return &v
}

func (l *Lifecycle) stamp(count CashCount) CashCount {
	if count.Timestamp.IsZero() {
		count.Timestamp = l.now()
	}
	if count.Jobists == nil {
		count.Jobists = []string{}
	}
	return count
}

func (l *Lifecycle) setState(next State) {
	if l.logger != nil {
		l.logger.Info("till state changed", "from", l.state, "to", next)
	}
	l.state = next
}

func (l *Lifecycle) reject(op string) error {
	err := transitionErr(op, l.state)
	l.warn("transition rejected", "op", op, "state", l.state)
	return err
}

func (l *Lifecycle) persistFailed(op string, err error) error {
	if l.logger != nil {
		l.logger.Error("session write failed", "op", op, "state", l.state, "error", err)
	}
	return persistErr(op, err)
}

func (l *Lifecycle) archiveCount(kind CountKind, count CashCount) {
	if l.archive == nil {
		return
	}
	if err := l.archive.Save(kind.ArchiveKey(), count); err != nil {
		l.warn("archiving count failed", "key", kind.ArchiveKey(), "error", err)
	}
}

func (l *Lifecycle) logActivity(ctx context.Context, typ activity.ActivityType, sessionID, summary string) {
	if l.activities == nil {
		return
	}
	_ = l.activities.LogActivity(ctx, &activity.ActivityEntry{
		SessionID:    &sessionID,
		ActivityType: typ,
		Summary:      summary,
	})
}

func (l *Lifecycle) info(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Info(msg, args...)
	}
}

func (l *Lifecycle) warn(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Warn(msg, args...)
	}
}

func cloneRecord(r *Record) *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Jobists = append([]string(nil), r.Jobists...)
	return &c
}

func amountString(amount *decimal.Decimal) string {
	if amount == nil {
		return "not counted"
	}
	return amount.StringFixed(2)
}
