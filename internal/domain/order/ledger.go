package order

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
)

// Observer is called synchronously after every mutation of the ledger.
type Observer func(Snapshot)

// Ledger holds the in-progress order. A line's unit price is fixed when the
// line is first inserted; later tier changes only affect new lines.
type Ledger struct {
	catalog Catalog
	logger  *slog.Logger

	mu        sync.Mutex
	lines     []*Line
	byItem    map[string]*Line
	tier      PriceTier
	observers map[int]Observer
	nextObs   int
}

// NewLedger creates an empty ledger priced in the normal tier.
func NewLedger(catalog Catalog, logger *slog.Logger) *Ledger {
	return &Ledger{
		catalog:   catalog,
		logger:    logger,
		byItem:    make(map[string]*Line),
		tier:      TierNormal,
		observers: make(map[int]Observer),
	}
}

// OnUpdate registers an observer and returns a function that removes it.
func (l *Ledger) OnUpdate(fn Observer) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextObs
	l.nextObs++
	l.observers[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.observers, id)
	}
}

// AddItem adds one unit of itemID. A new line is priced at the current tier;
// an existing line keeps its price and gains one unit.
func (l *Ledger) AddItem(ctx context.Context, itemID string) error {
	l.mu.Lock()
	if line, ok := l.byItem[itemID]; ok {
		line.Quantity++
		l.mu.Unlock()
		l.notify()
		return nil
	}
	tier := l.tier
	l.mu.Unlock()

	item, err := l.catalog.LookupItem(ctx, itemID)
	if err != nil {
		if l.logger != nil {
			l.logger.Warn("item lookup failed", "item_id", itemID, "error", err)
		}
		return err
	}
	price, err := item.PriceFor(tier)
	if err != nil {
		return fmt.Errorf("pricing %s at %s: %w", itemID, tier, err)
	}

	l.mu.Lock()
	if line, ok := l.byItem[itemID]; ok {
		line.Quantity++
	} else {
		line := &Line{
			ItemID:    itemID,
			Name:      item.Name,
			Quantity:  1,
			UnitPrice: price,
			Tier:      tier,
		}
		l.lines = append(l.lines, line)
		l.byItem[itemID] = line
	}
	l.mu.Unlock()
	l.notify()
	return nil
}

// ApplyAction applies action to every selected line. Ids with no line are
// ignored and an empty selection is a no-op.
func (l *Ledger) ApplyAction(action Action, itemIDs []string) error {
	if !action.Valid() {
		return ErrInvalidAction
	}
	if len(itemIDs) == 0 {
		return nil
	}

	l.mu.Lock()
	for _, id := range itemIDs {
		line, ok := l.byItem[id]
		if !ok {
			continue
		}
		switch action {
		case ActionIncrement:
			line.Quantity++
		case ActionDecrement:
			line.Quantity--
			if line.Quantity <= 0 {
				l.remove(id)
			}
		case ActionDelete:
			l.remove(id)
		}
	}
	l.mu.Unlock()
	l.notify()
	return nil
}

// SetPriceTier selects the tier used by subsequent AddItem calls.
func (l *Ledger) SetPriceTier(tier PriceTier) error {
	if !tier.Valid() {
		return ErrInvalidTier
	}
	l.mu.Lock()
	l.tier = tier
	l.mu.Unlock()
	l.notify()
	return nil
}

// PriceTier returns the tier new lines will be priced at.
func (l *Ledger) PriceTier() PriceTier {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tier
}

// Total returns the exact sum of all line subtotals.
func (l *Ledger) Total() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalLocked()
}

// DisplayTotal returns Total rounded to two decimals.
func (l *Ledger) DisplayTotal() string {
	return l.Total().StringFixed(2)
}

// Lines returns a copy of the current lines in insertion order.
func (l *Ledger) Lines() []Line {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.linesLocked()
}

// Empty reports whether the order has no lines.
func (l *Ledger) Empty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines) == 0
}

// Snapshot returns lines, tier and total under a single lock.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		Lines: l.linesLocked(),
		Tier:  l.tier,
		Total: l.totalLocked(),
	}
}

// Clear empties the order.
func (l *Ledger) Clear() {
	l.mu.Lock()
	l.lines = nil
	l.byItem = make(map[string]*Line)
	l.mu.Unlock()
	l.notify()
}

func (l *Ledger) remove(itemID string) {
	delete(l.byItem, itemID)
	for i, line := range l.lines {
		if line.ItemID == itemID {
			l.lines = append(l.lines[:i], l.lines[i+1:]...)
			return
		}
	}
}

func (l *Ledger) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, line := range l.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (l *Ledger) linesLocked() []Line {
	out := make([]Line, 0, len(l.lines))
	for _, line := range l.lines {
		out = append(out, *line)
	}
	return out
}

func (l *Ledger) notify() {
	l.mu.Lock()
	if len(l.observers) == 0 {
		l.mu.Unlock()
		return
	}
	observers := make([]Observer, 0, len(l.observers))
	for i := 0; i < l.nextObs; i++ {
		if fn, ok := l.observers[i]; ok {
			observers = append(observers, fn)
		}
	}
	snap := Snapshot{Lines: l.linesLocked(), Tier: l.tier, Total: l.totalLocked()}
	l.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}
