package order

import "sync"

// Dispatcher combines the armed action with the selection supplied when an
// item is picked. Arming an action has no effect until Fire; selecting a tier
// is forwarded to the ledger at once.
type Dispatcher struct {
	ledger *Ledger

	mu     sync.Mutex
	action Action
}

// NewDispatcher arms Increment and resets the ledger to the normal tier.
func NewDispatcher(ledger *Ledger) *Dispatcher {
	d := &Dispatcher{ledger: ledger, action: ActionIncrement}
	_ = ledger.SetPriceTier(TierNormal)
	return d
}

// SetAction arms the action used by the next Fire.
func (d *Dispatcher) SetAction(action Action) error {
	if !action.Valid() {
		return ErrInvalidAction
	}
	d.mu.Lock()
	d.action = action
	d.mu.Unlock()
	return nil
}

// Action returns the armed action.
func (d *Dispatcher) Action() Action {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.action
}

// SetPriceTier changes the ledger tier immediately.
func (d *Dispatcher) SetPriceTier(tier PriceTier) error {
	return d.ledger.SetPriceTier(tier)
}

// PriceTier returns the tier currently in force.
func (d *Dispatcher) PriceTier() PriceTier {
	return d.ledger.PriceTier()
}

// Fire applies the armed action to selection.
func (d *Dispatcher) Fire(selection []string) error {
	return d.ledger.ApplyAction(d.Action(), selection)
}
