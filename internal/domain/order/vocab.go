package order

import "strings"

// PriceTier is a named price level applied to an item when it enters the order.
type PriceTier string

const (
	TierNormal  PriceTier = "normal"
	TierReduced PriceTier = "reduced"
	TierFree    PriceTier = "free"
)

// Tiers lists every tier, cheapest-to-sell first as shown on the till.
var Tiers = []PriceTier{TierNormal, TierReduced, TierFree}

// Valid reports whether t is a known tier.
func (t PriceTier) Valid() bool {
	switch t {
	case TierNormal, TierReduced, TierFree:
		return true
	}
	return false
}

// ParseTier parses a tier name, case-insensitively.
func ParseTier(s string) (PriceTier, error) {
	t := PriceTier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidTier
	}
	return t, nil
}

// Action is the mutation applied to the selected order lines.
type Action string

const (
	ActionIncrement Action = "increment"
	ActionDecrement Action = "decrement"
	ActionDelete    Action = "delete"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionIncrement, ActionDecrement, ActionDelete:
		return true
	}
	return false
}

// ParseAction parses an action name. "+" and "-" are accepted as shorthands.
func ParseAction(s string) (Action, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "+":
		return ActionIncrement, nil
	case "-":
		return ActionDecrement, nil
	default:
		a := Action(v)
		if !a.Valid() {
			return "", ErrInvalidAction
		}
		return a, nil
	}
}
