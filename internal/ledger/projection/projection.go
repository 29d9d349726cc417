// Package projection derives queryable views by replaying ledger events.
//
// Every function here is a pure fold over an event sequence: given the same
// events in the same order, the result is identical no matter when or how
// often it is computed. A log prefix suffices; nothing requires the full
// store. Negative balances and quantities are valid derived states and are
// never clamped or rejected.
package projection

import (
	"sort"

	"github.com/thedeuce2/Game-Master/internal/ledger"
)

// Balance is the running sum of money deltas for one (owner, currency) key.
type Balance struct {
	OwnerType ledger.OwnerType `json:"owner_type"`
	OwnerID   string           `json:"owner_id"`
	Currency  string           `json:"currency"`
	Amount    int64            `json:"amount"`
}

// Item is one entry of a derived inventory snapshot.
type Item struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	// Value is the per-unit value in minor currency units, when known.
	Value      *int64            `json:"value,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Relationship is the derived attitude of one actor toward another.
type Relationship struct {
	SourceID    string   `json:"source_id"`
	TargetID    string   `json:"target_id"`
	TargetType  string   `json:"target_type,omitempty"`
	Attitude    float64  `json:"attitude"`
	PublicShift string   `json:"public_shift,omitempty"`
	Notes       []string `json:"notes,omitempty"`
}

// Balances folds money deltas for the given owner in log order. currency
// narrows the result to a single currency when non-empty. Later events only
// accumulate; they never overwrite earlier sums.
func Balances(events []ledger.Event, ownerType ledger.OwnerType, ownerID, currency string) []Balance {
	sums := make(map[string]int64)
	for _, evt := range events {
		for _, outcome := range evt.Outcomes {
			for _, delta := range outcome.Money {
				if delta.OwnerType != ownerType || delta.OwnerID != ownerID {
					continue
				}
				if currency != "" && delta.Currency != currency {
					continue
				}
				sums[delta.Currency] += delta.Amount
			}
		}
	}

	balances := make([]Balance, 0, len(sums))
	for cur, amount := range sums {
		balances = append(balances, Balance{
			OwnerType: ownerType,
			OwnerID:   ownerID,
			Currency:  cur,
			Amount:    amount,
		})
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].Currency < balances[j].Currency })
	return balances
}

type itemState struct {
	quantity   int64
	value      *int64
	properties map[string]string
}

// Inventory folds inventory deltas for the given owner in log order: add
// increments, remove decrements, set replaces. Items whose quantity is
// exactly zero are excluded from the snapshot.
func Inventory(events []ledger.Event, ownerType ledger.OwnerType, ownerID string) []Item {
	states := make(map[string]*itemState)
	for _, evt := range events {
		for _, outcome := range evt.Outcomes {
			for _, delta := range outcome.Inventory {
				if delta.OwnerType != ownerType || delta.OwnerID != ownerID {
					continue
				}
				state, ok := states[delta.Item.Name]
				if !ok {
					state = &itemState{}
					states[delta.Item.Name] = state
				}
				applyItemDelta(state, delta)
			}
		}
	}

	items := make([]Item, 0, len(states))
	for name, state := range states {
		if state.quantity == 0 {
			continue
		}
		items = append(items, Item{
			Name:       name,
			Quantity:   state.quantity,
			Value:      state.value,
			Properties: state.properties,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

func applyItemDelta(state *itemState, delta ledger.InventoryDelta) {
	switch delta.Op {
	case ledger.ItemOpAdd:
		state.quantity += delta.Item.Amount
	case ledger.ItemOpRemove:
		state.quantity -= delta.Item.Amount
	case ledger.ItemOpSet:
		state.quantity = delta.Item.Amount
	}
	if delta.Item.Value != nil {
		value := *delta.Item.Value
		state.value = &value
	}
	if delta.Item.Properties != nil {
		props := make(map[string]string, len(delta.Item.Properties))
		for k, v := range delta.Item.Properties {
			props[k] = v
		}
		if delta.Op == ledger.ItemOpSet {
			state.properties = props
		} else {
			if state.properties == nil {
				state.properties = make(map[string]string, len(props))
			}
			for k, v := range props {
				state.properties[k] = v
			}
		}
	}
}

type relationshipKey struct {
	sourceID string
	targetID string
}

// Relationships folds relationship deltas in log order. sourceID narrows
// the result to one actor's outgoing relationships when non-empty. Attitude
// accumulates; the public shift is last-writer-wins; notes accumulate.
func Relationships(events []ledger.Event, sourceID string) []Relationship {
	states := make(map[relationshipKey]*Relationship)
	for _, evt := range events {
		for _, outcome := range evt.Outcomes {
			for _, delta := range outcome.Relationships {
				if sourceID != "" && delta.SourceID != sourceID {
					continue
				}
				key := relationshipKey{sourceID: delta.SourceID, targetID: delta.TargetID}
				state, ok := states[key]
				if !ok {
					state = &Relationship{
						SourceID: delta.SourceID,
						TargetID: delta.TargetID,
					}
					states[key] = state
				}
				state.Attitude += delta.Attitude
				if delta.TargetType != "" {
					state.TargetType = delta.TargetType
				}
				if delta.PublicShift != "" {
					state.PublicShift = delta.PublicShift
				}
				if delta.Notes != "" {
					state.Notes = append(state.Notes, delta.Notes)
				}
			}
		}
	}

	relationships := make([]Relationship, 0, len(states))
	for _, state := range states {
		relationships = append(relationships, *state)
	}
	sort.Slice(relationships, func(i, j int) bool {
		if relationships[i].SourceID != relationships[j].SourceID {
			return relationships[i].SourceID < relationships[j].SourceID
		}
		return relationships[i].TargetID < relationships[j].TargetID
	})
	return relationships
}
