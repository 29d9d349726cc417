package projection

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/thedeuce2/Game-Master/internal/ledger"
	"github.com/thedeuce2/Game-Master/internal/storage"
)

const cachePageSize = 200

// Cache materializes per-owner balance and inventory projections and
// advances them incrementally. Each entry remembers the last sequence it
// folded; reads replay only the events appended since. Because the log is
// append-only, a stale entry is never wrong, only behind.
//
// The cache is a performance layer: correctness always comes from the pure
// folds in this package.
type Cache struct {
	store storage.EventStore

	mu     sync.Mutex
	owners map[ownerKey]*ownerEntry
}

type ownerKey struct {
	ownerType ledger.OwnerType
	ownerID   string
}

type ownerEntry struct {
	lastSeq  uint64
	balances map[string]int64
	items    map[string]*itemState
}

// NewCache creates a projection cache over the given event store.
func NewCache(store storage.EventStore) *Cache {
	return &Cache{
		store:  store,
		owners: make(map[ownerKey]*ownerEntry),
	}
}

// Balances returns the cached balance set for an owner, refreshed to the
// current log. currency narrows the result when non-empty.
func (c *Cache) Balances(ctx context.Context, ownerType ledger.OwnerType, ownerID, currency string) ([]Balance, error) {
	entry, err := c.refresh(ctx, ownerKey{ownerType: ownerType, ownerID: ownerID})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	balances := make([]Balance, 0, len(entry.balances))
	for cur, amount := range entry.balances {
		if currency != "" && cur != currency {
			continue
		}
		balances = append(balances, Balance{
			OwnerType: ownerType,
			OwnerID:   ownerID,
			Currency:  cur,
			Amount:    amount,
		})
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].Currency < balances[j].Currency })
	return balances, nil
}

// Inventory returns the cached inventory snapshot for an owner, refreshed
// to the current log. Zero-quantity items are excluded.
func (c *Cache) Inventory(ctx context.Context, ownerType ledger.OwnerType, ownerID string) ([]Item, error) {
	entry, err := c.refresh(ctx, ownerKey{ownerType: ownerType, ownerID: ownerID})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]Item, 0, len(entry.items))
	for name, state := range entry.items {
		if state.quantity == 0 {
			continue
		}
		item := Item{Name: name, Quantity: state.quantity}
		if state.value != nil {
			value := *state.value
			item.Value = &value
		}
		if state.properties != nil {
			props := make(map[string]string, len(state.properties))
			for k, v := range state.properties {
				props[k] = v
			}
			item.Properties = props
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// Invalidate drops the cached entry for an owner. The next read replays
// that owner's history from the start of the log.
func (c *Cache) Invalidate(ownerType ledger.OwnerType, ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.owners, ownerKey{ownerType: ownerType, ownerID: ownerID})
}

// refresh folds events appended since the entry's last seen sequence.
func (c *Cache) refresh(ctx context.Context, key ownerKey) (*ownerEntry, error) {
	c.mu.Lock()
	entry, ok := c.owners[key]
	if !ok {
		entry = &ownerEntry{
			balances: make(map[string]int64),
			items:    make(map[string]*itemState),
		}
		c.owners[key] = entry
	}
	c.mu.Unlock()

	for {
		c.mu.Lock()
		after := entry.lastSeq
		c.mu.Unlock()

		events, err := c.store.ListEvents(ctx, storage.EventFilter{
			AfterSeq: after,
			Limit:    cachePageSize,
			Order:    storage.OrderAsc,
		})
		if err != nil {
			return nil, fmt.Errorf("list events after seq %d: %w", after, err)
		}
		if len(events) == 0 {
			return entry, nil
		}

		c.mu.Lock()
		for _, evt := range events {
			if evt.Seq <= entry.lastSeq {
				continue
			}
			entry.lastSeq = evt.Seq
			applyToEntry(entry, key, evt)
		}
		c.mu.Unlock()
	}
}

func applyToEntry(entry *ownerEntry, key ownerKey, evt ledger.Event) {
	for _, outcome := range evt.Outcomes {
		for _, delta := range outcome.Money {
			if delta.OwnerType != key.ownerType || delta.OwnerID != key.ownerID {
				continue
			}
			entry.balances[delta.Currency] += delta.Amount
		}
		for _, delta := range outcome.Inventory {
			if delta.OwnerType != key.ownerType || delta.OwnerID != key.ownerID {
				continue
			}
			state, ok := entry.items[delta.Item.Name]
			if !ok {
				state = &itemState{}
				entry.items[delta.Item.Name] = state
			}
			applyItemDelta(state, delta)
		}
	}
}
