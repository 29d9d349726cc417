package projection

import (
	"reflect"
	"testing"

	"github.com/thedeuce2/Game-Master/internal/ledger"
)

func moneyEvent(seq uint64, ownerID, currency string, amount int64) ledger.Event {
	return ledger.Event{
		Seq:      seq,
		PlayerID: "p1",
		Summary:  "money changes hands",
		Outcomes: []ledger.Outcome{
			{
				Actor: ledger.Actor{Role: ledger.RoleNarrator},
				Money: []ledger.MoneyDelta{
					{OwnerType: ledger.OwnerPlayer, OwnerID: ownerID, Currency: currency, Amount: amount},
				},
			},
		},
	}
}

func inventoryEvent(seq uint64, ownerID string, op ledger.ItemOp, name string, amount int64) ledger.Event {
	return ledger.Event{
		Seq:      seq,
		PlayerID: "p1",
		Summary:  "inventory changes",
		Outcomes: []ledger.Outcome{
			{
				Actor: ledger.Actor{Role: ledger.RoleNarrator},
				Inventory: []ledger.InventoryDelta{
					{OwnerType: ledger.OwnerPlayer, OwnerID: ownerID, Op: op, Item: ledger.Item{Name: name, Amount: amount}},
				},
			},
		},
	}
}

func TestBalances_SumsInLogOrder(t *testing.T) {
	events := []ledger.Event{
		moneyEvent(1, "p1", "USD", 5000),
		moneyEvent(2, "p1", "USD", -2000),
	}

	balances := Balances(events, ledger.OwnerPlayer, "p1", "")
	if len(balances) != 1 {
		t.Fatalf("len(balances) = %d, want 1", len(balances))
	}
	if balances[0].Amount != 3000 {
		t.Fatalf("balance = %d, want 3000", balances[0].Amount)
	}
}

func TestBalances_FiltersOwnerAndCurrency(t *testing.T) {
	events := []ledger.Event{
		moneyEvent(1, "p1", "USD", 100),
		moneyEvent(2, "p2", "USD", 999),
		moneyEvent(3, "p1", "EUR", 250),
	}

	all := Balances(events, ledger.OwnerPlayer, "p1", "")
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}
	// Sorted by currency.
	if all[0].Currency != "EUR" || all[1].Currency != "USD" {
		t.Fatalf("currencies = %q, %q", all[0].Currency, all[1].Currency)
	}

	usd := Balances(events, ledger.OwnerPlayer, "p1", "USD")
	if len(usd) != 1 || usd[0].Amount != 100 {
		t.Fatalf("usd = %+v, want one USD balance of 100", usd)
	}
}

func TestBalances_NegativeIsPreserved(t *testing.T) {
	events := []ledger.Event{moneyEvent(1, "p1", "USD", -500)}
	balances := Balances(events, ledger.OwnerPlayer, "p1", "")
	if len(balances) != 1 || balances[0].Amount != -500 {
		t.Fatalf("balances = %+v, want a single -500 balance", balances)
	}
}

func TestBalances_EmptyLogYieldsEmptySet(t *testing.T) {
	if got := Balances(nil, ledger.OwnerPlayer, "nobody", ""); len(got) != 0 {
		t.Fatalf("balances = %+v, want empty", got)
	}
}

func TestBalances_IsDeterministic(t *testing.T) {
	events := []ledger.Event{
		moneyEvent(1, "p1", "USD", 5000),
		moneyEvent(2, "p1", "EUR", 100),
		moneyEvent(3, "p1", "USD", -2000),
	}
	first := Balances(events, ledger.OwnerPlayer, "p1", "")
	second := Balances(events, ledger.OwnerPlayer, "p1", "")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("replay diverged: %+v vs %+v", first, second)
	}
}

func TestInventory_AddThenRemoveExcludesItem(t *testing.T) {
	events := []ledger.Event{
		inventoryEvent(1, "p1", ledger.ItemOpAdd, "knife", 1),
		inventoryEvent(2, "p1", ledger.ItemOpRemove, "knife", 1),
	}
	items := Inventory(events, ledger.OwnerPlayer, "p1")
	if len(items) != 0 {
		t.Fatalf("items = %+v, want empty snapshot", items)
	}
}

func TestInventory_SetReplacesQuantity(t *testing.T) {
	events := []ledger.Event{
		inventoryEvent(1, "p1", ledger.ItemOpAdd, "rations", 3),
		inventoryEvent(2, "p1", ledger.ItemOpSet, "rations", 10),
	}
	items := Inventory(events, ledger.OwnerPlayer, "p1")
	if len(items) != 1 || items[0].Quantity != 10 {
		t.Fatalf("items = %+v, want rations x10", items)
	}
}

func TestInventory_NegativeQuantityIsFlaggedNotRejected(t *testing.T) {
	events := []ledger.Event{
		inventoryEvent(1, "p1", ledger.ItemOpRemove, "rope", 2),
	}
	items := Inventory(events, ledger.OwnerPlayer, "p1")
	if len(items) != 1 || items[0].Quantity != -2 {
		t.Fatalf("items = %+v, want rope x-2", items)
	}
}

func TestInventory_CarriesValueAndProperties(t *testing.T) {
	value := int64(1500)
	events := []ledger.Event{
		{
			Seq:      1,
			PlayerID: "p1",
			Summary:  "a gift",
			Outcomes: []ledger.Outcome{
				{
					Actor: ledger.Actor{Role: ledger.RoleNPC, ID: "marcus"},
					Inventory: []ledger.InventoryDelta{
						{
							OwnerType: ledger.OwnerPlayer,
							OwnerID:   "p1",
							Op:        ledger.ItemOpAdd,
							Item: ledger.Item{
								Name:       "locket",
								Amount:     1,
								Value:      &value,
								Properties: map[string]string{"engraving": "M+E"},
							},
						},
					},
				},
			},
		},
	}

	items := Inventory(events, ledger.OwnerPlayer, "p1")
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].Value == nil || *items[0].Value != 1500 {
		t.Fatalf("value = %v, want 1500", items[0].Value)
	}
	if items[0].Properties["engraving"] != "M+E" {
		t.Fatalf("properties = %v", items[0].Properties)
	}
}

func TestRelationships_AccumulatesAttitude(t *testing.T) {
	events := []ledger.Event{
		{
			Seq: 1, PlayerID: "p1", Summary: "a kindness",
			Outcomes: []ledger.Outcome{
				{
					Actor: ledger.Actor{Role: ledger.RoleNPC, ID: "marcus"},
					Relationships: []ledger.RelationshipDelta{
						{SourceID: "marcus", TargetID: "p1", TargetType: "player", Attitude: 0.5, Notes: "grateful"},
					},
				},
			},
		},
		{
			Seq: 2, PlayerID: "p1", Summary: "a slight",
			Outcomes: []ledger.Outcome{
				{
					Actor: ledger.Actor{Role: ledger.RoleNPC, ID: "marcus"},
					Relationships: []ledger.RelationshipDelta{
						{SourceID: "marcus", TargetID: "p1", Attitude: -0.2, PublicShift: "cool politeness"},
					},
				},
			},
		},
	}

	rels := Relationships(events, "marcus")
	if len(rels) != 1 {
		t.Fatalf("len(rels) = %d, want 1", len(rels))
	}
	rel := rels[0]
	if rel.Attitude != 0.3 {
		t.Fatalf("attitude = %v, want 0.3", rel.Attitude)
	}
	if rel.TargetType != "player" {
		t.Fatalf("target type = %q, want player", rel.TargetType)
	}
	if rel.PublicShift != "cool politeness" {
		t.Fatalf("public shift = %q", rel.PublicShift)
	}
	if len(rel.Notes) != 1 || rel.Notes[0] != "grateful" {
		t.Fatalf("notes = %v", rel.Notes)
	}
}

func TestRelationships_UnknownSourceYieldsEmptySet(t *testing.T) {
	if got := Relationships(nil, "stranger"); len(got) != 0 {
		t.Fatalf("rels = %+v, want empty", got)
	}
}
