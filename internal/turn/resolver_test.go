package turn

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/thedeuce2/Game-Master/internal/ledger"
	"github.com/thedeuce2/Game-Master/internal/scene"
	"github.com/thedeuce2/Game-Master/internal/storage"
	"github.com/thedeuce2/Game-Master/internal/storage/memory"
)

func moneyOutcome(amount int64) ledger.Outcome {
	return ledger.Outcome{
		Actor: ledger.Actor{Role: ledger.RoleNarrator},
		Money: []ledger.MoneyDelta{
			{OwnerType: ledger.OwnerPlayer, OwnerID: "p1", Currency: "USD", Amount: amount},
		},
	}
}

func TestResolveTurn_AppendsOneEventPerOutcome(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resolver := NewResolver(store, store)

	result, err := resolver.ResolveTurn(ctx, Proposal{
		PlayerID: "p1",
		SceneID:  "s1",
		Summary:  "Marcus settles the debt, then takes the knife back",
		Outcomes: []ledger.Outcome{moneyOutcome(5000), moneyOutcome(-2000)},
	})
	if err != nil {
		t.Fatalf("ResolveTurn returned error: %v", err)
	}
	if len(result.EventIDs) != 2 {
		t.Fatalf("len(eventIDs) = %d, want 2", len(result.EventIDs))
	}

	events, err := store.ListEvents(ctx, storage.EventFilter{Order: storage.OrderAsc})
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	// Proposal order is log order.
	if events[0].Outcomes[0].Money[0].Amount != 5000 || events[1].Outcomes[0].Money[0].Amount != -2000 {
		t.Fatalf("events out of proposal order: %+v", events)
	}
}

func TestResolveTurn_RefreshesProjections(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resolver := NewResolver(store, store)

	result, err := resolver.ResolveTurn(ctx, Proposal{
		PlayerID: "p1",
		Summary:  "Fifty in, twenty out",
		Outcomes: []ledger.Outcome{moneyOutcome(50), moneyOutcome(-20)},
	})
	if err != nil {
		t.Fatalf("ResolveTurn returned error: %v", err)
	}
	if len(result.Balances) != 1 || result.Balances[0].Amount != 30 {
		t.Fatalf("balances = %+v, want USD 30", result.Balances)
	}
}

func TestResolveTurn_NoOutcomesStillRecordsNarrative(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resolver := NewResolver(store, store)

	result, err := resolver.ResolveTurn(ctx, Proposal{
		PlayerID: "p1",
		Summary:  "The rain keeps falling on the empty street",
	})
	if err != nil {
		t.Fatalf("ResolveTurn returned error: %v", err)
	}
	if len(result.EventIDs) != 1 {
		t.Fatalf("len(eventIDs) = %d, want 1", len(result.EventIDs))
	}
}

func TestResolveTurn_ValidatesProposal(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resolver := NewResolver(store, store)

	if _, err := resolver.ResolveTurn(ctx, Proposal{Summary: "no player"}); !errors.Is(err, ErrEmptyPlayerID) {
		t.Fatalf("err = %v, want ErrEmptyPlayerID", err)
	}
	if _, err := resolver.ResolveTurn(ctx, Proposal{PlayerID: "p1"}); !errors.Is(err, ErrEmptySummary) {
		t.Fatalf("err = %v, want ErrEmptySummary", err)
	}

	events, err := store.ListEvents(ctx, storage.EventFilter{})
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("len(events) = %d, want 0 after rejected proposals", len(events))
	}
}

func TestResolveTurn_MergesHeaderNonDestructively(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resolver := NewResolver(store, store)

	first, err := resolver.ResolveTurn(ctx, Proposal{
		PlayerID: "p1",
		Summary:  "Night settles over the highway",
		Header:   scene.Header{Date: "October 31, 1999", Time: "11:59 PM", Location: "Desolate Highway", Funds: "$42.00"},
	})
	if err != nil {
		t.Fatalf("ResolveTurn returned error: %v", err)
	}
	if first.Header.Location != "Desolate Highway" {
		t.Fatalf("header = %+v", first.Header)
	}

	second, err := resolver.ResolveTurn(ctx, Proposal{
		PlayerID: "p1",
		Summary:  "A detour into the roadside bar",
		Header:   scene.Header{Location: "Bar"},
	})
	if err != nil {
		t.Fatalf("ResolveTurn returned error: %v", err)
	}
	want := first.Header
	want.Location = "Bar"
	if second.Header != want {
		t.Fatalf("header = %+v, want %+v", second.Header, want)
	}
}

func TestResolveTurn_SeedsHeaderOnFirstUse(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed := scene.Header{Date: "March 3, 1987", Time: "6:00 AM", Location: "Harbor", Funds: "$5.00"}
	resolver := NewResolver(store, store, WithSeedHeader(seed))

	result, err := resolver.ResolveTurn(ctx, Proposal{
		PlayerID: "p1",
		Summary:  "First light over the water",
	})
	if err != nil {
		t.Fatalf("ResolveTurn returned error: %v", err)
	}
	if result.Header != seed {
		t.Fatalf("header = %+v, want seed %+v", result.Header, seed)
	}
}

func TestResolveTurn_PrecheckIsAdvisory(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resolver := NewResolver(store, store)

	result, err := resolver.ResolveTurn(ctx, Proposal{
		PlayerID: "p1",
		Summary:  "You say you forgive him and walk away",
		NPCIDs:   []string{"n1", "n1"},
		Precheck: true,
	})
	if err != nil {
		t.Fatalf("ResolveTurn returned error: %v", err)
	}
	if result.Report == nil {
		t.Fatal("expected a precheck report")
	}
	if result.Report.Autonomy || result.Report.ActorIndividuality {
		t.Fatalf("report = %+v, want autonomy and individuality failures", result.Report)
	}
	// The turn is still recorded.
	if len(result.EventIDs) != 1 {
		t.Fatalf("len(eventIDs) = %d, want 1", len(result.EventIDs))
	}
}

func TestResolveTurn_NoPrecheckNoReport(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resolver := NewResolver(store, store)

	result, err := resolver.ResolveTurn(ctx, Proposal{
		PlayerID: "p1",
		Summary:  "A quiet, uneventful walk home",
	})
	if err != nil {
		t.Fatalf("ResolveTurn returned error: %v", err)
	}
	if result.Report != nil {
		t.Fatalf("report = %+v, want nil without precheck", result.Report)
	}
}

func TestResolveTurn_ConcurrentTurnsAllLand(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resolver := NewResolver(store, store)

	const n = 16
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			_, err := resolver.ResolveTurn(ctx, Proposal{
				PlayerID: "p1",
				Summary:  fmt.Sprintf("Concurrent turn %d resolves", i),
				Outcomes: []ledger.Outcome{moneyOutcome(1)},
			})
			errs <- err
		}(i)
	}
	for i := 0; i < n; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("ResolveTurn returned error: %v", err)
		}
	}

	events, err := store.ListEvents(ctx, storage.EventFilter{Order: storage.OrderAsc})
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if len(events) != n {
		t.Fatalf("len(events) = %d, want %d", len(events), n)
	}
	seen := make(map[uint64]bool, n)
	for _, evt := range events {
		if seen[evt.Seq] {
			t.Fatalf("duplicate seq %d", evt.Seq)
		}
		seen[evt.Seq] = true
	}
}

func TestPrecheck_UsesBoundedHistory(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resolver := NewResolver(store, store)

	report, err := resolver.Precheck(ctx, Proposal{
		PlayerID:     "p1",
		Summary:      "Marcus counts the take in the back room",
		HistoryDepth: 5,
	})
	if err != nil {
		t.Fatalf("Precheck returned error: %v", err)
	}
	if !report.Passed() {
		t.Fatalf("report = %+v, want pass", report)
	}

	report, err = resolver.Precheck(ctx, Proposal{
		PlayerID:     "p1",
		Summary:      "Marcus counts the take in the back room",
		HistoryDepth: -1,
	})
	if err != nil {
		t.Fatalf("Precheck returned error: %v", err)
	}
	if report.Continuity {
		t.Fatal("continuity should fail for negative history depth")
	}

	report, err = resolver.Precheck(ctx, Proposal{
		PlayerID: "p1",
		Summary:  "Marcus counts the take in the back room",
	})
	if err != nil {
		t.Fatalf("Precheck returned error: %v", err)
	}
	if !report.Continuity {
		t.Fatal("omitted depth should fall back to the default window")
	}
}
