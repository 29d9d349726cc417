package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/thedeuce2/Game-Master/internal/ledger"
	"github.com/thedeuce2/Game-Master/internal/scene"
	"github.com/thedeuce2/Game-Master/internal/storage"
)

func testEvent(playerID, summary string) ledger.Event {
	return ledger.Event{PlayerID: playerID, Summary: summary}
}

func TestAppendEvent_AssignsIdentitySeqAndTimestamp(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	evt, err := store.AppendEvent(ctx, testEvent("p1", "the bar falls silent"))
	if err != nil {
		t.Fatalf("AppendEvent returned error: %v", err)
	}
	if evt.EventID == "" {
		t.Fatal("event id was not assigned")
	}
	if evt.Seq != 1 {
		t.Fatalf("seq = %d, want 1", evt.Seq)
	}
	if evt.Timestamp.IsZero() {
		t.Fatal("timestamp was not assigned")
	}
}

func TestAppendEvent_TimestampsNeverRegress(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	late := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	early := late.Add(-time.Hour)

	if _, err := store.AppendEvent(ctx, ledger.Event{PlayerID: "p1", Summary: "later", Timestamp: late}); err != nil {
		t.Fatalf("AppendEvent returned error: %v", err)
	}
	evt, err := store.AppendEvent(ctx, ledger.Event{PlayerID: "p1", Summary: "earlier", Timestamp: early})
	if err != nil {
		t.Fatalf("AppendEvent returned error: %v", err)
	}
	if evt.Timestamp.Before(late) {
		t.Fatalf("timestamp regressed: %v < %v", evt.Timestamp, late)
	}
}

func TestAppendEvents_RejectsWholeBatchOnValidation(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.AppendEvents(ctx, []ledger.Event{
		testEvent("p1", "fine"),
		{PlayerID: "p1"}, // missing summary
	})
	if !errors.Is(err, ledger.ErrEmptySummary) {
		t.Fatalf("err = %v, want ErrEmptySummary", err)
	}

	events, err := store.ListEvents(ctx, storage.EventFilter{})
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("len(events) = %d, want 0 after rejected batch", len(events))
	}
}

func TestListEvents_Filters(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	for _, evt := range []ledger.Event{
		{PlayerID: "p1", SceneID: "s1", Summary: "one"},
		{PlayerID: "p2", SceneID: "s1", Summary: "two"},
		{PlayerID: "p1", SceneID: "s2", Summary: "three"},
	} {
		if _, err := store.AppendEvent(ctx, evt); err != nil {
			t.Fatalf("AppendEvent returned error: %v", err)
		}
	}

	byPlayer, err := store.ListEvents(ctx, storage.EventFilter{PlayerID: "p1"})
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if len(byPlayer) != 2 {
		t.Fatalf("len(byPlayer) = %d, want 2", len(byPlayer))
	}

	byScene, err := store.ListEvents(ctx, storage.EventFilter{SceneID: "s2"})
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if len(byScene) != 1 || byScene[0].Summary != "three" {
		t.Fatalf("byScene = %+v", byScene)
	}

	desc, err := store.ListEvents(ctx, storage.EventFilter{Order: storage.OrderDesc, Limit: 1})
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if len(desc) != 1 || desc[0].Summary != "three" {
		t.Fatalf("desc = %+v, want newest event only", desc)
	}

	empty, err := store.ListEvents(ctx, storage.EventFilter{PlayerID: "nobody"})
	if err != nil {
		t.Fatalf("ListEvents returned error for empty result: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("empty = %+v", empty)
	}
}

func TestListEvents_AppendOnlyPrefixProperty(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if _, err := store.AppendEvent(ctx, testEvent("p1", "first")); err != nil {
		t.Fatalf("AppendEvent returned error: %v", err)
	}
	before, err := store.ListEvents(ctx, storage.EventFilter{Order: storage.OrderAsc})
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}

	if _, err := store.AppendEvent(ctx, testEvent("p1", "second")); err != nil {
		t.Fatalf("AppendEvent returned error: %v", err)
	}
	after, err := store.ListEvents(ctx, storage.EventFilter{Order: storage.OrderAsc})
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}

	if len(after) != len(before)+1 {
		t.Fatalf("len(after) = %d, want %d", len(after), len(before)+1)
	}
	for i, evt := range before {
		if after[i].EventID != evt.EventID || after[i].Summary != evt.Summary {
			t.Fatalf("prefix changed at %d: %+v vs %+v", i, after[i], evt)
		}
	}
}

func TestAppendEvent_ConcurrentAppendsGetDistinctOrderedSeqs(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	const n = 64
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.AppendEvent(ctx, testEvent("p1", "concurrent turn"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("AppendEvent returned error: %v", err)
		}
	}

	events, err := store.ListEvents(ctx, storage.EventFilter{Order: storage.OrderAsc})
	if err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if len(events) != n {
		t.Fatalf("len(events) = %d, want %d", len(events), n)
	}
	for i, evt := range events {
		if evt.Seq != uint64(i+1) {
			t.Fatalf("seq[%d] = %d, want %d", i, evt.Seq, i+1)
		}
	}
}

func TestHeader_NotFoundBeforeFirstUse(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	if _, err := store.Header(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateHeader_ReadMergeWriteIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.UpdateHeader(ctx, func(h scene.Header) scene.Header {
				if h.Location == "" {
					h.Location = "Bar"
				}
				h.Date = h.Date + "x"
				return h
			})
		}()
	}
	wg.Wait()

	header, err := store.Header(ctx)
	if err != nil {
		t.Fatalf("Header returned error: %v", err)
	}
	if len(header.Date) != n {
		t.Fatalf("lost updates: %d applied, want %d", len(header.Date), n)
	}
}

func TestRegistry_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if _, err := store.GetPlayer(ctx, "p1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if err := store.SetFlag(ctx, "curfew", "active"); err != nil {
		t.Fatalf("SetFlag returned error: %v", err)
	}
	if err := store.SetFlag(ctx, "curfew", "lifted"); err != nil {
		t.Fatalf("SetFlag returned error: %v", err)
	}
	flags, err := store.Flags(ctx)
	if err != nil {
		t.Fatalf("Flags returned error: %v", err)
	}
	if flags["curfew"] != "lifted" {
		t.Fatalf("flags = %v, want curfew=lifted", flags)
	}
}
