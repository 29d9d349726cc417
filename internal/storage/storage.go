package storage

import (
	"context"
	"errors"
	"time"

	"github.com/thedeuce2/Game-Master/internal/ledger"
	"github.com/thedeuce2/Game-Master/internal/scene"
	"github.com/thedeuce2/Game-Master/internal/world"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Order controls event listing direction.
type Order string

const (
	// OrderAsc lists events oldest first.
	OrderAsc Order = "asc"
	// OrderDesc lists events newest first.
	OrderDesc Order = "desc"
)

// EventFilter narrows an event listing. Zero-valued fields are ignored.
type EventFilter struct {
	PlayerID string
	SceneID  string
	// Since keeps events with a timestamp at or after the given instant.
	Since time.Time
	// AfterSeq keeps events with a sequence strictly greater than the value.
	AfterSeq uint64
	// Limit caps the result size; 0 means no cap.
	Limit int
	Order Order
}

// EventStore persists the append-only event log.
//
// Appends are serialized per store instance: Seq is a single monotonic
// sequence and timestamps never regress. Reads never block appends.
type EventStore interface {
	// AppendEvent appends one event, assigning EventID, Seq, and Timestamp
	// as needed, and returns the stored event.
	AppendEvent(ctx context.Context, evt ledger.Event) (ledger.Event, error)
	// AppendEvents appends a batch atomically: either every event persists
	// or none do.
	AppendEvents(ctx context.Context, evts []ledger.Event) ([]ledger.Event, error)
	// ListEvents returns events matching the filter in the requested order.
	// An empty result is not an error.
	ListEvents(ctx context.Context, filter EventFilter) ([]ledger.Event, error)
}

// HeaderStore persists the singleton scene continuity header.
type HeaderStore interface {
	// Header returns the stored header, or ErrNotFound before first use.
	Header(ctx context.Context) (scene.Header, error)
	// UpdateHeader atomically applies update to the stored header (zero
	// value before first use) and persists the result.
	UpdateHeader(ctx context.Context, update func(scene.Header) scene.Header) (scene.Header, error)
}

// RegistryStore persists player, NPC, and flag registry records.
// world.Service consumes it through its own narrower interface.
type RegistryStore interface {
	PutPlayer(ctx context.Context, player world.Player) error
	GetPlayer(ctx context.Context, id string) (world.Player, error)
	PutNPC(ctx context.Context, npc world.NPC) error
	GetNPC(ctx context.Context, id string) (world.NPC, error)
	SetFlag(ctx context.Context, key, value string) error
	Flags(ctx context.Context) (map[string]string, error)
}
