// Package memory provides an in-memory store for tests and ephemeral runs.
// It satisfies the same contracts as the SQLite store: serialized appends,
// monotonic sequence and timestamps, snapshot-isolated reads.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thedeuce2/Game-Master/internal/ledger"
	"github.com/thedeuce2/Game-Master/internal/scene"
	"github.com/thedeuce2/Game-Master/internal/storage"
	"github.com/thedeuce2/Game-Master/internal/world"
)

// Store implements every storage interface in process memory.
type Store struct {
	mu      sync.RWMutex
	events  []ledger.Event
	lastSeq uint64
	lastTs  time.Time

	header    scene.Header
	headerSet bool

	players map[string]world.Player
	npcs    map[string]world.NPC
	flags   map[string]string

	now func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		players: make(map[string]world.Player),
		npcs:    make(map[string]world.NPC),
		flags:   make(map[string]string),
		now:     time.Now,
	}
}

// AppendEvent appends one event under the writer lock.
func (s *Store) AppendEvent(ctx context.Context, evt ledger.Event) (ledger.Event, error) {
	events, err := s.AppendEvents(ctx, []ledger.Event{evt})
	if err != nil {
		return ledger.Event{}, err
	}
	return events[0], nil
}

// AppendEvents appends a batch atomically: validation runs before any event
// is admitted, so a bad batch writes nothing.
func (s *Store) AppendEvents(ctx context.Context, evts []ledger.Event) ([]ledger.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, evt := range evts {
		if err := ledger.ValidateForAppend(evt); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	appended := make([]ledger.Event, 0, len(evts))
	for _, evt := range evts {
		if evt.EventID == "" {
			evt.EventID = uuid.NewString()
		}
		if evt.Timestamp.IsZero() {
			evt.Timestamp = s.now().UTC()
		}
		evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)
		// Timestamps never regress within a store instance.
		if evt.Timestamp.Before(s.lastTs) {
			evt.Timestamp = s.lastTs
		}
		s.lastTs = evt.Timestamp

		s.lastSeq++
		evt.Seq = s.lastSeq
		appended = append(appended, evt)
	}

	s.events = append(s.events, appended...)
	return appended, nil
}

// ListEvents returns events matching the filter. Results are copies; the
// log itself is never handed out.
func (s *Store) ListEvents(ctx context.Context, filter storage.EventFilter) ([]ledger.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]ledger.Event, 0, len(s.events))
	for _, evt := range s.events {
		if filter.PlayerID != "" && evt.PlayerID != filter.PlayerID {
			continue
		}
		if filter.SceneID != "" && evt.SceneID != filter.SceneID {
			continue
		}
		if !filter.Since.IsZero() && evt.Timestamp.Before(filter.Since) {
			continue
		}
		if filter.AfterSeq > 0 && evt.Seq <= filter.AfterSeq {
			continue
		}
		matched = append(matched, evt)
	}
	s.mu.RUnlock()

	if filter.Order == storage.OrderDesc {
		sort.Slice(matched, func(i, j int) bool { return matched[i].Seq > matched[j].Seq })
	} else {
		sort.Slice(matched, func(i, j int) bool { return matched[i].Seq < matched[j].Seq })
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// Header returns the stored scene header.
func (s *Store) Header(ctx context.Context) (scene.Header, error) {
	if err := ctx.Err(); err != nil {
		return scene.Header{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.headerSet {
		return scene.Header{}, storage.ErrNotFound
	}
	return s.header, nil
}

// UpdateHeader applies update under the writer lock, making the
// read-merge-write cycle atomic.
func (s *Store) UpdateHeader(ctx context.Context, update func(scene.Header) scene.Header) (scene.Header, error) {
	if err := ctx.Err(); err != nil {
		return scene.Header{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.header = update(s.header)
	s.headerSet = true
	return s.header, nil
}

// PutPlayer persists a player registry record.
func (s *Store) PutPlayer(ctx context.Context, player world.Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

// GetPlayer returns a player registry record.
func (s *Store) GetPlayer(ctx context.Context, id string) (world.Player, error) {
	if err := ctx.Err(); err != nil {
		return world.Player{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return world.Player{}, storage.ErrNotFound
	}
	return player, nil
}

// PutNPC persists an NPC registry record.
func (s *Store) PutNPC(ctx context.Context, npc world.NPC) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.npcs[npc.ID] = npc
	return nil
}

// GetNPC returns an NPC registry record.
func (s *Store) GetNPC(ctx context.Context, id string) (world.NPC, error) {
	if err := ctx.Err(); err != nil {
		return world.NPC{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	npc, ok := s.npcs[id]
	if !ok {
		return world.NPC{}, storage.ErrNotFound
	}
	return npc, nil
}

// SetFlag upserts a world flag.
func (s *Store) SetFlag(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[key] = value
	return nil
}

// Flags returns a copy of all world flags.
func (s *Store) Flags(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	flags := make(map[string]string, len(s.flags))
	for k, v := range s.flags {
		flags[k] = v
	}
	return flags, nil
}
