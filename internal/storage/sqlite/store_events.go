package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thedeuce2/Game-Master/internal/ledger"
	"github.com/thedeuce2/Game-Master/internal/storage"
)

// AppendEvent appends one event to the ledger.
func (s *Store) AppendEvent(ctx context.Context, evt ledger.Event) (ledger.Event, error) {
	events, err := s.AppendEvents(ctx, []ledger.Event{evt})
	if err != nil {
		return ledger.Event{}, err
	}
	return events[0], nil
}

// AppendEvents appends a batch in one transaction. Validation runs before the
// transaction opens, so a bad batch writes nothing.
func (s *Store) AppendEvents(ctx context.Context, evts []ledger.Event) ([]ledger.Event, error) {
	for _, evt := range evts {
		if err := ledger.ValidateForAppend(evt); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var lastTsMillis int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(timestamp), 0) FROM events`).Scan(&lastTsMillis); err != nil {
		return nil, fmt.Errorf("read last timestamp: %w", err)
	}

	appended := make([]ledger.Event, 0, len(evts))
	for _, evt := range evts {
		if evt.EventID == "" {
			evt.EventID = uuid.NewString()
		}
		if evt.Timestamp.IsZero() {
			evt.Timestamp = time.Now().UTC()
		}
		evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)
		// Timestamps never regress within a store instance.
		if ts := evt.Timestamp.UnixMilli(); ts < lastTsMillis {
			evt.Timestamp = fromMillis(lastTsMillis)
		}
		lastTsMillis = evt.Timestamp.UnixMilli()

		outcomes, err := json.Marshal(evt.Outcomes)
		if err != nil {
			return nil, fmt.Errorf("marshal outcomes: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO events (event_id, timestamp, player_id, scene_id, summary, detail, outcomes_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			evt.EventID, evt.Timestamp.UnixMilli(), evt.PlayerID, evt.SceneID, evt.Summary, evt.Detail, outcomes)
		if err != nil {
			return nil, fmt.Errorf("insert event: %w", err)
		}
		seq, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("read event seq: %w", err)
		}
		evt.Seq = uint64(seq)
		appended = append(appended, evt)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append tx: %w", err)
	}
	return appended, nil
}

// ListEvents returns events matching the filter in sequence order.
func (s *Store) ListEvents(ctx context.Context, filter storage.EventFilter) ([]ledger.Event, error) {
	query := `SELECT seq, event_id, timestamp, player_id, scene_id, summary, detail, outcomes_json FROM events`
	var conds []string
	var args []any
	if filter.PlayerID != "" {
		conds = append(conds, "player_id = ?")
		args = append(args, filter.PlayerID)
	}
	if filter.SceneID != "" {
		conds = append(conds, "scene_id = ?")
		args = append(args, filter.SceneID)
	}
	if !filter.Since.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, filter.Since.UTC().UnixMilli())
	}
	if filter.AfterSeq > 0 {
		conds = append(conds, "seq > ?")
		args = append(args, int64(filter.AfterSeq))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if filter.Order == storage.OrderDesc {
		query += " ORDER BY seq DESC"
	} else {
		query += " ORDER BY seq ASC"
	}
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []ledger.Event
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func scanEvent(rows *sql.Rows) (ledger.Event, error) {
	var (
		evt      ledger.Event
		seq      int64
		tsMillis int64
		outcomes []byte
	)
	if err := rows.Scan(&seq, &evt.EventID, &tsMillis, &evt.PlayerID, &evt.SceneID, &evt.Summary, &evt.Detail, &outcomes); err != nil {
		return ledger.Event{}, fmt.Errorf("scan event: %w", err)
	}
	evt.Seq = uint64(seq)
	evt.Timestamp = fromMillis(tsMillis)
	if len(outcomes) > 0 {
		if err := json.Unmarshal(outcomes, &evt.Outcomes); err != nil {
			return ledger.Event{}, fmt.Errorf("unmarshal outcomes: %w", err)
		}
	}
	return evt, nil
}

func fromMillis(millis int64) time.Time {
	return time.UnixMilli(millis).UTC()
}
