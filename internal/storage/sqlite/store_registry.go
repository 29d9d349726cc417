package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thedeuce2/Game-Master/internal/storage"
	"github.com/thedeuce2/Game-Master/internal/world"
)

// PutPlayer upserts a player registry record.
func (s *Store) PutPlayer(ctx context.Context, player world.Player) error {
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO players (id, name, location)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			location = excluded.location`,
		player.ID, player.Name, player.Location)
	if err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}
	return nil
}

// GetPlayer returns a player registry record.
func (s *Store) GetPlayer(ctx context.Context, id string) (world.Player, error) {
	var player world.Player
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, location FROM players WHERE id = ?`, id).
		Scan(&player.ID, &player.Name, &player.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return world.Player{}, storage.ErrNotFound
	}
	if err != nil {
		return world.Player{}, fmt.Errorf("query player: %w", err)
	}
	return player, nil
}

// PutNPC upserts an NPC registry record.
func (s *Store) PutNPC(ctx context.Context, npc world.NPC) error {
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO npcs (id, name, description, location)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			location = excluded.location`,
		npc.ID, npc.Name, npc.Description, npc.Location)
	if err != nil {
		return fmt.Errorf("upsert npc: %w", err)
	}
	return nil
}

// GetNPC returns an NPC registry record.
func (s *Store) GetNPC(ctx context.Context, id string) (world.NPC, error) {
	var npc world.NPC
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name, description, location FROM npcs WHERE id = ?`, id).
		Scan(&npc.ID, &npc.Name, &npc.Description, &npc.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return world.NPC{}, storage.ErrNotFound
	}
	if err != nil {
		return world.NPC{}, fmt.Errorf("query npc: %w", err)
	}
	return npc, nil
}

// SetFlag upserts a world flag.
func (s *Store) SetFlag(ctx context.Context, key, value string) error {
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO world_flags (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("upsert world flag: %w", err)
	}
	return nil
}

// Flags returns all world flags.
func (s *Store) Flags(ctx context.Context) (map[string]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT key, value FROM world_flags`)
	if err != nil {
		return nil, fmt.Errorf("query world flags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	flags := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan world flag: %w", err)
		}
		flags[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate world flags: %w", err)
	}
	return flags, nil
}
