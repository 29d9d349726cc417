package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thedeuce2/Game-Master/internal/scene"
	"github.com/thedeuce2/Game-Master/internal/storage"
)

// Header returns the stored scene header, or storage.ErrNotFound before the
// first update.
func (s *Store) Header(ctx context.Context) (scene.Header, error) {
	var header scene.Header
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT date, time, location, funds FROM scene_header WHERE id = 1`).
		Scan(&header.Date, &header.Time, &header.Location, &header.Funds)
	if errors.Is(err, sql.ErrNoRows) {
		return scene.Header{}, storage.ErrNotFound
	}
	if err != nil {
		return scene.Header{}, fmt.Errorf("query scene header: %w", err)
	}
	return header, nil
}

// UpdateHeader applies update inside a transaction so the read-merge-write
// cycle is atomic.
func (s *Store) UpdateHeader(ctx context.Context, update func(scene.Header) scene.Header) (scene.Header, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return scene.Header{}, fmt.Errorf("begin header tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stored scene.Header
	err = tx.QueryRowContext(ctx,
		`SELECT date, time, location, funds FROM scene_header WHERE id = 1`).
		Scan(&stored.Date, &stored.Time, &stored.Location, &stored.Funds)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return scene.Header{}, fmt.Errorf("query scene header: %w", err)
	}

	updated := update(stored)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO scene_header (id, date, time, location, funds)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			time = excluded.time,
			location = excluded.location,
			funds = excluded.funds`,
		updated.Date, updated.Time, updated.Location, updated.Funds)
	if err != nil {
		return scene.Header{}, fmt.Errorf("upsert scene header: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return scene.Header{}, fmt.Errorf("commit header tx: %w", err)
	}
	return updated, nil
}
