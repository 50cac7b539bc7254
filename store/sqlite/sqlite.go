// Package sqlite provides a SQLite-backed player store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nathoo/grandline/engine/save"
	"github.com/nathoo/grandline/store"
	"github.com/nathoo/grandline/store/sqlite/migrations"
	"github.com/nathoo/grandline/types"
)

// Store persists player records in SQLite. The full record is stored as
// JSON; level and berries are duplicated into columns for ranking.
type Store struct {
	db *sql.DB
}

// Open opens the database at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetPlayer loads a player by id or returns store.ErrNotFound.
func (s *Store) GetPlayer(ctx context.Context, id string) (types.Player, error) {
	if err := ctx.Err(); err != nil {
		return types.Player{}, err
	}
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM players WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Player{}, store.ErrNotFound
	}
	if err != nil {
		return types.Player{}, fmt.Errorf("get player %s: %w", id, err)
	}
	return save.DecodePlayer([]byte(data))
}

// SavePlayer inserts or replaces the player record.
func (s *Store) SavePlayer(ctx context.Context, p types.Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	data, err := save.EncodePlayer(p)
	if err != nil {
		return fmt.Errorf("encode player %s: %w", p.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO players (id, level, berries, data, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   level = excluded.level,
		   berries = excluded.berries,
		   data = excluded.data,
		   updated_at = excluded.updated_at`,
		p.ID, p.Level, p.Berries, string(data), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save player %s: %w", p.ID, err)
	}
	return nil
}

// TopPlayers returns up to limit players ordered by berries, richest first.
func (s *Store) TopPlayers(ctx context.Context, limit int) ([]types.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM players ORDER BY berries DESC, level DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var out []types.Player
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p, err := save.DecodePlayer([]byte(data))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return out, nil
}
