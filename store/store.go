// Package store defines the persistence contracts the combat core depends on.
// Implementations live in subpackages (memory, sqlite, bolt).
package store

import (
	"context"
	"errors"

	"github.com/nathoo/grandline/types"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// PlayerStore persists player progression records.
type PlayerStore interface {
	GetPlayer(ctx context.Context, id string) (types.Player, error)
	SavePlayer(ctx context.Context, p types.Player) error
}

// SessionStore holds at most one session per player id.
type SessionStore interface {
	GetSession(ctx context.Context, playerID string) (*types.Session, error)
	PutSession(ctx context.Context, s *types.Session) error
	DeleteSession(ctx context.Context, playerID string) error
}

// Leaderboard is implemented by player stores that can rank players.
type Leaderboard interface {
	TopPlayers(ctx context.Context, limit int) ([]types.Player, error)
}
