// Package memory provides in-process player and session stores.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/nathoo/grandline/store"
	"github.com/nathoo/grandline/types"
)

// Store keeps players and sessions in maps guarded by a mutex.
// Records are copied in and out so callers never share state with the store.
type Store struct {
	mu       sync.Mutex
	players  map[string]types.Player
	sessions map[string]types.Session
}

// New creates an empty store.
func New() *Store {
	return &Store{
		players:  map[string]types.Player{},
		sessions: map[string]types.Session{},
	}
}

// GetPlayer returns a copy of the player or store.ErrNotFound.
func (s *Store) GetPlayer(ctx context.Context, id string) (types.Player, error) {
	if err := ctx.Err(); err != nil {
		return types.Player{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return types.Player{}, store.ErrNotFound
	}
	return clonePlayer(p), nil
}

// SavePlayer stores a copy of the player.
func (s *Store) SavePlayer(ctx context.Context, p types.Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.ID] = clonePlayer(p)
	return nil
}

// TopPlayers returns up to limit players ordered by berries, then level, then id.
func (s *Store) TopPlayers(ctx context.Context, limit int) ([]types.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	out := make([]types.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, clonePlayer(p))
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b types.Player) int {
		if c := cmp.Compare(b.Berries, a.Berries); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Level, a.Level); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetSession returns a copy of the player's session or store.ErrNotFound.
func (s *Store) GetSession(ctx context.Context, playerID string) (*types.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[playerID]
	if !ok {
		return nil, store.ErrNotFound
	}
	sess.Moves = slices.Clone(sess.Moves)
	return &sess, nil
}

// PutSession stores a copy of the session under its player id.
func (s *Store) PutSession(ctx context.Context, sess *types.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := *sess
	cp.Moves = slices.Clone(sess.Moves)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.PlayerID] = cp
	return nil
}

// DeleteSession removes the player's session. Missing sessions are not an error.
func (s *Store) DeleteSession(ctx context.Context, playerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, playerID)
	return nil
}

// ActiveSessions returns the number of sessions held.
func (s *Store) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func clonePlayer(p types.Player) types.Player {
	p.Buffs = slices.Clone(p.Buffs)
	if p.Buffs == nil {
		p.Buffs = []types.Buff{}
	}
	if p.DevilFruit != nil {
		df := *p.DevilFruit
		p.DevilFruit = &df
	}
	return p
}
