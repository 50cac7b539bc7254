// Package engine owns combat sessions: it opens a battle between a player
// and a generated enemy, resolves each submitted action together with the
// enemy's reply, and tears the session down once it ends.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/nathoo/grandline/engine/progress"
	"github.com/nathoo/grandline/engine/stats"
	"github.com/nathoo/grandline/store"
	"github.com/nathoo/grandline/types"
)

// Engine resolves combat against an injected session store.
// Calls for the same player must be serialized by the caller.
type Engine struct {
	Sessions store.SessionStore
	RNG      Random
	Rules    progress.Rules
	Now      func() time.Time
	Log      *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules overrides the reward and leveling constants.
func WithRules(r progress.Rules) Option {
	return func(e *Engine) { e.Rules = r }
}

// WithClock overrides the wall clock used for buffs and session start times.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.Now = now }
}

// WithLogger sets the logger for session lifecycle lines.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.Log = l }
}

// New creates an engine over the given session store and outcome provider.
func New(sessions store.SessionStore, rng Random, opts ...Option) *Engine {
	e := &Engine{
		Sessions: sessions,
		RNG:      rng,
		Rules:    progress.DefaultRules(),
		Now:      time.Now,
		Log:      log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start opens a session for the player against enemy. A player already in
// an active battle gets ErrAlreadyInCombat; use Abandon to replace it.
func (e *Engine) Start(ctx context.Context, p *types.Player, enemy types.Enemy) (*types.Session, error) {
	existing, err := e.Sessions.GetSession(ctx, p.ID)
	switch {
	case err == nil && existing.Status == types.StatusActive:
		return nil, ErrAlreadyInCombat
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("load session %s: %w", p.ID, err)
	}

	now := e.Now()
	stats.PruneExpired(p, now)
	s := NewSession(*p, enemy, now)
	if err := e.Sessions.PutSession(ctx, s); err != nil {
		return nil, fmt.Errorf("store session %s: %w", p.ID, err)
	}
	e.Log.Printf("battle start player=%s enemy=%s level=%d", p.ID, enemy.Name, enemy.Level)
	return s, nil
}

// Act resolves one player action in the player's active session. The
// updated player record is left in p; persisting it is the caller's job.
func (e *Engine) Act(ctx context.Context, p *types.Player, action types.Action) (types.ActionResult, error) {
	s, err := e.Session(ctx, p.ID)
	if err != nil {
		return types.ActionResult{}, err
	}

	res, err := Resolve(s, p, action, e.RNG, e.Rules, e.Now())
	if err != nil {
		return res, err
	}

	if s.Status.Terminal() {
		if err := e.Sessions.DeleteSession(ctx, p.ID); err != nil {
			return res, fmt.Errorf("delete session %s: %w", p.ID, err)
		}
		e.Log.Printf("battle end player=%s status=%s moves=%d", p.ID, s.Status, len(s.Moves))
		return res, nil
	}
	if err := e.Sessions.PutSession(ctx, s); err != nil {
		return res, fmt.Errorf("store session %s: %w", p.ID, err)
	}
	return res, nil
}

// Session returns the player's active session or ErrNoActiveSession.
func (e *Engine) Session(ctx context.Context, playerID string) (*types.Session, error) {
	s, err := e.Sessions.GetSession(ctx, playerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", playerID, err)
	}
	return s, nil
}

// Abandon discards the player's session without rewards or penalties.
func (e *Engine) Abandon(ctx context.Context, playerID string) error {
	if _, err := e.Session(ctx, playerID); err != nil {
		return err
	}
	if err := e.Sessions.DeleteSession(ctx, playerID); err != nil {
		return fmt.Errorf("delete session %s: %w", playerID, err)
	}
	e.Log.Printf("battle abandoned player=%s", playerID)
	return nil
}
