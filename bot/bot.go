// Package bot is the chat-command host around the combat core. It owns the
// player records, turns command text into engine calls, and renders the
// results as reply lines.
package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/nathoo/grandline/engine"
	"github.com/nathoo/grandline/engine/parser"
	"github.com/nathoo/grandline/engine/spawn"
	"github.com/nathoo/grandline/engine/stats"
	"github.com/nathoo/grandline/store"
	"github.com/nathoo/grandline/types"
)

const (
	// RestFeePerLevel is the berry cost of a full heal, per player level.
	RestFeePerLevel = 10
	leaderboardSize = 10
)

// NewPlayer returns the record a player starts with on first contact.
func NewPlayer(id, name string) types.Player {
	if name == "" {
		name = id
	}
	return types.Player{
		ID:        id,
		Name:      name,
		Level:     1,
		Berries:   500,
		Attack:    20,
		Defense:   10,
		Health:    100,
		MaxHealth: 100,
		Buffs:     []types.Buff{},
	}
}

// Bot dispatches chat commands. Commands from the same player run one at a
// time; different players proceed in parallel.
type Bot struct {
	Players store.PlayerStore
	Engine  *engine.Engine
	Spawner *spawn.Generator
	Log     *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a bot. A nil logger discards output.
func New(players store.PlayerStore, eng *engine.Engine, spawner *spawn.Generator, logger *log.Logger) *Bot {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Bot{
		Players: players,
		Engine:  eng,
		Spawner: spawner,
		Log:     logger,
		locks:   map[string]*sync.Mutex{},
	}
}

// lock serializes work for one player and returns the unlock func.
func (b *Bot) lock(playerID string) func() {
	b.mu.Lock()
	m, ok := b.locks[playerID]
	if !ok {
		m = &sync.Mutex{}
		b.locks[playerID] = m
	}
	b.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// Register returns the player's record, creating it with name if missing.
func (b *Bot) Register(ctx context.Context, playerID, name string) (types.Player, error) {
	defer b.lock(playerID)()
	return b.loadOrCreate(ctx, playerID, name)
}

// Handle runs one command for playerID and returns the reply.
func (b *Bot) Handle(ctx context.Context, playerID, input string) types.Result {
	defer b.lock(playerID)()

	intent := parser.Parse(input)
	if intent.Verb == "" {
		return reply("Say something! Type 'help' for commands.")
	}

	p, err := b.loadOrCreate(ctx, playerID, "")
	if err != nil {
		return b.fail(playerID, input, err)
	}

	if action, ok := parser.ParseAction(intent.Verb); ok {
		return b.act(ctx, &p, action)
	}

	switch intent.Verb {
	case "explore":
		return b.explore(ctx, &p, regionID(intent))
	case "status":
		return b.status(ctx, p)
	case "rest":
		return b.rest(ctx, &p)
	case "leaderboard":
		return b.leaderboard(ctx)
	case "help":
		return types.Result{Output: helpLines()}
	}
	return reply(fmt.Sprintf("I don't know how to %q. Type 'help' for commands.", intent.Verb))
}

// Snapshot returns the player and their active session (nil when idle).
func (b *Bot) Snapshot(ctx context.Context, playerID string) (types.Player, *types.Session, error) {
	defer b.lock(playerID)()

	p, err := b.loadOrCreate(ctx, playerID, "")
	if err != nil {
		return types.Player{}, nil, err
	}
	s, err := b.Engine.Session(ctx, playerID)
	if errors.Is(err, engine.ErrNoActiveSession) {
		return p, nil, nil
	}
	if err != nil {
		return p, nil, err
	}
	return p, s, nil
}

// GrantBuff applies a consumable buff to the player and saves the record.
func (b *Bot) GrantBuff(ctx context.Context, playerID string, buff types.Buff) (types.Player, error) {
	defer b.lock(playerID)()

	p, err := b.loadOrCreate(ctx, playerID, "")
	if err != nil {
		return types.Player{}, err
	}
	stats.PruneExpired(&p, b.Engine.Now())
	stats.AddBuff(&p, buff)
	if err := b.Players.SavePlayer(ctx, p); err != nil {
		return types.Player{}, fmt.Errorf("save player %s: %w", playerID, err)
	}
	return p, nil
}

// GrantFruit gives the player a devil fruit, replacing any previous one.
func (b *Bot) GrantFruit(ctx context.Context, playerID string, fruit types.DevilFruit) (types.Player, error) {
	defer b.lock(playerID)()

	p, err := b.loadOrCreate(ctx, playerID, "")
	if err != nil {
		return types.Player{}, err
	}
	fruit.PowerLevel = min(max(fruit.PowerLevel, 0), 100)
	p.DevilFruit = &fruit
	if err := b.Players.SavePlayer(ctx, p); err != nil {
		return types.Player{}, fmt.Errorf("save player %s: %w", playerID, err)
	}
	return p, nil
}

// Restore replaces the player's record with p, discarding any fight in
// progress. The record is stored under playerID regardless of p.ID.
func (b *Bot) Restore(ctx context.Context, playerID string, p types.Player) error {
	defer b.lock(playerID)()

	if err := b.Engine.Abandon(ctx, playerID); err != nil && !errors.Is(err, engine.ErrNoActiveSession) {
		return err
	}
	p.ID = playerID
	if err := b.Players.SavePlayer(ctx, p); err != nil {
		return fmt.Errorf("restore player %s: %w", playerID, err)
	}
	return nil
}

func (b *Bot) loadOrCreate(ctx context.Context, playerID, name string) (types.Player, error) {
	p, err := b.Players.GetPlayer(ctx, playerID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.Player{}, fmt.Errorf("load player %s: %w", playerID, err)
	}
	p = NewPlayer(playerID, name)
	if err := b.Players.SavePlayer(ctx, p); err != nil {
		return types.Player{}, fmt.Errorf("create player %s: %w", playerID, err)
	}
	b.Log.Printf("new player id=%s name=%s", p.ID, p.Name)
	return p, nil
}

func (b *Bot) explore(ctx context.Context, p *types.Player, regionID string) types.Result {
	if s, err := b.Engine.Session(ctx, p.ID); err == nil {
		return reply(fmt.Sprintf("You're already fighting %s! Choose: attack, defend, special or flee.", s.Enemy.Name))
	}

	region := b.Spawner.Region(p.Level, regionID)
	if regionID != "" && region == nil {
		return reply(fmt.Sprintf("There is no region called %q.", strings.ReplaceAll(regionID, "_", " ")))
	}

	enemy := b.Spawner.Generate(p.Level, regionID)
	s, err := b.Engine.Start(ctx, p, enemy)
	if err != nil {
		return b.fail(p.ID, "explore", err)
	}
	if err := b.Players.SavePlayer(ctx, *p); err != nil {
		return b.fail(p.ID, "explore", err)
	}

	regionName := ""
	if region != nil {
		regionName = region.Name
	}
	return types.Result{Output: renderEncounter(s, regionName, p.DevilFruit != nil)}
}

// regionID joins a multi-word region name into its id: "east blue" is east_blue.
func regionID(intent types.Intent) string {
	if intent.Object == "" {
		return ""
	}
	return strings.Join(append([]string{intent.Object}, intent.Args...), "_")
}

func (b *Bot) act(ctx context.Context, p *types.Player, action types.Action) types.Result {
	s, err := b.Engine.Session(ctx, p.ID)
	if err != nil {
		return b.combatError(p.ID, string(action), err)
	}

	res, err := b.Engine.Act(ctx, p, action)
	if err != nil {
		return b.combatError(p.ID, string(action), err)
	}
	if err := b.Players.SavePlayer(ctx, *p); err != nil {
		return b.fail(p.ID, string(action), err)
	}

	fruit := ""
	if p.DevilFruit != nil {
		fruit = p.DevilFruit.Name
	}
	lines := renderAction(s, res, fruit)
	if end, ok := res.Outcome.(types.Ended); ok {
		lines = append(lines, renderEnd(s.Enemy, end.End)...)
	}
	return types.Result{Output: lines, Action: &res}
}

func (b *Bot) status(ctx context.Context, p types.Player) types.Result {
	now := b.Engine.Now()
	s, err := b.Engine.Session(ctx, p.ID)
	if err != nil && !errors.Is(err, engine.ErrNoActiveSession) {
		return b.fail(p.ID, "status", err)
	}
	snap := stats.Effective(p, now)
	lines := renderStatus(p, snap, stats.Active(p, now), b.Engine.Rules.ExpToAdvance(p.Level), now)
	if s != nil {
		lines = append(lines, renderBattleLine(s))
	}
	return types.Result{Output: lines}
}

func (b *Bot) rest(ctx context.Context, p *types.Player) types.Result {
	if _, err := b.Engine.Session(ctx, p.ID); err == nil {
		return reply("You can't rest in the middle of a fight!")
	}
	if p.Health >= p.MaxHealth {
		return reply("You're already at full health.")
	}
	fee := RestFeePerLevel * p.Level
	if p.Berries < fee {
		return reply(fmt.Sprintf("A room at the inn costs %s. You only have %s.", berries(fee), berries(p.Berries)))
	}

	p.Berries -= fee
	p.Health = p.MaxHealth
	if err := b.Players.SavePlayer(ctx, *p); err != nil {
		return b.fail(p.ID, "rest", err)
	}
	return reply(
		fmt.Sprintf("You rest at the inn for %s.", berries(fee)),
		fmt.Sprintf("HP restored to %d/%d.", p.Health, p.MaxHealth),
	)
}

func (b *Bot) leaderboard(ctx context.Context) types.Result {
	lb, ok := b.Players.(store.Leaderboard)
	if !ok {
		return reply("The bounty board is not available.")
	}
	top, err := lb.TopPlayers(ctx, leaderboardSize)
	if err != nil {
		return b.fail("", "leaderboard", err)
	}
	return types.Result{Output: renderLeaderboard(top)}
}

// combatError turns recoverable combat errors into player-facing replies.
func (b *Bot) combatError(playerID, input string, err error) types.Result {
	switch engine.CodeOf(err) {
	case engine.CodeNoActiveSession, engine.CodeSessionNotActive:
		return reply("You're not in a fight. Type 'explore' to find one.")
	case engine.CodeNoSpecialPower:
		return reply("You haven't eaten a Devil Fruit, so you have no special power.")
	case engine.CodeNotYourTurn:
		return reply("Wait for your turn!")
	case engine.CodeInvalidAction:
		return reply("That's not a combat move. Choose: attack, defend, special or flee.")
	}
	return b.fail(playerID, input, err)
}

func (b *Bot) fail(playerID, input string, err error) types.Result {
	b.Log.Printf("command failed player=%s input=%q: %v", playerID, strings.TrimSpace(input), err)
	return reply("Something went wrong. Please try again.")
}

func reply(lines ...string) types.Result {
	return types.Result{Output: lines}
}
