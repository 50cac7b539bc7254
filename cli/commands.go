package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nathoo/grandline/bot"
	"github.com/nathoo/grandline/engine/save"
	"github.com/nathoo/grandline/types"
)

// The functions below implement the slash commands shared by the plain
// terminal and the TUI. Each returns system lines for the caller to style.

// MetaHelp lists the slash commands.
func MetaHelp() []string {
	return []string{
		"System:",
		"  /save [name]              Save your pirate (default: quicksave)",
		"  /load [name]              Load a saved pirate (default: quicksave)",
		"  /buff <atk> <def> <min>   Apply a timed buff",
		"  /fruit <name> <power>     Eat a Devil Fruit",
		"  /quit                     Exit",
		"  /help                     Show this help",
		"  /state                    Debug: dump player and battle state",
		"  /trace                    Toggle debug trace output",
	}
}

// SavePlayer writes the player's record to dir/name.json.
func SavePlayer(ctx context.Context, b *bot.Bot, playerID, dir, name string) []string {
	if name == "" {
		name = "quicksave"
	}

	p, _, err := b.Snapshot(ctx, playerID)
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	data, err := save.EncodePlayer(p)
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	return []string{fmt.Sprintf("Pirate saved to %s.", name)}
}

// LoadPlayer replaces the player's record with dir/name.json. The bool
// reports whether the load succeeded.
func LoadPlayer(ctx context.Context, b *bot.Bot, playerID, dir, name string) ([]string, bool) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(dir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}, false
	}

	p, err := save.DecodePlayer(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}, false
	}
	if err := b.Restore(ctx, playerID, p); err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}, false
	}
	return []string{fmt.Sprintf("Pirate loaded from %s (level %d).", name, p.Level)}, true
}

// seekable is a random source that can report where its stream stands.
type seekable interface {
	Seed() int64
	Position() int64
}

// State dumps the raw player record, the random stream, and the active battle.
func State(ctx context.Context, b *bot.Bot, playerID string) []string {
	p, s, err := b.Snapshot(ctx, playerID)
	if err != nil {
		return []string{fmt.Sprintf("State failed: %v", err)}
	}
	out := []string{
		fmt.Sprintf("Player: %s (%s)", p.Name, p.ID),
		fmt.Sprintf("Level: %d  Exp: %d  Berries: %d", p.Level, p.Experience, p.Berries),
		fmt.Sprintf("HP: %d/%d  ATK: %d  DEF: %d", p.Health, p.MaxHealth, p.Attack, p.Defense),
	}
	if len(p.Buffs) > 0 {
		out = append(out, fmt.Sprintf("Buffs: %v", p.Buffs))
	}
	if r, ok := b.Engine.RNG.(seekable); ok {
		out = append(out, fmt.Sprintf("RNG: seed=%d position=%d (resume with GRANDLINE_SEED and GRANDLINE_RNG_POSITION)",
			r.Seed(), r.Position()))
	}
	if s == nil {
		return append(out, "Battle: none")
	}
	return append(out, fmt.Sprintf("Battle: %s vs %s  turn=%s moves=%d defend_bonus=%d",
		s.Status, s.Enemy.ID, s.Turn, len(s.Moves), s.DefendBonus))
}

// GrantBuff parses "<atk> <def> <minutes> [source]" and applies the buff.
func GrantBuff(ctx context.Context, b *bot.Bot, playerID string, args []string) []string {
	if len(args) < 3 {
		return []string{"Usage: /buff <attack> <defense> <minutes> [source]"}
	}
	var nums [3]int
	for i := range nums {
		n, err := strconv.Atoi(args[i])
		if err != nil {
			return []string{fmt.Sprintf("Not a number: %s", args[i])}
		}
		nums[i] = n
	}
	if nums[2] <= 0 {
		return []string{"Duration must be positive."}
	}
	source := "potion"
	if len(args) > 3 {
		source = strings.Join(args[3:], " ")
	}

	buff := types.Buff{
		Source:    source,
		Attack:    nums[0],
		Defense:   nums[1],
		ExpiresAt: b.Engine.Now().Add(time.Duration(nums[2]) * time.Minute).UnixMilli(),
	}
	if _, err := b.GrantBuff(ctx, playerID, buff); err != nil {
		return []string{fmt.Sprintf("Buff failed: %v", err)}
	}
	return []string{fmt.Sprintf("Buff %s applied for %d minutes.", source, nums[2])}
}

// GrantFruit parses "<name...> <power>" and feeds the player the fruit.
func GrantFruit(ctx context.Context, b *bot.Bot, playerID string, args []string) []string {
	if len(args) < 2 {
		return []string{"Usage: /fruit <name> <power 0-100>"}
	}
	power, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		return []string{fmt.Sprintf("Not a number: %s", args[len(args)-1])}
	}
	fruit := types.DevilFruit{Name: strings.Join(args[:len(args)-1], " "), PowerLevel: power}
	p, err := b.GrantFruit(ctx, playerID, fruit)
	if err != nil {
		return []string{fmt.Sprintf("Fruit failed: %v", err)}
	}
	return []string{fmt.Sprintf("You ate the %s (power %d).", p.DevilFruit.Name, p.DevilFruit.PowerLevel)}
}

// FormatTrace renders the moves behind a combat result.
func FormatTrace(result types.Result) []string {
	a := result.Action
	if a == nil {
		return nil
	}
	lines := []string{"[trace] " + formatMove(a.PlayerMove)}
	if a.EnemyMove != nil {
		lines = append(lines, "[trace] "+formatMove(*a.EnemyMove))
	}
	switch o := a.Outcome.(type) {
	case types.Continuing:
		lines = append(lines, fmt.Sprintf("[trace] outcome continuing, defend_bonus=%d", a.DefendBonus))
	case types.Ended:
		lines = append(lines, fmt.Sprintf("[trace] outcome %s", o.End.Status))
	}
	return lines
}

func formatMove(m types.Move) string {
	return fmt.Sprintf("#%d %s %s dmg=%d gain=%d ok=%t hp=%d/%d",
		m.Seq, m.Actor, m.Action, m.Damage, m.DefendGain, m.Success, m.UserHealth, m.EnemyHealth)
}
