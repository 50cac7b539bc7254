// Package stats combines a player's base stats with active consumable buffs.
//
// Computing effective stats is pure. Dropping expired buffs is a separate,
// explicit mutation that callers run at defined points (session start and
// each resolved action).
package stats

import (
	"time"

	"github.com/nathoo/grandline/types"
)

// Snapshot is a combatant's effective stats at one moment.
type Snapshot struct {
	Attack    int
	Defense   int
	Health    int
	MaxHealth int
}

// Effective sums the attack and defense of every buff still active at now
// onto the player's base stats. Health and MaxHealth pass through.
func Effective(p types.Player, now time.Time) Snapshot {
	snap := Snapshot{
		Attack:    p.Attack,
		Defense:   p.Defense,
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
	}
	ms := now.UnixMilli()
	for _, b := range p.Buffs {
		if !active(b, ms) {
			continue
		}
		snap.Attack += b.Attack
		snap.Defense += b.Defense
	}
	if snap.Attack < 0 {
		snap.Attack = 0
	}
	if snap.Defense < 0 {
		snap.Defense = 0
	}
	return snap
}

// PruneExpired removes buffs whose expiry has passed and returns how many
// were removed. The buff list is never left nil.
func PruneExpired(p *types.Player, now time.Time) int {
	ms := now.UnixMilli()
	kept := make([]types.Buff, 0, len(p.Buffs))
	for _, b := range p.Buffs {
		if active(b, ms) {
			kept = append(kept, b)
		}
	}
	removed := len(p.Buffs) - len(kept)
	p.Buffs = kept
	return removed
}

// AddBuff applies b to the player. A buff from the same source replaces
// the older one in place.
func AddBuff(p *types.Player, b types.Buff) {
	for i := range p.Buffs {
		if p.Buffs[i].Source == b.Source {
			p.Buffs[i] = b
			return
		}
	}
	p.Buffs = append(p.Buffs, b)
}

// Active returns the buffs still in effect at now, in application order.
func Active(p types.Player, now time.Time) []types.Buff {
	ms := now.UnixMilli()
	var out []types.Buff
	for _, b := range p.Buffs {
		if active(b, ms) {
			out = append(out, b)
		}
	}
	return out
}

func active(b types.Buff, nowMs int64) bool {
	return b.ExpiresAt > nowMs
}
