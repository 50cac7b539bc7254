// Package progress computes combat rewards, defeat penalties, and level-ups.
package progress

import (
	"math"

	"github.com/nathoo/grandline/types"
)

// Rules holds the reward and leveling constants.
type Rules struct {
	VictoryBerryBase int
	VictoryExpBase   int
	BaseRequirement  int
	Multiplier       float64 // > 1
	HealthPerLevel   int
	AttackPerLevel   int
	DefensePerLevel  int
	MaxLevel         int
	DefeatHealthPct  int // percent of max health restored after a defeat
	DefeatBerryPct   int // percent of current berries lost on defeat
}

// DefaultRules returns the standard reward and leveling constants.
func DefaultRules() Rules {
	return Rules{
		VictoryBerryBase: 100,
		VictoryExpBase:   50,
		BaseRequirement:  100,
		Multiplier:       1.5,
		HealthPerLevel:   20,
		AttackPerLevel:   5,
		DefensePerLevel:  3,
		MaxLevel:         100,
		DefeatHealthPct:  10,
		DefeatBerryPct:   10,
	}
}

// ExpToAdvance returns the experience a player at level needs to reach
// level+1: floor(BaseRequirement × Multiplier^(level−1)).
func (r Rules) ExpToAdvance(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(float64(r.BaseRequirement) * math.Pow(r.Multiplier, float64(level-1))))
}

// VictoryBerries is floor(VictoryBerryBase × (1 + enemyLevel/10)).
func (r Rules) VictoryBerries(enemyLevel int) int {
	return r.VictoryBerryBase * (10 + enemyLevel) / 10
}

// VictoryExp is floor(VictoryExpBase × (1 + enemyLevel/5)).
func (r Rules) VictoryExp(enemyLevel int) int {
	return r.VictoryExpBase * (5 + enemyLevel) / 5
}

// CanLevelUp reports whether the player has enough experience and is below the cap.
func (r Rules) CanLevelUp(p types.Player) bool {
	return p.Level < r.MaxLevel && p.Experience >= r.ExpToAdvance(p.Level)
}

// CheckLevelUp levels the player once if CanLevelUp, returning the gain or nil.
func (r Rules) CheckLevelUp(p *types.Player) *types.LevelUp {
	if !r.CanLevelUp(*p) {
		return nil
	}
	lu := r.LevelUp(p)
	return &lu
}

// LevelUp raises the player one level, grows stats, fully heals, and resets
// experience to zero. Experience above the threshold is discarded.
// At MaxLevel nothing changes and OldLevel == NewLevel.
func (r Rules) LevelUp(p *types.Player) types.LevelUp {
	lu := types.LevelUp{OldLevel: p.Level, NewLevel: p.Level, NewMaxHealth: p.MaxHealth}
	if p.Level >= r.MaxLevel {
		return lu
	}
	p.Level++
	p.MaxHealth += r.HealthPerLevel
	p.Health = p.MaxHealth
	p.Attack += r.AttackPerLevel
	p.Defense += r.DefensePerLevel
	p.Experience = 0

	lu.NewLevel = p.Level
	lu.HealthGain = r.HealthPerLevel
	lu.AttackGain = r.AttackPerLevel
	lu.DefenseGain = r.DefensePerLevel
	lu.NewMaxHealth = p.MaxHealth
	return lu
}

// ApplyVictory awards berries and experience for beating an enemy of
// enemyLevel, syncs health from the session, and levels up at most once.
func (r Rules) ApplyVictory(p *types.Player, enemyLevel, userHealth int) types.EndResult {
	res := types.EndResult{
		Status:      types.StatusVictory,
		BerriesGain: r.VictoryBerries(enemyLevel),
		ExpGain:     r.VictoryExp(enemyLevel),
	}
	p.Berries += res.BerriesGain
	p.Experience += res.ExpGain
	p.Wins++
	p.EnemiesDefeated++
	p.Health = clamp(userHealth, 0, p.MaxHealth)

	res.LevelUp = r.CheckLevelUp(p)
	res.HealthAfter = p.Health
	res.ExpToAdvance = r.ExpToAdvance(p.Level)
	return res
}

// ApplyDefeat records the loss, restores a sliver of health, and takes a
// cut of the player's berries. Both percentages floor.
func (r Rules) ApplyDefeat(p *types.Player) types.EndResult {
	lost := p.Berries * r.DefeatBerryPct / 100
	p.Losses++
	p.Health = max(1, p.MaxHealth*r.DefeatHealthPct/100)
	p.Berries -= lost
	return types.EndResult{
		Status:       types.StatusDefeat,
		BerriesLost:  lost,
		HealthAfter:  p.Health,
		ExpToAdvance: r.ExpToAdvance(p.Level),
	}
}

// ApplyFled syncs health from the session. No reward, no penalty.
func (r Rules) ApplyFled(p *types.Player, userHealth int) types.EndResult {
	p.Health = clamp(userHealth, 0, p.MaxHealth)
	return types.EndResult{
		Status:       types.StatusFled,
		HealthAfter:  p.Health,
		ExpToAdvance: r.ExpToAdvance(p.Level),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
