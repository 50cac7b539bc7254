package engine

import (
	"time"

	"github.com/nathoo/grandline/engine/progress"
	"github.com/nathoo/grandline/engine/stats"
	"github.com/nathoo/grandline/types"
)

// BehaviorEntry is one weighted slot in an enemy's action table.
type BehaviorEntry struct {
	Action types.Action
	Weight int
}

// EnemyBehavior is the enemy's fixed action table: three attack slots to
// one defend slot. Enemy defend has no numeric effect.
var EnemyBehavior = []BehaviorEntry{
	{Action: types.ActionAttack, Weight: 3},
	{Action: types.ActionDefend, Weight: 1},
}

const (
	fleeBaseChance     = 50
	fleeChancePerLevel = 2
	fleeMaxChance      = 80
)

// DamageCalc computes max(1, attack - floor(defense/divisor)).
func DamageCalc(attack, defense, divisor int) int {
	damage := attack - defense/divisor
	if damage < 1 {
		damage = 1
	}
	return damage
}

// SpecialDamage computes the devil fruit strike:
// floor(attack × (1 + power/50)) + bonus, reduced by floor(defense/3), at least 1.
func SpecialDamage(attack, power, bonus, defense int) int {
	raw := attack*(50+power)/50 + bonus
	return DamageCalc(raw, defense, 3)
}

// DefendGain is how much one defend adds to the stored bonus: floor(defense/4).
func DefendGain(defense int) int {
	return defense / 4
}

// FleeChance returns the flee success chance in percent: min(80, 50 + 2×level).
func FleeChance(level int) int {
	chance := fleeBaseChance + level*fleeChancePerLevel
	if chance > fleeMaxChance {
		return fleeMaxChance
	}
	return chance
}

// NewSession opens a battle with the player's current health and a fresh enemy.
func NewSession(p types.Player, enemy types.Enemy, now time.Time) *types.Session {
	health := p.Health
	if health > p.MaxHealth {
		health = p.MaxHealth
	}
	enemyHealth := enemy.Health
	if enemyHealth > enemy.MaxHealth {
		enemyHealth = enemy.MaxHealth
	}
	return &types.Session{
		PlayerID:       p.ID,
		Enemy:          enemy,
		UserHealth:     health,
		UserMaxHealth:  p.MaxHealth,
		EnemyHealth:    enemyHealth,
		EnemyMaxHealth: enemy.MaxHealth,
		Turn:           types.TurnUser,
		Moves:          []types.Move{},
		StartTime:      now,
		Status:         types.StatusActive,
		DefendBonus:    0,
	}
}

// Resolve applies one user action to the session, runs the enemy's reply
// in the same call, and settles the exchange. When the session ends, the
// reward or penalty is applied to p and reported as types.Ended.
//
// Errors leave both s and p untouched.
func Resolve(s *types.Session, p *types.Player, action types.Action, rng Random, rules progress.Rules, now time.Time) (types.ActionResult, error) {
	if s == nil {
		return types.ActionResult{}, ErrNoActiveSession
	}
	if s.Status.Terminal() {
		return types.ActionResult{}, ErrSessionNotActive
	}
	if s.Turn != types.TurnUser {
		return types.ActionResult{}, ErrNotYourTurn
	}
	switch action {
	case types.ActionAttack, types.ActionDefend, types.ActionFlee:
	case types.ActionSpecial:
		if p.DevilFruit == nil {
			return types.ActionResult{}, ErrNoSpecialPower
		}
	default:
		return types.ActionResult{}, ErrInvalidAction
	}

	stats.PruneExpired(p, now)
	snap := stats.Effective(*p, now)

	move := types.Move{Actor: types.TurnUser, Action: action}
	fled := false

	switch action {
	case types.ActionAttack:
		move.Damage = DamageCalc(snap.Attack+s.DefendBonus, s.Enemy.Defense, 2)
		s.EnemyHealth = max(0, s.EnemyHealth-move.Damage)
		s.DefendBonus = 0

	case types.ActionDefend:
		move.DefendGain = DefendGain(snap.Defense)
		s.DefendBonus += move.DefendGain

	case types.ActionSpecial:
		move.Damage = SpecialDamage(snap.Attack, p.DevilFruit.PowerLevel, s.DefendBonus, s.Enemy.Defense)
		s.EnemyHealth = max(0, s.EnemyHealth-move.Damage)
		s.DefendBonus = 0

	case types.ActionFlee:
		fled = rng.PercentChance(FleeChance(p.Level))
		move.Success = fled
	}

	appendMove(s, move)
	if !fled {
		s.Turn = types.TurnEnemy
	}
	settle(s, fled)

	res := types.ActionResult{
		Action:     action,
		PlayerMove: s.Moves[len(s.Moves)-1],
		Attack:     snap.Attack,
		Defense:    snap.Defense,
	}

	if s.Status == types.StatusActive && s.Turn == types.TurnEnemy {
		em := enemyTurn(s, snap, rng)
		res.EnemyMove = &em
		settle(s, false)
	}

	res.UserHealth = s.UserHealth
	res.EnemyHealth = s.EnemyHealth
	res.DefendBonus = s.DefendBonus

	if s.Status.Terminal() {
		res.Outcome = types.Ended{End: end(s, p, rules)}
	} else {
		res.Outcome = types.Continuing{}
	}
	return res, nil
}

// enemyTurn picks the enemy's action from EnemyBehavior and applies it.
// The turn goes back to the user unless the user has fallen.
func enemyTurn(s *types.Session, player stats.Snapshot, rng Random) types.Move {
	weights := make([]int, len(EnemyBehavior))
	for i, b := range EnemyBehavior {
		weights[i] = b.Weight
	}
	chosen := WeightedPick(rng, EnemyBehavior, weights)

	move := types.Move{Actor: types.TurnEnemy, Action: chosen.Action}
	if chosen.Action == types.ActionAttack {
		move.Damage = DamageCalc(s.Enemy.Attack, player.Defense, 2)
		s.UserHealth = max(0, s.UserHealth-move.Damage)
	}
	appendMove(s, move)

	if s.UserHealth > 0 {
		s.Turn = types.TurnUser
	}
	return s.Moves[len(s.Moves)-1]
}

// settle applies the end-of-exchange checks in order: victory, defeat, fled.
func settle(s *types.Session, fled bool) {
	if s.Status.Terminal() {
		return
	}
	switch {
	case s.EnemyHealth <= 0:
		s.Status = types.StatusVictory
	case s.UserHealth <= 0:
		s.Status = types.StatusDefeat
	case fled:
		s.Status = types.StatusFled
	}
}

// end applies the terminal status to the player record.
func end(s *types.Session, p *types.Player, rules progress.Rules) types.EndResult {
	switch s.Status {
	case types.StatusVictory:
		return rules.ApplyVictory(p, s.Enemy.Level, s.UserHealth)
	case types.StatusDefeat:
		return rules.ApplyDefeat(p)
	default:
		return rules.ApplyFled(p, s.UserHealth)
	}
}

func appendMove(s *types.Session, m types.Move) {
	m.Seq = len(s.Moves) + 1
	m.UserHealth = s.UserHealth
	m.EnemyHealth = s.EnemyHealth
	s.Moves = append(s.Moves, m)
}
