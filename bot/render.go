package bot

import (
	"fmt"
	"strconv"
	"time"

	"github.com/nathoo/grandline/engine/stats"
	"github.com/nathoo/grandline/types"
)

// berries formats an amount with thousands separators, e.g. "฿1,250".
func berries(n int) string {
	s := strconv.Itoa(abs(n))
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if n < 0 {
		return "-฿" + string(out)
	}
	return "฿" + string(out)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func renderEncounter(s *types.Session, regionName string, hasFruit bool) []string {
	e := s.Enemy
	lines := []string{}
	if regionName != "" {
		lines = append(lines, fmt.Sprintf("You sail the waters of %s...", regionName))
	}
	lines = append(lines, fmt.Sprintf("A wild %s (Lv %d) appears!", e.Name, e.Level))
	if e.Description != "" {
		lines = append(lines, e.Description)
	}
	lines = append(lines,
		fmt.Sprintf("HP %d/%d | ATK %d | DEF %d", s.EnemyHealth, s.EnemyMaxHealth, e.Attack, e.Defense),
		fmt.Sprintf("You: %d/%d HP", s.UserHealth, s.UserMaxHealth),
	)
	if hasFruit {
		lines = append(lines, "Your move: attack, defend, special or flee.")
	} else {
		lines = append(lines, "Your move: attack, defend or flee.")
	}
	return lines
}

func renderAction(s *types.Session, res types.ActionResult, fruit string) []string {
	var lines []string
	enemy := s.Enemy

	m := res.PlayerMove
	switch m.Action {
	case types.ActionAttack:
		lines = append(lines, fmt.Sprintf("You hit %s for %d damage.", enemy.Name, m.Damage))
	case types.ActionDefend:
		lines = append(lines, fmt.Sprintf("You brace yourself. (+%d defense, %d stored)", m.DefendGain, res.DefendBonus))
	case types.ActionSpecial:
		lines = append(lines, fmt.Sprintf("You unleash the power of the %s for %d damage!", fruit, m.Damage))
	case types.ActionFlee:
		if m.Success {
			lines = append(lines, "You slip away!")
		} else {
			lines = append(lines, "You try to run, but can't get away!")
		}
	}

	if em := res.EnemyMove; em != nil {
		switch em.Action {
		case types.ActionAttack:
			lines = append(lines, fmt.Sprintf("%s hits you for %d damage.", enemy.Name, em.Damage))
		case types.ActionDefend:
			lines = append(lines, fmt.Sprintf("%s takes a defensive stance.", enemy.Name))
		}
	}

	lines = append(lines, fmt.Sprintf("You: %d/%d HP | %s: %d/%d HP",
		res.UserHealth, s.UserMaxHealth, enemy.Name, res.EnemyHealth, s.EnemyMaxHealth))
	if _, ok := res.Outcome.(types.Continuing); ok {
		lines = append(lines, "Your move!")
	}
	return lines
}

func renderEnd(enemy types.Enemy, end types.EndResult) []string {
	var lines []string
	switch end.Status {
	case types.StatusVictory:
		lines = append(lines,
			fmt.Sprintf("Victory! You defeated %s.", enemy.Name),
			fmt.Sprintf("+%s, +%d exp.", berries(end.BerriesGain), end.ExpGain),
		)
		if lu := end.LevelUp; lu != nil {
			lines = append(lines, fmt.Sprintf("LEVEL UP! %d -> %d (+%d HP, +%d ATK, +%d DEF). Fully healed to %d HP.",
				lu.OldLevel, lu.NewLevel, lu.HealthGain, lu.AttackGain, lu.DefenseGain, lu.NewMaxHealth))
		}
		lines = append(lines, fmt.Sprintf("Next level at %d exp.", end.ExpToAdvance))
	case types.StatusDefeat:
		lines = append(lines,
			fmt.Sprintf("You were defeated by %s...", enemy.Name),
			fmt.Sprintf("You lost %s and wake up with %d HP.", berries(end.BerriesLost), end.HealthAfter),
		)
	case types.StatusFled:
		lines = append(lines, fmt.Sprintf("You escaped from %s with %d HP.", enemy.Name, end.HealthAfter))
	}
	return lines
}

func renderStatus(p types.Player, snap stats.Snapshot, buffs []types.Buff, next int, now time.Time) []string {
	lines := []string{
		fmt.Sprintf("%s | Level %d", p.Name, p.Level),
		fmt.Sprintf("EXP %d/%d | Berries %s", p.Experience, next, berries(p.Berries)),
		fmt.Sprintf("HP %d/%d | ATK %d | DEF %d", p.Health, p.MaxHealth, snap.Attack, snap.Defense),
		fmt.Sprintf("Record: %dW %dL | Enemies defeated: %d", p.Wins, p.Losses, p.EnemiesDefeated),
	}
	if p.DevilFruit != nil {
		lines = append(lines, fmt.Sprintf("Devil Fruit: %s (power %d)", p.DevilFruit.Name, p.DevilFruit.PowerLevel))
	}
	for _, b := range buffs {
		left := time.UnixMilli(b.ExpiresAt).Sub(now).Round(time.Second)
		lines = append(lines, fmt.Sprintf("Buff %s: %+d ATK %+d DEF (%s left)", b.Source, b.Attack, b.Defense, left))
	}
	return lines
}

func renderBattleLine(s *types.Session) string {
	return fmt.Sprintf("In battle with %s (Lv %d): %d/%d HP", s.Enemy.Name, s.Enemy.Level, s.EnemyHealth, s.EnemyMaxHealth)
}

func renderLeaderboard(top []types.Player) []string {
	if len(top) == 0 {
		return []string{"The bounty board is empty."}
	}
	lines := []string{"Bounty board:"}
	for i, p := range top {
		lines = append(lines, fmt.Sprintf("%2d. %s (Lv %d) %s", i+1, p.Name, p.Level, berries(p.Berries)))
	}
	return lines
}

func helpLines() []string {
	return []string{
		"Commands:",
		"  explore [region] (hunt)  Find an enemy to fight",
		"  attack (a)               Strike the enemy",
		"  defend (d, block)        Store defense for your next hit",
		"  special (sp, fruit)      Unleash your Devil Fruit",
		"  flee (f, run)            Try to escape",
		"  status (stats)           Show your pirate profile",
		"  rest (heal)              Full heal at the inn, 10 berries per level",
		"  leaderboard (top)        Richest pirates",
	}
}
