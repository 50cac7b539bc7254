package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// healthBar draws a fixed-width gauge such as "[#####.....]".
func healthBar(cur, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := min(width, max(0, cur)*width/total)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// renderStatusBar produces a full-width status line showing the player's
// level, health and purse, or the enemy's health during a fight.
func (m Model) renderStatusBar() string {
	p := m.player

	left := fmt.Sprintf(" %s Lv%d | HP %d/%d | ฿%d", p.Name, p.Level, p.Health, p.MaxHealth, p.Berries)
	right := fmt.Sprintf("EXP %d/%d ", p.Experience, m.bot.Engine.Rules.ExpToAdvance(p.Level))
	style := styleStatusBar

	if s := m.session; s != nil {
		left = fmt.Sprintf(" %s Lv%d | HP %d/%d", p.Name, p.Level, s.UserHealth, s.UserMaxHealth)
		right = fmt.Sprintf("vs %s %d/%d ", s.Enemy.Name, s.EnemyHealth, s.EnemyMaxHealth)
		candidate := fmt.Sprintf("vs %s %s %d/%d ", s.Enemy.Name, healthBar(s.EnemyHealth, s.EnemyMaxHealth, 10), s.EnemyHealth, s.EnemyMaxHealth)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		}
		style = styleStatusBattle
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return style.Width(m.width).Render(bar)
}
