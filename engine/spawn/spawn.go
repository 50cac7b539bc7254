// Package spawn generates level-scaled enemies from region template pools.
package spawn

import (
	"github.com/google/uuid"

	"github.com/nathoo/grandline/types"
)

const (
	minEnemyLevel = 1
	maxEnemyLevel = 100
	levelSpread   = 3
)

// Random is the subset of the outcome provider the generator needs.
type Random interface {
	UniformInt(min, max int) int
	WeightedSelect(weights []int) int
}

// Scaling holds the linear stat coefficients: stat = base + level×perLevel.
type Scaling struct {
	HealthBase, HealthPerLevel   int
	AttackBase, AttackPerLevel   int
	DefenseBase, DefensePerLevel int
}

// Jitter is an inclusive multiplier range in percent; {80, 120} is ×U(0.8, 1.2).
// The zero value applies no jitter.
type Jitter struct {
	Min int
	Max int
}

// Template is one enemy flavor inside a region.
type Template struct {
	ID          string
	Name        string
	Type        string
	Description string
	Weight      int
	MinLevel    int // 0 means no lower bound on player level
	MaxLevel    int // 0 means no upper bound on player level
	Health      Jitter
	Attack      Jitter
	Defense     Jitter
}

// Region is a level-banded area with its template pool.
type Region struct {
	ID        string
	Name      string
	MinLevel  int
	MaxLevel  int
	Templates []Template
}

// Tables is the content the generator draws from.
type Tables struct {
	Scaling Scaling
	Regions []Region
}

// Generator produces enemies. It is not safe for concurrent use when its
// Random is not.
type Generator struct {
	Tables Tables
	RNG    Random
	NewID  func() string
}

// NewGenerator creates a generator with uuid-based enemy ids.
func NewGenerator(tables Tables, rng Random) *Generator {
	return &Generator{Tables: tables, RNG: rng, NewID: uuid.NewString}
}

// Generate produces an enemy near playerLevel. region selects a pool by id;
// an empty region picks the tier whose bracket holds playerLevel. When no
// template applies the enemy is a generic one with unjittered base stats.
func (g *Generator) Generate(playerLevel int, region string) types.Enemy {
	level := clamp(g.RNG.UniformInt(playerLevel-levelSpread, playerLevel+levelSpread), minEnemyLevel, maxEnemyLevel)
	base := g.Tables.Scaling.stats(level)

	enemy := types.Enemy{
		ID:          g.NewID(),
		Name:        "Wandering Pirate",
		Level:       level,
		Type:        "pirate",
		Description: "A nameless rogue looking for trouble.",
	}

	var t *Template
	if r := g.Region(playerLevel, region); r != nil {
		t = g.pick(r.eligible(playerLevel))
	}
	if t == nil {
		enemy.Health, enemy.Attack, enemy.Defense = base.health, base.attack, base.defense
	} else {
		enemy.Name = t.Name
		enemy.Type = t.Type
		enemy.Description = t.Description
		enemy.Health = max(1, g.jitter(base.health, t.Health))
		enemy.Attack = max(1, g.jitter(base.attack, t.Attack))
		enemy.Defense = max(0, g.jitter(base.defense, t.Defense))
	}
	enemy.MaxHealth = enemy.Health
	return enemy
}

// Region resolves a region by id, or by player level bracket when id is empty.
// Returns nil when nothing matches.
func (g *Generator) Region(playerLevel int, id string) *Region {
	for i := range g.Tables.Regions {
		r := &g.Tables.Regions[i]
		if id != "" {
			if r.ID == id {
				return r
			}
			continue
		}
		if playerLevel >= r.MinLevel && (r.MaxLevel == 0 || playerLevel <= r.MaxLevel) {
			return r
		}
	}
	return nil
}

func (g *Generator) pick(pool []Template) *Template {
	if len(pool) == 0 {
		return nil
	}
	weights := make([]int, len(pool))
	for i, t := range pool {
		weights[i] = max(1, t.Weight)
	}
	return &pool[g.RNG.WeightedSelect(weights)]
}

func (g *Generator) jitter(v int, j Jitter) int {
	if j.Min == 0 && j.Max == 0 {
		return v
	}
	return v * g.RNG.UniformInt(j.Min, j.Max) / 100
}

func (r *Region) eligible(playerLevel int) []Template {
	var out []Template
	for _, t := range r.Templates {
		if t.MinLevel != 0 && playerLevel < t.MinLevel {
			continue
		}
		if t.MaxLevel != 0 && playerLevel > t.MaxLevel {
			continue
		}
		out = append(out, t)
	}
	return out
}

type baseStats struct {
	health, attack, defense int
}

func (s Scaling) stats(level int) baseStats {
	return baseStats{
		health:  s.HealthBase + level*s.HealthPerLevel,
		attack:  s.AttackBase + level*s.AttackPerLevel,
		defense: s.DefenseBase + level*s.DefensePerLevel,
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
