package loader

import (
	"fmt"
	"sort"
	"strings"
)

const (
	minLevel = 1
	maxLevel = 100
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// validate checks compiled defs for referential integrity and sane numbers.
// Warnings are returned even when validation passes.
func validate(d *defs) ([]string, error) {
	ve := &ValidationError{}

	if d.game.Title == "" {
		ve.errorf("Game.Title is required")
	}

	validateScaling(d, ve)
	validateRules(d, ve)

	if len(d.regions) == 0 {
		ve.errorf("at least one Region is required")
	}
	regionIDs := map[string]bool{}
	for _, r := range d.regions {
		if regionIDs[r.ID] {
			ve.errorf("duplicate region ID %q", r.ID)
		}
		regionIDs[r.ID] = true
		if r.MinLevel < minLevel || r.MaxLevel > maxLevel || r.MinLevel > r.MaxLevel {
			ve.errorf("region %q levels {%d, %d} must satisfy %d <= min <= max <= %d",
				r.ID, r.MinLevel, r.MaxLevel, minLevel, maxLevel)
		}
	}

	enemyIDs := map[string]bool{}
	perRegion := map[string]int{}
	for _, e := range d.enemies {
		t := e.template
		if enemyIDs[t.ID] {
			ve.errorf("duplicate enemy ID %q", t.ID)
		}
		enemyIDs[t.ID] = true

		switch {
		case e.region == "":
			ve.errorf("enemy %q has no region", t.ID)
		case !regionIDs[e.region]:
			ve.errorf("enemy %q references undefined region %q", t.ID, e.region)
		default:
			perRegion[e.region]++
		}

		if t.Weight < 0 {
			ve.errorf("enemy %q weight %d must not be negative", t.ID, t.Weight)
		}
		if t.MinLevel != 0 && t.MaxLevel != 0 && t.MinLevel > t.MaxLevel {
			ve.errorf("enemy %q min_level %d exceeds max_level %d", t.ID, t.MinLevel, t.MaxLevel)
		}
		for name, j := range map[string]struct{ lo, hi int }{
			"health":  {t.Health.Min, t.Health.Max},
			"attack":  {t.Attack.Min, t.Attack.Max},
			"defense": {t.Defense.Min, t.Defense.Max},
		} {
			if j.lo == 0 && j.hi == 0 {
				continue
			}
			if j.lo <= 0 || j.lo > j.hi {
				ve.errorf("enemy %q %s range {%d, %d} must satisfy 0 < min <= max", t.ID, name, j.lo, j.hi)
			}
		}
	}

	for _, r := range d.regions {
		if perRegion[r.ID] == 0 {
			ve.warnf("region %q has no enemies; the generic fallback will be used", r.ID)
		}
	}
	warnOverlaps(d, ve)

	// Map iteration above is unordered.
	sort.Strings(ve.Errors)

	if len(ve.Errors) > 0 {
		return ve.Warnings, ve
	}
	return ve.Warnings, nil
}

func validateScaling(d *defs, ve *ValidationError) {
	s := d.scaling
	if s.HealthBase < 0 || s.HealthPerLevel < 0 || s.AttackBase < 0 ||
		s.AttackPerLevel < 0 || s.DefenseBase < 0 || s.DefensePerLevel < 0 {
		ve.errorf("Scaling coefficients must not be negative")
	}
	if s.HealthBase+s.HealthPerLevel <= 0 {
		ve.errorf("Scaling.health must give level 1 enemies positive health")
	}
}

func validateRules(d *defs, ve *ValidationError) {
	r := d.rules
	if r.Multiplier <= 1 {
		ve.errorf("Rewards.multiplier %v must be greater than 1", r.Multiplier)
	}
	if r.BaseRequirement <= 0 {
		ve.errorf("Rewards.base_requirement must be positive")
	}
	if r.MaxLevel < minLevel || r.MaxLevel > maxLevel {
		ve.errorf("Rewards.max_level %d must be within [%d, %d]", r.MaxLevel, minLevel, maxLevel)
	}
	if r.VictoryBerryBase < 0 || r.VictoryExpBase < 0 {
		ve.errorf("Rewards victory amounts must not be negative")
	}
	if r.HealthPerLevel < 0 || r.AttackPerLevel < 0 || r.DefensePerLevel < 0 {
		ve.errorf("Rewards per-level gains must not be negative")
	}
	if r.DefeatHealthPct < 0 || r.DefeatHealthPct > 100 {
		ve.errorf("Rewards.defeat_health_pct %d must be within [0, 100]", r.DefeatHealthPct)
	}
	if r.DefeatBerryPct < 0 || r.DefeatBerryPct > 100 {
		ve.errorf("Rewards.defeat_berry_pct %d must be within [0, 100]", r.DefeatBerryPct)
	}
}

// warnOverlaps flags regions whose level brackets overlap; automatic region
// selection picks the one with the lowest minimum level.
func warnOverlaps(d *defs, ve *ValidationError) {
	for i, a := range d.regions {
		for _, b := range d.regions[i+1:] {
			if a.MinLevel <= b.MaxLevel && b.MinLevel <= a.MaxLevel {
				ve.warnf("regions %q and %q have overlapping level brackets", a.ID, b.ID)
			}
		}
	}
}
