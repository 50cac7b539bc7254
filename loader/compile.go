// Package loader loads Lua content (enemy tables, regions, reward rules) into
// Go structs at startup. The Lua VM is discarded after loading.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/grandline/engine/progress"
	"github.com/nathoo/grandline/engine/spawn"
)

// Meta is the content pack's descriptive header.
type Meta struct {
	Title   string
	Author  string
	Version string
	Intro   string
}

// Content is everything a content pack defines.
type Content struct {
	Game     Meta
	Tables   spawn.Tables
	Rules    progress.Rules
	Warnings []string
}

// rawRegion holds a region table before compilation.
type rawRegion struct {
	id    string
	table *lua.LTable
}

// rawEnemy holds an enemy table before compilation.
type rawEnemy struct {
	id    string
	table *lua.LTable
}

// enemyDef is a compiled template not yet attached to its region.
type enemyDef struct {
	region   string
	template spawn.Template
}

// defs is the compiled, not yet validated content.
type defs struct {
	game    Meta
	scaling spawn.Scaling
	rules   progress.Rules
	regions []spawn.Region
	enemies []enemyDef
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field and whether it was present.
func getNumber(tbl *lua.LTable, key string) (float64, bool) {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(n), true
	}
	return 0, false
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	n, _ := getNumber(tbl, key)
	return int(n)
}

// setInt overwrites *dst only when key is present.
func setInt(tbl *lua.LTable, key string, dst *int) {
	if n, ok := getNumber(tbl, key); ok {
		*dst = int(n)
	}
}

// getPair reads a two-element numeric array such as {90, 110}.
func getPair(tbl *lua.LTable, key string) (int, int, bool) {
	t, ok := tbl.RawGetString(key).(*lua.LTable)
	if !ok {
		return 0, 0, false
	}
	lo, ok1 := t.RawGetInt(1).(lua.LNumber)
	hi, ok2 := t.RawGetInt(2).(lua.LNumber)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return int(lo), int(hi), true
}

// compile converts all collected Lua data into defs.
func compile(coll *collector) (*defs, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}

	d := &defs{
		game:    compileGame(coll.game),
		scaling: spawn.DefaultScaling(),
		rules:   progress.DefaultRules(),
	}
	if coll.scaling != nil {
		s, err := compileScaling(coll.scaling, d.scaling)
		if err != nil {
			return nil, fmt.Errorf("compiling scaling: %w", err)
		}
		d.scaling = s
	}
	if coll.rewards != nil {
		d.rules = compileRewards(coll.rewards, d.rules)
	}

	for _, raw := range coll.regions {
		r, err := compileRegion(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling region %s: %w", raw.id, err)
		}
		d.regions = append(d.regions, r)
	}
	for _, raw := range coll.enemies {
		e, err := compileEnemy(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling enemy %s: %w", raw.id, err)
		}
		d.enemies = append(d.enemies, e)
	}
	return d, nil
}

func compileGame(tbl *lua.LTable) Meta {
	return Meta{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
	}
}

func compileScaling(tbl *lua.LTable, s spawn.Scaling) (spawn.Scaling, error) {
	fields := []struct {
		key       string
		base, per *int
	}{
		{"health", &s.HealthBase, &s.HealthPerLevel},
		{"attack", &s.AttackBase, &s.AttackPerLevel},
		{"defense", &s.DefenseBase, &s.DefensePerLevel},
	}
	for _, f := range fields {
		if tbl.RawGetString(f.key) == lua.LNil {
			continue
		}
		base, per, ok := getPair(tbl, f.key)
		if !ok {
			return s, fmt.Errorf("%s must be {base, per_level}", f.key)
		}
		*f.base, *f.per = base, per
	}
	return s, nil
}

func compileRewards(tbl *lua.LTable, r progress.Rules) progress.Rules {
	setInt(tbl, "victory_berries", &r.VictoryBerryBase)
	setInt(tbl, "victory_exp", &r.VictoryExpBase)
	setInt(tbl, "base_requirement", &r.BaseRequirement)
	if m, ok := getNumber(tbl, "multiplier"); ok {
		r.Multiplier = m
	}
	setInt(tbl, "health_per_level", &r.HealthPerLevel)
	setInt(tbl, "attack_per_level", &r.AttackPerLevel)
	setInt(tbl, "defense_per_level", &r.DefensePerLevel)
	setInt(tbl, "max_level", &r.MaxLevel)
	setInt(tbl, "defeat_health_pct", &r.DefeatHealthPct)
	setInt(tbl, "defeat_berry_pct", &r.DefeatBerryPct)
	return r
}

func compileRegion(raw rawRegion) (spawn.Region, error) {
	tbl := raw.table
	r := spawn.Region{ID: raw.id, Name: getString(tbl, "name")}
	if r.Name == "" {
		r.Name = raw.id
	}
	lo, hi, ok := getPair(tbl, "levels")
	if !ok {
		return r, fmt.Errorf("levels must be {min, max}")
	}
	r.MinLevel, r.MaxLevel = lo, hi
	return r, nil
}

func compileEnemy(raw rawEnemy) (enemyDef, error) {
	tbl := raw.table
	t := spawn.Template{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Type:        getString(tbl, "type"),
		Description: getString(tbl, "description"),
		Weight:      1,
		MinLevel:    getInt(tbl, "min_level"),
		MaxLevel:    getInt(tbl, "max_level"),
	}
	setInt(tbl, "weight", &t.Weight)
	if t.Name == "" {
		t.Name = raw.id
	}

	jitters := []struct {
		key string
		dst *spawn.Jitter
	}{
		{"health", &t.Health},
		{"attack", &t.Attack},
		{"defense", &t.Defense},
	}
	for _, j := range jitters {
		if tbl.RawGetString(j.key) == lua.LNil {
			continue
		}
		lo, hi, ok := getPair(tbl, j.key)
		if !ok {
			return enemyDef{}, fmt.Errorf("%s must be {min_pct, max_pct}", j.key)
		}
		*j.dst = spawn.Jitter{Min: lo, Max: hi}
	}

	return enemyDef{region: getString(tbl, "region"), template: t}, nil
}

// assemble attaches templates to their regions and orders regions by level
// bracket. Call only on validated defs.
func (d *defs) assemble() *Content {
	regions := make([]spawn.Region, len(d.regions))
	copy(regions, d.regions)
	index := map[string]int{}
	for i, r := range regions {
		index[r.ID] = i
	}
	for _, e := range d.enemies {
		if i, ok := index[e.region]; ok {
			regions[i].Templates = append(regions[i].Templates, e.template)
		}
	}
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].MinLevel < regions[j].MinLevel
	})

	return &Content{
		Game:   d.game,
		Tables: spawn.Tables{Scaling: d.scaling, Regions: regions},
		Rules:  d.rules,
	}
}

// sortedLuaFiles returns .lua files with game.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
