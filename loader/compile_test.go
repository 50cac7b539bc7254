package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/grandline/engine/spawn"
)

func TestCompileGame(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Game {
			title = "Test Seas",
			author = "Author",
			version = "1.0",
			intro = "Welcome!"
		}
	`); err != nil {
		t.Fatal(err)
	}

	game := compileGame(coll.game)
	if game.Title != "Test Seas" || game.Author != "Author" || game.Version != "1.0" || game.Intro != "Welcome!" {
		t.Errorf("game = %+v", game)
	}
}

func TestCompile_NoGame(t *testing.T) {
	if _, err := compile(&collector{}); err == nil {
		t.Fatal("expected error without Game{}")
	}
}

func TestCompileRegion(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Region "reef" { name = "Coral Reef", levels = Range(3, 9) }
		Region "bare" { levels = {1, 2} }
	`); err != nil {
		t.Fatal(err)
	}
	if len(coll.regions) != 2 {
		t.Fatalf("collected %d regions, want 2", len(coll.regions))
	}

	reef, err := compileRegion(coll.regions[0])
	if err != nil {
		t.Fatalf("compileRegion: %v", err)
	}
	if reef.ID != "reef" || reef.Name != "Coral Reef" || reef.MinLevel != 3 || reef.MaxLevel != 9 {
		t.Errorf("reef = %+v", reef)
	}

	bare, _ := compileRegion(coll.regions[1])
	if bare.Name != "bare" {
		t.Errorf("name should default to id, got %q", bare.Name)
	}
}

func TestCompileRegion_MissingLevels(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`Region "void" { name = "Void" }`); err != nil {
		t.Fatal(err)
	}
	if _, err := compileRegion(coll.regions[0]); err == nil || !strings.Contains(err.Error(), "levels") {
		t.Fatalf("err = %v", err)
	}
}

func TestCompileEnemy(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Enemy "smoker" {
			region = "loguetown",
			name = "Captain Smoker",
			type = "marine",
			description = "Smoke everywhere.",
			weight = 2,
			min_level = 10,
			max_level = 30,
			health = Range(110, 130),
			defense = {95, 105},
		}
	`); err != nil {
		t.Fatal(err)
	}

	e, err := compileEnemy(coll.enemies[0])
	if err != nil {
		t.Fatalf("compileEnemy: %v", err)
	}
	if e.region != "loguetown" {
		t.Errorf("region = %q", e.region)
	}
	want := spawn.Template{
		ID: "smoker", Name: "Captain Smoker", Type: "marine", Description: "Smoke everywhere.",
		Weight: 2, MinLevel: 10, MaxLevel: 30,
		Health:  spawn.Jitter{Min: 110, Max: 130},
		Defense: spawn.Jitter{Min: 95, Max: 105},
	}
	if e.template != want {
		t.Errorf("template = %+v, want %+v", e.template, want)
	}
}

func TestCompileEnemy_Defaults(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`Enemy "grunt" { region = "x" }`); err != nil {
		t.Fatal(err)
	}
	e, err := compileEnemy(coll.enemies[0])
	if err != nil {
		t.Fatalf("compileEnemy: %v", err)
	}
	if e.template.Name != "grunt" || e.template.Weight != 1 {
		t.Errorf("template = %+v", e.template)
	}
}

func TestCompileEnemy_BadJitter(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`Enemy "odd" { region = "x", attack = 5 }`); err != nil {
		t.Fatal(err)
	}
	if _, err := compileEnemy(coll.enemies[0]); err == nil || !strings.Contains(err.Error(), "attack") {
		t.Fatalf("err = %v", err)
	}
}

func TestCompileScaling_Malformed(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`Scaling { health = {50} }`); err != nil {
		t.Fatal(err)
	}
	if _, err := compileScaling(coll.scaling, spawn.DefaultScaling()); err == nil {
		t.Fatal("expected error for one-element pair")
	}
}

func TestCompileRewards_FractionalMultiplier(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`Rewards { multiplier = 1.25, victory_exp = 70 }`); err != nil {
		t.Fatal(err)
	}
	d, err := compile(&collector{game: L.NewTable(), rewards: coll.rewards})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if d.rules.Multiplier != 1.25 || d.rules.VictoryExpBase != 70 {
		t.Errorf("rules = %+v", d.rules)
	}
	if d.rules.VictoryBerryBase != 100 {
		t.Errorf("unset field lost its default: %+v", d.rules)
	}
}

func TestAssemble_DropsNothingAndSorts(t *testing.T) {
	d := &defs{
		regions: []spawn.Region{
			{ID: "b", MinLevel: 30, MaxLevel: 60},
			{ID: "a", MinLevel: 1, MaxLevel: 29},
		},
		enemies: []enemyDef{
			{region: "a", template: spawn.Template{ID: "a1"}},
			{region: "b", template: spawn.Template{ID: "b1"}},
			{region: "a", template: spawn.Template{ID: "a2"}},
		},
	}

	c := d.assemble()
	if c.Tables.Regions[0].ID != "a" || c.Tables.Regions[1].ID != "b" {
		t.Fatalf("regions not sorted: %+v", c.Tables.Regions)
	}
	a := c.Tables.Regions[0].Templates
	if len(a) != 2 || a[0].ID != "a1" || a[1].ID != "a2" {
		t.Errorf("region a templates = %+v", a)
	}
	if len(d.regions[0].Templates) != 0 {
		t.Error("assemble mutated defs")
	}
}
