package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/nathoo/grandline/engine/progress"
	"github.com/nathoo/grandline/types"
)

// fakeRandom replays scripted outcomes. Unscripted calls return the
// enemy's attack slot, a failed percent roll, and the lower bound.
type fakeRandom struct {
	chances []bool
	picks   []int
	ints    []int
}

func (f *fakeRandom) PercentChance(p int) bool {
	if len(f.chances) == 0 {
		return false
	}
	c := f.chances[0]
	f.chances = f.chances[1:]
	return c
}

func (f *fakeRandom) WeightedSelect(weights []int) int {
	if len(f.picks) == 0 {
		return 0
	}
	i := f.picks[0]
	f.picks = f.picks[1:]
	return i
}

func (f *fakeRandom) UniformInt(min, max int) int {
	if len(f.ints) == 0 {
		return min
	}
	i := f.ints[0]
	f.ints = f.ints[1:]
	return i
}

const (
	pickAttack = 0
	pickDefend = 1
)

var testNow = time.UnixMilli(1_700_000_000_000)

func testPlayer() *types.Player {
	return &types.Player{
		ID: "luffy", Name: "Luffy", Level: 1, Berries: 500,
		Attack: 20, Defense: 10, Health: 100, MaxHealth: 100,
		Buffs: []types.Buff{},
	}
}

func testEnemy() types.Enemy {
	return types.Enemy{
		ID: "e1", Name: "Marine Recruit", Level: 2,
		Health: 80, MaxHealth: 80, Attack: 15, Defense: 8, Type: "marine",
	}
}

func resolve(t *testing.T, s *types.Session, p *types.Player, a types.Action, rng Random) types.ActionResult {
	t.Helper()
	res, err := Resolve(s, p, a, rng, progress.DefaultRules(), testNow)
	if err != nil {
		t.Fatalf("Resolve(%s): %v", a, err)
	}
	return res
}

func TestDamageCalc_MinimumOne(t *testing.T) {
	tests := []struct {
		attack, defense, divisor, want int
	}{
		{20, 8, 2, 16},
		{15, 10, 2, 10},
		{0, 20, 2, 1},
		{5, 100, 2, 1},
		{3, 3, 3, 2},
	}
	for _, tt := range tests {
		if got := DamageCalc(tt.attack, tt.defense, tt.divisor); got != tt.want {
			t.Errorf("DamageCalc(%d, %d, %d) = %d, want %d", tt.attack, tt.defense, tt.divisor, got, tt.want)
		}
	}
}

func TestSpecialDamage(t *testing.T) {
	tests := []struct {
		attack, power, bonus, defense, want int
	}{
		{20, 50, 0, 9, 37},  // 20×2 = 40, −3
		{20, 0, 0, 9, 17},   // 20, −3
		{20, 25, 4, 8, 32},  // 30+4 = 34, −2
		{20, 100, 0, 0, 60}, // 20×3
		{1, 0, 0, 300, 1},
	}
	for _, tt := range tests {
		if got := SpecialDamage(tt.attack, tt.power, tt.bonus, tt.defense); got != tt.want {
			t.Errorf("SpecialDamage(%d, %d, %d, %d) = %d, want %d",
				tt.attack, tt.power, tt.bonus, tt.defense, got, tt.want)
		}
	}
}

func TestFleeChance_Capped(t *testing.T) {
	tests := []struct{ level, want int }{
		{1, 52}, {10, 70}, {15, 80}, {16, 80}, {100, 80}, {1_000_000, 80},
	}
	for _, tt := range tests {
		if got := FleeChance(tt.level); got != tt.want {
			t.Errorf("FleeChance(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestNewSession(t *testing.T) {
	p := testPlayer()
	p.Health = 70
	s := NewSession(*p, testEnemy(), testNow)

	if s.PlayerID != "luffy" || s.UserHealth != 70 || s.UserMaxHealth != 100 {
		t.Errorf("user fields wrong: %+v", s)
	}
	if s.EnemyHealth != 80 || s.EnemyMaxHealth != 80 {
		t.Errorf("enemy fields wrong: %+v", s)
	}
	if s.Turn != types.TurnUser || s.Status != types.StatusActive || s.DefendBonus != 0 {
		t.Errorf("initial state wrong: turn=%s status=%s bonus=%d", s.Turn, s.Status, s.DefendBonus)
	}
	if len(s.Moves) != 0 || !s.StartTime.Equal(testNow) {
		t.Errorf("moves=%d start=%v", len(s.Moves), s.StartTime)
	}
}

// Player attacks for 16, enemy answers for 10, turn comes back.
func TestResolve_AttackExchange(t *testing.T) {
	p := testPlayer()
	s := NewSession(*p, testEnemy(), testNow)
	rng := &fakeRandom{picks: []int{pickAttack}}

	res := resolve(t, s, p, types.ActionAttack, rng)

	if res.PlayerMove.Damage != 16 || s.EnemyHealth != 64 {
		t.Errorf("player damage %d, enemy health %d; want 16, 64", res.PlayerMove.Damage, s.EnemyHealth)
	}
	if res.EnemyMove == nil || res.EnemyMove.Damage != 10 {
		t.Fatalf("enemy move = %+v, want attack for 10", res.EnemyMove)
	}
	if s.UserHealth != 90 || res.UserHealth != 90 {
		t.Errorf("user health = %d, want 90", s.UserHealth)
	}
	if s.Turn != types.TurnUser {
		t.Errorf("turn = %s, want user", s.Turn)
	}
	if _, ok := res.Outcome.(types.Continuing); !ok {
		t.Errorf("outcome = %T, want Continuing", res.Outcome)
	}
	if len(s.Moves) != 2 || s.Moves[0].Seq != 1 || s.Moves[1].Seq != 2 {
		t.Errorf("moves = %+v", s.Moves)
	}
	if s.Moves[0].EnemyHealth != 64 || s.Moves[1].UserHealth != 90 {
		t.Errorf("move snapshots = %+v", s.Moves)
	}
}

// Two defends build 2+2; the next attack spends all 4 once.
func TestResolve_DefendCompounds(t *testing.T) {
	p := testPlayer()
	s := NewSession(*p, testEnemy(), testNow)
	rng := &fakeRandom{picks: []int{pickDefend, pickDefend, pickDefend, pickDefend}}

	resolve(t, s, p, types.ActionDefend, rng)
	if s.DefendBonus != 2 {
		t.Fatalf("bonus after one defend = %d, want 2", s.DefendBonus)
	}
	resolve(t, s, p, types.ActionDefend, rng)
	if s.DefendBonus != 4 {
		t.Fatalf("bonus after two defends = %d, want 4", s.DefendBonus)
	}

	res := resolve(t, s, p, types.ActionAttack, rng)
	if res.PlayerMove.Damage != 20 {
		t.Errorf("attack damage = %d, want 20", res.PlayerMove.Damage)
	}
	if s.DefendBonus != 0 {
		t.Errorf("bonus after attack = %d, want 0", s.DefendBonus)
	}

	res = resolve(t, s, p, types.ActionAttack, rng)
	if res.PlayerMove.Damage != 16 {
		t.Errorf("second attack damage = %d, want 16 (bonus spent)", res.PlayerMove.Damage)
	}
}

func TestResolve_EnemyDefendHasNoEffect(t *testing.T) {
	p := testPlayer()
	s := NewSession(*p, testEnemy(), testNow)
	rng := &fakeRandom{picks: []int{pickDefend}}

	res := resolve(t, s, p, types.ActionAttack, rng)

	if res.EnemyMove == nil || res.EnemyMove.Action != types.ActionDefend {
		t.Fatalf("enemy move = %+v", res.EnemyMove)
	}
	if res.EnemyMove.Damage != 0 || s.UserHealth != 100 {
		t.Errorf("enemy defend dealt damage: %d, health %d", res.EnemyMove.Damage, s.UserHealth)
	}
	// The next player attack is not reduced by the enemy's defend.
	res = resolve(t, s, p, types.ActionAttack, &fakeRandom{picks: []int{pickDefend}})
	if res.PlayerMove.Damage != 16 {
		t.Errorf("damage after enemy defend = %d, want 16", res.PlayerMove.Damage)
	}
}

func TestResolve_SpecialWithoutFruitIsNoOp(t *testing.T) {
	p := testPlayer()
	p.Buffs = []types.Buff{{Source: "stale", Attack: 5, ExpiresAt: testNow.Add(-time.Minute).UnixMilli()}}
	s := NewSession(*p, testEnemy(), testNow)

	_, err := Resolve(s, p, types.ActionSpecial, &fakeRandom{}, progress.DefaultRules(), testNow)

	if !errors.Is(err, ErrNoSpecialPower) {
		t.Fatalf("err = %v, want ErrNoSpecialPower", err)
	}
	if s.Status != types.StatusActive || s.Turn != types.TurnUser {
		t.Errorf("status=%s turn=%s, want active/user", s.Status, s.Turn)
	}
	if len(s.Moves) != 0 || s.UserHealth != 100 || s.EnemyHealth != 80 {
		t.Errorf("session changed: %+v", s)
	}
	if len(p.Buffs) != 1 {
		t.Errorf("player record changed on failed special")
	}
}

func TestResolve_SpecialWithFruit(t *testing.T) {
	p := testPlayer()
	p.DevilFruit = &types.DevilFruit{Name: "Gomu Gomu", PowerLevel: 50}
	s := NewSession(*p, testEnemy(), testNow)
	s.DefendBonus = 3
	rng := &fakeRandom{picks: []int{pickAttack}}

	res := resolve(t, s, p, types.ActionSpecial, rng)

	// floor(20 × 2) + 3 = 43, minus floor(8/3) = 2.
	if res.PlayerMove.Damage != 41 {
		t.Errorf("special damage = %d, want 41", res.PlayerMove.Damage)
	}
	if s.EnemyHealth != 39 || s.DefendBonus != 0 {
		t.Errorf("enemy health %d bonus %d; want 39, 0", s.EnemyHealth, s.DefendBonus)
	}
	if res.EnemyMove == nil {
		t.Error("enemy should reply to a special")
	}
}

func TestResolve_FleeSuccess(t *testing.T) {
	p := testPlayer()
	s := NewSession(*p, testEnemy(), testNow)
	s.UserHealth = 55
	rng := &fakeRandom{chances: []bool{true}}

	res := resolve(t, s, p, types.ActionFlee, rng)

	if s.Status != types.StatusFled {
		t.Fatalf("status = %s, want fled", s.Status)
	}
	if res.EnemyMove != nil {
		t.Errorf("enemy acted after a successful flee: %+v", res.EnemyMove)
	}
	ended, ok := res.Outcome.(types.Ended)
	if !ok {
		t.Fatalf("outcome = %T, want Ended", res.Outcome)
	}
	if ended.End.Status != types.StatusFled || p.Health != 55 {
		t.Errorf("end %+v, player health %d", ended.End, p.Health)
	}
	if p.Berries != 500 || p.Wins != 0 || p.Losses != 0 {
		t.Errorf("flee changed rewards: %+v", p)
	}
}

func TestResolve_FleeFailureGivesEnemyTurn(t *testing.T) {
	p := testPlayer()
	s := NewSession(*p, testEnemy(), testNow)
	rng := &fakeRandom{chances: []bool{false}, picks: []int{pickAttack}}

	res := resolve(t, s, p, types.ActionFlee, rng)

	if s.Status != types.StatusActive {
		t.Fatalf("status = %s, want active", s.Status)
	}
	if res.PlayerMove.Success {
		t.Error("flee move marked successful")
	}
	if res.EnemyMove == nil || s.UserHealth != 90 {
		t.Errorf("enemy should have hit for 10, health %d", s.UserHealth)
	}
	if s.Turn != types.TurnUser {
		t.Errorf("turn = %s", s.Turn)
	}
}

func TestResolve_FleeFrequency(t *testing.T) {
	rng := NewRNG(7)
	const trials = 10000
	fled := 0
	for i := 0; i < trials; i++ {
		p := testPlayer()
		s := NewSession(*p, testEnemy(), testNow)
		res := resolve(t, s, p, types.ActionFlee, rng)
		if _, ok := res.Outcome.(types.Ended); ok && s.Status == types.StatusFled {
			fled++
		}
	}
	// Level 1: 52% expected.
	if fled < 4900 || fled > 5500 {
		t.Errorf("fled %d/%d times, expected ~5200", fled, trials)
	}
}

func TestResolve_VictoryWithLevelUp(t *testing.T) {
	p := testPlayer()
	p.Experience = 95
	s := NewSession(*p, testEnemy(), testNow)
	s.EnemyHealth = 10
	s.UserHealth = 40

	res := resolve(t, s, p, types.ActionAttack, &fakeRandom{})

	if s.Status != types.StatusVictory {
		t.Fatalf("status = %s, want victory", s.Status)
	}
	if s.EnemyHealth != 0 || res.EnemyHealth != 0 {
		t.Errorf("enemy health = %d, want floored at 0", s.EnemyHealth)
	}
	if res.EnemyMove != nil {
		t.Error("a defeated enemy must not act")
	}
	ended, ok := res.Outcome.(types.Ended)
	if !ok {
		t.Fatalf("outcome = %T", res.Outcome)
	}
	end := ended.End
	// Enemy level 2: berries 100×1.2, exp 50×1.4.
	if end.BerriesGain != 120 || end.ExpGain != 70 {
		t.Errorf("rewards = %d berries, %d exp", end.BerriesGain, end.ExpGain)
	}
	if end.LevelUp == nil || end.LevelUp.NewLevel != 2 {
		t.Fatalf("level up = %+v", end.LevelUp)
	}
	if p.Level != 2 || p.Health != 120 || p.Experience != 0 || p.Wins != 1 || p.EnemiesDefeated != 1 {
		t.Errorf("player after victory = %+v", p)
	}
}

func TestResolve_Defeat(t *testing.T) {
	p := testPlayer()
	p.Berries = 999
	s := NewSession(*p, testEnemy(), testNow)
	s.UserHealth = 5
	rng := &fakeRandom{picks: []int{pickAttack}}

	res := resolve(t, s, p, types.ActionDefend, rng)

	if s.Status != types.StatusDefeat {
		t.Fatalf("status = %s, want defeat", s.Status)
	}
	if s.UserHealth != 0 || s.Turn != types.TurnEnemy {
		t.Errorf("health=%d turn=%s; want 0 and enemy", s.UserHealth, s.Turn)
	}
	ended := res.Outcome.(types.Ended)
	if ended.End.BerriesLost != 99 || p.Berries != 900 {
		t.Errorf("lost %d, left %d", ended.End.BerriesLost, p.Berries)
	}
	if p.Health != 10 || p.Losses != 1 {
		t.Errorf("player after defeat = %+v", p)
	}
}

func TestResolve_TerminalSessionIsFinal(t *testing.T) {
	p := testPlayer()
	s := NewSession(*p, testEnemy(), testNow)
	s.EnemyHealth = 1
	resolve(t, s, p, types.ActionAttack, &fakeRandom{})
	before := len(s.Moves)

	for _, a := range []types.Action{types.ActionAttack, types.ActionDefend, types.ActionFlee, types.ActionSpecial} {
		_, err := Resolve(s, p, a, &fakeRandom{}, progress.DefaultRules(), testNow)
		if !errors.Is(err, ErrSessionNotActive) {
			t.Errorf("%s on ended session: err = %v", a, err)
		}
	}
	if len(s.Moves) != before || s.Status != types.StatusVictory {
		t.Error("terminal session mutated")
	}
}

func TestResolve_Errors(t *testing.T) {
	p := testPlayer()

	if _, err := Resolve(nil, p, types.ActionAttack, &fakeRandom{}, progress.DefaultRules(), testNow); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("nil session: %v", err)
	}

	s := NewSession(*p, testEnemy(), testNow)
	s.Turn = types.TurnEnemy
	if _, err := Resolve(s, p, types.ActionAttack, &fakeRandom{}, progress.DefaultRules(), testNow); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("enemy turn: %v", err)
	}

	s = NewSession(*p, testEnemy(), testNow)
	_, err := Resolve(s, p, types.Action("dance"), &fakeRandom{}, progress.DefaultRules(), testNow)
	if !errors.Is(err, ErrInvalidAction) || CodeOf(err) != CodeInvalidAction {
		t.Errorf("invalid action: %v", err)
	}
	if len(s.Moves) != 0 {
		t.Error("invalid action appended a move")
	}
}

func TestResolve_BuffsApplyAndExpire(t *testing.T) {
	p := testPlayer()
	p.Buffs = []types.Buff{
		{Source: "meat", Attack: 10, ExpiresAt: testNow.Add(time.Minute).UnixMilli()},
		{Source: "old", Attack: 99, ExpiresAt: testNow.Add(-time.Minute).UnixMilli()},
	}
	s := NewSession(*p, testEnemy(), testNow)

	res := resolve(t, s, p, types.ActionAttack, &fakeRandom{picks: []int{pickDefend}})

	if res.Attack != 30 || res.PlayerMove.Damage != 26 {
		t.Errorf("attack %d damage %d; want 30, 26", res.Attack, res.PlayerMove.Damage)
	}
	if len(p.Buffs) != 1 || p.Buffs[0].Source != "meat" {
		t.Errorf("expired buff not pruned: %+v", p.Buffs)
	}
}

func TestResolve_HealthBoundsAndAlternation(t *testing.T) {
	rng := NewRNG(2024)
	actions := []types.Action{types.ActionAttack, types.ActionDefend, types.ActionSpecial, types.ActionDefend, types.ActionAttack}

	for fight := 0; fight < 300; fight++ {
		p := testPlayer()
		p.Defense = rng.UniformInt(0, 60)
		p.DevilFruit = &types.DevilFruit{Name: "Mera Mera", PowerLevel: rng.UniformInt(0, 100)}
		enemy := testEnemy()
		enemy.Attack = rng.UniformInt(1, 80)
		enemy.Defense = rng.UniformInt(0, 200)
		s := NewSession(*p, enemy, testNow)

		for i := 0; s.Status == types.StatusActive; i++ {
			a := actions[rng.UniformInt(0, len(actions)-1)]
			res := resolve(t, s, p, a, rng)

			if s.UserHealth < 0 || s.UserHealth > s.UserMaxHealth {
				t.Fatalf("user health out of bounds: %d/%d", s.UserHealth, s.UserMaxHealth)
			}
			if s.EnemyHealth < 0 || s.EnemyHealth > s.EnemyMaxHealth {
				t.Fatalf("enemy health out of bounds: %d/%d", s.EnemyHealth, s.EnemyMaxHealth)
			}
			if (a == types.ActionAttack || a == types.ActionSpecial) && res.PlayerMove.Damage < 1 {
				t.Fatalf("%s dealt %d damage", a, res.PlayerMove.Damage)
			}
			if _, ok := res.Outcome.(types.Continuing); ok && s.Turn != types.TurnUser {
				t.Fatalf("turn = %s after continuing exchange", s.Turn)
			}
			if i > 10000 {
				t.Fatal("fight did not end")
			}
		}
	}
}
