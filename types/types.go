// Package types defines the shared data structures for the Grand Line combat core.
// This package contains only type definitions and their trivial accessors.
package types

import "time"

// Intent is the parsed representation of a player command.
type Intent struct {
	Verb   string
	Object string   // optional
	Args   []string // remaining tokens after the object
}

// Action is a combat action token.
type Action string

const (
	ActionAttack  Action = "attack"
	ActionDefend  Action = "defend"
	ActionSpecial Action = "special"
	ActionFlee    Action = "flee"
)

// Turn identifies whose move a session is waiting on.
type Turn string

const (
	TurnUser  Turn = "user"
	TurnEnemy Turn = "enemy"
)

// Status is the lifecycle state of a combat session.
type Status string

const (
	StatusActive  Status = "active"
	StatusVictory Status = "victory"
	StatusDefeat  Status = "defeat"
	StatusFled    Status = "fled"
)

// Terminal reports whether no further actions can change the session.
func (s Status) Terminal() bool {
	return s != StatusActive
}

// Buff is a time-limited consumable bonus to damage stats.
type Buff struct {
	Source    string `json:"source"` // identity; same source replaces, never stacks
	Attack    int    `json:"attack"`
	Defense   int    `json:"defense"`
	ExpiresAt int64  `json:"expires_at"` // epoch milliseconds
}

// DevilFruit is a player's optional special power.
type DevilFruit struct {
	Name       string `json:"name"`
	PowerLevel int    `json:"power_level"` // 0–100
}

// Player holds the progression fields read and written by the combat core.
// Persistence belongs to the player store.
type Player struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Level           int         `json:"level"`
	Experience      int         `json:"experience"`
	Berries         int         `json:"berries"`
	Attack          int         `json:"attack"`
	Defense         int         `json:"defense"`
	Health          int         `json:"health"`
	MaxHealth       int         `json:"max_health"`
	Wins            int         `json:"wins"`
	Losses          int         `json:"losses"`
	EnemiesDefeated int         `json:"enemies_defeated"`
	DevilFruit      *DevilFruit `json:"devil_fruit,omitempty"`
	Buffs           []Buff      `json:"buffs"`
}

// Enemy is a generated opponent. It lives only as long as its session.
type Enemy struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Level       int    `json:"level"`
	Health      int    `json:"health"`
	MaxHealth   int    `json:"max_health"`
	Attack      int    `json:"attack"`
	Defense     int    `json:"defense"`
	Type        string `json:"type"` // loot-table tag
	Description string `json:"description"`
}

// Move is one resolved action in a session's log.
type Move struct {
	Seq         int    `json:"seq"`
	Actor       Turn   `json:"actor"`
	Action      Action `json:"action"`
	Damage      int    `json:"damage,omitempty"`
	DefendGain  int    `json:"defend_gain,omitempty"`
	Success     bool   `json:"success,omitempty"` // flee only
	UserHealth  int    `json:"user_health"`
	EnemyHealth int    `json:"enemy_health"`
}

// Session is one battle between a player and a generated enemy.
type Session struct {
	PlayerID       string    `json:"player_id"`
	Enemy          Enemy     `json:"enemy"`
	UserHealth     int       `json:"user_health"`
	UserMaxHealth  int       `json:"user_max_health"`
	EnemyHealth    int       `json:"enemy_health"`
	EnemyMaxHealth int       `json:"enemy_max_health"`
	Turn           Turn      `json:"turn"`
	Moves          []Move    `json:"moves"`
	StartTime      time.Time `json:"start_time"`
	Status         Status    `json:"status"`
	DefendBonus    int       `json:"defend_bonus"`
}

// LevelUp describes a single level gained.
type LevelUp struct {
	OldLevel     int
	NewLevel     int
	HealthGain   int
	AttackGain   int
	DefenseGain  int
	NewMaxHealth int
}

// EndResult is what a terminal session changed on the player.
type EndResult struct {
	Status       Status
	BerriesGain  int // victory
	ExpGain      int // victory
	BerriesLost  int // defeat
	HealthAfter  int
	LevelUp      *LevelUp // nil unless the victory crossed a threshold
	ExpToAdvance int      // experience needed for the next level after the fight
}

// Outcome is either Continuing or Ended.
type Outcome interface {
	isOutcome()
}

// Continuing means the session is still active and waiting on the user.
type Continuing struct{}

// Ended means the session reached a terminal status and was torn down.
type Ended struct {
	End EndResult
}

func (Continuing) isOutcome() {}
func (Ended) isOutcome()      {}

// ActionResult is the full report of one resolved user action,
// including the synchronous enemy reply when there was one.
type ActionResult struct {
	Action      Action
	PlayerMove  Move
	EnemyMove   *Move // nil when the enemy did not act
	UserHealth  int
	EnemyHealth int
	DefendBonus int
	Attack      int // player's effective attack used this exchange
	Defense     int // player's effective defense used this exchange
	Outcome     Outcome
}

// Result is the output of a single host command.
type Result struct {
	Output []string
	Action *ActionResult // set when the command resolved a combat action
}
