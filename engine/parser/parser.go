// Package parser converts chat command strings into Intent structs.
// Intentionally dumb: no NLP, just alias lookup.
package parser

import (
	"strings"

	"github.com/nathoo/grandline/types"
)

var verbAliases = map[string]string{
	// Exploration
	"hunt":   "explore",
	"search": "explore",
	"sail":   "explore",
	"fight":  "explore",

	// Combat
	"a":      "attack",
	"hit":    "attack",
	"strike": "attack",
	"punch":  "attack",
	"slash":  "attack",

	"d":     "defend",
	"block": "defend",
	"guard": "defend",

	"sp":    "special",
	"fruit": "special",
	"power": "special",

	"f":       "flee",
	"run":     "flee",
	"escape":  "flee",
	"retreat": "flee",

	// Out of combat
	"stats":    "status",
	"profile":  "status",
	"me":       "status",
	"heal":     "rest",
	"sleep":    "rest",
	"inn":      "rest",
	"top":      "leaderboard",
	"ranks":    "leaderboard",
	"bounty":   "leaderboard",
	"?":        "help",
	"commands": "help",
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into an Intent.
// The first word (after alias expansion) is the verb, the next word is the
// object and anything left over lands in Args.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))
	words = expandMultiWordVerbs(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	intent := types.Intent{Verb: words[0]}
	rest := stripArticles(words[1:])
	if len(rest) > 0 {
		intent.Object = rest[0]
		if len(rest) > 1 {
			intent.Args = rest[1:]
		}
	}
	return intent
}

// ParseAction maps a verb to a combat action.
func ParseAction(verb string) (types.Action, bool) {
	switch types.Action(verb) {
	case types.ActionAttack, types.ActionDefend, types.ActionSpecial, types.ActionFlee:
		return types.Action(verb), true
	}
	return "", false
}

// expandMultiWordVerbs handles "run away", "use fruit", "set sail" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "run":
		if words[1] == "away" {
			return append([]string{"flee"}, words[2:]...)
		}
	case "use":
		if words[1] == "fruit" || words[1] == "power" || words[1] == "special" {
			return append([]string{"special"}, words[2:]...)
		}
	case "set":
		if words[1] == "sail" {
			return append([]string{"explore"}, words[2:]...)
		}
	case "look":
		if words[1] == "around" {
			return append([]string{"explore"}, words[2:]...)
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}
