// Package save implements the versioned JSON encoding of player and session
// records used by the durable stores.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/grandline/types"
)

// Version is the current record format version.
const Version = 1

// PlayerData is the JSON-serializable player record.
type PlayerData struct {
	Version int          `json:"version"`
	Player  types.Player `json:"player"`
}

// SessionData is the JSON-serializable session record.
type SessionData struct {
	Version int           `json:"version"`
	Session types.Session `json:"session"`
}

// EncodePlayer serializes a player record.
func EncodePlayer(p types.Player) ([]byte, error) {
	return json.Marshal(PlayerData{Version: Version, Player: p})
}

// DecodePlayer deserializes a player record.
func DecodePlayer(data []byte) (types.Player, error) {
	var pd PlayerData
	if err := json.Unmarshal(data, &pd); err != nil {
		return types.Player{}, fmt.Errorf("decode player: %w", err)
	}
	if pd.Version > Version {
		return types.Player{}, fmt.Errorf("decode player: unsupported version %d", pd.Version)
	}
	// Ensure slices are never nil after load.
	if pd.Player.Buffs == nil {
		pd.Player.Buffs = []types.Buff{}
	}
	return pd.Player, nil
}

// EncodeSession serializes a session record.
func EncodeSession(s *types.Session) ([]byte, error) {
	return json.Marshal(SessionData{Version: Version, Session: *s})
}

// DecodeSession deserializes a session record.
func DecodeSession(data []byte) (*types.Session, error) {
	var sd SessionData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if sd.Version > Version {
		return nil, fmt.Errorf("decode session: unsupported version %d", sd.Version)
	}
	if sd.Session.Moves == nil {
		sd.Session.Moves = []types.Move{}
	}
	return &sd.Session, nil
}
