package main

import (
	"bytes"
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Client -> Server message types
const (
	MsgJoin   = "join"
	MsgUpdate = "update"
	MsgShoot  = "shoot"
)

// Server -> Client message types
const (
	MsgInit         = "init"
	MsgNewPlayer    = "newPlayer"
	MsgRemovePlayer = "removePlayer"
	MsgPlayerKilled = "playerKilled"
	MsgState        = "state"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; D is decoded per type
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// IntentMsg carries update and shoot payloads. Pointers detect missing fields.
type IntentMsg struct {
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Rotation *float64 `json:"rotation"`
}

// Validate returns the payload values, or ok=false if any field is absent or not finite
func (m IntentMsg) Validate() (x, y, rotation float64, ok bool) {
	if m.X == nil || m.Y == nil || m.Rotation == nil {
		return 0, 0, 0, false
	}
	if !isFinite(*m.X) || !isFinite(*m.Y) || !isFinite(*m.Rotation) {
		return 0, 0, 0, false
	}
	return *m.X, *m.Y, *m.Rotation, true
}

// decodeJoinName accepts either a bare string or {"name": "..."}
func decodeJoinName(raw json.RawMessage) string {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name
	}
	return ""
}

// StatsState is the wire form of Stats
type StatsState struct {
	Damage      float64 `json:"damage"`
	Speed       float64 `json:"speed"`
	Defense     float64 `json:"defense"`
	AttackSpeed float64 `json:"attackSpeed"`
	MaxHealth   float64 `json:"maxHealth"`
	Size        float64 `json:"size"`
}

// EffectState is the wire form of ActiveEffect
type EffectState struct {
	Type   string `json:"type"`
	Expiry int64  `json:"expiry"`
}

// PlayerState is the full player object sent to clients
type PlayerState struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	X                   float64       `json:"x"`
	Y                   float64       `json:"y"`
	Rotation            float64       `json:"rotation"`
	Health              float64       `json:"health"`
	Color               string        `json:"color"`
	Joined              bool          `json:"joined"`
	LastShot            int64         `json:"lastShot"`
	KillCount           int           `json:"killCount"`
	Stats               StatsState    `json:"stats"`
	ActiveEffects       []EffectState `json:"activeEffects"`
	SpecialCollectibles []string      `json:"specialCollectibles"`
}

// ProjectileState is broadcast per projectile
type ProjectileState struct {
	ID      string  `json:"id"`
	OwnerID string  `json:"ownerId"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	Color   string  `json:"color"`
	Life    int     `json:"life"`
	Damage  float64 `json:"damage"`
}

// PowerUpState is broadcast per power-up
type PowerUpState struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Color     string  `json:"color"`
	IsSpecial bool    `json:"isSpecial"`
}

// InitMsg is sent once to a freshly connected client
type InitMsg struct {
	ID        string                 `json:"id"`
	Players   map[string]PlayerState `json:"players"`
	ArenaSize float64                `json:"arenaSize"`
}

// KilledMsg is broadcast on every death
type KilledMsg struct {
	Victim string `json:"victim"`
	Killer string `json:"killer"`
}

// GameState is the per-tick snapshot. Players holds joined players only.
type GameState struct {
	Players     map[string]PlayerState `json:"players"`
	Projectiles []ProjectileState      `json:"projectiles"`
	PowerUps    []PowerUpState         `json:"powerups"`
	Tick        uint64                 `json:"tick"`
}

// EncodeJSON marshals an envelope for a text frame
func EncodeJSON(t string, data interface{}) ([]byte, error) {
	return json.Marshal(Envelope{T: t, Data: data})
}

// EncodeStateMsgpack marshals a snapshot for a binary frame, reusing the json tags
func EncodeStateMsgpack(state GameState) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeStateMsgpack is the inverse of EncodeStateMsgpack
func DecodeStateMsgpack(data []byte) (GameState, error) {
	var state GameState
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	err := dec.Decode(&state)
	return state, err
}
