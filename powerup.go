package main

import mrand "math/rand/v2"

const (
	PickupRadius   = 30.0
	PickupHeal     = 25.0
	EffectDuration = 10_000 // ms an active effect lasts
)

// PowerUpType tags both common power-ups and special collectibles
type PowerUpType string

// Common power-up types
const (
	PowerSpeed       PowerUpType = "SPEED"
	PowerAttackSpeed PowerUpType = "ATTACK_SPEED"
	PowerDamage      PowerUpType = "DAMAGE"
	PowerDefense     PowerUpType = "DEFENSE"
	PowerHealth      PowerUpType = "HEALTH"
)

// Special collectible types. At most one of each exists in the arena.
const (
	SpecialPurple PowerUpType = "PURPLE" // multi-shot
	SpecialGreen  PowerUpType = "GREEN"  // tankiness
	SpecialRed    PowerUpType = "RED"    // berserker
	SpecialBlue   PowerUpType = "BLUE"   // all-rounder
)

// CommonTypes lists the spawnable common power-ups
var CommonTypes = []PowerUpType{PowerSpeed, PowerAttackSpeed, PowerDamage, PowerDefense, PowerHealth}

// SpecialTypes lists the special collectibles in spawn order
var SpecialTypes = []PowerUpType{SpecialPurple, SpecialGreen, SpecialRed, SpecialBlue}

var powerUpColors = map[PowerUpType]string{
	PowerSpeed:       "#ffea00",
	PowerAttackSpeed: "#00ffff",
	PowerDamage:      "#ff3e3e",
	PowerDefense:     "#3e3eff",
	PowerHealth:      "#3eff3e",
	SpecialPurple:    "#a020f0",
	SpecialGreen:     "#00ff00",
	SpecialRed:       "#ff0000",
	SpecialBlue:      "#0000ff",
}

// IsSpecial reports whether t is one of the four special collectibles
func (t PowerUpType) IsSpecial() bool {
	switch t {
	case SpecialPurple, SpecialGreen, SpecialRed, SpecialBlue:
		return true
	}
	return false
}

// Color returns the display color for the type
func (t PowerUpType) Color() string {
	if c, ok := powerUpColors[t]; ok {
		return c
	}
	return "#ffffff"
}

// PowerUp is a collectible lying in the arena
type PowerUp struct {
	ID        string
	Type      PowerUpType
	X, Y      float64
	Color     string
	IsSpecial bool
}

// NewCommonPowerUp spawns a common power-up of a uniformly random type
func NewCommonPowerUp(rng *mrand.Rand, arenaSize float64) *PowerUp {
	t := CommonTypes[rng.IntN(len(CommonTypes))]
	x, y := randomArenaPos(rng, arenaSize)
	return &PowerUp{
		ID:    GenerateID(5),
		Type:  t,
		X:     x,
		Y:     y,
		Color: t.Color(),
	}
}

// NewSpecialPowerUp spawns a special collectible. Its ID is its type tag.
func NewSpecialPowerUp(rng *mrand.Rand, t PowerUpType, arenaSize float64) *PowerUp {
	x, y := randomArenaPos(rng, arenaSize)
	return &PowerUp{
		ID:        string(t),
		Type:      t,
		X:         x,
		Y:         y,
		Color:     t.Color(),
		IsSpecial: true,
	}
}

// ToState converts to protocol state
func (p *PowerUp) ToState() PowerUpState {
	return PowerUpState{
		ID:        p.ID,
		Type:      string(p.Type),
		X:         p.X,
		Y:         p.Y,
		Color:     p.Color,
		IsSpecial: p.IsSpecial,
	}
}
