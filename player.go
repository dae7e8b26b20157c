package main

import (
	"fmt"
	"math"
	mrand "math/rand/v2"
)

// Base stat values every recompute starts from
const (
	BaseDamage      = 10.0
	BaseSpeed       = 10.0
	BaseDefense     = 1.0 // damage taken multiplier, lower is tankier
	BaseAttackSpeed = 1.0 // fire rate multiplier
	BaseMaxHealth   = 100.0
	KillGrowth      = 1.25 // size multiplier per kill
	PlayerHitRadius = 20.0 // scaled by size
)

// Stats are a player's derived values, rebuilt every tick
type Stats struct {
	Damage      float64
	Speed       float64
	Defense     float64
	AttackSpeed float64
	MaxHealth   float64
	Size        float64
}

// BaseStats returns the stats of a fresh player with no kills or buffs
func BaseStats() Stats {
	return Stats{
		Damage:      BaseDamage,
		Speed:       BaseSpeed,
		Defense:     BaseDefense,
		AttackSpeed: BaseAttackSpeed,
		MaxHealth:   BaseMaxHealth,
		Size:        1,
	}
}

// ActiveEffect is a timed buff from a common power-up
type ActiveEffect struct {
	Type   PowerUpType
	Expiry int64 // unix ms
}

// Player is one session's avatar
type Player struct {
	ID        string
	Name      string
	X, Y      float64
	Rotation  float64
	Health    float64
	Color     string
	Joined    bool
	LastShot  int64 // unix ms, 0 = never
	KillCount int
	Stats     Stats
	Effects   []ActiveEffect
	Specials  []PowerUpType // held special collectibles, no duplicates
}

// NewPlayer creates an unjoined player at a random position with a random hue
func NewPlayer(id string, rng *mrand.Rand, arenaSize float64) *Player {
	x, y := randomArenaPos(rng, arenaSize)
	return &Player{
		ID:     id,
		Name:   "Connecting...",
		X:      x,
		Y:      y,
		Health: BaseMaxHealth,
		Color:  fmt.Sprintf("hsl(%.0f, 70%%, 60%%)", rng.Float64()*360),
		Stats:  BaseStats(),
	}
}

// HasSpecial reports whether the player holds special t
func (p *Player) HasSpecial(t PowerUpType) bool {
	for _, s := range p.Specials {
		if s == t {
			return true
		}
	}
	return false
}

// HitRadius is the distance under which a projectile hits this player
func (p *Player) HitRadius() float64 {
	return PlayerHitRadius * p.Stats.Size
}

// ShotCooldownMS is the minimum gap between accepted shots
func (p *Player) ShotCooldownMS() float64 {
	return 500 / p.Stats.AttackSpeed
}

// Heal adds hp, never past MaxHealth
func (p *Player) Heal(hp float64) {
	p.Health = math.Min(p.Stats.MaxHealth, p.Health+hp)
}

// Respawn resets progression after a death and moves the player to a random spot.
// The caller is responsible for dropping held specials first.
func (p *Player) Respawn(rng *mrand.Rand, arenaSize float64) {
	p.Health = BaseMaxHealth
	p.X, p.Y = randomArenaPos(rng, arenaSize)
	p.Effects = nil
	p.Specials = nil
	p.KillCount = 0
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	effects := make([]EffectState, 0, len(p.Effects))
	for _, e := range p.Effects {
		effects = append(effects, EffectState{Type: string(e.Type), Expiry: e.Expiry})
	}
	specials := make([]string, 0, len(p.Specials))
	for _, s := range p.Specials {
		specials = append(specials, string(s))
	}
	return PlayerState{
		ID:        p.ID,
		Name:      p.Name,
		X:         p.X,
		Y:         p.Y,
		Rotation:  p.Rotation,
		Health:    p.Health,
		Color:     p.Color,
		Joined:    p.Joined,
		LastShot:  p.LastShot,
		KillCount: p.KillCount,
		Stats: StatsState{
			Damage:      p.Stats.Damage,
			Speed:       p.Stats.Speed,
			Defense:     p.Stats.Defense,
			AttackSpeed: p.Stats.AttackSpeed,
			MaxHealth:   p.Stats.MaxHealth,
			Size:        p.Stats.Size,
		},
		ActiveEffects:       effects,
		SpecialCollectibles: specials,
	}
}
