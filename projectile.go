package main

import "math"

const (
	ProjectileSpeed    = 20.0 // units per tick
	ProjectileLifetime = 100  // ticks
)

// Projectile is a shot in flight
type Projectile struct {
	ID      string
	OwnerID string
	X, Y    float64
	VX, VY  float64
	Color   string
	Life    int
	Damage  float64 // owner's damage stat when fired
}

// NewProjectile creates a projectile travelling along angle from (x, y)
func NewProjectile(owner *Player, x, y, angle float64) *Projectile {
	return &Projectile{
		ID:      GenerateID(3),
		OwnerID: owner.ID,
		X:       x,
		Y:       y,
		VX:      math.Cos(angle) * ProjectileSpeed,
		VY:      math.Sin(angle) * ProjectileSpeed,
		Color:   owner.Color,
		Life:    ProjectileLifetime,
		Damage:  owner.Stats.Damage,
	}
}

// Update moves the projectile one tick and reports whether it is still alive
func (p *Projectile) Update() bool {
	p.X += p.VX
	p.Y += p.VY
	p.Life--
	return p.Life > 0
}

// ToState converts to protocol state
func (p *Projectile) ToState() ProjectileState {
	return ProjectileState{
		ID:      p.ID,
		OwnerID: p.OwnerID,
		X:       p.X,
		Y:       p.Y,
		VX:      p.VX,
		VY:      p.VY,
		Color:   p.Color,
		Life:    p.Life,
		Damage:  p.Damage,
	}
}
