package main

// World holds every entity in the arena. It has no game rules of its own;
// mutators in the simulation keep the invariants.
type World struct {
	players     map[string]*Player
	order       []string // connection order, the canonical iteration order
	projectiles []*Projectile
	powerups    []*PowerUp
}

// NewWorld creates an empty world
func NewWorld() *World {
	return &World{
		players: make(map[string]*Player),
	}
}

// AddPlayer inserts p, replacing any player with the same ID
func (w *World) AddPlayer(p *Player) {
	if _, ok := w.players[p.ID]; !ok {
		w.order = append(w.order, p.ID)
	}
	w.players[p.ID] = p
}

// RemovePlayer deletes a player and returns it, or nil if absent
func (w *World) RemovePlayer(id string) *Player {
	p, ok := w.players[id]
	if !ok {
		return nil
	}
	delete(w.players, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return p
}

// Player returns the player with the given ID, or nil
func (w *World) Player(id string) *Player {
	return w.players[id]
}

// PlayerCount returns the number of connected players, joined or not
func (w *World) PlayerCount() int {
	return len(w.players)
}

// Players returns all players in connection order
func (w *World) Players() []*Player {
	out := make([]*Player, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.players[id])
	}
	return out
}

// JoinedPlayers returns joined players in connection order
func (w *World) JoinedPlayers() []*Player {
	out := make([]*Player, 0, len(w.order))
	for _, id := range w.order {
		if p := w.players[id]; p.Joined {
			out = append(out, p)
		}
	}
	return out
}

// AddProjectile appends a projectile
func (w *World) AddProjectile(p *Projectile) {
	w.projectiles = append(w.projectiles, p)
}

// Projectiles returns the live projectile list in insertion order
func (w *World) Projectiles() []*Projectile {
	return w.projectiles
}

// SetProjectiles replaces the projectile list
func (w *World) SetProjectiles(ps []*Projectile) {
	w.projectiles = ps
}

// AddPowerUp appends a power-up
func (w *World) AddPowerUp(p *PowerUp) {
	w.powerups = append(w.powerups, p)
}

// PowerUps returns the power-up list in insertion order
func (w *World) PowerUps() []*PowerUp {
	return w.powerups
}

// SetPowerUps replaces the power-up list
func (w *World) SetPowerUps(ps []*PowerUp) {
	w.powerups = ps
}

// CommonPowerUpCount counts non-special power-ups lying in the arena
func (w *World) CommonPowerUpCount() int {
	n := 0
	for _, pu := range w.powerups {
		if !pu.IsSpecial {
			n++
		}
	}
	return n
}

// SpecialInWorld reports whether special t is lying in the arena
func (w *World) SpecialInWorld(t PowerUpType) bool {
	for _, pu := range w.powerups {
		if pu.Type == t {
			return true
		}
	}
	return false
}

// SpecialHeld reports whether any player holds special t
func (w *World) SpecialHeld(t PowerUpType) bool {
	for _, p := range w.players {
		if p.HasSpecial(t) {
			return true
		}
	}
	return false
}
