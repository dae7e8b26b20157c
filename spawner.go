package main

// SpawnPowerUps tops up the common power-up population by one (up to the cap)
// and re-creates any special collectible that is neither held nor lying in the
// arena. It is the only place specials come from besides drops, which is what
// keeps each one unique.
func (g *Game) SpawnPowerUps() {
	if g.world.CommonPowerUpCount() < g.cfg.MaxPowerUps {
		g.world.AddPowerUp(NewCommonPowerUp(g.rng, g.cfg.ArenaSize))
	}

	for _, t := range SpecialTypes {
		if g.world.SpecialHeld(t) || g.world.SpecialInWorld(t) {
			continue
		}
		g.world.AddPowerUp(NewSpecialPowerUp(g.rng, t, g.cfg.ArenaSize))
	}
}
