package main

import "go.uber.org/zap"

// KillEvent records one death during a tick
type KillEvent struct {
	Victim string
	Killer string
}

// resolveCombat advances every projectile one tick and applies hits. A projectile
// hits at most one player: the earliest connected joined player (other than its
// owner) whose hit radius it is inside. Hitting or expiring removes it.
func (g *Game) resolveCombat() []KillEvent {
	players := g.world.JoinedPlayers()
	reach := g.indexPlayers(players)

	var kills []KillEvent
	var buf []int
	all := g.world.Projectiles()
	kept := make([]*Projectile, 0, len(all))
	for _, proj := range all {
		alive, kill := g.stepProjectile(proj, players, reach, &buf)
		if alive {
			kept = append(kept, proj)
		}
		if kill != nil {
			kills = append(kills, *kill)
			// the victim respawned elsewhere
			reach = g.indexPlayers(players)
		}
	}
	g.world.SetProjectiles(kept)
	return kills
}

// stepProjectile moves one projectile and resolves its hit. A projectile that
// faults is dropped and the rest of the tick carries on.
func (g *Game) stepProjectile(proj *Projectile, players []*Player, reach float64, buf *[]int) (alive bool, kill *KillEvent) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("projectile dropped after panic", zap.Any("panic", r), zap.Uint64("tick", g.tick))
			alive = false
		}
	}()

	if !proj.Update() {
		return false, nil
	}
	var idx int
	idx, *buf = g.findVictim(proj, players, reach, (*buf)[:0])
	if idx < 0 {
		return true, nil
	}

	victim := players[idx]
	victim.Health -= proj.Damage * victim.Stats.Defense
	if victim.Health <= 0 {
		k := g.killPlayer(victim, proj.OwnerID)
		return false, &k
	}
	return false, nil
}

// indexPlayers rebuilds the broad-phase grid and returns the largest hit radius
func (g *Game) indexPlayers(players []*Player) float64 {
	g.grid.Clear()
	reach := 0.0
	for i, p := range players {
		g.grid.Insert(p.X, p.Y, i)
		if r := p.HitRadius(); r > reach {
			reach = r
		}
	}
	return reach
}

// findVictim returns the index of the player proj hits, or -1
func (g *Game) findVictim(proj *Projectile, players []*Player, reach float64, buf []int) (int, []int) {
	if len(players) == 0 {
		return -1, buf
	}
	buf = g.grid.QueryBuf(proj.X, proj.Y, reach, buf)
	best := -1
	for _, i := range buf {
		if best >= 0 && i >= best {
			continue
		}
		p := players[i]
		if p.ID == proj.OwnerID {
			continue
		}
		if InRange(proj.X, proj.Y, p.X, p.Y, p.HitRadius()) {
			best = i
		}
	}
	return best, buf
}

// killPlayer handles a death: specials drop, the victim respawns with progression
// reset, and the killer (if still connected) is credited.
func (g *Game) killPlayer(victim *Player, killerID string) KillEvent {
	g.dropSpecials(victim)
	victim.Respawn(g.rng, g.cfg.ArenaSize)

	// a departed killer gets no credit, here or in the ledger
	killerName := ""
	if killer := g.world.Player(killerID); killer != nil {
		killer.KillCount++
		killerName = killer.Name
		g.events.Track(LedgerEvent{Type: EvtKill, PlayerID: killerID, Name: killerName, OtherID: victim.ID})
	}

	g.log.Info("player killed",
		zap.String("victim", victim.ID),
		zap.String("killer", killerID),
		zap.String("killer_name", killerName),
	)
	return KillEvent{Victim: victim.ID, Killer: killerID}
}
