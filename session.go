package main

import (
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const maxNameLen = 16

// OnConnect creates an unjoined player for a new session and sends it the init message.
// Peers are not told about the player until it joins.
func (g *Game) OnConnect(id string, conn Broadcaster, ip string) {
	if g.world.Player(id) != nil {
		return
	}
	p := NewPlayer(id, g.rng, g.cfg.ArenaSize)
	g.world.AddPlayer(p)
	g.playerCount.Add(1)
	if conn != nil {
		g.clients[id] = conn
	}

	players := make(map[string]PlayerState, g.world.PlayerCount())
	for _, other := range g.world.Players() {
		players[other.ID] = other.ToState()
	}
	g.sendJSON(id, MsgInit, InitMsg{ID: id, Players: players, ArenaSize: g.cfg.ArenaSize})

	g.events.Track(LedgerEvent{Type: EvtConnect, PlayerID: id, Data: ip})
	g.log.Info("player connected", zap.String("player", id), zap.String("ip", ip))
}

// OnJoin names the player and announces it to everyone else.
// A second join only renames; it is not re-announced.
func (g *Game) OnJoin(id, name string) {
	p := g.world.Player(id)
	if p == nil {
		return
	}
	p.Name = sanitizeName(name, id)
	if p.Joined {
		return
	}
	p.Joined = true
	g.joinedCount.Add(1)
	g.broadcastJSON(MsgNewPlayer, p.ToState(), id)

	g.events.Track(LedgerEvent{Type: EvtJoin, PlayerID: id, Name: p.Name})
	g.log.Info("player joined", zap.String("player", id), zap.String("name", p.Name))
}

// OnUpdate stores the client-reported position (clamped to the arena) and facing
func (g *Game) OnUpdate(id string, x, y, rotation float64) {
	p := g.world.Player(id)
	if p == nil || !p.Joined {
		return
	}
	p.X = Clamp(x, 0, g.cfg.ArenaSize)
	p.Y = Clamp(y, 0, g.cfg.ArenaSize)
	p.Rotation = rotation
}

// OnShoot fires if the player's cooldown has elapsed. Holding PURPLE fires four
// projectiles at right angles to each other. Rejected shots are dropped silently.
func (g *Game) OnShoot(id string, x, y, rotation float64) {
	p := g.world.Player(id)
	if p == nil || !p.Joined {
		return
	}
	now := g.nowMS()
	if float64(now-p.LastShot) < p.ShotCooldownMS() {
		return
	}
	p.LastShot = now

	x = Clamp(x, 0, g.cfg.ArenaSize)
	y = Clamp(y, 0, g.cfg.ArenaSize)
	angles := []float64{rotation}
	if p.HasSpecial(SpecialPurple) {
		angles = append(angles, rotation+math.Pi/2, rotation+math.Pi, rotation-math.Pi/2)
	}
	for _, a := range angles {
		g.world.AddProjectile(NewProjectile(p, x, y, a))
	}
}

// OnDisconnect removes the player, returns its specials to the arena and tells everyone
func (g *Game) OnDisconnect(id string) {
	p := g.world.RemovePlayer(id)
	delete(g.clients, id)
	if p == nil {
		return
	}
	g.playerCount.Add(-1)
	if p.Joined {
		g.joinedCount.Add(-1)
	}
	g.dropSpecials(p)
	g.broadcastJSON(MsgRemovePlayer, id, "")

	g.events.Track(LedgerEvent{Type: EvtDisconnect, PlayerID: id, Name: p.Name})
	g.log.Info("player disconnected", zap.String("player", id), zap.String("name", p.Name))
}

// sanitizeName trims and truncates a display name, falling back to the short id
func sanitizeName(name, id string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > maxNameLen {
		name = string([]rune(name)[:maxNameLen])
	}
	if name == "" {
		short := id
		if len(short) > 4 {
			short = short[:4]
		}
		name = "Player " + short
	}
	return name
}
