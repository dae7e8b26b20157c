package main

import (
	"context"
	mrand "math/rand/v2"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const inboxSize = 1024

// Broadcaster is the per-session outbound channel the game writes to
type Broadcaster interface {
	SendRaw(data []byte)    // text frame
	SendBinary(data []byte) // binary frame
	WantsBinary() bool      // msgpack state frames instead of JSON
}

// GameConfig holds the simulation tunables
type GameConfig struct {
	ArenaSize     float64
	TickRate      int
	MaxPowerUps   int
	SpawnInterval time.Duration
}

// DefaultGameConfig returns the stock arena settings
func DefaultGameConfig() GameConfig {
	return GameConfig{
		ArenaSize:     10000,
		TickRate:      60,
		MaxPowerUps:   50,
		SpawnInterval: 5 * time.Second,
	}
}

// TickDuration is the wall time between ticks
func (c GameConfig) TickDuration() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// Commands posted to the game loop by connections
type (
	Connect struct {
		ID   string
		Conn Broadcaster
		IP   string
	}
	Join struct {
		ID   string
		Name string
	}
	Update struct {
		ID          string
		X, Y, Angle float64
	}
	Shoot struct {
		ID          string
		X, Y, Angle float64
	}
	Disconnect struct {
		ID string
	}
)

// Game is one arena simulation. A single goroutine (Run) owns the world;
// every mutation happens there, so nothing inside needs locking.
type Game struct {
	cfg     GameConfig
	world   *World
	clients map[string]Broadcaster
	inbox   chan any
	done    chan struct{}
	tick    uint64
	grid    *SpatialGrid
	now     func() time.Time
	rng     *mrand.Rand
	log     *zap.Logger
	events  EventSink

	// kept by the session handlers, read from HTTP handlers
	playerCount atomic.Int64
	joinedCount atomic.Int64
}

// NewGame creates a game. events may be nil.
func NewGame(cfg GameConfig, log *zap.Logger, events EventSink) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	if events == nil {
		events = nopSink{}
	}
	return &Game{
		cfg:     cfg,
		world:   NewWorld(),
		clients: make(map[string]Broadcaster),
		inbox:   make(chan any, inboxSize),
		done:    make(chan struct{}),
		grid:    NewSpatialGrid(cfg.ArenaSize, cfg.ArenaSize, SpatialCellSize),
		now:     time.Now,
		rng:     newRand(),
		log:     log,
		events:  events,
	}
}

// Run drives the game until ctx is cancelled. Ticks, spawns and commands
// are serviced from one select, so a tick always finishes before anything else runs.
func (g *Game) Run(ctx context.Context) {
	defer close(g.done)

	ticker := time.NewTicker(g.cfg.TickDuration())
	defer ticker.Stop()
	spawner := time.NewTicker(g.cfg.SpawnInterval)
	defer spawner.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-g.inbox:
			g.handleCommand(cmd)
		case <-ticker.C:
			g.Step()
		case <-spawner.C:
			g.SpawnPowerUps()
		}
	}
}

// Post hands a command to the game loop. It returns false once the loop has stopped.
func (g *Game) Post(cmd any) bool {
	select {
	case <-g.done:
		return false
	default:
	}
	select {
	case g.inbox <- cmd:
		return true
	case <-g.done:
		return false
	}
}

func (g *Game) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Connect:
		g.OnConnect(c.ID, c.Conn, c.IP)
	case Join:
		g.OnJoin(c.ID, c.Name)
	case Update:
		g.OnUpdate(c.ID, c.X, c.Y, c.Angle)
	case Shoot:
		g.OnShoot(c.ID, c.X, c.Y, c.Angle)
	case Disconnect:
		g.OnDisconnect(c.ID)
	}
}

// Step runs one tick: stats, then combat, then the snapshot broadcast.
// A fault in the simulation still lets the snapshot go out.
func (g *Game) Step() {
	g.tick++
	g.simulate()

	defer func() {
		if r := recover(); r != nil {
			g.log.Error("broadcast panic recovered", zap.Any("panic", r), zap.Uint64("tick", g.tick))
		}
	}()
	g.broadcastState()
}

func (g *Game) simulate() {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("tick panic recovered", zap.Any("panic", r), zap.Uint64("tick", g.tick))
		}
	}()

	g.resolveStats(g.now())
	for _, k := range g.resolveCombat() {
		g.broadcastJSON(MsgPlayerKilled, KilledMsg{Victim: k.Victim, Killer: k.Killer}, "")
	}
}

// PlayerCount returns the number of connected players; safe from any goroutine
func (g *Game) PlayerCount() int {
	return int(g.playerCount.Load())
}

// JoinedCount returns the number of joined players; safe from any goroutine
func (g *Game) JoinedCount() int {
	return int(g.joinedCount.Load())
}

func (g *Game) nowMS() int64 {
	return g.now().UnixMilli()
}

// snapshot builds the per-tick state frame
func (g *Game) snapshot() GameState {
	joined := g.world.JoinedPlayers()
	state := GameState{
		Players:     make(map[string]PlayerState, len(joined)),
		Projectiles: make([]ProjectileState, 0, len(g.world.Projectiles())),
		PowerUps:    make([]PowerUpState, 0, len(g.world.PowerUps())),
		Tick:        g.tick,
	}
	for _, p := range joined {
		state.Players[p.ID] = p.ToState()
	}
	for _, proj := range g.world.Projectiles() {
		state.Projectiles = append(state.Projectiles, proj.ToState())
	}
	for _, pu := range g.world.PowerUps() {
		state.PowerUps = append(state.PowerUps, pu.ToState())
	}
	return state
}

// broadcastState sends the snapshot to every session, encoding each format at most once
func (g *Game) broadcastState() {
	if len(g.clients) == 0 {
		return
	}
	state := g.snapshot()

	var text, bin []byte
	for _, id := range g.world.order {
		c, ok := g.clients[id]
		if !ok {
			continue
		}
		if c.WantsBinary() {
			if bin == nil {
				b, err := EncodeStateMsgpack(state)
				if err != nil {
					g.log.Error("encode state", zap.Error(err))
					return
				}
				bin = b
			}
			c.SendBinary(bin)
			continue
		}
		if text == nil {
			b, err := EncodeJSON(MsgState, state)
			if err != nil {
				g.log.Error("encode state", zap.Error(err))
				return
			}
			text = b
		}
		c.SendRaw(text)
	}
}

// broadcastJSON sends one message to every session except the one named by except
func (g *Game) broadcastJSON(t string, data interface{}, except string) {
	raw, err := EncodeJSON(t, data)
	if err != nil {
		g.log.Error("encode message", zap.String("type", t), zap.Error(err))
		return
	}
	for _, id := range g.world.order {
		if id == except {
			continue
		}
		if c, ok := g.clients[id]; ok {
			c.SendRaw(raw)
		}
	}
}

// sendJSON sends one message to a single session
func (g *Game) sendJSON(id, t string, data interface{}) {
	c, ok := g.clients[id]
	if !ok {
		return
	}
	raw, err := EncodeJSON(t, data)
	if err != nil {
		g.log.Error("encode message", zap.String("type", t), zap.Error(err))
		return
	}
	c.SendRaw(raw)
}

// dropSpecials puts every special held by p back into the arena at random spots
func (g *Game) dropSpecials(p *Player) {
	for _, t := range p.Specials {
		g.world.AddPowerUp(NewSpecialPowerUp(g.rng, t, g.cfg.ArenaSize))
	}
	p.Specials = nil
}
