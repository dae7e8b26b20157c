package main

import (
	"encoding/json"
	mrand "math/rand/v2"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// testClock is a manually advanced clock
type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// fakeConn captures frames sent to one session
type fakeConn struct {
	mu     sync.Mutex
	binary bool
	text   [][]byte
	bin    [][]byte
}

func (f *fakeConn) SendRaw(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = append(f.text, data)
}

func (f *fakeConn) SendBinary(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bin = append(f.bin, data)
}

func (f *fakeConn) WantsBinary() bool { return f.binary }

// messages returns the decoded text envelopes of the given type
func (f *fakeConn) messages(t *testing.T, typ string) []InEnvelope {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []InEnvelope
	for _, raw := range f.text {
		var env InEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("unmarshal frame: %v", err)
		}
		if env.T == typ {
			out = append(out, env)
		}
	}
	return out
}

func (f *fakeConn) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = nil
	f.bin = nil
}

// newTestGame returns a game with a fixed clock and a seeded rng
func newTestGame(t *testing.T) (*Game, *testClock) {
	t.Helper()
	g := NewGame(DefaultGameConfig(), zap.NewNop(), nil)
	clock := &testClock{t: time.UnixMilli(1_700_000_000_000)}
	g.now = clock.Now
	g.rng = mrand.New(mrand.NewPCG(1, 2))
	return g, clock
}

// addJoined connects and joins a player at (x, y)
func addJoined(t *testing.T, g *Game, id string, x, y float64) (*Player, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	g.OnConnect(id, conn, "127.0.0.1")
	g.OnJoin(id, id)
	p := g.world.Player(id)
	if p == nil {
		t.Fatalf("player %s not created", id)
	}
	p.X, p.Y = x, y
	return p, conn
}

func countSpecial(g *Game, typ PowerUpType) int {
	n := 0
	for _, p := range g.world.Players() {
		if p.HasSpecial(typ) {
			n++
		}
	}
	for _, pu := range g.world.PowerUps() {
		if pu.Type == typ {
			n++
		}
	}
	return n
}

func approx(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
