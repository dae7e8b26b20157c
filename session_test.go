package main

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
)

func TestOnConnectSendsInit(t *testing.T) {
	g, _ := newTestGame(t)
	_, _ = addJoined(t, g, "veteran", 1000, 1000)

	conn := &fakeConn{}
	g.OnConnect("newbie", conn, "10.0.0.1")

	inits := conn.messages(t, MsgInit)
	if len(inits) != 1 {
		t.Fatalf("expected 1 init, got %d", len(inits))
	}
	var msg InitMsg
	if err := json.Unmarshal(inits[0].D, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.ID != "newbie" {
		t.Errorf("expected id newbie, got %s", msg.ID)
	}
	if msg.ArenaSize != 10000 {
		t.Errorf("expected arena 10000, got %f", msg.ArenaSize)
	}
	if len(msg.Players) != 2 {
		t.Fatalf("init should include unjoined players too, got %d", len(msg.Players))
	}
	if msg.Players["newbie"].Joined {
		t.Error("new player should not be joined yet")
	}
}

func TestOnConnectPlacesInsideMargin(t *testing.T) {
	g, _ := newTestGame(t)
	for i := 0; i < 50; i++ {
		id := GenerateID(4)
		g.OnConnect(id, nil, "")
		p := g.world.Player(id)
		if p.X < 100 || p.X > 9900 || p.Y < 100 || p.Y > 9900 {
			t.Fatalf("spawn (%f,%f) outside margin", p.X, p.Y)
		}
		if p.Health != 100 || p.Stats != BaseStats() {
			t.Fatalf("new player should have default stats")
		}
		if !strings.HasPrefix(p.Color, "hsl(") {
			t.Fatalf("unexpected color %q", p.Color)
		}
	}
}

func TestOnConnectDoesNotNotifyPeers(t *testing.T) {
	g, _ := newTestGame(t)
	_, peer := addJoined(t, g, "peer", 1000, 1000)
	peer.reset()

	g.OnConnect("quiet", &fakeConn{}, "")
	if len(peer.text) != 0 {
		t.Errorf("peer should not hear about unjoined players, got %d frames", len(peer.text))
	}
}

func TestOnJoinBroadcastsToOthers(t *testing.T) {
	g, _ := newTestGame(t)
	_, peer := addJoined(t, g, "peer", 1000, 1000)

	conn := &fakeConn{}
	g.OnConnect("joiner", conn, "")
	g.OnJoin("joiner", "  Maverick  ")

	news := peer.messages(t, MsgNewPlayer)
	if len(news) != 1 {
		t.Fatalf("peer expected 1 newPlayer, got %d", len(news))
	}
	var ps PlayerState
	json.Unmarshal(news[0].D, &ps)
	if ps.ID != "joiner" || ps.Name != "Maverick" || !ps.Joined {
		t.Errorf("unexpected newPlayer payload %+v", ps)
	}
	if len(conn.messages(t, MsgNewPlayer)) != 0 {
		t.Error("joiner should not receive its own newPlayer")
	}
}

func TestOnJoinFallbackName(t *testing.T) {
	g, _ := newTestGame(t)
	g.OnConnect("abcdef12", &fakeConn{}, "")
	g.OnJoin("abcdef12", "   ")
	if got := g.world.Player("abcdef12").Name; got != "Player abcd" {
		t.Errorf("expected fallback name, got %q", got)
	}
}

func TestOnJoinTruncatesName(t *testing.T) {
	g, _ := newTestGame(t)
	g.OnConnect("p1", &fakeConn{}, "")
	g.OnJoin("p1", strings.Repeat("ж", 40))
	if got := []rune(g.world.Player("p1").Name); len(got) != maxNameLen {
		t.Errorf("expected %d runes, got %d", maxNameLen, len(got))
	}
}

func TestOnJoinTwiceOnlyRenames(t *testing.T) {
	g, _ := newTestGame(t)
	_, peer := addJoined(t, g, "peer", 1000, 1000)
	g.OnConnect("p1", &fakeConn{}, "")
	g.OnJoin("p1", "First")
	g.OnJoin("p1", "Second")

	if got := g.world.Player("p1").Name; got != "Second" {
		t.Errorf("expected rename, got %q", got)
	}
	if n := len(peer.messages(t, MsgNewPlayer)); n != 1 {
		t.Errorf("re-join should not be re-announced, got %d newPlayer", n)
	}
}

func TestOnJoinUnknownPlayer(t *testing.T) {
	g, _ := newTestGame(t)
	g.OnJoin("ghost", "Boo")
	if g.world.PlayerCount() != 0 {
		t.Error("join for unknown session must not create a player")
	}
}

func TestOnUpdateRequiresJoin(t *testing.T) {
	g, _ := newTestGame(t)
	g.OnConnect("p1", &fakeConn{}, "")
	p := g.world.Player("p1")
	x, y := p.X, p.Y

	g.OnUpdate("p1", 1, 2, 3)
	if p.X != x || p.Y != y || p.Rotation != 0 {
		t.Error("unjoined update should be ignored")
	}
}

func TestOnUpdateClampsPosition(t *testing.T) {
	g, _ := newTestGame(t)
	p, _ := addJoined(t, g, "p1", 500, 500)

	g.OnUpdate("p1", -50, 20000, 7.5)
	if p.X != 0 || p.Y != 10000 {
		t.Errorf("expected clamp to (0,10000), got (%f,%f)", p.X, p.Y)
	}
	if p.Rotation != 7.5 {
		t.Errorf("rotation should be stored verbatim, got %f", p.Rotation)
	}
}

func TestOnShootCooldown(t *testing.T) {
	g, clock := newTestGame(t)
	addJoined(t, g, "p1", 500, 500)

	g.OnShoot("p1", 500, 500, 0)
	clock.Advance(100 * time.Millisecond)
	g.OnShoot("p1", 500, 500, 0)

	if n := len(g.world.Projectiles()); n != 1 {
		t.Fatalf("second shot inside cooldown should be dropped, got %d projectiles", n)
	}

	clock.Advance(400 * time.Millisecond)
	g.OnShoot("p1", 500, 500, 0)
	if n := len(g.world.Projectiles()); n != 2 {
		t.Errorf("shot after 500ms should be accepted, got %d projectiles", n)
	}
}

func TestOnShootCooldownScalesWithAttackSpeed(t *testing.T) {
	g, clock := newTestGame(t)
	p, _ := addJoined(t, g, "p1", 500, 500)
	p.Stats.AttackSpeed = 2

	g.OnShoot("p1", 500, 500, 0)
	clock.Advance(250 * time.Millisecond)
	g.OnShoot("p1", 500, 500, 0)

	if n := len(g.world.Projectiles()); n != 2 {
		t.Errorf("cooldown at attack speed 2 is 250ms, got %d projectiles", n)
	}
}

func TestOnShootRequiresJoin(t *testing.T) {
	g, _ := newTestGame(t)
	g.OnConnect("p1", &fakeConn{}, "")
	g.OnShoot("p1", 500, 500, 0)
	g.OnShoot("nobody", 500, 500, 0)
	if n := len(g.world.Projectiles()); n != 0 {
		t.Errorf("expected no projectiles, got %d", n)
	}
}

func TestOnShootProjectileFields(t *testing.T) {
	g, _ := newTestGame(t)
	p, _ := addJoined(t, g, "p1", 500, 500)
	p.Stats.Damage = 15

	g.OnShoot("p1", 600, 700, math.Pi/2)

	proj := g.world.Projectiles()[0]
	if proj.OwnerID != "p1" || proj.Color != p.Color || proj.Damage != 15 {
		t.Errorf("projectile should inherit owner, color and damage: %+v", proj)
	}
	if proj.X != 600 || proj.Y != 700 {
		t.Errorf("projectile should start at the shot position, got (%f,%f)", proj.X, proj.Y)
	}
	if math.Abs(proj.VX) > 1e-9 || math.Abs(proj.VY-ProjectileSpeed) > 1e-9 {
		t.Errorf("expected velocity (0,%f), got (%f,%f)", ProjectileSpeed, proj.VX, proj.VY)
	}
	if proj.Life != ProjectileLifetime {
		t.Errorf("expected life %d, got %d", ProjectileLifetime, proj.Life)
	}
}

func TestOnShootMultiShot(t *testing.T) {
	g, _ := newTestGame(t)
	p, _ := addJoined(t, g, "p1", 500, 500)
	p.Specials = []PowerUpType{SpecialPurple}

	const rot = 0.3
	g.OnShoot("p1", 500, 500, rot)

	projs := g.world.Projectiles()
	if len(projs) != 4 {
		t.Fatalf("expected 4 projectiles, got %d", len(projs))
	}
	want := []float64{rot, rot + math.Pi/2, rot + math.Pi, rot - math.Pi/2}
	for i, a := range want {
		vx, vy := math.Cos(a)*ProjectileSpeed, math.Sin(a)*ProjectileSpeed
		if math.Abs(projs[i].VX-vx) > 1e-9 || math.Abs(projs[i].VY-vy) > 1e-9 {
			t.Errorf("projectile %d: velocity (%f,%f), want (%f,%f)", i, projs[i].VX, projs[i].VY, vx, vy)
		}
	}
}

func TestOnDisconnectDropsSpecials(t *testing.T) {
	g, _ := newTestGame(t)
	_, peer := addJoined(t, g, "peer", 1000, 1000)
	p, _ := addJoined(t, g, "leaver", 2000, 2000)
	p.Specials = []PowerUpType{SpecialGreen, SpecialRed}

	g.OnDisconnect("leaver")

	if g.world.Player("leaver") != nil {
		t.Fatal("player should be removed")
	}
	for _, jp := range g.world.JoinedPlayers() {
		if jp.ID == "leaver" {
			t.Fatal("player still in joined list")
		}
	}
	pus := g.world.PowerUps()
	if len(pus) != 2 {
		t.Fatalf("expected 2 dropped specials, got %d", len(pus))
	}
	got := map[PowerUpType]bool{}
	for _, pu := range pus {
		if !pu.IsSpecial || pu.ID != string(pu.Type) {
			t.Errorf("dropped power-up should be special with id=type: %+v", pu)
		}
		got[pu.Type] = true
	}
	if !got[SpecialGreen] || !got[SpecialRed] {
		t.Errorf("expected GREEN and RED, got %v", got)
	}

	removes := peer.messages(t, MsgRemovePlayer)
	if len(removes) != 1 {
		t.Fatalf("expected removePlayer broadcast, got %d", len(removes))
	}
	var id string
	json.Unmarshal(removes[0].D, &id)
	if id != "leaver" {
		t.Errorf("removePlayer id %q", id)
	}
}

func TestOnDisconnectUnknown(t *testing.T) {
	g, _ := newTestGame(t)
	_, peer := addJoined(t, g, "peer", 1000, 1000)
	peer.reset()
	g.OnDisconnect("ghost")
	if len(peer.text) != 0 {
		t.Error("unknown disconnect should not broadcast")
	}
}
