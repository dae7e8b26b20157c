package main

import "testing"

func TestWorldKeepsConnectionOrder(t *testing.T) {
	w := NewWorld()
	for _, id := range []string{"c", "a", "b"} {
		w.AddPlayer(&Player{ID: id, Joined: id != "a"})
	}

	got := ids(w.Players())
	if got != "c,a,b" {
		t.Errorf("Players order = %s", got)
	}
	if got := ids(w.JoinedPlayers()); got != "c,b" {
		t.Errorf("JoinedPlayers order = %s", got)
	}

	if w.RemovePlayer("a") == nil {
		t.Fatal("remove returned nil for a known player")
	}
	if w.RemovePlayer("a") != nil {
		t.Error("second remove should return nil")
	}
	w.AddPlayer(&Player{ID: "a"})
	if got := ids(w.Players()); got != "c,b,a" {
		t.Errorf("reconnected player should go last, got %s", got)
	}
	if w.PlayerCount() != 3 {
		t.Errorf("expected 3 players, got %d", w.PlayerCount())
	}
}

func TestWorldReplaceDoesNotDuplicateOrder(t *testing.T) {
	w := NewWorld()
	w.AddPlayer(&Player{ID: "a", Name: "old"})
	w.AddPlayer(&Player{ID: "a", Name: "new"})

	if len(w.Players()) != 1 || w.Player("a").Name != "new" {
		t.Errorf("replace should keep one entry, got %d", len(w.Players()))
	}
}

func TestWorldSpecialQueries(t *testing.T) {
	w := NewWorld()
	w.AddPlayer(&Player{ID: "p", Specials: []PowerUpType{SpecialRed}})
	w.AddPowerUp(&PowerUp{ID: "BLUE", Type: SpecialBlue, IsSpecial: true})
	w.AddPowerUp(&PowerUp{ID: "x", Type: PowerSpeed})

	if !w.SpecialHeld(SpecialRed) || w.SpecialHeld(SpecialBlue) {
		t.Error("SpecialHeld mismatch")
	}
	if !w.SpecialInWorld(SpecialBlue) || w.SpecialInWorld(SpecialRed) {
		t.Error("SpecialInWorld mismatch")
	}
	if w.CommonPowerUpCount() != 1 {
		t.Errorf("expected 1 common power-up, got %d", w.CommonPowerUpCount())
	}
}

func ids(ps []*Player) string {
	s := ""
	for i, p := range ps {
		if i > 0 {
			s += ","
		}
		s += p.ID
	}
	return s
}
