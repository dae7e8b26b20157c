package main

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// Multipliers applied by timed effects and special collectibles
const (
	EffectBoost    = 1.5
	EffectArmor    = 0.5
	FullSetBonus   = 2.0
	FullSetDefense = 0.5
	GreenPickupHP  = 50.0
	BluePickupHP   = 25.0
)

// resolveStats rebuilds every joined player's stats, then lets each of them
// collect the power-ups they are touching. Players are visited in connection
// order, so the earliest connected player wins a contested pickup.
func (g *Game) resolveStats(now time.Time) {
	nowMS := now.UnixMilli()
	for _, p := range g.world.JoinedPlayers() {
		g.resolvePlayer(p, nowMS)
	}
}

// resolvePlayer isolates one player's stat pass; a fault skips that player only
func (g *Game) resolvePlayer(p *Player, nowMS int64) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("stat pass panic recovered", zap.Any("panic", r), zap.String("player", p.ID))
		}
	}()
	p.RecomputeStats(nowMS)
	g.collectPowerUps(p, nowMS)
}

// RecomputeStats derives stats from base values, live effects, held specials and
// kill count, purging expired effects. Health is clamped to the new maximum.
func (p *Player) RecomputeStats(nowMS int64) {
	s := BaseStats()
	s.Size = math.Pow(KillGrowth, float64(p.KillCount))

	live := p.Effects[:0]
	for _, e := range p.Effects {
		if e.Expiry > nowMS {
			live = append(live, e)
		}
	}
	p.Effects = live

	for _, e := range p.Effects {
		switch e.Type {
		case PowerSpeed:
			s.Speed *= EffectBoost
		case PowerAttackSpeed:
			s.AttackSpeed *= EffectBoost
		case PowerDamage:
			s.Damage *= EffectBoost
		case PowerDefense:
			s.Defense *= EffectArmor
		}
	}

	for _, t := range p.Specials {
		switch t {
		case SpecialGreen:
			s.MaxHealth *= 1.5
			s.Defense *= 0.5
		case SpecialRed:
			s.Damage *= 1.5
			s.AttackSpeed *= 1.5
		case SpecialBlue:
			s.Damage *= 1.25
			s.AttackSpeed *= 1.25
			s.MaxHealth *= 1.25
			s.Defense *= 0.75
		}
	}

	if len(p.Specials) == len(SpecialTypes) {
		s.Damage *= FullSetBonus
		s.AttackSpeed *= FullSetBonus
		s.MaxHealth *= FullSetBonus
		s.Speed *= FullSetBonus
		s.Size *= FullSetBonus
		s.Defense *= FullSetDefense
	}

	p.Stats = s
	p.Health = math.Min(p.Health, s.MaxHealth)
}

// collectPowerUps removes every power-up within reach of p and applies it
func (g *Game) collectPowerUps(p *Player, nowMS int64) {
	all := g.world.PowerUps()
	kept := make([]*PowerUp, 0, len(all))
	for _, pu := range all {
		if !g.tryCollect(p, pu, nowMS) {
			kept = append(kept, pu)
		}
	}
	g.world.SetPowerUps(kept)
}

// tryCollect reports whether pu was consumed. A power-up that faults is consumed
// so it cannot fault again.
func (g *Game) tryCollect(p *Player, pu *PowerUp, nowMS int64) (taken bool) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("power-up dropped after panic", zap.Any("panic", r), zap.String("player", p.ID))
			taken = true
		}
	}()
	if !InRange(p.X, p.Y, pu.X, pu.Y, PickupRadius) {
		return false
	}
	g.applyPowerUp(p, pu, nowMS)
	g.events.Track(LedgerEvent{Type: EvtPickup, PlayerID: p.ID, Name: p.Name, Data: string(pu.Type)})
	return true
}

func (g *Game) applyPowerUp(p *Player, pu *PowerUp, nowMS int64) {
	switch {
	case pu.IsSpecial:
		if p.HasSpecial(pu.Type) {
			return
		}
		p.Specials = append(p.Specials, pu.Type)
		// the heal is measured against the maximum the new special grants
		p.RecomputeStats(nowMS)
		switch pu.Type {
		case SpecialGreen:
			p.Heal(GreenPickupHP)
		case SpecialBlue:
			p.Heal(BluePickupHP)
		}
	case pu.Type == PowerHealth:
		p.Heal(PickupHeal)
	default:
		p.Effects = append(p.Effects, ActiveEffect{Type: pu.Type, Expiry: nowMS + EffectDuration})
	}
}
