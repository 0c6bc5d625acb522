package engine

import (
	"github.com/ikclouds/not-fight-club/internal/config"
	"github.com/ikclouds/not-fight-club/internal/game"
)

// Combatant is the mutable combat view of one side during a hit.
type Combatant struct {
	Name         string
	HP           int
	MaxHP        int
	CriticalHits int
	DoubleHits   int
}

// Alive reports whether the combatant still has hit points.
func (c *Combatant) Alive() bool { return c.HP > 0 }

// HitResult describes one resolved hit.
type HitResult struct {
	Attacker   string
	Defender   string
	Zone       game.Zone
	Damage     int
	Critical   bool
	Blocked    bool
	DefenderHP int
}

// ResolveHit resolves a single hit of attacker on zone while the defender
// guards the given zones. It updates the attacker's critical budget and the
// defender's HP in place.
func ResolveHit(r Roller, b config.Balance, attacker, defender *Combatant, zone game.Zone, guarded []game.Zone) HitResult {
	res := HitResult{Attacker: attacker.Name, Defender: defender.Name, Zone: zone}

	if attacker.CriticalHits > 0 && r.Float64() < b.CriticalHitChance {
		res.Critical = true
		attacker.CriticalHits--
	}

	res.Blocked = game.ContainsZone(guarded, zone)
	switch {
	case res.Blocked && res.Critical:
		res.Damage = b.BlockedCriticalDamage
	case res.Blocked:
		res.Damage = 0
	case res.Critical:
		res.Damage = b.CriticalDamage
	default:
		res.Damage = b.NormalDamage
	}

	if res.Damage > 0 {
		defender.HP -= res.Damage
		if defender.HP < 0 {
			defender.HP = 0
		}
	}
	res.DefenderHP = defender.HP
	return res
}

// RollDoubleHit decides whether c strikes twice this turn. An unlimited
// budget always triggers without a draw; a positive budget is spent on a
// successful draw.
func RollDoubleHit(r Roller, b config.Balance, c *Combatant) bool {
	switch {
	case c.DoubleHits == game.UnlimitedDoubleHits:
		return true
	case c.DoubleHits > 0 && r.Float64() < b.DoubleHitChance:
		c.DoubleHits--
		return true
	}
	return false
}

// DetermineOutcome returns the character's result from the final hit points.
func DetermineOutcome(characterHP, enemyHP int) game.Outcome {
	switch {
	case characterHP > 0 && enemyHP <= 0:
		return game.OutcomeWin
	case characterHP <= 0 && enemyHP > 0:
		return game.OutcomeLoss
	case characterHP > enemyHP:
		return game.OutcomeWin
	case characterHP < enemyHP:
		return game.OutcomeLoss
	}
	return game.OutcomeDraw
}
