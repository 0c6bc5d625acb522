package battle

import (
	"context"
	"fmt"

	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/engine"
	"github.com/ikclouds/not-fight-club/internal/game"
	"github.com/ikclouds/not-fight-club/internal/logging"
)

// Attack runs one round: the player's hit(s) now, then every later
// sub-attack after the attack delay. Within a round all player hits land
// before any enemy hit.
func (c *Controller) Attack() error {
	c.mu.Lock()
	defer c.unlock()

	if err := c.gate(); err != nil {
		return err
	}
	ctx := c.round
	zone := c.sel.Attack()
	guarded := c.sel.Defense()

	enemyZones := c.drawEnemyZones()

	double := c.rollDouble(game.SideCharacter)
	enemyAlive := c.playerHit(zone, enemyZones.Defense)

	if double && enemyAlive {
		c.schedule(ctx, "player second hit", func() {
			again := c.drawEnemyZones()
			c.playerHit(zone, again.Defense)
			c.afterPlayerTurn(ctx, guarded)
		})
		return nil
	}
	c.afterPlayerTurn(ctx, guarded)
	return nil
}

// gate checks the attack preconditions and logs the reason for a refusal.
func (c *Controller) gate() error {
	if c.repo.BattleState() != game.StateActive || c.round == nil {
		c.addLog(constants.LogClassResult, constants.MsgBattleNotActive)
		return ErrBattleNotActive
	}
	if c.pending > 0 {
		c.addLog(constants.LogClassResult, constants.MsgWaitForEnemy)
		logging.Debug("attack ignored, round in progress", logging.Fields{constants.LogFieldBattleID: c.repo.BattleID()})
		return ErrTurnInProgress
	}
	if c.sel.Attack() == "" {
		c.addLog(constants.LogClassResult, constants.MsgSelectAttackZone)
		return ErrNoAttackZone
	}
	if len(c.sel.Defense()) != c.balance.RequiredDefenseZones {
		c.addLog(constants.LogClassResult, constants.MsgSelectDefenseZones)
		return ErrDefenseZones
	}
	return nil
}

func (c *Controller) afterPlayerTurn(ctx context.Context, guarded []game.Zone) {
	if c.repo.EnemyHP() <= 0 {
		c.checkBattleEnd()
		return
	}
	c.schedule(ctx, "enemy turn", func() { c.enemyTurn(ctx, guarded) })
}

func (c *Controller) enemyTurn(ctx context.Context, guarded []game.Zone) {
	double := c.rollDouble(game.SideEnemy)
	characterAlive := c.enemyHit(engine.RandomZone(c.roller, c.balance), guarded)

	if double && characterAlive {
		c.schedule(ctx, "enemy second hit", func() {
			c.enemyHit(engine.RandomZone(c.roller, c.balance), guarded)
			c.checkBattleEnd()
		})
		return
	}
	c.checkBattleEnd()
}

// schedule runs f after the attack delay unless the round is cancelled
// first. f runs with the controller lock held.
func (c *Controller) schedule(ctx context.Context, step string, f func()) {
	c.pending++
	var stop func() bool
	t := c.sched.AfterFunc(c.balance.AttackTimeout, func() {
		c.mu.Lock()
		defer c.unlock()
		if stop != nil {
			stop()
		}
		if ctx.Err() != nil {
			logging.Debug("stale continuation dropped", logging.Fields{"step": step})
			return
		}
		c.pending--
		f()
	})
	stop = context.AfterFunc(ctx, func() { t.Stop() })
}

func (c *Controller) drawEnemyZones() engine.EnemyZones {
	z := engine.RandomZones(c.roller, c.balance)
	c.publish(fmt.Sprintf("Random enemy zones generated: attack %s, defense %v", z.Attack, z.Defense), nil)
	return z
}

func (c *Controller) characterCombatant() engine.Combatant {
	return engine.Combatant{
		Name:         c.repo.CurrentCharacter(),
		HP:           c.repo.CharacterHP(),
		MaxHP:        c.balance.CharacterHP,
		CriticalHits: c.repo.CharacterCriticalHits(),
		DoubleHits:   c.repo.CharacterDoubleHits(),
	}
}

func (c *Controller) enemyCombatant() engine.Combatant {
	return engine.Combatant{
		Name:         c.repo.SelectedEnemyName(),
		HP:           c.repo.EnemyHP(),
		MaxHP:        c.repo.SelectedEnemyHP(),
		CriticalHits: c.repo.EnemyCriticalHits(),
		DoubleHits:   c.repo.EnemyDoubleHits(),
	}
}

func (c *Controller) rollDouble(side game.Side) bool {
	if side == game.SideCharacter {
		ch := c.characterCombatant()
		before := ch.DoubleHits
		double := engine.RollDoubleHit(c.roller, c.balance, &ch)
		if ch.DoubleHits != before {
			c.repo.SetCharacterDoubleHits(ch.DoubleHits)
		}
		return double
	}
	en := c.enemyCombatant()
	before := en.DoubleHits
	double := engine.RollDoubleHit(c.roller, c.balance, &en)
	if en.DoubleHits != before {
		c.repo.SetEnemyDoubleHits(en.DoubleHits)
	}
	return double
}

// playerHit resolves one character hit and reports whether the enemy is
// still standing.
func (c *Controller) playerHit(zone game.Zone, guarded []game.Zone) bool {
	att := c.characterCombatant()
	def := c.enemyCombatant()
	c.publish("Player attacks zone: "+string(zone), logging.Fields{constants.LogFieldZone: string(zone)})

	res := engine.ResolveHit(c.roller, c.balance, &att, &def, zone, guarded)
	if res.Critical {
		c.repo.SetCharacterCriticalHits(att.CriticalHits)
	}
	if res.Damage > 0 {
		c.repo.SetEnemyHP(def.HP)
	}
	c.recordHit(game.SideCharacter, constants.LogClassPlayerAttack, res)
	return def.Alive()
}

func (c *Controller) enemyHit(zone game.Zone, guarded []game.Zone) bool {
	att := c.enemyCombatant()
	def := c.characterCombatant()
	c.publish("Enemy attacks zone: "+string(zone), logging.Fields{constants.LogFieldZone: string(zone)})

	res := engine.ResolveHit(c.roller, c.balance, &att, &def, zone, guarded)
	if res.Critical {
		c.repo.SetEnemyCriticalHits(att.CriticalHits)
	}
	if res.Damage > 0 {
		c.repo.SetCharacterHP(def.HP)
	}
	c.recordHit(game.SideEnemy, constants.LogClassEnemyAttack, res)
	return def.Alive()
}

func (c *Controller) recordHit(side game.Side, class string, res engine.HitResult) {
	c.addLog(class, describeHit(res))
	label := "Player"
	if side == game.SideEnemy {
		label = "Enemy"
	}
	c.publish(hitDetail(label, res), logging.Fields{constants.LogFieldDamage: res.Damage, constants.LogFieldHP: res.DefenderHP})
	hit := res
	c.emit(Event{Type: EventHit, State: c.repo.BattleState(), Side: side, Hit: &hit})
}
