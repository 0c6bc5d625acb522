package battle

import (
	"fmt"

	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/engine"
	"github.com/ikclouds/not-fight-club/internal/game"
	"github.com/ikclouds/not-fight-club/internal/logging"
)

// Result summarizes a finished battle.
type Result struct {
	BattleID       string           `json:"battle_id"`
	Character      string           `json:"character"`
	Enemy          string           `json:"enemy"`
	Outcome        game.Outcome     `json:"outcome"`
	CharacterHP    int              `json:"character_hp"`
	CharacterMaxHP int              `json:"character_max_hp"`
	EnemyHP        int              `json:"enemy_hp"`
	EnemyMaxHP     int              `json:"enemy_max_hp"`
	Score          game.ScoreRecord `json:"score"`
	Message        string           `json:"message"`
}

// CheckBattleEnd ends the battle when either side is out of hit points.
// Calling it again after the battle ended does nothing.
func (c *Controller) CheckBattleEnd() {
	c.mu.Lock()
	defer c.unlock()
	c.checkBattleEnd()
}

// checkBattleEnd fires the end event, which the lifecycle accepts only for
// a running battle with a side out of hit points.
func (c *Controller) checkBattleEnd() {
	_ = c.fire(eventEnd)
}

// endBattle scores the battle, resets both sides for the next one and
// writes the closing log lines. It runs on entering the ended state.
func (c *Controller) endBattle() {
	c.stopRound()
	c.setState(game.StateEnded)

	name := c.repo.CurrentCharacter()
	enemy := c.repo.SelectedEnemyName()
	charHP := c.repo.CharacterHP()
	enemyHP := c.repo.EnemyHP()
	charMax := c.balance.CharacterHP
	enemyMax := c.repo.SelectedEnemyHP()

	outcome := engine.DetermineOutcome(charHP, enemyHP)
	var line, message string
	switch outcome {
	case game.OutcomeWin:
		line = fmt.Sprintf("%s has won the battle", name)
		message = fmt.Sprintf("%s defeated %s", name, enemy)
	case game.OutcomeLoss:
		line = fmt.Sprintf("%s has lost the battle", name)
		message = fmt.Sprintf("%s defeated %s", enemy, name)
	default:
		line = constants.MsgDraw
		message = line
	}

	var score game.ScoreRecord
	if name != "" {
		score = c.repo.IncrementScore(name, outcome)
	} else {
		logging.Info("battle ended without a logged-in character, score not recorded", nil)
	}

	c.addLog(constants.LogClassResult, line)
	c.addLog(constants.LogClassResult, fmt.Sprintf("Final HP - %s: %d/%d, %s: %d/%d", name, charHP, charMax, enemy, enemyHP, enemyMax))
	c.addLog(constants.LogClassResult, fmt.Sprintf("%s's record: %d wins, %d losses", name, score.Wins, score.Losses))

	battleID := c.repo.BattleID()
	c.lastResult = &Result{
		BattleID:       battleID,
		Character:      name,
		Enemy:          enemy,
		Outcome:        outcome,
		CharacterHP:    charHP,
		CharacterMaxHP: charMax,
		EnemyHP:        enemyHP,
		EnemyMaxHP:     enemyMax,
		Score:          score,
		Message:        message,
	}
	logging.Info("battle ended", logging.Fields{
		constants.LogFieldBattleID:  battleID,
		constants.LogFieldCharacter: name,
		constants.LogFieldEnemy:     enemy,
		constants.LogFieldOutcome:   string(outcome),
	})
	c.emit(Event{Type: EventBattleEnded, BattleID: battleID, State: game.StateEnded, Enemy: enemy, Outcome: outcome, Score: score})

	c.resetBudgets()
	if c.repo.RandomEnemyEnabled() {
		c.selectRandomEnemy()
	}

	c.addLog(constants.LogClassResult, constants.MsgNewBattle)
	c.publish(constants.MsgNewBattle, nil)
}

// selectRandomEnemy picks the next enemy uniformly from the catalog and
// resets it to full strength.
func (c *Controller) selectRandomEnemy() {
	names := c.repo.EnemyNames()
	if len(names) == 0 {
		return
	}
	name := names[c.roller.Intn(len(names))]
	hp := c.repo.EnemyCatalog()[name]
	c.repo.SetSelectedEnemy(name, hp)
	c.repo.SetEnemyHP(hp)
	critical, double := c.balance.EnemyBudgets(name)
	c.repo.SetEnemyCriticalHits(critical)
	c.repo.SetEnemyDoubleHits(double)
	c.publish("Random enemy selected: "+name, logging.Fields{constants.LogFieldEnemy: name})
}

// Snapshot is the read model of the current battle.
type Snapshot struct {
	BattleID              string           `json:"battle_id"`
	State                 game.BattleState `json:"state"`
	Character             string           `json:"character"`
	Avatar                string           `json:"avatar"`
	CharacterHP           int              `json:"character_hp"`
	CharacterMaxHP        int              `json:"character_max_hp"`
	CharacterCriticalHits int              `json:"character_critical_hits"`
	CharacterDoubleHits   int              `json:"character_double_hits"`
	Enemy                 string           `json:"enemy"`
	EnemyHP               int              `json:"enemy_hp"`
	EnemyMaxHP            int              `json:"enemy_max_hp"`
	EnemyCriticalHits     int              `json:"enemy_critical_hits"`
	EnemyDoubleHits       int              `json:"enemy_double_hits"`
	Score                 game.ScoreRecord `json:"score"`
	AttackZone            game.Zone        `json:"attack_zone"`
	DefenseZones          []game.Zone      `json:"defense_zones"`
	CanAttack             bool             `json:"can_attack"`
	TurnInProgress        bool             `json:"turn_in_progress"`
	AttackTimeoutMS       int64            `json:"attack_timeout_ms"`
	MessageTimeoutMS      int64            `json:"message_timeout_ms"`
	LastResult            *Result          `json:"last_result,omitempty"`
}

// Snapshot returns every display field of the battle.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := c.repo.CurrentCharacter()
	s := Snapshot{
		BattleID:              c.repo.BattleID(),
		State:                 c.repo.BattleState(),
		Character:             name,
		CharacterHP:           c.repo.CharacterHP(),
		CharacterMaxHP:        c.balance.CharacterHP,
		CharacterCriticalHits: c.repo.CharacterCriticalHits(),
		CharacterDoubleHits:   c.repo.CharacterDoubleHits(),
		Enemy:                 c.repo.SelectedEnemyName(),
		EnemyHP:               c.repo.EnemyHP(),
		EnemyMaxHP:            c.repo.SelectedEnemyHP(),
		EnemyCriticalHits:     c.repo.EnemyCriticalHits(),
		EnemyDoubleHits:       c.repo.EnemyDoubleHits(),
		AttackZone:            c.sel.Attack(),
		DefenseZones:          c.sel.Defense(),
		CanAttack:             c.canAttack(),
		TurnInProgress:        c.pending > 0,
		AttackTimeoutMS:       c.balance.AttackTimeout.Milliseconds(),
		MessageTimeoutMS:      c.balance.MessageTimeout.Milliseconds(),
	}
	if name != "" {
		s.Avatar = c.repo.CharacterAvatar(name)
		s.Score = c.repo.Score(name)
	}
	if c.lastResult != nil {
		r := *c.lastResult
		s.LastResult = &r
	}
	return s
}
