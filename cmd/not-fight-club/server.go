package main

import (
	"github.com/ikclouds/not-fight-club/internal/battle"
	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/logging"
)

// watchBattle logs state changes and results of the battle controller.
func watchBattle(ctrl *battle.Controller) func() {
	return ctrl.OnBattleEvent(func(ev battle.Event) {
		switch ev.Type {
		case battle.EventStateChanged:
			logging.Debug("battle state changed", logging.Fields{
				constants.LogFieldBattleID: ev.BattleID,
				constants.LogFieldState:    string(ev.State),
			})
		case battle.EventBattleEnded:
			logging.Info("battle result recorded", logging.Fields{
				constants.LogFieldBattleID: ev.BattleID,
				constants.LogFieldEnemy:    ev.Enemy,
				constants.LogFieldOutcome:  string(ev.Outcome),
				"wins":                     ev.Score.Wins,
				"losses":                   ev.Score.Losses,
			})
		}
	})
}
