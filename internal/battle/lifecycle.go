package battle

import (
	"context"
	"fmt"

	"github.com/enetx/fsm"

	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/game"
	"github.com/ikclouds/not-fight-club/internal/logging"
)

// Machine states carry the persisted game.BattleState values, so the machine
// can be rebuilt from the store before every operation.
const (
	stateNone   = fsm.State(game.StateNone)
	stateReady  = fsm.State(game.StateReady)
	stateActive = fsm.State(game.StateActive)
	statePaused = fsm.State(game.StatePaused)
	stateEnded  = fsm.State(game.StateEnded)
)

const (
	eventPrepare fsm.Event = "prepare"
	eventStart   fsm.Event = "start"
	eventPause   fsm.Event = "pause"
	eventFinish  fsm.Event = "finish"
	eventEnd     fsm.Event = "end"
	eventAbandon fsm.Event = "abandon"
)

var allStates = []fsm.State{stateNone, stateReady, stateActive, statePaused, stateEnded}

// lifecycle builds the battle state machine positioned at the persisted
// state. Entering active, paused or ended runs that state's side effects.
// prepare and abandon may re-enter the current state, so their callers
// apply the side effects themselves.
func (c *Controller) lifecycle() *fsm.FSM {
	m := fsm.New(fsm.State(c.repo.BattleState()))
	for _, s := range allStates {
		m.Transition(s, eventPrepare, stateReady).
			Transition(s, eventAbandon, stateNone)
	}
	return m.
		Transition(stateReady, eventStart, stateActive).
		Transition(statePaused, eventStart, stateActive).
		Transition(stateActive, eventPause, statePaused).
		Transition(stateActive, eventFinish, stateEnded).
		Transition(statePaused, eventFinish, stateEnded).
		TransitionWhen(stateActive, eventEnd, stateEnded, c.knockedOut).
		TransitionWhen(statePaused, eventEnd, stateEnded, c.knockedOut).
		OnEnter(stateActive, c.enterActive).
		OnEnter(statePaused, c.enterPaused).
		OnEnter(stateEnded, c.enterEnded)
}

// fire triggers ev on a machine rebuilt from the store. A refused event
// leaves the battle untouched.
func (c *Controller) fire(ev fsm.Event) error {
	from := c.repo.BattleState()
	if err := c.lifecycle().Trigger(ev); err != nil {
		logging.Debug("battle transition refused", logging.Fields{
			"event":                 string(ev),
			constants.LogFieldState: string(from),
			"reason":                err.Error(),
		})
		return fmt.Errorf("%w: %s from %q", ErrInvalidTransition, ev, from)
	}
	return nil
}

func (c *Controller) knockedOut(*fsm.Context) bool {
	return c.repo.CharacterHP() <= 0 || c.repo.EnemyHP() <= 0
}

func (c *Controller) enterActive(*fsm.Context) error {
	c.stopRound()
	c.round, c.cancelRound = context.WithCancel(context.Background())
	c.setState(game.StateActive)
	c.addLog(constants.LogClassResult, constants.MsgBattleStarted)
	c.publish("Battle started", nil)
	return nil
}

func (c *Controller) enterPaused(*fsm.Context) error {
	c.stopRound()
	c.setState(game.StatePaused)
	c.addLog(constants.LogClassResult, constants.MsgBattlePaused)
	c.publish("Battle paused", nil)
	return nil
}

func (c *Controller) enterEnded(*fsm.Context) error {
	c.endBattle()
	return nil
}
