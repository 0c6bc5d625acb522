package battle

import (
	"github.com/ikclouds/not-fight-club/internal/engine"
	"github.com/ikclouds/not-fight-club/internal/game"
)

// EventType identifies a battle event.
type EventType string

const (
	EventStateChanged EventType = "state_changed"
	EventHit          EventType = "hit"
	EventEnemyChanged EventType = "enemy_changed"
	EventBattleEnded  EventType = "battle_ended"
)

// Event is delivered to observers registered with OnBattleEvent.
type Event struct {
	Type     EventType
	BattleID string
	State    game.BattleState
	// Side and Hit are set for EventHit.
	Side game.Side
	Hit  *engine.HitResult
	// Enemy is set for EventEnemyChanged and EventBattleEnded.
	Enemy string
	// Outcome and Score are set for EventBattleEnded.
	Outcome game.Outcome
	Score   game.ScoreRecord
}

// Observer receives battle events. Observers run after the controller
// releases its lock and may call back into it.
type Observer func(Event)

type observerEntry struct {
	id int
	fn Observer
}
