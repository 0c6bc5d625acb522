package battle

import "errors"

var (
	ErrNotLoggedIn       = errors.New("no character logged in")
	ErrInvalidTransition = errors.New("battle action not available in the current state")
	ErrBattleNotActive   = errors.New("battle not active")
	ErrNoAttackZone      = errors.New("attack zone not selected")
	ErrDefenseZones      = errors.New("wrong number of defense zones selected")
	ErrTurnInProgress    = errors.New("previous attack still in progress")
	ErrUnknownZone       = errors.New("unknown zone")
	ErrInvalidEnemy      = errors.New("invalid enemy")
)
