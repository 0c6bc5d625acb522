package battle

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ikclouds/not-fight-club/internal/config"
	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/engine"
	"github.com/ikclouds/not-fight-club/internal/events"
	"github.com/ikclouds/not-fight-club/internal/game"
	"github.com/ikclouds/not-fight-club/internal/logging"
	"github.com/ikclouds/not-fight-club/internal/storage"
)

// Controller runs the battle of the logged-in character against the
// selected enemy. All operations are serialized; delayed sub-attacks run on
// the Scheduler and are bound to the round that scheduled them.
type Controller struct {
	mu      sync.Mutex
	repo    *storage.Repository
	balance config.Balance
	roller  engine.Roller
	sched   Scheduler
	bus     *events.Bus

	sel *engine.Selection
	log battleLog

	round       context.Context
	cancelRound context.CancelFunc
	pending     int

	lastResult *Result

	observers []observerEntry
	nextObsID int
	outbox    []Event
}

// Option configures a Controller.
type Option func(*Controller)

func WithRoller(r engine.Roller) Option { return func(c *Controller) { c.roller = r } }

func WithScheduler(s Scheduler) Option { return func(c *Controller) { c.sched = s } }

func WithBus(b *events.Bus) Option { return func(c *Controller) { c.bus = b } }

// WithLogLimit caps the battle log; n <= 0 keeps every entry.
func WithLogLimit(n int) Option { return func(c *Controller) { c.log.limit = n } }

// New returns a controller over repo.
func New(repo *storage.Repository, opts ...Option) *Controller {
	balance := repo.Balance()
	c := &Controller{
		repo:    repo,
		balance: balance,
		roller:  engine.NewRoller(0),
		sched:   TimeScheduler{},
		sel:     engine.NewSelection(balance.RequiredDefenseZones),
		log:     battleLog{limit: DefaultLogLimit},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// unlock releases the lock and then delivers queued events.
func (c *Controller) unlock() {
	evs := c.outbox
	c.outbox = nil
	obs := make([]Observer, 0, len(c.observers))
	for _, o := range c.observers {
		obs = append(obs, o.fn)
	}
	c.mu.Unlock()
	for _, ev := range evs {
		for _, fn := range obs {
			fn(ev)
		}
	}
}

func (c *Controller) emit(ev Event) {
	if ev.BattleID == "" {
		ev.BattleID = c.repo.BattleID()
	}
	c.outbox = append(c.outbox, ev)
}

// OnBattleEvent registers fn and returns a func removing it.
func (c *Controller) OnBattleEvent(fn Observer) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextObsID++
	id := c.nextObsID
	c.observers = append(c.observers, observerEntry{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i := range c.observers {
			if c.observers[i].id == id {
				c.observers = append(c.observers[:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) addLog(class, text string) {
	c.log.add(class, text)
}

func (c *Controller) publish(detail string, fields logging.Fields) {
	if fields == nil {
		fields = logging.Fields{}
	}
	fields[constants.LogFieldBattleID] = c.repo.BattleID()
	c.bus.Publish(constants.EventFight, detail, fields)
}

func (c *Controller) setState(s game.BattleState) {
	c.repo.SetBattleState(s)
	c.emit(Event{Type: EventStateChanged, State: s})
}

// stopRound cancels every continuation scheduled by the current round.
func (c *Controller) stopRound() {
	if c.cancelRound != nil {
		c.cancelRound()
		if c.pending > 0 {
			logging.Debug("pending attacks cancelled", logging.Fields{"count": c.pending, constants.LogFieldBattleID: c.repo.BattleID()})
		}
	}
	c.round, c.cancelRound = nil, nil
	c.pending = 0
}

// InitializeBattle prepares a battle for the logged-in character. A battle
// left with damaged sides is continued with its log, otherwise budgets are
// reset and a new battle id is issued.
func (c *Controller) InitializeBattle() error {
	c.mu.Lock()
	defer c.unlock()

	name := c.repo.CurrentCharacter()
	if name == "" {
		return ErrNotLoggedIn
	}
	if err := c.fire(eventPrepare); err != nil {
		return err
	}
	c.stopRound()
	c.sel.Clear()
	c.lastResult = nil

	enemyMax := c.repo.SelectedEnemyHP()
	if c.repo.CharacterHP() < c.balance.CharacterHP || c.repo.EnemyHP() < enemyMax {
		c.addLog(constants.LogClassResult, constants.MsgBattleContinue)
		if c.repo.BattleID() == "" {
			c.repo.SetBattleID(uuid.NewString())
		}
	} else {
		c.log.reset()
		c.resetBudgets()
		c.repo.SetBattleID(uuid.NewString())
	}

	c.repo.SetActiveMenuItem(constants.MenuFight)
	c.setState(game.StateReady)
	c.publish("Battle initialized", logging.Fields{constants.LogFieldCharacter: name, constants.LogFieldEnemy: c.repo.SelectedEnemyName()})
	return nil
}

// StartBattle moves a ready or paused battle to active.
func (c *Controller) StartBattle() error {
	c.mu.Lock()
	defer c.unlock()
	return c.fire(eventStart)
}

// PauseBattle moves an active battle to paused and cancels its pending
// sub-attacks.
func (c *Controller) PauseBattle() error {
	c.mu.Lock()
	defer c.unlock()
	return c.fire(eventPause)
}

// ForfeitBattle ends an active or paused battle immediately, scoring it by
// the current hit points.
func (c *Controller) ForfeitBattle() error {
	c.mu.Lock()
	defer c.unlock()
	return c.fire(eventFinish)
}

// Abandon drops the session battle without scoring it. Hit points stay as
// they are so the next InitializeBattle continues the fight.
func (c *Controller) Abandon() {
	c.mu.Lock()
	defer c.unlock()

	if err := c.fire(eventAbandon); err != nil {
		return
	}
	c.stopRound()
	c.sel.Clear()
	c.log.reset()
	c.repo.DeleteBattleState()
	c.emit(Event{Type: EventStateChanged, State: game.StateNone})
}

// SelectEnemy makes name the selected enemy with maxHP hit points and gives
// it that enemy's budgets. During a battle the enemy keeps its current hit
// points, capped at the new maximum.
func (c *Controller) SelectEnemy(name string, maxHP int) error {
	c.mu.Lock()
	defer c.unlock()

	if name == "" || maxHP <= 0 {
		return ErrInvalidEnemy
	}
	state := c.repo.BattleState()
	inBattle := state == game.StateActive || state == game.StatePaused

	current := c.repo.EnemyHP()
	c.repo.SetSelectedEnemy(name, maxHP)
	if inBattle {
		c.repo.SetEnemyHP(min(current, maxHP))
		c.addLog(constants.LogClassResult, fmt.Sprintf("Enemy changed to %s!", name))
	} else {
		c.repo.SetEnemyHP(maxHP)
	}
	critical, double := c.balance.EnemyBudgets(name)
	c.repo.SetEnemyCriticalHits(critical)
	c.repo.SetEnemyDoubleHits(double)

	c.publish(fmt.Sprintf("enemy changed: %s, hp: %d", name, maxHP), logging.Fields{constants.LogFieldEnemy: name, constants.LogFieldHP: maxHP})
	c.emit(Event{Type: EventEnemyChanged, State: state, Enemy: name})
	return nil
}

// SelectAttackZone selects the attack zone, replacing any previous one.
// It returns whether an attack is now possible.
func (c *Controller) SelectAttackZone(z game.Zone) (bool, error) {
	c.mu.Lock()
	defer c.unlock()

	if !game.ContainsZone(c.balance.Zones, z) {
		return c.canAttack(), ErrUnknownZone
	}
	c.sel.SelectAttack(z)
	return c.canAttack(), nil
}

// ToggleDefenseZone checks or unchecks a defense zone. Checking beyond the
// limit unchecks the earliest selected zone.
func (c *Controller) ToggleDefenseZone(z game.Zone, checked bool) (bool, error) {
	c.mu.Lock()
	defer c.unlock()

	if !game.ContainsZone(c.balance.Zones, z) {
		return c.canAttack(), ErrUnknownZone
	}
	if ev := c.sel.ToggleDefense(z, checked); ev != "" {
		logging.Debug("defense zone evicted", logging.Fields{constants.LogFieldZone: string(ev)})
	}
	return c.canAttack(), nil
}

func (c *Controller) SelectedAttackZone() game.Zone {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel.Attack()
}

func (c *Controller) SelectedDefenseZones() []game.Zone {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel.Defense()
}

// CanAttack reports whether the attack gate is open.
func (c *Controller) CanAttack() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canAttack()
}

func (c *Controller) canAttack() bool {
	return c.repo.BattleState() == game.StateActive && c.sel.Ready() && c.pending == 0
}

// Log returns the battle log.
func (c *Controller) Log() []LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.snapshot()
}

// resetBudgets restores both sides' hit points and budgets to their
// configured values.
func (c *Controller) resetBudgets() {
	critical, double := c.balance.EnemyBudgets(c.repo.SelectedEnemyName())
	c.repo.SetCharacterHP(c.balance.CharacterHP)
	c.repo.SetEnemyHP(c.repo.SelectedEnemyHP())
	c.repo.SetCharacterCriticalHits(c.balance.DefaultCharacterCriticalHits)
	c.repo.SetCharacterDoubleHits(c.balance.DefaultCharacterDoubleHits)
	c.repo.SetEnemyCriticalHits(critical)
	c.repo.SetEnemyDoubleHits(double)
}
