package storage

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ikclouds/not-fight-club/internal/config"
	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/events"
	"github.com/ikclouds/not-fight-club/internal/game"
	"github.com/ikclouds/not-fight-club/internal/keys"
	"github.com/ikclouds/not-fight-club/internal/logging"
)

// Repository is the typed view of the persisted game state. Store failures
// are logged and never surface: getters fall back to defaults and setters
// become no-ops, so a broken store degrades the game instead of stopping it.
type Repository struct {
	store   Store
	balance config.Balance
	bus     *events.Bus
}

// NewRepository wraps store. bus may be nil.
func NewRepository(store Store, balance config.Balance, bus *events.Bus) *Repository {
	return &Repository{store: store, balance: balance, bus: bus}
}

// Balance returns the balance the repository seeds defaults from.
func (r *Repository) Balance() config.Balance { return r.balance }

// Init seeds every missing or unreadable key with its default value.
func (r *Repository) Init() {
	seedRecord := func(name string, v, def interface{}) {
		if !r.getRecord(name, v) {
			r.setRecord(name, def)
		}
	}
	seedScalar := func(name, def string) {
		if _, ok := r.get(Durable, name); !ok {
			r.set(Durable, name, def)
		}
	}

	var names []string
	seedRecord(constants.KeyCharacterNames, &names, []string{})
	var passwords map[string]string
	seedRecord(constants.KeyCharacterPasswords, &passwords, map[string]string{})
	var avatars map[string]string
	seedRecord(constants.KeyCharacterAvatars, &avatars, map[string]string{})
	seedScalar(constants.KeySelectedAvatar, r.balance.DefaultAvatar)

	var catalog map[string]int
	seedRecord(constants.KeyEnemies, &catalog, r.balance.EnemyCatalog())
	seedScalar(constants.KeySelectedEnemyName, r.balance.DefaultEnemyName)

	seedScalar(constants.KeyCharacterHP, strconv.Itoa(r.balance.CharacterHP))
	seedScalar(constants.KeySelectedEnemyHP, strconv.Itoa(r.balance.DefaultEnemyHP))
	seedScalar(constants.KeyEnemyHP, strconv.Itoa(r.balance.DefaultEnemyHP))

	var scores map[string]game.ScoreRecord
	seedRecord(constants.KeyCharacterScore, &scores, map[string]game.ScoreRecord{})

	critical, double := r.balance.EnemyBudgets(r.SelectedEnemyName())
	seedScalar(constants.KeyCharacterCH, strconv.Itoa(r.balance.DefaultCharacterCriticalHits))
	seedScalar(constants.KeyEnemyCH, strconv.Itoa(critical))
	seedScalar(constants.KeyCharacterDH, strconv.Itoa(r.balance.DefaultCharacterDoubleHits))
	seedScalar(constants.KeyEnemyDH, strconv.Itoa(double))
	seedScalar(constants.KeyRandomEnemy, strconv.FormatBool(false))

	r.publish(constants.EventState, "state initialized", nil)
}

// --- low level helpers -------------------------------------------------

func (r *Repository) publish(kind, detail string, fields logging.Fields) {
	r.bus.Publish(kind, detail, fields)
}

func (r *Repository) get(scope Scope, name string) (string, bool) {
	key := keys.Storage(name)
	v, ok, err := r.store.Get(scope, key)
	if err != nil {
		logging.Error("store read failed", err, logging.Fields{constants.LogFieldScope: scope, constants.LogFieldKey: key})
		return "", false
	}
	return v, ok
}

func (r *Repository) set(scope Scope, name, value string) {
	key := keys.Storage(name)
	if err := r.store.Set(scope, key, value); err != nil {
		logging.Error("store write failed", err, logging.Fields{constants.LogFieldScope: scope, constants.LogFieldKey: key})
	}
}

func (r *Repository) remove(scope Scope, name string) {
	key := keys.Storage(name)
	if err := r.store.Remove(scope, key); err != nil {
		logging.Error("store remove failed", err, logging.Fields{constants.LogFieldScope: scope, constants.LogFieldKey: key})
	}
}

func (r *Repository) getInt(name string, def int) int {
	s, ok := r.get(Durable, name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		logging.Error("corrupt integer record, using default", err, logging.Fields{constants.LogFieldKey: name})
		return def
	}
	return n
}

func (r *Repository) setInt(name string, n int) {
	r.set(Durable, name, strconv.Itoa(n))
}

// getRecord decodes a structured durable record into v and reports whether
// a readable record was found.
func (r *Repository) getRecord(name string, v interface{}) bool {
	s, ok := r.get(Durable, name)
	if !ok {
		return false
	}
	if err := decodeRecord(s, v); err != nil {
		logging.Error("corrupt record, using default", err, logging.Fields{constants.LogFieldKey: name})
		return false
	}
	return true
}

func (r *Repository) setRecord(name string, v interface{}) {
	s, err := encodeRecord(v)
	if err != nil {
		logging.Error("failed to encode record", err, logging.Fields{constants.LogFieldKey: name})
		return
	}
	r.set(Durable, name, s)
}

// --- characters ----------------------------------------------------------

func (r *Repository) CharacterNames() []string {
	var names []string
	if !r.getRecord(constants.KeyCharacterNames, &names) || names == nil {
		return []string{}
	}
	return names
}

func (r *Repository) SetCharacterNames(names []string) {
	r.setRecord(constants.KeyCharacterNames, names)
	r.publish(constants.EventState, "Character names changed: "+strings.Join(names, ", "), nil)
}

// CharacterExists reports whether name is registered. Names are case-sensitive.
func (r *Repository) CharacterExists(name string) bool {
	for _, n := range r.CharacterNames() {
		if n == name {
			return true
		}
	}
	return false
}

func (r *Repository) CharacterPasswords() map[string]string {
	m := map[string]string{}
	if !r.getRecord(constants.KeyCharacterPasswords, &m) || m == nil {
		return map[string]string{}
	}
	return m
}

func (r *Repository) SetCharacterPasswords(m map[string]string) {
	r.setRecord(constants.KeyCharacterPasswords, m)
	r.publish(constants.EventState, "Character passwords changed: "+strings.Join(sortedKeys(m), ", "), nil)
}

func (r *Repository) CharacterAvatars() map[string]string {
	m := map[string]string{}
	if !r.getRecord(constants.KeyCharacterAvatars, &m) || m == nil {
		return map[string]string{}
	}
	return m
}

func (r *Repository) SetCharacterAvatars(m map[string]string) {
	r.setRecord(constants.KeyCharacterAvatars, m)
	r.publish(constants.EventState, "Character avatars changed: "+strings.Join(sortedKeys(m), ", "), nil)
}

// CharacterAvatar returns the avatar of name or the default avatar.
func (r *Repository) CharacterAvatar(name string) string {
	if a, ok := r.CharacterAvatars()[name]; ok && a != "" {
		return a
	}
	return r.balance.DefaultAvatar
}

func (r *Repository) SelectedAvatar() string {
	if v, ok := r.get(Durable, constants.KeySelectedAvatar); ok && v != "" {
		return v
	}
	return r.balance.DefaultAvatar
}

func (r *Repository) SetSelectedAvatar(avatar string) {
	r.set(Durable, constants.KeySelectedAvatar, avatar)
	r.publish(constants.EventState, "Avatar changed: "+avatar, nil)
}

// Character assembles the roster entry for name together with the shared
// combat counters.
func (r *Repository) Character(name string) (game.Character, bool) {
	if !r.CharacterExists(name) {
		return game.Character{}, false
	}
	return game.Character{
		Name:         name,
		PasswordHash: r.CharacterPasswords()[name],
		Avatar:       r.CharacterAvatar(name),
		CriticalHits: r.CharacterCriticalHits(),
		DoubleHits:   r.CharacterDoubleHits(),
		CurrentHP:    r.CharacterHP(),
	}, true
}

// --- score ---------------------------------------------------------------

func (r *Repository) Scores() map[string]game.ScoreRecord {
	m := map[string]game.ScoreRecord{}
	if !r.getRecord(constants.KeyCharacterScore, &m) || m == nil {
		return map[string]game.ScoreRecord{}
	}
	return m
}

func (r *Repository) SetScores(m map[string]game.ScoreRecord) {
	r.setRecord(constants.KeyCharacterScore, m)
}

// Score returns the record of name, zero when the character never fought.
func (r *Repository) Score(name string) game.ScoreRecord {
	return r.Scores()[name]
}

// IncrementScore records one battle outcome for name and returns the new record.
func (r *Repository) IncrementScore(name string, o game.Outcome) game.ScoreRecord {
	scores := r.Scores()
	rec := scores[name].Add(o)
	scores[name] = rec
	r.SetScores(scores)
	r.publish(constants.EventState, fmt.Sprintf("Score updated: %s, wins: %d, losses: %d", name, rec.Wins, rec.Losses),
		logging.Fields{constants.LogFieldCharacter: name, constants.LogFieldOutcome: string(o.Recorded())})
	return rec
}

// --- enemy -----------------------------------------------------------------

// EnemyCatalog returns enemy name -> max HP.
func (r *Repository) EnemyCatalog() map[string]int {
	m := map[string]int{}
	if !r.getRecord(constants.KeyEnemies, &m) || len(m) == 0 {
		return r.balance.EnemyCatalog()
	}
	return m
}

// EnemyNames returns the catalog names in stable order.
func (r *Repository) EnemyNames() []string {
	return sortedKeys(r.EnemyCatalog())
}

// Enemy returns the catalog entry for name with its configured budgets.
func (r *Repository) Enemy(name string) (game.Enemy, bool) {
	hp, ok := r.EnemyCatalog()[name]
	if !ok {
		return game.Enemy{}, false
	}
	critical, double := r.balance.EnemyBudgets(name)
	return game.Enemy{Name: name, MaxHP: hp, CriticalHits: critical, DoubleHits: double}, true
}

func (r *Repository) SelectedEnemyName() string {
	if v, ok := r.get(Durable, constants.KeySelectedEnemyName); ok && v != "" {
		return v
	}
	return r.balance.DefaultEnemyName
}

func (r *Repository) SelectedEnemyHP() int {
	return r.getInt(constants.KeySelectedEnemyHP, r.balance.DefaultEnemyHP)
}

// SetSelectedEnemy stores the selected enemy pointer (name and max HP snapshot).
func (r *Repository) SetSelectedEnemy(name string, hp int) {
	r.set(Durable, constants.KeySelectedEnemyName, name)
	r.setInt(constants.KeySelectedEnemyHP, hp)
	r.publish(constants.EventState, fmt.Sprintf("Enemy changed: %s, hp: %d", name, hp),
		logging.Fields{constants.LogFieldEnemy: name, constants.LogFieldHP: hp})
}

func (r *Repository) RandomEnemyEnabled() bool {
	v, ok := r.get(Durable, constants.KeyRandomEnemy)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func (r *Repository) SetRandomEnemyEnabled(on bool) {
	r.set(Durable, constants.KeyRandomEnemy, strconv.FormatBool(on))
	r.publish(constants.EventState, fmt.Sprintf("Random enemy changed: %t", on), nil)
}

// --- hit points and budgets -------------------------------------------------

func (r *Repository) CharacterHP() int {
	return r.getInt(constants.KeyCharacterHP, r.balance.CharacterHP)
}

func (r *Repository) SetCharacterHP(hp int) {
	r.setInt(constants.KeyCharacterHP, hp)
	r.publish(constants.EventState, fmt.Sprintf("Character HP changed: hp: %d", hp), nil)
}

func (r *Repository) EnemyHP() int {
	return r.getInt(constants.KeyEnemyHP, r.SelectedEnemyHP())
}

func (r *Repository) SetEnemyHP(hp int) {
	r.setInt(constants.KeyEnemyHP, hp)
	r.publish(constants.EventState, fmt.Sprintf("enemy HP changed: hp: %d", hp), nil)
}

func (r *Repository) CharacterCriticalHits() int {
	return r.getInt(constants.KeyCharacterCH, r.balance.DefaultCharacterCriticalHits)
}

func (r *Repository) SetCharacterCriticalHits(n int) {
	r.setInt(constants.KeyCharacterCH, n)
	r.publish(constants.EventState, fmt.Sprintf("Character CH changed: %d", n), nil)
}

func (r *Repository) EnemyCriticalHits() int {
	critical, _ := r.balance.EnemyBudgets(r.SelectedEnemyName())
	return r.getInt(constants.KeyEnemyCH, critical)
}

func (r *Repository) SetEnemyCriticalHits(n int) {
	r.setInt(constants.KeyEnemyCH, n)
	r.publish(constants.EventState, fmt.Sprintf("Enemy CH changed: %d", n), nil)
}

func (r *Repository) CharacterDoubleHits() int {
	return r.getInt(constants.KeyCharacterDH, r.balance.DefaultCharacterDoubleHits)
}

func (r *Repository) SetCharacterDoubleHits(n int) {
	r.setInt(constants.KeyCharacterDH, n)
	r.publish(constants.EventState, fmt.Sprintf("Character DH changed: %d", n), nil)
}

func (r *Repository) EnemyDoubleHits() int {
	_, double := r.balance.EnemyBudgets(r.SelectedEnemyName())
	return r.getInt(constants.KeyEnemyDH, double)
}

func (r *Repository) SetEnemyDoubleHits(n int) {
	r.setInt(constants.KeyEnemyDH, n)
	r.publish(constants.EventState, fmt.Sprintf("Enemy DH changed: %d", n), nil)
}

// --- session -----------------------------------------------------------------

// CurrentCharacter returns the logged-in character name, "" when logged out.
func (r *Repository) CurrentCharacter() string {
	v, _ := r.get(Session, constants.KeyCurrentCharacter)
	return v
}

// SetCurrentCharacter logs name in; an empty name logs out.
func (r *Repository) SetCurrentCharacter(name string) {
	if name == "" {
		r.remove(Session, constants.KeyCurrentCharacter)
	} else {
		r.set(Session, constants.KeyCurrentCharacter, name)
	}
	r.publish(constants.EventState, "Current Character changed: "+name, nil)
}

// BattleState returns the session battle state; unknown values read as none.
func (r *Repository) BattleState() game.BattleState {
	v, _ := r.get(Session, constants.KeyBattleState)
	s := game.BattleState(v)
	if !s.Valid() {
		return game.StateNone
	}
	return s
}

func (r *Repository) SetBattleState(s game.BattleState) {
	r.set(Session, constants.KeyBattleState, string(s))
	r.publish(constants.EventState, "battle state changed: "+string(s), logging.Fields{constants.LogFieldState: string(s)})
}

// ClearSession ends the session: current character, battle state, menu
// item and battle id are dropped. Durable values are untouched.
func (r *Repository) ClearSession() {
	if err := r.store.ClearSession(); err != nil {
		logging.Error("store clear session failed", err, nil)
		return
	}
	r.publish(constants.EventState, "Session cleared", nil)
}

func (r *Repository) DeleteBattleState() {
	r.remove(Session, constants.KeyBattleState)
	r.publish(constants.EventState, "Battle state deleted", nil)
}

func (r *Repository) ActiveMenuItem() string {
	v, _ := r.get(Session, constants.KeyActiveMenuItem)
	return v
}

// SetActiveMenuItem stores item; an empty item removes it.
func (r *Repository) SetActiveMenuItem(item string) {
	if item == "" {
		r.remove(Session, constants.KeyActiveMenuItem)
		return
	}
	r.set(Session, constants.KeyActiveMenuItem, item)
	r.publish(constants.EventUI, "Active menu item: "+item, nil)
}

func (r *Repository) BattleID() string {
	v, _ := r.get(Session, constants.KeyBattleID)
	return v
}

func (r *Repository) SetBattleID(id string) {
	r.set(Session, constants.KeyBattleID, id)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
