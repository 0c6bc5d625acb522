package storage

import (
	"path/filepath"
	"testing"

	"github.com/ikclouds/not-fight-club/internal/config"
	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/events"
	"github.com/ikclouds/not-fight-club/internal/game"
	"github.com/ikclouds/not-fight-club/internal/keys"
)

func newTestRepo(t *testing.T) (*Repository, *MemoryStore) {
	t.Helper()
	ms := NewMemoryStore()
	r := NewRepository(ms, config.Default(), events.NewBus())
	r.Init()
	return r, ms
}

func TestInit_SeedsDefaults(t *testing.T) {
	r, ms := newTestRepo(t)

	if got := r.CharacterHP(); got != 150 {
		t.Fatalf("character HP = %d, want 150", got)
	}
	if got := r.EnemyHP(); got != 170 {
		t.Fatalf("enemy HP = %d, want 170", got)
	}
	if got := r.SelectedEnemyName(); got != "Spacemarine" {
		t.Fatalf("selected enemy = %q", got)
	}
	if got := r.CharacterCriticalHits(); got != 3 {
		t.Fatalf("character CH = %d, want 3", got)
	}
	if r.EnemyCriticalHits() != 1 || r.EnemyDoubleHits() != 0 {
		t.Fatalf("enemy budgets = %d/%d", r.EnemyCriticalHits(), r.EnemyDoubleHits())
	}
	if len(r.EnemyCatalog()) != 6 {
		t.Fatalf("expected 6 catalog entries, got %v", r.EnemyCatalog())
	}
	if r.SelectedAvatar() != "default.png" {
		t.Fatalf("selected avatar = %q", r.SelectedAvatar())
	}
	// every durable key is stored under the prefix
	if _, ok, _ := ms.Get(Durable, "nfcCharacterHP"); !ok {
		t.Fatalf("expected prefixed key %s to be seeded", keys.Storage(constants.KeyCharacterHP))
	}
}

func TestInit_KeepsExistingValues(t *testing.T) {
	r, _ := newTestRepo(t)
	r.SetCharacterHP(42)
	r.SetCharacterNames([]string{"Neo"})
	r.Init()
	if r.CharacterHP() != 42 {
		t.Fatalf("Init overwrote character HP: %d", r.CharacterHP())
	}
	if !r.CharacterExists("Neo") {
		t.Fatalf("Init dropped roster")
	}
}

func TestCorruptRecords_FallBackToDefaults(t *testing.T) {
	ms := NewMemoryStore()
	_ = ms.Set(Durable, keys.Storage(constants.KeyCharacterNames), "{not json")
	_ = ms.Set(Durable, keys.Storage(constants.KeyCharacterHP), "abc")
	_ = ms.Set(Durable, keys.Storage(constants.KeyCharacterScore), `{"schema":99,"data":{}}`)
	r := NewRepository(ms, config.Default(), nil)

	if names := r.CharacterNames(); len(names) != 0 {
		t.Fatalf("expected empty roster from corrupt record, got %v", names)
	}
	if r.CharacterHP() != 150 {
		t.Fatalf("expected default HP for corrupt value, got %d", r.CharacterHP())
	}
	if len(r.Scores()) != 0 {
		t.Fatalf("expected empty scores for schema mismatch")
	}

	r.Init()
	v, _, _ := ms.Get(Durable, keys.Storage(constants.KeyCharacterNames))
	var names []string
	if err := decodeRecord(v, &names); err != nil {
		t.Fatalf("Init should reseed corrupt roster: %v", err)
	}
}

func TestIncrementScore(t *testing.T) {
	r, _ := newTestRepo(t)
	r.IncrementScore("Neo", game.OutcomeWin)
	r.IncrementScore("Neo", game.OutcomeDraw)
	rec := r.IncrementScore("Neo", game.OutcomeLoss)
	if rec.Wins != 1 || rec.Losses != 2 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if got := r.Score("Trinity"); got != (game.ScoreRecord{}) {
		t.Fatalf("expected zero record for unknown character, got %+v", got)
	}
}

func TestSessionValues(t *testing.T) {
	r, ms := newTestRepo(t)
	r.SetCurrentCharacter("Neo")
	r.SetBattleState(game.StateActive)
	if r.CurrentCharacter() != "Neo" || r.BattleState() != game.StateActive {
		t.Fatalf("session values not stored")
	}
	r.SetCurrentCharacter("")
	if r.CurrentCharacter() != "" {
		t.Fatalf("expected logout to clear current character")
	}
	_ = ms.Set(Session, keys.Storage(constants.KeyBattleState), "bogus")
	if r.BattleState() != game.StateNone {
		t.Fatalf("unknown state should read as none")
	}

	r.SetCurrentCharacter("Neo")
	r.SetBattleID("b-1")
	r.SetCharacterHP(90)
	r.ClearSession()
	if r.BattleState() != game.StateNone || r.CurrentCharacter() != "" || r.BattleID() != "" {
		t.Fatalf("cleared session kept values: %q/%q/%q", r.BattleState(), r.CurrentCharacter(), r.BattleID())
	}
	if r.CharacterHP() != 90 {
		t.Fatalf("clearing the session must keep durable values, HP = %d", r.CharacterHP())
	}
}

func TestEnemyLookup(t *testing.T) {
	r, _ := newTestRepo(t)
	e, ok := r.Enemy("Draggo")
	if !ok || e.MaxHP != 90 || e.DoubleHits != game.UnlimitedDoubleHits {
		t.Fatalf("unexpected Draggo: %+v ok=%v", e, ok)
	}
	if _, ok := r.Enemy("Nobody"); ok {
		t.Fatalf("expected unknown enemy lookup to fail")
	}
	r.SetSelectedEnemy("Bellax", 150)
	if r.SelectedEnemyName() != "Bellax" || r.SelectedEnemyHP() != 150 {
		t.Fatalf("selected enemy not stored")
	}
}

func TestMutationsPublishStateEvents(t *testing.T) {
	bus := events.NewBus()
	var got []string
	bus.Subscribe(constants.EventState, func(ev events.Event) { got = append(got, ev.Detail) })
	r := NewRepository(NewMemoryStore(), config.Default(), bus)
	r.SetEnemyHP(12)
	if len(got) != 1 || got[0] != "enemy HP changed: hp: 12" {
		t.Fatalf("unexpected events: %v", got)
	}
}

func TestSQLStore_PersistsDurableAndPurgesSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nfc.db")
	db, err := OpenDB(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	st, err := NewSQLStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	r := NewRepository(st, config.Default(), nil)
	r.Init()
	r.SetCharacterHP(77)
	r.SetCharacterHP(66)
	r.SetCurrentCharacter("Neo")

	// a second store over the same database starts a new session
	st2, err := NewSQLStore(db)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	r2 := NewRepository(st2, config.Default(), nil)
	if r2.CharacterHP() != 66 {
		t.Fatalf("durable HP not persisted, got %d", r2.CharacterHP())
	}
	if r2.CurrentCharacter() != "" {
		t.Fatalf("session should have been purged, got %q", r2.CurrentCharacter())
	}
	if err := st2.Remove(Durable, keys.Storage(constants.KeyCharacterHP)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := st2.Get(Durable, keys.Storage(constants.KeyCharacterHP)); ok {
		t.Fatalf("expected key removed")
	}
}
