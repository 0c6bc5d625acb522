package service

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/ikclouds/not-fight-club/internal/config"
	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/game"
)

func init() { passwordCost = bcrypt.MinCost }

type mockRoster struct {
	names     []string
	passwords map[string]string
	avatars   map[string]string
	selected  string
	scores    map[string]game.ScoreRecord
	critical  int
	double    int
	current   string
	menu      string
}

func newMockRoster() *mockRoster {
	return &mockRoster{
		passwords: map[string]string{},
		avatars:   map[string]string{},
		scores:    map[string]game.ScoreRecord{},
	}
}

func (m *mockRoster) Balance() config.Balance { return config.Default() }
func (m *mockRoster) CharacterNames() []string {
	return append([]string(nil), m.names...)
}
func (m *mockRoster) SetCharacterNames(n []string) { m.names = n }
func (m *mockRoster) CharacterExists(name string) bool {
	for _, n := range m.names {
		if n == name {
			return true
		}
	}
	return false
}
func (m *mockRoster) CharacterPasswords() map[string]string     { return copyMap(m.passwords) }
func (m *mockRoster) SetCharacterPasswords(p map[string]string) { m.passwords = p }
func (m *mockRoster) CharacterAvatars() map[string]string       { return copyMap(m.avatars) }
func (m *mockRoster) SetCharacterAvatars(a map[string]string)   { m.avatars = a }
func (m *mockRoster) SetSelectedAvatar(a string)                { m.selected = a }
func (m *mockRoster) Scores() map[string]game.ScoreRecord {
	out := map[string]game.ScoreRecord{}
	for k, v := range m.scores {
		out[k] = v
	}
	return out
}
func (m *mockRoster) SetScores(s map[string]game.ScoreRecord) { m.scores = s }
func (m *mockRoster) Score(name string) game.ScoreRecord      { return m.scores[name] }
func (m *mockRoster) SetCharacterCriticalHits(n int)          { m.critical = n }
func (m *mockRoster) SetCharacterDoubleHits(n int)            { m.double = n }
func (m *mockRoster) CurrentCharacter() string                { return m.current }
func (m *mockRoster) SetCurrentCharacter(name string)         { m.current = name }
func (m *mockRoster) SetActiveMenuItem(item string)           { m.menu = item }
func (m *mockRoster) ClearSession()                           { m.current, m.menu = "", "" }

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func TestCreateCharacter(t *testing.T) {
	m := newMockRoster()
	c, err := CreateCharacter(m, "  Neo ", "red-pill", "red-pill")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "Neo" || c.Avatar != "default.png" {
		t.Fatalf("unexpected character %+v", c)
	}
	if !strings.HasPrefix(m.passwords["Neo"], "$2") {
		t.Fatalf("password stored unhashed: %q", m.passwords["Neo"])
	}

	if _, err := CreateCharacter(m, "Neo", "x", "x"); !errors.Is(err, ErrCharacterExists) {
		t.Fatalf("expected ErrCharacterExists, got %v", err)
	}
	if _, err := CreateCharacter(m, "neo", "x", "x"); err != nil {
		t.Fatalf("names are case-sensitive, got %v", err)
	}
	if _, err := CreateCharacter(m, "Trinity", "a", "b"); !errors.Is(err, ErrPasswordsMismatch) {
		t.Fatalf("expected ErrPasswordsMismatch, got %v", err)
	}
	if _, err := CreateCharacter(m, "  ", "a", "a"); !errors.Is(err, ErrFieldsRequired) {
		t.Fatalf("expected ErrFieldsRequired, got %v", err)
	}
}

func TestLoginLogout(t *testing.T) {
	m := newMockRoster()
	if _, err := CreateCharacter(m, "Neo", "red-pill", "red-pill"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := Login(m, "Morpheus", "x"); !errors.Is(err, ErrCharacterNotFound) {
		t.Fatalf("expected ErrCharacterNotFound, got %v", err)
	}
	if err := Login(m, "Neo", "blue-pill"); !errors.Is(err, ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}
	if err := Login(m, "Neo", "red-pill"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if m.current != "Neo" || m.menu != constants.MenuFight {
		t.Fatalf("session not set: %q/%q", m.current, m.menu)
	}
	Logout(m)
	if m.current != "" || m.menu != "" {
		t.Fatalf("logout left session behind")
	}
}

func TestLogin_LegacyPlaintextPassword(t *testing.T) {
	m := newMockRoster()
	m.names = []string{"Smith"}
	m.passwords["Smith"] = "agent"
	if err := Login(m, "Smith", "agent"); err != nil {
		t.Fatalf("legacy password should verify: %v", err)
	}
}

func TestUpdateCharacter_RenameMovesRecords(t *testing.T) {
	m := newMockRoster()
	CreateCharacter(m, "Neo", "red-pill", "red-pill")
	CreateCharacter(m, "Trinity", "x", "x")
	m.avatars["Neo"] = "avatar3.png"
	m.scores["Neo"] = game.ScoreRecord{Wins: 2, Losses: 1}
	m.current = "Neo"
	oldHash := m.passwords["Neo"]

	if _, err := UpdateCharacter(m, UpdateCharacterRequest{Name: "Trinity", Password: "p", Repeat: "p"}); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}

	ch, dh := 5, game.UnlimitedDoubleHits
	c, err := UpdateCharacter(m, UpdateCharacterRequest{Name: "The One", Password: "red-pill", Repeat: "red-pill", CriticalHits: &ch, DoubleHits: &dh})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if c.Name != "The One" || m.current != "The One" {
		t.Fatalf("rename not applied: %+v current=%q", c, m.current)
	}
	if _, ok := m.passwords["Neo"]; ok {
		t.Fatalf("old password entry kept")
	}
	if m.passwords["The One"] != oldHash {
		t.Fatalf("unchanged password should keep its hash")
	}
	if m.avatars["The One"] != "avatar3.png" {
		t.Fatalf("avatar not moved: %v", m.avatars)
	}
	if m.scores["The One"].Wins != 2 {
		t.Fatalf("score not moved: %v", m.scores)
	}
	if m.critical != 5 || m.double != game.UnlimitedDoubleHits {
		t.Fatalf("budgets not stored: %d/%d", m.critical, m.double)
	}
	if m.names[0] != "The One" {
		t.Fatalf("roster not renamed: %v", m.names)
	}

	bad := -2
	if _, err := UpdateCharacter(m, UpdateCharacterRequest{Name: "The One", Password: "p", Repeat: "p", DoubleHits: &bad}); !errors.Is(err, ErrInvalidBudget) {
		t.Fatalf("expected ErrInvalidBudget, got %v", err)
	}
}

func TestUpdateCharacter_PasswordChange(t *testing.T) {
	m := newMockRoster()
	CreateCharacter(m, "Neo", "red-pill", "red-pill")
	m.current = "Neo"
	if _, err := UpdateCharacter(m, UpdateCharacterRequest{Name: "Neo", Password: "blue-pill", Repeat: "blue-pill"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := Login(m, "Neo", "blue-pill"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
	if err := Login(m, "Neo", "red-pill"); !errors.Is(err, ErrIncorrectPassword) {
		t.Fatalf("old password still accepted: %v", err)
	}
}

func TestSelectAvatar(t *testing.T) {
	m := newMockRoster()
	if err := SelectAvatar(m, "avatar1.png"); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	CreateCharacter(m, "Neo", "p", "p")
	m.current = "Neo"
	if err := SelectAvatar(m, "cat.gif"); !errors.Is(err, ErrUnknownAvatar) {
		t.Fatalf("expected ErrUnknownAvatar, got %v", err)
	}
	if err := SelectAvatar(m, "avatar2.png"); err != nil {
		t.Fatalf("select avatar: %v", err)
	}
	if m.avatars["Neo"] != "avatar2.png" || m.selected != "avatar2.png" {
		t.Fatalf("avatar not stored")
	}
}

func TestGetScore(t *testing.T) {
	m := newMockRoster()
	CreateCharacter(m, "Neo", "p", "p")
	rec, err := GetScore(m, "Neo")
	if err != nil || rec != (game.ScoreRecord{}) {
		t.Fatalf("expected zero record, got %+v err=%v", rec, err)
	}
	if _, err := GetScore(m, "Nobody"); !errors.Is(err, ErrCharacterNotFound) {
		t.Fatalf("expected ErrCharacterNotFound, got %v", err)
	}
}
