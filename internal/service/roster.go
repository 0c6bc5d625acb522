package service

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ikclouds/not-fight-club/internal/config"
	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/game"
	"github.com/ikclouds/not-fight-club/internal/logging"
)

// RosterRepo is the minimal repository interface required by the roster
// operations. Using a small interface simplifies testing.
type RosterRepo interface {
	Balance() config.Balance

	CharacterNames() []string
	SetCharacterNames(names []string)
	CharacterExists(name string) bool
	CharacterPasswords() map[string]string
	SetCharacterPasswords(m map[string]string)
	CharacterAvatars() map[string]string
	SetCharacterAvatars(m map[string]string)
	SetSelectedAvatar(avatar string)

	Scores() map[string]game.ScoreRecord
	SetScores(m map[string]game.ScoreRecord)
	Score(name string) game.ScoreRecord

	SetCharacterCriticalHits(n int)
	SetCharacterDoubleHits(n int)

	CurrentCharacter() string
	SetCurrentCharacter(name string)
	SetActiveMenuItem(item string)
	ClearSession()
}

var (
	ErrFieldsRequired    = errors.New("all fields are required")
	ErrPasswordsMismatch = errors.New("passwords do not match")
	ErrCharacterExists   = errors.New("character already exists")
	ErrCharacterNotFound = errors.New("character does not exist")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrNameTaken         = errors.New("character name already taken")
	ErrNotLoggedIn       = errors.New("no character logged in")
	ErrUnknownAvatar     = errors.New("unknown avatar")
	ErrInvalidBudget     = errors.New("invalid hit budget")
)

// passwordCost is a var so tests can lower it.
var passwordCost = bcrypt.DefaultCost

const bcryptPrefix = "$2"

func hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// checkPassword accepts bcrypt hashes and, for records written before
// hashing was introduced, plain text.
func checkPassword(stored, password string) bool {
	if strings.HasPrefix(stored, bcryptPrefix) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return stored != "" && stored == password
}

// CreateCharacter registers a new character with the default avatar.
func CreateCharacter(repo RosterRepo, name, password, repeat string) (game.Character, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" || repeat == "" {
		return game.Character{}, ErrFieldsRequired
	}
	if password != repeat {
		return game.Character{}, ErrPasswordsMismatch
	}
	if repo.CharacterExists(name) {
		return game.Character{}, ErrCharacterExists
	}
	hash, err := hashPassword(password)
	if err != nil {
		return game.Character{}, err
	}

	avatar := repo.Balance().DefaultAvatar
	names := append(repo.CharacterNames(), name)
	passwords := repo.CharacterPasswords()
	passwords[name] = hash
	avatars := repo.CharacterAvatars()
	avatars[name] = avatar

	repo.SetCharacterNames(names)
	repo.SetCharacterPasswords(passwords)
	repo.SetCharacterAvatars(avatars)
	logging.Info("character created", logging.Fields{constants.LogFieldCharacter: name})
	return game.Character{Name: name, PasswordHash: hash, Avatar: avatar}, nil
}

// Login makes name the current character.
func Login(repo RosterRepo, name, password string) error {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return ErrFieldsRequired
	}
	if !repo.CharacterExists(name) {
		return ErrCharacterNotFound
	}
	if !checkPassword(repo.CharacterPasswords()[name], password) {
		return ErrIncorrectPassword
	}
	repo.SetCurrentCharacter(name)
	repo.SetActiveMenuItem(constants.MenuFight)
	logging.Info("character logged in", logging.Fields{constants.LogFieldCharacter: name})
	return nil
}

// Logout clears the session character.
func Logout(repo RosterRepo) {
	name := repo.CurrentCharacter()
	repo.ClearSession()
	if name != "" {
		logging.Info("character logged out", logging.Fields{constants.LogFieldCharacter: name})
	}
}

// UpdateCharacterRequest carries the settings form. Name and both password
// fields are required; nil budgets are left unchanged.
type UpdateCharacterRequest struct {
	Name         string
	Password     string
	Repeat       string
	CriticalHits *int
	DoubleHits   *int
}

// UpdateCharacter edits the current character. A rename moves the
// password, avatar and score record to the new name.
func UpdateCharacter(repo RosterRepo, req UpdateCharacterRequest) (game.Character, error) {
	current := repo.CurrentCharacter()
	if current == "" {
		return game.Character{}, ErrNotLoggedIn
	}
	newName := strings.TrimSpace(req.Name)
	if newName == "" || req.Password == "" || req.Repeat == "" {
		return game.Character{}, ErrFieldsRequired
	}
	if req.Password != req.Repeat {
		return game.Character{}, ErrPasswordsMismatch
	}
	if newName != current && repo.CharacterExists(newName) {
		return game.Character{}, ErrNameTaken
	}
	if req.CriticalHits != nil && *req.CriticalHits < 0 {
		return game.Character{}, ErrInvalidBudget
	}
	if req.DoubleHits != nil && *req.DoubleHits < game.UnlimitedDoubleHits {
		return game.Character{}, ErrInvalidBudget
	}

	passwords := repo.CharacterPasswords()
	hash := passwords[current]
	if !checkPassword(hash, req.Password) {
		var err error
		if hash, err = hashPassword(req.Password); err != nil {
			return game.Character{}, err
		}
	}

	avatars := repo.CharacterAvatars()
	avatar := avatars[current]
	if avatar == "" {
		avatar = repo.Balance().DefaultAvatar
	}

	if newName != current {
		names := repo.CharacterNames()
		for i, n := range names {
			if n == current {
				names[i] = newName
			}
		}
		delete(passwords, current)
		delete(avatars, current)
		repo.SetCharacterNames(names)

		scores := repo.Scores()
		if rec, ok := scores[current]; ok {
			delete(scores, current)
			scores[newName] = rec
			repo.SetScores(scores)
		}
	}
	passwords[newName] = hash
	avatars[newName] = avatar
	repo.SetCharacterPasswords(passwords)
	repo.SetCharacterAvatars(avatars)

	if req.CriticalHits != nil {
		repo.SetCharacterCriticalHits(*req.CriticalHits)
	}
	if req.DoubleHits != nil {
		repo.SetCharacterDoubleHits(*req.DoubleHits)
	}
	repo.SetCurrentCharacter(newName)

	logging.Info("character updated", logging.Fields{constants.LogFieldCharacter: newName, "previous": current})
	return game.Character{Name: newName, PasswordHash: hash, Avatar: avatar}, nil
}

// SelectAvatar sets the avatar of the current character.
func SelectAvatar(repo RosterRepo, avatar string) error {
	current := repo.CurrentCharacter()
	if current == "" {
		return ErrNotLoggedIn
	}
	if !repo.Balance().HasAvatar(avatar) {
		return ErrUnknownAvatar
	}
	avatars := repo.CharacterAvatars()
	avatars[current] = avatar
	repo.SetCharacterAvatars(avatars)
	repo.SetSelectedAvatar(avatar)
	return nil
}

// GetScore returns the record of name, zero when it never fought.
func GetScore(repo RosterRepo, name string) (game.ScoreRecord, error) {
	if !repo.CharacterExists(name) {
		return game.ScoreRecord{}, ErrCharacterNotFound
	}
	return repo.Score(name), nil
}
