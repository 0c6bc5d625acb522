package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ikclouds/not-fight-club/internal/constants"
	"github.com/ikclouds/not-fight-club/internal/game"

	"gopkg.in/yaml.v3"
)

// EnemyEntry is one seed catalog entry together with its per-battle budgets.
type EnemyEntry struct {
	Name         string `json:"name" yaml:"name"`
	HitPoints    int    `json:"hit_points" yaml:"hit_points"`
	CriticalHits int    `json:"critical_hits" yaml:"critical_hits"`
	DoubleHits   int    `json:"double_hits" yaml:"double_hits"`
}

// Balance holds the static game-balance data used by the combat engine.
type Balance struct {
	Zones                []game.Zone
	RequiredAttackZones  int
	RequiredDefenseZones int

	CharacterHP int

	NormalDamage          int
	CriticalDamage        int
	BlockedCriticalDamage int
	CriticalHitChance     float64
	DoubleHitChance       float64

	DefaultCharacterCriticalHits int
	DefaultCharacterDoubleHits   int
	DefaultEnemyCriticalHits     int
	DefaultEnemyDoubleHits       int

	DefaultEnemyName string
	DefaultEnemyHP   int
	Enemies          []EnemyEntry

	AttackTimeout  time.Duration
	MessageTimeout time.Duration

	Avatars       []string
	DefaultAvatar string
}

// Default returns the built-in balance.
func Default() Balance {
	return Balance{
		Zones:                []game.Zone{game.ZoneHead, game.ZoneNeck, game.ZoneBody, game.ZoneBelly, game.ZoneLegs},
		RequiredAttackZones:  1,
		RequiredDefenseZones: 2,

		CharacterHP: 150,

		NormalDamage:          10,
		CriticalDamage:        15,
		BlockedCriticalDamage: 5,
		CriticalHitChance:     0.3,
		DoubleHitChance:       0.2,

		DefaultCharacterCriticalHits: 3,
		DefaultCharacterDoubleHits:   0,
		DefaultEnemyCriticalHits:     1,
		DefaultEnemyDoubleHits:       0,

		DefaultEnemyName: "Spacemarine",
		DefaultEnemyHP:   170,
		Enemies: []EnemyEntry{
			{Name: "Demort", HitPoints: 170, CriticalHits: 1, DoubleHits: 0},
			{Name: "Bellax", HitPoints: 150, CriticalHits: 3, DoubleHits: 0},
			{Name: "Lucis", HitPoints: 150, CriticalHits: 3, DoubleHits: 0},
			{Name: "Sevus", HitPoints: 150, CriticalHits: 3, DoubleHits: 0},
			{Name: "Draggo", HitPoints: 90, CriticalHits: 1, DoubleHits: game.UnlimitedDoubleHits},
			{Name: "Spider", HitPoints: 90, CriticalHits: 1, DoubleHits: game.UnlimitedDoubleHits},
		},

		AttackTimeout:  200 * time.Millisecond,
		MessageTimeout: 1000 * time.Millisecond,

		Avatars:       []string{"avatar1.png", "avatar2.png", "avatar3.png", "avatar4.png", "avatar5.png"},
		DefaultAvatar: "default.png",
	}
}

// EnemyBudgets returns the critical and double hit budgets for the named
// enemy, falling back to the defaults for names outside the catalog.
func (b Balance) EnemyBudgets(name string) (critical, double int) {
	for _, e := range b.Enemies {
		if e.Name == name {
			return e.CriticalHits, e.DoubleHits
		}
	}
	return b.DefaultEnemyCriticalHits, b.DefaultEnemyDoubleHits
}

// EnemyCatalog returns the seed catalog as name -> max HP.
func (b Balance) EnemyCatalog() map[string]int {
	out := make(map[string]int, len(b.Enemies))
	for _, e := range b.Enemies {
		out[e.Name] = e.HitPoints
	}
	return out
}

// HasAvatar reports whether avatar is selectable.
func (b Balance) HasAvatar(avatar string) bool {
	if avatar == b.DefaultAvatar {
		return true
	}
	for _, a := range b.Avatars {
		if a == avatar {
			return true
		}
	}
	return false
}

// Validate checks cross-field constraints.
func (b Balance) Validate() error {
	if len(b.Zones) < b.RequiredAttackZones+b.RequiredDefenseZones {
		return fmt.Errorf("zones: need at least %d zones, got %d", b.RequiredAttackZones+b.RequiredDefenseZones, len(b.Zones))
	}
	if b.RequiredAttackZones != 1 {
		return fmt.Errorf("required_attack_zones must be 1, got %d", b.RequiredAttackZones)
	}
	if b.RequiredDefenseZones < 1 {
		return fmt.Errorf("required_defense_zones must be positive, got %d", b.RequiredDefenseZones)
	}
	zoneSet := make(map[game.Zone]struct{}, len(b.Zones))
	for _, z := range b.Zones {
		if strings.TrimSpace(string(z)) == "" {
			return fmt.Errorf("zones: empty zone name")
		}
		if _, ok := zoneSet[z]; ok {
			return fmt.Errorf("zones: duplicate zone '%s'", z)
		}
		zoneSet[z] = struct{}{}
	}
	if b.CharacterHP <= 0 || b.DefaultEnemyHP <= 0 {
		return fmt.Errorf("hit points must be positive")
	}
	if b.NormalDamage < 0 || b.CriticalDamage < 0 || b.BlockedCriticalDamage < 0 {
		return fmt.Errorf("damage values must not be negative")
	}
	for _, p := range []float64{b.CriticalHitChance, b.DoubleHitChance} {
		if p < 0 || p > 1 {
			return fmt.Errorf("chances must be within [0,1], got %v", p)
		}
	}
	if b.DefaultCharacterCriticalHits < 0 || b.DefaultEnemyCriticalHits < 0 {
		return fmt.Errorf("critical hit budgets must not be negative")
	}
	if b.DefaultCharacterDoubleHits < game.UnlimitedDoubleHits || b.DefaultEnemyDoubleHits < game.UnlimitedDoubleHits {
		return fmt.Errorf("double hit budgets must be >= -1")
	}
	nameSet := make(map[string]struct{}, len(b.Enemies))
	for _, e := range b.Enemies {
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("enemy entry missing 'name'")
		}
		if _, exists := nameSet[e.Name]; exists {
			return fmt.Errorf("duplicate enemy name '%s'", e.Name)
		}
		nameSet[e.Name] = struct{}{}
		if e.HitPoints <= 0 {
			return fmt.Errorf("enemy '%s': hit_points must be positive", e.Name)
		}
		if e.CriticalHits < 0 {
			return fmt.Errorf("enemy '%s': critical_hits must not be negative", e.Name)
		}
		if e.DoubleHits < game.UnlimitedDoubleHits {
			return fmt.Errorf("enemy '%s': double_hits must be >= -1", e.Name)
		}
	}
	return nil
}

type rawConfig struct {
	Server *struct {
		Address string `json:"address" yaml:"address"`
	} `json:"server" yaml:"server"`
	Database string `json:"database" yaml:"database"`
	Seed     int64  `json:"seed" yaml:"seed"`

	Zones                []string `json:"zones" yaml:"zones"`
	RequiredDefenseZones *int     `json:"required_defense_zones" yaml:"required_defense_zones"`
	CharacterHP          *int     `json:"character_hp" yaml:"character_hp"`

	Damage *struct {
		Normal          *int `json:"normal" yaml:"normal"`
		Critical        *int `json:"critical" yaml:"critical"`
		BlockedCritical *int `json:"blocked_critical" yaml:"blocked_critical"`
	} `json:"damage" yaml:"damage"`
	CriticalHitChance *float64 `json:"critical_hit_chance" yaml:"critical_hit_chance"`
	DoubleHitChance   *float64 `json:"double_hit_chance" yaml:"double_hit_chance"`

	Character *struct {
		CriticalHits *int `json:"critical_hits" yaml:"critical_hits"`
		DoubleHits   *int `json:"double_hits" yaml:"double_hits"`
	} `json:"character" yaml:"character"`

	DefaultEnemy *struct {
		Name         string `json:"name" yaml:"name"`
		HitPoints    *int   `json:"hit_points" yaml:"hit_points"`
		CriticalHits *int   `json:"critical_hits" yaml:"critical_hits"`
		DoubleHits   *int   `json:"double_hits" yaml:"double_hits"`
	} `json:"default_enemy" yaml:"default_enemy"`
	EnemyList []EnemyEntry `json:"enemy_list" yaml:"enemy_list"`

	AttackTimeoutMS  *int `json:"attack_timeout_ms" yaml:"attack_timeout_ms"`
	MessageTimeoutMS *int `json:"message_timeout_ms" yaml:"message_timeout_ms"`

	Avatars []string `json:"avatars" yaml:"avatars"`
}

// LoadedConfig contains the game balance plus process settings.
type LoadedConfig struct {
	Balance       Balance
	ServerAddress string
	DBPath        string
	Seed          int64
}

// Defaults returns a LoadedConfig built only from built-in values.
func Defaults() *LoadedConfig {
	return &LoadedConfig{
		Balance:       Default(),
		ServerAddress: constants.DefaultAddr,
		DBPath:        constants.DefaultDBPath,
	}
}

// LoadConfig reads the configuration file at path and overlays it on the
// built-in defaults. Files ending in .yaml or .yml are parsed as YAML,
// everything else as JSON.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &rc)
	default:
		err = json.Unmarshal(b, &rc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg := Defaults()
	rc.apply(cfg)
	if err := cfg.Balance.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (rc *rawConfig) apply(cfg *LoadedConfig) {
	bal := &cfg.Balance
	if rc.Server != nil && rc.Server.Address != "" {
		cfg.ServerAddress = rc.Server.Address
	}
	if rc.Database != "" {
		cfg.DBPath = rc.Database
	}
	cfg.Seed = rc.Seed

	if len(rc.Zones) > 0 {
		bal.Zones = make([]game.Zone, 0, len(rc.Zones))
		for _, z := range rc.Zones {
			bal.Zones = append(bal.Zones, game.Zone(strings.TrimSpace(z)))
		}
	}
	setInt(&bal.RequiredDefenseZones, rc.RequiredDefenseZones)
	setInt(&bal.CharacterHP, rc.CharacterHP)
	if rc.Damage != nil {
		setInt(&bal.NormalDamage, rc.Damage.Normal)
		setInt(&bal.CriticalDamage, rc.Damage.Critical)
		setInt(&bal.BlockedCriticalDamage, rc.Damage.BlockedCritical)
	}
	if rc.CriticalHitChance != nil {
		bal.CriticalHitChance = *rc.CriticalHitChance
	}
	if rc.DoubleHitChance != nil {
		bal.DoubleHitChance = *rc.DoubleHitChance
	}
	if rc.Character != nil {
		setInt(&bal.DefaultCharacterCriticalHits, rc.Character.CriticalHits)
		setInt(&bal.DefaultCharacterDoubleHits, rc.Character.DoubleHits)
	}
	if rc.DefaultEnemy != nil {
		if n := strings.TrimSpace(rc.DefaultEnemy.Name); n != "" {
			bal.DefaultEnemyName = n
		}
		setInt(&bal.DefaultEnemyHP, rc.DefaultEnemy.HitPoints)
		setInt(&bal.DefaultEnemyCriticalHits, rc.DefaultEnemy.CriticalHits)
		setInt(&bal.DefaultEnemyDoubleHits, rc.DefaultEnemy.DoubleHits)
	}
	if len(rc.EnemyList) > 0 {
		bal.Enemies = make([]EnemyEntry, 0, len(rc.EnemyList))
		for _, e := range rc.EnemyList {
			e.Name = strings.TrimSpace(e.Name)
			bal.Enemies = append(bal.Enemies, e)
		}
	}
	if rc.AttackTimeoutMS != nil && *rc.AttackTimeoutMS >= 0 {
		bal.AttackTimeout = time.Duration(*rc.AttackTimeoutMS) * time.Millisecond
	}
	if rc.MessageTimeoutMS != nil && *rc.MessageTimeoutMS >= 0 {
		bal.MessageTimeout = time.Duration(*rc.MessageTimeoutMS) * time.Millisecond
	}
	if len(rc.Avatars) > 0 {
		bal.Avatars = append([]string(nil), rc.Avatars...)
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
