package constants

// Environment variable keys
const (
	EnvConfigPath = "NFC_CONFIG"
	EnvDBPath     = "NFC_DB"
	EnvAddr       = "NFC_ADDR"
	EnvSeed       = "NFC_SEED"
	EnvLogLevel   = "NFC_LOG_LEVEL"
	EnvHealthURL  = "NFC_HEALTH_URL"

	DefaultConfigPath = "./nfc_config.json"
	DefaultDBPath     = "./data/nfc.db"
	DefaultAddr       = "127.0.0.1:8080"

	// MemoryDBPath keeps all state in process memory.
	MemoryDBPath = "memory"
)

// Store key names. The storage layer prefixes them (see package keys).
const (
	KeyCharacterNames     = "CharacterNames"
	KeyCharacterPasswords = "CharacterPasswords"
	KeyCharacterAvatars   = "CharacterAvatars"
	KeySelectedAvatar     = "SelectedAvatar"
	KeyCharacterScore     = "CharacterScore"
	KeyEnemies            = "Enemies"
	KeySelectedEnemyName  = "SelectedEnemyName"
	KeySelectedEnemyHP    = "SelectedEnemyHP"
	KeyCharacterHP        = "CharacterHP"
	KeyEnemyHP            = "EnemyHP"
	KeyCharacterCH        = "CharacterCH"
	KeyEnemyCH            = "EnemyCH"
	KeyCharacterDH        = "CharacterDH"
	KeyEnemyDH            = "EnemyDH"
	KeyRandomEnemy        = "RandomEnemy"

	// session scope
	KeyCurrentCharacter = "CurrentCharacter"
	KeyBattleState      = "BattleState"
	KeyActiveMenuItem   = "ActiveMenuItem"
	KeyBattleID         = "BattleID"
)

// Menu items stored as the active menu item.
const (
	MenuFight = "Fight"
)

// Diagnostic bus kinds
const (
	EventState   = "nfc-state"
	EventFight   = "nfc-fight"
	EventUI      = "nfc-ui"
	EventLogging = "nfc-logging"
)

// Battle log entry classes
const (
	LogClassResult       = "result"
	LogClassPlayerAttack = "player-attack"
	LogClassEnemyAttack  = "enemy-attack"
)

// Player-facing battle log messages
const (
	MsgSelectAttackZone   = "You must select an attack zone!"
	MsgSelectDefenseZones = "You must select two defense zones!"
	MsgBattleNotActive    = "Battle not active, click Start!"
	MsgBattleContinue     = "We continue the battle! Click Start!"
	MsgBattleStarted      = "Battle started!"
	MsgBattlePaused       = "Battle paused!"
	MsgNewBattle          = "Press Fight to start a new battle"
	MsgDraw               = "The battle ended in a draw"
	MsgWaitForEnemy       = "Wait for the enemy's move!"
)

// Routes used by the backend router
const (
	RouteAPIPrefix         = "/api"
	RouteVersion           = "/version"
	RouteCharacters        = "/characters"
	RouteLogin             = "/login"
	RouteLogout            = "/logout"
	RouteCharacter         = "/character"
	RouteCharacterAvatar   = "/character/avatar"
	RouteScore             = "/score"
	RouteEnemies           = "/enemies"
	RouteEnemy             = "/enemy"
	RouteRandomEnemy       = "/settings/random-enemy"
	RouteBattle            = "/battle"
	RouteBattleLog         = "/battle/log"
	RouteBattleInit        = "/battle/init"
	RouteBattleStart       = "/battle/start"
	RouteBattlePause       = "/battle/pause"
	RouteBattleFinish      = "/battle/finish"
	RouteBattleAttack      = "/battle/attack"
	RouteBattleAttackZone  = "/battle/zones/attack"
	RouteBattleDefenseZone = "/battle/zones/defense"
)

// Common JSON response keys
const (
	JSONKeyError = "error"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest    = "Invalid request"
	ErrFieldsRequired    = "Please fill all fields"
	ErrPasswordsMismatch = "Passwords do not match"
	ErrCharacterExists   = "Character already exists"
	ErrCharacterNotFound = "Character does not exist"
	ErrIncorrectPassword = "Incorrect password"
	ErrNameTaken         = "Character name already taken"
	ErrNotLoggedIn       = "Login required"
	ErrUnknownAvatar     = "Unknown avatar"
	ErrUnknownEnemy      = "Unknown enemy"
	ErrUnknownZone       = "Unknown zone"
	ErrBattleUnavailable = "Battle action not available"
	ErrInvalidBudget     = "Invalid hit budget"
	ErrAttackInProgress  = "Attack in progress"
)

// Logging field names
const (
	LogFieldCharacter = "character"
	LogFieldEnemy     = "enemy"
	LogFieldBattleID  = "battle_id"
	LogFieldState     = "state"
	LogFieldZone      = "zone"
	LogFieldDamage    = "damage"
	LogFieldHP        = "hp"
	LogFieldKey       = "key"
	LogFieldScope     = "scope"
	LogFieldKind      = "kind"
	LogFieldOutcome   = "outcome"
	LogFieldAddr      = "addr"
	LogFieldPath      = "path"
)
