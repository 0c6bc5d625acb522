package game

// Zone is a body region usable as an attack target or a defended region.
type Zone string

const (
	ZoneHead  Zone = "Head"
	ZoneNeck  Zone = "Neck"
	ZoneBody  Zone = "Body"
	ZoneBelly Zone = "Belly"
	ZoneLegs  Zone = "Legs"
)

// ContainsZone reports whether z is one of zones.
func ContainsZone(zones []Zone, z Zone) bool {
	for _, x := range zones {
		if x == z {
			return true
		}
	}
	return false
}

// BattleState is the lifecycle state of the current battle. The empty value
// means no battle has been initialised in this session.
type BattleState string

const (
	StateNone   BattleState = ""
	StateReady  BattleState = "ready"
	StateActive BattleState = "active"
	StatePaused BattleState = "paused"
	StateEnded  BattleState = "ended"
)

// Valid reports whether s is a known non-empty state.
func (s BattleState) Valid() bool {
	switch s {
	case StateReady, StateActive, StatePaused, StateEnded:
		return true
	}
	return false
}

// Outcome is the result of a finished battle from the character's view.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Recorded returns the outcome written to the score record. A draw counts
// as a loss.
func (o Outcome) Recorded() Outcome {
	if o == OutcomeDraw {
		return OutcomeLoss
	}
	return o
}

// Side identifies a combatant within a battle.
type Side string

const (
	SideCharacter Side = "character"
	SideEnemy     Side = "enemy"
)

// UnlimitedDoubleHits marks a double-hit budget under which every attack
// is followed by a second hit.
const UnlimitedDoubleHits = -1

// Character is a registered player character.
type Character struct {
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Avatar       string `json:"avatar"`
	CriticalHits int    `json:"critical_hits"`
	DoubleHits   int    `json:"double_hits"`
	CurrentHP    int    `json:"current_hp"`
}

// Enemy is a catalog entry.
type Enemy struct {
	Name         string `json:"name"`
	MaxHP        int    `json:"max_hp"`
	CriticalHits int    `json:"critical_hits"`
	DoubleHits   int    `json:"double_hits"`
}

// ScoreRecord is the per-character win/loss record.
type ScoreRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Add returns the record with the counter for o incremented.
func (s ScoreRecord) Add(o Outcome) ScoreRecord {
	switch o.Recorded() {
	case OutcomeWin:
		s.Wins++
	case OutcomeLoss:
		s.Losses++
	}
	return s
}
