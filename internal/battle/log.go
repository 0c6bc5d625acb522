package battle

import (
	"fmt"
	"strings"
	"time"

	"github.com/ikclouds/not-fight-club/internal/engine"
)

// DefaultLogLimit caps the number of battle log entries kept in memory.
const DefaultLogLimit = 500

// LogEntry is one line of the player-facing battle log.
type LogEntry struct {
	Class string    `json:"class"`
	Text  string    `json:"text"`
	Time  time.Time `json:"time"`
}

type battleLog struct {
	entries []LogEntry
	limit   int
}

func (l *battleLog) add(class, text string) {
	l.entries = append(l.entries, LogEntry{Class: class, Text: text, Time: time.Now()})
	if l.limit > 0 && len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}
}

func (l *battleLog) reset() { l.entries = nil }

func (l *battleLog) snapshot() []LogEntry {
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// describeHit renders a resolved hit for the battle log.
func describeHit(res engine.HitResult) string {
	attacker := strings.ToUpper(res.Attacker)
	defender := strings.ToUpper(res.Defender)
	switch {
	case res.Blocked && res.Critical:
		return fmt.Sprintf("%s delivered a CRITICAL HIT to %s's %s but it was partially blocked, dealing %d damage.",
			attacker, defender, res.Zone, res.Damage)
	case res.Blocked:
		return fmt.Sprintf("%s attacked %s's %s but %s was able to protect his %s.",
			attacker, defender, res.Zone, defender, res.Zone)
	}
	hitType := "hit"
	if res.Critical {
		hitType = "CRITICAL HIT"
	}
	return fmt.Sprintf("%s delivered a %s to %s's %s and dealt %d damage.",
		attacker, hitType, defender, res.Zone, res.Damage)
}

// hitDetail is the short diagnostic form of a hit.
func hitDetail(side string, res engine.HitResult) string {
	switch {
	case res.Blocked && res.Critical:
		return fmt.Sprintf("%s attack on %s's %s was partially blocked, dealing %d critical damage.", side, res.Defender, res.Zone, res.Damage)
	case res.Blocked:
		return fmt.Sprintf("%s attack on %s's %s was blocked.", side, res.Defender, res.Zone)
	case res.Critical:
		return fmt.Sprintf("%s attack on %s's %s was successful, dealing %d critical damage.", side, res.Defender, res.Zone, res.Damage)
	}
	return fmt.Sprintf("%s attack on %s's %s was successful, dealing %d normal damage.", side, res.Defender, res.Zone, res.Damage)
}
