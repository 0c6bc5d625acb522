package engine

import "github.com/ikclouds/not-fight-club/internal/game"

// Selection tracks the player's zone choices for the next attack. The attack
// zone behaves like a radio group; defense zones behave like checkboxes
// capped at a fixed count, dropping the earliest choice on overflow.
type Selection struct {
	attack     game.Zone
	defense    []game.Zone
	maxDefense int
}

// NewSelection returns an empty selection allowing maxDefense defense zones.
func NewSelection(maxDefense int) *Selection {
	return &Selection{maxDefense: maxDefense}
}

// SelectAttack replaces the attack zone. An empty zone clears it.
func (s *Selection) SelectAttack(z game.Zone) {
	s.attack = z
}

// ToggleDefense checks or unchecks z. It returns the zone evicted to stay
// within the cap, if any.
func (s *Selection) ToggleDefense(z game.Zone, checked bool) (evicted game.Zone) {
	idx := -1
	for i, d := range s.defense {
		if d == z {
			idx = i
			break
		}
	}
	if !checked {
		if idx >= 0 {
			s.defense = append(s.defense[:idx], s.defense[idx+1:]...)
		}
		return ""
	}
	if idx >= 0 {
		return ""
	}
	s.defense = append(s.defense, z)
	if len(s.defense) > s.maxDefense {
		evicted = s.defense[0]
		s.defense = s.defense[1:]
	}
	return evicted
}

// Attack returns the selected attack zone, "" when none.
func (s *Selection) Attack() game.Zone { return s.attack }

// Defense returns a copy of the selected defense zones in selection order.
func (s *Selection) Defense() []game.Zone {
	out := make([]game.Zone, len(s.defense))
	copy(out, s.defense)
	return out
}

// Ready reports whether exactly one attack zone and the full set of defense
// zones are selected.
func (s *Selection) Ready() bool {
	return s.attack != "" && len(s.defense) == s.maxDefense
}

// Clear drops every selection.
func (s *Selection) Clear() {
	s.attack = ""
	s.defense = nil
}
