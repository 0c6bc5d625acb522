package engine

import (
	"testing"

	"github.com/ikclouds/not-fight-club/internal/game"
)

func TestSelection_AttackIsExclusive(t *testing.T) {
	s := NewSelection(2)
	s.SelectAttack(game.ZoneHead)
	s.SelectAttack(game.ZoneLegs)
	if s.Attack() != game.ZoneLegs {
		t.Fatalf("attack = %s, want Legs", s.Attack())
	}
}

func TestSelection_DefenseEvictsEarliest(t *testing.T) {
	s := NewSelection(2)
	s.ToggleDefense(game.ZoneHead, true)
	s.ToggleDefense(game.ZoneNeck, true)
	if ev := s.ToggleDefense(game.ZoneBody, true); ev != game.ZoneHead {
		t.Fatalf("evicted %q, want Head", ev)
	}
	got := s.Defense()
	if len(got) != 2 || got[0] != game.ZoneNeck || got[1] != game.ZoneBody {
		t.Fatalf("defense = %v", got)
	}

	// re-checking a selected zone is a no-op
	s.ToggleDefense(game.ZoneBody, true)
	if len(s.Defense()) != 2 {
		t.Fatalf("duplicate zone accepted: %v", s.Defense())
	}

	s.ToggleDefense(game.ZoneNeck, false)
	if got := s.Defense(); len(got) != 1 || got[0] != game.ZoneBody {
		t.Fatalf("uncheck failed: %v", got)
	}
}

func TestSelection_Ready(t *testing.T) {
	s := NewSelection(2)
	if s.Ready() {
		t.Fatalf("empty selection must not be ready")
	}
	s.SelectAttack(game.ZoneHead)
	s.ToggleDefense(game.ZoneNeck, true)
	if s.Ready() {
		t.Fatalf("one defense zone must not be ready")
	}
	s.ToggleDefense(game.ZoneBody, true)
	if !s.Ready() {
		t.Fatalf("expected ready")
	}
	s.Clear()
	if s.Ready() || s.Attack() != "" || len(s.Defense()) != 0 {
		t.Fatalf("clear left state behind")
	}
}
