package game

import "testing"

func TestScoreRecordAdd_DrawCountsAsLoss(t *testing.T) {
	var s ScoreRecord
	s = s.Add(OutcomeWin)
	s = s.Add(OutcomeDraw)
	s = s.Add(OutcomeLoss)
	if s.Wins != 1 || s.Losses != 2 {
		t.Fatalf("expected 1 win 2 losses, got %+v", s)
	}
}

func TestBattleStateValid(t *testing.T) {
	for _, s := range []BattleState{StateReady, StateActive, StatePaused, StateEnded} {
		if !s.Valid() {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if StateNone.Valid() || BattleState("running").Valid() {
		t.Fatalf("unexpected valid state")
	}
}
