package models

import "testing"

// TestIsGameOver tests the termination rule across the cases that matter:
// the home team must not be denied its turn at bat just because the away
// team is ahead, but a home lead (entering or taken during the bottom half)
// ends it immediately.
func TestIsGameOver(t *testing.T) {
	tests := []struct {
		name      string
		inning    int
		half      string
		outs      int
		homeScore int
		awayScore int
		expected  bool
	}{
		{"before 9th, scores differ", 8, "bottom", 3, 5, 2, false},
		{"top of 9th, scores differ", 9, "top", 3, 2, 5, false},
		{"bottom 9th starts, home already leading", 9, "bottom", 0, 4, 2, true},
		{"bottom 9th starts, away leading", 9, "bottom", 0, 2, 4, false},
		{"bottom 9th mid at-bat, home takes lead (walk-off)", 9, "bottom", 1, 5, 4, true},
		{"bottom 9th, 3 outs, away still leading", 9, "bottom", 3, 2, 4, true},
		{"bottom 9th, 3 outs, tied", 9, "bottom", 3, 4, 4, false},
		{"bottom 9th, 2 outs, away leading", 9, "bottom", 2, 2, 4, false},
		{"extra innings, bottom starts, home leading", 11, "bottom", 0, 7, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := &GameState{
				Inning: tt.inning, InningHalf: tt.half, Outs: tt.outs,
				HomeScore: tt.homeScore, AwayScore: tt.awayScore,
			}
			if got := gs.IsGameOver(); got != tt.expected {
				t.Errorf("IsGameOver() = %v, want %v", got, tt.expected)
			}
		})
	}
}
