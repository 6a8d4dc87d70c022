package models

import "github.com/cockroachdb/errors"

// Roster is one team's available players for a game.
type Roster struct {
	TeamID   string   `json:"team_id"`
	Players  []Player `json:"players"`
	Lineup   []string `json:"lineup"`   // Player IDs in batting order, length 9
	Rotation []string `json:"rotation"` // Starting pitcher IDs
	Bullpen  []string `json:"bullpen"`  // Relief pitcher IDs
}

// PlayerByID returns the player with the given ID, or nil if absent.
func (r *Roster) PlayerByID(id string) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// StartingPitcher returns the first rotation entry's Player, or nil if the
// roster has no rotation or the ID doesn't resolve.
func (r *Roster) StartingPitcher() *Player {
	if len(r.Rotation) == 0 {
		return nil
	}
	return r.PlayerByID(r.Rotation[0])
}

// Validate checks the roster invariants a Trial Driver depends on: a
// full nine-man lineup and a resolvable starting pitcher, each lineup slot
// referencing a real player on the roster.
func (r *Roster) Validate() error {
	if len(r.Lineup) != 9 {
		return errors.Newf("roster %s: lineup has %d entries, want 9", r.TeamID, len(r.Lineup))
	}
	seen := make(map[string]bool, 9)
	for _, id := range r.Lineup {
		if seen[id] {
			return errors.Newf("roster %s: player %s appears twice in lineup", r.TeamID, id)
		}
		seen[id] = true
		if r.PlayerByID(id) == nil {
			return errors.Newf("roster %s: lineup player %s not found on roster", r.TeamID, id)
		}
	}
	if r.StartingPitcher() == nil {
		return errors.Newf("roster %s: no resolvable starting pitcher", r.TeamID)
	}
	return nil
}

// AtBatResult is the outcome of one plate appearance, produced by the
// At-Bat Sampler and consumed by the Trial Driver's base-advancement logic.
type AtBatResult struct {
	Type        string         `json:"type"` // "single","double","triple","home_run","walk","strikeout","out","hit_by_pitch"
	Bases       int            `json:"bases"`
	IsHit       bool           `json:"is_hit"`
	IsOut       bool           `json:"is_out"`
	Outs        int            `json:"outs"`
	Advancement map[string]int `json:"advancement,omitempty"`
	Leverage    float64        `json:"leverage"`
}

// GetSplitStats returns appropriate split stats for the situation.
func (bs *BattingStats) GetSplitStats(pitcherHand string, risp bool, highLeverage bool) SplitStats {
	split := SplitStats{AVG: bs.AVG, OBP: bs.OBP, SLG: bs.SLG, OPS: bs.OPS, WOBA: bs.WOBA, PA: bs.PA}

	if pitcherHand == "L" && bs.VsLHP.PA > 0 {
		split = bs.VsLHP
	} else if pitcherHand == "R" && bs.VsRHP.PA > 0 {
		split = bs.VsRHP
	}
	if risp && bs.RISP.PA > 0 {
		split.WOBA = (split.WOBA + bs.RISP.WOBA) / 2
	}
	if highLeverage && bs.Clutch.PA > 0 {
		split.WOBA = (split.WOBA + bs.Clutch.WOBA) / 2
	}
	return split
}

// GetSplitStats returns appropriate pitching splits for the situation.
func (ps *PitchingStats) GetSplitStats(batterHand string, risp bool, highLeverage bool) SplitStats {
	split := SplitStats{PA: int(ps.IP * paPerInning)}

	if batterHand == "L" && ps.VsLHB.PA > 0 {
		split = ps.VsLHB
	} else if batterHand == "R" && ps.VsRHB.PA > 0 {
		split = ps.VsRHB
	}
	if risp && ps.RISP.PA > 0 {
		split.WOBA = (split.WOBA + ps.RISP.WOBA) / 2
	}
	if highLeverage && ps.Clutch.PA > 0 {
		split.WOBA = (split.WOBA + ps.Clutch.WOBA) / 2
	}
	return split
}
