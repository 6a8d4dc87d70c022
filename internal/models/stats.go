package models

// PlayerGameBatting accumulates one player's batting line for a single
// trial, built up by the Trial Driver as at-bats resolve.
type PlayerGameBatting struct {
	PlayerID string `json:"player_id"`
	PA       int    `json:"pa"`
	AB       int    `json:"ab"`
	H        int    `json:"h"`
	Doubles  int    `json:"doubles"`
	Triples  int    `json:"triples"`
	HR       int    `json:"hr"`
	BB       int    `json:"bb"`
	SO       int    `json:"so"`
	HBP      int    `json:"hbp"`
	RBI      int    `json:"rbi"`
	Runs     int    `json:"runs"`
}

// PlayerGamePitching accumulates one pitcher's line for a single trial.
type PlayerGamePitching struct {
	PlayerID       string  `json:"player_id"`
	OutsRecorded   int     `json:"outs_recorded"`
	H              int     `json:"h"`
	R              int     `json:"r"`
	ER             int     `json:"er"`
	BB             int     `json:"bb"`
	SO             int     `json:"so"`
	HR             int     `json:"hr"`
	PitchesThrown  int     `json:"pitches_thrown"`
}

// IP returns innings pitched in the conventional .1/.2 notation.
func (p *PlayerGamePitching) IP() float64 {
	full := p.OutsRecorded / 3
	rem := p.OutsRecorded % 3
	return float64(full) + float64(rem)/10.0
}
