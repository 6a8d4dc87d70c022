package models

// Role distinguishes how a player is used when assembling a lineup.
type Role string

const (
	RoleBatter  Role = "batter"
	RolePitcher Role = "pitcher"
	RoleTwoWay  Role = "two_way"
)

// Player represents a baseball player with performance statistics.
type Player struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Position   string           `json:"position"`
	TeamID     string           `json:"team_id"`
	Hand       string           `json:"hand"`        // batting handedness: "L", "R", or "S" (switch)
	ThrowHand  string           `json:"throw_hand"`  // "L" or "R"
	Role       Role             `json:"role"`
	Batting    BattingStats     `json:"batting"`
	Pitching   PitchingStats    `json:"pitching"`
	Fielding   FieldingStats    `json:"fielding"`
	Attributes PlayerAttributes `json:"attributes"`

	// Defaulted is true when the repository could not find a seasonal rate
	// block for this player and substituted league-average rates. Exposed
	// so callers (and tests) can assert on the fallback without inspecting
	// the rates themselves.
	Defaulted bool `json:"defaulted,omitempty"`
}

// BattingStats contains offensive statistics.
type BattingStats struct {
	// Basic stats
	AVG float64 `json:"avg"`
	OBP float64 `json:"obp"`
	SLG float64 `json:"slg"`
	OPS float64 `json:"ops"`

	// Advanced stats
	WOBA    float64 `json:"woba"`
	WRCPlus int     `json:"wrc_plus"`
	ISO     float64 `json:"iso"`
	BABIP   float64 `json:"babip"`

	// Rate stats
	BBPercent float64 `json:"bb_percent"`
	KPercent  float64 `json:"k_percent"`

	// Counting stats
	PA      int `json:"pa"`
	AB      int `json:"ab"`
	H       int `json:"h"`
	Doubles int `json:"doubles"`
	Triples int `json:"triples"`
	HR      int `json:"hr"`
	HBP     int `json:"hbp"`
	RBI     int `json:"rbi"`
	SB      int `json:"sb"`
	CS      int `json:"cs"`

	// Situational splits
	VsLHP  SplitStats `json:"vs_lhp"`
	VsRHP  SplitStats `json:"vs_rhp"`
	RISP   SplitStats `json:"risp"`   // Runners in scoring position
	Clutch SplitStats `json:"clutch"` // High leverage situations
}

// PitchingStats contains pitching statistics.
type PitchingStats struct {
	// Basic stats
	ERA  float64 `json:"era"`
	WHIP float64 `json:"whip"`

	// Advanced stats
	FIP     float64 `json:"fip"`
	XFIP    float64 `json:"xfip"`
	ERAPlus int     `json:"era_plus"`

	// Rate stats (park/altitude-independent, per spec §3)
	KPer9    float64 `json:"k_per_9"`
	BBPer9   float64 `json:"bb_per_9"`
	HRPer9   float64 `json:"hr_per_9"`
	HitsPer9 float64 `json:"hits_per_9"`
	KBBRatio float64 `json:"k_bb_ratio"`

	// Counting stats
	IP float64 `json:"ip"`
	H  int     `json:"h"`
	ER int     `json:"er"`
	BB int     `json:"bb"`
	SO int     `json:"so"`
	HR int     `json:"hr"`
	W  int     `json:"w"`
	L  int     `json:"l"`
	SV int     `json:"sv"`

	// Contact management
	GroundBallPercent float64 `json:"gb_percent"`
	FlyBallPercent    float64 `json:"fb_percent"`
	LinedrivePercent  float64 `json:"ld_percent"`

	// Situational splits
	VsLHB  SplitStats `json:"vs_lhb"`
	VsRHB  SplitStats `json:"vs_rhb"`
	RISP   SplitStats `json:"risp"`
	Clutch SplitStats `json:"clutch"`

	PitchMix PitchMix `json:"pitch_mix"`
}

// FieldingStats contains defensive statistics.
type FieldingStats struct {
	FPCT   float64 `json:"fpct"`
	Errors int     `json:"errors"`
	PO     int     `json:"po"`
	A      int     `json:"a"`

	UZR       float64 `json:"uzr"`
	DRS       int     `json:"drs"`
	ARM       float64 `json:"arm"`
	RangeRuns float64 `json:"range_runs"`

	FramingRuns  float64 `json:"framing_runs,omitempty"`
	BlockingRuns float64 `json:"blocking_runs,omitempty"`
	ArmRuns      float64 `json:"arm_runs,omitempty"`
	JumpRating   float64 `json:"jump_rating,omitempty"`
}

// SplitStats contains situation-specific performance.
type SplitStats struct {
	AVG  float64 `json:"avg"`
	OBP  float64 `json:"obp"`
	SLG  float64 `json:"slg"`
	OPS  float64 `json:"ops"`
	WOBA float64 `json:"woba"`
	PA   int     `json:"pa"`
}

// PitchMix contains pitch type usage.
type PitchMix struct {
	Fastball    float64 `json:"fastball"`
	Slider      float64 `json:"slider"`
	Changeup    float64 `json:"changeup"`
	Curveball   float64 `json:"curveball"`
	Cutter      float64 `json:"cutter"`
	Sinker      float64 `json:"sinker"`
	Knuckleball float64 `json:"knuckleball"`
	Other       float64 `json:"other"`
}

// PlayerAttributes contains scouting/physical attributes on the
// traditional 20-80 scouting scale.
type PlayerAttributes struct {
	Speed       int `json:"speed"`
	Power       int `json:"power"`
	Contact     int `json:"contact"`
	Eye         int `json:"eye"`
	ArmStrength int `json:"arm_strength"`
	Accuracy    int `json:"accuracy"`
	Range       int `json:"range"`
	Hands       int `json:"hands"`

	Height int `json:"height"`
	Weight int `json:"weight"`
	Age    int `json:"age"`

	Clutch     int `json:"clutch"`
	Durability int `json:"durability"`
	Composure  int `json:"composure"`
}

// PAOutcomeRates is the discrete plate-appearance outcome distribution the
// At-Bat Sampler blends (spec §4.4): it must sum to 1.0 once normalized.
type PAOutcomeRates struct {
	Strikeout  float64
	Walk       float64
	HitByPitch float64
	Single     float64
	Double     float64
	Triple     float64
	HomeRun    float64
	InPlayOut  float64
}

// Sum returns the total of all eight outcome rates.
func (r PAOutcomeRates) Sum() float64 {
	return r.Strikeout + r.Walk + r.HitByPitch + r.Single + r.Double +
		r.Triple + r.HomeRun + r.InPlayOut
}

// Normalize rescales the rates so they sum to 1.0. A zero-sum input
// normalizes to the league-average shape rather than dividing by zero.
func (r PAOutcomeRates) Normalize() PAOutcomeRates {
	total := r.Sum()
	if total <= 0 {
		return LeagueAverageRates
	}
	return PAOutcomeRates{
		Strikeout:  r.Strikeout / total,
		Walk:       r.Walk / total,
		HitByPitch: r.HitByPitch / total,
		Single:     r.Single / total,
		Double:     r.Double / total,
		Triple:     r.Triple / total,
		HomeRun:    r.HomeRun / total,
		InPlayOut:  r.InPlayOut / total,
	}
}

// LeagueAverageRates is the denominator of the odds-ratio blend (spec
// §4.4) and the fallback used whenever a player's own rates can't be
// derived. The shape is a rough modern-era league average; it sums to 1.0.
var LeagueAverageRates = PAOutcomeRates{
	Strikeout:  0.220,
	Walk:       0.085,
	HitByPitch: 0.010,
	Single:     0.145,
	Double:     0.045,
	Triple:     0.005,
	HomeRun:    0.032,
	InPlayOut:  0.458,
}

// PAOutcomeRates derives the batter's discrete outcome distribution from
// its seasonal counting/rate stats. Players with no recorded plate
// appearances fall back to LeagueAverageRates (the repository is expected
// to mark such players Defaulted).
func (bs *BattingStats) PAOutcomeRates() PAOutcomeRates {
	if bs.PA <= 0 {
		return LeagueAverageRates
	}
	pa := float64(bs.PA)
	walk := bs.BBPercent / 100.0
	k := bs.KPercent / 100.0
	hbp := float64(bs.HBP) / pa
	if bs.HBP == 0 {
		hbp = LeagueAverageRates.HitByPitch
	}
	singles := float64(bs.H-bs.Doubles-bs.Triples-bs.HR) / pa
	if singles < 0 {
		singles = 0
	}
	doubles := float64(bs.Doubles) / pa
	triples := float64(bs.Triples) / pa
	hr := float64(bs.HR) / pa
	inPlayOut := 1.0 - walk - k - hbp - singles - doubles - triples - hr
	if inPlayOut < 0 {
		inPlayOut = 0
	}
	return PAOutcomeRates{
		Strikeout:  k,
		Walk:       walk,
		HitByPitch: hbp,
		Single:     singles,
		Double:     doubles,
		Triple:     triples,
		HomeRun:    hr,
		InPlayOut:  inPlayOut,
	}.Normalize()
}

// paPerInning approximates how many plate appearances a pitcher faces per
// inning pitched, used to turn innings pitched into an estimated number of
// plate appearances faced, the denominator of the per-PA distribution.
const paPerInning = 4.3

// PAOutcomeRatesAllowed derives the pitcher's discrete outcome distribution
// allowed from its seasonal counting stats (SO, BB, HR and H over the
// estimated plate appearances faced; the per-9 fields are not read),
// following the same shape as
// BattingStats.PAOutcomeRates so the two blend symmetrically in the
// odds-ratio sampler.
func (ps *PitchingStats) PAOutcomeRatesAllowed() PAOutcomeRates {
	if ps.IP <= 0 {
		return LeagueAverageRates
	}
	pa := ps.IP * paPerInning
	k := float64(ps.SO) / pa
	bb := float64(ps.BB) / pa
	hr := float64(ps.HR) / pa
	hits := float64(ps.H) / pa
	hbp := LeagueAverageRates.HitByPitch

	nonHRHits := hits - hr
	if nonHRHits < 0 {
		nonHRHits = 0
	}
	// Distribute non-homer hits across single/double/triple using the
	// league-average shape among hit types.
	hitTotal := LeagueAverageRates.Single + LeagueAverageRates.Double + LeagueAverageRates.Triple
	singles := nonHRHits * (LeagueAverageRates.Single / hitTotal)
	doubles := nonHRHits * (LeagueAverageRates.Double / hitTotal)
	triples := nonHRHits * (LeagueAverageRates.Triple / hitTotal)

	inPlayOut := 1.0 - k - bb - hbp - singles - doubles - triples - hr
	if inPlayOut < 0 {
		inPlayOut = 0
	}
	return PAOutcomeRates{
		Strikeout:  k,
		Walk:       bb,
		HitByPitch: hbp,
		Single:     singles,
		Double:     doubles,
		Triple:     triples,
		HomeRun:    hr,
		InPlayOut:  inPlayOut,
	}.Normalize()
}

// DefaultBattingStats returns league-average batting rates, used by the
// repository when a player's own seasonal data is missing (spec §4.1).
func DefaultBattingStats() BattingStats {
	return BattingStats{
		AVG: 0.250, OBP: 0.320, SLG: 0.400, OPS: 0.720,
		WOBA: 0.320, WRCPlus: 100, ISO: 0.150, BABIP: 0.300,
		BBPercent: 8.5, KPercent: 22.0,
		PA: 500, AB: 450, H: 110, Doubles: 22, Triples: 3, HR: 15, HBP: 5,
	}
}

// DefaultPitchingStats returns league-average pitching rates.
func DefaultPitchingStats() PitchingStats {
	return PitchingStats{
		ERA: 4.50, WHIP: 1.35, FIP: 4.20, XFIP: 4.20, ERAPlus: 100,
		KPer9: 8.5, BBPer9: 3.2, HRPer9: 1.2, HitsPer9: 8.6, KBBRatio: 2.7,
		IP: 150, H: 145, ER: 65, BB: 50, SO: 140, HR: 18, W: 8, L: 8,
		GroundBallPercent: 45.0, FlyBallPercent: 35.0, LinedrivePercent: 20.0,
	}
}
