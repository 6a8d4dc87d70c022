package models

// Stadium is the physical venue a game is played in: location for the
// Weather Service, and the factors the At-Bat Sampler applies as
// multiplicative modifiers.
type Stadium struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	TeamID     string            `json:"team_id"`
	Latitude   float64           `json:"latitude"`
	Longitude  float64           `json:"longitude"`
	Altitude   int               `json:"altitude"` // feet above sea level
	RoofType   string            `json:"roof_type"` // "open", "dome", "retractable"
	Surface    string            `json:"surface"`   // "grass", "turf"
	Dimensions StadiumDimensions `json:"dimensions"`
	ParkFactors ParkFactors      `json:"park_factors"`
}

// IsDome reports whether the stadium is climate-controlled (dome, indoor,
// or a fixed roof), short-circuiting the Weather Service's forecast fetch
// per spec §4.2 step 1. Retractable and open roofs still see weather.
func (s *Stadium) IsDome() bool {
	switch s.RoofType {
	case "dome", "indoor", "fixed":
		return true
	default:
		return false
	}
}

// Umpire is the plate umpire assigned to a game.
type Umpire struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Tendencies UmpireTendencies `json:"tendencies"`
}

// GameContext bundles everything the Trial Driver needs to simulate one
// game: both rosters, the venue, the umpire, and the weather at first
// pitch. The Run Coordinator assembles this once per run and hands a
// pointer to every trial worker.
type GameContext struct {
	GameID       string  `json:"game_id"`
	HomeTeamID   string  `json:"home_team_id"`
	AwayTeamID   string  `json:"away_team_id"`
	HomeTeamName string  `json:"home_team_name"`
	AwayTeamName string  `json:"away_team_name"`
	HomeRoster   Roster  `json:"home_roster"`
	AwayRoster   Roster  `json:"away_roster"`
	Stadium      Stadium `json:"stadium"`
	Umpire       Umpire  `json:"umpire"`
	Weather      Weather `json:"weather"`
}
