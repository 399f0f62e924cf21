package models

import "time"

// DefaultPrice is the standard pick'em vig price used whenever a provider
// publishes a line without pricing one of the sides. This is policy, not a
// data error: downstream consumers can always rely on both prices being set.
const DefaultPrice = -110

// Provenance identifies which provider adapter produced a candidate or line
type Provenance string

const (
	ProvenanceTheOddsAPI     Provenance = "theoddsapi"
	ProvenanceSportsGameOdds Provenance = "sportsgameodds"
	ProvenanceTheRundown     Provenance = "therundown"
)

// GameContext narrows a prop lookup to a specific matchup
type GameContext struct {
	TeamAbbrev     string
	OpponentAbbrev string
}

// PropQuery describes a player prop lookup
type PropQuery struct {
	PlayerName string
	Market     string // e.g. "player_points"; empty means player_points
	Game       *GameContext
}

// CandidateOutcome is an intermediate record produced while scanning one
// provider's raw response. Both prices are always populated: adapters pair
// over/under entries where the provider splits them, and fall back to
// DefaultPrice when pairing fails. Candidates live only for the duration of
// a single resolution call.
type CandidateOutcome struct {
	BookmakerKey   string
	BookmakerTitle string
	Line           float64
	OverPrice      int
	UnderPrice     int
	MatchedName    string // provider's rendering of the player name
	LastUpdate     string // raw provider timestamp, may be empty
	Provenance     Provenance
}

// AlternateLine is a (bookmaker, line) pair carried on a ResolvedLine so
// callers can show the full market alongside the canonical pick
type AlternateLine struct {
	Bookmaker string  `json:"bookmaker"`
	Line      float64 `json:"line"`
}

// ResolvedLine is the canonical output of a resolution call.
// Invariant: Line > 0 whenever a ResolvedLine is returned.
type ResolvedLine struct {
	Player     string          `json:"player"`
	Line       float64         `json:"line"`
	OverPrice  int             `json:"over_price"`
	UnderPrice int             `json:"under_price"`
	Bookmaker  string          `json:"bookmaker"`
	LastUpdate time.Time       `json:"last_update"`
	Provenance Provenance      `json:"provenance"`
	Alternates []AlternateLine `json:"alternate_lines"`
}

// InjuryStatus is the structured form of a provider's free-text injury tag
type InjuryStatus string

const (
	StatusActive       InjuryStatus = "active"
	StatusProbable     InjuryStatus = "probable"
	StatusQuestionable InjuryStatus = "questionable"
	StatusOut          InjuryStatus = "out"
)

// InjuryRecord is a single entry from a team's injury report.
// ImpactScore is a 0-100 rating of the player's offensive importance.
type InjuryRecord struct {
	PlayerName  string       `json:"player_name"`
	Team        string       `json:"team"`
	Status      InjuryStatus `json:"status"`
	ImpactScore int          `json:"impact_score"`
}

// InjuryReport wraps a team's injury list. HasInjuries is false both for a
// clean report and for a failed lookup; injury failures never propagate.
type InjuryReport struct {
	Team        string         `json:"team"`
	HasInjuries bool           `json:"has_injuries"`
	Injuries    []InjuryRecord `json:"injuries"`
}

// BookmakerPreference is the fixed tie-break ordering applied across all
// resolution paths. It is constructed once from config and never mutated.
type BookmakerPreference []string

// Rank returns the position of a bookmaker key in the preference order.
// Unlisted bookmakers rank after every listed one.
func (p BookmakerPreference) Rank(key string) int {
	for i, k := range p {
		if k == key {
			return i
		}
	}
	return len(p)
}

// DefaultBookmakerPreference is the ordering used when config supplies none
func DefaultBookmakerPreference() BookmakerPreference {
	return BookmakerPreference{
		"draftkings",
		"fanduel",
		"betmgm",
		"caesars",
		"pointsbetus",
		"bovada",
	}
}

// Event represents a sporting event as listed by a provider
type Event struct {
	EventID      string
	SportKey     string
	HomeTeam     string
	AwayTeam     string
	CommenceTime time.Time
}
