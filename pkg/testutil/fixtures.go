// Package testutil holds frozen sample payloads, one per provider, plus
// small constructors for common test records. Each payload is a trimmed
// capture of the provider's real response shape; adapter tests decode them
// through httptest servers so a provider-side shape change shows up as a
// failing fixture rather than a production incident.
package testutil

import (
	"github.com/XavierBriggs/courtline/pkg/models"
)

// NewTestCandidate creates a candidate outcome for resolver tests
func NewTestCandidate(book string, line float64, over, under int) models.CandidateOutcome {
	return models.CandidateOutcome{
		BookmakerKey:   book,
		BookmakerTitle: book,
		Line:           line,
		OverPrice:      over,
		UnderPrice:     under,
		Provenance:     models.ProvenanceTheOddsAPI,
	}
}

// NewTestInjury creates an injury record for heuristic tests
func NewTestInjury(name, team string, status models.InjuryStatus, impact int) models.InjuryRecord {
	return models.InjuryRecord{
		PlayerName:  name,
		Team:        team,
		Status:      status,
		ImpactScore: impact,
	}
}

// TheOddsAPIEventsJSON is a frozen /v4/sports/{sport}/events capture
const TheOddsAPIEventsJSON = `[
  {
    "id": "evt_gsw_lal",
    "sport_key": "basketball_nba",
    "commence_time": "2025-01-15T20:00:00Z",
    "home_team": "Golden State Warriors",
    "away_team": "Los Angeles Lakers"
  },
  {
    "id": "evt_bos_mia",
    "sport_key": "basketball_nba",
    "commence_time": "2025-01-15T23:30:00Z",
    "home_team": "Boston Celtics",
    "away_team": "Miami Heat"
  }
]`

// TheOddsAPIEventOddsJSON is a frozen per-event player_points odds capture.
// It includes a malformed outcome entry (string price) that adapters must
// skip without aborting the scan.
const TheOddsAPIEventOddsJSON = `{
  "id": "evt_gsw_lal",
  "home_team": "Golden State Warriors",
  "away_team": "Los Angeles Lakers",
  "bookmakers": [
    {
      "key": "draftkings",
      "title": "DraftKings",
      "last_update": "2025-01-15T19:45:00Z",
      "markets": [
        {
          "key": "player_points",
          "outcomes": [
            {"name": "Over", "description": "LeBron James", "price": -115, "point": 25.5},
            {"name": "Under", "description": "LeBron James", "price": -105, "point": 25.5},
            {"name": "Over", "description": "Stephen Curry", "price": -110, "point": 27.5},
            {"name": "Under", "description": "Stephen Curry", "price": -110, "point": 27.5},
            {"name": "Over", "description": "Broken Entry", "price": "not-a-number", "point": 10.5}
          ]
        }
      ]
    },
    {
      "key": "fanduel",
      "title": "FanDuel",
      "last_update": "2025-01-15T19:46:00Z",
      "markets": [
        {
          "key": "player_points",
          "outcomes": [
            {"name": "Over", "description": "LeBron James", "price": -112, "point": 26.5}
          ]
        }
      ]
    }
  ]
}`

// SportsGameOddsEventsJSON is a frozen /v2/events capture. Odds are keyed
// by composite oddID inside a per-event map; each odd carries an
// opposingOddID pointer and a byBookmaker object.
const SportsGameOddsEventsJSON = `{
  "success": true,
  "data": [
    {
      "eventID": "sgo_evt_1",
      "teams": {
        "home": {"names": {"short": "GSW", "long": "Golden State Warriors"}},
        "away": {"names": {"short": "LAL", "long": "Los Angeles Lakers"}}
      },
      "odds": {
        "points-LEBRON_JAMES_1_NBA-game-ou-over": {
          "oddID": "points-LEBRON_JAMES_1_NBA-game-ou-over",
          "opposingOddID": "points-LEBRON_JAMES_1_NBA-game-ou-under",
          "marketName": "Points Over/Under",
          "statID": "points",
          "playerID": "LEBRON_JAMES_1_NBA",
          "sideID": "over",
          "bookOverUnder": "25.5",
          "byBookmaker": {
            "draftkings": {"odds": "-118", "overUnder": "25.5"},
            "fanduel": {"odds": "-110", "overUnder": "26.5"}
          }
        },
        "points-LEBRON_JAMES_1_NBA-game-ou-under": {
          "oddID": "points-LEBRON_JAMES_1_NBA-game-ou-under",
          "opposingOddID": "points-LEBRON_JAMES_1_NBA-game-ou-over",
          "marketName": "Points Over/Under",
          "statID": "points",
          "playerID": "LEBRON_JAMES_1_NBA",
          "sideID": "under",
          "bookOverUnder": "25.5",
          "byBookmaker": {
            "draftkings": {"odds": "-102", "overUnder": "25.5"}
          }
        },
        "assists-LEBRON_JAMES_1_NBA-game-ou-over": {
          "oddID": "assists-LEBRON_JAMES_1_NBA-game-ou-over",
          "opposingOddID": "assists-LEBRON_JAMES_1_NBA-game-ou-under",
          "marketName": "Assists Over/Under",
          "statID": "assists",
          "playerID": "LEBRON_JAMES_1_NBA",
          "sideID": "over",
          "bookOverUnder": "7.5",
          "byBookmaker": {
            "draftkings": {"odds": "-120", "overUnder": "7.5"}
          }
        },
        "points-MALFORMED": {"oddID": 42}
      }
    }
  ]
}`

// TheRundownEventsJSON is a frozen legacy aggregator capture: flat
// player_props arrays with free-text descriptions per event
const TheRundownEventsJSON = `{
  "events": [
    {
      "event_id": "rd_evt_1",
      "teams_normalized": [
        {"abbreviation": "GSW", "name": "Golden State Warriors", "is_home": true},
        {"abbreviation": "LAL", "name": "Los Angeles Lakers", "is_home": false}
      ],
      "player_props": [
        {
          "prop_id": 101,
          "description": "LeBron James Over 25.5 Points",
          "market": "Points",
          "value": 25.5,
          "price": -120,
          "affiliate_name": "DraftKings",
          "affiliate_key": "draftkings",
          "updated_at": "2025-01-15T19:40:00Z"
        },
        {
          "prop_id": 102,
          "description": "LeBron James Under 25.5 Points",
          "market": "Points",
          "value": 25.5,
          "price": -101,
          "affiliate_name": "DraftKings",
          "affiliate_key": "draftkings",
          "updated_at": "2025-01-15T19:40:00Z"
        },
        {
          "prop_id": 103,
          "description": "LeBron James Over 24.5 Points",
          "market": "Points",
          "value": 24.5,
          "price": -125,
          "affiliate_name": "BetMGM",
          "affiliate_key": "betmgm",
          "updated_at": "2025-01-15T19:41:00Z"
        },
        {
          "prop_id": 104,
          "description": "",
          "market": "Points",
          "value": 0,
          "price": 0,
          "affiliate_key": "bad"
        }
      ]
    }
  ]
}`
