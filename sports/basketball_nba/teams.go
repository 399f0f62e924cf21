package basketball_nba

import (
	"github.com/XavierBriggs/courtline/pkg/normalize"
)

// teamVariants maps each canonical NBA abbreviation to every rendering seen
// across providers. Aggregators disagree on short forms ("GS" vs "GSW",
// "NY" vs "NYK") and mix city, nickname, and full-name spellings, so event
// matching has to go through this table rather than comparing raw strings.
var teamVariants = map[string][]string{
	"ATL": {"ATL", "Atlanta", "Hawks", "Atlanta Hawks"},
	"BOS": {"BOS", "Boston", "Celtics", "Boston Celtics"},
	"BKN": {"BKN", "BRK", "Brooklyn", "Nets", "Brooklyn Nets"},
	"CHA": {"CHA", "CHO", "Charlotte", "Hornets", "Charlotte Hornets"},
	"CHI": {"CHI", "Chicago", "Bulls", "Chicago Bulls"},
	"CLE": {"CLE", "Cleveland", "Cavaliers", "Cavs", "Cleveland Cavaliers"},
	"DAL": {"DAL", "Dallas", "Mavericks", "Mavs", "Dallas Mavericks"},
	"DEN": {"DEN", "Denver", "Nuggets", "Denver Nuggets"},
	"DET": {"DET", "Detroit", "Pistons", "Detroit Pistons"},
	"GSW": {"GSW", "GS", "Golden State", "Warriors", "Golden State Warriors"},
	"HOU": {"HOU", "Houston", "Rockets", "Houston Rockets"},
	"IND": {"IND", "Indiana", "Pacers", "Indiana Pacers"},
	"LAC": {"LAC", "LA Clippers", "Clippers", "Los Angeles Clippers"},
	"LAL": {"LAL", "LA Lakers", "Lakers", "Los Angeles Lakers"},
	"MEM": {"MEM", "Memphis", "Grizzlies", "Memphis Grizzlies"},
	"MIA": {"MIA", "Miami", "Heat", "Miami Heat"},
	"MIL": {"MIL", "Milwaukee", "Bucks", "Milwaukee Bucks"},
	"MIN": {"MIN", "Minnesota", "Timberwolves", "Wolves", "Minnesota Timberwolves"},
	"NOP": {"NOP", "NO", "New Orleans", "Pelicans", "New Orleans Pelicans"},
	"NYK": {"NYK", "NY", "New York", "Knicks", "New York Knicks"},
	"OKC": {"OKC", "Oklahoma City", "Thunder", "Oklahoma City Thunder"},
	"ORL": {"ORL", "Orlando", "Magic", "Orlando Magic"},
	"PHI": {"PHI", "PHL", "Philadelphia", "76ers", "Sixers", "Philadelphia 76ers"},
	"PHX": {"PHX", "PHO", "Phoenix", "Suns", "Phoenix Suns"},
	"POR": {"POR", "Portland", "Trail Blazers", "Blazers", "Portland Trail Blazers"},
	"SAC": {"SAC", "Sacramento", "Kings", "Sacramento Kings"},
	"SAS": {"SAS", "SA", "San Antonio", "Spurs", "San Antonio Spurs"},
	"TOR": {"TOR", "Toronto", "Raptors", "Toronto Raptors"},
	"UTA": {"UTA", "UTAH", "Utah", "Jazz", "Utah Jazz"},
	"WAS": {"WAS", "WSH", "Washington", "Wizards", "Washington Wizards"},
}

// CanonicalAbbrev resolves any known team rendering to its canonical
// abbreviation. Returns "" when the name is not recognized.
func CanonicalAbbrev(name string) string {
	n := normalize.Normalize(name)
	if n == "" {
		return ""
	}
	for abbrev, variants := range teamVariants {
		for _, v := range variants {
			if normalize.Normalize(v) == n {
				return abbrev
			}
		}
	}
	return ""
}

// TeamMatches reports whether two team renderings refer to the same team.
// Unrecognized names fall back to normalized string equality so odd vendor
// spellings still have a chance to line up.
func TeamMatches(a, b string) bool {
	ca, cb := CanonicalAbbrev(a), CanonicalAbbrev(b)
	if ca != "" && cb != "" {
		return ca == cb
	}
	na, nb := normalize.Normalize(a), normalize.Normalize(b)
	return na != "" && na == nb
}

// EventMatchesContext reports whether an event's home/away teams match the
// requested game context. An empty opponent matches any opposing team.
func EventMatchesContext(homeTeam, awayTeam, teamAbbrev, opponentAbbrev string) bool {
	teamInGame := TeamMatches(homeTeam, teamAbbrev) || TeamMatches(awayTeam, teamAbbrev)
	if !teamInGame {
		return false
	}
	if opponentAbbrev == "" {
		return true
	}
	return TeamMatches(homeTeam, opponentAbbrev) || TeamMatches(awayTeam, opponentAbbrev)
}
