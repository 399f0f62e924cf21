package basketball_nba

// SportKey is the provider-facing identifier for the NBA
const SportKey = "basketball_nba"

// DefaultPropMarket is used when a query does not name a market
const DefaultPropMarket = "player_points"

// PropMarkets returns the list of player prop markets served by resolution
func PropMarkets() []string {
	return []string{
		"player_points",
		"player_rebounds",
		"player_assists",
		"player_threes",
		"player_points_rebounds_assists",
		"player_points_rebounds",
		"player_points_assists",
		"player_rebounds_assists",
		"player_steals",
		"player_blocks",
	}
}

// IsPropMarket returns true if the market key is a supported player prop
func IsPropMarket(marketKey string) bool {
	for _, m := range PropMarkets() {
		if m == marketKey {
			return true
		}
	}
	return false
}
