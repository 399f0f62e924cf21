// Package sportsgameodds implements the PropAdapter interface for the
// SportsGameOdds API. The provider returns every market for an event in a
// single response: odds are keyed by a composite string ID, carry an
// opposingOddID pointer to the other side, and hold per-book prices in a
// bookmaker-keyed object.
package sportsgameodds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/XavierBriggs/courtline/pkg/contracts"
	"github.com/XavierBriggs/courtline/pkg/models"
	"github.com/XavierBriggs/courtline/pkg/normalize"
	"github.com/XavierBriggs/courtline/sports/basketball_nba"
)

const (
	defaultBaseURL = "https://api.sportsgameodds.com"
	leagueID       = "NBA"
	timeout        = 15 * time.Second

	maxRetries     = 2
	retryBaseDelay = 2 * time.Second
)

// statIDByMarket translates internal prop market keys to the provider's
// stat identifiers. Markets absent here are not served by this adapter.
var statIDByMarket = map[string]string{
	"player_points":   "points",
	"player_rebounds": "rebounds",
	"player_assists":  "assists",
	"player_threes":   "threePointersMade",
	"player_steals":   "steals",
	"player_blocks":   "blocks",
}

// Client implements the PropAdapter interface for SportsGameOdds
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	debug      bool
}

var _ contracts.PropAdapter = (*Client)(nil)

// NewClient creates a new SportsGameOdds client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetBaseURL overrides the provider base URL (config override, tests)
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimSuffix(u, "/")
}

// SetDebug enables debug logging of skipped malformed entries
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Provenance identifies this adapter on resolved lines
func (c *Client) Provenance() models.Provenance {
	return models.ProvenanceSportsGameOdds
}

// SupportsMarket checks if this adapter supports a given prop market
func (c *Client) SupportsMarket(market string) bool {
	_, ok := statIDByMarket[market]
	return ok
}

// FetchCandidates pulls the NBA event feed and scans each event's odds map
// for entries naming the queried player in the requested market
func (c *Client) FetchCandidates(ctx context.Context, query models.PropQuery) ([]models.CandidateOutcome, error) {
	market := query.Market
	if market == "" {
		market = basketball_nba.DefaultPropMarket
	}
	statID, ok := statIDByMarket[market]
	if !ok {
		return nil, nil
	}

	events, err := c.fetchEvents(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []models.CandidateOutcome
	for _, evt := range events {
		if query.Game != nil && !basketball_nba.EventMatchesContext(
			evt.Teams.Home.Names.Long, evt.Teams.Away.Names.Long,
			query.Game.TeamAbbrev, query.Game.OpponentAbbrev) {
			continue
		}
		candidates = append(candidates, c.scanEvent(evt, statID, query.PlayerName)...)
		if len(candidates) > 0 {
			break
		}
	}

	return candidates, nil
}

// fetchEvents retrieves events with odds attached
func (c *Client) fetchEvents(ctx context.Context) ([]sgoEvent, error) {
	endpoint := fmt.Sprintf("%s/v2/events", c.baseURL)

	params := url.Values{}
	params.Set("leagueID", leagueID)
	params.Set("oddsAvailable", "true")

	body, err := c.doRequestWithRetry(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp sgoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &models.ProviderError{
			Provider: models.ProvenanceSportsGameOdds,
			Err:      fmt.Errorf("parse events response: %w", err),
		}
	}

	return resp.Data, nil
}

// scanEvent walks one event's odds map. Only "over" entries are scanned
// directly; the under price comes from the entry named by opposingOddID,
// defaulting when the bookmaker is missing on the opposite side.
func (c *Client) scanEvent(evt sgoEvent, statID, playerName string) []models.CandidateOutcome {
	// First pass: decode every entry defensively
	odds := make(map[string]sgoOdd, len(evt.Odds))
	for id, raw := range evt.Odds {
		var odd sgoOdd
		if err := json.Unmarshal(raw, &odd); err != nil {
			if c.debug {
				log.Printf("[sportsgameodds] skipping malformed odd %s: %v", id, err)
			}
			continue
		}
		odds[id] = odd
	}

	var candidates []models.CandidateOutcome
	for _, odd := range odds {
		if odd.StatID != statID || !strings.EqualFold(odd.SideID, "over") {
			continue
		}
		if !normalize.MatchesQuery(playerName, playerNameFromID(odd.PlayerID)) {
			continue
		}

		opposing, hasOpposing := odds[odd.OpposingOddID]

		for book, bookOdd := range odd.ByBookmaker {
			line, err := strconv.ParseFloat(firstNonEmpty(bookOdd.OverUnder, odd.BookOverUnder), 64)
			if err != nil {
				if c.debug {
					log.Printf("[sportsgameodds] skipping %s odd with bad line %q", book, bookOdd.OverUnder)
				}
				continue
			}

			overPrice := parsePrice(bookOdd.Odds)
			underPrice := models.DefaultPrice
			if hasOpposing {
				if opp, ok := opposing.ByBookmaker[book]; ok {
					if p := parsePrice(opp.Odds); p != 0 {
						underPrice = p
					}
				}
			}
			if overPrice == 0 {
				overPrice = models.DefaultPrice
			}

			candidates = append(candidates, models.CandidateOutcome{
				BookmakerKey:   book,
				BookmakerTitle: book,
				Line:           line,
				OverPrice:      overPrice,
				UnderPrice:     underPrice,
				MatchedName:    playerNameFromID(odd.PlayerID),
				LastUpdate:     bookOdd.LastUpdatedAt,
				Provenance:     models.ProvenanceSportsGameOdds,
			})
		}
	}

	return candidates
}

// playerNameFromID converts the provider's composite player ID
// ("LEBRON_JAMES_1_NBA") back to a display name by dropping the trailing
// disambiguator and league tokens
func playerNameFromID(id string) string {
	parts := strings.Split(id, "_")
	for len(parts) > 0 {
		last := parts[len(parts)-1]
		if last == leagueID || isNumeric(last) {
			parts = parts[:len(parts)-1]
			continue
		}
		break
	}
	return strings.Join(parts, " ")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

// parsePrice parses an American odds string like "-118" or "+102";
// returns 0 when unparseable
func parsePrice(s string) int {
	s = strings.TrimSpace(strings.TrimPrefix(s, "+"))
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// doRequestWithRetry performs an HTTP GET, retrying only rate-limit
// responses
func (c *Client) doRequestWithRetry(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := retryBaseDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, err := c.doRequest(ctx, fullURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		provErr, ok := err.(*models.ProviderError)
		if !ok || (provErr.StatusCode != http.StatusForbidden && provErr.StatusCode != http.StatusTooManyRequests) {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &models.ProviderError{Provider: models.ProvenanceSportsGameOdds, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.ProviderError{Provider: models.ProvenanceSportsGameOdds, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.ProviderError{Provider: models.ProvenanceSportsGameOdds, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewProviderError(models.ProvenanceSportsGameOdds, resp.StatusCode, string(body))
	}

	return body, nil
}

// API response structures matching the SportsGameOdds JSON format

type sgoResponse struct {
	Success bool       `json:"success"`
	Data    []sgoEvent `json:"data"`
}

type sgoEvent struct {
	EventID string `json:"eventID"`
	Teams   struct {
		Home sgoTeam `json:"home"`
		Away sgoTeam `json:"away"`
	} `json:"teams"`
	// Odds entries decode per-element so one malformed entry cannot abort
	// the whole scan
	Odds map[string]json.RawMessage `json:"odds"`
}

type sgoTeam struct {
	Names struct {
		Short string `json:"short"`
		Long  string `json:"long"`
	} `json:"names"`
}

type sgoOdd struct {
	OddID         string                `json:"oddID"`
	OpposingOddID string                `json:"opposingOddID"`
	MarketName    string                `json:"marketName"`
	StatID        string                `json:"statID"`
	PlayerID      string                `json:"playerID"`
	SideID        string                `json:"sideID"`
	BookOverUnder string                `json:"bookOverUnder"`
	ByBookmaker   map[string]sgoBookOdd `json:"byBookmaker"`
}

type sgoBookOdd struct {
	Odds          string `json:"odds"`
	OverUnder     string `json:"overUnder"`
	LastUpdatedAt string `json:"lastUpdatedAt"`
}
