package theoddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/XavierBriggs/courtline/pkg/contracts"
	"github.com/XavierBriggs/courtline/pkg/models"
	"github.com/XavierBriggs/courtline/pkg/normalize"
	"github.com/XavierBriggs/courtline/sports/basketball_nba"
)

const (
	defaultBaseURL = "https://api.the-odds-api.com"
	apiVersion     = "v4"
	userAgent      = "Courtline/1.0 (Fortuna Prop Resolver)"
	timeout        = 15 * time.Second

	// Rate-limit responses (403/429) are retried up to twice with a
	// backoff of retryBaseDelay times the attempt number. Anything else
	// fails immediately.
	maxRetries     = 2
	retryBaseDelay = 2 * time.Second
)

// Client implements the PropAdapter interface for The Odds API.
// Props require a two-step protocol: list the sport's events, match one to
// the requested game, then fetch per-event odds.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	debug      bool
}

// Ensure Client implements PropAdapter
var _ contracts.PropAdapter = (*Client)(nil)

// NewClient creates a new The Odds API client
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
	return models.ProvenanceTheOddsAPI
}

// SupportsMarket checks if this adapter supports a given prop market
func (c *Client) SupportsMarket(market string) bool {
	return basketball_nba.IsPropMarket(market)
}

// FetchCandidates lists NBA events, narrows them to the requested game when
// context is supplied, then fetches per-event prop odds and scans outcomes
// for the queried player
func (c *Client) FetchCandidates(ctx context.Context, query models.PropQuery) ([]models.CandidateOutcome, error) {
	market := query.Market
	if market == "" {
		market = basketball_nba.DefaultPropMarket
	}

	events, err := c.fetchEvents(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]eventResponse, 0, len(events))
	for _, evt := range events {
		if query.Game != nil && !basketball_nba.EventMatchesContext(
			evt.HomeTeam, evt.AwayTeam, query.Game.TeamAbbrev, query.Game.OpponentAbbrev) {
			continue
		}
		matched = append(matched, evt)
	}

	var candidates []models.CandidateOutcome
	for _, evt := range matched {
		eventCandidates, err := c.fetchEventCandidates(ctx, evt.ID, market, query.PlayerName)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, eventCandidates...)
		if len(candidates) > 0 {
			// A player appears in one game at a time; no need to scan on
			break
		}
	}

	return candidates, nil
}

// fetchEvents retrieves the upcoming NBA event list (step one)
func (c *Client) fetchEvents(ctx context.Context) ([]eventResponse, error) {
	endpoint := fmt.Sprintf("%s/%s/sports/%s/events", c.baseURL, apiVersion, basketball_nba.SportKey)

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("dateFormat", "iso")

	body, err := c.doRequestWithRetry(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var events []eventResponse
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, &models.ProviderError{
			Provider: models.ProvenanceTheOddsAPI,
			Err:      fmt.Errorf("parse events response: %w", err),
		}
	}

	return events, nil
}

// fetchEventCandidates retrieves one event's prop odds (step two) and scans
// its outcomes for the queried player
func (c *Client) fetchEventCandidates(ctx context.Context, eventID, market, playerName string) ([]models.CandidateOutcome, error) {
	endpoint := fmt.Sprintf("%s/%s/sports/%s/events/%s/odds",
		c.baseURL, apiVersion, basketball_nba.SportKey, eventID)

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", "us")
	params.Set("markets", market)
	params.Set("oddsFormat", "american")
	params.Set("dateFormat", "iso")

	body, err := c.doRequestWithRetry(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp eventOddsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &models.ProviderError{
			Provider: models.ProvenanceTheOddsAPI,
			Err:      fmt.Errorf("parse event odds response: %w", err),
		}
	}

	return c.scanBookmakers(resp.Bookmakers, market, playerName), nil
}

// scanBookmakers walks the bookmaker/market/outcome tree, matching outcome
// descriptions against the queried player and pairing over/under entries
// that share a (bookmaker, line)
func (c *Client) scanBookmakers(bookmakers []bookmaker, market, playerName string) []models.CandidateOutcome {
	var candidates []models.CandidateOutcome

	for _, bm := range bookmakers {
		// One pending candidate per line value within this bookmaker
		pending := make(map[float64]*models.CandidateOutcome)
		var order []float64

		for _, mkt := range bm.Markets {
			if mkt.Key != market {
				continue
			}

			for _, raw := range mkt.Outcomes {
				var out outcome
				if err := json.Unmarshal(raw, &out); err != nil {
					if c.debug {
						log.Printf("[theoddsapi] skipping malformed outcome in %s: %v", bm.Key, err)
					}
					continue
				}
				if out.Point == nil || out.Description == "" {
					if c.debug {
						log.Printf("[theoddsapi] skipping incomplete outcome in %s", bm.Key)
					}
					continue
				}
				if !normalize.MatchesQuery(playerName, out.Description) {
					continue
				}

				line := *out.Point
				cand, ok := pending[line]
				if !ok {
					cand = &models.CandidateOutcome{
						BookmakerKey:   bm.Key,
						BookmakerTitle: bm.Title,
						Line:           line,
						MatchedName:    out.Description,
						LastUpdate:     bm.LastUpdate,
						Provenance:     models.ProvenanceTheOddsAPI,
					}
					pending[line] = cand
					order = append(order, line)
				}

				switch strings.ToLower(out.Name) {
				case "over":
					cand.OverPrice = out.Price
				case "under":
					cand.UnderPrice = out.Price
				}
			}
		}

		for _, line := range order {
			cand := pending[line]
			// Unpaired side keeps the standard vig price
			if cand.OverPrice == 0 {
				cand.OverPrice = models.DefaultPrice
			}
			if cand.UnderPrice == 0 {
				cand.UnderPrice = models.DefaultPrice
			}
			candidates = append(candidates, *cand)
		}
	}

	return candidates
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

// doRequest performs a single HTTP request
func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &models.ProviderError{Provider: models.ProvenanceTheOddsAPI, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.ProviderError{Provider: models.ProvenanceTheOddsAPI, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.ProviderError{Provider: models.ProvenanceTheOddsAPI, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewProviderError(models.ProvenanceTheOddsAPI, resp.StatusCode, string(body))
	}

	return body, nil
}

// API response structures matching The Odds API JSON format

type eventResponse struct {
	ID           string `json:"id"`
	SportKey     string `json:"sport_key"`
	CommenceTime string `json:"commence_time"`
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
}

type eventOddsResponse struct {
	ID         string      `json:"id"`
	HomeTeam   string      `json:"home_team"`
	AwayTeam   string      `json:"away_team"`
	Bookmakers []bookmaker `json:"bookmakers"`
}

type bookmaker struct {
	Key        string   `json:"key"`
	Title      string   `json:"title"`
	LastUpdate string   `json:"last_update"`
	Markets    []market `json:"markets"`
}

type market struct {
	Key string `json:"key"`
	// Outcomes decode per-element so one malformed entry cannot abort the
	// whole scan
	Outcomes []json.RawMessage `json:"outcomes"`
}

type outcome struct {
	Name        string   `json:"name"`        // "Over" / "Under"
	Description string   `json:"description"` // player name
	Price       int      `json:"price"`
	Point       *float64 `json:"point,omitempty"`
}
