// Package therundown implements the PropAdapter interface for TheRundown,
// the legacy aggregator. Events carry flat player_props arrays whose
// entries describe the bet in free text ("LeBron James Over 25.5 Points");
// the side has to be inferred from the description and over/under entries
// are paired by shared (bookmaker, line).
package therundown

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
	defaultBaseURL = "https://api.therundown.io"
	nbaSportID     = 4
	timeout        = 15 * time.Second

	maxRetries     = 2
	retryBaseDelay = 2 * time.Second
)

// marketLabels translates internal prop market keys to the stat label this
// provider embeds in descriptions
var marketLabels = map[string]string{
	"player_points":   "points",
	"player_rebounds": "rebounds",
	"player_assists":  "assists",
	"player_threes":   "three pointers",
}

// Client implements the PropAdapter interface for TheRundown
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	debug      bool
}

var _ contracts.PropAdapter = (*Client)(nil)

// NewClient creates a new TheRundown client
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
	return models.ProvenanceTheRundown
}

// SupportsMarket checks if this adapter supports a given prop market
func (c *Client) SupportsMarket(market string) bool {
	_, ok := marketLabels[market]
	return ok
}

// FetchCandidates pulls today's NBA event feed and scans each event's prop
// array for descriptions naming the queried player
func (c *Client) FetchCandidates(ctx context.Context, query models.PropQuery) ([]models.CandidateOutcome, error) {
	market := query.Market
	if market == "" {
		market = basketball_nba.DefaultPropMarket
	}
	label, ok := marketLabels[market]
	if !ok {
		return nil, nil
	}

	events, err := c.fetchEvents(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []models.CandidateOutcome
	for _, evt := range events {
		if query.Game != nil && !eventMatchesContext(evt, query.Game) {
			continue
		}
		candidates = append(candidates, c.scanProps(evt.PlayerProps, label, query.PlayerName)...)
		if len(candidates) > 0 {
			break
		}
	}

	return candidates, nil
}

// fetchEvents retrieves today's event feed with props attached
func (c *Client) fetchEvents(ctx context.Context) ([]rdEvent, error) {
	date := time.Now().UTC().Format("2006-01-02")
	endpoint := fmt.Sprintf("%s/v2/sports/%d/events/%s", c.baseURL, nbaSportID, date)

	params := url.Values{}
	params.Set("include", "player_props")

	body, err := c.doRequestWithRetry(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp rdResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &models.ProviderError{
			Provider: models.ProvenanceTheRundown,
			Err:      fmt.Errorf("parse events response: %w", err),
		}
	}

	return resp.Events, nil
}

// scanProps walks an event's free-text prop entries, inferring the side
// from the description and pairing over/under by (bookmaker, line)
func (c *Client) scanProps(props []json.RawMessage, label, playerName string) []models.CandidateOutcome {
	type pairKey struct {
		book string
		line float64
	}
	pending := make(map[pairKey]*models.CandidateOutcome)
	var order []pairKey

	for _, raw := range props {
		var prop rdProp
		if err := json.Unmarshal(raw, &prop); err != nil {
			if c.debug {
				log.Printf("[therundown] skipping malformed prop entry: %v", err)
			}
			continue
		}
		if prop.Description == "" || prop.Value <= 0 {
			if c.debug {
				log.Printf("[therundown] skipping incomplete prop %d", prop.PropID)
			}
			continue
		}

		desc := strings.ToLower(prop.Description)
		if !strings.Contains(desc, strings.ToLower(label)) && !strings.EqualFold(prop.Market, label) {
			continue
		}
		if !normalize.MatchesQuery(playerName, prop.Description) {
			continue
		}

		side := ""
		switch {
		case strings.Contains(desc, " over "):
			side = "over"
		case strings.Contains(desc, " under "):
			side = "under"
		default:
			if c.debug {
				log.Printf("[therundown] cannot infer side from %q", prop.Description)
			}
			continue
		}

		book := prop.AffiliateKey
		if book == "" {
			book = strings.ToLower(prop.AffiliateName)
		}

		key := pairKey{book: book, line: prop.Value}
		cand, ok := pending[key]
		if !ok {
			cand = &models.CandidateOutcome{
				BookmakerKey:   book,
				BookmakerTitle: prop.AffiliateName,
				Line:           prop.Value,
				MatchedName:    prop.Description,
				LastUpdate:     prop.UpdatedAt,
				Provenance:     models.ProvenanceTheRundown,
			}
			pending[key] = cand
			order = append(order, key)
		}

		if side == "over" {
			cand.OverPrice = prop.Price
		} else {
			cand.UnderPrice = prop.Price
		}
	}

	candidates := make([]models.CandidateOutcome, 0, len(order))
	for _, key := range order {
		cand := pending[key]
		// Unpaired side keeps the standard vig price
		if cand.OverPrice == 0 {
			cand.OverPrice = models.DefaultPrice
		}
		if cand.UnderPrice == 0 {
			cand.UnderPrice = models.DefaultPrice
		}
		candidates = append(candidates, *cand)
	}

	return candidates
}

func eventMatchesContext(evt rdEvent, game *models.GameContext) bool {
	home, away := "", ""
	for _, team := range evt.TeamsNormalized {
		if team.IsHome {
			home = firstNonEmpty(team.Abbreviation, team.Name)
		} else {
			away = firstNonEmpty(team.Abbreviation, team.Name)
		}
	}
	return basketball_nba.EventMatchesContext(home, away, game.TeamAbbrev, game.OpponentAbbrev)
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
		return nil, &models.ProviderError{Provider: models.ProvenanceTheRundown, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("X-TheRundown-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.ProviderError{Provider: models.ProvenanceTheRundown, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.ProviderError{Provider: models.ProvenanceTheRundown, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewProviderError(models.ProvenanceTheRundown, resp.StatusCode, string(body))
	}

	return body, nil
}

// API response structures matching TheRundown JSON format

type rdResponse struct {
	Events []rdEvent `json:"events"`
}

type rdEvent struct {
	EventID         string   `json:"event_id"`
	TeamsNormalized []rdTeam `json:"teams_normalized"`
	// Prop entries decode per-element so one malformed entry cannot abort
	// the whole scan
	PlayerProps []json.RawMessage `json:"player_props"`
}

type rdTeam struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
	IsHome       bool   `json:"is_home"`
}

type rdProp struct {
	PropID        int     `json:"prop_id"`
	Description   string  `json:"description"`
	Market        string  `json:"market"`
	Value         float64 `json:"value"`
	Price         int     `json:"price"`
	AffiliateName string  `json:"affiliate_name"`
	AffiliateKey  string  `json:"affiliate_key"`
	UpdatedAt     string  `json:"updated_at"`
}
