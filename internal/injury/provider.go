package injury

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
)

const (
	defaultInjuriesBaseURL = "https://api.sportsdata.io/v3/nba"
	injuriesTimeout        = 15 * time.Second

	// probeDays is how many daily report dates are raced per lookup. The
	// provider publishes reports on an unreliable schedule, so we probe
	// today and the two prior days concurrently and take the first
	// successful non-empty result.
	probeDays = 3
)

// Client fetches team injury reports from the injuries provider
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	debug      bool
}

var _ contracts.InjurySource = (*Client)(nil)

// NewClient creates a new injuries provider client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultInjuriesBaseURL,
		httpClient: &http.Client{
			Timeout: injuriesTimeout,
		},
	}
}

// SetDebug enables debug logging for skipped report entries
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SetBaseURL overrides the provider base URL (config override, tests)
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimSuffix(u, "/")
}

// injuryEntry matches the provider's daily injury report shape. Fields are
// pointers where the provider omits them for healthy players.
type injuryEntry struct {
	Name         string  `json:"Name"`
	Team         string  `json:"Team"`
	Position     string  `json:"Position"`
	InjuryStatus *string `json:"InjuryStatus"`
	InjuryNotes  *string `json:"InjuryNotes"`
	UsageRating  *int    `json:"UsageRating"`
}

// FetchTeamInjuries races daily report probes for the last few dates and
// returns the first successful non-empty report filtered to the given team.
// Losers are cancelled; an all-probes-failed lookup returns the first error.
func (c *Client) FetchTeamInjuries(ctx context.Context, team string) ([]models.InjuryRecord, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type probeResult struct {
		records []models.InjuryRecord
		err     error
	}

	results := make(chan probeResult, probeDays)
	now := time.Now().UTC()

	for i := 0; i < probeDays; i++ {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		go func(date string) {
			records, err := c.fetchInjuriesByDate(ctx, date, team)
			select {
			case results <- probeResult{records: records, err: err}:
			case <-ctx.Done():
			}
		}(date)
	}

	var firstErr error
	for i := 0; i < probeDays; i++ {
		select {
		case res := <-results:
			if res.err == nil && len(res.records) > 0 {
				return res.records, nil
			}
			if res.err != nil && firstErr == nil {
				firstErr = res.err
			}
		case <-ctx.Done():
			if firstErr == nil {
				firstErr = ctx.Err()
			}
			return nil, firstErr
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	// Every probe succeeded but reported nothing for this team
	return nil, nil
}

// fetchInjuriesByDate fetches one date's injury report and filters to team
func (c *Client) fetchInjuriesByDate(ctx context.Context, date, team string) ([]models.InjuryRecord, error) {
	endpoint := fmt.Sprintf("%s/stats/json/InjuredPlayers/%s", c.baseURL, date)

	params := url.Values{}
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create injuries request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch injuries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, models.NewProviderError("injuries", resp.StatusCode, string(body))
	}

	var entries []injuryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode injuries response: %w", err)
	}

	records := make([]models.InjuryRecord, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			if c.debug {
				log.Printf("[injuries] skipping report entry with no name (team=%s)", e.Team)
			}
			continue
		}
		if team != "" && !strings.EqualFold(e.Team, team) {
			continue
		}
		records = append(records, models.InjuryRecord{
			PlayerName:  e.Name,
			Team:        strings.ToUpper(e.Team),
			Status:      mapStatus(e.InjuryStatus),
			ImpactScore: clampImpact(e.UsageRating),
		})
	}

	return records, nil
}

// mapStatus converts the provider's free-text status tags to the
// structured enum. Unknown tags conservatively map to questionable.
func mapStatus(raw *string) models.InjuryStatus {
	if raw == nil {
		return models.StatusActive
	}
	switch strings.ToLower(strings.TrimSpace(*raw)) {
	case "", "active", "healthy":
		return models.StatusActive
	case "probable":
		return models.StatusProbable
	case "questionable", "day-to-day", "day to day", "gtd":
		return models.StatusQuestionable
	case "out", "doubtful", "injured", "suspended":
		return models.StatusOut
	default:
		return models.StatusQuestionable
	}
}

func clampImpact(raw *int) int {
	if raw == nil {
		return 0
	}
	v := *raw
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
