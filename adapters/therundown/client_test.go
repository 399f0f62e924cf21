package therundown

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/XavierBriggs/courtline/pkg/models"
	"github.com/XavierBriggs/courtline/pkg/testutil"
)

func newFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-TheRundown-Key") == "" {
			t.Error("missing X-TheRundown-Key header")
		}
		fmt.Fprint(w, testutil.TheRundownEventsJSON)
	}))
}

func TestFetchCandidates(t *testing.T) {
	server := newFixtureServer(t)
	defer server.Close()

	client := NewClient("test_key")
	client.SetBaseURL(server.URL)

	candidates, err := client.FetchCandidates(context.Background(), models.PropQuery{
		PlayerName: "LeBron James",
		Market:     "player_points",
		Game:       &models.GameContext{TeamAbbrev: "LAL", OpponentAbbrev: "GSW"},
	})
	if err != nil {
		t.Fatalf("FetchCandidates failed: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates (dk paired + betmgm unpaired), got %d: %+v", len(candidates), candidates)
	}

	var dk, mgm *models.CandidateOutcome
	for i := range candidates {
		switch candidates[i].BookmakerKey {
		case "draftkings":
			dk = &candidates[i]
		case "betmgm":
			mgm = &candidates[i]
		}
	}
	if dk == nil || mgm == nil {
		t.Fatalf("missing expected bookmakers: %+v", candidates)
	}

	// Over and under descriptions share (draftkings, 25.5) and pair up
	if dk.Line != 25.5 || dk.OverPrice != -120 || dk.UnderPrice != -101 {
		t.Errorf("draftkings candidate mispaired: %+v", *dk)
	}
	// BetMGM only quotes the over side at 24.5
	if mgm.Line != 24.5 || mgm.OverPrice != -125 {
		t.Errorf("betmgm candidate wrong: %+v", *mgm)
	}
	if mgm.UnderPrice != models.DefaultPrice {
		t.Errorf("unpaired under side should default to %d, got %d", models.DefaultPrice, mgm.UnderPrice)
	}
	if dk.Provenance != models.ProvenanceTheRundown {
		t.Errorf("wrong provenance: %s", dk.Provenance)
	}
}

func TestFetchCandidatesSkipsIncompleteProps(t *testing.T) {
	server := newFixtureServer(t)
	defer server.Close()

	client := NewClient("test_key")
	client.SetBaseURL(server.URL)

	// prop_id 104 has an empty description and zero value; the scan must
	// survive it and still return the well-formed entries
	candidates, err := client.FetchCandidates(context.Background(), models.PropQuery{
		PlayerName: "LeBron James",
		Market:     "player_points",
	})
	if err != nil {
		t.Fatalf("incomplete prop entry must not fail the scan: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("expected well-formed entries to survive the incomplete one")
	}
}

func TestFetchCandidatesNoMatchingPlayer(t *testing.T) {
	server := newFixtureServer(t)
	defer server.Close()

	client := NewClient("test_key")
	client.SetBaseURL(server.URL)

	candidates, err := client.FetchCandidates(context.Background(), models.PropQuery{
		PlayerName: "Victor Wembanyama",
		Market:     "player_points",
	})
	if err != nil {
		t.Fatalf("FetchCandidates failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates for absent player, got %+v", candidates)
	}
}

func TestFetchCandidatesUnsupportedMarket(t *testing.T) {
	client := NewClient("test_key")

	candidates, err := client.FetchCandidates(context.Background(), models.PropQuery{
		PlayerName: "LeBron James",
		Market:     "player_blocks",
	})
	if err != nil {
		t.Fatalf("unsupported market should be a silent no-op, got %v", err)
	}
	if candidates != nil {
		t.Errorf("expected nil candidates for unsupported market, got %+v", candidates)
	}
}

func TestFetchCandidatesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient("test_key")
	client.SetBaseURL(server.URL)

	_, err := client.FetchCandidates(context.Background(), models.PropQuery{PlayerName: "LeBron James"})
	var provErr *models.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *models.ProviderError, got %v", err)
	}
	if provErr.Provider != models.ProvenanceTheRundown {
		t.Errorf("wrong provider on error: %s", provErr.Provider)
	}
}

func TestSupportsMarket(t *testing.T) {
	client := NewClient("test_key")

	tests := []struct {
		market   string
		expected bool
	}{
		{"player_points", true},
		{"player_threes", true},
		{"player_blocks", false},
		{"h2h", false},
	}

	for _, tt := range tests {
		if got := client.SupportsMarket(tt.market); got != tt.expected {
			t.Errorf("SupportsMarket(%s) = %v, want %v", tt.market, got, tt.expected)
		}
	}
}
