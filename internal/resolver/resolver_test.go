package resolver_test

import (
	"errors"
	"math"
	"testing"

	"github.com/XavierBriggs/courtline/internal/resolver"
	"github.com/XavierBriggs/courtline/pkg/models"
)

func candidate(book string, line float64) models.CandidateOutcome {
	return models.CandidateOutcome{
		BookmakerKey: book,
		Line:         line,
		OverPrice:    -112,
		UnderPrice:   -108,
		Provenance:   models.ProvenanceTheOddsAPI,
	}
}

func TestResolveEmptyInput(t *testing.T) {
	r := resolver.New(nil)

	_, err := r.Resolve("Unknown Player", nil)
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveDiscardsInvalidLines(t *testing.T) {
	r := resolver.New(nil)

	candidates := []models.CandidateOutcome{
		candidate("draftkings", 0),
		candidate("fanduel", -3.5),
		candidate("betmgm", math.NaN()),
	}

	_, err := r.Resolve("LeBron James", candidates)
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Fatalf("expected ErrNotFound when no candidate has a valid line, got %v", err)
	}
}

func TestResolveDedupAndPreference(t *testing.T) {
	prefs := models.BookmakerPreference{"draftkings", "fanduel"}
	r := resolver.New(prefs)

	candidates := []models.CandidateOutcome{
		candidate("fanduel", 24.5),
		candidate("draftkings", 24.5),
		candidate("draftkings", 24.5), // duplicate (bookmaker, line)
	}

	line, err := r.Resolve("Jayson Tatum", candidates)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if line.Bookmaker != "draftkings" {
		t.Errorf("expected draftkings to win preference ordering, got %s", line.Bookmaker)
	}
	if line.Line != 24.5 {
		t.Errorf("expected line 24.5, got %g", line.Line)
	}
	if len(line.Alternates) != 2 {
		t.Fatalf("expected 2 alternates after dedup, got %d", len(line.Alternates))
	}
	if line.Alternates[0].Bookmaker != "draftkings" || line.Alternates[1].Bookmaker != "fanduel" {
		t.Errorf("alternates out of preference order: %+v", line.Alternates)
	}
}

func TestResolveAlternatesOrdering(t *testing.T) {
	prefs := models.BookmakerPreference{"draftkings", "fanduel", "betmgm"}
	r := resolver.New(prefs)

	candidates := []models.CandidateOutcome{
		candidate("pinnacle", 25.5), // unlisted, must sort last
		candidate("betmgm", 26.0),
		candidate("fanduel", 25.5),
		candidate("draftkings", 26.5),
	}

	line, err := r.Resolve("Anthony Edwards", candidates)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	for i := 1; i < len(line.Alternates); i++ {
		prev := prefs.Rank(line.Alternates[i-1].Bookmaker)
		cur := prefs.Rank(line.Alternates[i].Bookmaker)
		if prev > cur {
			t.Errorf("alternate %d (%s) ranked after %d (%s)",
				i-1, line.Alternates[i-1].Bookmaker, i, line.Alternates[i].Bookmaker)
		}
	}

	if line.Alternates[len(line.Alternates)-1].Bookmaker != "pinnacle" {
		t.Error("unlisted bookmaker should sort after all listed ones")
	}
}

func TestResolveStableForUnlistedTies(t *testing.T) {
	r := resolver.New(models.BookmakerPreference{"draftkings"})

	candidates := []models.CandidateOutcome{
		candidate("bookA", 10.5),
		candidate("bookB", 11.5),
	}

	line, err := r.Resolve("Derrick White", candidates)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	// Both unlisted: first-seen order must be preserved
	if line.Bookmaker != "bookA" {
		t.Errorf("expected stable sort to keep bookA first, got %s", line.Bookmaker)
	}
}

func TestResolveDefaultPrices(t *testing.T) {
	r := resolver.New(nil)

	candidates := []models.CandidateOutcome{
		{BookmakerKey: "draftkings", Line: 7.5, Provenance: models.ProvenanceTheRundown},
	}

	line, err := r.Resolve("Rudy Gobert", candidates)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if line.OverPrice != models.DefaultPrice || line.UnderPrice != models.DefaultPrice {
		t.Errorf("unpriced sides should default to %d, got over=%d under=%d",
			models.DefaultPrice, line.OverPrice, line.UnderPrice)
	}
	if line.Provenance != models.ProvenanceTheRundown {
		t.Errorf("provenance not carried through: %s", line.Provenance)
	}
}

func TestResolveLastUpdateFallback(t *testing.T) {
	r := resolver.New(nil)

	candidates := []models.CandidateOutcome{
		{BookmakerKey: "fanduel", Line: 30.5, LastUpdate: "2025-01-15T19:30:00Z"},
	}

	line, err := r.Resolve("Nikola Jokic", candidates)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if line.LastUpdate.IsZero() {
		t.Error("LastUpdate should never be zero")
	}
	if got := line.LastUpdate.Format("2006-01-02"); got != "2025-01-15" {
		t.Errorf("expected parsed provider timestamp, got %s", got)
	}
}
