// Package resolver ranks provider-agnostic prop candidates into a single
// canonical line. Matching against the raw payload happens inside the
// adapters, where the provider shape is still visible; everything here
// applies uniformly regardless of which adapter produced a candidate.
package resolver

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/XavierBriggs/courtline/pkg/models"
)

// ErrNotFound signals that no valid line exists for the requested player.
// This is an expected, frequent outcome: not every player has a published
// prop on every provider. Callers check with errors.Is.
var ErrNotFound = errors.New("no prop line found")

// Resolver selects a canonical line under a fixed bookmaker preference
type Resolver struct {
	prefs models.BookmakerPreference
}

// New creates a Resolver with the given bookmaker preference ordering
func New(prefs models.BookmakerPreference) *Resolver {
	if len(prefs) == 0 {
		prefs = models.DefaultBookmakerPreference()
	}
	return &Resolver{prefs: prefs}
}

// Resolve picks the best line from adapter candidates:
//  1. discard candidates without a positive, finite line
//  2. dedupe repeated (bookmaker, line) pairs, first occurrence wins
//  3. stable-sort by bookmaker preference (unlisted books sort last)
//  4. top candidate becomes the ResolvedLine, the full ranked set becomes
//     the alternate lines
//
// Empty input or nothing surviving step 1 returns ErrNotFound.
func (r *Resolver) Resolve(playerName string, candidates []models.CandidateOutcome) (*models.ResolvedLine, error) {
	valid := make([]models.CandidateOutcome, 0, len(candidates))
	for _, c := range candidates {
		if c.Line <= 0 || math.IsNaN(c.Line) || math.IsInf(c.Line, 0) {
			continue
		}
		valid = append(valid, c)
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, playerName)
	}

	seen := make(map[string]bool, len(valid))
	deduped := valid[:0]
	for _, c := range valid {
		key := fmt.Sprintf("%s|%g", c.BookmakerKey, c.Line)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, c)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return r.prefs.Rank(deduped[i].BookmakerKey) < r.prefs.Rank(deduped[j].BookmakerKey)
	})

	best := deduped[0]

	alternates := make([]models.AlternateLine, 0, len(deduped))
	for _, c := range deduped {
		alternates = append(alternates, models.AlternateLine{
			Bookmaker: c.BookmakerKey,
			Line:      c.Line,
		})
	}

	return &models.ResolvedLine{
		Player:     playerName,
		Line:       best.Line,
		OverPrice:  priceOrDefault(best.OverPrice),
		UnderPrice: priceOrDefault(best.UnderPrice),
		Bookmaker:  best.BookmakerKey,
		LastUpdate: parseLastUpdate(best.LastUpdate),
		Provenance: best.Provenance,
		Alternates: alternates,
	}, nil
}

func priceOrDefault(price int) int {
	if price == 0 {
		return models.DefaultPrice
	}
	return price
}

// parseLastUpdate parses a provider timestamp, falling back to now when the
// provider omitted or mangled it
func parseLastUpdate(raw string) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return time.Now().UTC()
}
