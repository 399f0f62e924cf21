// Package service orchestrates prop resolution across the registered
// provider adapters and folds in the injury signal.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/XavierBriggs/courtline/internal/history"
	"github.com/XavierBriggs/courtline/internal/injury"
	"github.com/XavierBriggs/courtline/internal/registry"
	"github.com/XavierBriggs/courtline/internal/resolver"
	"github.com/XavierBriggs/courtline/pkg/contracts"
	"github.com/XavierBriggs/courtline/pkg/models"
	"github.com/XavierBriggs/courtline/sports/basketball_nba"
)

// PropService resolves player prop lines with provider fallback
type PropService struct {
	adapters *registry.AdapterRegistry
	resolver *resolver.Resolver
	injuries contracts.InjurySource
	history  *history.Writer
	debug    bool
}

// New creates a PropService. The history writer and injury source may be
// nil; resolution works without them.
func New(adapters *registry.AdapterRegistry, res *resolver.Resolver, injuries contracts.InjurySource, hist *history.Writer) *PropService {
	return &PropService{
		adapters: adapters,
		resolver: res,
		injuries: injuries,
		history:  hist,
	}
}

// SetDebug enables per-adapter resolution logging
func (s *PropService) SetDebug(debug bool) {
	s.debug = debug
}

// Providers returns the configured adapter provenances in fallback order
func (s *PropService) Providers() []models.Provenance {
	return s.adapters.Names()
}

// ResolveProp queries adapters in registration order and returns the first
// resolvable line. Later adapters are only consulted when earlier ones
// produce no usable candidates. Provider errors surface only when every
// adapter failed without yielding a single candidate; otherwise a quiet
// miss is ErrNotFound.
func (s *PropService) ResolveProp(ctx context.Context, query models.PropQuery) (*models.ResolvedLine, error) {
	market := query.Market
	if market == "" {
		market = basketball_nba.DefaultPropMarket
		query.Market = market
	}
	if !basketball_nba.IsPropMarket(market) {
		return nil, fmt.Errorf("unknown prop market %q", market)
	}

	var errs []error
	sawCandidates := false

	for _, adapter := range s.adapters.All() {
		if !adapter.SupportsMarket(market) {
			continue
		}

		candidates, err := adapter.FetchCandidates(ctx, query)
		if err != nil {
			if s.debug {
				log.Printf("[service] %s fetch failed: %v", adapter.Provenance(), err)
			}
			errs = append(errs, err)
			continue
		}
		if len(candidates) == 0 {
			continue
		}
		sawCandidates = true

		resolved, err := s.resolver.Resolve(query.PlayerName, candidates)
		if err != nil {
			if errors.Is(err, resolver.ErrNotFound) {
				continue
			}
			return nil, err
		}

		if s.history != nil {
			if err := s.history.Record(ctx, market, resolved); err != nil {
				log.Printf("[service] snapshot record failed: %v", err)
			}
		}

		return resolved, nil
	}

	if !sawCandidates && len(errs) > 0 {
		return nil, fmt.Errorf("all providers failed: %w", errors.Join(errs...))
	}

	return nil, fmt.Errorf("%w: %s", resolver.ErrNotFound, query.PlayerName)
}

// TeamInjuries fetches the current injury report for a team. An error here
// is a real failure; callers that only need the adjustment signal should
// use AdjustedProjection, which degrades instead.
func (s *PropService) TeamInjuries(ctx context.Context, team string) (models.InjuryReport, error) {
	canonical := basketball_nba.CanonicalAbbrev(team)
	if canonical == "" {
		return models.InjuryReport{}, fmt.Errorf("unknown team %q", team)
	}
	if s.injuries == nil {
		return models.InjuryReport{Team: canonical}, nil
	}

	records, err := s.injuries.FetchTeamInjuries(ctx, canonical)
	if err != nil {
		return models.InjuryReport{}, fmt.Errorf("fetch injuries for %s: %w", canonical, err)
	}

	return models.InjuryReport{
		Team:        canonical,
		HasInjuries: len(records) > 0,
		Injuries:    records,
	}, nil
}

// Projection is an adjusted point projection with its inputs
type Projection struct {
	Player     string                `json:"player"`
	Team       string                `json:"team"`
	Base       float64               `json:"base_projection"`
	Adjustment float64               `json:"adjustment"`
	Adjusted   float64               `json:"adjusted_projection"`
	Injuries   []models.InjuryRecord `json:"injuries,omitempty"`
}

// AdjustedProjection applies the injury adjustment to a base projection.
// Injury lookup failures degrade to a neutral adjustment rather than
// failing the projection.
func (s *PropService) AdjustedProjection(ctx context.Context, player, team string, base float64) Projection {
	var records []models.InjuryRecord

	canonical := basketball_nba.CanonicalAbbrev(team)
	if canonical == "" {
		canonical = team
	}

	if s.injuries != nil {
		var err error
		records, err = s.injuries.FetchTeamInjuries(ctx, canonical)
		if err != nil {
			log.Printf("[service] injury lookup failed for %s, using neutral adjustment: %v", canonical, err)
			records = nil
		}
	}

	adj := injury.ComputeAdjustment(player, canonical, records)

	return Projection{
		Player:     player,
		Team:       canonical,
		Base:       base,
		Adjustment: adj,
		Adjusted:   base * adj,
		Injuries:   records,
	}
}
