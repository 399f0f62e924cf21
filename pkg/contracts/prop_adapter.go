package contracts

import (
	"context"

	"github.com/XavierBriggs/courtline/pkg/models"
)

// PropAdapter defines the interface for fetching player prop candidates
// from an external odds provider. Each adapter owns exactly one provider's
// response shape and translates it into the uniform CandidateOutcome form.
type PropAdapter interface {
	// FetchCandidates retrieves every outcome matching the queried player.
	// A reachable provider with no listed line returns an empty slice and
	// nil error; transport/auth/shape failures return *models.ProviderError.
	FetchCandidates(ctx context.Context, query models.PropQuery) ([]models.CandidateOutcome, error)

	// Provenance identifies this adapter in resolved lines and diagnostics
	Provenance() models.Provenance

	// SupportsMarket checks if this adapter can serve a given prop market
	SupportsMarket(market string) bool
}

// InjurySource defines the interface for fetching a team's injury report
type InjurySource interface {
	// FetchTeamInjuries returns structured injury records for a team.
	// An empty slice is a normal outcome (clean report).
	FetchTeamInjuries(ctx context.Context, team string) ([]models.InjuryRecord, error)
}
