package service

import (
	"context"
	"errors"
	"testing"

	"github.com/XavierBriggs/courtline/internal/registry"
	"github.com/XavierBriggs/courtline/internal/resolver"
	"github.com/XavierBriggs/courtline/pkg/models"
	"github.com/XavierBriggs/courtline/pkg/testutil"
)

type fakeAdapter struct {
	name       models.Provenance
	candidates []models.CandidateOutcome
	err        error
	calls      int
}

func (f *fakeAdapter) FetchCandidates(ctx context.Context, query models.PropQuery) ([]models.CandidateOutcome, error) {
	f.calls++
	return f.candidates, f.err
}

func (f *fakeAdapter) Provenance() models.Provenance { return f.name }

func (f *fakeAdapter) SupportsMarket(market string) bool { return true }

type fakeInjurySource struct {
	records []models.InjuryRecord
	err     error
}

func (f *fakeInjurySource) FetchTeamInjuries(ctx context.Context, team string) ([]models.InjuryRecord, error) {
	return f.records, f.err
}

func newService(t *testing.T, injuries *fakeInjurySource, adapters ...*fakeAdapter) *PropService {
	t.Helper()
	reg := registry.NewAdapterRegistry()
	for _, a := range adapters {
		if err := reg.Register(a); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}
	if injuries == nil {
		return New(reg, resolver.New(nil), nil, nil)
	}
	return New(reg, resolver.New(nil), injuries, nil)
}

func TestResolvePropFirstAdapterWins(t *testing.T) {
	primary := &fakeAdapter{
		name: models.ProvenanceTheOddsAPI,
		candidates: []models.CandidateOutcome{
			testutil.NewTestCandidate("draftkings", 25.5, -115, -105),
		},
	}
	secondary := &fakeAdapter{
		name: models.ProvenanceSportsGameOdds,
		candidates: []models.CandidateOutcome{
			testutil.NewTestCandidate("fanduel", 26.5, -110, -110),
		},
	}

	svc := newService(t, nil, primary, secondary)

	resolved, err := svc.ResolveProp(context.Background(), models.PropQuery{
		PlayerName: "LeBron James",
		Market:     "player_points",
	})
	if err != nil {
		t.Fatalf("ResolveProp failed: %v", err)
	}

	if resolved.Bookmaker != "draftkings" || resolved.Line != 25.5 {
		t.Errorf("expected primary adapter's line, got %+v", resolved)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary adapter should not be consulted when primary resolves, got %d calls", secondary.calls)
	}
}

func TestResolvePropFallsThroughOnError(t *testing.T) {
	primary := &fakeAdapter{
		name: models.ProvenanceTheOddsAPI,
		err:  models.NewProviderError(models.ProvenanceTheOddsAPI, 500, "boom"),
	}
	secondary := &fakeAdapter{
		name: models.ProvenanceSportsGameOdds,
		candidates: []models.CandidateOutcome{
			testutil.NewTestCandidate("fanduel", 26.5, -110, -110),
		},
	}

	svc := newService(t, nil, primary, secondary)

	resolved, err := svc.ResolveProp(context.Background(), models.PropQuery{
		PlayerName: "LeBron James",
		Market:     "player_points",
	})
	if err != nil {
		t.Fatalf("expected fallback to secondary, got %v", err)
	}
	if resolved.Bookmaker != "fanduel" {
		t.Errorf("expected secondary adapter's line, got %+v", resolved)
	}
}

func TestResolvePropAllProvidersFail(t *testing.T) {
	primary := &fakeAdapter{
		name: models.ProvenanceTheOddsAPI,
		err:  models.NewProviderError(models.ProvenanceTheOddsAPI, 500, "boom"),
	}
	secondary := &fakeAdapter{
		name: models.ProvenanceSportsGameOdds,
		err:  models.NewProviderError(models.ProvenanceSportsGameOdds, 502, "boom"),
	}

	svc := newService(t, nil, primary, secondary)

	_, err := svc.ResolveProp(context.Background(), models.PropQuery{
		PlayerName: "LeBron James",
		Market:     "player_points",
	})
	if err == nil {
		t.Fatal("expected error when every provider fails")
	}
	if errors.Is(err, resolver.ErrNotFound) {
		t.Error("total provider failure should not be reported as not found")
	}
	var provErr *models.ProviderError
	if !errors.As(err, &provErr) {
		t.Errorf("expected a wrapped provider error, got %v", err)
	}
}

func TestResolvePropNotFound(t *testing.T) {
	primary := &fakeAdapter{name: models.ProvenanceTheOddsAPI}
	secondary := &fakeAdapter{name: models.ProvenanceSportsGameOdds}

	svc := newService(t, nil, primary, secondary)

	_, err := svc.ResolveProp(context.Background(), models.PropQuery{
		PlayerName: "Benchwarmer Bob",
		Market:     "player_points",
	})
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolvePropUnknownMarket(t *testing.T) {
	svc := newService(t, nil, &fakeAdapter{name: models.ProvenanceTheOddsAPI})

	_, err := svc.ResolveProp(context.Background(), models.PropQuery{
		PlayerName: "LeBron James",
		Market:     "h2h",
	})
	if err == nil {
		t.Error("expected error for non-prop market")
	}
}

func TestResolvePropDefaultsMarket(t *testing.T) {
	adapter := &fakeAdapter{
		name: models.ProvenanceTheOddsAPI,
		candidates: []models.CandidateOutcome{
			testutil.NewTestCandidate("draftkings", 25.5, -115, -105),
		},
	}
	svc := newService(t, nil, adapter)

	resolved, err := svc.ResolveProp(context.Background(), models.PropQuery{
		PlayerName: "LeBron James",
	})
	if err != nil {
		t.Fatalf("empty market should default, got %v", err)
	}
	if resolved.Line != 25.5 {
		t.Errorf("unexpected line: %g", resolved.Line)
	}
}

func TestTeamInjuries(t *testing.T) {
	src := &fakeInjurySource{
		records: []models.InjuryRecord{
			testutil.NewTestInjury("Anthony Davis", "LAL", models.StatusOut, 95),
		},
	}
	svc := newService(t, src, &fakeAdapter{name: models.ProvenanceTheOddsAPI})

	report, err := svc.TeamInjuries(context.Background(), "Lakers")
	if err != nil {
		t.Fatalf("TeamInjuries failed: %v", err)
	}
	if report.Team != "LAL" {
		t.Errorf("expected canonical team LAL, got %s", report.Team)
	}
	if !report.HasInjuries || len(report.Injuries) != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestTeamInjuriesUnknownTeam(t *testing.T) {
	svc := newService(t, &fakeInjurySource{}, &fakeAdapter{name: models.ProvenanceTheOddsAPI})

	if _, err := svc.TeamInjuries(context.Background(), "Harlem Globetrotters"); err == nil {
		t.Error("expected error for unknown team")
	}
}

func TestAdjustedProjectionDegradesOnInjuryFailure(t *testing.T) {
	src := &fakeInjurySource{err: errors.New("provider down")}
	svc := newService(t, src, &fakeAdapter{name: models.ProvenanceTheOddsAPI})

	proj := svc.AdjustedProjection(context.Background(), "LeBron James", "LAL", 26.0)

	if proj.Adjustment != 1.0 {
		t.Errorf("expected neutral adjustment on injury failure, got %g", proj.Adjustment)
	}
	if proj.Adjusted != 26.0 {
		t.Errorf("expected unchanged projection, got %g", proj.Adjusted)
	}
}

func TestAdjustedProjectionAppliesUplift(t *testing.T) {
	src := &fakeInjurySource{
		records: []models.InjuryRecord{
			testutil.NewTestInjury("Anthony Davis", "LAL", models.StatusOut, 95),
		},
	}
	svc := newService(t, src, &fakeAdapter{name: models.ProvenanceTheOddsAPI})

	proj := svc.AdjustedProjection(context.Background(), "LeBron James", "LAL", 26.0)

	// One 95-impact teammate: 1.08 tier plus the 0.05 top bonus
	if proj.Adjustment != 1.13 {
		t.Errorf("expected adjustment 1.13, got %g", proj.Adjustment)
	}
}
