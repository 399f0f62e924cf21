//go:build integration

package injury

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/courtline/pkg/models"
)

type staticSource struct {
	records []models.InjuryRecord
	calls   int
}

func (s *staticSource) FetchTeamInjuries(ctx context.Context, team string) ([]models.InjuryRecord, error) {
	s.calls++
	return s.records, nil
}

func TestCachedSourceReadThrough(t *testing.T) {
	// Requires Redis running locally
	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})
	defer redisClient.Close()

	ctx := context.Background()
	redisClient.FlushDB(ctx)

	src := &staticSource{records: []models.InjuryRecord{
		{PlayerName: "Anthony Davis", Team: "LAL", Status: models.StatusOut, ImpactScore: 95},
	}}

	cached := NewCachedSource(src, redisClient, 30*time.Second)

	first, err := cached.FetchTeamInjuries(ctx, "LAL")
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	second, err := cached.FetchTeamInjuries(ctx, "LAL")
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if src.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", src.calls)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Errorf("expected 1 record from both paths, got %d and %d", len(first), len(second))
	}
	if second[0].PlayerName != "Anthony Davis" {
		t.Errorf("cache returned wrong record: %+v", second[0])
	}
}
