package injury

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/courtline/pkg/contracts"
	"github.com/XavierBriggs/courtline/pkg/models"
)

// DefaultCacheTTL bounds how stale a cached injury report may get. Reports
// change on a daily cadence; an hour keeps lookups cheap without serving
// yesterday's designations all day.
const DefaultCacheTTL = time.Hour

// CachedSource wraps an InjurySource with a redis read-through cache keyed
// by team abbreviation. Cache writes are last-writer-wins; cache failures
// degrade to a direct provider fetch rather than failing the lookup.
type CachedSource struct {
	source contracts.InjurySource
	redis  *redis.Client
	ttl    time.Duration
}

var _ contracts.InjurySource = (*CachedSource)(nil)

// NewCachedSource creates a read-through cache over an injury source
func NewCachedSource(source contracts.InjurySource, redisClient *redis.Client, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedSource{
		source: source,
		redis:  redisClient,
		ttl:    ttl,
	}
}

// FetchTeamInjuries returns cached records when present, otherwise fetches
// from the underlying source and populates the cache
func (s *CachedSource) FetchTeamInjuries(ctx context.Context, team string) ([]models.InjuryRecord, error) {
	key := s.buildKey(team)

	if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
		var records []models.InjuryRecord
		if jsonErr := json.Unmarshal([]byte(cached), &records); jsonErr == nil {
			return records, nil
		}
		// Cache corruption: fall through to a fresh fetch
	} else if err != redis.Nil {
		log.Printf("[injuries] cache read error for %s: %v", team, err)
	}

	records, err := s.source.FetchTeamInjuries(ctx, team)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(records); jsonErr == nil {
		if setErr := s.redis.Set(ctx, key, data, s.ttl).Err(); setErr != nil {
			log.Printf("[injuries] cache write error for %s: %v", team, setErr)
		}
	}

	return records, nil
}

// buildKey creates the cache key for a team's injury report
// Format: injuries:current:{team}
func (s *CachedSource) buildKey(team string) string {
	return fmt.Sprintf("injuries:current:%s", team)
}
