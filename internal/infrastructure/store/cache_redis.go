package store

import (
	"context"
	"fmt"
	"time"

	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/cache"
)

// ScenarioListTTL is how long a project's scenario listing is cached
// before it is considered stale.
const ScenarioListTTL = 30 * time.Second

// ScenarioCache is a cache-aside layer in front of PostgresIndex.List,
// keyed by project id. Every mutation (create/delete scenario)
// invalidates the project's cached listing rather than patching it in
// place, keeping the cache-aside contract simple.
type ScenarioCache struct {
	cache *cache.Cache
	index *PostgresIndex
}

func NewScenarioCache(c *cache.Cache, index *PostgresIndex) *ScenarioCache {
	return &ScenarioCache{cache: c, index: index}
}

func (c *ScenarioCache) key(projectID string) string {
	return fmt.Sprintf("scenarios:%s", projectID)
}

// List returns the project's scenario summaries, serving from cache
// when present and falling back to the Postgres index on a miss.
func (c *ScenarioCache) List(ctx context.Context, projectID string) ([]ScenarioSummary, error) {
	var cached []ScenarioSummary
	if err := c.cache.GetJSON(ctx, c.key(projectID), &cached); err == nil {
		return cached, nil
	}

	rows, err := c.index.List(ctx, projectID)
	if err != nil {
		return nil, err
	}

	_ = c.cache.SetJSON(ctx, c.key(projectID), rows, ScenarioListTTL)
	return rows, nil
}

// Invalidate drops the cached listing for a project, called after any
// scenario create/delete.
func (c *ScenarioCache) Invalidate(ctx context.Context, projectID string) error {
	return c.cache.FlushPattern(ctx, c.key(projectID))
}
