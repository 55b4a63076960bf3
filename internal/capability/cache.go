package capability

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"curator/internal/capability/metrics"
	id "curator/pkg/domain"
)

// pointsCache memoizes per-user reputation point lookups for the lifetime of
// the process. Only raw points are cached, never final allow/deny decisions:
// object ownership varies per call, so a cached boolean could leak a stale
// positive across targets.
//
// Entries have no TTL. Correctness depends on Invalidate being called on
// every point mutation in this process; cross-process staleness is bounded by
// process lifetime and documented as a known limitation.
type pointsCache struct {
	mu      sync.Mutex
	points  map[id.UserID]int
	gens    map[id.UserID]uint64
	group   singleflight.Group
	metrics *metrics.Metrics
}

func newPointsCache(m *metrics.Metrics) *pointsCache {
	return &pointsCache{
		points:  make(map[id.UserID]int),
		gens:    make(map[id.UserID]uint64),
		metrics: m,
	}
}

// get returns the cached point total, fetching through fetch on a miss.
// Concurrent misses for the same user collapse into a single fetch. A fill is
// stored only if the user's generation is unchanged since the fetch began, so
// an invalidation racing an in-flight fetch wins: the pre-mutation total is
// returned to callers already waiting but never cached.
func (c *pointsCache) get(ctx context.Context, userID id.UserID, fetch func(ctx context.Context) int) int {
	c.mu.Lock()
	points, ok := c.points[userID]
	gen := c.gens[userID]
	c.mu.Unlock()
	if ok {
		c.metrics.RecordCacheHit()
		return points
	}

	c.metrics.RecordCacheMiss()
	v, _, _ := c.group.Do(userID.String(), func() (any, error) {
		fetched := fetch(ctx)
		c.mu.Lock()
		if c.gens[userID] == gen {
			c.points[userID] = fetched
		}
		c.mu.Unlock()
		return fetched, nil
	})
	return v.(int)
}

// invalidate drops the cached entry for one user and marks any in-flight
// fetch as stale.
func (c *pointsCache) invalidate(userID id.UserID) {
	c.mu.Lock()
	delete(c.points, userID)
	c.gens[userID]++
	c.mu.Unlock()
	c.group.Forget(userID.String())
}
