package catalog

import (
	"codeforces-tracker/internal/api"
	"codeforces-tracker/internal/constants"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type Fetcher interface {
	GetProblemset(ctx context.Context) (*api.Problemset, error)
}

// Cache memoizes the catalog for the life of the process. Callers that arrive
// while the first load is in flight wait on that same load.
type Cache struct {
	fetcher Fetcher
	logger  zerolog.Logger
	group   singleflight.Group

	mu       sync.RWMutex
	catalog  *Catalog
	loadedAt time.Time
}

func NewCache(fetcher Fetcher, logger zerolog.Logger) *Cache {
	return &Cache{fetcher: fetcher, logger: logger}
}

func (c *Cache) Get(ctx context.Context) (*Catalog, error) {
	if cat := c.cached(); cat != nil {
		return cat, nil
	}

	ch := c.group.DoChan("problemset", func() (any, error) {
		if cat := c.cached(); cat != nil {
			return cat, nil
		}

		// the load is shared, so one caller giving up must not fail the others
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.CatalogAPITimeout)
		defer cancel()

		start := time.Now()
		c.logger.Info().Msg("loading problem catalog")

		ps, err := c.fetcher.GetProblemset(fetchCtx)
		if err != nil {
			c.logger.Error().Err(err).Msg("failed to load problem catalog")
			return nil, fmt.Errorf("failed to load problem catalog: %w", err)
		}

		cat := FromProblemset(ps)

		c.mu.Lock()
		c.catalog = cat
		c.loadedAt = time.Now()
		c.mu.Unlock()

		c.logger.Info().Int("problems", cat.Total).Dur("took", time.Since(start)).Msg("problem catalog cached")
		return cat, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Catalog), nil
	}
}

// Clear drops the memoized catalog; the next Get reloads it.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalog = nil
	c.loadedAt = time.Time{}
	c.logger.Info().Msg("problem catalog cache cleared")
}

func (c *Cache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

func (c *Cache) cached() *Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalog
}
