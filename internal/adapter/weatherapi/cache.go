package weatherapi

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/couchcryptid/pogodynka/internal/domain"
	"github.com/couchcryptid/pogodynka/internal/observability"
)

// CachedProvider wraps a WeatherProvider with an in-memory LRU whose entries
// expire after a fixed TTL.
type CachedProvider struct {
	inner   domain.WeatherProvider
	cache   *expirable.LRU[string, domain.Snapshot]
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a provider.
func NewCachedProvider(inner domain.WeatherProvider, maxEntries int, ttl time.Duration, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   expirable.NewLRU[string, domain.Snapshot](maxEntries, nil, ttl),
		metrics: metrics,
	}
}

func (c *CachedProvider) FetchWeather(ctx context.Context, city, country string) (domain.Snapshot, error) {
	key := domain.Location{City: city, Country: country}.Query()
	if snap, ok := c.cache.Get(key); ok {
		c.metrics.Cache.WithLabelValues("hit").Inc()
		return snap, nil
	}
	c.metrics.Cache.WithLabelValues("miss").Inc()

	snap, err := c.inner.FetchWeather(ctx, city, country)
	if err != nil {
		return snap, err
	}
	c.cache.Add(key, snap)
	return snap, nil
}
