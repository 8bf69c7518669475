package weather

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/citytemp-api/internal/types"
)

var _ Provider = (*CachedProvider)(nil)

// CachedProvider keeps readings for ttl and collapses concurrent lookups for the
// same coordinates into one upstream call. Errors are never cached.
type CachedProvider struct {
	next   Provider
	cache  *cache.Cache
	group  singleflight.Group
	logger *slog.Logger
}

// NewCachedProvider wraps next. A ttl of 0 disables caching but keeps request
// collapsing.
func NewCachedProvider(next Provider, ttl time.Duration, logger *slog.Logger) *CachedProvider {
	p := &CachedProvider{
		next:   next,
		logger: logger.With(slog.String("component", "weather_cache")),
	}
	if ttl > 0 {
		p.cache = cache.New(ttl, 2*ttl)
	}
	return p
}

func (p *CachedProvider) CurrentTemperature(ctx context.Context, coords types.Coordinates) (types.TemperatureReading, error) {
	key := coords.Key()

	if p.cache != nil {
		if cached, found := p.cache.Get(key); found {
			cacheLookups.WithLabelValues("hit").Inc()
			p.logger.DebugContext(ctx, "Weather cache hit", slog.String("coordinates", key))
			return cached.(types.TemperatureReading), nil
		}
		cacheLookups.WithLabelValues("miss").Inc()
	}

	ch := p.group.DoChan(key, func() (any, error) {
		// detached so one caller's cancellation does not fail the others;
		// the http client timeout still bounds the call
		reading, err := p.next.CurrentTemperature(context.WithoutCancel(ctx), coords)
		if err != nil {
			return nil, err
		}
		if p.cache != nil {
			p.cache.Set(key, reading, cache.DefaultExpiration)
		}
		return reading, nil
	})

	select {
	case <-ctx.Done():
		return types.TemperatureReading{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return types.TemperatureReading{}, res.Err
		}
		if res.Shared {
			p.logger.DebugContext(ctx, "Weather lookup shared", slog.String("coordinates", key))
		}
		return res.Val.(types.TemperatureReading), nil
	}
}
