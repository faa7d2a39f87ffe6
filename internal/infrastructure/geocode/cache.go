// Package geocode resolves free-text locations to coordinates.
//
// Cache is the single memoised lookup path: a bounded LRU in front of the
// external geocoder, with concurrent misses for one location collapsed into a
// single provider call. Failed lookups are not cached unless a negative TTL is
// configured, in which case they are remembered for that long.
package geocode

import (
	"context"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/swacchmap/civic-reports/internal/core/domain"
	"github.com/swacchmap/civic-reports/internal/core/ports"
	"github.com/swacchmap/civic-reports/internal/pkg/metrics"
)

const (
	DefaultCacheSize     = 256
	DefaultLookupTimeout = 10 * time.Second
)

// SharedCache is an optional second tier shared between processes (Redis).
type SharedCache interface {
	Get(ctx context.Context, key string) (*domain.Coordinates, bool, error)
	Set(ctx context.Context, key string, coords domain.Coordinates) error
}

// Options tunes the cache. Zero values select the defaults.
type Options struct {
	Size          int
	LookupTimeout time.Duration
	// NegativeTTL > 0 remembers failed lookups for that long.
	NegativeTTL time.Duration
	Shared      SharedCache
}

// Cache implements ports.GeocodeService.
type Cache struct {
	geocoder ports.Geocoder
	entries  *lru.Cache[string, domain.Coordinates]
	failures *expirable.LRU[string, struct{}]
	shared   SharedCache
	timeout  time.Duration
	group    singleflight.Group
	log      zerolog.Logger
}

func NewCache(geocoder ports.Geocoder, opts Options, log zerolog.Logger) (*Cache, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultCacheSize
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = DefaultLookupTimeout
	}

	entries, err := lru.New[string, domain.Coordinates](opts.Size)
	if err != nil {
		return nil, fmt.Errorf("geocode cache: %w", err)
	}

	c := &Cache{
		geocoder: geocoder,
		entries:  entries,
		shared:   opts.Shared,
		timeout:  opts.LookupTimeout,
		log:      log,
	}
	if opts.NegativeTTL > 0 {
		c.failures = expirable.NewLRU[string, struct{}](opts.Size, nil, opts.NegativeTTL)
	}
	return c, nil
}

// Len returns the number of cached locations.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// GeocodeCached returns memoised coordinates for location, resolving them on a
// miss under the lookup timeout. Failures yield nil.
func (c *Cache) GeocodeCached(ctx context.Context, location string) *domain.Coordinates {
	key := normalize(location)
	if key == "" {
		return nil
	}

	if coords, ok := c.entries.Get(key); ok {
		metrics.GeocodeLookupsTotal.WithLabelValues("hit").Inc()
		return &coords
	}
	if c.failures != nil && c.failures.Contains(key) {
		metrics.GeocodeLookupsTotal.WithLabelValues("negative_hit").Inc()
		return nil
	}

	v, _, _ := c.group.Do(key, func() (any, error) {
		return c.resolve(ctx, key, strings.TrimSpace(location)), nil
	})
	coords, _ := v.(*domain.Coordinates)
	if coords == nil {
		return nil
	}
	out := *coords
	return &out
}

// GeocodeUncached calls the geocoder directly. Nothing is read from or written
// to the cache; the caller's context and the client timeout bound the call.
func (c *Cache) GeocodeUncached(ctx context.Context, location string) *domain.Coordinates {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil
	}
	metrics.GeocodeLookupsTotal.WithLabelValues("bypass").Inc()

	coords, err := c.geocoder.Geocode(ctx, location)
	if err != nil {
		c.log.Warn().Err(err).Str("location", location).Msg("uncached geocode failed")
		return nil
	}
	return coords
}

func (c *Cache) resolve(ctx context.Context, key, location string) *domain.Coordinates {
	// A flight that finished between the caller's cache probe and Do already filled the entry.
	if coords, ok := c.entries.Get(key); ok {
		return &coords
	}

	// Detached so one caller giving up does not fail everyone sharing the flight.
	lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	if c.shared != nil {
		coords, ok, err := c.shared.Get(lookupCtx, key)
		if err != nil {
			c.log.Warn().Err(err).Str("location", key).Msg("shared geocode cache read failed")
		} else if ok {
			metrics.GeocodeLookupsTotal.WithLabelValues("shared_hit").Inc()
			c.entries.Add(key, *coords)
			return coords
		}
	}

	coords, err := c.geocoder.Geocode(lookupCtx, location)
	switch {
	case err != nil:
		metrics.GeocodeLookupsTotal.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Str("location", location).Msg("geocode lookup failed")
		c.rememberFailure(key)
		return nil
	case coords == nil:
		metrics.GeocodeLookupsTotal.WithLabelValues("not_found").Inc()
		c.log.Debug().Str("location", location).Msg("geocode found no match")
		c.rememberFailure(key)
		return nil
	}

	metrics.GeocodeLookupsTotal.WithLabelValues("miss").Inc()
	c.entries.Add(key, *coords)
	if c.shared != nil {
		if err := c.shared.Set(lookupCtx, key, *coords); err != nil {
			c.log.Warn().Err(err).Str("location", key).Msg("shared geocode cache write failed")
		}
	}
	return coords
}

func (c *Cache) rememberFailure(key string) {
	if c.failures != nil {
		c.failures.Add(key, struct{}{})
	}
}

// normalize folds case and whitespace so "  MG Road " and "mg road" share an entry.
func normalize(location string) string {
	return strings.ToLower(strings.Join(strings.Fields(location), " "))
}
