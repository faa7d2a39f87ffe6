package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/swacchmap/civic-reports/internal/core/domain"
)

const defaultGeocodeTTL = 24 * time.Hour

// GeocodeCache shares resolved coordinates between processes.
// Key format: geocode:<normalised location>
type GeocodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGeocodeCache wraps client. A non-positive ttl falls back to defaultGeocodeTTL.
func NewGeocodeCache(client *redis.Client, ttl time.Duration) *GeocodeCache {
	if ttl <= 0 {
		ttl = defaultGeocodeTTL
	}
	return &GeocodeCache{client: client, ttl: ttl}
}

// Get reports whether coordinates for key are cached.
func (c *GeocodeCache) Get(ctx context.Context, key string) (*domain.Coordinates, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("geocode cache get: %w", err)
	}

	var coords domain.Coordinates
	if err := json.Unmarshal(raw, &coords); err != nil {
		return nil, false, fmt.Errorf("geocode cache decode: %w", err)
	}
	return &coords, true, nil
}

// Set stores coordinates for key (expires after ttl).
func (c *GeocodeCache) Set(ctx context.Context, key string, coords domain.Coordinates) error {
	raw, err := json.Marshal(coords)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), raw, c.ttl).Err()
}

func (c *GeocodeCache) key(location string) string {
	return fmt.Sprintf("geocode:%s", location)
}
