package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.Empty(t, cfg.Auth.AdminPassword)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join("data", "uploads"), cfg.Storage.UploadDir)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.Geocode.Timeout)
	assert.Equal(t, 256, cfg.Geocode.CacheSize)
	assert.Zero(t, cfg.Geocode.NegativeTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":           "s",
		"ENV":                  "production",
		"STORE_BACKEND":        "mongo",
		"DATA_DIR":             "/var/lib/civic",
		"UPLOAD_DIR":           "/srv/uploads",
		"REDIS_ADDR":           "cache:6379",
		"GEOCODE_NEGATIVE_TTL": "5m",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, BackendMongo, cfg.Storage.Backend)
	assert.Equal(t, "/srv/uploads", cfg.Storage.UploadDir)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Geocode.NegativeTTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"missing secret":  {},
		"unknown backend": {"JWT_SECRET": "s", "STORE_BACKEND": "sqlite"},
		"zero cache size": {"JWT_SECRET": "s", "GEOCODE_CACHE_SIZE": "0"},
		"bad duration":    {"JWT_SECRET": "s", "GEOCODE_TIMEOUT": "soon"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(env))
			require.Error(t, err)
		})
	}
}
