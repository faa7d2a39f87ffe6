package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendFile  = "file"
	BackendMongo = "mongo"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Auth    AuthConfig
	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Geocode GeocodeConfig
}

type AuthConfig struct {
	AdminUsername string        `env:"ADMIN_USERNAME, default=admin"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`
	TokenTTL      time.Duration `env:"TOKEN_TTL,      default=24h"`
}

type StorageConfig struct {
	Backend   string `env:"STORE_BACKEND, default=file"`
	DataDir   string `env:"DATA_DIR,      default=data"`
	UploadDir string `env:"UPLOAD_DIR"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=civic_reports"`
}

// RedisConfig is optional; an empty address disables the shared geocode tier.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,         default=0"`
	TTL      time.Duration `env:"GEOCODE_SHARED_TTL, default=24h"`
}

type GeocodeConfig struct {
	BaseURL       string        `env:"GEOCODE_BASE_URL,       default=https://nominatim.openstreetmap.org"`
	UserAgent     string        `env:"GEOCODE_USER_AGENT,     default=swacchmap"`
	Timeout       time.Duration `env:"GEOCODE_TIMEOUT,        default=30s"`
	LookupTimeout time.Duration `env:"GEOCODE_LOOKUP_TIMEOUT, default=10s"`
	CacheSize     int           `env:"GEOCODE_CACHE_SIZE,     default=256"`
	NegativeTTL   time.Duration `env:"GEOCODE_NEGATIVE_TTL,   default=0s"`
}

// IsProduction reports whether ENV selects production behaviour (JSON logs).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.Storage.UploadDir == "" {
		cfg.Storage.UploadDir = filepath.Join(cfg.Storage.DataDir, "uploads")
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.Storage.Backend {
	case BackendFile, BackendMongo:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendFile, BackendMongo, c.Storage.Backend)
	}
	if c.Geocode.CacheSize <= 0 {
		return errors.New("GEOCODE_CACHE_SIZE must be positive")
	}
	return nil
}
