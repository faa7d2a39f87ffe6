package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/swacchmap/civic-reports/internal/api"
	"github.com/swacchmap/civic-reports/internal/core/service"
	"github.com/swacchmap/civic-reports/internal/infrastructure/config"
	"github.com/swacchmap/civic-reports/internal/infrastructure/db/jsonstore"
	"github.com/swacchmap/civic-reports/internal/infrastructure/db/mongo"
	"github.com/swacchmap/civic-reports/internal/infrastructure/db/redis"
	"github.com/swacchmap/civic-reports/internal/infrastructure/geocode"
	"github.com/swacchmap/civic-reports/internal/infrastructure/http/handlers"
	"github.com/swacchmap/civic-reports/internal/infrastructure/storage"
	"github.com/swacchmap/civic-reports/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "civic-reports",
	})
	if cfg.Auth.AdminPassword == "" {
		log.Warn().Msg("ADMIN_PASSWORD is empty, administrator login is disabled")
	}

	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeBackend(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to close store backend")
		}
	}()

	store := jsonstore.NewStore(backend, logger.With("store"))
	users := jsonstore.NewUserRepository(store)
	ledger := jsonstore.NewTokenRepository(store)
	reports := jsonstore.NewReportRepository(store)

	images, err := storage.NewImageStore(cfg.Storage.UploadDir)
	if err != nil {
		return err
	}

	readiness := []handlers.Dependency{{Name: "store", Check: store.Ping}}

	geoOpts := geocode.Options{
		Size:          cfg.Geocode.CacheSize,
		LookupTimeout: cfg.Geocode.LookupTimeout,
		NegativeTTL:   cfg.Geocode.NegativeTTL,
	}
	if rc := (redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}); rc.Enabled() {
		client, err := redis.Connect(ctx, rc)
		if err != nil {
			return err
		}
		defer client.Close()

		geoOpts.Shared = redis.NewGeocodeCache(client, cfg.Redis.TTL)
		readiness = append(readiness, handlers.Dependency{Name: "redis", Check: pingRedis(client)})
		log.Info().Str("addr", rc.Addr).Msg("shared geocode cache enabled")
	}

	nominatim := geocode.NewNominatimClient(geocode.NominatimConfig{
		BaseURL:   cfg.Geocode.BaseURL,
		UserAgent: cfg.Geocode.UserAgent,
		Timeout:   cfg.Geocode.Timeout,
	})
	geocoder, err := geocode.NewCache(nominatim, geoOpts, logger.With("geocode"))
	if err != nil {
		return err
	}

	tokens := service.NewTokenService(ledger, users, logger.With("tokens"))
	auth := service.NewAuthService(users, tokens, service.AuthConfig{
		AdminUsername: cfg.Auth.AdminUsername,
		AdminPassword: cfg.Auth.AdminPassword,
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      cfg.Auth.TokenTTL,
	}, logger.With("auth"))
	reportService := service.NewReportService(reports, images, tokens, logger.With("reports"))
	analytics := service.NewAnalyticsService(reports, tokens)
	mapService := service.NewMapService(reports, geocoder)

	e := api.NewRouter(api.Dependencies{
		Auth:      auth,
		Reports:   reportService,
		Tokens:    tokens,
		Analytics: analytics,
		Geocoder:  geocoder,
		Map:       mapService,
		JWTSecret: cfg.JWTSecret,
		UploadDir: images.Dir(),
		Readiness: readiness,
		Log:       logger.With("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Storage.Backend).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openBackend(ctx context.Context, cfg *config.Config) (jsonstore.Backend, func(context.Context) error, error) {
	switch cfg.Storage.Backend {
	case config.BackendMongo:
		return mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	default:
		backend, err := jsonstore.NewFileBackend(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return backend, func(context.Context) error { return nil }, nil
	}
}

func pingRedis(client *goredis.Client) handlers.Check {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
