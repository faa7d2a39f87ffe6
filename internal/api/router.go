package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/swacchmap/civic-reports/internal/api/docs"
	"github.com/swacchmap/civic-reports/internal/api/handler"
	"github.com/swacchmap/civic-reports/internal/api/middleware"
	"github.com/swacchmap/civic-reports/internal/core/domain"
	"github.com/swacchmap/civic-reports/internal/core/ports"
	"github.com/swacchmap/civic-reports/internal/infrastructure/http/handlers"
	"github.com/swacchmap/civic-reports/internal/pkg/metrics"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Auth      ports.AuthService
	Reports   ports.ReportService
	Tokens    ports.TokenService
	Analytics ports.AnalyticsService
	Geocoder  ports.GeocodeService
	Map       ports.MapService

	JWTSecret string
	UploadDir string
	Readiness []handlers.Dependency
	Log       zerolog.Logger

	// Registry receives the HTTP metrics. Nil uses the default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(promConfig(deps.Registry)))

	authHandler := handler.NewAuthHandler(deps.Auth)
	reportHandler := handler.NewReportHandler(deps.Reports)
	userHandler := handler.NewUserHandler(deps.Tokens, deps.Analytics)
	mapHandler := handler.NewMapHandler(deps.Geocoder, deps.Map)

	authRequired := middleware.Auth(deps.JWTSecret)
	authOptional := middleware.OptionalAuth(deps.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	v1 := e.Group("/v1")

	// --- Auth routes ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	// --- Reports ---
	v1.POST("/reports", reportHandler.Submit, authOptional)
	v1.GET("/reports", reportHandler.List)
	v1.PATCH("/reports/:id/status", reportHandler.UpdateStatus, authRequired, adminOnly)

	// --- Participation ---
	v1.GET("/users/:username/tokens", userHandler.Tokens)
	v1.GET("/users/:username/stats", userHandler.Stats)
	v1.GET("/leaderboard", userHandler.Leaderboard)

	// --- Map ---
	v1.GET("/geocode", mapHandler.Geocode)
	v1.GET("/map", mapHandler.Points)

	if deps.UploadDir != "" {
		e.Static("/uploads", deps.UploadDir)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", promHandler(deps.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func promConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{
		Namespace: metrics.Namespace,
		Subsystem: "http",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func promHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
