package geocode

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/swacchmap/civic-reports/internal/core/domain"
	"github.com/swacchmap/civic-reports/internal/pkg/metrics"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "swacchmap"
	defaultTimeout   = 30 * time.Second
)

// NominatimConfig configures the OpenStreetMap Nominatim search client.
type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	// Timeout bounds every request made by the client, including the uncached path.
	Timeout time.Duration
}

// NominatimClient implements ports.Geocoder against the Nominatim /search endpoint.
type NominatimClient struct {
	http *resty.Client
}

func NewNominatimClient(cfg NominatimConfig) *NominatimClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	return &NominatimClient{http: client}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the best match for location, or (nil, nil) when Nominatim has none.
func (c *NominatimClient) Geocode(ctx context.Context, location string) (*domain.Coordinates, error) {
	started := time.Now()
	defer func() { metrics.GeocodeProviderDuration.Observe(time.Since(started).Seconds()) }()

	var places []nominatimPlace
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      location,
			"format": "json",
			"limit":  "1",
		}).
		SetResult(&places).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("nominatim search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("nominatim search: unexpected status %d", resp.StatusCode())
	}
	if len(places) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim search: parse lat %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim search: parse lon %q: %w", places[0].Lon, err)
	}
	return &domain.Coordinates{Lat: lat, Lon: lon}, nil
}
