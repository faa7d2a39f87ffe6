package ports

import (
	"context"

	"github.com/swacchmap/civic-reports/internal/core/domain"
)

// Geocoder resolves a free-text location through an external service.
// A location that cannot be resolved returns (nil, nil).
type Geocoder interface {
	Geocode(ctx context.Context, location string) (*domain.Coordinates, error)
}

// GeocodeService is the lookup surface used by map rendering. Both methods
// absorb failures and return nil.
type GeocodeService interface {
	GeocodeCached(ctx context.Context, location string) *domain.Coordinates
	GeocodeUncached(ctx context.Context, location string) *domain.Coordinates
}
