package service

import (
	"context"
	"fmt"

	"github.com/swacchmap/civic-reports/internal/core/domain"
	"github.com/swacchmap/civic-reports/internal/core/ports"
)

// MapService geocodes reports for map display.
type MapService struct {
	reports  ports.ReportRepository
	geocoder ports.GeocodeService
}

func NewMapService(reports ports.ReportRepository, geocoder ports.GeocodeService) *MapService {
	return &MapService{reports: reports, geocoder: geocoder}
}

// Points resolves every report location through the cached lookup and skips
// the ones that cannot be resolved.
func (s *MapService) Points(ctx context.Context) ([]domain.MapPoint, error) {
	all, err := s.reports.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("map points: %w", err)
	}

	points := make([]domain.MapPoint, 0, len(all))
	for i := range all {
		r := &all[i]
		if r.Location == "" {
			continue
		}
		coords := s.geocoder.GeocodeCached(ctx, r.Location)
		if coords == nil {
			continue
		}
		points = append(points, domain.MapPoint{
			ReportID:    r.ID,
			Location:    r.Location,
			Status:      r.Status.OrDefault(),
			Coordinates: *coords,
		})
	}
	return points, nil
}
