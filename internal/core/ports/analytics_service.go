package ports

import (
	"context"

	"github.com/swacchmap/civic-reports/internal/core/domain"
)

type AnalyticsService interface {
	UserStreak(ctx context.Context, username string) (int, error)
	Leaderboard(ctx context.Context, topN int) ([]domain.LeaderboardEntry, error)
	UserStats(ctx context.Context, username string) (*domain.UserStats, error)
}

type MapService interface {
	Points(ctx context.Context) ([]domain.MapPoint, error)
}
