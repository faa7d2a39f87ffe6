package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/swacchmap/civic-reports/internal/core/domain"
	"github.com/swacchmap/civic-reports/internal/core/ports"
)

const dateLayout = "2006-01-02"

// AnalyticsService derives streaks, rankings and per-user stats from the report history.
type AnalyticsService struct {
	reports ports.ReportRepository
	tokens  ports.TokenService
	now     func() time.Time
}

func NewAnalyticsService(reports ports.ReportRepository, tokens ports.TokenService) *AnalyticsService {
	return &AnalyticsService{reports: reports, tokens: tokens, now: time.Now}
}

func (s *AnalyticsService) UserStreak(ctx context.Context, username string) (int, error) {
	all, err := s.reports.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("user streak: %w", err)
	}
	return streak(all, username, s.now()), nil
}

// streak counts consecutive days ending today with at least one report. The
// walk stops at the first gap or unparseable date.
func streak(reports []domain.Report, username string, now time.Time) int {
	seen := make(map[string]struct{})
	dates := make([]string, 0)
	for i := range reports {
		r := &reports[i]
		if r.Username != username || r.Timestamp == "" {
			continue
		}
		d := r.Date()
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	today := civilDate(now)
	count := 0
	for i, d := range dates {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			break
		}
		if int(today.Sub(t).Hours()/24) != i {
			break
		}
		count++
	}
	return count
}

// civilDate drops the clock and zone so day arithmetic ignores DST shifts.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Leaderboard ranks submitters by report count. Ties keep first-seen order.
func (s *AnalyticsService) Leaderboard(ctx context.Context, topN int) ([]domain.LeaderboardEntry, error) {
	if topN <= 0 {
		topN = domain.DefaultLeaderboardSize
	}

	all, err := s.reports.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for i := range all {
		user := all[i].Username
		if user == "" {
			user = domain.UnknownUsername
		}
		if _, ok := counts[user]; !ok {
			order = append(order, user)
		}
		counts[user]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topN {
		order = order[:topN]
	}

	board := make([]domain.LeaderboardEntry, 0, len(order))
	for i, user := range order {
		board = append(board, domain.LeaderboardEntry{Rank: i + 1, Username: user, Reports: counts[user]})
	}
	return board, nil
}

// UserStats summarises one user's reports, streak and token progress.
func (s *AnalyticsService) UserStats(ctx context.Context, username string) (*domain.UserStats, error) {
	all, err := s.reports.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	total := 0
	for i := range all {
		if all[i].Username == username {
			total++
		}
	}

	tokens, err := s.tokens.GetTokens(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	progress := float64(tokens) / float64(domain.TokenGoal)
	if progress > 1 {
		progress = 1
	}
	if progress < 0 {
		progress = 0
	}

	return &domain.UserStats{
		Username:     username,
		TotalReports: total,
		Streak:       streak(all, username, s.now()),
		Tokens:       tokens,
		GoalProgress: progress,
	}, nil
}
