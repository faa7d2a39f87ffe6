package domain

// UnknownUsername groups reports that carry no username on the leaderboard.
const UnknownUsername = "Unknown"

// DefaultLeaderboardSize is used when the caller does not ask for a size.
const DefaultLeaderboardSize = 5

// LeaderboardEntry is one ranked contributor.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Reports  int    `json:"reports"`
}

// UserStats summarises a user's participation.
type UserStats struct {
	Username     string  `json:"username"`
	TotalReports int     `json:"total_reports"`
	Streak       int     `json:"streak"`
	Tokens       int     `json:"tokens"`
	GoalProgress float64 `json:"goal_progress"`
}
