package handler

import "github.com/swacchmap/civic-reports/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64,excludesall=/\\"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type submitReportRequest struct {
	Location    string `form:"location"    validate:"required"`
	Description string `form:"description" validate:"required"`
}

// updateStatusRequest selects a report by path id. Reports stored before ids
// existed are addressed with id "-" and the legacy key fields.
type updateStatusRequest struct {
	Status    string `json:"status"    validate:"required"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
	Location  string `json:"location"`
}

type listReportsResponse struct {
	Reports []domain.Report `json:"reports"`
	Count   int             `json:"count"`
}

type tokensResponse struct {
	Username string `json:"username"`
	Tokens   int    `json:"tokens"`
	Goal     int    `json:"goal"`
}

type leaderboardResponse struct {
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

type geocodeResponse struct {
	Location string `json:"location"`
	domain.Coordinates
}

type mapResponse struct {
	Points []domain.MapPoint `json:"points"`
}
