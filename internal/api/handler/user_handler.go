package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/swacchmap/civic-reports/internal/core/domain"
	"github.com/swacchmap/civic-reports/internal/core/ports"
)

// UserHandler serves the participation views: balances, stats and rankings.
type UserHandler struct {
	tokens    ports.TokenService
	analytics ports.AnalyticsService
}

func NewUserHandler(tokens ports.TokenService, analytics ports.AnalyticsService) *UserHandler {
	return &UserHandler{tokens: tokens, analytics: analytics}
}

// Tokens handles GET /v1/users/:username/tokens.
//
// @Summary      Token balance
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  tokensResponse
// @Router       /v1/users/{username}/tokens [get]
func (h *UserHandler) Tokens(c echo.Context) error {
	username := c.Param("username")
	tokens, err := h.tokens.GetTokens(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokensResponse{Username: username, Tokens: tokens, Goal: domain.TokenGoal})
}

// Stats handles GET /v1/users/:username/stats.
//
// @Summary      Participation stats
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  domain.UserStats
// @Router       /v1/users/{username}/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	stats, err := h.analytics.UserStats(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Leaderboard handles GET /v1/leaderboard.
//
// @Summary      Top submitters
// @Tags         users
// @Produce      json
// @Param        limit  query     int  false  "Number of entries (default 5)"
// @Success      200    {object}  leaderboardResponse
// @Failure      400    {object}  errorResponse
// @Router       /v1/leaderboard [get]
func (h *UserHandler) Leaderboard(c echo.Context) error {
	limit := domain.DefaultLeaderboardSize
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	board, err := h.analytics.Leaderboard(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, leaderboardResponse{Leaderboard: board})
}
