package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/swacchmap/civic-reports/internal/api/middleware"
)

// currentUser returns the identity injected by the auth middlewares. Both values
// are empty for anonymous requests.
func currentUser(c echo.Context) (username, role string) {
	username, _ = c.Get(middleware.UsernameKey).(string)
	role, _ = c.Get(middleware.RoleKey).(string)
	return username, role
}
