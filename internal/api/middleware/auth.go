package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by the auth middlewares.
const (
	UsernameKey = "username"
	RoleKey     = "role"
)

var (
	errMissingHeader = echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	errInvalidHeader = echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	errInvalidToken  = echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
)

// Auth validates the JWT and injects claims into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authenticate(c, jwtSecret); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// OptionalAuth behaves like Auth when an Authorization header is present and
// lets the request through anonymously when it is not. A bad token is still rejected.
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authenticate(c, jwtSecret); err != nil && !errors.Is(err, errMissingHeader) {
				return err
			}
			return next(c)
		}
	}
}

func authenticate(c echo.Context, jwtSecret string) error {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return errMissingHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return errInvalidHeader
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return errInvalidToken
	}

	username, _ := claims["username"].(string)
	if username == "" {
		return errInvalidToken
	}
	role, _ := claims["role"].(string)

	c.Set(UsernameKey, username)
	c.Set(RoleKey, role)
	return nil
}
