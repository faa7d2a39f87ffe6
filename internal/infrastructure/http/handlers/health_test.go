package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readiness(t *testing.T, deps ...Dependency) (int, readinessResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

	require.NoError(t, NewHealthDependenciesHandler(deps...).Readiness(c))

	var resp readinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func ok(context.Context) error { return nil }

func TestReadiness_AllHealthy(t *testing.T) {
	code, resp := readiness(t, Dependency{Name: "store", Check: ok}, Dependency{Name: "redis", Check: ok})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Dependencies["store"].Status)
	assert.Equal(t, "ok", resp.Dependencies["redis"].Status)
}

func TestReadiness_Degraded(t *testing.T) {
	down := func(context.Context) error { return errors.New("connection refused") }
	code, resp := readiness(t, Dependency{Name: "store", Check: ok}, Dependency{Name: "redis", Check: down})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "connection refused", resp.Dependencies["redis"].Error)
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	require.NoError(t, NewHealthHandler().Liveness(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
