package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swacchmap/civic-reports/internal/core/domain"
	"github.com/swacchmap/civic-reports/internal/core/ports"
)

const testSecret = "router-secret"

type stubAuth struct {
	registerFn func(username, password string) (*domain.User, error)
	loginFn    func(username, password string) (string, *domain.User, error)
}

func (s *stubAuth) Register(_ context.Context, username, password string) (*domain.User, error) {
	return s.registerFn(username, password)
}

func (s *stubAuth) Authenticate(_ context.Context, username, password string) (*domain.User, error) {
	_, u, err := s.loginFn(username, password)
	return u, err
}

func (s *stubAuth) Login(_ context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(username, password)
}

type stubReports struct {
	submitted []ports.SubmitReportInput
	images    []string
	filter    ports.ReportFilter
	updated   []domain.ReportRef
	updateErr error
}

func (s *stubReports) Submit(_ context.Context, in ports.SubmitReportInput) (*domain.Report, error) {
	if in.Image != nil {
		b, _ := io.ReadAll(in.Image.Content)
		s.images = append(s.images, in.Image.Filename+":"+string(b))
		in.Image = nil
	}
	s.submitted = append(s.submitted, in)
	return &domain.Report{ID: "r1", Username: in.Username, Location: in.Location, Description: in.Description, Status: domain.StatusPending}, nil
}

func (s *stubReports) List(_ context.Context, f ports.ReportFilter) ([]domain.Report, error) {
	s.filter = f
	if f.Status != "" && !f.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return []domain.Report{{ID: "r1"}}, nil
}

func (s *stubReports) Get(context.Context, domain.ReportRef) (*domain.Report, error) {
	return nil, domain.ErrReportNotFound
}

func (s *stubReports) UpdateStatus(_ context.Context, ref domain.ReportRef, status domain.ReportStatus) (*domain.Report, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	s.updated = append(s.updated, ref)
	return &domain.Report{ID: ref.ID, Status: status}, nil
}

type stubTokens map[string]int

func (s stubTokens) AddTokens(_ context.Context, u string, n int) error { s[u] += n; return nil }
func (s stubTokens) GetTokens(_ context.Context, u string) (int, error) { return s[u], nil }

type stubAnalytics struct{ limit int }

func (s *stubAnalytics) UserStreak(context.Context, string) (int, error) { return 2, nil }

func (s *stubAnalytics) Leaderboard(_ context.Context, n int) ([]domain.LeaderboardEntry, error) {
	s.limit = n
	return []domain.LeaderboardEntry{{Rank: 1, Username: "asha", Reports: 3}}, nil
}

func (s *stubAnalytics) UserStats(_ context.Context, u string) (*domain.UserStats, error) {
	return &domain.UserStats{Username: u, TotalReports: 3, Streak: 2, Tokens: 30, GoalProgress: 0.6}, nil
}

type stubGeocoder struct{ uncached int }

func (s *stubGeocoder) GeocodeCached(_ context.Context, loc string) *domain.Coordinates {
	if loc == "Nowhere" {
		return nil
	}
	return &domain.Coordinates{Lat: 1, Lon: 2}
}

func (s *stubGeocoder) GeocodeUncached(ctx context.Context, loc string) *domain.Coordinates {
	s.uncached++
	return s.GeocodeCached(ctx, loc)
}

type stubMap struct{}

func (stubMap) Points(context.Context) ([]domain.MapPoint, error) {
	return []domain.MapPoint{{ReportID: "r1", Location: "Ward 7", Status: domain.StatusPending}}, nil
}

type testServer struct {
	handler   http.Handler
	auth      *stubAuth
	reports   *stubReports
	analytics *stubAnalytics
	geocoder  *stubGeocoder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		auth: &stubAuth{
			registerFn: func(u, p string) (*domain.User, error) {
				return &domain.User{Username: u, Role: domain.RoleCitizen}, nil
			},
			loginFn: func(u, p string) (string, *domain.User, error) {
				return "", nil, domain.ErrInvalidCredentials
			},
		},
		reports:   &stubReports{},
		analytics: &stubAnalytics{},
		geocoder:  &stubGeocoder{},
	}
	ts.handler = NewRouter(Dependencies{
		Auth:      ts.auth,
		Reports:   ts.reports,
		Tokens:    stubTokens{"asha": 25},
		Analytics: ts.analytics,
		Geocoder:  ts.geocoder,
		Map:       stubMap{},
		JWTSecret: testSecret,
		Log:       zerolog.Nop(),
		Registry:  prometheus.NewRegistry(),
	})
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func bearer(t *testing.T, username, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": username, "role": role}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + s
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRouter_Register(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(jsonRequest(http.MethodPost, "/v1/auth/register", `{"username":"asha","password":"pw"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, "asha", user["username"])
	assert.NotContains(t, user, "password")

	ts.auth.registerFn = func(string, string) (*domain.User, error) { return nil, domain.ErrUserExists }
	rec = ts.do(jsonRequest(http.MethodPost, "/v1/auth/register", `{"username":"asha","password":"pw"}`))
	assert.Equal(t, http.StatusConflict, rec.Code)

	ts.auth.registerFn = func(string, string) (*domain.User, error) { return nil, domain.ErrReservedUsername }
	rec = ts.do(jsonRequest(http.MethodPost, "/v1/auth/register", `{"username":"admin","password":"pw"}`))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "username is reserved", decode(t, rec)["error"])

	rec = ts.do(jsonRequest(http.MethodPost, "/v1/auth/register", `{"username":"asha"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(jsonRequest(http.MethodPost, "/v1/auth/register", `not-json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Login(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(jsonRequest(http.MethodPost, "/v1/auth/login", `{"username":"asha","password":"bad"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ts.auth.loginFn = func(u, p string) (string, *domain.User, error) {
		return "token123", &domain.User{Username: u, Role: domain.RoleCitizen, Tokens: 25}, nil
	}
	rec = ts.do(jsonRequest(http.MethodPost, "/v1/auth/login", `{"username":"asha","password":"pw"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "token123", decode(t, rec)["token"])
}

func multipartRequest(t *testing.T, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "bin.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/reports", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestRouter_SubmitReport(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(multipartRequest(t, map[string]string{"location": "Ward 7", "description": "bin"}, nil))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, ts.reports.submitted, 1)
	assert.Empty(t, ts.reports.submitted[0].Username)

	req := multipartRequest(t, map[string]string{"location": "Ward 7", "description": "bin"}, []byte("pixels"))
	req.Header.Set("Authorization", bearer(t, "asha", domain.RoleCitizen))
	rec = ts.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "asha", ts.reports.submitted[1].Username)
	assert.Equal(t, []string{"bin.png:pixels"}, ts.reports.images)

	rec = ts.do(multipartRequest(t, map[string]string{"location": "Ward 7"}, nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	req = multipartRequest(t, map[string]string{"location": "Ward 7", "description": "bin"}, nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec = ts.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ListReports(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/v1/reports?status=In+Progress&q=ward", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StatusInProgress, ts.reports.filter.Status)
	assert.Equal(t, "ward", ts.reports.filter.Search)
	assert.EqualValues(t, 1, decode(t, rec)["count"])

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/v1/reports?status=Closed", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_UpdateStatus(t *testing.T) {
	ts := newTestServer(t)
	body := `{"status":"Resolved"}`

	rec := ts.do(jsonRequest(http.MethodPatch, "/v1/reports/r1/status", body))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := jsonRequest(http.MethodPatch, "/v1/reports/r1/status", body)
	req.Header.Set("Authorization", bearer(t, "asha", domain.RoleCitizen))
	rec = ts.do(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = jsonRequest(http.MethodPatch, "/v1/reports/r1/status", body)
	req.Header.Set("Authorization", bearer(t, "admin", domain.RoleAdmin))
	rec = ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Resolved", decode(t, rec)["status"])

	req = jsonRequest(http.MethodPatch, "/v1/reports/-/status",
		`{"status":"Resolved","username":"ravi","timestamp":"2024-01-02T10:00:00.000000","location":"Ward 7"}`)
	req.Header.Set("Authorization", bearer(t, "admin", domain.RoleAdmin))
	rec = ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ReportRef{Username: "ravi", Timestamp: "2024-01-02T10:00:00.000000", Location: "Ward 7"}, ts.reports.updated[1])

	ts.reports.updateErr = domain.ErrReportNotFound
	req = jsonRequest(http.MethodPatch, "/v1/reports/missing/status", body)
	req.Header.Set("Authorization", bearer(t, "admin", domain.RoleAdmin))
	rec = ts.do(req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Participation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/v1/users/asha/tokens", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 25, decode(t, rec)["tokens"])

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/v1/users/asha/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decode(t, rec)["streak"])

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/v1/leaderboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.DefaultLeaderboardSize, ts.analytics.limit)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/v1/leaderboard?limit=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, ts.analytics.limit)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/v1/leaderboard?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Geocode(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/v1/geocode?q=Ward+7", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["lat"])
	assert.Equal(t, 0, ts.geocoder.uncached)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/v1/geocode?q=Ward+7&fresh=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ts.geocoder.uncached)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/v1/geocode?q=Nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/v1/geocode", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/v1/map", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["points"], 1)
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
