package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/swacchmap/civic-reports/internal/core/domain"
	"github.com/swacchmap/civic-reports/internal/core/ports"
	"github.com/swacchmap/civic-reports/internal/infrastructure/db/jsonstore"
)

type fixture struct {
	users   *jsonstore.UserRepository
	ledger  *jsonstore.TokenRepository
	reports *jsonstore.ReportRepository
	tokens  *TokenService
	auth    *AuthService
	report  *ReportService
	stats   *AnalyticsService
	images  *stubImages
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend, err := jsonstore.NewFileBackend(t.TempDir())
	require.NoError(t, err)

	log := zerolog.Nop()
	store := jsonstore.NewStore(backend, log)

	f := &fixture{
		users:   jsonstore.NewUserRepository(store),
		ledger:  jsonstore.NewTokenRepository(store),
		reports: jsonstore.NewReportRepository(store),
		images:  &stubImages{},
	}
	f.tokens = NewTokenService(f.ledger, f.users, log)
	f.auth = NewAuthService(f.users, f.tokens, AuthConfig{
		AdminPassword: "letmein",
		JWTSecret:     "test-secret",
		BcryptCost:    bcrypt.MinCost,
	}, log)
	f.report = NewReportService(f.reports, f.images, f.tokens, log)
	f.stats = NewAnalyticsService(f.reports, f.tokens)
	return f
}

// stubImages records saves without touching disk.
type stubImages struct {
	saved []string
	err   error
}

func (s *stubImages) Save(_ context.Context, upload ports.ImageUpload, at time.Time) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.Copy(io.Discard, upload.Content); err != nil {
		return "", err
	}
	name := at.Format("20060102150405") + "_" + upload.Filename
	s.saved = append(s.saved, name)
	return name, nil
}

func (f *fixture) addReport(t *testing.T, username, timestamp string) {
	t.Helper()
	require.NoError(t, f.reports.Create(context.Background(), &domain.Report{
		Username:    username,
		Location:    "Ward 7",
		Description: "overflowing bin",
		Timestamp:   timestamp,
		Status:      domain.StatusPending,
	}))
}
