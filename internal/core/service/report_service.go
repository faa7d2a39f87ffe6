package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swacchmap/civic-reports/internal/core/domain"
	"github.com/swacchmap/civic-reports/internal/core/ports"
	"github.com/swacchmap/civic-reports/internal/pkg/metrics"
)

// ReportService implements the report workflow and its token awards.
type ReportService struct {
	reports ports.ReportRepository
	images  ports.ImageStore
	tokens  ports.TokenService
	log     zerolog.Logger

	now   func() time.Time
	newID func() string
}

func NewReportService(reports ports.ReportRepository, images ports.ImageStore, tokens ports.TokenService, log zerolog.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		images:  images,
		tokens:  tokens,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Submit stores a new Pending report and awards the submitter. The image, when
// present, is written before the report so a rejected upload stores nothing.
func (s *ReportService) Submit(ctx context.Context, in ports.SubmitReportInput) (*domain.Report, error) {
	location := strings.TrimSpace(in.Location)
	description := strings.TrimSpace(in.Description)
	if location == "" || description == "" {
		return nil, domain.ErrInvalidReport
	}

	now := s.now()

	var image *string
	if in.Image != nil {
		name, err := s.images.Save(ctx, *in.Image, now)
		if err != nil {
			return nil, fmt.Errorf("submit report: %w", err)
		}
		image = &name
	}

	username := in.Username
	if username == "" {
		username = domain.AnonymousSubmitter
	}

	report := domain.Report{
		ID:          s.newID(),
		Username:    username,
		Location:    location,
		Description: description,
		Image:       image,
		Timestamp:   domain.FormatTimestamp(now),
		Status:      domain.StatusPending,
	}
	if err := s.reports.Create(ctx, &report); err != nil {
		s.log.Error().Err(err).Msg("failed to store report")
		return nil, fmt.Errorf("submit report: %w", err)
	}

	metrics.ReportsSubmittedTotal.WithLabelValues(strconv.FormatBool(image != nil)).Inc()

	s.award(ctx, in.Username, domain.SubmitReward, "submit")
	if image != nil {
		s.award(ctx, in.Username, domain.ImageReward, "image")
	}

	s.log.Info().
		Str("report_id", report.ID).
		Str("username", report.Username).
		Bool("image", image != nil).
		Msg("report submitted")

	return &report, nil
}

// List returns the reports matching filter, most recent submission first.
func (s *ReportService) List(ctx context.Context, filter ports.ReportFilter) ([]domain.Report, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	all, err := s.reports.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	query := strings.ToLower(filter.Search)
	matched := make([]domain.Report, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		r := all[i]
		if filter.Status != "" && r.Status.OrDefault() != filter.Status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(r.Location), query) &&
			!strings.Contains(strings.ToLower(r.Username), query) {
			continue
		}
		matched = append(matched, r)
	}
	return matched, nil
}

func (s *ReportService) Get(ctx context.Context, ref domain.ReportRef) (*domain.Report, error) {
	return s.reports.Find(ctx, ref)
}

// UpdateStatus moves the addressed report to status. Any status may follow any
// other; only a move into Resolved from a different status awards the submitter.
func (s *ReportService) UpdateStatus(ctx context.Context, ref domain.ReportRef, status domain.ReportStatus) (*domain.Report, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("update status: %w (%q)", domain.ErrInvalidStatus, status)
	}

	previous, updated, err := s.reports.UpdateStatus(ctx, ref, status)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	metrics.ReportStatusChangesTotal.WithLabelValues(string(previous), string(status)).Inc()

	if previous.AwardsResolution(status) {
		s.award(ctx, awardee(updated.Username), domain.ResolveReward, "resolve")
	}

	s.log.Info().
		Str("report_id", updated.ID).
		Str("from", string(previous)).
		Str("to", string(status)).
		Msg("report status updated")

	return updated, nil
}

// award logs failures instead of returning them: the report change is already stored.
func (s *ReportService) award(ctx context.Context, username string, amount int, reason string) {
	if username == "" {
		return
	}
	if err := s.tokens.AddTokens(ctx, username, amount); err != nil {
		s.log.Error().Err(err).Str("username", username).Str("reason", reason).Msg("token award failed")
		return
	}
	metrics.TokensAwardedTotal.WithLabelValues(reason).Add(float64(amount))
}

// awardee maps the anonymous placeholder back to "nobody".
func awardee(username string) string {
	if username == domain.AnonymousSubmitter {
		return ""
	}
	return username
}
