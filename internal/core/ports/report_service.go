package ports

import (
	"context"

	"github.com/swacchmap/civic-reports/internal/core/domain"
)

// SubmitReportInput is the DTO passed from the transport layer to ReportService.
type SubmitReportInput struct {
	Username    string // empty when nobody is signed in
	Location    string
	Description string
	Image       *ImageUpload // optional
}

// ReportService defines the report workflow use cases.
type ReportService interface {
	Submit(ctx context.Context, in SubmitReportInput) (*domain.Report, error)
	List(ctx context.Context, filter ReportFilter) ([]domain.Report, error)
	Get(ctx context.Context, ref domain.ReportRef) (*domain.Report, error)
	UpdateStatus(ctx context.Context, ref domain.ReportRef, status domain.ReportStatus) (*domain.Report, error)
}
