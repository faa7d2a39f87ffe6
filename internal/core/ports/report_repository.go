package ports

import (
	"context"

	"github.com/swacchmap/civic-reports/internal/core/domain"
)

// ReportFilter carries the optional list filters.
type ReportFilter struct {
	Status domain.ReportStatus // empty = any status
	Search string              // case-insensitive substring of location or username
}

// ReportRepository persists reports in submission order.
type ReportRepository interface {
	Create(ctx context.Context, r *domain.Report) error
	// All returns every report in submission order.
	All(ctx context.Context) ([]domain.Report, error)
	Find(ctx context.Context, ref domain.ReportRef) (*domain.Report, error)
	// UpdateStatus atomically sets the status of the addressed report and returns
	// the status it had before. Returns domain.ErrReportNotFound when nothing matches.
	UpdateStatus(ctx context.Context, ref domain.ReportRef, status domain.ReportStatus) (domain.ReportStatus, *domain.Report, error)
}
