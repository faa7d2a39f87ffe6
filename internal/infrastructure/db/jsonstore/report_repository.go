package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/swacchmap/civic-reports/internal/core/domain"
)

const ReportsDocument = "reports"

// reportEntry is one element of the reports document. Elements that do not
// decode as a report keep their original bytes in raw and are written back
// unchanged.
type reportEntry struct {
	report domain.Report
	raw    json.RawMessage
}

func (e reportEntry) valid() bool { return e.raw == nil }

func (e reportEntry) MarshalJSON() ([]byte, error) {
	if !e.valid() {
		return e.raw, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e.report); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (e *reportEntry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		e.raw = append(json.RawMessage(nil), data...)
		return nil
	}
	var r domain.Report
	if err := json.Unmarshal(trimmed, &r); err != nil {
		e.raw = append(json.RawMessage(nil), data...)
		return nil
	}
	e.report = r
	return nil
}

// reportsDoc is the ordered report list.
type reportsDoc []reportEntry

func newReportsDoc() reportsDoc { return reportsDoc{} }

func (d reportsDoc) reports() []domain.Report {
	out := make([]domain.Report, 0, len(d))
	for _, e := range d {
		if e.valid() {
			out = append(out, e.report)
		}
	}
	return out
}

// ReportRepository implements ports.ReportRepository over the reports document.
type ReportRepository struct {
	store *Store
}

func NewReportRepository(store *Store) *ReportRepository {
	return &ReportRepository{store: store}
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) error {
	return Update(ctx, r.store, ReportsDocument, newReportsDoc, func(doc *reportsDoc) error {
		*doc = append(*doc, reportEntry{report: *report})
		return nil
	})
}

func (r *ReportRepository) All(ctx context.Context) ([]domain.Report, error) {
	return Load(ctx, r.store, ReportsDocument, newReportsDoc).reports(), nil
}

func (r *ReportRepository) Find(ctx context.Context, ref domain.ReportRef) (*domain.Report, error) {
	for _, report := range Load(ctx, r.store, ReportsDocument, newReportsDoc).reports() {
		if ref.Matches(&report) {
			found := report
			return &found, nil
		}
	}
	return nil, domain.ErrReportNotFound
}

func (r *ReportRepository) UpdateStatus(ctx context.Context, ref domain.ReportRef, status domain.ReportStatus) (domain.ReportStatus, *domain.Report, error) {
	var (
		previous domain.ReportStatus
		updated  domain.Report
	)
	err := Update(ctx, r.store, ReportsDocument, newReportsDoc, func(doc *reportsDoc) error {
		for i := range *doc {
			entry := &(*doc)[i]
			if entry.valid() && ref.Matches(&entry.report) {
				previous = entry.report.Status.OrDefault()
				entry.report.Status = status
				updated = entry.report
				return nil
			}
		}
		return domain.ErrReportNotFound
	})
	if err != nil {
		return "", nil, err
	}
	return previous, &updated, nil
}
