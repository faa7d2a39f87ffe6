package domain

import (
	"errors"
	"time"
)

// ReportStatus represents the lifecycle state of a report.
type ReportStatus string

const (
	StatusPending    ReportStatus = "Pending"
	StatusInProgress ReportStatus = "In Progress"
	StatusResolved   ReportStatus = "Resolved"
)

// AnonymousSubmitter is stored as the username of reports filed without a signed-in user.
const AnonymousSubmitter = "Unknown User"

// Token awards tied to workflow events.
const (
	SubmitReward  = 10
	ImageReward   = 5
	ResolveReward = 20

	// TokenGoal is the balance shown as a completed participation goal.
	TokenGoal = 50
)

// Statuses lists every valid status in display order.
var Statuses = []ReportStatus{StatusPending, StatusInProgress, StatusResolved}

var ErrInvalidReport = errors.New("location and description are required")
var ErrInvalidStatus = errors.New("invalid report status")
var ErrReportNotFound = errors.New("report not found")
var ErrInvalidImage = errors.New("image must be a jpeg or png")

// Valid reports whether s is one of the known statuses.
func (s ReportStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// OrDefault returns Pending for reports persisted without a status.
func (s ReportStatus) OrDefault() ReportStatus {
	if s == "" {
		return StatusPending
	}
	return s
}

// AwardsResolution reports whether moving from s to next earns the resolution award.
// Re-saving Resolved over Resolved is not a transition.
func (s ReportStatus) AwardsResolution(next ReportStatus) bool {
	return next == StatusResolved && s.OrDefault() != StatusResolved
}

// Report is one citizen submission. Only Status changes after creation.
type Report struct {
	ID          string       `json:"id,omitempty"`
	Username    string       `json:"username"`
	Location    string       `json:"location"`
	Description string       `json:"description"`
	Image       *string      `json:"image"`
	Timestamp   string       `json:"timestamp"`
	Status      ReportStatus `json:"status"`
}

// TimestampLayout is the ISO-8601 layout used for report timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// FormatTimestamp renders t the way report timestamps are persisted.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Date returns the calendar date part of the timestamp (YYYY-MM-DD).
func (r *Report) Date() string {
	if len(r.Timestamp) < 10 {
		return r.Timestamp
	}
	return r.Timestamp[:10]
}

// ReportRef addresses a single report. ID wins when set; otherwise the legacy
// composite key (username, timestamp, location) is matched.
type ReportRef struct {
	ID        string
	Username  string
	Timestamp string
	Location  string
}

// Matches reports whether r is the report addressed by ref.
func (ref ReportRef) Matches(r *Report) bool {
	if ref.ID != "" {
		return r.ID == ref.ID
	}
	return r.Username == ref.Username && r.Timestamp == ref.Timestamp && r.Location == ref.Location
}

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// MapPoint is a geocoded report ready for map rendering.
type MapPoint struct {
	ReportID string       `json:"report_id,omitempty"`
	Location string       `json:"location"`
	Status   ReportStatus `json:"status"`
	Coordinates
}
