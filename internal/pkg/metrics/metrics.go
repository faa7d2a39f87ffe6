// Package metrics defines and registers all custom Prometheus metrics for the
// civic reports service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// through promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric of the service, including the HTTP middleware ones.
const Namespace = "civic"

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportsSubmittedTotal counts stored reports.
// Label:
//   - image: "true" when a photo was attached, otherwise "false"
var ReportsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "reports_submitted_total",
		Help:      "Total number of reports submitted.",
	},
	[]string{"image"},
)

// ReportStatusChangesTotal counts applied status updates.
// Labels:
//   - from: status before the update (e.g. "Pending")
//   - to:   status after the update (e.g. "Resolved")
var ReportStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "report_status_changes_total",
		Help:      "Total number of report status updates, by previous and new status.",
	},
	[]string{"from", "to"},
)

// ── Token metrics ─────────────────────────────────────────────────────────────

// TokensAwardedTotal sums awarded tokens.
// Label:
//   - reason: "submit", "image" or "resolve"
var TokensAwardedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "tokens_awarded_total",
		Help:      "Total number of tokens awarded, by reason.",
	},
	[]string{"reason"},
)

// ── Geocode metrics ───────────────────────────────────────────────────────────

// GeocodeLookupsTotal counts geocode requests.
// Label:
//   - result: "hit", "shared_hit", "negative_hit", "miss", "error", "not_found" or "bypass"
var GeocodeLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "geocode_lookups_total",
		Help:      "Total number of geocode lookups, labelled by cache result.",
	},
	[]string{"result"},
)

// GeocodeProviderDuration measures calls to the external geocoding service.
var GeocodeProviderDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "geocode_provider_duration_seconds",
		Help:      "Duration of external geocoding requests.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
