package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LinkMetrics holds the Prometheus collectors of the shortlink service.
type LinkMetrics struct {
	// Redirect flow
	RedirectsTotal         prometheus.CounterVec
	RedirectsNotFoundTotal prometheus.Counter
	RedirectDuration       prometheus.Histogram

	// Link registry
	LinksCreatedTotal prometheus.CounterVec

	// Event accounting
	EventsTrackedTotal prometheus.CounterVec
	RevenueEarnedTotal prometheus.CounterVec

	// Security engine
	LoginAttemptsTotal prometheus.CounterVec
	AutoBansTotal      prometheus.Counter

	// Errors
	LinkErrorsTotal prometheus.CounterVec
}

func NewLinkMetrics() *LinkMetrics {
	return &LinkMetrics{
		RedirectsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shortlink_redirects_total",
				Help: "Redirects served, by monetizer service",
			},
			[]string{"monetizer_service"},
		),

		RedirectsNotFoundTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "shortlink_redirects_not_found_total",
				Help: "Redirect requests for unknown or inactive codes",
			},
		),

		RedirectDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "shortlink_redirect_duration_seconds",
				Help:    "Redirect resolution latency",
				Buckets: prometheus.DefBuckets,
			},
		),

		LinksCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shortlink_links_created_total",
				Help: "Monetized links created, by monetizer service",
			},
			[]string{"monetizer_service"},
		),

		EventsTrackedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shortlink_events_tracked_total",
				Help: "Monetization events recorded, by type",
			},
			[]string{"event_type"},
		),

		RevenueEarnedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shortlink_revenue_earned_total",
				Help: "Estimated revenue accumulated, by monetizer service",
			},
			[]string{"monetizer_service"},
		),

		LoginAttemptsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shortlink_login_attempts_total",
				Help: "Admin login attempts, by outcome",
			},
			[]string{"outcome"},
		),

		AutoBansTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "shortlink_auto_bans_total",
				Help: "IPs auto-banned by the security engine",
			},
		),

		LinkErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shortlink_errors_total",
				Help: "Failures by operation",
			},
			[]string{"operation"},
		),
	}
}
