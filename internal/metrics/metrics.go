// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Membership operation labels
const (
	OperationSignup     = "signup"
	OperationUnregister = "unregister"
)

// Membership outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeFull     = "full"
	OutcomeError    = "error"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activities_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "activities_http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	MembershipChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activities_membership_changes_total",
			Help: "Total number of signup and unregister attempts by outcome",
		},
		[]string{"operation", "outcome"},
	)

	ActivityParticipants = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "activities_participants",
			Help: "Current number of participants per activity",
		},
		[]string{"activity"},
	)

	ActivitySpotsLeft = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "activities_spots_left",
			Help: "Remaining advisory capacity per activity",
		},
		[]string{"activity"},
	)

	EventSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "activities_event_subscribers",
			Help: "Number of connected change-event stream subscribers",
		},
	)
)
