// Package metrics exposes Prometheus instrumentation for the matching API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestDuration records request latency by route and status.
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "heartmatch_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// CandidatesReturned records how many candidates one selection produced.
	CandidatesReturned = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "heartmatch_candidates_returned",
		Help:    "Number of candidates returned per selection",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
	})

	// CandidateRejections counts pool members filtered out, labeled by the
	// first failing rule.
	CandidateRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "heartmatch_candidate_rejections_total",
		Help: "Candidates rejected by the two-sided filter",
	}, []string{"reason"}) // reason = "gender", "age", "reverse_gender", "reverse_age", "distance"

	// LikesTotal counts recorded likes by outcome: "like" or "match".
	LikesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "heartmatch_likes_total",
		Help: "Total number of likes recorded",
	}, []string{"outcome"})

	// MatchesCreated counts match rows that were newly inserted.
	MatchesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "heartmatch_matches_created_total",
		Help: "Total number of matches created",
	})

	// EventPublishFailures counts match events a sink failed to accept.
	EventPublishFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "heartmatch_event_publish_failures_total",
		Help: "Match events that could not be published",
	}, []string{"sink"})

	// WingmanEnrichments counts processed match:created events by result.
	WingmanEnrichments = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "heartmatch_wingman_enrichments_total",
		Help: "Matches processed by the wingman worker",
	}, []string{"result"}) // result = "ai", "fallback", "skipped", "error"

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "heartmatch_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"rule"})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		CandidatesReturned,
		CandidateRejections,
		LikesTotal,
		MatchesCreated,
		EventPublishFailures,
		WingmanEnrichments,
		RateLimited,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
