// ReadNext - Book Recommendation Service
// Copyright 2026 ReadNext Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/readnext/readnext

// Package metrics provides Prometheus instrumentation for ReadNext:
// API endpoint latency and throughput, snapshot build timings, and
// recommendation query outcomes. All metrics register on the default
// registry and are exposed via promhttp on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Snapshot build metrics
	SnapshotBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_builds_total",
			Help: "Total number of recommendation snapshot builds",
		},
		[]string{"result"}, // "success" or "error"
	)

	SnapshotBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "snapshot_build_duration_seconds",
			Help:    "Duration of snapshot builds (ingest + similarity) in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	SnapshotUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_users",
			Help: "Number of users in the currently served snapshot",
		},
	)

	SnapshotItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_items",
			Help: "Number of items in the currently served snapshot",
		},
	)

	SnapshotRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_ratings",
			Help: "Number of stored ratings (nnz) in the currently served snapshot",
		},
	)

	// Recommendation query metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation queries",
		},
		[]string{"outcome"}, // "ok", "empty", "not_found", "unavailable"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of a single recommendation query in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendationResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_results",
			Help:    "Number of items returned per recommendation query",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSnapshotBuild records a snapshot build attempt.
func RecordSnapshotBuild(duration time.Duration, users, items, ratings int, err error) {
	if err != nil {
		SnapshotBuildsTotal.WithLabelValues("error").Inc()
		return
	}
	SnapshotBuildsTotal.WithLabelValues("success").Inc()
	SnapshotBuildDuration.Observe(duration.Seconds())
	SnapshotUsers.Set(float64(users))
	SnapshotItems.Set(float64(items))
	SnapshotRatings.Set(float64(ratings))
}

// RecordRecommendation records the outcome of one recommendation query.
func RecordRecommendation(outcome string, duration time.Duration, results int) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(duration.Seconds())
	if outcome == "ok" || outcome == "empty" {
		RecommendationResults.Observe(float64(results))
	}
}
