package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for report ingestion and sync runs, exported on /metrics.
var (
	reportsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fundpulse_reports_ingested_total",
		Help: "Number of report workbooks ingested, by report type and outcome.",
	}, []string{"type", "status"})

	syncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fundpulse_sync_runs_total",
		Help: "Number of bucket sync runs, by outcome.",
	}, []string{"status"})

	assistantRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fundpulse_assistant_requests_total",
		Help: "Number of assistant chat completions, by outcome.",
	}, []string{"status"})
)
