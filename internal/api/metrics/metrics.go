// Package metrics defines and registers all custom Prometheus metrics for the
// jobz web gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobz"

// ── Auth Service metrics ──────────────────────────────────────────────────────

// AuthCallsTotal counts calls to the Auth Service.
// Labels:
//   - operation: "me", "login" or "register"
//   - outcome: "ok", "unreachable", "rejected" or "malformed"
var AuthCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_calls_total",
		Help:      "Total number of Auth Service calls, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// AuthCallDuration measures Auth Service round trips.
// Label:
//   - operation: "me", "login" or "register"
var AuthCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "auth_call_duration_seconds",
		Help:      "Duration of Auth Service calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// GuardDecisionsTotal counts Route Guard outcomes.
// Label:
//   - decision: "pending", "denied_unauthenticated", "denied_role" or "granted"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard evaluations, by decision.",
	},
	[]string{"decision"},
)

// SessionsCached tracks how many browser sessions are held in memory.
var SessionsCached = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_cached",
		Help:      "Number of browser sessions currently cached in memory.",
	},
)

// RestoreQueueDepth tracks pending restorations in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var RestoreQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "restore_queue_depth",
		Help:      "Current number of session jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// RestoreDuration measures how long a queued session job takes.
var RestoreDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "restore_duration_seconds",
		Help:      "Duration of queued session jobs from dequeue to completion.",
		Buckets:   prometheus.DefBuckets,
	},
)
