// Package metrics defines and registers the custom Prometheus metrics of the
// SmartTask service. Metrics are registered with the default registry on
// package initialisation through promauto; HTTP request metrics come from the
// echoprometheus middleware installed by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smarttask"

// ── Task lifecycle ────────────────────────────────────────────────────────────

// TasksCreatedTotal counts newly created tasks.
// Label:
//   - priority: "low", "medium" or "high"
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by priority.",
	},
	[]string{"priority"},
)

// TaskStatusTransitionsTotal counts applied status changes. No-op updates are
// not counted.
var TaskStatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_status_transitions_total",
		Help:      "Total number of task status transitions, by source and target status.",
	},
	[]string{"from", "to"},
)

// ── Notifications ─────────────────────────────────────────────────────────────

// NotificationsEmittedTotal counts notification records written.
// Label:
//   - kind: the tracked event (e.g. "task_created", "status_changed")
var NotificationsEmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_emitted_total",
		Help:      "Total number of notifications recorded, by event kind.",
	},
	[]string{"kind"},
)

// EmailsSentTotal counts email attempts.
// Label:
//   - result: "sent" or "failed"
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of notification email attempts, by result.",
	},
	[]string{"result"},
)

// ── AI drafting ───────────────────────────────────────────────────────────────

// AIRequestsTotal counts drafting operations.
// Labels:
//   - operation: "draft", "priority" or "speech"
//   - result: "ok", "error" or "fallback"
var AIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_requests_total",
		Help:      "Total number of AI drafting operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// AIRequestDuration measures end-to-end drafting latency, backend calls included.
var AIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ai_request_duration_seconds",
		Help:      "Duration of AI drafting operations.",
		Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 20, 40},
	},
	[]string{"operation"},
)
