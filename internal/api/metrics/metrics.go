// Package metrics defines the custom Prometheus metrics for the accusitions
// auth API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric the service exports.
const Namespace = "accusitions"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthRequestsTotal counts auth operations by result.
// Labels:
//   - operation: "signup", "signin" or "signout"
//   - outcome: audit outcome (e.g. "success", "account_exists", "invalid_credentials", "error")
var AuthRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "auth_requests_total",
		Help:      "Total number of auth operations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// TokensIssuedTotal counts session tokens minted.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of session tokens issued.",
	},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts audit events dropped because a worker channel was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit events dropped due to a full queue.",
	},
)

// AuditErrorsTotal counts audit events that could not be persisted.
var AuditErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of audit events that failed to persist.",
	},
)

// AuditProcessingDuration measures how long recording a single audit event takes.
var AuditProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "audit_processing_duration_seconds",
		Help:      "Duration of audit event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)
