// Package metrics defines and registers all custom Prometheus metrics for
// the account service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at init time and
// are exposed on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// ── Patch metrics ─────────────────────────────────────────────────────────────

// PatchesTotal counts patch requests by terminal outcome.
// Label:
//   - outcome: "success", "not_found", "forbidden", "validation_failed",
//     "version_conflict", or "error"
var PatchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "patches_total",
		Help:      "Total number of user patch requests, by outcome.",
	},
	[]string{"outcome"},
)

// PatchDuration measures how long a single patch takes end-to-end.
var PatchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "patch_duration_seconds",
		Help:      "Duration of user patch handling from decode to response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// TokensReissuedTotal counts credentials reissued after self-updates.
var TokensReissuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_reissued_total",
		Help:      "Total number of credentials reissued after self-updates.",
	},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the current number of audit entries waiting in
// each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts audit entries dropped because a worker buffer
// was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit entries dropped due to full worker buffers.",
	},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheLookupsTotal counts user-view cache lookups.
// Label:
//   - result: "hit" or "miss"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of user view cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
