// Package metrics defines and registers all custom Prometheus metrics for the
// bookstore API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on import via
// promauto; HTTP request metrics come from echoprometheus and notification
// metrics from the queue package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookstore"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthLoginsTotal counts login attempts.
// Labels:
//   - scope: "user" or "admin"
//   - result: "success", "invalid_credentials", "unverified", "inactive" or "error"
var AuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by scope and result.",
	},
	[]string{"scope", "result"},
)

// AuthRejectionsTotal counts requests rejected by an authenticator.
// Labels:
//   - scope: "user" or "admin"
//   - reason: "missing_header", "revoked", "invalid_token", "not_found", "inactive" or "error"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by an authenticator.",
	},
	[]string{"scope", "reason"},
)

// AuthRevocationsTotal counts successful logouts.
// Label:
//   - scope: "user" or "admin"
var AuthRevocationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_revocations_total",
		Help:      "Total number of tokens revoked through logout.",
	},
	[]string{"scope"},
)
