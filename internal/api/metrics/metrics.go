// Package metrics defines and registers all custom Prometheus metrics for the
// YouBook booking API. It is the single source of truth for metric names,
// labels, and help strings. Metrics self-register with the default registry
// via promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "youbook"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts across the regular and admin endpoints.
// Label:
//   - outcome: "success", "failure", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// SignupsTotal counts provisioning attempts.
// Labels:
//   - kind: "passenger" or "admin"
//   - outcome: "success" or "failure"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup provisioning attempts, by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)
