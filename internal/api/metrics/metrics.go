// Package metrics defines and registers the custom Prometheus metrics for
// the book catalog API. It is the single source of truth for metric names,
// labels, and help strings. Metrics are registered with the default registry
// at package load via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ── Book metrics ──────────────────────────────────────────────────────────────

// BooksCreatedTotal counts books added to the catalog.
// Label:
//   - genre: the genre supplied on creation
var BooksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_created_total",
		Help:      "Total number of books created, by genre.",
	},
	[]string{"genre"},
)

// BooksDeletedTotal counts hard deletes of catalog records.
var BooksDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "books_deleted_total",
		Help:      "Total number of books deleted.",
	},
)

// YearStatsQueriesTotal counts stats lookups.
// Label:
//   - result: "hit" (books found for the year) or "empty" (404)
var YearStatsQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "year_stats_queries_total",
		Help:      "Total number of per-year statistics queries, by result.",
	},
	[]string{"result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// TokensIssuedTotal counts successful token issuances.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued.",
	},
)

// TokensRevokedTotal counts logouts.
var TokensRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of bearer tokens revoked via logout.",
	},
)

// AuthFailuresTotal counts rejected requests at the auth boundary.
// Label:
//   - reason: "missing_header", "bad_scheme", "invalid_token", "revoked",
//     "bad_credentials"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of authentication failures, by reason.",
	},
	[]string{"reason"},
)
