// Package metrics exposes Prometheus metrics for the allocation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the application's own prometheus registry, served on /metrics.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// AccountsAllocated counts allocation rows written across all requests.
var AccountsAllocated = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "kollect",
	Name:      "accounts_allocated_total",
	Help:      "Number of account allocations written",
})

// AccountsUnmatched counts input account numbers that failed every matching
// tier. A rising rate usually means a badly formatted upload list.
var AccountsUnmatched = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "kollect",
	Name:      "accounts_unmatched_total",
	Help:      "Number of requested account numbers with no stored match",
})

// PaymentsImported counts payment rows persisted by the file importer.
var PaymentsImported = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "kollect",
	Name:      "payments_imported_total",
	Help:      "Number of payment records imported from uploaded files",
})

// PaymentsRejected counts payment file lines dropped during parsing or
// persistence.
var PaymentsRejected = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "kollect",
	Name:      "payments_rejected_total",
	Help:      "Number of payment file records rejected",
})

// RequestsTotal counts handled HTTP requests by route and status class.
var RequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kollect",
	Name:      "http_requests_total",
	Help:      "Handled HTTP requests",
}, []string{"method", "path", "status"})
