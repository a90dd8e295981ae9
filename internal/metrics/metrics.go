// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchRequests counts product searches by the search type classifier.
	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "search",
		Name:      "requests_total",
		Help:      "Product search requests by search type.",
	}, []string{"search_type"})

	// SearchDuration observes end-to-end search engine latency.
	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "storefront",
		Subsystem: "search",
		Name:      "duration_seconds",
		Help:      "Search engine latency.",
		Buckets:   prometheus.DefBuckets,
	})

	// RelatedRequests counts related-parts lookups.
	RelatedRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "related",
		Name:      "requests_total",
		Help:      "Related-parts lookups.",
	})

	// SnapshotRefreshes counts dataset snapshot publications.
	SnapshotRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "dataset",
		Name:      "snapshot_refreshes_total",
		Help:      "Dataset snapshot publications, including the initial load.",
	})
)
