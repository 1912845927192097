// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus metrics for the archive data layer.
// All collectors are registered via promauto with the default registry.
type Metrics struct {
	// DetailResolves counts detail resolutions, labeled by the source
	// that produced the result (cache, a remote path, or fallback).
	DetailResolves *prometheus.CounterVec

	// CacheHits counts detail requests served entirely from the store.
	CacheHits prometheus.Counter

	// FallbacksServed counts detail requests that ended in the stub.
	FallbacksServed prometheus.Counter

	// SeedsTotal counts store seed attempts, labeled by outcome
	// (seeded, noop, failed).
	SeedsTotal *prometheus.CounterVec

	// SeededRecords observes the record count per successful seed.
	SeededRecords prometheus.Histogram

	// IndexRebuildDuration observes search index rebuild time in seconds.
	IndexRebuildDuration prometheus.Histogram

	// SearchDuration observes query latency in seconds, labeled by kind
	// (search, typeahead).
	SearchDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the archive metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		DetailResolves: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bio_archive",
			Name:      "detail_resolves_total",
			Help:      "Detail resolutions by producing source.",
		}, []string{"source"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "bio_archive",
			Name:      "cache_hits_total",
			Help:      "Detail requests served from the record store.",
		}),
		FallbacksServed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "bio_archive",
			Name:      "fallbacks_served_total",
			Help:      "Detail requests answered with the offline stub.",
		}),
		SeedsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bio_archive",
			Name:      "seeds_total",
			Help:      "Store seed attempts by outcome.",
		}, []string{"outcome"}),
		SeededRecords: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bio_archive",
			Name:      "seeded_records",
			Help:      "Records written per successful seed.",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 6),
		}),
		IndexRebuildDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bio_archive",
			Name:      "index_rebuild_duration_seconds",
			Help:      "Search index rebuild duration.",
			Buckets:   prometheus.DefBuckets,
		}),
		SearchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bio_archive",
			Name:      "search_duration_seconds",
			Help:      "Query latency by kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
}
