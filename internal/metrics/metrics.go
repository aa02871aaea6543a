// Package metrics exposes Prometheus collectors for the synchronizer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PassesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "searchsync_passes_total",
		Help: "Total number of synchronization passes, by result",
	}, []string{"result"})

	PassDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "searchsync_pass_duration_seconds",
		Help:    "Duration of synchronization passes",
		Buckets: prometheus.DefBuckets,
	})

	TasksApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "searchsync_tasks_applied_total",
		Help: "Total number of tasks applied to an index",
	})

	DocumentsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "searchsync_documents_stored_total",
		Help: "Total number of documents stored into indices",
	})

	DocumentsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "searchsync_documents_deleted_total",
		Help: "Total number of document delete commands issued",
	})

	WatermarkCommits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "searchsync_watermark_commits_total",
		Help: "Total number of watermark batch commits",
	})
)
