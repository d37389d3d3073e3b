package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const prefix = "estate_portal"

var (
	// Import pipeline metrics
	ImportFoldersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_import_folders_total",
			Help: "Property folders processed by the importer, by outcome",
		},
		[]string{"outcome"},
	)

	ImportMediaTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_import_media_total",
			Help: "Media files handled by the importer, by kind and result",
		},
		[]string{"kind", "result"},
	)

	ImportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    prefix + "_import_duration_seconds",
			Help:    "Duration of a whole import run",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	// Image resize cache
	ResizeCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_resize_cache_total",
			Help: "Image resize cache lookups, by result",
		},
		[]string{"result"},
	)
)

// Folder outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)
