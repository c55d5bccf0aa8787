package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "metascan_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FunctionsExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "metascan_functions_extracted_total",
		Help: "Total number of function records extracted.",
	}, []string{"language"})

	DecoratedFunctions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "metascan_decorated_functions_total",
		Help: "Total number of extracted functions carrying at least one decorator.",
	}, []string{"language"})

	ImportBindings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "metascan_import_bindings_total",
		Help: "Total number of local import bindings resolved.",
	}, []string{"language"})

	BindingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metascan_binding_conflicts_total",
		Help: "Total number of duplicate local import names detected.",
	})

	ParseErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "metascan_parse_errors_total",
		Help: "Total number of files rejected with a syntax error.",
	}, []string{"language"})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "metascan_scan_seconds",
		Help:    "Time spent on a full scan pass.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metascan_watcher_events_total",
		Help: "Total number of file system change batches received by the watcher.",
	})
)
