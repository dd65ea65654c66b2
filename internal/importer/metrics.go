package importer

import "github.com/prometheus/client_golang/prometheus"

var (
	rowsImported = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "strengthlog",
		Subsystem: "import",
		Name:      "rows_imported_total",
		Help:      "Number of spreadsheet rows materialized as activity events.",
	})

	rowsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "strengthlog",
		Subsystem: "import",
		Name:      "rows_skipped_total",
		Help:      "Number of spreadsheet rows dropped for malformed structure or dates.",
	})

	runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "strengthlog",
		Subsystem: "import",
		Name:      "run_duration_seconds",
		Help:      "Time spent parsing and persisting a full import run.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(rowsImported, rowsSkipped, runDuration)
}
