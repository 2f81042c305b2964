// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	// TableLoads counts table loads by table kind and result.
	TableLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aeo_table_loads_total",
		Help: "Total input table loads by table and status",
	}, []string{"table", "status"})

	// TableRows is the row count of the most recent successful load.
	TableRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "aeo_table_rows",
		Help: "Rows in the most recently loaded table",
	}, []string{"table"})

	// TableLoadDuration tracks load latency per table.
	TableLoadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aeo_table_load_duration_seconds",
		Help:    "Table load duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	}, []string{"table"})

	// QueryDuration tracks report computation latency.
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aeo_query_duration_seconds",
		Help:    "Report computation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
	}, []string{"report", "status"})

	// SnapshotRefreshes counts shared-snapshot refreshes by trigger and result.
	SnapshotRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aeo_snapshot_refreshes_total",
		Help: "Total snapshot refreshes by trigger and status",
	}, []string{"trigger", "status"})

	// SnapshotLoadedAt is the unix time at which the active snapshot was loaded.
	SnapshotLoadedAt = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "aeo_snapshot_loaded_timestamp_seconds",
		Help: "Unix time the active snapshot was loaded",
	})
)

// Status maps an error onto a status label value.
func Status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}

// ObserveQuery records the duration of one report computation.
func ObserveQuery(report string, start time.Time, err error) {
	QueryDuration.WithLabelValues(report, Status(err)).Observe(time.Since(start).Seconds())
}
