// Package metrics exports benchmark progress to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultCommit = "commit"
	ResultAbort  = "abort"
)

var (
	txnCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tpcc",
			Subsystem: "txn",
			Name:      "total",
			Help:      "Counter of finished transactions.",
		}, []string{"type", "result"})

	txnDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tpcc",
			Subsystem: "txn",
			Name:      "duration_seconds",
			Help:      "Bucketed histogram of transaction latency (s).",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 2, 24),
		}, []string{"type"})

	deliveryQueueGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tpcc",
			Subsystem: "delivery",
			Name:      "queued",
			Help:      "Deferred deliveries waiting for the background worker.",
		})

	tableRowsGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tpcc",
			Subsystem: "store",
			Name:      "rows",
			Help:      "Rows per table of the record store.",
		}, []string{"table"})

	loadDurationGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tpcc",
			Subsystem: "store",
			Name:      "load_duration_seconds",
			Help:      "Time spent populating the record store.",
		})
)

// Registry holds every benchmark metric. It is separate from the default
// registry so tests can gather it in isolation.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(txnCounter)
	Registry.MustRegister(txnDuration)
	Registry.MustRegister(deliveryQueueGauge)
	Registry.MustRegister(tableRowsGauge)
	Registry.MustRegister(loadDurationGauge)
}

// ObserveTxn records a finished transaction of type kind.
func ObserveTxn(kind string, committed bool, d time.Duration) {
	result := ResultCommit
	if !committed {
		result = ResultAbort
	}
	txnCounter.WithLabelValues(kind, result).Inc()
	txnDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func SetDeliveryQueue(n int64) {
	deliveryQueueGauge.Set(float64(n))
}

func SetTableRows(table string, n int) {
	tableRowsGauge.WithLabelValues(table).Set(float64(n))
}

func SetLoadDuration(d time.Duration) {
	loadDurationGauge.Set(d.Seconds())
}
