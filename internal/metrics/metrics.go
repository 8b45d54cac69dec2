package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// Record reasons, used as the "reason" label on RecordsTotal
const (
	ReasonInitial   = "initial"
	ReasonThreshold = "threshold"
	ReasonStale     = "stale"
)

var (
	// Sampling metrics
	ReadFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sensorpub_read_failures_total",
		Help: "Total number of failed sensor reads",
	}, []string{"sensor"})
	RecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sensorpub_records_total",
		Help: "Total number of readings recorded into the outgoing batch",
	}, []string{"sensor", "reason"})
	BatchEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sensorpub_batch_entries",
		Help: "Number of entries waiting in the outgoing batch",
	})

	// Publish metrics
	PublishesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sensorpub_publishes_total",
		Help: "Total number of successfully published batches",
	})
	PublishFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sensorpub_publish_failures_total",
		Help: "Total number of failed publish attempts",
	})
	PublishesDeferredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sensorpub_publishes_deferred_total",
		Help: "Total number of publishes deferred by the minimum publish interval",
	})
	PublishDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sensorpub_publish_duration_seconds",
		Help:    "Duration of publish operations in seconds",
		Buckets: prometheus.DefBuckets,
	})

	registerOnce sync.Once
)

func init() {
	InitMetrics()
}

// InitMetrics registers all Prometheus collectors used by the application.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ReadFailuresTotal,
			RecordsTotal,
			BatchEntries,
			PublishesTotal,
			PublishFailuresTotal,
			PublishesDeferredTotal,
			PublishDurationSeconds,
		)
	})
}

// Handler returns an HTTP handler that exposes the registered Prometheus metrics.
func Handler() http.Handler {
	InitMetrics()
	return promhttp.Handler()
}

// IncReadFailure counts a failed read for one sensor.
func IncReadFailure(sensor string) {
	InitMetrics()
	ReadFailuresTotal.WithLabelValues(sensor).Inc()
}

// IncRecord counts a reading recorded into the batch.
func IncRecord(sensor, reason string) {
	InitMetrics()
	RecordsTotal.WithLabelValues(sensor, reason).Inc()
}

// SetBatchEntries tracks the pending batch size.
func SetBatchEntries(entries int) {
	InitMetrics()
	BatchEntries.Set(float64(entries))
}

// RecordPublish tracks a successfully published batch.
func RecordPublish(duration time.Duration) {
	InitMetrics()
	if duration < 0 {
		duration = 0
	}
	PublishesTotal.Inc()
	PublishDurationSeconds.Observe(duration.Seconds())
}

// IncPublishFailure counts a publish attempt rejected by the sink.
func IncPublishFailure() {
	InitMetrics()
	PublishFailuresTotal.Inc()
}

// IncPublishDeferred counts a publish held back by the minimum interval.
func IncPublishDeferred() {
	InitMetrics()
	PublishesDeferredTotal.Inc()
}
