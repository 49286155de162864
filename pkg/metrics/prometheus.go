package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	refreshes       *prometheus.CounterVec
	classifications *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	brickCount      *prometheus.GaugeVec
	fetchLatency    *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		refreshes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mercado_refreshes_total",
				Help: "Chart refresh cycles by asset and result",
			},
			[]string{"asset", "result"},
		),
		classifications: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mercado_classifications_total",
				Help: "Asset classifications by sentiment",
			},
			[]string{"sentiment"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mercado_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		brickCount: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "mercado_bricks",
				Help: "Brick count of the last published chart",
			},
			[]string{"asset"},
		),
		fetchLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mercado_fetch_duration_seconds",
				Help:    "Market data fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"asset"},
		),
	}
}

// RecordRefresh records the outcome of one refresh cycle.
func (r *Recorder) RecordRefresh(asset, result string) {
	r.refreshes.WithLabelValues(asset, result).Inc()
}

// RecordClassification records a classification by sentiment.
func (r *Recorder) RecordClassification(sentiment string) {
	r.classifications.WithLabelValues(sentiment).Inc()
}

// RecordFetchLatency records market fetch latency in seconds.
func (r *Recorder) RecordFetchLatency(asset string, seconds float64) {
	r.fetchLatency.WithLabelValues(asset).Observe(seconds)
}

// RecordBrickCount records the brick count of the published chart.
func (r *Recorder) RecordBrickCount(asset string, n int) {
	r.brickCount.WithLabelValues(asset).Set(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
