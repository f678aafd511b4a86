// Package metrics exposes Prometheus collectors for harvest runs.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	harvestDocumentsTotal *prometheus.CounterVec
	harvestBytesTotal     prometheus.Counter
	harvestFetchSeconds   prometheus.Histogram

	once sync.Once
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		harvestDocumentsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvest_documents_total",
				Help: "Documents processed, labeled by classification outcome.",
			},
			[]string{"outcome"},
		)

		harvestBytesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "harvest_bytes_total",
				Help: "Total bytes downloaded.",
			},
		)

		harvestFetchSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "harvest_fetch_duration_seconds",
				Help:    "Histogram of document fetch latencies.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		)
	})
}

// ObserveDocument increments the outcome counter for one document.
func ObserveDocument(outcome string) {
	if harvestDocumentsTotal == nil {
		return
	}
	harvestDocumentsTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetch records a successful transfer's size and duration.
func ObserveFetch(bytes int, duration time.Duration) {
	if harvestBytesTotal == nil {
		return
	}
	harvestBytesTotal.Add(float64(bytes))
	harvestFetchSeconds.Observe(duration.Seconds())
}

// Handler returns an http.Handler exposing the Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
