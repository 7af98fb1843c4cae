package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exports supplier search metrics to Prometheus
type Recorder struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	searchResults prometheus.Histogram
}

// NewRecorder creates the supplier search collectors and registers them on reg
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supplierlens",
			Name:      "fetch_total",
			Help:      "Supplier source fetches by outcome.",
		}, []string{"source", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "supplierlens",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent in one supplier source fetch.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 30},
		}, []string{"source"}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "supplierlens",
			Name:      "search_results",
			Help:      "Suppliers returned per search.",
			Buckets:   []float64{0, 1, 2, 5, 10, 15, 20},
		}),
	}

	for _, c := range []prometheus.Collector{r.fetchTotal, r.fetchDuration, r.searchResults} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveFetch counts one source fetch and records how long it took
func (r *Recorder) ObserveFetch(source, outcome string, elapsed time.Duration) {
	r.fetchTotal.WithLabelValues(source, outcome).Inc()
	r.fetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveResults records the size of one search response
func (r *Recorder) ObserveResults(count int) {
	r.searchResults.Observe(float64(count))
}
