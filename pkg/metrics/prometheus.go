package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	computation *prometheus.HistogramVec
	errorsTotal *prometheus.CounterVec
	cache       *prometheus.CounterVec
	alerts      *prometheus.CounterVec
	ingested    *prometheus.CounterVec
}

// New registers the collectors on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		computation: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finsight_computation_duration_seconds",
				Help:    "Duration of engine computations in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"engine", "op"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		cache: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_cache_requests_total",
				Help: "Cache lookups by cache and result",
			},
			[]string{"cache", "hit"},
		),
		alerts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_risk_alerts_total",
				Help: "Risk alerts published by severity",
			},
			[]string{"severity"},
		),
		ingested: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_ingested_total",
				Help: "Items ingested by source",
			},
			[]string{"source"},
		),
	}
}

// RecordComputation observes one engine call.
func (r *Recorder) RecordComputation(engine, op string, seconds float64) {
	r.computation.WithLabelValues(engine, op).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordCacheResult(cache string, hit bool) {
	r.cache.WithLabelValues(cache, strconv.FormatBool(hit)).Inc()
}

func (r *Recorder) RecordAlert(severity string) {
	r.alerts.WithLabelValues(severity).Inc()
}

func (r *Recorder) RecordIngested(source string) {
	r.ingested.WithLabelValues(source).Inc()
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordComputation(string, string, float64) {}
func (Nop) RecordError(string)                        {}
func (Nop) RecordCacheResult(string, bool)            {}
func (Nop) RecordAlert(string)                        {}
func (Nop) RecordIngested(string)                     {}
