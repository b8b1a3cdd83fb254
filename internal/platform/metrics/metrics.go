package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "schedule_odds"

// Registry owns the service collectors. A nil *Registry is valid and records nothing.
type Registry struct {
	reg *prometheus.Registry

	relayAttempts   *prometheus.CounterVec
	pagesScraped    prometheus.Counter
	scheduleSource  *prometheus.CounterVec
	batchFailures   prometheus.Counter
	oddsLookups     *prometheus.CounterVec
	oddsStored      prometheus.Counter
	acquireDuration prometheus.Histogram
}

func New() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		relayAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_attempts_total",
			Help:      "Relay fetch attempts by relay host and outcome.",
		}, []string{"relay", "outcome"}),
		pagesScraped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_scraped_total",
			Help:      "Schedule pages fetched and parsed.",
		}),
		scheduleSource: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_reads_total",
			Help:      "Schedule reads by serving source.",
		}, []string{"source"}),
		batchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_batch_failures_total",
			Help:      "Schedule insert batches that failed and were dropped.",
		}),
		oddsLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "odds_lookups_total",
			Help:      "Odds cache lookups by outcome.",
		}, []string{"outcome"}),
		oddsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "odds_entries_stored_total",
			Help:      "Odds cache entries appended from provider refreshes.",
		}),
		acquireDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "acquisition_duration_seconds",
			Help:      "Duration of full schedule acquisitions.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.relayAttempts,
		r.pagesScraped,
		r.scheduleSource,
		r.batchFailures,
		r.oddsLookups,
		r.oddsStored,
		r.acquireDuration,
	)
	return r
}

func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

func (r *Registry) RelayAttempt(relay, outcome string) {
	if r == nil {
		return
	}
	r.relayAttempts.WithLabelValues(relay, outcome).Inc()
}

func (r *Registry) PageScraped() {
	if r == nil {
		return
	}
	r.pagesScraped.Inc()
}

func (r *Registry) ScheduleRead(source string) {
	if r == nil {
		return
	}
	r.scheduleSource.WithLabelValues(source).Inc()
}

func (r *Registry) BatchFailed() {
	if r == nil {
		return
	}
	r.batchFailures.Inc()
}

func (r *Registry) OddsLookup(outcome string) {
	if r == nil {
		return
	}
	r.oddsLookups.WithLabelValues(outcome).Inc()
}

func (r *Registry) OddsStored(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.oddsStored.Add(float64(n))
}

func (r *Registry) ObserveAcquisition(seconds float64) {
	if r == nil {
		return
	}
	r.acquireDuration.Observe(seconds)
}
