package luckbook

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "luckbook"

// MetricsCollector exports PerformanceMonitor counters to Prometheus.
// Values are read from the monitor on every scrape.
type MetricsCollector struct {
	monitor *PerformanceMonitor
	breaker *CircuitBreakerStore

	generations      *prometheus.Desc
	candidates       *prometheus.Desc
	batches          *prometheus.Desc
	setsProduced     *prometheus.Desc
	duplicates       *prometheus.Desc
	partialBatches   *prometheus.Desc
	storeErrors      *prometheus.Desc
	avgGenerationSec *prometheus.Desc
	breakerState     *prometheus.Desc
}

// NewMetricsCollector creates a collector over monitor; breaker may be nil
func NewMetricsCollector(monitor *PerformanceMonitor, breaker *CircuitBreakerStore) *MetricsCollector {
	return &MetricsCollector{
		monitor: monitor,
		breaker: breaker,
		generations: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "generator", "generations_total"),
			"Single-set generations by outcome.",
			[]string{"outcome"}, nil,
		),
		candidates: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "generator", "candidates_total"),
			"Candidate sets drawn, including rejected ones.",
			nil, nil,
		),
		batches: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "generator", "batches_total"),
			"Multi-set generation requests.",
			nil, nil,
		),
		setsProduced: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "generator", "batch_sets_total"),
			"Distinct sets returned by multi-set requests.",
			nil, nil,
		),
		duplicates: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "generator", "duplicate_sets_total"),
			"Sets discarded as duplicates within a request.",
			nil, nil,
		),
		partialBatches: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "generator", "partial_batches_total"),
			"Multi-set requests that hit the attempt cap.",
			nil, nil,
		),
		storeErrors: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "store", "errors_total"),
			"Store operations that failed after retries.",
			nil, nil,
		),
		avgGenerationSec: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "generator", "generation_seconds_avg"),
			"Average duration of a single-set generation.",
			nil, nil,
		),
		breakerState: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "store", "circuit_breaker_state"),
			"Store circuit breaker state: 0 closed, 1 half-open, 2 open, -1 disabled.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.generations
	ch <- c.candidates
	ch <- c.batches
	ch <- c.setsProduced
	ch <- c.duplicates
	ch <- c.partialBatches
	ch <- c.storeErrors
	ch <- c.avgGenerationSec
	ch <- c.breakerState
}

// Collect implements prometheus.Collector
func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	m := c.monitor.GetMetrics()

	ch <- prometheus.MustNewConstMetric(c.generations, prometheus.CounterValue, float64(m.ValidatedGenerations), "validated")
	ch <- prometheus.MustNewConstMetric(c.generations, prometheus.CounterValue, float64(m.UnvalidatedGenerations), "unvalidated")
	ch <- prometheus.MustNewConstMetric(c.generations, prometheus.CounterValue, float64(m.FallbackGenerations), "fallback")
	ch <- prometheus.MustNewConstMetric(c.candidates, prometheus.CounterValue, float64(m.CandidateAttempts))
	ch <- prometheus.MustNewConstMetric(c.batches, prometheus.CounterValue, float64(m.BatchRequests))
	ch <- prometheus.MustNewConstMetric(c.setsProduced, prometheus.CounterValue, float64(m.SetsProduced))
	ch <- prometheus.MustNewConstMetric(c.duplicates, prometheus.CounterValue, float64(m.DuplicateSets))
	ch <- prometheus.MustNewConstMetric(c.partialBatches, prometheus.CounterValue, float64(m.PartialBatches))
	ch <- prometheus.MustNewConstMetric(c.storeErrors, prometheus.CounterValue, float64(m.StoreErrors))
	ch <- prometheus.MustNewConstMetric(c.avgGenerationSec, prometheus.GaugeValue, m.GetAverageGenerationTime().Seconds())

	state := -1
	if c.breaker != nil {
		state = stateToNumeric(c.breaker.State())
	}
	ch <- prometheus.MustNewConstMetric(c.breakerState, prometheus.GaugeValue, float64(state))
}

// NewMetricsRegistry registers the collector on a private registry
func NewMetricsRegistry(collector *MetricsCollector) (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collector); err != nil {
		return nil, err
	}
	return registry, nil
}
