// Package metrics records degraded-quality paths and request timings. The
// Recorder interface is what services depend on; Prometheus backs it in the
// server and Nop in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives events from the generation pipeline.
type Recorder interface {
	// FallbackInstructionsUsed is recorded when a brand has not configured
	// instructions for a content type and the generic block was substituted.
	FallbackInstructionsUsed(brandID, contentType string)
	// PatternExtractionFailed is recorded when the model reply for a pattern
	// group could not be obtained or parsed.
	PatternExtractionFailed(brandID, contentType string)
	// VariationValidationFailed is recorded once per ad variation that
	// breaks the detected format's rules.
	VariationValidationFailed(format string)
	// ObserveGeneration records the duration and outcome of one model call.
	ObserveGeneration(kind, tier string, d time.Duration, err error)
}

// Nop discards every event.
type Nop struct{}

func (Nop) FallbackInstructionsUsed(string, string)                {}
func (Nop) PatternExtractionFailed(string, string)                 {}
func (Nop) VariationValidationFailed(string)                       {}
func (Nop) ObserveGeneration(string, string, time.Duration, error) {}

// Prometheus implements Recorder with counters and histograms registered
// on its own registry.
type Prometheus struct {
	registry *prometheus.Registry

	fallback   *prometheus.CounterVec
	extraction *prometheus.CounterVec
	validation *prometheus.CounterVec
	generation *prometheus.HistogramVec
	genErrors  *prometheus.CounterVec
	requests   *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them, together with the
// Go runtime and process collectors, on a fresh registry.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		fallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brandstudio",
			Name:      "fallback_instructions_total",
			Help:      "Generations that used the generic fallback instructions.",
		}, []string{"brand", "content_type"}),
		extraction: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brandstudio",
			Name:      "pattern_extraction_failed_total",
			Help:      "Pattern extraction calls that returned an empty result.",
		}, []string{"brand", "content_type"}),
		validation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brandstudio",
			Name:      "variation_validation_failed_total",
			Help:      "Ad copy variations that broke their format rules.",
		}, []string{"format"}),
		generation: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "brandstudio",
			Name:      "generation_duration_seconds",
			Help:      "Latency of model calls.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"kind", "tier"}),
		genErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brandstudio",
			Name:      "generation_errors_total",
			Help:      "Model calls that returned an error.",
		}, []string{"kind", "tier"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "brandstudio",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		p.fallback, p.extraction, p.validation, p.generation, p.genErrors, p.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

func (p *Prometheus) FallbackInstructionsUsed(brandID, contentType string) {
	p.fallback.WithLabelValues(brandID, contentType).Inc()
}

func (p *Prometheus) PatternExtractionFailed(brandID, contentType string) {
	p.extraction.WithLabelValues(brandID, contentType).Inc()
}

func (p *Prometheus) VariationValidationFailed(format string) {
	p.validation.WithLabelValues(format).Inc()
}

func (p *Prometheus) ObserveGeneration(kind, tier string, d time.Duration, err error) {
	p.generation.WithLabelValues(kind, tier).Observe(d.Seconds())
	if err != nil {
		p.genErrors.WithLabelValues(kind, tier).Inc()
	}
}

// ObserveRequest records one HTTP request. route is the matched route
// pattern, not the raw path, to keep label cardinality bounded.
func (p *Prometheus) ObserveRequest(method, route string, status int, d time.Duration) {
	p.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
