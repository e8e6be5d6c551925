package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration  prom.Histogram
	buildOutcome   *prom.CounterVec
	pagesLoaded    prom.Gauge
	verifyDuration prom.Histogram
	brokenLinks    prom.Gauge
	resolves       *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers registry metrics on reg.
// A nil reg gets a private registry (useful in tests).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docregistry",
			Name:      "build_duration_seconds",
			Help:      "Duration of registry load and validation",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docregistry",
			Name:      "build_outcomes_total",
			Help:      "Registry build outcomes by final status",
		}, []string{"outcome"}),
		pagesLoaded: prom.NewGauge(prom.GaugeOpts{
			Namespace: "docregistry",
			Name:      "pages_loaded",
			Help:      "Pages in the currently active registry",
		}),
		verifyDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docregistry",
			Name:      "link_verify_duration_seconds",
			Help:      "Duration of link verification runs",
			Buckets:   prom.DefBuckets,
		}),
		brokenLinks: prom.NewGauge(prom.GaugeOpts{
			Namespace: "docregistry",
			Name:      "broken_links",
			Help:      "Broken references found by the last verification run",
		}),
		resolves: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docregistry",
			Name:      "resolves_total",
			Help:      "Resolve lookups by hit/miss",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.pagesLoaded, pr.verifyDuration, pr.brokenLinks, pr.resolves)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome OutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetPagesLoaded(n int) {
	if p == nil || p.pagesLoaded == nil {
		return
	}
	p.pagesLoaded.Set(float64(n))
}

func (p *PrometheusRecorder) ObserveVerifyDuration(d time.Duration) {
	if p == nil || p.verifyDuration == nil {
		return
	}
	p.verifyDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetBrokenLinks(n int) {
	if p == nil || p.brokenLinks == nil {
		return
	}
	p.brokenLinks.Set(float64(n))
}

func (p *PrometheusRecorder) IncResolve(hit bool) {
	if p == nil || p.resolves == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	p.resolves.WithLabelValues(result).Inc()
}
