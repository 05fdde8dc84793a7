// Package metrics keeps the client's counters in a private Prometheus
// registry. A nil *Metrics is valid and records nothing.
package metrics

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vidgallery"

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeAPIError    = "api_error"
	OutcomeUnavailable = "unavailable"
	OutcomeBadResponse = "bad_response"
	OutcomeSkipped     = "skipped"
	OutcomeFailed      = "failed"
)

type Metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	uploaded    prometheus.Counter
	navigations *prometheus.CounterVec
	preloads    *prometheus.CounterVec
}

// Sample is one gathered counter value.
type Sample struct {
	Name   string
	Labels string
	Value  float64
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Video API requests by operation and outcome.",
		}, []string{"op", "outcome"}),
		uploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Bytes of video sent in successful uploads.",
		}),
		navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_navigations_total",
			Help:      "Feed index changes by direction.",
		}, []string{"direction"}),
		preloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preload_hints_total",
			Help:      "Preload hints by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.requests, m.uploaded, m.navigations, m.preloads)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Request(op, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) Uploaded(bytes int64) {
	if m == nil || bytes <= 0 {
		return
	}
	m.uploaded.Add(float64(bytes))
}

func (m *Metrics) Navigated(direction string) {
	if m == nil {
		return
	}
	m.navigations.WithLabelValues(direction).Inc()
}

func (m *Metrics) Preload(outcome string) {
	if m == nil {
		return
	}
	m.preloads.WithLabelValues(outcome).Inc()
}

// Snapshot returns every counter currently in the registry, sorted by name
// and labels.
func (m *Metrics) Snapshot() ([]Sample, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			pairs := make([]string, 0, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				pairs = append(pairs, lp.GetName()+"="+lp.GetValue())
			}
			out = append(out, Sample{
				Name:   mf.GetName(),
				Labels: strings.Join(pairs, ","),
				Value:  metric.GetCounter().GetValue(),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Labels < out[j].Labels
	})
	return out, nil
}
