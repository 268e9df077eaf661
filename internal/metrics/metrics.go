// Package metrics exposes Prometheus instrumentation for the order engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors the engine and transports record into.
// Each instance owns its registry so tests can construct one freely.
type Metrics struct {
	registry *prometheus.Registry

	IncomingMessages *prometheus.CounterVec
	AssistRequests   *prometheus.CounterVec
	AssistLatency    *prometheus.HistogramVec
	ParseFallbacks   prometheus.Counter
	OrdersParsed     *prometheus.CounterVec
	OrdersCommitted  prometheus.Counter
	Errors           *prometheus.CounterVec
}

// New builds and registers all collectors under the given namespace.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		IncomingMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incoming_messages_total",
			Help:      "Messages received, by kind (text, command, callback).",
		}, []string{"kind"}),
		AssistRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assist_requests_total",
			Help:      "Model assist calls, by outcome.",
		}, []string{"outcome"}),
		AssistLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assist_latency_seconds",
			Help:      "Model assist round-trip latency, by HTTP status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		ParseFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_fallbacks_total",
			Help:      "Messages parsed locally after assist was unavailable or rejected.",
		}),
		OrdersParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_parsed_total",
			Help:      "Orders successfully parsed, by source (assist, local).",
		}, []string{"source"}),
		OrdersCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_committed_total",
			Help:      "Orders confirmed and written to the ledger.",
		}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Internal errors, by component.",
		}, []string{"component"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.IncomingMessages,
		m.AssistRequests,
		m.AssistLatency,
		m.ParseFallbacks,
		m.OrdersParsed,
		m.OrdersCommitted,
		m.Errors,
	)
	return m
}

// Handler serves this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
