package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirillkom/docproof/internal/core/domain"
)

// WorkerMetrics records job processing. It implements the job, chunk and
// provider observers used by the worker pipeline.
type WorkerMetrics struct {
	service  string
	registry *prometheus.Registry

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	queueLag        *prometheus.HistogramVec

	chunkTotal     *prometheus.CounterVec
	chunkDuration  *prometheus.HistogramVec
	providerCalls  *prometheus.CounterVec
	fallbacksTotal *prometheus.CounterVec
	breakerState   *prometheus.GaugeVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "job_process_total",
			Help:      "Total processed jobs by final status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "job_process_duration_seconds",
			Help:      "Job processing duration in seconds by final status.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200, 2400},
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "job_process_in_flight",
			Help:      "Number of in-flight jobs.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between job submission and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	chunkTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chunks",
			Name:      "processed_total",
			Help:      "Processed chunks by outcome and response parse tier.",
		},
		[]string{"service", "outcome", "parse_tier"},
	)
	chunkDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chunks",
			Name:      "duration_seconds",
			Help:      "Per-chunk provider round trip in seconds.",
			Buckets:   []float64{1, 2, 5, 10, 20, 40, 60, 90, 120, 180},
		},
		[]string{"service", "outcome"},
	)
	providerCalls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "provider_calls_total",
			Help:      "Provider calls by provider and outcome.",
		},
		[]string{"service", "provider", "outcome"},
	)
	fallbacksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "fallbacks_total",
			Help:      "Fallbacks to the secondary provider by outcome.",
		},
		[]string{"service", "outcome"},
	)
	breakerState := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "resilience",
			Name:      "breaker_state",
			Help:      "Circuit breaker state per operation: 0 closed, 1 half-open, 2 open.",
		},
		[]string{"service", "operation"},
	)

	registry.MustRegister(
		processTotal,
		processDuration,
		processInFlight,
		queueLag,
		chunkTotal,
		chunkDuration,
		providerCalls,
		fallbacksTotal,
		breakerState,
	)

	return &WorkerMetrics{
		service:         service,
		registry:        registry,
		processTotal:    processTotal,
		processDuration: processDuration,
		processInFlight: processInFlight,
		queueLag:        queueLag,
		chunkTotal:      chunkTotal,
		chunkDuration:   chunkDuration,
		providerCalls:   providerCalls,
		fallbacksTotal:  fallbacksTotal,
		breakerState:    breakerState,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartJob() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishJob() {
	m.processInFlight.Dec()
}

func (m *WorkerMetrics) ObserveJob(status domain.JobStatus, duration time.Duration) {
	m.processTotal.WithLabelValues(m.service, string(status)).Inc()
	m.processDuration.WithLabelValues(m.service, string(status)).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(m.service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) ObserveChunk(outcome, parseTier string, duration time.Duration) {
	if parseTier == "" {
		parseTier = "none"
	}
	m.chunkTotal.WithLabelValues(m.service, outcome, parseTier).Inc()
	m.chunkDuration.WithLabelValues(m.service, outcome).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveProviderCall(provider domain.Provider, outcome string) {
	m.providerCalls.WithLabelValues(m.service, string(provider), outcome).Inc()
}

func (m *WorkerMetrics) ObserveFallback(outcome string) {
	m.fallbacksTotal.WithLabelValues(m.service, outcome).Inc()
}

// ObserveBreakerState matches resilience.StateObserver.
func (m *WorkerMetrics) ObserveBreakerState(operation, _, to string) {
	value := 0.0
	switch to {
	case "half-open":
		value = 1
	case "open":
		value = 2
	}
	m.breakerState.WithLabelValues(m.service, operation).Set(value)
}
