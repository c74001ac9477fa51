package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the self-instrumentation registry published during
// generation and profile aggregation: it is queried by nothing in this
// process, only scraped, mirroring the teacher's gRPC/solve metrics
// container but re-labeled for the pipeline's own stages.
type Metrics struct {
	GenerationsTotal     *prometheus.CounterVec
	GenerationDuration   *prometheus.HistogramVec
	SamplerRejections    *prometheus.CounterVec
	ColoringRetries      *prometheus.HistogramVec
	GraphVertexCount     *prometheus.HistogramVec
	GraphEdgeCount       *prometheus.HistogramVec
	AggregationsTotal    *prometheus.CounterVec
	AggregationsInFlight prometheus.Gauge
	AggregationDuration  *prometheus.HistogramVec
	LeveneInstabilities  *prometheus.CounterVec

	// Системные метрики
	MemoryUsage *prometheus.GaugeVec
	Goroutines  prometheus.Gauge

	// Информация о сервисе
	ServiceInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// InitMetrics инициализирует метрики
func InitMetrics(namespace, subsystem string) *Metrics {
	m := &Metrics{
		GenerationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "generations_total",
				Help:      "Total number of application-graph generation runs",
			},
			[]string{"mode", "status"},
		),

		GenerationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "generation_duration_seconds",
				Help:      "Duration of a full Assembly run",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"mode"},
		),

		SamplerRejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sampler_rejections_total",
				Help:      "Total number of rejected G(n,m) candidate graphs",
			},
			[]string{"reason"},
		),

		ColoringRetries: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "coloring_retries",
				Help:      "Number of color-reassignment retries before an equitable coloring was found",
				Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
			},
			[]string{"mode"},
		),

		GraphVertexCount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "graph_vertex_count",
				Help:      "Number of vertices in generated application graphs",
				Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000},
			},
			[]string{"mode"},
		),

		GraphEdgeCount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "graph_edge_count",
				Help:      "Number of edges in generated application graphs",
				Buckets:   []float64{20, 100, 500, 1000, 5000, 10000, 50000},
			},
			[]string{"mode"},
		),

		AggregationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "aggregations_total",
				Help:      "Total number of profile-mode aggregation runs",
			},
			[]string{"status"},
		),

		AggregationsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "aggregations_in_flight",
				Help:      "Number of handler utilization aggregations currently running",
			},
		),

		AggregationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "aggregation_duration_seconds",
				Help:      "Duration of a single handler's utilization aggregation",
				Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"language"},
		),

		LeveneInstabilities: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "levene_instabilities_total",
				Help:      "Total number of load levels flagged for variance instability",
			},
			[]string{"resource"},
		),

		// Системные метрики
		MemoryUsage: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "memory_usage_bytes",
				Help:      "Current memory usage",
			},
			[]string{"type"},
		),

		Goroutines: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "goroutines",
				Help:      "Current number of goroutines",
			},
		),

		ServiceInfo: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Service information",
			},
			[]string{"version", "environment"},
		),
	}

	prometheus.MustRegister(NewRuntimeCollector(namespace, subsystem))

	defaultMetrics = m
	return m
}

// Get возвращает глобальные метрики
func Get() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics("meshforge", "")
	}
	return defaultMetrics
}

// RecordGeneration records one Assembly run.
func (m *Metrics) RecordGeneration(mode string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}

	m.GenerationsTotal.WithLabelValues(mode, status).Inc()
	m.GenerationDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordGraphSize records the size of a generated application graph.
func (m *Metrics) RecordGraphSize(mode string, vertices, edges int) {
	m.GraphVertexCount.WithLabelValues(mode).Observe(float64(vertices))
	m.GraphEdgeCount.WithLabelValues(mode).Observe(float64(edges))
}

// RecordAggregation records one profile-mode aggregation run.
func (m *Metrics) RecordAggregation(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.AggregationsTotal.WithLabelValues(status).Inc()
}

// RecordSamplerRejection records one discarded G(n,m) candidate graph,
// labeled by why it was thrown away (cyclic, degree cap exceeded).
func (m *Metrics) RecordSamplerRejection(reason string) {
	m.SamplerRejections.WithLabelValues(reason).Inc()
}

// RecordColoringRetries records the number of ad-hoc recolors a single
// equitable-coloring run needed before converging.
func (m *Metrics) RecordColoringRetries(mode string, retries int) {
	m.ColoringRetries.WithLabelValues(mode).Observe(float64(retries))
}

// SetServiceInfo устанавливает информацию о сервисе
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// Handler возвращает HTTP handler для /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer запускает HTTP сервер для метрик
func StartMetricsServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		// Игнорируем ошибку записи - response уже отправлен
		_, _ = w.Write([]byte("OK")) //nolint:errcheck // health endpoint, ошибка записи не критична
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
