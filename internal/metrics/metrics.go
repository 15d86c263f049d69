// Package metrics предоставляет Prometheus-метрики сервиса оргструктуры
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hr-organogram/internal/domain"
)

// Metrics содержит все метрики сервиса. Каждый экземпляр имеет собственный реестр
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OrganogramBuildsTotal prometheus.Counter
	OrganogramNodes       prometheus.Gauge
	SkippedRecordsTotal   prometheus.Counter
	BrokenCyclesTotal     prometheus.Counter
	StaleFetchesTotal     prometheus.Counter
	FetchErrorsTotal      prometheus.Counter
}

// New создаёт и регистрирует метрики
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "organogram_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "organogram_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),

		OrganogramBuildsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "organogram_builds_total",
			Help: "Total number of hierarchy builds",
		}),
		OrganogramNodes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "organogram_nodes",
			Help: "Number of nodes in the most recently built hierarchy",
		}),
		SkippedRecordsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "organogram_skipped_records_total",
			Help: "Total number of malformed records excluded from hierarchies",
		}),
		BrokenCyclesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "organogram_broken_cycles_total",
			Help: "Total number of reporting cycles broken while building hierarchies",
		}),
		StaleFetchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "organogram_stale_fetches_total",
			Help: "Total number of record fetches discarded because a newer fetch completed first",
		}),
		FetchErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "organogram_fetch_errors_total",
			Help: "Total number of failed record fetches",
		}),
	}
}

// ObserveBuild записывает результат построения леса
func (m *Metrics) ObserveBuild(forest *domain.Forest, nodes int) {
	m.OrganogramBuildsTotal.Inc()
	m.OrganogramNodes.Set(float64(nodes))
	m.SkippedRecordsTotal.Add(float64(len(forest.Skipped)))
	m.BrokenCyclesTotal.Add(float64(len(forest.BrokenCycles)))
}

// ObserveRequest записывает завершённый HTTP запрос
func (m *Metrics) ObserveRequest(method string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// Registry возвращает реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler возвращает HTTP обработчик для экспорта метрик
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
