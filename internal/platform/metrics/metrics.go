// Package metrics はタグ付けパイプラインの Prometheus メトリクスを提供する
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jinford/talent-tagger/internal/core/tagging"
)

const namespace = "talent_tagger"

// Manager はパイプラインと HTTP のメトリクスを保持する
type Manager struct {
	registry *prometheus.Registry

	outcomes      *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	persists      *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var _ tagging.Recorder = (*Manager)(nil)

// Option は Manager の設定を行う
type Option func(*managerConfig)

type managerConfig struct {
	buckets      []float64
	goCollectors bool
}

// WithHistogramBuckets は処理時間ヒストグラムのバケットを指定する
func WithHistogramBuckets(buckets []float64) Option {
	return func(c *managerConfig) {
		c.buckets = buckets
	}
}

// WithRuntimeCollectors は Go ランタイムとプロセスのメトリクスを追加する
func WithRuntimeCollectors() Option {
	return func(c *managerConfig) {
		c.goCollectors = true
	}
}

// NewManager は専用レジストリ上にメトリクスを登録する
func NewManager(opts ...Option) *Manager {
	cfg := managerConfig{buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		opt(&cfg)
	}

	registry := prometheus.NewRegistry()
	if cfg.goCollectors {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(registry)

	return &Manager{
		registry: registry,
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "talents_processed_total",
			Help:      "Number of processed talent profiles by outcome.",
		}, []string{"outcome"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   cfg.buckets,
		}, []string{"stage"}),
		persists: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "talent_persist_total",
			Help:      "Talent persistence attempts by result.",
		}, []string{"result"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   cfg.buckets,
		}, []string{"route"}),
	}
}

// ObserveStage は段階の処理時間を記録する
func (m *Manager) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordOutcome は処理結果を記録する
func (m *Manager) RecordOutcome(outcome string) {
	m.outcomes.WithLabelValues(outcome).Inc()
}

// RecordPersist は保存結果を inserted / conflict / error に分類して記録する
func (m *Manager) RecordPersist(inserted bool, err error) {
	result := "conflict"
	switch {
	case err != nil:
		result = "error"
	case inserted:
		result = "inserted"
	}
	m.persists.WithLabelValues(result).Inc()
}

// ObserveHTTP は HTTP リクエストを記録する
func (m *Manager) ObserveHTTP(route string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.httpRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Registry は登録先のレジストリを返す
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler は /metrics 用のハンドラを返す
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
