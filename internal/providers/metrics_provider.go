package providers

import (
	"adhan/internal/structures"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncSyncRuns(result string)
	IncResourceDownloads(resource, result string)
	SetSyncState(state string)
	IncTimingsRefresh(source string)
	IncTriggersFired(prayer string, audible bool)
	ObserveTimeServiceDuration(duration time.Duration)
	Handler() http.Handler
}

var syncStates = []string{"current", "update_pending", "restarting"}

type MetricsProvider struct {
	registry            *prometheus.Registry
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	syncRuns            *prometheus.CounterVec
	resourceDownloads   *prometheus.CounterVec
	syncState           *prometheus.GaugeVec
	timingsRefresh      *prometheus.CounterVec
	triggersFired       *prometheus.CounterVec
	timeServiceDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncSyncRuns(result string) {
	m.syncRuns.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) IncResourceDownloads(resource, result string) {
	m.resourceDownloads.WithLabelValues(resource, result).Inc()
}

// SetSyncState sets the gauge of the given state to 1 and every other to 0.
func (m *MetricsProvider) SetSyncState(state string) {
	for _, s := range syncStates {
		v := 0.0
		if s == state {
			v = 1
		}
		m.syncState.WithLabelValues(s).Set(v)
	}
}

func (m *MetricsProvider) IncTimingsRefresh(source string) {
	m.timingsRefresh.WithLabelValues(source).Inc()
}

func (m *MetricsProvider) IncTriggersFired(prayer string, audible bool) {
	m.triggersFired.WithLabelValues(prayer, strconv.FormatBool(audible)).Inc()
}

func (m *MetricsProvider) ObserveTimeServiceDuration(duration time.Duration) {
	m.timeServiceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	m := &MetricsProvider{
		registry: reg,

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adhan_requests_total",
			Help: "Total number of control API requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adhan_request_duration_seconds",
			Help:    "Control API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "adhan_cache_hits_total",
			Help: "Total number of time-service cache hits",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "adhan_cache_misses_total",
			Help: "Total number of time-service cache misses",
		}),

		syncRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adhan_sync_runs_total",
			Help: "Version reconciliation runs by result",
		}, []string{"result"}),

		resourceDownloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adhan_resource_downloads_total",
			Help: "Managed resource downloads by resource and result",
		}, []string{"resource", "result"}),

		syncState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "adhan_sync_state",
			Help: "Current state of the sync engine (1 for the active state)",
		}, []string{"state"}),

		timingsRefresh: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adhan_timings_refresh_total",
			Help: "Prayer timings refreshes by source (live, cache, none)",
		}, []string{"source"}),

		triggersFired: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adhan_triggers_fired_total",
			Help: "Prayer triggers recorded, by prayer and whether they were audible",
		}, []string{"prayer", "audible"}),

		timeServiceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "adhan_time_service_duration_seconds",
			Help:    "Duration of prayer time-service calls in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.SetSyncState("current")

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncSyncRuns(_ string)                             {}
func (n *noopMetrics) IncResourceDownloads(_, _ string)                 {}
func (n *noopMetrics) SetSyncState(_ string)                            {}
func (n *noopMetrics) IncTimingsRefresh(_ string)                       {}
func (n *noopMetrics) IncTriggersFired(_ string, _ bool)                {}
func (n *noopMetrics) ObserveTimeServiceDuration(_ time.Duration)       {}
func (n *noopMetrics) Handler() http.Handler                            { return http.NotFoundHandler() }
