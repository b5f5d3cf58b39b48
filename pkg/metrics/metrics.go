package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch results recorded on CatalogFetchTotal.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics groups the storefront's collectors on a private registry so that
// tests and multiple sessions do not collide on the default registerer.
type Metrics struct {
	registry *prometheus.Registry

	CatalogFetchTotal    *prometheus.CounterVec
	CatalogFetchDuration *prometheus.HistogramVec
	CatalogItems         *prometheus.GaugeVec
	QueryTotal           prometheus.Counter
	QueryResultItems     prometheus.Histogram
	HTTPRequestsTotal    *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CatalogFetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_catalog_fetch_total",
			Help: "Remote catalog fetches by resource and result",
		}, []string{"resource", "result"}),
		CatalogFetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_catalog_fetch_duration_seconds",
			Help:    "Remote catalog fetch latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource"}),
		CatalogItems: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "storefront_catalog_items",
			Help: "Items held in the session catalog by resource",
		}, []string{"resource"}),
		QueryTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "storefront_query_total",
			Help: "Query engine recomputations",
		}),
		QueryResultItems: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_query_result_items",
			Help:    "Products matching the filters per recomputation",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "HTTP requests served by the view layer",
		}, []string{"method", "status"}),
	}
}

// ObserveFetch records one remote catalog fetch.
func (m *Metrics) ObserveFetch(resource string, count int, duration time.Duration, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.CatalogFetchTotal.WithLabelValues(resource, result).Inc()
	m.CatalogFetchDuration.WithLabelValues(resource).Observe(duration.Seconds())
	m.CatalogItems.WithLabelValues(resource).Set(float64(count))
}

// ObserveQuery records one query engine recomputation.
func (m *Metrics) ObserveQuery(totalItems int) {
	m.QueryTotal.Inc()
	m.QueryResultItems.Observe(float64(totalItems))
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method string, status int) {
	m.HTTPRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
