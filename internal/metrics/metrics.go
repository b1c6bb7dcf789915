// Package metrics provides Prometheus metrics for the form server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jsonform"

// Handle outcomes recorded by ObserveHandle.
const (
	OutcomeBound        = "bound"
	OutcomeInvalid      = "invalid"
	OutcomeMalformed    = "malformed"
	OutcomeUnsupported  = "unsupported_method"
	OutcomeServerError  = "error"
	OutcomeRendered     = "rendered"
	OutcomeRenderFailed = "failed"
)

// Collector holds the Prometheus metrics of the server.
type Collector struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Form metrics
	RendersTotal   *prometheus.CounterVec
	HandlesTotal   *prometheus.CounterVec
	HandleDuration *prometheus.HistogramVec

	// Autocomplete metrics
	LookupsTotal *prometheus.CounterVec

	// Definition metrics
	DefinitionReloads      prometheus.Counter
	DefinitionReloadErrors prometheus.Counter
	DefinitionsLoaded      prometheus.Gauge
	DefinitionLastReload   prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New creates a collector registered with the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewWithRegistry creates a collector registered with reg and served from
// gatherer. Tests pass a fresh prometheus.NewRegistry() as both.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		RendersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "form_renders_total",
				Help:      "Total number of form renders",
			},
			[]string{"form", "outcome"},
		),
		HandlesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "form_submissions_total",
				Help:      "Total number of handled form submissions",
			},
			[]string{"form", "outcome"},
		),
		HandleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "form_submission_duration_seconds",
				Help:      "Time spent binding a submission in seconds",
				Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25},
			},
			[]string{"form"},
		),
		LookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "autocomplete_lookups_total",
				Help:      "Total number of autocomplete lookups",
			},
			[]string{"source", "status"},
		),
		DefinitionReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "definition_reloads_total",
				Help:      "Total number of successful definition reloads",
			},
		),
		DefinitionReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "definition_reload_errors_total",
				Help:      "Total number of failed definition reloads",
			},
		),
		DefinitionsLoaded: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "definitions_loaded",
				Help:      "Number of form definitions currently served",
			},
		),
		DefinitionLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "definition_last_reload_timestamp",
				Help:      "Unix timestamp of the last successful definition reload",
			},
		),
		gatherer: gatherer,
	}
}

// ObserveRequest records one served HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.RequestsTotal.WithLabelValues(method, route, StatusClass(status)).Inc()
	c.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveRender records a render of form.
func (c *Collector) ObserveRender(form string, err error) {
	if c == nil {
		return
	}
	outcome := OutcomeRendered
	if err != nil {
		outcome = OutcomeRenderFailed
	}
	c.RendersTotal.WithLabelValues(form, outcome).Inc()
}

// ObserveHandle records a handled submission of form.
func (c *Collector) ObserveHandle(form, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HandlesTotal.WithLabelValues(form, outcome).Inc()
	c.HandleDuration.WithLabelValues(form).Observe(elapsed.Seconds())
}

// ObserveLookup records an autocomplete lookup answered with status.
func (c *Collector) ObserveLookup(source string, status int) {
	if c == nil {
		return
	}
	c.LookupsTotal.WithLabelValues(source, StatusClass(status)).Inc()
}

// ObserveReload records a definition reload; loaded is the number of forms
// served afterwards.
func (c *Collector) ObserveReload(loaded int, err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.DefinitionReloadErrors.Inc()
		return
	}
	c.DefinitionReloads.Inc()
	c.DefinitionsLoaded.Set(float64(loaded))
	c.DefinitionLastReload.SetToCurrentTime()
}

// Handler serves the collected metrics.
func (c *Collector) Handler() http.Handler {
	if c == nil || c.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// StatusClass reduces a status code to its class, e.g. 404 -> "4xx".
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return strconv.Itoa(status)
	}
	return strconv.Itoa(status/100) + "xx"
}
