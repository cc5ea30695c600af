// Package metrics expone contadores Prometheus de decisiones de acceso, eventos de
// auth y peticiones HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/jobhunter-api/internal/application/access"
	"github.com/jhoicas/jobhunter-api/internal/application/auth"
)

var (
	_ access.DecisionRecorder = (*Metrics)(nil)
	_ auth.EventRecorder      = (*Metrics)(nil)
)

// Metrics agrupa los colectores sobre un registro propio.
type Metrics struct {
	registry        *prometheus.Registry
	accessDecisions *prometheus.CounterVec
	authEvents      *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// New crea y registra los colectores. withRuntime añade los de Go y proceso.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		accessDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobhunter_access_decisions_total",
			Help: "Decisiones del motor de acceso por resultado.",
		}, []string{"outcome"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobhunter_auth_events_total",
			Help: "Operaciones de auth por evento y resultado.",
		}, []string{"event", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total de peticiones HTTP.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de peticiones HTTP en segundos.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "Peticiones HTTP en curso.",
		}),
	}
	m.registry.MustRegister(m.accessDecisions, m.authEvents, m.requests, m.requestDuration, m.inFlight)
	if withRuntime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry registro subyacente.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordDecision cuenta una decisión del motor de acceso.
func (m *Metrics) RecordDecision(outcome string) {
	m.accessDecisions.WithLabelValues(outcome).Inc()
}

// RecordAuthEvent cuenta una operación de auth.
func (m *Metrics) RecordAuthEvent(event, outcome string) {
	m.authEvents.WithLabelValues(event, outcome).Inc()
}

// Middleware mide cada petición. La etiqueta route es la plantilla de Fiber, no la ruta
// concreta, para no disparar la cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		m.inFlight.Inc()
		start := time.Now()
		err := c.Next()
		m.inFlight.Dec()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < fiber.StatusBadRequest {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" || route == "/" && c.Path() != "/" {
			route = "unmatched"
		}
		labels := []string{c.Method(), route, strconv.Itoa(status)}
		m.requests.WithLabelValues(labels...).Inc()
		m.requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler sirve /metrics desde el registro propio.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
