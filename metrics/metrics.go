// Package metrics exposes shop activity to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "solar_store"

// Collector is a prometheus.Collector for request and shop activity metrics.
type Collector struct {
	requestDuration *prometheus.HistogramVec
	ordersPlaced    prometheus.Counter
	bookingsCreated prometheus.Counter
	loginFailures   *prometheus.CounterVec
}

// NewCollector returns a new Collector.
func NewCollector() *Collector {
	return &Collector{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "Time spent serving HTTP requests.",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			}, []string{"method", "route", "status"},
		),
		ordersPlaced: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "orders_placed_total",
				Help:      "The number of orders placed through checkout.",
			},
		),
		bookingsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "maintenance_bookings_total",
				Help:      "The number of maintenance bookings received.",
			},
		),
		loginFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "login_failures_total",
				Help:      "The number of failed login attempts.",
			}, []string{"method"},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.requestDuration.Describe(ch)
	c.ordersPlaced.Describe(ch)
	c.bookingsCreated.Describe(ch)
	c.loginFailures.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.requestDuration.Collect(ch)
	c.ordersPlaced.Collect(ch)
	c.bookingsCreated.Collect(ch)
	c.loginFailures.Collect(ch)
}

func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (c *Collector) OrderPlaced() { c.ordersPlaced.Inc() }

func (c *Collector) BookingCreated() { c.bookingsCreated.Inc() }

// LoginFailed counts a rejected login; method is "password" or "google".
func (c *Collector) LoginFailed(method string) { c.loginFailures.WithLabelValues(method).Inc() }

// Handler serves c together with the Go runtime and process collectors from a
// private registry.
func Handler(c *Collector) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	for _, col := range []prometheus.Collector{
		c,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}
