package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors of the booking engine and the HTTP layer.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	operations   *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	payments     prometheus.Counter
	paidAmount   prometheus.Counter
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_operations_total",
			Help:      "Completed booking operations by kind.",
		}, []string{"operation"}),
		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_rejections_total",
			Help:      "Booking and payment requests rejected by a business rule.",
		}, []string{"operation", "reason"}),
		payments: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Recorded payments.",
		}),
		paidAmount: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_amount_total",
			Help:      "Sum of recorded payment amounts.",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

func (m *Metrics) Operation(op string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op).Inc()
}

func (m *Metrics) Rejected(op, reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(op, reason).Inc()
}

func (m *Metrics) Payment(amount float64) {
	if m == nil {
		return
	}
	m.payments.Inc()
	m.paidAmount.Add(amount)
}

func (m *Metrics) HTTPRequest(route, method string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(seconds)
}
