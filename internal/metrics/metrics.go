package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use through a nil pointer; every method is then a no-op.
type Metrics struct {
	Requests      *prometheus.CounterVec
	LatencyMS     *prometheus.HistogramVec
	Turns         *prometheus.CounterVec
	Fallbacks     *prometheus.CounterVec
	Checkouts     *prometheus.CounterVec
	Notifications *prometheus.CounterVec
}

func New(reg prometheus.Registerer, service string) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderbot",
			Subsystem: service,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "orderbot",
			Subsystem: service,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"handler"}),
		Turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderbot",
			Subsystem: service,
			Name:      "chat_turns_total",
			Help:      "Chat turns by resolved intent kind and source.",
		}, []string{"kind", "source"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderbot",
			Subsystem: service,
			Name:      "intent_fallbacks_total",
			Help:      "Turns where the deterministic matcher ran, by cause.",
		}, []string{"cause"}),
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderbot",
			Subsystem: service,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderbot",
			Subsystem: service,
			Name:      "order_notifications_total",
			Help:      "Order placed notifications by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.Requests, m.LatencyMS, m.Turns, m.Fallbacks, m.Checkouts, m.Notifications)
	return m
}

func (m *Metrics) Turn(kind, source string) {
	if m == nil {
		return
	}
	m.Turns.WithLabelValues(kind, source).Inc()
}

func (m *Metrics) Fallback(cause string) {
	if m == nil {
		return
	}
	m.Fallbacks.WithLabelValues(cause).Inc()
}

func (m *Metrics) Checkout(outcome string) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Notification(outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(outcome).Inc()
}

// Middleware records request counts and latency per route pattern.
func (m *Metrics) Middleware(handler string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.Requests.WithLabelValues(handler, strconv.Itoa(status)).Inc()
			m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
		})
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
