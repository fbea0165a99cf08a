// Package metrics holds the Prometheus collectors for payment intake,
// reconciliation and gateway traffic. A nil *Metrics records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "levy"

type Metrics struct {
	paymentsInitiated *prometheus.CounterVec
	transitions       *prometheus.CounterVec
	mismatches        *prometheus.CounterVec
	gatewayDuration   *prometheus.HistogramVec
	notices           *prometheus.CounterVec
	reminders         *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		paymentsInitiated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_initiated_total",
			Help:      "Payments created, by channel.",
		}, []string{"method"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_transitions_total",
			Help:      "Payment status transitions.",
		}, []string{"from", "to"}),
		mismatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliation_mismatches_total",
			Help:      "Amount mismatches recorded in the reconciliation log, by source.",
		}, []string{"source"}),
		gatewayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_request_duration_seconds",
			Help:      "Payment gateway call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "operation", "outcome"}),
		notices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notices_total",
			Help:      "Demand notice events.",
		}, []string{"event"}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notice_reminders_total",
			Help:      "Reminder sweep outcomes.",
		}, []string{"outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.paymentsInitiated,
		m.transitions,
		m.mismatches,
		m.gatewayDuration,
		m.notices,
		m.reminders,
		m.httpDuration,
	)

	return m
}

func (m *Metrics) PaymentInitiated(method string) {
	if m == nil {
		return
	}

	m.paymentsInitiated.WithLabelValues(method).Inc()
}

func (m *Metrics) PaymentTransition(from, to string) {
	if m == nil {
		return
	}

	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) ReconciliationMismatch(source string) {
	if m == nil {
		return
	}

	m.mismatches.WithLabelValues(source).Inc()
}

func (m *Metrics) GatewayRequest(provider, operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	m.gatewayDuration.WithLabelValues(provider, operation, outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) Notice(event string) {
	if m == nil {
		return
	}

	m.notices.WithLabelValues(event).Inc()
}

func (m *Metrics) Reminders(sent, skipped, failed int) {
	if m == nil {
		return
	}

	m.reminders.WithLabelValues("sent").Add(float64(sent))
	m.reminders.WithLabelValues("skipped").Add(float64(skipped))
	m.reminders.WithLabelValues("failed").Add(float64(failed))
}

// Middleware observes request latency labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}

		m.httpDuration.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Observe(time.Since(start).Seconds())
	})
}
