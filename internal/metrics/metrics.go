// Package metrics exposes Prometheus collectors for ledger activity and the
// HTTP surface.
package metrics

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fastprodman/dicevault/internal/eventbus"
	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	events      *prometheus.CounterVec
	staked      prometheus.Counter
	paidOut     prometheus.Counter
	booked      prometheus.Counter
	refunded    prometheus.Counter
	outcomes    *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
}

// New registers every collector on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dicevault",
			Name:      "events_total",
			Help:      "Committed ledger events by type.",
		}, []string{"type"}),
		staked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dicevault",
			Name:      "staked_units_total",
			Help:      "Stake moved into the vault by placed wagers.",
		}),
		booked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dicevault",
			Name:      "payout_booked_units_total",
			Help:      "Winnings booked as liabilities.",
		}),
		paidOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dicevault",
			Name:      "payout_withdrawn_units_total",
			Help:      "Winnings paid out of the vault.",
		}),
		refunded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dicevault",
			Name:      "refunded_units_total",
			Help:      "Stake returned by expired wagers.",
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dicevault",
			Name:      "dice_outcomes_total",
			Help:      "Resolved dice faces.",
		}, []string{"face", "won"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dicevault",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.events, m.staked, m.booked, m.paidOut, m.refunded, m.outcomes, m.httpLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry is exposed for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observe is an event bus handler.
func (m *Metrics) Observe(_ context.Context, msg eventbus.Message) {
	m.events.WithLabelValues(string(msg.Type)).Inc()

	switch ev := msg.Event.(type) {
	case ledger.WagerPlaced:
		m.staked.Add(float64(ev.Stake))
	case ledger.DiceRolled:
		m.outcomes.WithLabelValues(strconv.Itoa(int(ev.Result)), strconv.FormatBool(ev.Won)).Inc()
		m.booked.Add(float64(ev.Payout))
	case ledger.PayoutWithdrawn:
		m.paidOut.Add(float64(ev.Amount))
	case ledger.WagerRefunded:
		m.refunded.Add(float64(ev.Amount))
	}
}

// Middleware records request latency labelled by the matched chi route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		m.httpLatency.
			WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).
			Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Hijack keeps WebSocket upgrades working behind the middleware.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}

	return h.Hijack()
}
