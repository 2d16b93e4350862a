// Package metrics exposes Prometheus collectors for the store, realtime,
// push and auth adapters. A nil *Metrics records nothing.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "asistoya"

// Store call outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

type Metrics struct {
	StoreCalls     *prometheus.CounterVec
	StoreDuration  *prometheus.HistogramVec
	RealtimeEvents *prometheus.CounterVec
	PushMessages   *prometheus.CounterVec
	AuthEvents     *prometheus.CounterVec
}

// New builds the collectors and registers them with reg. Registering twice
// against the same registerer reuses the collectors already there. A nil reg
// leaves the collectors unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StoreCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_calls_total",
			Help:      "Store calls by table, operation and outcome.",
		}, []string{"table", "op", "outcome"}),
		StoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_call_duration_seconds",
			Help:      "Store call latency by table and operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"table", "op"}),
		RealtimeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "realtime_events_total",
			Help:      "Row change events received by table and type.",
		}, []string{"table", "type"}),
		PushMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_messages_total",
			Help:      "Push messages handed to the broker by outcome.",
		}, []string{"outcome"}),
		AuthEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Auth state changes by event.",
		}, []string{"event"}),
	}
	if reg == nil {
		return m
	}
	m.StoreCalls = register(reg, m.StoreCalls)
	m.StoreDuration = register(reg, m.StoreDuration)
	m.RealtimeEvents = register(reg, m.RealtimeEvents)
	m.PushMessages = register(reg, m.PushMessages)
	m.AuthEvents = register(reg, m.AuthEvents)
	return m
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveStore records one store call. rejected marks errors reported by the
// server, as opposed to transport failures.
func (m *Metrics) ObserveStore(table, op string, start time.Time, err error, rejected bool) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	switch {
	case err != nil && rejected:
		outcome = OutcomeRejected
	case err != nil:
		outcome = OutcomeError
	}
	m.StoreCalls.WithLabelValues(table, op, outcome).Inc()
	m.StoreDuration.WithLabelValues(table, op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) RealtimeEvent(table, changeType string) {
	if m == nil {
		return
	}
	m.RealtimeEvents.WithLabelValues(table, changeType).Inc()
}

func (m *Metrics) Push(outcome string) {
	if m == nil {
		return
	}
	m.PushMessages.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AuthEvent(event string) {
	if m == nil {
		return
	}
	m.AuthEvents.WithLabelValues(event).Inc()
}
