package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveStore_CountsByOutcome(t *testing.T) {
	m := New(prometheus.NewRegistry())
	start := time.Now()

	m.ObserveStore("students", "select", start, nil, false)
	m.ObserveStore("students", "select", start, nil, false)
	m.ObserveStore("students", "insert", start, errors.New("duplicate key"), true)
	m.ObserveStore("students", "insert", start, errors.New("connection reset"), false)

	tests := []struct {
		name    string
		op      string
		outcome string
		want    float64
	}{
		{name: "ok_selects", op: "select", outcome: OutcomeOK, want: 2},
		{name: "rejected_insert", op: "insert", outcome: OutcomeRejected, want: 1},
		{name: "failed_insert", op: "insert", outcome: OutcomeError, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testutil.ToFloat64(m.StoreCalls.WithLabelValues("students", tt.op, tt.outcome))
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
	if n := testutil.CollectAndCount(m.StoreDuration); n != 2 {
		t.Errorf("expected 2 duration series, got %d", n)
	}
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := New(reg)
	second := New(reg)

	second.Push(OutcomeOK)

	if got := testutil.ToFloat64(first.PushMessages.WithLabelValues(OutcomeOK)); got != 1 {
		t.Errorf("expected shared counter to read 1, got %v", got)
	}
}

func TestNilMetrics_NoOp(t *testing.T) {
	var m *Metrics

	m.ObserveStore("students", "select", time.Now(), nil, false)
	m.RealtimeEvent("attendance", "INSERT")
	m.Push(OutcomeOK)
	m.AuthEvent("SIGNED_IN")
}
