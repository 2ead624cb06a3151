// Package metrics exposes Prometheus counters for dialog turns, bill
// computations and the totals write-back worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "home_bills"

// Result labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultDropped = "dropped"
)

// Metrics is safe to use through a nil pointer; every method becomes a no-op.
type Metrics struct {
	turns         *prometheus.CounterVec
	turnErrors    prometheus.Counter
	readingsSet   *prometheus.CounterVec
	bills         *prometheus.CounterVec
	lastBillTotal prometheus.Gauge
	writeback     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dialog_turns_total",
			Help:      "Dialog turns by recognized intent",
		}, []string{"intent"}),
		turnErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dialog_turn_errors_total",
			Help:      "Dialog turns answered with the generic failure reply",
		}),
		readingsSet: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_set_total",
			Help:      "Meter readings recorded by field",
		}, []string{"field"}),
		bills: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bill_computations_total",
			Help:      "Bill computations by result",
		}, []string{"result"}),
		lastBillTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_bill_total_rubles",
			Help:      "Total of the most recently computed bill",
		}),
		writeback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "totals_writeback_total",
			Help:      "Totals write-back jobs by result",
		}, []string{"result"}),
	}
	reg.MustRegister(m.turns, m.turnErrors, m.readingsSet, m.bills, m.lastBillTotal, m.writeback)
	return m
}

func (m *Metrics) Turn(intent string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(intent).Inc()
}

func (m *Metrics) TurnError() {
	if m == nil {
		return
	}
	m.turnErrors.Inc()
}

func (m *Metrics) ReadingSet(field string) {
	if m == nil {
		return
	}
	m.readingsSet.WithLabelValues(field).Inc()
}

// Bill records a computation outcome; total is only used on success.
func (m *Metrics) Bill(result string, total float64) {
	if m == nil {
		return
	}
	m.bills.WithLabelValues(result).Inc()
	if result == ResultSuccess {
		m.lastBillTotal.Set(total)
	}
}

func (m *Metrics) Writeback(result string) {
	if m == nil {
		return
	}
	m.writeback.WithLabelValues(result).Inc()
}
