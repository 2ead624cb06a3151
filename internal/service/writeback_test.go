package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"home_bills/internal/metrics"
	"home_bills/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

type recordingTotals struct {
	mu    sync.Mutex
	saved map[models.PeriodKey]models.Readings
	err   error
}

func (r *recordingTotals) SetTotals(ctx context.Context, key models.PeriodKey, totals models.Readings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.saved == nil {
		r.saved = map[models.PeriodKey]models.Readings{}
	}
	r.saved[key] = totals
	return nil
}

func (r *recordingTotals) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func testBill(key models.PeriodKey, total float64) models.Bill {
	return models.Bill{Period: key, Total: total, Prices: models.Prices{ColdWater: total}}
}

func TestWriteback_EnqueueDropsWhenFull(t *testing.T) {
	reg := prometheus.NewRegistry()
	w := NewWritebackService(&recordingTotals{}, nil, nil, 1, metrics.New(reg), nil)

	if !w.Enqueue(WritebackJob{Key: oct2026, Bill: testBill(oct2026, 1)}) {
		t.Fatalf("first job must be queued")
	}
	if w.Enqueue(WritebackJob{Key: oct2026, Bill: testBill(oct2026, 2)}) {
		t.Fatalf("second job must be dropped")
	}
	if got := counterValue(t, reg, "home_bills_totals_writeback_total", "result", metrics.ResultDropped); got != 1 {
		t.Fatalf("dropped counter = %v", got)
	}
}

func TestWriteback_RunProcessesAndDrainsOnCancel(t *testing.T) {
	totals := &recordingTotals{}
	pub := &capturePublisher{}
	journal := &fakeJournal{}
	w := NewWritebackService(totals, journal, pub, 4, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)

	w.Enqueue(WritebackJob{Key: sep2026, Bill: testBill(sep2026, 10)})
	deadline := time.Now().Add(2 * time.Second)
	for totals.count() < 1 {
		if time.Now().After(deadline) {
			t.Fatalf("job not processed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	w.Enqueue(WritebackJob{Key: oct2026, Bill: testBill(oct2026, 20)})
	cancel()
	w.Wait()

	if totals.count() != 2 {
		t.Fatalf("queued job lost on shutdown: saved %d", totals.count())
	}
	if totals.saved[oct2026][models.TotalAll] != 20 {
		t.Fatalf("unexpected totals: %+v", totals.saved[oct2026])
	}
	if len(pub.bills) != 2 {
		t.Fatalf("published %d bills, want 2", len(pub.bills))
	}
	if types := journal.types(); len(types) != 2 || types[0] != models.EventTotalsSaved {
		t.Fatalf("unexpected journal: %v", types)
	}
}

func TestWriteback_FailuresAreSwallowed(t *testing.T) {
	reg := prometheus.NewRegistry()
	pub := &capturePublisher{}
	w := NewWritebackService(&recordingTotals{err: errors.New("disk full")}, nil, pub, 2, metrics.New(reg), nil)

	w.Enqueue(WritebackJob{Key: oct2026, Bill: testBill(oct2026, 1)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Run(ctx)

	if got := counterValue(t, reg, "home_bills_totals_writeback_total", "result", metrics.ResultError); got != 1 {
		t.Fatalf("error counter = %v", got)
	}
	if len(pub.bills) != 0 {
		t.Fatalf("unsaved bill must not be published")
	}
}

// counterValue reads one labelled counter from a registry.
func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
