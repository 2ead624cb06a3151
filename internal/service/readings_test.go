package service

import (
	"context"
	"errors"
	"testing"

	"home_bills/internal/metrics"
	"home_bills/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

func TestReadingsService_Record(t *testing.T) {
	repo := newMemReadings()
	journal := &fakeJournal{}
	reg := prometheus.NewRegistry()
	svc := NewReadingsService(NewReadingStore(repo, octoberClock()), journal, metrics.New(reg), nil)
	ctx := context.Background()

	if err := svc.Record(ctx, models.ElT3, 540); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if v, ok := repo.get(oct2026, models.ElT3); !ok || v != 540 {
		t.Fatalf("value not stored")
	}
	if got := counterValue(t, reg, "home_bills_readings_set_total", "field", "el_t3"); got != 1 {
		t.Fatalf("readings_set counter = %v", got)
	}
	journal.mu.Lock()
	ev := journal.appended[0]
	journal.mu.Unlock()
	if ev.Type != models.EventReadingSet || ev.Period != "2026-10" {
		t.Fatalf("unexpected journal event: %+v", ev)
	}

	if err := svc.Record(ctx, models.TotalAll, 1); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("totals must not be recordable, got %v", err)
	}
	if err := svc.Record(ctx, models.BathHot, -1); !errors.Is(err, ErrNegativeReading) {
		t.Fatalf("expected ErrNegativeReading, got %v", err)
	}
}

func TestReadingsService_Reload(t *testing.T) {
	repo := newMemReadings()
	journal := &fakeJournal{}
	svc := NewReadingsService(NewReadingStore(repo, octoberClock()), journal, nil, nil)

	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if types := journal.types(); len(types) != 1 || types[0] != models.EventRefresh {
		t.Fatalf("unexpected journal: %v", types)
	}

	repo.loadErr = errBackend
	if err := svc.Reload(context.Background()); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
}
