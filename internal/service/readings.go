package service

import (
	"context"
	"fmt"

	"home_bills/internal/logger"
	"home_bills/internal/metrics"
	"home_bills/internal/models"
	"home_bills/internal/repository"
)

// ReadingsService records meter readings of the current month and journals every change.
type ReadingsService struct {
	store   *ReadingStore
	journal repository.JournalRepo
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewReadingsService(store *ReadingStore, journal repository.JournalRepo, m *metrics.Metrics, log *logger.Logger) *ReadingsService {
	return &ReadingsService{store: store, journal: journal, metrics: m, log: orNop(log)}
}

func (s *ReadingsService) Snapshot(ctx context.Context, p models.Period) (models.PeriodReadings, error) {
	return s.store.Snapshot(ctx, p)
}

// Record sets a raw reading of the current month. Totals are owned by the bill
// computation and cannot be recorded here.
func (s *ReadingsService) Record(ctx context.Context, f models.Field, value float64) error {
	if !f.IsRaw() {
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	if err := s.store.Set(ctx, models.PeriodCurrent, f, value); err != nil {
		return err
	}
	s.metrics.ReadingSet(string(f))

	snap, err := s.store.Snapshot(ctx, models.PeriodCurrent)
	period := ""
	if err == nil {
		period = snap.Key.String()
	}
	appendJournal(ctx, s.journal, s.log, models.JournalEvent{
		Type:        models.EventReadingSet,
		Period:      period,
		Description: fmt.Sprintf("%s = %s", f, formatReading(value)),
		Metadata:    map[string]any{"field": string(f), "value": value},
	})
	s.log.Infow("reading_set", "field", f, "value", value, "period", period)
	return nil
}

// Reload re-reads both months from the backend.
func (s *ReadingsService) Reload(ctx context.Context) error {
	if err := s.store.Reload(ctx); err != nil {
		return err
	}
	appendJournal(ctx, s.journal, s.log, models.JournalEvent{
		Type:        models.EventRefresh,
		Description: "readings reloaded from storage",
	})
	return nil
}
