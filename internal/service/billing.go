package service

import (
	"context"
	"errors"
	"fmt"

	"home_bills/internal/logger"
	"home_bills/internal/metrics"
	"home_bills/internal/models"
	"home_bills/internal/repository"
)

// Compute prices the month-over-month consumption. It has no side effects.
func Compute(current, previous models.Readings, rates models.Rates) (models.Bill, error) {
	if missing := current.Missing(); len(missing) > 0 {
		return models.Bill{}, &models.MissingDataError{Fields: missing}
	}
	if missing := previous.Missing(); len(missing) > 0 {
		return models.Bill{}, &models.MissingDataError{Fields: missing, Previous: true}
	}

	c := models.Consumption{
		ColdWater: (current[models.BathCold] + current[models.KitchenCold]) -
			(previous[models.BathCold] + previous[models.KitchenCold]),
		HotWater: (current[models.BathHot] + current[models.KitchenHot]) -
			(previous[models.BathHot] + previous[models.KitchenHot]),
		ElT1: current[models.ElT1] - previous[models.ElT1],
		ElT2: current[models.ElT2] - previous[models.ElT2],
		ElT3: current[models.ElT3] - previous[models.ElT3],
	}

	p := models.Prices{
		ColdWater: c.ColdWater * rates.ColdWater,
		HotWater:  c.HotWater * rates.HotWater,
		Drain:     (c.ColdWater + c.HotWater) * rates.Drain,
		ElT1:      c.ElT1 * rates.ElT1,
		ElT2:      c.ElT2 * rates.ElT2,
		ElT3:      c.ElT3 * rates.ElT3,
	}

	return models.Bill{
		Consumption: c,
		Prices:      p,
		Total:       p.ColdWater + p.HotWater + p.Drain + p.ElT1 + p.ElT2 + p.ElT3,
	}, nil
}

// compareWithPrevious returns nil when the previous total is unset or zero:
// zero is not a meaningful baseline.
func compareWithPrevious(total float64, previous models.Readings) *models.Comparison {
	prevTotal, ok := previous[models.TotalAll]
	if !ok || prevTotal == 0 {
		return nil
	}
	return &models.Comparison{PreviousTotal: prevTotal, Difference: total - prevTotal}
}

// BillingService computes the current bill and schedules saving its totals.
type BillingService struct {
	store     *ReadingStore
	rates     *RateTable
	writeback *WritebackService
	journal   repository.JournalRepo
	metrics   *metrics.Metrics
	log       *logger.Logger
}

func NewBillingService(store *ReadingStore, rates *RateTable, wb *WritebackService, journal repository.JournalRepo, m *metrics.Metrics, log *logger.Logger) *BillingService {
	return &BillingService{store: store, rates: rates, writeback: wb, journal: journal, metrics: m, log: orNop(log)}
}

// Calculate returns the bill for the current month. Incomplete data is reported as
// *models.MissingDataError. Totals are saved asynchronously.
func (s *BillingService) Calculate(ctx context.Context) (models.Bill, error) {
	cur, err := s.store.Snapshot(ctx, models.PeriodCurrent)
	if err != nil {
		return models.Bill{}, err
	}
	prev, err := s.store.Snapshot(ctx, models.PeriodPrevious)
	if err != nil {
		return models.Bill{}, err
	}

	bill, err := Compute(cur.Readings, prev.Readings, s.rates.Rates())
	if err != nil {
		s.metrics.Bill(metrics.ResultError, 0)
		var missing *models.MissingDataError
		if errors.As(err, &missing) {
			return models.Bill{}, err
		}
		return models.Bill{}, fmt.Errorf("compute bill %s: %w", cur.Key, err)
	}
	bill.Period = cur.Key
	bill.Comparison = compareWithPrevious(bill.Total, prev.Readings)
	s.metrics.Bill(metrics.ResultSuccess, bill.Total)

	if s.writeback != nil {
		s.writeback.Enqueue(WritebackJob{Key: cur.Key, Bill: bill})
	}
	appendJournal(ctx, s.journal, s.log, models.JournalEvent{
		Type:        models.EventBillComputed,
		Period:      cur.Key.String(),
		Description: fmt.Sprintf("bill computed: %.2f", bill.Total),
		Metadata:    map[string]any{"total": bill.Total, "prices": bill.Prices},
	})
	return bill, nil
}

// Rates exposes the rate table the bills are priced with.
func (s *BillingService) Rates() models.Rates { return s.rates.Rates() }
