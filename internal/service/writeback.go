package service

import (
	"context"
	"fmt"
	"time"

	"home_bills/internal/logger"
	"home_bills/internal/metrics"
	"home_bills/internal/models"
	"home_bills/internal/repository"
)

// drainTimeout bounds the work done for queued jobs after shutdown starts.
const drainTimeout = 5 * time.Second

// BillPublisher receives bills whose totals were saved.
type BillPublisher interface {
	PublishBill(ctx context.Context, bill models.Bill) error
}

// TotalsWriter persists derived totals of a month.
type TotalsWriter interface {
	SetTotals(ctx context.Context, key models.PeriodKey, totals models.Readings) error
}

// WritebackJob carries a computed bill to be saved.
type WritebackJob struct {
	Key  models.PeriodKey
	Bill models.Bill
}

// WritebackService saves bill totals off the reply path through a bounded queue.
// Run owns the worker; Wait blocks until Run has drained the queue and returned.
type WritebackService struct {
	store     TotalsWriter
	journal   repository.JournalRepo
	publisher BillPublisher
	metrics   *metrics.Metrics
	log       *logger.Logger

	jobs chan WritebackJob
	done chan struct{}
}

func NewWritebackService(store TotalsWriter, journal repository.JournalRepo, publisher BillPublisher, queueSize int, m *metrics.Metrics, log *logger.Logger) *WritebackService {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &WritebackService{
		store:     store,
		journal:   journal,
		publisher: publisher,
		metrics:   m,
		log:       orNop(log),
		jobs:      make(chan WritebackJob, queueSize),
		done:      make(chan struct{}),
	}
}

// Enqueue never blocks. It reports false when the queue is full and the job was dropped.
func (w *WritebackService) Enqueue(job WritebackJob) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		w.metrics.Writeback(metrics.ResultDropped)
		w.log.Warnw("writeback_queue_full", "period", job.Key.String(), "total", job.Bill.Total)
		return false
	}
}

// Run processes jobs until ctx is canceled, then drains what is already queued.
func (w *WritebackService) Run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case job := <-w.jobs:
			w.process(context.WithoutCancel(ctx), job)
		}
	}
}

// Wait blocks until Run has returned.
func (w *WritebackService) Wait() {
	<-w.done
}

func (w *WritebackService) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case job := <-w.jobs:
			w.process(ctx, job)
		default:
			return
		}
	}
}

// process never returns an error: the reply that produced the job is already sent.
func (w *WritebackService) process(ctx context.Context, job WritebackJob) {
	if err := w.store.SetTotals(ctx, job.Key, job.Bill.Totals()); err != nil {
		w.metrics.Writeback(metrics.ResultError)
		w.log.Errorw("writeback_failed", "period", job.Key.String(), "err", err)
		return
	}
	w.metrics.Writeback(metrics.ResultSuccess)
	w.log.Infow("writeback_saved", "period", job.Key.String(), "total", job.Bill.Total)

	appendJournal(ctx, w.journal, w.log, models.JournalEvent{
		Type:        models.EventTotalsSaved,
		Period:      job.Key.String(),
		Description: fmt.Sprintf("totals saved: %.2f", job.Bill.Total),
	})

	if w.publisher != nil {
		if err := w.publisher.PublishBill(ctx, job.Bill); err != nil {
			w.log.Warnw("bill_publish_failed", "period", job.Key.String(), "err", err)
		}
	}
}
