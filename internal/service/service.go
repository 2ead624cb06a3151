package service

import (
	"context"
	"time"

	"home_bills/internal/logger"
	"home_bills/internal/metrics"
	"home_bills/internal/models"
	"home_bills/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Dialog answers voice-assistant turns.
type Dialog interface {
	HandleTurn(ctx context.Context, t models.Turn) (string, error)
}

// Readings is the manual access to the reading store.
type Readings interface {
	Snapshot(ctx context.Context, p models.Period) (models.PeriodReadings, error)
	Record(ctx context.Context, f models.Field, value float64) error
	Reload(ctx context.Context) error
}

type Billing interface {
	Calculate(ctx context.Context) (models.Bill, error)
	Rates() models.Rates
}

type Journal interface {
	List(ctx context.Context, f LogFilter) ([]models.JournalEvent, error)
}

// Writeback runs the totals worker. Stop it by cancelling the context passed to Run.
type Writeback interface {
	Run(ctx context.Context)
	Wait()
}

type Service struct {
	Dialog
	Readings
	Billing
	Journal
	Writeback
	Authorization
}

// Options carries what the services need besides the repositories.
type Options struct {
	Rates      *RateTable
	Clock      Clock
	Publisher  BillPublisher
	QueueSize  int
	SigningKey string
	TokenTTL   time.Duration
	Metrics    *metrics.Metrics
	Log        *logger.Logger
}

func NewService(repos *repository.Repository, opts Options) (*Service, error) {
	auth, err := NewAuthService(repos.Auth, opts.SigningKey, opts.TokenTTL)
	if err != nil {
		return nil, err
	}

	store := NewReadingStore(repos.Readings, opts.Clock)
	wb := NewWritebackService(store, repos.Journal, opts.Publisher, opts.QueueSize, opts.Metrics, opts.Log)
	readings := NewReadingsService(store, repos.Journal, opts.Metrics, opts.Log)
	billing := NewBillingService(store, opts.Rates, wb, repos.Journal, opts.Metrics, opts.Log)

	return &Service{
		Dialog:        NewDialogService(readings, billing, opts.Metrics, opts.Log),
		Readings:      readings,
		Billing:       billing,
		Journal:       NewJournalService(repos.Journal),
		Writeback:     wb,
		Authorization: auth,
	}, nil
}
