package repository

import (
	"context"
	"database/sql"
	"time"

	"home_bills/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// ReadingsRepo is the durable backend of the reading store.
type ReadingsRepo interface {
	Load(ctx context.Context, key models.PeriodKey) (models.Readings, error)
	Write(ctx context.Context, key models.PeriodKey, field models.Field, value float64) error
}

// RatesSource provides the rate table from an external range.
type RatesSource interface {
	LoadRates(ctx context.Context) (models.Rates, error)
}

type JournalRepo interface {
	Append(ctx context.Context, e models.JournalEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.JournalEvent, error)
}

type Repository struct {
	Readings ReadingsRepo
	Journal  JournalRepo
	Auth     Authorization
}

// NewRepository wires SQLite-backed repositories. A non-nil readings overrides
// the SQLite readings backend (e.g. with a workbook).
func NewRepository(db *sql.DB, readings ReadingsRepo) *Repository {
	if readings == nil {
		readings = NewReadingsSQLite(db)
	}
	return &Repository{
		Readings: readings,
		Journal:  NewJournalSQLite(db),
		Auth:     NewUserRepository(db),
	}
}
