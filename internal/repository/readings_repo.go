package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"home_bills/internal/models"
)

type ReadingsSQLite struct {
	db *sql.DB
}

func NewReadingsSQLite(db *sql.DB) *ReadingsSQLite {
	return &ReadingsSQLite{db: db}
}

var _ ReadingsRepo = (*ReadingsSQLite)(nil)

const (
	upsertReadingSQL = `
		INSERT INTO meter_readings (period, field, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(period, field) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`

	selectReadingsSQL = `SELECT field, value FROM meter_readings WHERE period = ?`
)

// Load returns every stored field of the period. An unknown period yields an empty set.
func (r *ReadingsSQLite) Load(ctx context.Context, key models.PeriodKey) (models.Readings, error) {
	rows, err := r.db.QueryContext(ctx, selectReadingsSQL, key.String())
	if err != nil {
		return nil, fmt.Errorf("select readings %s: %w", key, err)
	}
	defer rows.Close()

	out := make(models.Readings)
	for rows.Next() {
		var (
			field string
			value float64
		)
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("scan reading %s: %w", key, err)
		}
		f := models.Field(field)
		if !f.Valid() {
			// columns from a newer schema are ignored
			continue
		}
		out[f] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate readings %s: %w", key, err)
	}
	return out, nil
}

// Write upserts one field of the period.
func (r *ReadingsSQLite) Write(ctx context.Context, key models.PeriodKey, field models.Field, value float64) error {
	if !field.Valid() {
		return fmt.Errorf("unknown field %q", field)
	}
	if _, err := r.db.ExecContext(ctx, upsertReadingSQL, key.String(), string(field), value, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert reading %s/%s: %w", key, field, err)
	}
	return nil
}
