package repository

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"home_bills/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var oct2026 = models.PeriodKey{Year: 2026, Month: time.October}

func newReadingsMock(t *testing.T) (*ReadingsSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewReadingsSQLite(db), mock
}

func TestReadingsSQLite_Load(t *testing.T) {
	repo, mock := newReadingsMock(t)

	rows := sqlmock.NewRows([]string{"field", "value"}).
		AddRow("bath_cold", 100.0).
		AddRow("el_t2", 200.5).
		AddRow("legacy_column", 1.0).
		AddRow("total_all", 4208.3)
	mock.ExpectQuery(regexp.QuoteMeta(selectReadingsSQL)).
		WithArgs("2026-10").
		WillReturnRows(rows)

	got, err := repo.Load(ctx(t), oct2026)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 known fields, got %v", got)
	}
	if got[models.BathCold] != 100 || got[models.ElT2] != 200.5 || got[models.TotalAll] != 4208.3 {
		t.Fatalf("unexpected readings: %v", got)
	}
}

func TestReadingsSQLite_Load_EmptyPeriod(t *testing.T) {
	repo, mock := newReadingsMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectReadingsSQL)).
		WithArgs("2026-10").
		WillReturnRows(sqlmock.NewRows([]string{"field", "value"}))

	got, err := repo.Load(ctx(t), oct2026)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil readings, got %#v", got)
	}
}

func TestReadingsSQLite_Load_QueryError(t *testing.T) {
	repo, mock := newReadingsMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectReadingsSQL)).
		WillReturnError(errors.New("disk I/O error"))

	if _, err := repo.Load(ctx(t), oct2026); err == nil || !strings.Contains(err.Error(), "select readings 2026-10") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestReadingsSQLite_Write(t *testing.T) {
	repo, mock := newReadingsMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO meter_readings")).
		WithArgs("2026-10", "kitchen_hot", 40.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Write(ctx(t), oct2026, models.KitchenHot, 40); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func TestReadingsSQLite_Write_Errors(t *testing.T) {
	repo, mock := newReadingsMock(t)

	if err := repo.Write(ctx(t), oct2026, models.Field("gas"), 1); err == nil {
		t.Fatalf("expected unknown field error")
	}

	mock.ExpectExec("INSERT INTO meter_readings").
		WillReturnError(sql.ErrConnDone)
	err := repo.Write(ctx(t), oct2026, models.ElT1, 1)
	if !errors.Is(err, sql.ErrConnDone) {
		t.Fatalf("expected wrapped ErrConnDone, got %v", err)
	}
}
