package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"home_bills/internal/logger"
	"home_bills/internal/models"
	"home_bills/internal/repository"
)

type JournalService struct {
	repo repository.JournalRepo
}

func NewJournalService(repo repository.JournalRepo) *JournalService {
	return &JournalService{repo: repo}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}
	return from, to, normalizeEventType(f.Type), nil
}

// List returns journal events matching the filter.
func (s *JournalService) List(ctx context.Context, f LogFilter) ([]models.JournalEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, from, to, typ)
}

// appendJournal records an event best-effort: the journal never fails a user action.
func appendJournal(ctx context.Context, repo repository.JournalRepo, log *logger.Logger, e models.JournalEvent) {
	if repo == nil {
		return
	}
	if err := repo.Append(ctx, e); err != nil {
		orNop(log).Warnw("journal_append_failed", "type", e.Type, "period", e.Period, "err", err)
	}
}

func orNop(log *logger.Logger) *logger.Logger {
	if log == nil {
		return logger.Nop()
	}
	return log
}
