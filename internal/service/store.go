package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"home_bills/internal/models"
	"home_bills/internal/repository"
)

var (
	ErrUnknownField    = errors.New("unknown reading field")
	ErrNegativeReading = errors.New("reading must not be negative")
)

// Clock tells the store which month is current.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

type periodState struct {
	key      models.PeriodKey
	readings models.Readings
}

// ReadingStore caches the current and previous month over a ReadingsRepo.
// Every access re-checks the clock; a new month reloads both periods.
type ReadingStore struct {
	repo  repository.ReadingsRepo
	clock Clock

	mu       sync.Mutex
	current  *periodState
	previous *periodState
}

func NewReadingStore(repo repository.ReadingsRepo, clock Clock) *ReadingStore {
	if clock == nil {
		clock = SystemClock
	}
	return &ReadingStore{repo: repo, clock: clock}
}

// Get returns the field value and whether it is set.
func (s *ReadingStore) Get(ctx context.Context, p models.Period, f models.Field) (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.resolve(ctx, p)
	if err != nil {
		return 0, false, err
	}
	v, ok := st.readings[f]
	return v, ok, nil
}

// Set writes the value through to the backend, then updates the cache.
func (s *ReadingStore) Set(ctx context.Context, p models.Period, f models.Field, value float64) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	if value < 0 {
		return ErrNegativeReading
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.resolve(ctx, p)
	if err != nil {
		return err
	}
	if err := s.repo.Write(ctx, st.key, f, value); err != nil {
		return err
	}
	st.readings[f] = value
	return nil
}

// IsComplete reports whether all raw readings of the period are set.
func (s *ReadingStore) IsComplete(ctx context.Context, p models.Period) (bool, error) {
	missing, err := s.MissingFields(ctx, p)
	if err != nil {
		return false, err
	}
	return len(missing) == 0, nil
}

// MissingFields lists unset raw readings in canonical order.
func (s *ReadingStore) MissingFields(ctx context.Context, p models.Period) ([]models.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.resolve(ctx, p)
	if err != nil {
		return nil, err
	}
	return st.readings.Missing(), nil
}

// Snapshot returns a copy of the period's readings.
func (s *ReadingStore) Snapshot(ctx context.Context, p models.Period) (models.PeriodReadings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.resolve(ctx, p)
	if err != nil {
		return models.PeriodReadings{}, err
	}
	return models.PeriodReadings{
		Key:      st.key,
		Readings: st.readings.Clone(),
		Missing:  st.readings.Missing(),
	}, nil
}

// SetTotals persists derived totals for a specific month. The key is explicit so a
// month rollover between computing and saving cannot misfile them.
func (s *ReadingStore) SetTotals(ctx context.Context, key models.PeriodKey, totals models.Readings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range models.TotalFields {
		v, ok := totals[f]
		if !ok {
			continue
		}
		if err := s.repo.Write(ctx, key, f, v); err != nil {
			return fmt.Errorf("write %s for %s: %w", f, key, err)
		}
		for _, st := range []*periodState{s.current, s.previous} {
			if st != nil && st.key == key {
				st.readings[f] = v
			}
		}
	}
	return nil
}

// Reload drops the cache and loads both periods again.
func (s *ReadingStore) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current, s.previous = nil, nil
	_, err := s.resolve(ctx, models.PeriodCurrent)
	return err
}

// resolve must be called with s.mu held.
func (s *ReadingStore) resolve(ctx context.Context, p models.Period) (*periodState, error) {
	key := models.KeyOf(s.clock.Now())
	if s.current == nil || s.current.key != key {
		cur, err := s.load(ctx, key)
		if err != nil {
			return nil, err
		}
		prev, err := s.load(ctx, key.Prev())
		if err != nil {
			return nil, err
		}
		s.current, s.previous = cur, prev
	}
	switch p {
	case models.PeriodCurrent:
		return s.current, nil
	case models.PeriodPrevious:
		return s.previous, nil
	default:
		return nil, fmt.Errorf("unknown period %v", p)
	}
}

func (s *ReadingStore) load(ctx context.Context, key models.PeriodKey) (*periodState, error) {
	r, err := s.repo.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load readings %s: %w", key, err)
	}
	if r == nil {
		r = make(models.Readings)
	}
	return &periodState{key: key, readings: r}, nil
}
