package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"home_bills/internal/models"
)

var errBackend = errors.New("backend unavailable")

// memReadings is an in-memory ReadingsRepo.
type memReadings struct {
	mu       sync.Mutex
	data     map[models.PeriodKey]models.Readings
	loads    int
	writes   int
	loadErr  error
	writeErr error
}

func newMemReadings() *memReadings {
	return &memReadings{data: map[models.PeriodKey]models.Readings{}}
}

func (m *memReadings) Load(ctx context.Context, key models.PeriodKey) (models.Readings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data[key].Clone(), nil
}

func (m *memReadings) Write(ctx context.Context, key models.PeriodKey, f models.Field, v float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writeErr != nil {
		return m.writeErr
	}
	if m.data[key] == nil {
		m.data[key] = models.Readings{}
	}
	m.data[key][f] = v
	return nil
}

func (m *memReadings) put(key models.PeriodKey, r models.Readings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = r.Clone()
}

func (m *memReadings) get(key models.PeriodKey, f models.Field) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key][f]
	return v, ok
}

// fakeClock is a settable Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

var (
	oct2026 = models.PeriodKey{Year: 2026, Month: time.October}
	sep2026 = models.PeriodKey{Year: 2026, Month: time.September}
)

func octoberClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)}
}

func scenarioCurrent() models.Readings {
	return models.Readings{
		models.BathCold: 100, models.BathHot: 50,
		models.KitchenCold: 80, models.KitchenHot: 40,
		models.ElT1: 400, models.ElT2: 200, models.ElT3: 540,
	}
}

func scenarioPrevious() models.Readings {
	return models.Readings{
		models.BathCold: 90, models.BathHot: 45,
		models.KitchenCold: 70, models.KitchenHot: 35,
		models.ElT1: 352, models.ElT2: 198, models.ElT3: 530,
	}
}

func scenarioRates() models.Rates {
	return models.Rates{ColdWater: 42.3, HotWater: 205.15, Drain: 30.9, ElT1: 6.72, ElT2: 2.32, ElT3: 5.66}
}

// capturePublisher records published bills.
type capturePublisher struct {
	mu    sync.Mutex
	bills []models.Bill
	err   error
}

func (p *capturePublisher) PublishBill(ctx context.Context, b models.Bill) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bills = append(p.bills, b)
	return p.err
}
