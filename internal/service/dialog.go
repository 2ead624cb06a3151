package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"home_bills/internal/logger"
	"home_bills/internal/metrics"
	"home_bills/internal/models"
)

// Intents, also used as metric labels.
const (
	IntentGreeting    = "greeting"
	IntentRefresh     = "refresh"
	IntentKitchen     = "kitchen"
	IntentBath        = "bath"
	IntentElectricity = "electricity"
	IntentBill        = "bill"
	IntentUnknown     = "unknown"
)

type keywordIntent struct {
	intent   string
	keywords []string
}

// Checked in order; the first match wins.
var utteranceIntents = []keywordIntent{
	{IntentRefresh, []string{"обнови"}},
	{IntentKitchen, []string{"кухня", "кухне"}},
	{IntentBath, []string{"ванная", "ванной"}},
	{IntentElectricity, []string{"электричество", "свет"}},
	{IntentBill, []string{"сколько вышло"}},
}

type waterLocation struct {
	hot, cold         models.Field
	hotText, coldText string
}

var waterLocations = map[string]waterLocation{
	IntentKitchen: {models.KitchenHot, models.KitchenCold, "горячую воду на кухне", "холодную воду на кухне"},
	IntentBath:    {models.BathHot, models.BathCold, "горячую воду в ванной", "холодную воду в ванной"},
}

// DialogService turns one conversational step into a reply.
type DialogService struct {
	readings *ReadingsService
	billing  *BillingService
	metrics  *metrics.Metrics
	log      *logger.Logger
}

func NewDialogService(readings *ReadingsService, billing *BillingService, m *metrics.Metrics, log *logger.Logger) *DialogService {
	return &DialogService{readings: readings, billing: billing, metrics: m, log: orNop(log)}
}

func classify(utterance string) string {
	u := strings.ToLower(utterance)
	for _, ki := range utteranceIntents {
		for _, kw := range ki.keywords {
			if strings.Contains(u, kw) {
				return ki.intent
			}
		}
	}
	return IntentUnknown
}

// HandleTurn returns the reply text. Input problems are answered in text;
// an error means the backend failed.
func (s *DialogService) HandleTurn(ctx context.Context, t models.Turn) (string, error) {
	intent := IntentGreeting
	if !t.NewSession {
		intent = classify(t.Utterance)
	}
	s.metrics.Turn(intent)

	switch intent {
	case IntentGreeting:
		return s.greet(ctx)
	case IntentRefresh:
		if err := s.readings.Reload(ctx); err != nil {
			return "", err
		}
		return replyRefreshed, nil
	case IntentKitchen, IntentBath:
		return s.recordWater(ctx, waterLocations[intent], t)
	case IntentElectricity:
		return s.recordElectricity(ctx, t)
	case IntentBill:
		return s.bill(ctx)
	default:
		return replyNotUnderstood, nil
	}
}

func (s *DialogService) greet(ctx context.Context) (string, error) {
	snap, err := s.readings.Snapshot(ctx, models.PeriodCurrent)
	if err != nil {
		return "", err
	}
	switch {
	case len(snap.Missing) == len(models.RawFields):
		return replyGreeting, nil
	case len(snap.Missing) > 0:
		return "Осталось записать показания " + missingCategories(snap.Missing) + ".", nil
	default:
		return replyAllFilled, nil
	}
}

func (s *DialogService) recordWater(ctx context.Context, loc waterLocation, t models.Turn) (string, error) {
	if len(t.Entities) != 1 {
		return replyBadReading, nil
	}
	value, ok := t.Entities[0].Number()
	if !ok || value < 0 {
		return replyBadReading, nil
	}

	u := strings.ToLower(t.Utterance)
	var (
		field models.Field
		text  string
	)
	switch {
	case strings.Contains(u, "горяч"):
		field, text = loc.hot, loc.hotText
	case strings.Contains(u, "холодн"):
		field, text = loc.cold, loc.coldText
	default:
		return replyHotOrCold, nil
	}

	if err := s.readings.Record(ctx, field, value); err != nil {
		return "", err
	}
	return "Записала " + text + ": " + formatReading(value), nil
}

func (s *DialogService) recordElectricity(ctx context.Context, t models.Turn) (string, error) {
	if len(t.Entities) < 2 {
		return replyBadReading, nil
	}
	nums := make([]float64, len(t.Entities))
	for i, e := range t.Entities {
		v, ok := e.Number()
		if !ok {
			return replyBadReading, nil
		}
		nums[i] = v
	}

	tariff, value := nums[0], nums[1]
	field, ok := models.ElectricityFields[int(tariff)]
	if !ok || tariff != math.Trunc(tariff) {
		return replyBadTariff, nil
	}
	if value < 0 {
		return replyBadReading, nil
	}

	if err := s.readings.Record(ctx, field, value); err != nil {
		return "", err
	}
	return "Записала электричество по тарифу " + formatReading(tariff) + ": " + formatReading(value), nil
}

func (s *DialogService) bill(ctx context.Context) (string, error) {
	b, err := s.billing.Calculate(ctx)
	if err != nil {
		var missing *models.MissingDataError
		if errors.As(err, &missing) {
			return MissingDataText(missing), nil
		}
		return "", err
	}
	return BillText(b), nil
}
