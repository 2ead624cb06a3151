package service

import (
	"testing"

	"home_bills/internal/models"
)

func Test_missingPhrase(t *testing.T) {
	tests := []struct {
		name    string
		missing []models.Field
		want    string
	}{
		{"all electricity", []models.Field{models.ElT1, models.ElT2, models.ElT3}, "по электричеству"},
		{"one tariff", []models.Field{models.ElT2}, "по тарифу электричества 2"},
		{"two tariffs", []models.Field{models.ElT1, models.ElT3}, "по тарифам электричества 1 и 3"},
		{"kitchen hot", []models.Field{models.KitchenHot}, "горячей воды на кухне"},
		{"bath both", []models.Field{models.BathCold, models.BathHot}, "горячей воды в ванной и холодной воды в ванной"},
		{
			"mixed",
			[]models.Field{models.BathCold, models.KitchenCold, models.ElT1},
			"по тарифу электричества 1, холодной воды на кухне и холодной воды в ванной",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := missingPhrase(tt.missing); got != tt.want {
				t.Fatalf("missingPhrase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func Test_missingCategories(t *testing.T) {
	tests := []struct {
		missing []models.Field
		want    string
	}{
		{[]models.Field{models.ElT1, models.ElT2, models.ElT3}, "по электричеству"},
		{[]models.Field{models.ElT3, models.KitchenHot}, "по электричеству и воды на кухне"},
		{[]models.Field{models.BathCold, models.KitchenCold, models.ElT2}, "по электричеству, воды на кухне и воды в ванной"},
	}
	for _, tt := range tests {
		if got := missingCategories(tt.missing); got != tt.want {
			t.Errorf("missingCategories(%v) = %q, want %q", tt.missing, got, tt.want)
		}
	}
}

func Test_MissingDataText(t *testing.T) {
	if got := MissingDataText(&models.MissingDataError{Fields: models.RawFields}); got != replyNoReadings {
		t.Fatalf("all missing: %q", got)
	}
	got := MissingDataText(&models.MissingDataError{Fields: []models.Field{models.ElT1, models.ElT2, models.ElT3}})
	if got != "Не хватает показаний по электричеству." {
		t.Fatalf("electricity missing: %q", got)
	}
}

func TestBillText_Comparison(t *testing.T) {
	tests := []struct {
		name string
		bill models.Bill
		want string
	}{
		{
			"cheaper",
			models.Bill{Total: 1000.5, Comparison: &models.Comparison{PreviousTotal: 1021.5, Difference: -21}},
			"В этом месяце коммуналка вышла на 1000 рублей 50 копеек. Это на 21 рубль 0 копеек меньше, чем в прошлом месяце.",
		},
		{
			"same",
			models.Bill{Total: 3, Comparison: &models.Comparison{PreviousTotal: 3, Difference: 0}},
			"В этом месяце коммуналка вышла на 3 рубля 0 копеек. Столько же, сколько в прошлом месяце.",
		},
		{
			"no baseline",
			models.Bill{Total: 1.01},
			"В этом месяце коммуналка вышла на 1 рубль 1 копейка.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BillText(tt.bill); got != tt.want {
				t.Fatalf("BillText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func Test_formatReading(t *testing.T) {
	if got := formatReading(12.5); got != "12,5" {
		t.Fatalf("got %q", got)
	}
	if got := formatReading(40); got != "40" {
		t.Fatalf("got %q", got)
	}
}
