package service

import (
	"context"
	"fmt"

	"home_bills/internal/models"
	"home_bills/internal/repository"
)

// RateTable is the immutable set of unit prices loaded at startup.
type RateTable struct {
	rates models.Rates
}

// NewRateTable validates rates and freezes them.
func NewRateTable(rates models.Rates) (*RateTable, error) {
	if err := rates.Validate(); err != nil {
		return nil, fmt.Errorf("rate table: %w", err)
	}
	return &RateTable{rates: rates}, nil
}

// LoadRateTable reads rates from an external range, e.g. the workbook's rates sheet.
func LoadRateTable(ctx context.Context, src repository.RatesSource) (*RateTable, error) {
	rates, err := src.LoadRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rate table: %w", err)
	}
	return NewRateTable(rates)
}

// Rates returns a copy of the table.
func (t *RateTable) Rates() models.Rates { return t.rates }
