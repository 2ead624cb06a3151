package models

import (
	"fmt"
	"strings"
)

// Consumption is the month-over-month usage per category.
type Consumption struct {
	ColdWater float64 `json:"cold_water"`
	HotWater  float64 `json:"hot_water"`
	ElT1      float64 `json:"el_t1"`
	ElT2      float64 `json:"el_t2"`
	ElT3      float64 `json:"el_t3"`
}

// Prices is the cost of each category.
type Prices struct {
	ColdWater float64 `json:"cold_water"`
	HotWater  float64 `json:"hot_water"`
	Drain     float64 `json:"drain"`
	ElT1      float64 `json:"el_t1"`
	ElT2      float64 `json:"el_t2"`
	ElT3      float64 `json:"el_t3"`
}

// Comparison relates the bill to the previous period's stored total.
type Comparison struct {
	PreviousTotal float64 `json:"previous_total"`
	Difference    float64 `json:"difference"` // current - previous
}

// Bill is the result of pricing one period.
type Bill struct {
	Period      PeriodKey   `json:"period"`
	Consumption Consumption `json:"consumption"`
	Prices      Prices      `json:"prices"`
	Total       float64     `json:"total"`
	Comparison  *Comparison `json:"comparison,omitempty"`
}

// Totals returns the derived fields persisted after computation.
func (b Bill) Totals() Readings {
	return Readings{
		TotalCold:  b.Prices.ColdWater,
		TotalHot:   b.Prices.HotWater,
		TotalDrain: b.Prices.Drain,
		TotalT1:    b.Prices.ElT1,
		TotalT2:    b.Prices.ElT2,
		TotalT3:    b.Prices.ElT3,
		TotalAll:   b.Total,
	}
}

// MissingDataError reports raw fields that block a bill computation.
type MissingDataError struct {
	Fields   []Field
	Previous bool // the previous period lacks readings
}

func (e *MissingDataError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	which := "current"
	if e.Previous {
		which = "previous"
	}
	return fmt.Sprintf("missing %s readings: %s", which, strings.Join(names, ", "))
}
