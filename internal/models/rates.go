package models

import "fmt"

// Rates are per-unit prices used to price consumption.
type Rates struct {
	ColdWater float64 `json:"cold_water" mapstructure:"cold_water"`
	HotWater  float64 `json:"hot_water" mapstructure:"hot_water"`
	Drain     float64 `json:"drain" mapstructure:"drain"`
	ElT1      float64 `json:"el_t1" mapstructure:"el_t1"`
	ElT2      float64 `json:"el_t2" mapstructure:"el_t2"`
	ElT3      float64 `json:"el_t3" mapstructure:"el_t3"`
}

// Validate requires every rate to be positive.
func (r Rates) Validate() error {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"cold_water", r.ColdWater},
		{"hot_water", r.HotWater},
		{"drain", r.Drain},
		{"el_t1", r.ElT1},
		{"el_t2", r.ElT2},
		{"el_t3", r.ElT3},
	} {
		if !(c.value > 0) {
			return fmt.Errorf("rate %s must be positive, got %v", c.name, c.value)
		}
	}
	return nil
}
