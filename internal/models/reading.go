package models

// Field names a single meter reading or a derived total within a period.
type Field string

// Raw meter readings dictated by the user.
const (
	BathCold    Field = "bath_cold"
	BathHot     Field = "bath_hot"
	KitchenCold Field = "kitchen_cold"
	KitchenHot  Field = "kitchen_hot"
	ElT1        Field = "el_t1"
	ElT2        Field = "el_t2"
	ElT3        Field = "el_t3"
)

// Totals written back after a successful bill computation.
const (
	TotalCold  Field = "total_cold"
	TotalHot   Field = "total_hot"
	TotalDrain Field = "total_drain"
	TotalT1    Field = "total_t1"
	TotalT2    Field = "total_t2"
	TotalT3    Field = "total_t3"
	TotalAll   Field = "total_all"
)

// RawFields lists the user-entered readings in canonical order.
var RawFields = []Field{BathCold, BathHot, KitchenCold, KitchenHot, ElT1, ElT2, ElT3}

// TotalFields lists the derived totals in canonical order.
var TotalFields = []Field{TotalCold, TotalHot, TotalDrain, TotalT1, TotalT2, TotalT3, TotalAll}

// ElectricityFields maps tariff number (1..3) to its reading field.
var ElectricityFields = map[int]Field{1: ElT1, 2: ElT2, 3: ElT3}

// IsRaw reports whether f is a user-entered reading.
func (f Field) IsRaw() bool {
	for _, r := range RawFields {
		if r == f {
			return true
		}
	}
	return false
}

// IsTotal reports whether f is a derived total.
func (f Field) IsTotal() bool {
	for _, t := range TotalFields {
		if t == f {
			return true
		}
	}
	return false
}

// Valid reports whether f is a known field.
func (f Field) Valid() bool { return f.IsRaw() || f.IsTotal() }

// Readings holds values of one period. A missing key means the field is unset.
type Readings map[Field]float64

// Has reports whether the field is set.
func (r Readings) Has(f Field) bool {
	_, ok := r[f]
	return ok
}

// Missing returns unset raw fields in canonical order.
func (r Readings) Missing() []Field {
	var out []Field
	for _, f := range RawFields {
		if !r.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Complete reports whether every raw field is set.
func (r Readings) Complete() bool { return len(r.Missing()) == 0 }

// Empty reports whether no raw field is set.
func (r Readings) Empty() bool { return len(r.Missing()) == len(RawFields) }

// Clone returns an independent copy.
func (r Readings) Clone() Readings {
	out := make(Readings, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// PeriodReadings is a snapshot of one period.
type PeriodReadings struct {
	Key      PeriodKey `json:"period"`
	Readings Readings  `json:"readings"`
	Missing  []Field   `json:"missing,omitempty"`
}
