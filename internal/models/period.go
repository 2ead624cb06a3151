package models

import (
	"fmt"
	"time"
)

// Period selects the current or the previous calendar month.
type Period int

const (
	PeriodCurrent Period = iota
	PeriodPrevious
)

func (p Period) String() string {
	switch p {
	case PeriodCurrent:
		return "current"
	case PeriodPrevious:
		return "previous"
	default:
		return fmt.Sprintf("period(%d)", int(p))
	}
}

// ParsePeriod accepts "current" (or empty) and "previous".
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "", "current":
		return PeriodCurrent, nil
	case "previous":
		return PeriodPrevious, nil
	default:
		return 0, fmt.Errorf("unknown period %q", s)
	}
}

// PeriodKey identifies a calendar month of a specific year.
type PeriodKey struct {
	Year  int
	Month time.Month
}

// KeyOf returns the period key containing t.
func KeyOf(t time.Time) PeriodKey {
	return PeriodKey{Year: t.Year(), Month: t.Month()}
}

// Prev returns the preceding month, wrapping at the year boundary.
func (k PeriodKey) Prev() PeriodKey {
	if k.Month == time.January {
		return PeriodKey{Year: k.Year - 1, Month: time.December}
	}
	return PeriodKey{Year: k.Year, Month: k.Month - 1}
}

// String formats the key as YYYY-MM.
func (k PeriodKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// IsZero reports whether the key is unset.
func (k PeriodKey) IsZero() bool { return k.Year == 0 && k.Month == 0 }

// ParsePeriodKey parses YYYY-MM.
func ParsePeriodKey(s string) (PeriodKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return PeriodKey{}, fmt.Errorf("invalid period key %q: %w", s, err)
	}
	return KeyOf(t), nil
}

func (k PeriodKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *PeriodKey) UnmarshalText(b []byte) error {
	parsed, err := ParsePeriodKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
