package service

import "time"

// LogFilter narrows journal listings by time range and event type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "READING_SET", "BILL_COMPUTED", "TOTALS_SAVED", "REFRESH"
}
