package models

import "time"

// Journal event types.
const (
	EventReadingSet   = "READING_SET"
	EventBillComputed = "BILL_COMPUTED"
	EventTotalsSaved  = "TOTALS_SAVED"
	EventRefresh      = "REFRESH"
)

// JournalEvent is a single entry of the household journal.
type JournalEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // READING_SET | BILL_COMPUTED | TOTALS_SAVED | REFRESH
	Period      string    `json:"period"`      // YYYY-MM
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
