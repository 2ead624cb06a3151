package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"home_bills/internal/models"

	"github.com/google/uuid"
)

// JournalSQLite keeps the audit trail of readings, refreshes and bills.
type JournalSQLite struct {
	db *sql.DB
}

func NewJournalSQLite(db *sql.DB) *JournalSQLite { return &JournalSQLite{db: db} }

var _ JournalRepo = (*JournalSQLite)(nil)

const (
	insertJournalSQL = `
		INSERT INTO journal_events (id, occurred_at, type, period, message, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	selectJournalSQL = `SELECT id, occurred_at, type, period, message, meta FROM journal_events`

	sqliteTimestampLayout = "2006-01-02 15:04:05"
)

// Append stores e, assigning an ID and a UTC timestamp when they are unset.
func (r *JournalSQLite) Append(ctx context.Context, e models.JournalEvent) error {
	id := e.EventID
	if id == "" {
		id = uuid.NewString()
	}
	at := e.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}
	meta, err := encodeMeta(e.Metadata)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, insertJournalSQL,
		id, at.UTC().Format(sqliteTimestampLayout), normalizeType(e.Type), e.Period, e.Description, meta,
	); err != nil {
		return fmt.Errorf("insert journal event %s: %w", e.Type, err)
	}
	return nil
}

// List returns events within [from, to] of the given type, oldest first.
// Zero bounds and an empty type disable the corresponding filter.
func (r *JournalSQLite) List(ctx context.Context, from, to time.Time, typ string) ([]models.JournalEvent, error) {
	where, args := journalWhere(from, to, typ)

	rows, err := r.db.QueryContext(ctx, selectJournalSQL+where+" ORDER BY occurred_at ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("select journal: %w", err)
	}
	defer rows.Close()

	var events []models.JournalEvent
	for rows.Next() {
		var (
			ev   models.JournalEvent
			meta sql.NullString
		)
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.Period, &ev.Description, &meta); err != nil {
			return nil, fmt.Errorf("scan journal event: %w", err)
		}
		ev.OccurredAt = ev.OccurredAt.UTC()
		ev.Metadata = decodeMeta(meta)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	if events == nil {
		events = []models.JournalEvent{}
	}
	return events, nil
}

func journalWhere(from, to time.Time, typ string) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		conds = append(conds, cond)
		args = append(args, arg)
	}
	if !from.IsZero() {
		add("occurred_at >= ?", from.UTC().Format(sqliteTimestampLayout))
	}
	if !to.IsZero() {
		add("occurred_at <= ?", to.UTC().Format(sqliteTimestampLayout))
	}
	if typ = normalizeType(typ); typ != "" {
		add("type = ?", typ)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func encodeMeta(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal journal metadata: %w", err)
	}
	s := string(b)
	return &s, nil
}

// decodeMeta parses stored JSON; malformed text is returned as is.
func decodeMeta(s sql.NullString) any {
	if !s.Valid || s.String == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(s.String), &v); err != nil {
		return s.String
	}
	return v
}

func normalizeType(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
