package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"home_bills/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List journal events
// @Description  A date-only 'to' covers the whole day.
// @Tags         journal
// @Produce      json
// @Param        from  query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD')"  example(2026-10-01)
// @Param        to    query   string  false  "End of range, same formats"  example(2026-10-31)
// @Param        type  query   string  false  "Event type"  Enums(READING_SET,BILL_COMPUTED,TOTALS_SAVED,REFRESH)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/journal [get]
// @Security     BearerAuth
func (h *Handler) getJournal(c *gin.Context) {
	filter, err := journalFilter(c.Query("from"), c.Query("to"), c.Query("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.services.Journal.List(c.Request.Context(), filter)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load journal", "journal_list_failed", err,
			"from", filter.From, "to", filter.To, "type", filter.Type)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(events), "events": events})
}

// journalFilter parses the query bounds. A date-only upper bound covers the whole day.
func journalFilter(fromQ, toQ, typ string) (service.LogFilter, error) {
	f := service.LogFilter{Type: typ}
	var err error
	if fromQ != "" {
		if f.From, err = parseQueryTime(fromQ); err != nil {
			return f, errors.New(errFromInvalid)
		}
	}
	if toQ != "" {
		if f.To, err = parseQueryTime(toQ); err != nil {
			return f, errors.New(errToInvalid)
		}
		if isDateOnly(toQ) {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return f, errors.New("'from' must be <= 'to'")
	}
	return f, nil
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}
