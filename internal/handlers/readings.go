package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"home_bills/internal/export"
	"home_bills/internal/models"
	"home_bills/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK        = "ok"
	statusRefreshed = "refreshed"

	errLoadReadings  = "failed to load readings"
	errSaveReading   = "failed to save reading"
	errRefresh       = "failed to reload readings"
	errComputeBill   = "failed to compute bill"
	errExportBill    = "failed to export bill"
	errMissingData   = "readings are incomplete"
	errInvalidPeriod = "invalid period; use current or previous"
)

// logAndJSONError logs err under logKey and answers with userMsg.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// SetReadingRequest is the body of PUT /api/v1/readings/{field}.
type SetReadingRequest struct {
	Value *float64 `json:"value" binding:"required" example:"40"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      Get readings of a month
// @Tags         readings
// @Produce      json
// @Param        period  query  string  false  "current or previous"  Enums(current,previous)
// @Success      200  {object}  models.PeriodReadings
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/readings [get]
// @Security     BearerAuth
func (h *Handler) getReadings(c *gin.Context) {
	period, err := models.ParsePeriod(c.DefaultQuery("period", models.PeriodCurrent.String()))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidPeriod})
		return
	}
	snap, err := h.services.Readings.Snapshot(c.Request.Context(), period)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadReadings, "readings_snapshot_failed", err, "period", period)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Correct a reading of the current month
// @Tags         readings
// @Accept       json
// @Produce      json
// @Param        field  path  string             true  "bath_cold, bath_hot, kitchen_cold, kitchen_hot, el_t1, el_t2 or el_t3"
// @Param        body   body  SetReadingRequest  true  "Reading value"
// @Success      200  {object}  models.PeriodReadings
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/readings/{field} [put]
// @Security     BearerAuth
func (h *Handler) putReading(c *gin.Context) {
	var req SetReadingRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	ctx := c.Request.Context()
	field := models.Field(c.Param("field"))

	if err := h.services.Readings.Record(ctx, field, *req.Value); err != nil {
		if errors.Is(err, service.ErrUnknownField) || errors.Is(err, service.ErrNegativeReading) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveReading, "reading_save_failed", err, "field", field)
		return
	}

	snap, err := h.services.Readings.Snapshot(ctx, models.PeriodCurrent)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadReadings, "readings_snapshot_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Reload readings from storage
// @Tags         readings
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/refresh [post]
// @Security     BearerAuth
func (h *Handler) refresh(c *gin.Context) {
	if err := h.services.Readings.Reload(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errRefresh, "readings_reload_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusRefreshed})
}

// calculate answers 409 with the missing fields when the bill cannot be computed.
func (h *Handler) calculate(c *gin.Context) (models.Bill, bool) {
	bill, err := h.services.Calculate(c.Request.Context())
	if err == nil {
		return bill, true
	}
	var missing *models.MissingDataError
	if errors.As(err, &missing) {
		c.JSON(http.StatusConflict, gin.H{
			"error":    errMissingData,
			"previous": missing.Previous,
			"missing":  missing.Fields,
		})
		return models.Bill{}, false
	}
	h.logAndJSONError(c, http.StatusInternalServerError, errComputeBill, "bill_compute_failed", err)
	return models.Bill{}, false
}

// @Summary      Compute the current bill
// @Tags         bill
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "bill, text"
// @Failure      409  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/bill [get]
// @Security     BearerAuth
func (h *Handler) getBill(c *gin.Context) {
	bill, ok := h.calculate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"bill": bill, "text": service.BillText(bill)})
}

// @Summary      Download the current bill
// @Tags         bill
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format  query  string  false  "pdf or xlsx"  Enums(pdf,xlsx)
// @Success      200
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]interface{}
// @Router       /api/v1/bill/export [get]
// @Security     BearerAuth
func (h *Handler) exportBill(c *gin.Context) {
	format := c.DefaultQuery("format", export.FormatPDF)
	contentType, ok := export.ContentTypes[format]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported format %q", format)})
		return
	}
	bill, ok := h.calculate(c)
	if !ok {
		return
	}
	body, err := export.Build(format, bill, h.services.Rates())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errExportBill, "bill_export_failed", err, "format", format)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="bill-%s.%s"`, bill.Period, format))
	c.Data(http.StatusOK, contentType, body)
}
