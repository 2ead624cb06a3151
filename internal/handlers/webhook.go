package handlers

import (
	"net/http"

	"home_bills/internal/models"
	"home_bills/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      Voice-assistant webhook
// @Description  Answers one dialog turn. Backend failures are answered with a generic reply, never an HTTP error.
// @Tags         dialog
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.WebhookResponse
// @Failure      400  {object}  map[string]string
// @Router       / [post]
func (h *Handler) webhook(c *gin.Context) {
	var req models.WebhookRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	text, err := h.services.HandleTurn(c.Request.Context(), req.Turn())
	if err != nil {
		h.metrics.TurnError()
		if h.log != nil {
			h.log.Errorw("dialog_turn_failed", "utterance", req.Request.OriginalUtterance, "err", err)
		}
		text = service.ReplyInternalFailure
	}

	c.JSON(http.StatusOK, models.WebhookResponse{
		Version:  req.Version,
		Session:  req.Session,
		Response: models.ResponseBody{Text: text},
	})
}
