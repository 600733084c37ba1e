package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tugasbot/internal/dialogflow"
	"tugasbot/internal/services"
)

// HandleWebhook is the single fulfillment endpoint. Dialogflow expects
// 200 with a fulfillmentText no matter what happened; anything else
// makes the bot read a raw error to the user.
func (h *handlerImpl) HandleWebhook(c *gin.Context) {
	var req dialogflow.WebhookRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind webhook body")
		c.JSON(http.StatusOK, dialogflow.WebhookResponse{
			FulfillmentText: services.ServerErrorText,
		})
		return
	}

	reply := h.dispatcher.Dispatch(
		c.Request.Context(),
		req.IntentDisplayName(),
		req.Params(),
	)
	if reply.Outcome == services.OutcomeStoreFailure {
		h.logger.Error().
			Str("intent", req.IntentDisplayName()).
			Msg("webhook request failed against the store")
	}

	c.JSON(http.StatusOK, dialogflow.WebhookResponse{
		FulfillmentText: reply.Text,
	})
}
