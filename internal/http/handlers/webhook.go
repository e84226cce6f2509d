package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	intconfig "transitpay/internal/config"
	"transitpay/internal/http/middleware"
	"transitpay/internal/paystack"
	"transitpay/internal/services"
	"transitpay/internal/utils"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

// PaystackWebhook handles provider push notifications. The signature check
// runs against the raw body before any parsing. Per-record processing errors
// are logged but acknowledged with 200 so the provider does not retry them
// forever.
func PaystackWebhook(c *gin.Context) {
	reqID := middleware.GetRequestID(c)
	d := deps()

	if d.Env.PaystackSecretKey == "" {
		utils.LogEvent(reqID, "webhook", "reject", "secret key not configured")
		RespondError(c, http.StatusInternalServerError, "payment provider not configured", nil)
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable body", err)
		return
	}

	signature := c.GetHeader("x-paystack-signature")
	if signature == "" || !paystack.ValidSignature(body, signature, d.Env.PaystackSecretKey) {
		utils.LogEvent(reqID, "webhook", "reject", "bad signature")
		RespondError(c, http.StatusBadRequest, "invalid signature", nil)
		return
	}

	var evt paystack.Event
	if err := json.Unmarshal(body, &evt); err != nil {
		RespondError(c, http.StatusBadRequest, "malformed event", err)
		return
	}

	svc := services.WebhookService{
		DB:        intconfig.DB,
		Events:    d.Events,
		RequestID: reqID,
	}
	if err := svc.Process(evt); err != nil {
		// Still acknowledged with 200.
		utils.LogEvent(reqID, "webhook", "process_error", "event="+evt.Event+" err="+err.Error())
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
