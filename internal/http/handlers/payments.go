package handlers

import (
	"net/http"
	"strings"
	"time"

	intconfig "transitpay/internal/config"
	"transitpay/internal/http/middleware"
	"transitpay/internal/paystack"
	"transitpay/internal/repositories"
	"transitpay/internal/services"
	"transitpay/internal/utils"

	"github.com/gin-gonic/gin"
)

// verifyPaymentRequest tolerates bookingId arriving as string or number.
type verifyPaymentRequest struct {
	Reference string             `json:"reference"`
	BookingID paystack.Stringish `json:"bookingId"`
}

func reconcileService(c *gin.Context) services.ReconcileService {
	d := deps()
	return services.ReconcileService{
		DB:        intconfig.DB,
		Provider:  d.Provider,
		Events:    d.Events,
		HoldIndex: d.HoldIndex,
		RequestID: middleware.GetRequestID(c),
	}
}

// VerifyPayment settles a seated-trip booking after the client finishes the
// provider checkout.
func VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	bookingID := repositories.ParseID(strings.TrimSpace(req.BookingID.String()))
	details, err := reconcileService(c).VerifySeatedPayment(c.Request.Context(), strings.TrimSpace(req.Reference), bookingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"bookingDetails": details,
	})
}

// VerifyCharterPayment settles a charter or logistics booking. No seat
// bookkeeping is involved.
func VerifyCharterPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	bookingID := repositories.ParseID(strings.TrimSpace(req.BookingID.String()))
	details, err := reconcileService(c).VerifyCharterPayment(c.Request.Context(), strings.TrimSpace(req.Reference), bookingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"bookingDetails": details,
	})
}

type syncPaymentsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SyncPayments re-pulls provider transactions for a date range and backfills
// missing payment rows. Admin only.
func SyncPayments(c *gin.Context) {
	var req syncPaymentsRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	from, err := utils.ParseDate(req.From)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid from date", err)
		return
	}
	to, err := utils.ParseDate(req.To)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid to date", err)
		return
	}
	if to.Before(from) {
		RespondError(c, http.StatusBadRequest, "to is before from", nil)
		return
	}
	// Cover the whole closing day.
	to = to.Add(24*time.Hour - time.Second)

	svc := services.SyncService{
		DB:        intconfig.DB,
		Provider:  deps().Provider,
		RequestID: middleware.GetRequestID(c),
	}
	result, err := svc.Run(c.Request.Context(), from, to)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "sync complete", "result": result})
}
