package handlers

import (
	"net/http"
	"strings"

	intconfig "transitpay/internal/config"
	"transitpay/internal/http/middleware"
	"transitpay/internal/repositories"
	"transitpay/internal/services"

	"github.com/gin-gonic/gin"
)

func walletService(c *gin.Context) services.WalletService {
	d := deps()
	return services.WalletService{
		DB:        intconfig.DB,
		Provider:  d.Provider,
		Events:    d.Events,
		RequestID: middleware.GetRequestID(c),
	}
}

// GetWallet returns the caller's balance and recent ledger entries.
func GetWallet(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID <= 0 {
		RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	wallets := repositories.WalletRepository{}
	balance, err := wallets.GetBalance(userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	txns, err := wallets.ListTransactions(userID, 20)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance":      balance,
		"transactions": txns,
	})
}

type verifyTopupRequest struct {
	Reference string `json:"reference"`
}

// VerifyWalletTopup re-verifies a funding reference with the provider and
// credits the wallet once per reference.
func VerifyWalletTopup(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID <= 0 {
		RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	var req verifyTopupRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	balance, err := walletService(c).VerifyTopup(c.Request.Context(), strings.TrimSpace(req.Reference), userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "balance": balance})
}

type withdrawalRequest struct {
	Amount        int64  `json:"amount"`
	Pin           string `json:"pin"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

// RequestWithdrawal creates a pending fund request for admin approval.
func RequestWithdrawal(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID <= 0 {
		RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	var req withdrawalRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	id, err := walletService(c).RequestWithdrawal(userID, req.Amount, req.Pin, req.BankName, req.AccountNumber, req.AccountName)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "withdrawal requested", "fund_request_id": id})
}

type setPinRequest struct {
	Pin string `json:"pin"`
}

// SetWalletPin sets or rotates the caller's wallet PIN.
func SetWalletPin(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID <= 0 {
		RespondError(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	var req setPinRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := walletService(c).SetPin(userID, req.Pin); err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "wallet pin updated"})
}
