package handlers

import (
	"net/http"
	"strings"

	"transitpay/internal/repositories"

	"github.com/gin-gonic/gin"
)

// ListFundRequests returns withdrawal requests, optionally filtered by
// status. Admin only.
func ListFundRequests(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))
	requests, err := (repositories.FundRequestRepository{}).List(status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fund_requests": requests})
}

// ApproveFundRequest settles a pending withdrawal: flips it to approved and
// debits the wallet with a ledger row in one transaction.
func ApproveFundRequest(c *gin.Context) {
	settleFundRequest(c, true)
}

// RejectFundRequest declines a pending withdrawal without touching the
// wallet.
func RejectFundRequest(c *gin.Context) {
	settleFundRequest(c, false)
}

func settleFundRequest(c *gin.Context, approve bool) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := walletService(c).SettleFundRequest(id, approve); err != nil {
		RespondDomainError(c, err)
		return
	}

	msg := "fund request rejected"
	if approve {
		msg = "fund request approved"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
