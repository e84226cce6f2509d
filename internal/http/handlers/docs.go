package handlers

import (
	"net/http"

	"transitpay/internal/http/middleware"
	"transitpay/internal/services"

	"github.com/gin-gonic/gin"
)

func docsService(c *gin.Context) services.DocsService {
	return services.DocsService{RequestID: middleware.GetRequestID(c)}
}

// GetETicket streams the e-ticket PDF for a settled booking.
func GetETicket(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	pdf, filename, err := docsService(c).GenerateETicket(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GetReceipt streams the payment receipt PDF for a booking.
func GetReceipt(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	pdf, filename, err := docsService(c).GenerateReceipt(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
