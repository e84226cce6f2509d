package handlers

import (
	"net/http"
	"strings"

	"transitpay/internal/domain/models"
	"transitpay/internal/repositories"

	"github.com/gin-gonic/gin"
)

// ListRoutes returns all configured routes with pricing.
func ListRoutes(c *gin.Context) {
	routes, err := (repositories.RouteRepository{}).List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

type routeRequest struct {
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	PricePerSeat int64  `json:"price_per_seat"`
	CharterPrice int64  `json:"charter_price"`
	Status       string `json:"status"`
}

func (r routeRequest) model(id int64) models.Route {
	status := strings.TrimSpace(r.Status)
	if status == "" {
		status = "active"
	}
	return models.Route{
		ID:           id,
		Origin:       strings.TrimSpace(r.Origin),
		Destination:  strings.TrimSpace(r.Destination),
		PricePerSeat: r.PricePerSeat,
		CharterPrice: r.CharterPrice,
		Status:       status,
	}
}

// CreateRoute adds a route. Admin only.
func CreateRoute(c *gin.Context) {
	var req routeRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.Origin) == "" || strings.TrimSpace(req.Destination) == "" {
		RespondError(c, http.StatusBadRequest, "origin and destination are required", nil)
		return
	}

	id, err := (repositories.RouteRepository{}).Create(req.model(0))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "route created", "id": id})
}

// UpdateRoute edits a route's endpoints or pricing. Admin only.
func UpdateRoute(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req routeRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := (repositories.RouteRepository{}).Update(req.model(id)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "route updated"})
}

// DeleteRoute removes a route. Admin only.
func DeleteRoute(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := (repositories.RouteRepository{}).Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "route deleted"})
}
