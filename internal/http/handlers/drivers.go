package handlers

import (
	"net/http"
	"strings"

	"transitpay/internal/domain/models"
	"transitpay/internal/repositories"
	"transitpay/internal/utils"

	"github.com/gin-gonic/gin"
)

// ListDrivers returns all drivers. Admin only.
func ListDrivers(c *gin.Context) {
	drivers, err := (repositories.DriverRepository{}).List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}

type driverRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
	Status        string `json:"status"`
}

func (r driverRequest) model(id int64) models.Driver {
	status := strings.TrimSpace(r.Status)
	if status == "" {
		status = "active"
	}
	return models.Driver{
		ID:            id,
		Name:          utils.NormalizeSpace(r.Name),
		Phone:         utils.NormalizePhone(r.Phone),
		LicenseNumber: strings.TrimSpace(r.LicenseNumber),
		Status:        status,
	}
}

// CreateDriver registers a driver. Admin only.
func CreateDriver(c *gin.Context) {
	var req driverRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		RespondError(c, http.StatusBadRequest, "name is required", nil)
		return
	}

	id, err := (repositories.DriverRepository{}).Create(req.model(0))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "driver created", "id": id})
}

// UpdateDriver edits a driver. Admin only.
func UpdateDriver(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req driverRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := (repositories.DriverRepository{}).Update(req.model(id)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "driver updated"})
}

// DeleteDriver removes a driver. Admin only.
func DeleteDriver(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := (repositories.DriverRepository{}).Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "driver deleted"})
}
