package handlers

import (
	"net/http"
	"strings"

	"transitpay/internal/domain/models"
	"transitpay/internal/repositories"

	"github.com/gin-gonic/gin"
)

// ListVehicles returns the fleet. Admin only.
func ListVehicles(c *gin.Context) {
	vehicles, err := (repositories.VehicleRepository{}).List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

// GetVehicle returns one vehicle by id.
func GetVehicle(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	v, err := (repositories.VehicleRepository{}).GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": v})
}

type vehicleRequest struct {
	Name         string `json:"name"`
	PlateNumber  string `json:"plate_number"`
	Capacity     int    `json:"capacity"`
	WifiSSID     string `json:"wifi_ssid"`
	WifiPassword string `json:"wifi_password"`
	DriverID     int64  `json:"driver_id"`
	Status       string `json:"status"`
}

func (r vehicleRequest) model(id int64) models.Vehicle {
	status := strings.TrimSpace(r.Status)
	if status == "" {
		status = "active"
	}
	return models.Vehicle{
		ID:           id,
		Name:         strings.TrimSpace(r.Name),
		PlateNumber:  strings.TrimSpace(r.PlateNumber),
		Capacity:     r.Capacity,
		WifiSSID:     strings.TrimSpace(r.WifiSSID),
		WifiPassword: r.WifiPassword,
		DriverID:     r.DriverID,
		Status:       status,
	}
}

// CreateVehicle adds a vehicle to the fleet. Admin only.
func CreateVehicle(c *gin.Context) {
	var req vehicleRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.PlateNumber) == "" {
		RespondError(c, http.StatusBadRequest, "name and plate_number are required", nil)
		return
	}

	id, err := (repositories.VehicleRepository{}).Create(req.model(0))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "vehicle created", "id": id})
}

// UpdateVehicle edits a vehicle, including its onboard WiFi credentials.
func UpdateVehicle(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req vehicleRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := (repositories.VehicleRepository{}).Update(req.model(id)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle updated"})
}

// DeleteVehicle removes a vehicle. Admin only.
func DeleteVehicle(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := (repositories.VehicleRepository{}).Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}
