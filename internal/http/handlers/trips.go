package handlers

import (
	"net/http"
	"strings"
	"time"

	"transitpay/internal/domain/models"
	"transitpay/internal/repositories"

	"github.com/gin-gonic/gin"
)

// SearchTrips lists scheduled trips, optionally filtered by route and date.
func SearchTrips(c *gin.Context) {
	trips, err := (repositories.TripRepository{}).Search(
		strings.TrimSpace(c.Query("from")),
		strings.TrimSpace(c.Query("to")),
		strings.TrimSpace(c.Query("date")),
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// GetTripSeats returns the seat map for a trip. Holds past expiry read as
// free.
func GetTripSeats(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	trips := repositories.TripRepository{}
	trip, err := trips.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	capacity := 0
	if trip.VehicleID > 0 {
		if v, err := (repositories.VehicleRepository{}).GetByID(trip.VehicleID); err == nil {
			capacity = v.Capacity
		}
	}

	booked, held, err := trips.SeatState(id, time.Now())
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"seat_map": models.SeatMap{
		TripID:   id,
		Capacity: capacity,
		Booked:   booked,
		Held:     held,
	}})
}

type tripRequest struct {
	VehicleID    int64  `json:"vehicle_id"`
	RouteFrom    string `json:"route_from"`
	RouteTo      string `json:"route_to"`
	TripDate     string `json:"trip_date"`
	TripTime     string `json:"trip_time"`
	Status       string `json:"status"`
	PricePerSeat int64  `json:"price_per_seat"`
}

func (r tripRequest) model(id int64) models.ScheduledTrip {
	status := strings.TrimSpace(r.Status)
	if status == "" {
		status = "scheduled"
	}
	return models.ScheduledTrip{
		ID:           id,
		VehicleID:    r.VehicleID,
		RouteFrom:    strings.TrimSpace(r.RouteFrom),
		RouteTo:      strings.TrimSpace(r.RouteTo),
		TripDate:     strings.TrimSpace(r.TripDate),
		TripTime:     strings.TrimSpace(r.TripTime),
		Status:       status,
		PricePerSeat: r.PricePerSeat,
	}
}

func (r tripRequest) validate(c *gin.Context) bool {
	if strings.TrimSpace(r.RouteFrom) == "" || strings.TrimSpace(r.RouteTo) == "" {
		RespondError(c, http.StatusBadRequest, "route_from and route_to are required", nil)
		return false
	}
	if strings.TrimSpace(r.TripDate) == "" {
		RespondError(c, http.StatusBadRequest, "trip_date is required", nil)
		return false
	}
	return true
}

// CreateTrip schedules a trip. Admin only.
func CreateTrip(c *gin.Context) {
	var req tripRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if !req.validate(c) {
		return
	}

	id, err := (repositories.TripRepository{}).Create(req.model(0))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "trip created", "id": id})
}

// UpdateTrip edits a scheduled trip. Admin only.
func UpdateTrip(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req tripRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if !req.validate(c) {
		return
	}

	if err := (repositories.TripRepository{}).Update(req.model(id)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trip updated"})
}

// DeleteTrip removes a scheduled trip. Admin only.
func DeleteTrip(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := (repositories.TripRepository{}).Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trip deleted"})
}
