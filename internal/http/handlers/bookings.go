package handlers

import (
	"net/http"
	"strings"

	intconfig "transitpay/internal/config"
	"transitpay/internal/domain/models"
	"transitpay/internal/http/middleware"
	"transitpay/internal/services"

	"github.com/gin-gonic/gin"
)

type createBookingRequest struct {
	Type            string   `json:"type"`
	ScheduledTripID int64    `json:"scheduled_trip_id"`
	RouteFrom       string   `json:"route_from"`
	RouteTo         string   `json:"route_to"`
	TripDate        string   `json:"trip_date"`
	TripTime        string   `json:"trip_time"`
	PassengerName   string   `json:"passenger_name"`
	PassengerPhone  string   `json:"passenger_phone"`
	PassengerCount  int      `json:"passenger_count"`
	Price           int64    `json:"price"`
	Seats           []string `json:"seats"`

	// Provider reference generated client-side before the charge is
	// initialized; lets the webhook locate the booking without metadata.
	PaymentReference string `json:"payment_reference"`
}

func bookingService(c *gin.Context) services.BookingService {
	d := deps()
	return services.BookingService{
		DB:        intconfig.DB,
		HoldIndex: d.HoldIndex,
		HoldTTL:   d.Env.SeatHoldTTL,
		RequestID: middleware.GetRequestID(c),
	}
}

// CreateBooking records a Pending booking at checkout. Seated bookings also
// place seat holds on the trip.
func CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	b := models.Booking{
		UserID:           middleware.GetUserID(c),
		Type:             strings.ToLower(strings.TrimSpace(req.Type)),
		ScheduledTripID:  req.ScheduledTripID,
		RouteFrom:        req.RouteFrom,
		RouteTo:          req.RouteTo,
		TripDate:         req.TripDate,
		TripTime:         req.TripTime,
		PassengerName:    req.PassengerName,
		PassengerPhone:   req.PassengerPhone,
		PassengerCount:   req.PassengerCount,
		Price:            req.Price,
		Seats:            req.Seats,
		PaymentReference: strings.TrimSpace(req.PaymentReference),
	}

	created, err := bookingService(c).Create(c.Request.Context(), b)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "booking created", "booking": created})
}

// GetBooking returns booking details including seats and payment state.
func GetBooking(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := bookingService(c).Detail(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

type updateBookingStatusRequest struct {
	Status string `json:"status"`
}

// UpdateBookingStatus moves a booking along its trip lifecycle. Guarded by
// role middleware at the router.
func UpdateBookingStatus(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateBookingStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := bookingService(c).UpdateStatus(c.Request.Context(), id, strings.TrimSpace(req.Status)); err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}
