package models

import "time"

// Booking types.
const (
	TypePassenger = "passenger"
	TypeCharter   = "charter"
	TypeLogistics = "logistics"
)

// Booking statuses. Pending -> {On Progress|Confirmed} -> In Transit ->
// Completed; Cancelled and Payment Failed are absorbing and only reachable
// from Pending.
const (
	StatusPending       = "Pending"
	StatusOnProgress    = "On Progress"
	StatusConfirmed     = "Confirmed"
	StatusInTransit     = "In Transit"
	StatusCompleted     = "Completed"
	StatusCancelled     = "Cancelled"
	StatusPaymentFailed = "Payment Failed"
)

type Booking struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Type             string    `json:"type"`
	Status           string    `json:"status"`
	RouteFrom        string    `json:"route_from"`
	RouteTo          string    `json:"route_to"`
	TripDate         string    `json:"trip_date"`
	TripTime         string    `json:"trip_time"`
	ScheduledTripID  int64     `json:"scheduled_trip_id,omitempty"`
	PassengerName    string    `json:"passenger_name"`
	PassengerPhone   string    `json:"passenger_phone"`
	PassengerCount   int       `json:"passenger_count"`
	Price            int64     `json:"price"`
	PaymentReference string    `json:"payment_reference,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Seats []string `json:"seats,omitempty"`
}

// SettledStatus returns the status a booking moves to once its payment
// verifies: charters and logistics confirm outright, seated trips go
// On Progress.
func SettledStatus(bookingType string) string {
	switch bookingType {
	case TypeCharter, TypeLogistics:
		return StatusConfirmed
	}
	return StatusOnProgress
}

// CanTransition reports whether a lifecycle transition is allowed.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		switch to {
		case StatusOnProgress, StatusConfirmed, StatusCancelled, StatusPaymentFailed:
			return true
		}
	case StatusOnProgress, StatusConfirmed:
		return to == StatusInTransit
	case StatusInTransit:
		return to == StatusCompleted
	}
	return false
}
