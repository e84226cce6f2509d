package models

import "time"

type ScheduledTrip struct {
	ID           int64  `json:"id"`
	VehicleID    int64  `json:"vehicle_id"`
	RouteFrom    string `json:"route_from"`
	RouteTo      string `json:"route_to"`
	TripDate     string `json:"trip_date"`
	TripTime     string `json:"trip_time"`
	Status       string `json:"status"`
	PricePerSeat int64  `json:"price_per_seat"`
}

// SeatHold is a temporary per-trip reservation pending payment. Holds past
// ExpiresAt are treated as free by the seat map.
type SeatHold struct {
	TripID    int64     `json:"trip_id"`
	SeatCode  string    `json:"seat_code"`
	BookingID int64     `json:"booking_id"`
	HeldBy    string    `json:"held_by"`
	ExpiresAt time.Time `json:"expires_at"`
}

type BookedSeat struct {
	TripID        int64  `json:"trip_id"`
	SeatCode      string `json:"seat_code"`
	BookingID     int64  `json:"booking_id"`
	PassengerName string `json:"passenger_name"`
}

type SeatMap struct {
	TripID   int64    `json:"trip_id"`
	Capacity int      `json:"capacity"`
	Booked   []string `json:"booked"`
	Held     []string `json:"held"`
}
