package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"transitpay/internal/domain"
	"transitpay/internal/domain/models"
	"transitpay/internal/holds"
	"transitpay/internal/observability"
	"transitpay/internal/repositories"
	"transitpay/internal/utils"
)

// BookingService creates Pending bookings at checkout. Seated bookings place
// seat holds on the trip in the same transaction; a seat already booked or
// live-held is a conflict.
type BookingService struct {
	DB        *sql.DB
	HoldIndex *holds.Index
	HoldTTL   time.Duration
	RequestID string
	Now       func() time.Time
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s BookingService) holdTTL() time.Duration {
	if s.HoldTTL > 0 {
		return s.HoldTTL
	}
	return 10 * time.Minute
}

// Create validates the booking and persists it as Pending, holding seats for
// seated trips.
func (s BookingService) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	switch b.Type {
	case models.TypePassenger, models.TypeCharter, models.TypeLogistics:
	default:
		return models.Booking{}, domain.ValidationError{Field: "type", Msg: "must be passenger, charter or logistics"}
	}
	if strings.TrimSpace(b.PassengerName) == "" {
		return models.Booking{}, domain.ValidationError{Field: "passenger_name", Msg: "name is required"}
	}
	if b.Type == models.TypePassenger {
		if b.ScheduledTripID <= 0 {
			return models.Booking{}, domain.ValidationError{Field: "scheduled_trip_id", Msg: "seated booking needs a trip"}
		}
		if len(b.Seats) == 0 {
			return models.Booking{}, domain.ValidationError{Field: "seats", Msg: "at least one seat is required"}
		}
	}

	seen := map[string]bool{}
	seats := make([]string, 0, len(b.Seats))
	for _, seat := range b.Seats {
		seat = strings.ToUpper(strings.TrimSpace(seat))
		if seat == "" || seen[seat] {
			continue
		}
		seen[seat] = true
		seats = append(seats, seat)
	}
	b.Seats = seats
	if b.PassengerCount <= 0 {
		b.PassengerCount = len(seats)
		if b.PassengerCount == 0 {
			b.PassengerCount = 1
		}
	}

	// Cheap pre-check against the hold index before opening a transaction.
	if b.Type == models.TypePassenger {
		for _, seat := range b.Seats {
			if held, err := s.HoldIndex.Held(ctx, b.ScheduledTripID, seat); err == nil && held {
				return models.Booking{}, domain.ConflictError{Resource: "seat", Msg: fmt.Sprintf("seat %s is no longer available", seat)}
			}
		}
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return models.Booking{}, domain.InternalError{Msg: "failed to start transaction", Err: err}
	}
	defer tx.Rollback()

	txBookings := repositories.BookingRepository{Q: tx}
	txTrips := repositories.TripRepository{Q: tx}

	now := s.now()
	var trip models.ScheduledTrip
	if b.Type == models.TypePassenger {
		// Reads before writes: trip must exist, seats must be free.
		trip, err = txTrips.GetByID(b.ScheduledTripID)
		if err != nil {
			return models.Booking{}, err
		}
		for _, seat := range b.Seats {
			taken, err := txTrips.SeatTaken(trip.ID, seat, now)
			if err != nil {
				return models.Booking{}, err
			}
			if taken {
				return models.Booking{}, domain.ConflictError{Resource: "seat", Msg: fmt.Sprintf("seat %s is no longer available", seat)}
			}
		}
		b.RouteFrom = trip.RouteFrom
		b.RouteTo = trip.RouteTo
		b.TripDate = trip.TripDate
		b.TripTime = trip.TripTime
		if b.Price <= 0 {
			b.Price = trip.PricePerSeat * int64(len(b.Seats))
		}
	}

	id, err := txBookings.Create(b)
	if err != nil {
		return models.Booking{}, err
	}

	expiresAt := now.Add(s.holdTTL())
	if b.Type == models.TypePassenger {
		for _, seat := range b.Seats {
			if err := txTrips.PlaceHold(models.SeatHold{
				TripID:    trip.ID,
				SeatCode:  seat,
				BookingID: id,
				HeldBy:    b.PassengerName,
				ExpiresAt: expiresAt,
			}); err != nil {
				return models.Booking{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Msg: "failed to commit", Err: err}
	}

	if b.Type == models.TypePassenger {
		for _, seat := range b.Seats {
			if err := s.HoldIndex.Place(ctx, trip.ID, seat, id, s.holdTTL()); err != nil {
				utils.LogEvent(s.RequestID, "booking", "create", "hold index place failed: "+err.Error())
				break
			}
		}
		observability.SeatHoldsActive.Add(float64(len(b.Seats)))
	}

	b.ID = id
	b.Status = models.StatusPending
	utils.LogEvent(s.RequestID, "booking", "create", fmt.Sprintf("booking_id=%d type=%s seats=%d", id, b.Type, len(b.Seats)))
	return b, nil
}

// UpdateStatus applies trip-lifecycle transitions. Cancelling a Pending
// seated booking releases its holds.
func (s BookingService) UpdateStatus(ctx context.Context, bookingID int64, to string) error {
	if bookingID <= 0 {
		return domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return domain.InternalError{Msg: "failed to start transaction", Err: err}
	}
	defer tx.Rollback()

	txBookings := repositories.BookingRepository{Q: tx}
	txTrips := repositories.TripRepository{Q: tx}

	booking, err := txBookings.GetByID(bookingID)
	if err != nil {
		return err
	}
	if !models.CanTransition(booking.Status, to) {
		return domain.ConflictError{Resource: "booking", Msg: fmt.Sprintf("cannot move from %s to %s", booking.Status, to)}
	}

	var seats []string
	if to == models.StatusCancelled && booking.ScheduledTripID > 0 {
		seats, err = txBookings.GetSeats(bookingID)
		if err != nil {
			return err
		}
	}

	if err := txBookings.UpdateStatus(bookingID, to, ""); err != nil {
		return err
	}
	if to == models.StatusCancelled && booking.ScheduledTripID > 0 {
		if err := txTrips.ReleaseHolds(booking.ScheduledTripID, bookingID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.InternalError{Msg: "failed to commit", Err: err}
	}

	if len(seats) > 0 {
		if err := s.HoldIndex.Release(ctx, booking.ScheduledTripID, seats...); err != nil {
			utils.LogEvent(s.RequestID, "booking", "cancel", "hold index release failed: "+err.Error())
		}
		observability.SeatHoldsActive.Sub(float64(len(seats)))
	}

	utils.LogEvent(s.RequestID, "booking", "status", fmt.Sprintf("booking_id=%d %s -> %s", bookingID, booking.Status, to))
	return nil
}

// Detail loads a booking with its seats.
func (s BookingService) Detail(bookingID int64) (models.Booking, error) {
	booking, err := (repositories.BookingRepository{}).GetByID(bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	seats, err := (repositories.BookingRepository{}).GetSeats(bookingID)
	if err == nil {
		booking.Seats = seats
	}
	return booking, nil
}
