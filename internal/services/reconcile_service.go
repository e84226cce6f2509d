package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"transitpay/internal/domain"
	"transitpay/internal/domain/models"
	"transitpay/internal/events"
	"transitpay/internal/holds"
	"transitpay/internal/observability"
	"transitpay/internal/paystack"
	"transitpay/internal/repositories"
	"transitpay/internal/utils"
)

// Verifier is the provider surface the reconciliation flow needs.
type Verifier interface {
	Verify(ctx context.Context, reference string) (paystack.TransactionData, json.RawMessage, error)
}

// BookingDetails is the payload returned to the client after verification.
type BookingDetails struct {
	Booking      models.Booking `json:"booking"`
	Seats        []string       `json:"seats,omitempty"`
	WifiSSID     string         `json:"wifi_ssid,omitempty"`
	WifiPassword string         `json:"wifi_password,omitempty"`
}

// ReconcileService settles bookings against verified provider payments.
// All mutation runs in one SQL transaction with every read issued before
// the first write.
type ReconcileService struct {
	DB        *sql.DB
	Provider  Verifier
	Events    *events.Publisher
	HoldIndex *holds.Index
	RequestID string
}

// VerifySeatedPayment reconciles a seated-trip booking: verify the reference
// with the provider, then atomically upsert the payment, move the booking
// Pending -> On Progress, and promote its seat holds to booked seats.
// Re-invocation on a settled booking is a no-op.
func (s ReconcileService) VerifySeatedPayment(ctx context.Context, reference string, bookingID int64) (BookingDetails, error) {
	if err := validateVerifyInput(reference, bookingID); err != nil {
		return BookingDetails{}, err
	}

	bookingRepo := repositories.BookingRepository{}
	booking, err := bookingRepo.GetByID(bookingID)
	if err != nil {
		return BookingDetails{}, err
	}

	// Already settled: report current state, mutate nothing.
	if booking.Status != models.StatusPending {
		utils.LogEvent(s.RequestID, "reconcile", "verify_seated", fmt.Sprintf("booking_id=%d already %s", bookingID, booking.Status))
		return s.loadDetails(booking)
	}

	data, raw, err := s.Provider.Verify(ctx, reference)
	if err != nil {
		observability.PaymentsVerified.WithLabelValues("error").Inc()
		return BookingDetails{}, err
	}
	if !data.Success() {
		observability.PaymentsVerified.WithLabelValues("failed").Inc()
		return BookingDetails{}, domain.PaymentFailedError{Reference: reference}
	}
	observability.PaymentsVerified.WithLabelValues("success").Inc()

	tx, err := s.DB.Begin()
	if err != nil {
		return BookingDetails{}, domain.InternalError{Msg: "failed to start transaction", Err: err}
	}
	defer tx.Rollback()

	txBookings := repositories.BookingRepository{Q: tx}
	txTrips := repositories.TripRepository{Q: tx}
	txPayments := repositories.PaymentRepository{Q: tx}
	txVehicles := repositories.VehicleRepository{Q: tx}

	// Reads, all of them, before any write. The locking re-read makes a
	// concurrent verification of the same booking wait, then observe the
	// settled status instead of a stale Pending snapshot.
	booking, err = txBookings.GetByIDForUpdate(bookingID)
	if err != nil {
		return BookingDetails{}, err
	}
	if booking.Status != models.StatusPending {
		// Lost the race to a concurrent verification; treat as settled.
		utils.LogEvent(s.RequestID, "reconcile", "verify_seated", fmt.Sprintf("booking_id=%d settled concurrently", bookingID))
		return s.loadDetails(booking)
	}

	seats, err := txBookings.GetSeats(bookingID)
	if err != nil {
		return BookingDetails{}, err
	}

	if booking.ScheduledTripID <= 0 {
		return BookingDetails{}, domain.InternalError{Msg: "booking has no scheduled trip"}
	}
	trip, err := txTrips.GetByID(booking.ScheduledTripID)
	if err != nil {
		// Missing trip aborts the whole transaction.
		return BookingDetails{}, err
	}

	var vehicle models.Vehicle
	if trip.VehicleID > 0 {
		if v, err := txVehicles.GetByID(trip.VehicleID); err == nil {
			vehicle = v
		}
	}

	alreadyBooked := map[string]bool{}
	for _, seat := range seats {
		taken, err := txTrips.BookedSeatExists(trip.ID, seat)
		if err != nil {
			return BookingDetails{}, err
		}
		alreadyBooked[seat] = taken
	}

	// Writes.
	if err := txPayments.Upsert(models.Payment{
		Reference:     reference,
		BookingID:     bookingID,
		Amount:        utils.KoboToNaira(data.Amount),
		Status:        models.PaymentSuccess,
		Channel:       data.Channel,
		CustomerEmail: data.Customer.Email,
		PaidAt:        data.PaidAt,
		RawData:       raw,
	}); err != nil {
		return BookingDetails{}, err
	}

	if err := txBookings.UpdateStatus(bookingID, models.StatusOnProgress, reference); err != nil {
		return BookingDetails{}, err
	}

	if err := txTrips.ReleaseHolds(trip.ID, bookingID); err != nil {
		return BookingDetails{}, err
	}
	for _, seat := range seats {
		if alreadyBooked[seat] {
			continue
		}
		if err := txTrips.BookSeat(models.BookedSeat{
			TripID:        trip.ID,
			SeatCode:      seat,
			BookingID:     bookingID,
			PassengerName: booking.PassengerName,
		}); err != nil {
			return BookingDetails{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return BookingDetails{}, domain.InternalError{Msg: "failed to commit", Err: err}
	}

	if err := s.HoldIndex.Release(ctx, trip.ID, seats...); err != nil {
		utils.LogEvent(s.RequestID, "reconcile", "verify_seated", "hold index release failed: "+err.Error())
	}
	observability.SeatHoldsActive.Sub(float64(len(seats)))

	s.Events.Publish(events.BookingConfirmed, map[string]any{
		"booking_id": bookingID,
		"reference":  reference,
		"type":       booking.Type,
		"seats":      seats,
	})
	utils.LogEvent(s.RequestID, "reconcile", "verify_seated", fmt.Sprintf("booking_id=%d reference=%s seats=%d", bookingID, reference, len(seats)))

	booking.Status = models.StatusOnProgress
	booking.PaymentReference = reference
	return BookingDetails{
		Booking:      booking,
		Seats:        seats,
		WifiSSID:     vehicle.WifiSSID,
		WifiPassword: vehicle.WifiPassword,
	}, nil
}

// VerifyCharterPayment reconciles a charter booking. Same state machine with
// fewer transitions: no seat or trip bookkeeping, Pending -> Confirmed.
func (s ReconcileService) VerifyCharterPayment(ctx context.Context, reference string, bookingID int64) (BookingDetails, error) {
	if err := validateVerifyInput(reference, bookingID); err != nil {
		return BookingDetails{}, err
	}

	bookingRepo := repositories.BookingRepository{}
	booking, err := bookingRepo.GetByID(bookingID)
	if err != nil {
		return BookingDetails{}, err
	}
	if booking.Type != models.TypeCharter && booking.Type != models.TypeLogistics {
		return BookingDetails{}, domain.ValidationError{Field: "booking_id", Msg: "not a charter booking"}
	}
	if booking.Status != models.StatusPending {
		utils.LogEvent(s.RequestID, "reconcile", "verify_charter", fmt.Sprintf("booking_id=%d already %s", bookingID, booking.Status))
		return BookingDetails{Booking: booking}, nil
	}

	data, raw, err := s.Provider.Verify(ctx, reference)
	if err != nil {
		observability.PaymentsVerified.WithLabelValues("error").Inc()
		return BookingDetails{}, err
	}
	if !data.Success() {
		observability.PaymentsVerified.WithLabelValues("failed").Inc()
		return BookingDetails{}, domain.PaymentFailedError{Reference: reference}
	}
	observability.PaymentsVerified.WithLabelValues("success").Inc()

	tx, err := s.DB.Begin()
	if err != nil {
		return BookingDetails{}, domain.InternalError{Msg: "failed to start transaction", Err: err}
	}
	defer tx.Rollback()

	txBookings := repositories.BookingRepository{Q: tx}
	txPayments := repositories.PaymentRepository{Q: tx}

	booking, err = txBookings.GetByIDForUpdate(bookingID)
	if err != nil {
		return BookingDetails{}, err
	}
	if booking.Status != models.StatusPending {
		return BookingDetails{Booking: booking}, nil
	}

	if err := txPayments.Upsert(models.Payment{
		Reference:     reference,
		BookingID:     bookingID,
		Amount:        utils.KoboToNaira(data.Amount),
		Status:        models.PaymentSuccess,
		Channel:       data.Channel,
		CustomerEmail: data.Customer.Email,
		PaidAt:        data.PaidAt,
		RawData:       raw,
	}); err != nil {
		return BookingDetails{}, err
	}
	if err := txBookings.UpdateStatus(bookingID, models.SettledStatus(booking.Type), reference); err != nil {
		return BookingDetails{}, err
	}

	if err := tx.Commit(); err != nil {
		return BookingDetails{}, domain.InternalError{Msg: "failed to commit", Err: err}
	}

	s.Events.Publish(events.BookingConfirmed, map[string]any{
		"booking_id": bookingID,
		"reference":  reference,
		"type":       booking.Type,
	})
	utils.LogEvent(s.RequestID, "reconcile", "verify_charter", fmt.Sprintf("booking_id=%d reference=%s", bookingID, reference))

	booking.Status = models.SettledStatus(booking.Type)
	booking.PaymentReference = reference
	return BookingDetails{Booking: booking}, nil
}

func (s ReconcileService) loadDetails(booking models.Booking) (BookingDetails, error) {
	details := BookingDetails{Booking: booking}

	seats, err := (repositories.BookingRepository{}).GetSeats(booking.ID)
	if err == nil {
		details.Seats = seats
	}

	if booking.ScheduledTripID > 0 {
		if trip, err := (repositories.TripRepository{}).GetByID(booking.ScheduledTripID); err == nil && trip.VehicleID > 0 {
			if v, err := (repositories.VehicleRepository{}).GetByID(trip.VehicleID); err == nil {
				details.WifiSSID = v.WifiSSID
				details.WifiPassword = v.WifiPassword
			}
		}
	}
	return details, nil
}

func validateVerifyInput(reference string, bookingID int64) error {
	if reference == "" {
		return domain.ValidationError{Field: "reference", Msg: "reference is required"}
	}
	if bookingID <= 0 {
		return domain.ValidationError{Field: "bookingId", Msg: "invalid booking id"}
	}
	return nil
}
