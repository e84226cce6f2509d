package services

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"transitpay/internal/domain"
	"transitpay/internal/domain/models"
	"transitpay/internal/events"
	"transitpay/internal/observability"
	"transitpay/internal/paystack"
	"transitpay/internal/repositories"
	"transitpay/internal/utils"
)

// WebhookService processes provider push notifications. It performs the same
// payment-upsert and booking-status update as the client-invoked paths but
// never touches seat holds: the client verification endpoint owns seat
// movement. A seated booking settled here with holds still outstanding is
// logged as a warning (latent inconsistency carried from the source system).
type WebhookService struct {
	DB        *sql.DB
	Events    *events.Publisher
	RequestID string
}

// Process dispatches a webhook event. Per-record errors are returned for
// logging but the HTTP layer still answers 200: the provider does not retry
// a 200 and must not be made to retry transient handler bugs forever.
func (s WebhookService) Process(evt paystack.Event) error {
	observability.WebhookEvents.WithLabelValues(evt.Event).Inc()

	switch evt.Event {
	case paystack.EventChargeSuccess:
		return s.handleChargeSuccess(evt.Data)
	case paystack.EventChargeFailed:
		return s.handleChargeFailed(evt.Data)
	default:
		utils.LogEvent(s.RequestID, "webhook", "ignore", "event="+evt.Event)
		return nil
	}
}

func (s WebhookService) handleChargeSuccess(raw json.RawMessage) error {
	var data paystack.TransactionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.ValidationError{Field: "data", Msg: "malformed charge payload", Err: err}
	}
	if data.Reference == "" {
		return domain.ValidationError{Field: "reference", Msg: "charge without reference"}
	}

	if data.Metadata.Purpose.String() == paystack.PurposeWalletFunding {
		return s.creditWallet(data, raw)
	}
	return s.settleBooking(data, raw)
}

// settleBooking records the payment and flips the booking status. Seat holds
// are deliberately left alone on this path.
func (s WebhookService) settleBooking(data paystack.TransactionData, raw json.RawMessage) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return domain.InternalError{Msg: "failed to start transaction", Err: err}
	}
	defer tx.Rollback()

	txBookings := repositories.BookingRepository{Q: tx}
	txPayments := repositories.PaymentRepository{Q: tx}
	txTrips := repositories.TripRepository{Q: tx}

	// Reads before writes. The booking read locks the row, so a client
	// verification racing this delivery waits and re-reads the settled
	// status instead of settling a second time.
	var booking models.Booking
	haveBooking := false
	if id := repositories.ParseID(data.Metadata.BookingID.String()); id > 0 {
		if b, err := txBookings.GetByIDForUpdate(id); err == nil {
			booking = b
			haveBooking = true
		}
	}
	if !haveBooking {
		if b, err := txBookings.FindPendingByReference(data.Reference); err == nil {
			booking = b
			haveBooking = true
		}
	}

	outstandingHolds := 0
	if haveBooking && booking.Type == models.TypePassenger && booking.ScheduledTripID > 0 {
		if hs, err := txTrips.HoldsForBooking(booking.ScheduledTripID, booking.ID); err == nil {
			outstandingHolds = len(hs)
		}
	}

	payment := models.Payment{
		Reference:     data.Reference,
		Amount:        utils.KoboToNaira(data.Amount),
		Status:        models.PaymentSuccess,
		Channel:       data.Channel,
		CustomerEmail: data.Customer.Email,
		PaidAt:        data.PaidAt,
		RawData:       raw,
	}
	if haveBooking {
		payment.BookingID = booking.ID
	}
	if err := txPayments.Upsert(payment); err != nil {
		return err
	}

	if haveBooking && booking.Status == models.StatusPending {
		if err := txBookings.UpdateStatus(booking.ID, models.SettledStatus(booking.Type), data.Reference); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.InternalError{Msg: "failed to commit", Err: err}
	}

	if outstandingHolds > 0 {
		utils.LogEvent(s.RequestID, "webhook", "charge_success",
			fmt.Sprintf("booking_id=%d settled via webhook with %d seat holds outstanding; client verify endpoint owns seat movement", booking.ID, outstandingHolds))
	}

	if haveBooking {
		s.Events.Publish(events.BookingConfirmed, map[string]any{
			"booking_id": booking.ID,
			"reference":  data.Reference,
			"type":       booking.Type,
			"source":     "webhook",
		})
	}
	utils.LogEvent(s.RequestID, "webhook", "charge_success", "reference="+data.Reference)
	return nil
}

// creditWallet applies a wallet_funding charge: exactly one ledger row per
// reference, balance incremented by amount/100 in the same transaction.
func (s WebhookService) creditWallet(data paystack.TransactionData, raw json.RawMessage) error {
	userID := repositories.ParseID(data.Metadata.UserID.String())
	if userID <= 0 {
		return domain.ValidationError{Field: "metadata.user_id", Msg: "wallet funding without user id"}
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return domain.InternalError{Msg: "failed to start transaction", Err: err}
	}
	defer tx.Rollback()

	txWallets := repositories.WalletRepository{Q: tx}
	txPayments := repositories.PaymentRepository{Q: tx}

	// Reads before writes. The locking balance read serializes concurrent
	// credits for one reference; whoever arrives second sees the ledger row.
	if _, err := txWallets.GetBalanceForUpdate(userID); err != nil {
		return err
	}
	exists, err := txWallets.LedgerEntryExists(data.Reference)
	if err != nil {
		return err
	}

	if err := txPayments.Upsert(models.Payment{
		Reference:     data.Reference,
		Amount:        utils.KoboToNaira(data.Amount),
		Status:        models.PaymentSuccess,
		Channel:       data.Channel,
		CustomerEmail: data.Customer.Email,
		PaidAt:        data.PaidAt,
		RawData:       raw,
	}); err != nil {
		return err
	}

	if !exists {
		if err := txWallets.Credit(userID, utils.KoboToNaira(data.Amount), data.Reference, "wallet top-up"); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.InternalError{Msg: "failed to commit", Err: err}
	}

	if !exists {
		s.Events.Publish(events.WalletCredited, map[string]any{
			"user_id":   userID,
			"reference": data.Reference,
			"amount":    utils.KoboToNaira(data.Amount),
		})
	}
	utils.LogEvent(s.RequestID, "webhook", "wallet_funding",
		fmt.Sprintf("user_id=%d reference=%s credited=%t", userID, data.Reference, !exists))
	return nil
}

func (s WebhookService) handleChargeFailed(raw json.RawMessage) error {
	var data paystack.TransactionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.ValidationError{Field: "data", Msg: "malformed charge payload", Err: err}
	}
	if data.Reference == "" {
		return domain.ValidationError{Field: "reference", Msg: "charge without reference"}
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return domain.InternalError{Msg: "failed to start transaction", Err: err}
	}
	defer tx.Rollback()

	txBookings := repositories.BookingRepository{Q: tx}
	txPayments := repositories.PaymentRepository{Q: tx}

	var booking models.Booking
	haveBooking := false
	if id := repositories.ParseID(data.Metadata.BookingID.String()); id > 0 {
		if b, err := txBookings.GetByIDForUpdate(id); err == nil {
			booking = b
			haveBooking = true
		}
	}

	payment := models.Payment{
		Reference:     data.Reference,
		Amount:        utils.KoboToNaira(data.Amount),
		Status:        models.PaymentFailed,
		Channel:       data.Channel,
		CustomerEmail: data.Customer.Email,
		PaidAt:        data.PaidAt,
		RawData:       raw,
	}
	if haveBooking {
		payment.BookingID = booking.ID
	}
	if err := txPayments.Upsert(payment); err != nil {
		return err
	}

	if haveBooking && booking.Status == models.StatusPending {
		if err := txBookings.UpdateStatus(booking.ID, models.StatusPaymentFailed, ""); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.InternalError{Msg: "failed to commit", Err: err}
	}

	if haveBooking {
		s.Events.Publish(events.BookingPaymentFailed, map[string]any{
			"booking_id": booking.ID,
			"reference":  data.Reference,
		})
	}
	utils.LogEvent(s.RequestID, "webhook", "charge_failed", "reference="+data.Reference)
	return nil
}
