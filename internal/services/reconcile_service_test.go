package services

import (
	"context"
	"encoding/json"
	"testing"

	intconfig "transitpay/internal/config"
	"transitpay/internal/domain"
	"transitpay/internal/domain/models"
	"transitpay/internal/paystack"

	"github.com/DATA-DOG/go-sqlmock"
)

type fakeVerifier struct {
	data   paystack.TransactionData
	raw    json.RawMessage
	err    error
	called bool
}

func (f *fakeVerifier) Verify(ctx context.Context, reference string) (paystack.TransactionData, json.RawMessage, error) {
	f.called = true
	return f.data, f.raw, f.err
}

var bookingColumns = []string{
	"id", "user_id", "type", "status", "route_from", "route_to", "trip_date", "trip_time",
	"scheduled_trip_id", "passenger_name", "passenger_phone", "passenger_count", "price", "payment_reference",
}

func bookingRow(id int64, bookingType, status string, tripID int64) *sqlmock.Rows {
	return sqlmock.NewRows(bookingColumns).
		AddRow(id, 10, bookingType, status, "Lagos", "Abuja", "2026-09-01", "08:00", tripID, "Ada Obi", "08030000000", 2, 15000, "")
}

func tripRow(id, vehicleID int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "vehicle_id", "route_from", "route_to", "trip_date", "trip_time", "status", "price_per_seat"}).
		AddRow(id, vehicleID, "Lagos", "Abuja", "2026-09-01", "08:00", "scheduled", 7500)
}

func vehicleRow(id int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "plate_number", "capacity", "wifi_ssid", "wifi_password", "driver_id", "status"}).
		AddRow(id, "Marcopolo 1", "ABC-123-XY", 14, "transit-wifi", "ride2026", 4, "active")
}

func seatRows(seats ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"seat_code"})
	for _, s := range seats {
		rows.AddRow(s)
	}
	return rows
}

func successfulCharge(reference string, kobo int64) paystack.TransactionData {
	return paystack.TransactionData{
		Reference: reference,
		Status:    "success",
		Amount:    kobo,
		Channel:   "card",
	}
}

func TestVerifySeatedPaymentSettlesBookingAndSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	mock.MatchExpectationsInOrder(false)

	// Pre-check read outside the transaction, then a locked re-read inside it.
	mock.ExpectQuery("FROM bookings").WithArgs(int64(1)).WillReturnRows(bookingRow(1, models.TypePassenger, models.StatusPending, 7))
	mock.ExpectBegin()
	mock.ExpectQuery("WHERE id=. LIMIT 1 FOR UPDATE").WithArgs(int64(1)).WillReturnRows(bookingRow(1, models.TypePassenger, models.StatusPending, 7))
	mock.ExpectQuery("FROM booking_seats").WithArgs(int64(1)).WillReturnRows(seatRows("A1", "A2"))
	mock.ExpectQuery("FROM scheduled_trips").WithArgs(int64(7)).WillReturnRows(tripRow(7, 3))
	mock.ExpectQuery("FROM vehicles").WithArgs(int64(3)).WillReturnRows(vehicleRow(3))
	mock.ExpectQuery("FROM trip_booked_seats").WithArgs(int64(7), "A1").WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectQuery("FROM trip_booked_seats").WithArgs(int64(7), "A2").WillReturnRows(sqlmock.NewRows([]string{"1"}))

	mock.ExpectExec("INSERT INTO payments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE bookings SET").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM trip_seat_holds").WithArgs(int64(7), int64(1)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO trip_booked_seats").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO trip_booked_seats").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	provider := &fakeVerifier{data: successfulCharge("ref-100", 1500000), raw: json.RawMessage(`{"reference":"ref-100"}`)}
	svc := ReconcileService{DB: db, Provider: provider}

	details, err := svc.VerifySeatedPayment(context.Background(), "ref-100", 1)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if !provider.called {
		t.Fatal("provider was not called")
	}
	if details.Booking.Status != models.StatusOnProgress {
		t.Fatalf("expected status %q, got %q", models.StatusOnProgress, details.Booking.Status)
	}
	if details.Booking.PaymentReference != "ref-100" {
		t.Fatalf("expected payment reference set, got %q", details.Booking.PaymentReference)
	}
	if len(details.Seats) != 2 {
		t.Fatalf("expected 2 seats, got %v", details.Seats)
	}
	if details.WifiSSID != "transit-wifi" || details.WifiPassword != "ride2026" {
		t.Fatalf("expected wifi credentials from vehicle, got %q/%q", details.WifiSSID, details.WifiPassword)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifySeatedPaymentNoOpWhenAlreadySettled(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery("FROM bookings").WithArgs(int64(1)).WillReturnRows(bookingRow(1, models.TypePassenger, models.StatusOnProgress, 7))
	// Detail loads only; no transaction, no writes.
	mock.ExpectQuery("FROM booking_seats").WithArgs(int64(1)).WillReturnRows(seatRows("A1", "A2"))
	mock.ExpectQuery("FROM scheduled_trips").WithArgs(int64(7)).WillReturnRows(tripRow(7, 3))
	mock.ExpectQuery("FROM vehicles").WithArgs(int64(3)).WillReturnRows(vehicleRow(3))

	provider := &fakeVerifier{}
	svc := ReconcileService{DB: db, Provider: provider}

	details, err := svc.VerifySeatedPayment(context.Background(), "ref-100", 1)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if provider.called {
		t.Fatal("provider must not be called for a settled booking")
	}
	if details.Booking.Status != models.StatusOnProgress {
		t.Fatalf("expected current status reported, got %q", details.Booking.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifySeatedPaymentYieldsWhenLockedReadSeesSettled(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	mock.MatchExpectationsInOrder(false)

	// Pending outside the transaction, but the locked re-read comes back
	// settled: another verification of the same reference committed while
	// this one waited on the row lock. No writes may follow.
	mock.ExpectQuery("FROM bookings").WithArgs(int64(1)).WillReturnRows(bookingRow(1, models.TypePassenger, models.StatusPending, 7))
	mock.ExpectBegin()
	mock.ExpectQuery("WHERE id=. LIMIT 1 FOR UPDATE").WithArgs(int64(1)).WillReturnRows(bookingRow(1, models.TypePassenger, models.StatusOnProgress, 7))
	mock.ExpectRollback()
	// Detail loads outside the transaction.
	mock.ExpectQuery("FROM booking_seats").WithArgs(int64(1)).WillReturnRows(seatRows("A1", "A2"))
	mock.ExpectQuery("FROM scheduled_trips").WithArgs(int64(7)).WillReturnRows(tripRow(7, 3))
	mock.ExpectQuery("FROM vehicles").WithArgs(int64(3)).WillReturnRows(vehicleRow(3))

	provider := &fakeVerifier{data: successfulCharge("ref-100", 1500000)}
	svc := ReconcileService{DB: db, Provider: provider}

	details, err := svc.VerifySeatedPayment(context.Background(), "ref-100", 1)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if details.Booking.Status != models.StatusOnProgress {
		t.Fatalf("expected settled status reported, got %q", details.Booking.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifySeatedPaymentProviderReportsFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("FROM bookings").WithArgs(int64(1)).WillReturnRows(bookingRow(1, models.TypePassenger, models.StatusPending, 7))

	provider := &fakeVerifier{data: paystack.TransactionData{Reference: "ref-100", Status: "failed"}}
	svc := ReconcileService{DB: db, Provider: provider}

	_, err = svc.VerifySeatedPayment(context.Background(), "ref-100", 1)
	if !domain.IsPaymentFailed(err) {
		t.Fatalf("expected payment failed error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifySeatedPaymentMissingTripAbortsTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery("FROM bookings").WithArgs(int64(1)).WillReturnRows(bookingRow(1, models.TypePassenger, models.StatusPending, 7))
	mock.ExpectBegin()
	mock.ExpectQuery("WHERE id=. LIMIT 1 FOR UPDATE").WithArgs(int64(1)).WillReturnRows(bookingRow(1, models.TypePassenger, models.StatusPending, 7))
	mock.ExpectQuery("FROM booking_seats").WithArgs(int64(1)).WillReturnRows(seatRows("A1"))
	mock.ExpectQuery("FROM scheduled_trips").WithArgs(int64(7)).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	provider := &fakeVerifier{data: successfulCharge("ref-100", 1500000)}
	svc := ReconcileService{DB: db, Provider: provider}

	_, err = svc.VerifySeatedPayment(context.Background(), "ref-100", 1)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyCharterPaymentConfirmsBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery("FROM bookings").WithArgs(int64(2)).WillReturnRows(bookingRow(2, models.TypeCharter, models.StatusPending, 0))
	mock.ExpectBegin()
	mock.ExpectQuery("WHERE id=. LIMIT 1 FOR UPDATE").WithArgs(int64(2)).WillReturnRows(bookingRow(2, models.TypeCharter, models.StatusPending, 0))
	mock.ExpectExec("INSERT INTO payments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE bookings SET").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	provider := &fakeVerifier{data: successfulCharge("ref-200", 50000000)}
	svc := ReconcileService{DB: db, Provider: provider}

	details, err := svc.VerifyCharterPayment(context.Background(), "ref-200", 2)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if details.Booking.Status != models.StatusConfirmed {
		t.Fatalf("expected status %q, got %q", models.StatusConfirmed, details.Booking.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyCharterPaymentConfirmsLogisticsBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery("FROM bookings").WithArgs(int64(3)).WillReturnRows(bookingRow(3, models.TypeLogistics, models.StatusPending, 0))
	mock.ExpectBegin()
	mock.ExpectQuery("WHERE id=. LIMIT 1 FOR UPDATE").WithArgs(int64(3)).WillReturnRows(bookingRow(3, models.TypeLogistics, models.StatusPending, 0))
	mock.ExpectExec("INSERT INTO payments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE bookings SET").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	provider := &fakeVerifier{data: successfulCharge("ref-201", 30000000)}
	svc := ReconcileService{DB: db, Provider: provider}

	details, err := svc.VerifyCharterPayment(context.Background(), "ref-201", 3)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	// Must match what the webhook settles logistics to.
	if details.Booking.Status != models.SettledStatus(models.TypeLogistics) {
		t.Fatalf("expected %q, got %q", models.SettledStatus(models.TypeLogistics), details.Booking.Status)
	}
	if details.Booking.Status != models.StatusConfirmed {
		t.Fatalf("expected logistics to confirm, got %q", details.Booking.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyCharterPaymentRejectsSeatedBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("FROM bookings").WithArgs(int64(1)).WillReturnRows(bookingRow(1, models.TypePassenger, models.StatusPending, 7))

	svc := ReconcileService{DB: db, Provider: &fakeVerifier{}}

	_, err = svc.VerifyCharterPayment(context.Background(), "ref-100", 1)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestVerifySeatedPaymentValidatesInput(t *testing.T) {
	svc := ReconcileService{Provider: &fakeVerifier{}}

	if _, err := svc.VerifySeatedPayment(context.Background(), "", 1); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty reference, got %v", err)
	}
	if _, err := svc.VerifySeatedPayment(context.Background(), "ref", 0); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for zero booking id, got %v", err)
	}
}
