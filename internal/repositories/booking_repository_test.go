package repositories

import (
	"testing"

	intconfig "transitpay/internal/config"
	"transitpay/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var bookingCols = []string{
	"id", "user_id", "type", "status", "route_from", "route_to", "trip_date", "trip_time",
	"scheduled_trip_id", "passenger_name", "passenger_phone", "passenger_count", "price", "payment_reference",
}

func TestBookingGetByIDForUpdateLocksRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectQuery("FROM bookings(?s).+WHERE id=. LIMIT 1 FOR UPDATE").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(1, 10, models.TypePassenger, models.StatusPending, "Lagos", "Abuja", "2026-09-01", "08:00", 7, "Ada Obi", "08030000000", 2, 15000, ""))

	b, err := (BookingRepository{}).GetByIDForUpdate(1)
	if err != nil {
		t.Fatalf("locked read error: %v", err)
	}
	if b.Status != models.StatusPending {
		t.Fatalf("expected Pending, got %q", b.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingCreatePersistsPaymentReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(int64(10), models.TypePassenger, models.StatusPending, "Lagos", "Abuja", "2026-09-01", "08:00",
			int64(7), "Ada Obi", "08030000000", 2, int64(15000), "ref-500").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO booking_seats").WithArgs(int64(42), "A1").WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := (BookingRepository{}).Create(models.Booking{
		UserID:           10,
		Type:             models.TypePassenger,
		RouteFrom:        "Lagos",
		RouteTo:          "Abuja",
		TripDate:         "2026-09-01",
		TripTime:         "08:00",
		ScheduledTripID:  7,
		PassengerName:    "Ada Obi",
		PassengerPhone:   "08030000000",
		PassengerCount:   2,
		Price:            15000,
		PaymentReference: "ref-500",
		Seats:            []string{"A1"},
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected booking id 42, got %d", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingCreateNullsEmptyPaymentReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(nil, models.TypeCharter, models.StatusPending, "Lagos", "Ibadan", "2026-09-05", "",
			nil, "Ada Obi", "", 1, int64(250000), nil).
		WillReturnResult(sqlmock.NewResult(9, 1))

	id, err := (BookingRepository{}).Create(models.Booking{
		Type:           models.TypeCharter,
		RouteFrom:      "Lagos",
		RouteTo:        "Ibadan",
		TripDate:       "2026-09-05",
		PassengerName:  "Ada Obi",
		PassengerCount: 1,
		Price:          250000,
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if id != 9 {
		t.Fatalf("expected booking id 9, got %d", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
