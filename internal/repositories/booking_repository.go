package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "transitpay/internal/config"
	intdb "transitpay/internal/db"
	"transitpay/internal/domain"
	"transitpay/internal/domain/models"
)

type BookingRepository struct {
	Q intdb.Querier
}

func (r BookingRepository) q() intdb.Querier {
	if r.Q != nil {
		return r.Q
	}
	return intconfig.DB
}

func (r BookingRepository) GetByID(id int64) (models.Booking, error) {
	return r.getByID(id, "")
}

// GetByIDForUpdate reads the booking under a row lock. Settlement
// transactions take this lock first so two verifications of the same
// reference serialize instead of both observing Pending.
func (r BookingRepository) GetByIDForUpdate(id int64) (models.Booking, error) {
	return r.getByID(id, " FOR UPDATE")
}

func (r BookingRepository) getByID(id int64, lock string) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}

	query := `
		SELECT id,
		       COALESCE(user_id,0),
		       COALESCE(type,''),
		       COALESCE(status,''),
		       COALESCE(route_from,''),
		       COALESCE(route_to,''),
		       COALESCE(trip_date,''),
		       COALESCE(trip_time,''),
		       COALESCE(scheduled_trip_id,0),
		       COALESCE(passenger_name,''),
		       COALESCE(passenger_phone,''),
		       COALESCE(passenger_count,0),
		       COALESCE(price,0),
		       COALESCE(payment_reference,'')
		FROM bookings
		WHERE id=? LIMIT 1` + lock

	var b models.Booking
	if err := r.q().QueryRow(query, id).Scan(
		&b.ID,
		&b.UserID,
		&b.Type,
		&b.Status,
		&b.RouteFrom,
		&b.RouteTo,
		&b.TripDate,
		&b.TripTime,
		&b.ScheduledTripID,
		&b.PassengerName,
		&b.PassengerPhone,
		&b.PassengerCount,
		&b.Price,
		&b.PaymentReference,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking"}
		}
		return models.Booking{}, err
	}
	return b, nil
}

// GetSeats returns the seat codes reserved by a booking, in insert order.
func (r BookingRepository) GetSeats(bookingID int64) ([]string, error) {
	if bookingID <= 0 {
		return nil, nil
	}
	rows, err := r.q().Query(`SELECT seat_code FROM booking_seats WHERE booking_id=? ORDER BY id ASC`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, strings.ToUpper(strings.TrimSpace(s)))
	}
	return out, rows.Err()
}

// Create inserts a Pending booking plus its seat rows. The client generates
// the provider reference before initializing the charge, so it lands here at
// checkout and the webhook can find the booking by reference alone.
func (r BookingRepository) Create(b models.Booking) (int64, error) {
	res, err := r.q().Exec(`
		INSERT INTO bookings
			(user_id, type, status, route_from, route_to, trip_date, trip_time,
			 scheduled_trip_id, passenger_name, passenger_phone, passenger_count, price,
			 payment_reference, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		nullIfZero(b.UserID),
		b.Type,
		models.StatusPending,
		b.RouteFrom,
		b.RouteTo,
		b.TripDate,
		b.TripTime,
		nullIfZero(b.ScheduledTripID),
		b.PassengerName,
		b.PassengerPhone,
		b.PassengerCount,
		b.Price,
		intdb.NullIfEmpty(b.PaymentReference),
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, seat := range b.Seats {
		if _, err := r.q().Exec(`INSERT INTO booking_seats (booking_id, seat_code) VALUES (?, ?)`, id, seat); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// UpdateStatus sets the booking status and optionally the payment reference.
func (r BookingRepository) UpdateStatus(id int64, status, paymentReference string) error {
	if id <= 0 {
		return domain.ValidationError{Field: "booking_id", Msg: "invalid id"}
	}

	sets := []string{"status=?", "updated_at=NOW()"}
	args := []any{strings.TrimSpace(status)}
	if paymentReference != "" {
		sets = append(sets, "payment_reference=?")
		args = append(args, paymentReference)
	}
	args = append(args, id)

	res, err := r.q().Exec(`UPDATE bookings SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

// FindPendingByReference locates the booking a webhook charge refers to when
// metadata only carries the reference. The reference is stored at checkout,
// before the charge is initialized. Runs inside the webhook transaction, so
// the booking comes back locked.
func (r BookingRepository) FindPendingByReference(reference string) (models.Booking, error) {
	if reference == "" {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	var id int64
	err := r.q().QueryRow(`SELECT id FROM bookings WHERE payment_reference=? LIMIT 1`, reference).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return models.Booking{}, err
	}
	return r.GetByIDForUpdate(id)
}
