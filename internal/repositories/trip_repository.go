package repositories

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	intconfig "transitpay/internal/config"
	intdb "transitpay/internal/db"
	"transitpay/internal/domain"
	"transitpay/internal/domain/models"
)

// TripRepository owns scheduled trips plus their two seat sets: temporary
// holds and permanent booked seats. A seat code must never sit in both.
type TripRepository struct {
	Q intdb.Querier
}

func (r TripRepository) q() intdb.Querier {
	if r.Q != nil {
		return r.Q
	}
	return intconfig.DB
}

func (r TripRepository) GetByID(id int64) (models.ScheduledTrip, error) {
	if id <= 0 {
		return models.ScheduledTrip{}, domain.ValidationError{Field: "trip_id", Msg: "invalid id"}
	}

	query := `
		SELECT id,
		       COALESCE(vehicle_id,0),
		       COALESCE(route_from,''),
		       COALESCE(route_to,''),
		       COALESCE(trip_date,''),
		       COALESCE(trip_time,''),
		       COALESCE(status,''),
		       COALESCE(price_per_seat,0)
		FROM scheduled_trips
		WHERE id=? LIMIT 1`

	var t models.ScheduledTrip
	if err := r.q().QueryRow(query, id).Scan(
		&t.ID,
		&t.VehicleID,
		&t.RouteFrom,
		&t.RouteTo,
		&t.TripDate,
		&t.TripTime,
		&t.Status,
		&t.PricePerSeat,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ScheduledTrip{}, domain.NotFoundError{Resource: "scheduled trip"}
		}
		return models.ScheduledTrip{}, err
	}
	return t, nil
}

// Search lists trips by route and date. Empty filters match everything.
func (r TripRepository) Search(routeFrom, routeTo, tripDate string) ([]models.ScheduledTrip, error) {
	where := []string{"1=1"}
	args := []any{}
	if routeFrom = strings.TrimSpace(routeFrom); routeFrom != "" {
		where = append(where, "route_from=?")
		args = append(args, routeFrom)
	}
	if routeTo = strings.TrimSpace(routeTo); routeTo != "" {
		where = append(where, "route_to=?")
		args = append(args, routeTo)
	}
	if tripDate = strings.TrimSpace(tripDate); tripDate != "" {
		where = append(where, "trip_date=?")
		args = append(args, tripDate)
	}

	rows, err := r.q().Query(`
		SELECT id, COALESCE(vehicle_id,0), COALESCE(route_from,''), COALESCE(route_to,''),
		       COALESCE(trip_date,''), COALESCE(trip_time,''), COALESCE(status,''), COALESCE(price_per_seat,0)
		FROM scheduled_trips
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY trip_date ASC, trip_time ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ScheduledTrip{}
	for rows.Next() {
		var t models.ScheduledTrip
		if err := rows.Scan(&t.ID, &t.VehicleID, &t.RouteFrom, &t.RouteTo, &t.TripDate, &t.TripTime, &t.Status, &t.PricePerSeat); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r TripRepository) Create(t models.ScheduledTrip) (int64, error) {
	res, err := r.q().Exec(`
		INSERT INTO scheduled_trips (vehicle_id, route_from, route_to, trip_date, trip_time, status, price_per_seat, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		nullIfZero(t.VehicleID), t.RouteFrom, t.RouteTo, t.TripDate, t.TripTime, t.Status, t.PricePerSeat)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r TripRepository) Update(t models.ScheduledTrip) error {
	if t.ID <= 0 {
		return domain.ValidationError{Field: "trip_id", Msg: "invalid id"}
	}
	res, err := r.q().Exec(`
		UPDATE scheduled_trips
		SET vehicle_id=?, route_from=?, route_to=?, trip_date=?, trip_time=?, status=?, price_per_seat=?, updated_at=NOW()
		WHERE id=?`,
		nullIfZero(t.VehicleID), t.RouteFrom, t.RouteTo, t.TripDate, t.TripTime, t.Status, t.PricePerSeat, t.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "scheduled trip"}
	}
	return nil
}

func (r TripRepository) Delete(id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "trip_id", Msg: "invalid id"}
	}
	_, err := r.q().Exec(`DELETE FROM scheduled_trips WHERE id=?`, id)
	return err
}

// SeatTaken reports whether the seat is booked, or held by a live hold.
func (r TripRepository) SeatTaken(tripID int64, seatCode string, now time.Time) (bool, error) {
	var one int
	err := r.q().QueryRow(`SELECT 1 FROM trip_booked_seats WHERE trip_id=? AND seat_code=? LIMIT 1`, tripID, seatCode).Scan(&one)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	err = r.q().QueryRow(`SELECT 1 FROM trip_seat_holds WHERE trip_id=? AND seat_code=? AND expires_at > ? LIMIT 1`,
		tripID, seatCode, now).Scan(&one)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, err
}

// PlaceHold reserves a seat pending payment.
func (r TripRepository) PlaceHold(h models.SeatHold) error {
	_, err := r.q().Exec(`
		INSERT INTO trip_seat_holds (trip_id, seat_code, booking_id, held_by, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())`,
		h.TripID, h.SeatCode, h.BookingID, h.HeldBy, h.ExpiresAt)
	return err
}

// HoldsForBooking returns the hold rows a booking placed on a trip.
func (r TripRepository) HoldsForBooking(tripID, bookingID int64) ([]models.SeatHold, error) {
	rows, err := r.q().Query(`
		SELECT trip_id, seat_code, COALESCE(booking_id,0), COALESCE(held_by,''), expires_at
		FROM trip_seat_holds
		WHERE trip_id=? AND booking_id=?
		ORDER BY id ASC`, tripID, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.SeatHold{}
	for rows.Next() {
		var h models.SeatHold
		if err := rows.Scan(&h.TripID, &h.SeatCode, &h.BookingID, &h.HeldBy, &h.ExpiresAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ReleaseHolds drops a booking's holds on a trip.
func (r TripRepository) ReleaseHolds(tripID, bookingID int64) error {
	_, err := r.q().Exec(`DELETE FROM trip_seat_holds WHERE trip_id=? AND booking_id=?`, tripID, bookingID)
	return err
}

// BookSeat appends a permanent booked-seat row with its passenger pair.
func (r TripRepository) BookSeat(s models.BookedSeat) error {
	_, err := r.q().Exec(`
		INSERT INTO trip_booked_seats (trip_id, seat_code, booking_id, passenger_name, created_at)
		VALUES (?, ?, ?, ?, NOW())`,
		s.TripID, s.SeatCode, s.BookingID, s.PassengerName)
	return err
}

// BookedSeatExists guards against duplicate passenger entries on re-settles.
func (r TripRepository) BookedSeatExists(tripID int64, seatCode string) (bool, error) {
	var one int
	err := r.q().QueryRow(`SELECT 1 FROM trip_booked_seats WHERE trip_id=? AND seat_code=? LIMIT 1`, tripID, seatCode).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SeatState lists booked and live-held seat codes for the seat map.
func (r TripRepository) SeatState(tripID int64, now time.Time) (booked, held []string, err error) {
	rows, err := r.q().Query(`SELECT seat_code FROM trip_booked_seats WHERE trip_id=? ORDER BY seat_code ASC`, tripID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	booked = []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, nil, err
		}
		booked = append(booked, s)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	hrows, err := r.q().Query(`SELECT seat_code FROM trip_seat_holds WHERE trip_id=? AND expires_at > ? ORDER BY seat_code ASC`, tripID, now)
	if err != nil {
		return nil, nil, err
	}
	defer hrows.Close()
	held = []string{}
	for hrows.Next() {
		var s string
		if err := hrows.Scan(&s); err != nil {
			return nil, nil, err
		}
		held = append(held, s)
	}
	return booked, held, hrows.Err()
}
