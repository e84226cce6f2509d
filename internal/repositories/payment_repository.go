package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"

	intconfig "transitpay/internal/config"
	intdb "transitpay/internal/db"
	"transitpay/internal/domain"
	"transitpay/internal/domain/models"
)

// PaymentRepository persists provider payments keyed by reference. The
// reference is the primary key; Upsert never duplicates a row.
type PaymentRepository struct {
	Q intdb.Querier
}

func (r PaymentRepository) q() intdb.Querier {
	if r.Q != nil {
		return r.Q
	}
	return intconfig.DB
}

func (r PaymentRepository) GetByReference(reference string) (models.Payment, error) {
	if reference == "" {
		return models.Payment{}, domain.ValidationError{Field: "reference", Msg: "reference is required"}
	}

	query := `
		SELECT reference,
		       COALESCE(booking_id,0),
		       COALESCE(amount,0),
		       COALESCE(status,''),
		       COALESCE(channel,''),
		       COALESCE(customer_email,''),
		       COALESCE(paid_at,''),
		       COALESCE(raw_data,'')
		FROM payments
		WHERE reference=? LIMIT 1`

	var p models.Payment
	var raw string
	if err := r.q().QueryRow(query, reference).Scan(
		&p.Reference,
		&p.BookingID,
		&p.Amount,
		&p.Status,
		&p.Channel,
		&p.CustomerEmail,
		&p.PaidAt,
		&raw,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Payment{}, domain.NotFoundError{Resource: "payment"}
		}
		return models.Payment{}, err
	}
	if raw != "" {
		p.RawData = json.RawMessage(raw)
	}
	return p, nil
}

// Exists reports whether a payment row was already recorded for reference.
func (r PaymentRepository) Exists(reference string) (bool, error) {
	if reference == "" {
		return false, nil
	}
	var one int
	err := r.q().QueryRow(`SELECT 1 FROM payments WHERE reference=? LIMIT 1`, reference).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Upsert inserts the payment or refreshes the existing row for the same
// reference. Duplicate verifications update, never duplicate.
func (r PaymentRepository) Upsert(p models.Payment) error {
	if p.Reference == "" {
		return domain.ValidationError{Field: "reference", Msg: "reference is required"}
	}

	raw := ""
	if len(p.RawData) > 0 {
		raw = string(p.RawData)
	}

	_, err := r.q().Exec(`
		INSERT INTO payments (reference, booking_id, amount, status, channel, customer_email, paid_at, raw_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			booking_id=VALUES(booking_id),
			amount=VALUES(amount),
			status=VALUES(status),
			channel=VALUES(channel),
			customer_email=VALUES(customer_email),
			paid_at=VALUES(paid_at),
			raw_data=VALUES(raw_data),
			updated_at=NOW()`,
		p.Reference,
		nullIfZero(p.BookingID),
		p.Amount,
		p.Status,
		p.Channel,
		p.CustomerEmail,
		intdb.NullIfEmpty(p.PaidAt),
		intdb.NullIfEmpty(raw),
	)
	return err
}

// ListByDateRange returns stored payment references for the sync job.
func (r PaymentRepository) ListByDateRange(from, to string) ([]models.Payment, error) {
	rows, err := r.q().Query(`
		SELECT reference, COALESCE(booking_id,0), COALESCE(amount,0), COALESCE(status,'')
		FROM payments
		WHERE created_at BETWEEN ? AND ?
		ORDER BY created_at ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.Reference, &p.BookingID, &p.Amount, &p.Status); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
