package repositories

import (
	"database/sql"
	"errors"

	intconfig "transitpay/internal/config"
	intdb "transitpay/internal/db"
	"transitpay/internal/domain"
	"transitpay/internal/domain/models"
)

type DriverRepository struct {
	Q intdb.Querier
}

func (r DriverRepository) q() intdb.Querier {
	if r.Q != nil {
		return r.Q
	}
	return intconfig.DB
}

const driverColumns = `id, COALESCE(name,''), COALESCE(phone,''), COALESCE(license_number,''), COALESCE(status,'active')`

func (r DriverRepository) GetByID(id int64) (models.Driver, error) {
	if id <= 0 {
		return models.Driver{}, domain.ValidationError{Field: "driver_id", Msg: "invalid id"}
	}
	var d models.Driver
	err := r.q().QueryRow(`SELECT `+driverColumns+` FROM drivers WHERE id=? LIMIT 1`, id).Scan(
		&d.ID, &d.Name, &d.Phone, &d.LicenseNumber, &d.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Driver{}, domain.NotFoundError{Resource: "driver"}
	}
	return d, err
}

func (r DriverRepository) List() ([]models.Driver, error) {
	rows, err := r.q().Query(`SELECT ` + driverColumns + ` FROM drivers ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Driver{}
	for rows.Next() {
		var d models.Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.LicenseNumber, &d.Status); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r DriverRepository) Create(d models.Driver) (int64, error) {
	res, err := r.q().Exec(`
		INSERT INTO drivers (name, phone, license_number, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())`,
		d.Name, d.Phone, d.LicenseNumber, d.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r DriverRepository) Update(d models.Driver) error {
	if d.ID <= 0 {
		return domain.ValidationError{Field: "driver_id", Msg: "invalid id"}
	}
	res, err := r.q().Exec(`
		UPDATE drivers SET name=?, phone=?, license_number=?, status=?, updated_at=NOW() WHERE id=?`,
		d.Name, d.Phone, d.LicenseNumber, d.Status, d.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "driver"}
	}
	return nil
}

func (r DriverRepository) Delete(id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "driver_id", Msg: "invalid id"}
	}
	_, err := r.q().Exec(`DELETE FROM drivers WHERE id=?`, id)
	return err
}
