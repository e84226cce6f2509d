package repositories

import (
	"database/sql"
	"errors"

	intconfig "transitpay/internal/config"
	intdb "transitpay/internal/db"
	"transitpay/internal/domain"
	"transitpay/internal/domain/models"
)

type VehicleRepository struct {
	Q intdb.Querier
}

func (r VehicleRepository) q() intdb.Querier {
	if r.Q != nil {
		return r.Q
	}
	return intconfig.DB
}

const vehicleColumns = `id, COALESCE(name,''), COALESCE(plate_number,''), COALESCE(capacity,0),
	COALESCE(wifi_ssid,''), COALESCE(wifi_password,''), COALESCE(driver_id,0), COALESCE(status,'active')`

func (r VehicleRepository) GetByID(id int64) (models.Vehicle, error) {
	if id <= 0 {
		return models.Vehicle{}, domain.ValidationError{Field: "vehicle_id", Msg: "invalid id"}
	}
	var v models.Vehicle
	err := r.q().QueryRow(`SELECT `+vehicleColumns+` FROM vehicles WHERE id=? LIMIT 1`, id).Scan(
		&v.ID, &v.Name, &v.PlateNumber, &v.Capacity, &v.WifiSSID, &v.WifiPassword, &v.DriverID, &v.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
	}
	return v, err
}

func (r VehicleRepository) List() ([]models.Vehicle, error) {
	rows, err := r.q().Query(`SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Vehicle{}
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.PlateNumber, &v.Capacity, &v.WifiSSID, &v.WifiPassword, &v.DriverID, &v.Status); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r VehicleRepository) Create(v models.Vehicle) (int64, error) {
	res, err := r.q().Exec(`
		INSERT INTO vehicles (name, plate_number, capacity, wifi_ssid, wifi_password, driver_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		v.Name, v.PlateNumber, v.Capacity, intdb.NullIfEmpty(v.WifiSSID), intdb.NullIfEmpty(v.WifiPassword), nullIfZero(v.DriverID), v.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r VehicleRepository) Update(v models.Vehicle) error {
	if v.ID <= 0 {
		return domain.ValidationError{Field: "vehicle_id", Msg: "invalid id"}
	}
	res, err := r.q().Exec(`
		UPDATE vehicles SET name=?, plate_number=?, capacity=?, wifi_ssid=?, wifi_password=?, driver_id=?, status=?, updated_at=NOW()
		WHERE id=?`,
		v.Name, v.PlateNumber, v.Capacity, intdb.NullIfEmpty(v.WifiSSID), intdb.NullIfEmpty(v.WifiPassword), nullIfZero(v.DriverID), v.Status, v.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "vehicle"}
	}
	return nil
}

func (r VehicleRepository) Delete(id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "vehicle_id", Msg: "invalid id"}
	}
	_, err := r.q().Exec(`DELETE FROM vehicles WHERE id=?`, id)
	return err
}
