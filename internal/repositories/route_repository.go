package repositories

import (
	"database/sql"
	"errors"

	intconfig "transitpay/internal/config"
	intdb "transitpay/internal/db"
	"transitpay/internal/domain"
	"transitpay/internal/domain/models"
)

type RouteRepository struct {
	Q intdb.Querier
}

func (r RouteRepository) q() intdb.Querier {
	if r.Q != nil {
		return r.Q
	}
	return intconfig.DB
}

const routeColumns = `id, COALESCE(origin,''), COALESCE(destination,''), COALESCE(price_per_seat,0), COALESCE(charter_price,0), COALESCE(status,'active')`

func (r RouteRepository) GetByID(id int64) (models.Route, error) {
	if id <= 0 {
		return models.Route{}, domain.ValidationError{Field: "route_id", Msg: "invalid id"}
	}
	var rt models.Route
	err := r.q().QueryRow(`SELECT `+routeColumns+` FROM routes WHERE id=? LIMIT 1`, id).Scan(
		&rt.ID, &rt.Origin, &rt.Destination, &rt.PricePerSeat, &rt.CharterPrice, &rt.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Route{}, domain.NotFoundError{Resource: "route"}
	}
	return rt, err
}

func (r RouteRepository) List() ([]models.Route, error) {
	rows, err := r.q().Query(`SELECT ` + routeColumns + ` FROM routes ORDER BY origin ASC, destination ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Route{}
	for rows.Next() {
		var rt models.Route
		if err := rows.Scan(&rt.ID, &rt.Origin, &rt.Destination, &rt.PricePerSeat, &rt.CharterPrice, &rt.Status); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r RouteRepository) Create(rt models.Route) (int64, error) {
	res, err := r.q().Exec(`
		INSERT INTO routes (origin, destination, price_per_seat, charter_price, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())`,
		rt.Origin, rt.Destination, rt.PricePerSeat, rt.CharterPrice, rt.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r RouteRepository) Update(rt models.Route) error {
	if rt.ID <= 0 {
		return domain.ValidationError{Field: "route_id", Msg: "invalid id"}
	}
	res, err := r.q().Exec(`
		UPDATE routes SET origin=?, destination=?, price_per_seat=?, charter_price=?, status=?, updated_at=NOW() WHERE id=?`,
		rt.Origin, rt.Destination, rt.PricePerSeat, rt.CharterPrice, rt.Status, rt.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "route"}
	}
	return nil
}

func (r RouteRepository) Delete(id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "route_id", Msg: "invalid id"}
	}
	_, err := r.q().Exec(`DELETE FROM routes WHERE id=?`, id)
	return err
}
