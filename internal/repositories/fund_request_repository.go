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

type FundRequestRepository struct {
	Q intdb.Querier
}

func (r FundRequestRepository) q() intdb.Querier {
	if r.Q != nil {
		return r.Q
	}
	return intconfig.DB
}

func (r FundRequestRepository) Create(f models.FundRequest) (int64, error) {
	res, err := r.q().Exec(`
		INSERT INTO fund_requests (user_id, amount, bank_name, account_number, account_name, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		f.UserID, f.Amount, f.BankName, f.AccountNumber, f.AccountName, models.FundRequestPending)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r FundRequestRepository) GetByID(id int64) (models.FundRequest, error) {
	if id <= 0 {
		return models.FundRequest{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}

	var f models.FundRequest
	err := r.q().QueryRow(`
		SELECT id, user_id, amount, COALESCE(bank_name,''), COALESCE(account_number,''), COALESCE(account_name,''), status, created_at, updated_at
		FROM fund_requests WHERE id=? LIMIT 1`, id).Scan(
		&f.ID, &f.UserID, &f.Amount, &f.BankName, &f.AccountNumber, &f.AccountName, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FundRequest{}, domain.NotFoundError{Resource: "fund request"}
	}
	return f, err
}

// List returns fund requests, optionally filtered by status.
func (r FundRequestRepository) List(status string) ([]models.FundRequest, error) {
	query := `
		SELECT id, user_id, amount, COALESCE(bank_name,''), COALESCE(account_number,''), COALESCE(account_name,''), status, created_at, updated_at
		FROM fund_requests`
	args := []any{}
	if status = strings.TrimSpace(status); status != "" {
		query += ` WHERE status=?`
		args = append(args, status)
	}
	query += ` ORDER BY id DESC`

	rows, err := r.q().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.FundRequest{}
	for rows.Next() {
		var f models.FundRequest
		if err := rows.Scan(&f.ID, &f.UserID, &f.Amount, &f.BankName, &f.AccountNumber, &f.AccountName, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// UpdateStatus settles a pending request. Only pending rows move.
func (r FundRequestRepository) UpdateStatus(id int64, status string) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	res, err := r.q().Exec(`
		UPDATE fund_requests SET status=?, updated_at=NOW()
		WHERE id=? AND status=?`, status, id, models.FundRequestPending)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ConflictError{Resource: "fund request", Msg: "not pending"}
	}
	return nil
}
